package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diagnosis/travelmate/internal/domain"
)

type bookingRepository struct {
	coll *mongo.Collection
}

func NewBookingRepository(db *mongo.Database) BookingRepository {
	return &bookingRepository{coll: db.Collection(bookingsCollection)}
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.BookingRequest) error {
	ensureID(&b.ID)
	stamp(&b.RequestedAt, &b.UpdatedAt)
	if b.Status == "" {
		b.Status = domain.BookingPending
	}
	return insertOne(ctx, r.coll, b)
}

func (r *bookingRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.BookingRequest, error) {
	return findOne[domain.BookingRequest](ctx, r.coll, bson.M{"_id": id})
}

func (r *bookingRepository) ListByGuide(ctx context.Context, guideID primitive.ObjectID, status *domain.BookingStatus) ([]*domain.BookingRequest, error) {
	filter := bson.M{"guide": guideID}
	if status != nil {
		filter["status"] = *status
	}
	return findMany[domain.BookingRequest](ctx, r.coll, filter, newestFirst("requested_at"))
}

func (r *bookingRepository) ListByTrip(ctx context.Context, tripID primitive.ObjectID) ([]*domain.BookingRequest, error) {
	return findMany[domain.BookingRequest](ctx, r.coll, bson.M{"trip": tripID}, newestFirst("requested_at"))
}

func (r *bookingRepository) ListByStatus(ctx context.Context, status domain.BookingStatus) ([]*domain.BookingRequest, error) {
	return findMany[domain.BookingRequest](ctx, r.coll, bson.M{"status": status}, newestFirst("requested_at"))
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.BookingStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id, "status": from},
		bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.ModifiedCount > 0, nil
}

func (r *bookingRepository) DeleteByTripAndStatus(ctx context.Context, tripID primitive.ObjectID, status domain.BookingStatus) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.DeleteMany(ctx, bson.M{"trip": tripID, "status": status})
	if err != nil {
		return 0, err
	}
	return res.DeletedCount, nil
}

func (r *bookingRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, r.coll, "status")
}
