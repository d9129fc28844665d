package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diagnosis/travelmate/internal/domain"
)

type destinationRepository struct {
	coll *mongo.Collection
}

func NewDestinationRepository(db *mongo.Database) DestinationRepository {
	return &destinationRepository{coll: db.Collection(destinationsCollection)}
}

func (r *destinationRepository) Create(ctx context.Context, d *domain.Destination) error {
	ensureID(&d.ID)
	stamp(&d.CreatedAt, &d.UpdatedAt)
	return insertOne(ctx, r.coll, d)
}

func (r *destinationRepository) Save(ctx context.Context, d *domain.Destination) error {
	stamp(nil, &d.UpdatedAt)
	return replaceByID(ctx, r.coll, d.ID, d)
}

func (r *destinationRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Destination, error) {
	return findOne[domain.Destination](ctx, r.coll, bson.M{"_id": id})
}

func (r *destinationRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Destination, error) {
	if len(ids) == 0 {
		return []*domain.Destination{}, nil
	}
	return findMany[domain.Destination](ctx, r.coll, byIDs(ids))
}

func (r *destinationRepository) List(ctx context.Context) ([]*domain.Destination, error) {
	return findMany[domain.Destination](ctx, r.coll, bson.M{}, newestFirst("created_at"))
}

func (r *destinationRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *destinationRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.coll, bson.M{})
}
