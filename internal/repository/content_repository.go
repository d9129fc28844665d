package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diagnosis/travelmate/internal/domain"
)

type chatRepository struct {
	coll *mongo.Collection
}

func NewChatRepository(db *mongo.Database) ChatRepository {
	return &chatRepository{coll: db.Collection(chatCollection)}
}

func (r *chatRepository) Create(ctx context.Context, m *domain.ChatMessage) error {
	ensureID(&m.ID)
	stamp(&m.CreatedAt, nil)
	return insertOne(ctx, r.coll, m)
}

func (r *chatRepository) ListByBooking(ctx context.Context, bookingID primitive.ObjectID) ([]*domain.ChatMessage, error) {
	return findMany[domain.ChatMessage](ctx, r.coll, bson.M{"booking": bookingID}, oldestFirst("created_at"))
}

type reviewRepository struct {
	coll *mongo.Collection
}

func NewReviewRepository(db *mongo.Database) ReviewRepository {
	return &reviewRepository{coll: db.Collection(reviewsCollection)}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	ensureID(&rv.ID)
	stamp(&rv.CreatedAt, nil)
	return insertOne(ctx, r.coll, rv)
}

func (r *reviewRepository) FindByBooking(ctx context.Context, bookingID primitive.ObjectID) (*domain.Review, error) {
	return findOne[domain.Review](ctx, r.coll, bson.M{"booking": bookingID})
}

func (r *reviewRepository) ListByGuide(ctx context.Context, guideID primitive.ObjectID, limit int64) ([]*domain.Review, error) {
	opts := newestFirst("created_at")
	if limit > 0 {
		opts.SetLimit(limit)
	}
	return findMany[domain.Review](ctx, r.coll, bson.M{"guide": guideID}, opts)
}

func (r *reviewRepository) RatingSummary(ctx context.Context, guideID primitive.ObjectID) (float64, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "guide", Value: guideID}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "avg", Value: bson.D{{Key: "$avg", Value: "$rating"}}},
			{Key: "n", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
	}
	cur, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, 0, err
	}
	defer cur.Close(ctx)

	var rows []struct {
		Avg   float64 `bson:"avg"`
		Count int64   `bson:"n"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return 0, 0, err
	}
	if len(rows) == 0 {
		return 0, 0, nil
	}
	return rows[0].Avg, rows[0].Count, nil
}

type blogRepository struct {
	coll *mongo.Collection
}

func NewBlogRepository(db *mongo.Database) BlogRepository {
	return &blogRepository{coll: db.Collection(blogsCollection)}
}

func (r *blogRepository) Create(ctx context.Context, b *domain.Blog) error {
	ensureID(&b.ID)
	stamp(&b.CreatedAt, &b.UpdatedAt)
	return insertOne(ctx, r.coll, b)
}

func (r *blogRepository) Save(ctx context.Context, b *domain.Blog) error {
	stamp(nil, &b.UpdatedAt)
	return replaceByID(ctx, r.coll, b.ID, b)
}

func (r *blogRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Blog, error) {
	return findOne[domain.Blog](ctx, r.coll, bson.M{"_id": id})
}

func (r *blogRepository) List(ctx context.Context) ([]*domain.Blog, error) {
	return findMany[domain.Blog](ctx, r.coll, bson.M{}, newestFirst("created_at"))
}

func (r *blogRepository) ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*domain.Blog, error) {
	return findMany[domain.Blog](ctx, r.coll, bson.M{"author": authorID}, newestFirst("created_at"))
}

func (r *blogRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *blogRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.coll, bson.M{})
}

type contactRepository struct {
	coll *mongo.Collection
}

func NewContactRepository(db *mongo.Database) ContactRepository {
	return &contactRepository{coll: db.Collection(contactsCollection)}
}

func (r *contactRepository) Create(ctx context.Context, c *domain.Contact) error {
	ensureID(&c.ID)
	stamp(&c.CreatedAt, nil)
	return insertOne(ctx, r.coll, c)
}

func (r *contactRepository) List(ctx context.Context) ([]*domain.Contact, error) {
	return findMany[domain.Contact](ctx, r.coll, bson.M{}, newestFirst("created_at"))
}

func (r *contactRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.coll, bson.M{})
}
