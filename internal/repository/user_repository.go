package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diagnosis/travelmate/internal/domain"
)

type userRepository struct {
	coll *mongo.Collection
}

func NewUserRepository(db *mongo.Database) UserRepository {
	return &userRepository{coll: db.Collection(usersCollection)}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	ensureID(&u.ID)
	stamp(&u.CreatedAt, &u.UpdatedAt)
	return insertOne(ctx, r.coll, u)
}

func (r *userRepository) Save(ctx context.Context, u *domain.User) error {
	stamp(nil, &u.UpdatedAt)
	return replaceByID(ctx, r.coll, u.ID, u)
}

func (r *userRepository) SetProfileImage(ctx context.Context, id primitive.ObjectID, url string) error {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	_, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"profile_image": url, "updated_at": time.Now().UTC()}},
	)
	return err
}

func (r *userRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error) {
	return findOne[domain.User](ctx, r.coll, bson.M{"_id": id})
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return findOne[domain.User](ctx, r.coll, bson.M{"email": email})
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	if len(ids) == 0 {
		return []*domain.User{}, nil
	}
	return findMany[domain.User](ctx, r.coll, byIDs(ids))
}

func (r *userRepository) List(ctx context.Context) ([]*domain.User, error) {
	return findMany[domain.User](ctx, r.coll, bson.M{}, newestFirst("created_at"))
}

func (r *userRepository) CountByRole(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, r.coll, "role")
}
