package repository

import (
	"context"
	"regexp"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diagnosis/travelmate/internal/domain"
)

type guideRepository struct {
	coll *mongo.Collection
}

func NewGuideRepository(db *mongo.Database) GuideRepository {
	return &guideRepository{coll: db.Collection(guidesCollection)}
}

func (r *guideRepository) Create(ctx context.Context, g *domain.Guide) error {
	ensureID(&g.ID)
	stamp(&g.CreatedAt, &g.UpdatedAt)
	return insertOne(ctx, r.coll, g)
}

func (r *guideRepository) UpdateProfile(ctx context.Context, id primitive.ObjectID, profile *domain.GuideProfileRequest, image *domain.Asset) (*domain.Guide, error) {
	set := bson.M{
		"bio":            profile.Bio,
		"experience":     profile.Experience,
		"price_per_hour": profile.PricePerHour,
		"location":       profile.Location,
		"languages":      profile.Languages,
		"updated_at":     time.Now().UTC(),
	}
	if image != nil {
		set["profile_image"] = image
	}
	return updateOne[domain.Guide](ctx, r.coll, bson.M{"_id": id}, bson.M{"$set": set})
}

func (r *guideRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Guide, error) {
	return findOne[domain.Guide](ctx, r.coll, bson.M{"_id": id})
}

func (r *guideRepository) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Guide, error) {
	return findOne[domain.Guide](ctx, r.coll, bson.M{"user": userID})
}

func (r *guideRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Guide, error) {
	if len(ids) == 0 {
		return []*domain.Guide{}, nil
	}
	return findMany[domain.Guide](ctx, r.coll, byIDs(ids))
}

func (r *guideRepository) List(ctx context.Context) ([]*domain.Guide, error) {
	return findMany[domain.Guide](ctx, r.coll, bson.M{}, newestFirst("created_at"))
}

func (r *guideRepository) ListByStatus(ctx context.Context, status domain.GuideStatus) ([]*domain.Guide, error) {
	return findMany[domain.Guide](ctx, r.coll, bson.M{"status": status}, newestFirst("created_at"))
}

func (r *guideRepository) ListVerifiedByLocation(ctx context.Context, location string, exclude primitive.ObjectID) ([]*domain.Guide, error) {
	filter := bson.M{
		"status": domain.GuideVerified,
		"location": primitive.Regex{
			Pattern: "^" + regexp.QuoteMeta(strings.TrimSpace(location)) + "$",
			Options: "i",
		},
	}
	if !exclude.IsZero() {
		filter["_id"] = bson.M{"$ne": exclude}
	}
	return findMany[domain.Guide](ctx, r.coll, filter, newestFirst("created_at"))
}

func (r *guideRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.GuideStatus) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx,
		bson.M{"_id": id},
		bson.M{"$set": bson.M{"status": status, "updated_at": time.Now().UTC()}},
	)
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}

func (r *guideRepository) CountByStatus(ctx context.Context) (map[string]int64, error) {
	return countBy(ctx, r.coll, "status")
}
