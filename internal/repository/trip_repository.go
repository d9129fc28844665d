package repository

import (
	"context"
	"strconv"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/diagnosis/travelmate/internal/domain"
)

type tripRepository struct {
	coll *mongo.Collection
}

func NewTripRepository(db *mongo.Database) TripRepository {
	return &tripRepository{coll: db.Collection(tripsCollection)}
}

func (r *tripRepository) Create(ctx context.Context, t *domain.TripPlan) error {
	ensureID(&t.ID)
	stamp(&t.AddedAt, &t.UpdatedAt)
	return insertOne(ctx, r.coll, t)
}

func (r *tripRepository) AddItineraryDay(ctx context.Context, id primitive.ObjectID, day domain.ItineraryDay) (*domain.TripPlan, error) {
	return r.edit(ctx,
		bson.M{"_id": id, "itinerary.day": bson.M{"$ne": day.Day}},
		bson.M{"$push": bson.M{"itinerary": bson.M{"$each": bson.A{day}, "$sort": bson.M{"day": 1}}}},
	)
}

func (r *tripRepository) RemoveItineraryDay(ctx context.Context, id primitive.ObjectID, day int) (*domain.TripPlan, error) {
	return r.edit(ctx,
		bson.M{"_id": id, "itinerary.day": day},
		bson.M{"$pull": bson.M{"itinerary": bson.M{"day": day}}},
	)
}

func (r *tripRepository) AddBudgetItem(ctx context.Context, id primitive.ObjectID, item domain.BudgetItem) (*domain.TripPlan, error) {
	return r.edit(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"budget": item}})
}

func (r *tripRepository) RemoveBudgetCategory(ctx context.Context, id primitive.ObjectID, category string) (*domain.TripPlan, error) {
	return r.edit(ctx,
		bson.M{"_id": id, "budget.category": category},
		bson.M{"$pull": bson.M{"budget": bson.M{"category": category}}},
	)
}

func (r *tripRepository) AddPackingItem(ctx context.Context, id primitive.ObjectID, item domain.PackingItem) (*domain.TripPlan, error) {
	return r.edit(ctx, bson.M{"_id": id}, bson.M{"$push": bson.M{"packing_list": item}})
}

// TogglePackingItem flips packed on the item at index with a pipeline update
// so the read and the write happen in one step.
func (r *tripRepository) TogglePackingItem(ctx context.Context, id primitive.ObjectID, index int) (*domain.TripPlan, error) {
	list := bson.M{"$map": bson.M{
		"input": packingIndexes(),
		"in": bson.M{"$cond": bson.A{
			bson.M{"$eq": bson.A{"$$this", index}},
			bson.M{
				"name":   bson.M{"$arrayElemAt": bson.A{"$packing_list.name", "$$this"}},
				"packed": bson.M{"$not": bson.A{bson.M{"$arrayElemAt": bson.A{"$packing_list.packed", "$$this"}}}},
			},
			bson.M{"$arrayElemAt": bson.A{"$packing_list", "$$this"}},
		}},
	}}
	return r.packingAt(ctx, id, index, list)
}

func (r *tripRepository) RemovePackingItem(ctx context.Context, id primitive.ObjectID, index int) (*domain.TripPlan, error) {
	list := bson.M{"$map": bson.M{
		"input": bson.M{"$filter": bson.M{
			"input": packingIndexes(),
			"cond":  bson.M{"$ne": bson.A{"$$this", index}},
		}},
		"in": bson.M{"$arrayElemAt": bson.A{"$packing_list", "$$this"}},
	}}
	return r.packingAt(ctx, id, index, list)
}

func (r *tripRepository) SetNotes(ctx context.Context, id primitive.ObjectID, notes string) (*domain.TripPlan, error) {
	return r.edit(ctx, bson.M{"_id": id}, bson.M{"$set": bson.M{"notes": notes}})
}

// edit runs an update operator document and stamps updated_at.
func (r *tripRepository) edit(ctx context.Context, filter, update bson.M) (*domain.TripPlan, error) {
	set, _ := update["$set"].(bson.M)
	if set == nil {
		set = bson.M{}
		update["$set"] = set
	}
	set["updated_at"] = time.Now().UTC()
	return updateOne[domain.TripPlan](ctx, r.coll, filter, update)
}

// packingAt replaces packing_list with list, provided index addresses an item.
func (r *tripRepository) packingAt(ctx context.Context, id primitive.ObjectID, index int, list bson.M) (*domain.TripPlan, error) {
	if index < 0 {
		return nil, nil
	}
	filter := bson.M{"_id": id, "packing_list." + strconv.Itoa(index): bson.M{"$exists": true}}
	update := mongo.Pipeline{
		{{Key: "$set", Value: bson.D{
			{Key: "packing_list", Value: list},
			{Key: "updated_at", Value: time.Now().UTC()},
		}}},
	}
	return updateOne[domain.TripPlan](ctx, r.coll, filter, update)
}

func packingIndexes() bson.M {
	return bson.M{"$range": bson.A{0, bson.M{"$size": "$packing_list"}}}
}

func (r *tripRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.TripPlan, error) {
	return findOne[domain.TripPlan](ctx, r.coll, bson.M{"_id": id})
}

func (r *tripRepository) FindByUserAndDestination(ctx context.Context, userID, destinationID primitive.ObjectID) (*domain.TripPlan, error) {
	return findOne[domain.TripPlan](ctx, r.coll, bson.M{"user": userID, "destination": destinationID})
}

func (r *tripRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.TripPlan, error) {
	if len(ids) == 0 {
		return []*domain.TripPlan{}, nil
	}
	return findMany[domain.TripPlan](ctx, r.coll, byIDs(ids))
}

func (r *tripRepository) ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.TripPlan, error) {
	return findMany[domain.TripPlan](ctx, r.coll, bson.M{"user": userID}, newestFirst("added_at"))
}

func (r *tripRepository) Delete(ctx context.Context, id primitive.ObjectID) (bool, error) {
	return deleteByID(ctx, r.coll, id)
}

func (r *tripRepository) Count(ctx context.Context) (int64, error) {
	return count(ctx, r.coll, bson.M{})
}
