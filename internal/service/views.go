package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
)

// views joins documents with the summaries of the documents they reference.
type views struct {
	store *repository.Store
}

func uniqueIDs(ids []primitive.ObjectID) []primitive.ObjectID {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}

func (v *views) users(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.User, error) {
	out := make(map[primitive.ObjectID]*domain.User)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	users, err := v.store.Users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}
	for _, u := range users {
		out[u.ID] = u
	}
	return out, nil
}

func (v *views) guidesByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.Guide, error) {
	out := make(map[primitive.ObjectID]*domain.Guide)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	guides, err := v.store.Guides.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load guides: %w", err)
	}
	for _, g := range guides {
		out[g.ID] = g
	}
	return out, nil
}

func (v *views) tripsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.TripPlan, error) {
	out := make(map[primitive.ObjectID]*domain.TripPlan)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	trips, err := v.store.Trips.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load trips: %w", err)
	}
	for _, t := range trips {
		out[t.ID] = t
	}
	return out, nil
}

func (v *views) destinationsByID(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]*domain.Destination, error) {
	out := make(map[primitive.ObjectID]*domain.Destination)
	ids = uniqueIDs(ids)
	if len(ids) == 0 {
		return out, nil
	}
	dests, err := v.store.Destinations.FindByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to load destinations: %w", err)
	}
	for _, d := range dests {
		out[d.ID] = d
	}
	return out, nil
}

// guideViews attaches account summaries. public strips identity documents.
func (v *views) guideViews(ctx context.Context, guides []*domain.Guide, public bool) ([]*domain.GuideView, error) {
	ids := make([]primitive.ObjectID, 0, len(guides))
	for _, g := range guides {
		ids = append(ids, g.UserID)
	}
	users, err := v.users(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.GuideView, 0, len(guides))
	for _, g := range guides {
		gv := &domain.GuideView{Guide: g, User: users[g.UserID].Summary()}
		if public {
			gv.Guide = g.Public()
		}
		out = append(out, gv)
	}
	return out, nil
}

func (v *views) guideView(ctx context.Context, g *domain.Guide, public bool) (*domain.GuideView, error) {
	if g == nil {
		return nil, nil
	}
	list, err := v.guideViews(ctx, []*domain.Guide{g}, public)
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

func tripView(t *domain.TripPlan, d *domain.Destination) *domain.TripView {
	return &domain.TripView{TripPlan: t, Destination: d.Summary(), BudgetTotal: t.BudgetTotal()}
}

func (v *views) tripViews(ctx context.Context, trips []*domain.TripPlan) ([]*domain.TripView, error) {
	ids := make([]primitive.ObjectID, 0, len(trips))
	for _, t := range trips {
		ids = append(ids, t.DestinationID)
	}
	dests, err := v.destinationsByID(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.TripView, 0, len(trips))
	for _, t := range trips {
		out = append(out, tripView(t, dests[t.DestinationID]))
	}
	return out, nil
}

// bookingViews attaches trip, destination, guide and traveler summaries.
func (v *views) bookingViews(ctx context.Context, bookings []*domain.BookingRequest) ([]*domain.BookingView, error) {
	var tripIDs, guideIDs, travelerIDs []primitive.ObjectID
	for _, b := range bookings {
		tripIDs = append(tripIDs, b.TripID)
		guideIDs = append(guideIDs, b.GuideID)
		travelerIDs = append(travelerIDs, b.TravelerID)
	}

	trips, err := v.tripsByID(ctx, tripIDs)
	if err != nil {
		return nil, err
	}
	var destIDs []primitive.ObjectID
	for _, t := range trips {
		destIDs = append(destIDs, t.DestinationID)
	}
	dests, err := v.destinationsByID(ctx, destIDs)
	if err != nil {
		return nil, err
	}

	guides, err := v.guidesByID(ctx, guideIDs)
	if err != nil {
		return nil, err
	}
	for _, g := range guides {
		travelerIDs = append(travelerIDs, g.UserID)
	}
	users, err := v.users(ctx, travelerIDs)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.BookingView, 0, len(bookings))
	for _, b := range bookings {
		bv := &domain.BookingView{BookingRequest: b, Traveler: users[b.TravelerID].Summary()}
		if t, ok := trips[b.TripID]; ok {
			bv.Trip = t.Summary()
			bv.Destination = dests[t.DestinationID].Summary()
		}
		if g, ok := guides[b.GuideID]; ok {
			bv.Guide = &domain.GuideView{Guide: g.Public(), User: users[g.UserID].Summary()}
		}
		out = append(out, bv)
	}
	return out, nil
}

func (v *views) bookingView(ctx context.Context, b *domain.BookingRequest) (*domain.BookingView, error) {
	if b == nil {
		return nil, nil
	}
	list, err := v.bookingViews(ctx, []*domain.BookingRequest{b})
	if err != nil {
		return nil, err
	}
	return list[0], nil
}

func (v *views) reviewViews(ctx context.Context, reviews []*domain.Review) ([]*domain.ReviewView, error) {
	ids := make([]primitive.ObjectID, 0, len(reviews))
	for _, r := range reviews {
		ids = append(ids, r.TravelerID)
	}
	users, err := v.users(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, &domain.ReviewView{Review: r, Traveler: users[r.TravelerID].Summary()})
	}
	return out, nil
}

func (v *views) blogViews(ctx context.Context, blogs []*domain.Blog) ([]*domain.BlogView, error) {
	ids := make([]primitive.ObjectID, 0, len(blogs))
	for _, b := range blogs {
		ids = append(ids, b.AuthorID)
	}
	users, err := v.users(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.BlogView, 0, len(blogs))
	for _, b := range blogs {
		bv := &domain.BlogView{Blog: b}
		if u := users[b.AuthorID]; u != nil {
			bv.Author = &domain.UserSummary{ID: u.ID, Name: u.Name, Role: u.Role}
		}
		out = append(out, bv)
	}
	return out, nil
}
