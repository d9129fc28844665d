package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
)

type TripService interface {
	List(ctx context.Context, userID primitive.ObjectID) ([]*domain.TripView, error)
	// Add returns the existing trip and created=false when the destination is already planned.
	Add(ctx context.Context, userID, destinationID primitive.ObjectID, req *domain.CreateTripRequest) (trip *domain.TripView, created bool, err error)
	Details(ctx context.Context, userID, tripID primitive.ObjectID) (*domain.TripDetails, error)
	Delete(ctx context.Context, userID, tripID primitive.ObjectID) error

	AddItineraryDay(ctx context.Context, userID, tripID primitive.ObjectID, req *domain.ItineraryRequest) (*domain.TripView, error)
	RemoveItineraryDay(ctx context.Context, userID, tripID primitive.ObjectID, day int) (*domain.TripView, error)
	AddBudgetItem(ctx context.Context, userID, tripID primitive.ObjectID, req *domain.BudgetRequest) (*domain.TripView, error)
	RemoveBudgetCategory(ctx context.Context, userID, tripID primitive.ObjectID, category string) (*domain.TripView, error)
	AddPackingItem(ctx context.Context, userID, tripID primitive.ObjectID, req *domain.PackingRequest) (*domain.TripView, error)
	TogglePackingItem(ctx context.Context, userID, tripID primitive.ObjectID, index int) (*domain.TripView, error)
	RemovePackingItem(ctx context.Context, userID, tripID primitive.ObjectID, index int) (*domain.TripView, error)
	UpdateNotes(ctx context.Context, userID, tripID primitive.ObjectID, req *domain.NotesRequest) (*domain.TripView, error)

	// Guides lists verified guides located at the trip's destination.
	Guides(ctx context.Context, userID, tripID primitive.ObjectID) ([]*domain.GuideView, error)
	Booking(ctx context.Context, userID, tripID, bookingID primitive.ObjectID) (*domain.BookingView, error)
}

type tripService struct {
	store *repository.Store
	views *views
}

func NewTripService(store *repository.Store) TripService {
	return &tripService{store: store, views: &views{store: store}}
}

// ownedTrip loads a trip and checks it belongs to userID.
func ownedTrip(ctx context.Context, trips repository.TripRepository, userID, tripID primitive.ObjectID) (*domain.TripPlan, error) {
	t, err := trips.FindByID(ctx, tripID)
	if err != nil {
		return nil, fmt.Errorf("failed to get trip: %w", err)
	}
	if t == nil {
		return nil, domain.NotFound("Trip not found")
	}
	if !t.OwnedBy(userID) {
		return nil, domain.Forbidden("This trip belongs to another user")
	}
	return t, nil
}

func (s *tripService) List(ctx context.Context, userID primitive.ObjectID) ([]*domain.TripView, error) {
	trips, err := s.store.Trips.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trips: %w", err)
	}
	return s.views.tripViews(ctx, trips)
}

func (s *tripService) Add(ctx context.Context, userID, destinationID primitive.ObjectID, req *domain.CreateTripRequest) (*domain.TripView, bool, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, false, err
	}

	dest, err := s.store.Destinations.FindByID(ctx, destinationID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to get destination: %w", err)
	}
	if dest == nil {
		return nil, false, domain.NotFound("Destination not found")
	}

	existing, err := s.store.Trips.FindByUserAndDestination(ctx, userID, destinationID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to check existing trip: %w", err)
	}
	if existing != nil {
		return tripView(existing, dest), false, nil
	}

	t := &domain.TripPlan{
		UserID:        userID,
		DestinationID: destinationID,
		StartDate:     req.StartDate.Time,
		EndDate:       req.EndDate.Time,
		Notes:         req.Notes,
		Budget:        []domain.BudgetItem{},
		PackingList:   []domain.PackingItem{},
		Itinerary:     []domain.ItineraryDay{},
	}
	if err := s.store.Trips.Create(ctx, t); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race with a concurrent add for the same destination.
			existing, ferr := s.store.Trips.FindByUserAndDestination(ctx, userID, destinationID)
			if ferr == nil && existing != nil {
				return tripView(existing, dest), false, nil
			}
		}
		return nil, false, fmt.Errorf("failed to create trip: %w", err)
	}
	return tripView(t, dest), true, nil
}

func (s *tripService) Details(ctx context.Context, userID, tripID primitive.ObjectID) (*domain.TripDetails, error) {
	t, err := ownedTrip(ctx, s.store.Trips, userID, tripID)
	if err != nil {
		return nil, err
	}
	dest, err := s.store.Destinations.FindByID(ctx, t.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}

	bookings, err := s.store.Bookings.ListByTrip(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list trip bookings: %w", err)
	}

	// Bookings come newest first: prefer accepted over pending, keep the latest rejection.
	var current, rejected *domain.BookingRequest
	for _, b := range bookings {
		switch b.Status {
		case domain.BookingAccepted:
			if current == nil || current.Status != domain.BookingAccepted {
				current = b
			}
		case domain.BookingPending:
			if current == nil {
				current = b
			}
		case domain.BookingRejected:
			if rejected == nil {
				rejected = b
			}
		}
	}

	out := &domain.TripDetails{
		Trip:              tripView(t, dest),
		Destination:       dest,
		ShowBookingButton: current == nil,
	}
	if out.Booking, err = s.views.bookingView(ctx, current); err != nil {
		return nil, err
	}
	if out.Booking != nil {
		out.Guide = out.Booking.Guide
	}
	if out.RejectedBooking, err = s.views.bookingView(ctx, rejected); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *tripService) Delete(ctx context.Context, userID, tripID primitive.ObjectID) error {
	t, err := ownedTrip(ctx, s.store.Trips, userID, tripID)
	if err != nil {
		return err
	}

	bookings, err := s.store.Bookings.ListByTrip(ctx, t.ID)
	if err != nil {
		return fmt.Errorf("failed to list trip bookings: %w", err)
	}
	for _, b := range bookings {
		if b.Status.Active() {
			return domain.Conflict("Cannot delete a trip with a pending or accepted booking")
		}
	}

	if _, err := s.store.Bookings.DeleteByTripAndStatus(ctx, t.ID, domain.BookingRejected); err != nil {
		return fmt.Errorf("failed to delete rejected bookings: %w", err)
	}
	if _, err := s.store.Trips.Delete(ctx, t.ID); err != nil {
		return fmt.Errorf("failed to delete trip: %w", err)
	}
	return nil
}

// edit checks ownership, runs check against the loaded trip and then applies
// the single-field update. missing is returned when the update matched nothing.
func (s *tripService) edit(ctx context.Context, userID, tripID primitive.ObjectID, check func(t *domain.TripPlan) error, apply func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error), missing error) (*domain.TripView, error) {
	t, err := ownedTrip(ctx, s.store.Trips, userID, tripID)
	if err != nil {
		return nil, err
	}
	if check != nil {
		if err := check(t); err != nil {
			return nil, err
		}
	}

	updated, err := apply(ctx, s.store.Trips)
	if err != nil {
		return nil, fmt.Errorf("failed to save trip: %w", err)
	}
	if updated == nil {
		return nil, missing
	}

	dest, err := s.store.Destinations.FindByID(ctx, updated.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	return tripView(updated, dest), nil
}

func (s *tripService) AddItineraryDay(ctx context.Context, userID, tripID primitive.ObjectID, req *domain.ItineraryRequest) (*domain.TripView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	activities := []string(req.Activities)
	if activities == nil {
		activities = []string{}
	}
	day := domain.ItineraryDay{Day: req.Day, Title: req.Title, Activities: activities}

	return s.edit(ctx, userID, tripID,
		func(t *domain.TripPlan) error { return t.AddItineraryDay(day) },
		func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error) {
			return trips.AddItineraryDay(ctx, tripID, day)
		},
		domain.Conflict("Day %d is already planned", day.Day),
	)
}

func (s *tripService) RemoveItineraryDay(ctx context.Context, userID, tripID primitive.ObjectID, day int) (*domain.TripView, error) {
	return s.edit(ctx, userID, tripID,
		func(t *domain.TripPlan) error { return t.RemoveItineraryDay(day) },
		func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error) {
			return trips.RemoveItineraryDay(ctx, tripID, day)
		},
		domain.NotFound("Day %d not found in itinerary", day),
	)
}

func (s *tripService) AddBudgetItem(ctx context.Context, userID, tripID primitive.ObjectID, req *domain.BudgetRequest) (*domain.TripView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.edit(ctx, userID, tripID, nil,
		func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error) {
			return trips.AddBudgetItem(ctx, tripID, domain.BudgetItem{Category: req.Category, Amount: req.Amount})
		},
		domain.NotFound("Trip not found"),
	)
}

func (s *tripService) RemoveBudgetCategory(ctx context.Context, userID, tripID primitive.ObjectID, category string) (*domain.TripView, error) {
	return s.edit(ctx, userID, tripID,
		func(t *domain.TripPlan) error { return t.RemoveBudgetCategory(category) },
		func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error) {
			return trips.RemoveBudgetCategory(ctx, tripID, category)
		},
		domain.NotFound("Budget category %q not found", category),
	)
}

func (s *tripService) AddPackingItem(ctx context.Context, userID, tripID primitive.ObjectID, req *domain.PackingRequest) (*domain.TripView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.edit(ctx, userID, tripID, nil,
		func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error) {
			return trips.AddPackingItem(ctx, tripID, domain.PackingItem{Name: req.Item})
		},
		domain.NotFound("Trip not found"),
	)
}

func (s *tripService) TogglePackingItem(ctx context.Context, userID, tripID primitive.ObjectID, index int) (*domain.TripView, error) {
	return s.edit(ctx, userID, tripID,
		func(t *domain.TripPlan) error { return t.TogglePackingItem(index) },
		func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error) {
			return trips.TogglePackingItem(ctx, tripID, index)
		},
		domain.Invalid("Invalid item index"),
	)
}

func (s *tripService) RemovePackingItem(ctx context.Context, userID, tripID primitive.ObjectID, index int) (*domain.TripView, error) {
	return s.edit(ctx, userID, tripID,
		func(t *domain.TripPlan) error { return t.RemovePackingItem(index) },
		func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error) {
			return trips.RemovePackingItem(ctx, tripID, index)
		},
		domain.Invalid("Invalid item index"),
	)
}

func (s *tripService) UpdateNotes(ctx context.Context, userID, tripID primitive.ObjectID, req *domain.NotesRequest) (*domain.TripView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.edit(ctx, userID, tripID, nil,
		func(ctx context.Context, trips repository.TripRepository) (*domain.TripPlan, error) {
			return trips.SetNotes(ctx, tripID, req.Notes)
		},
		domain.NotFound("Trip not found"),
	)
}

func (s *tripService) Guides(ctx context.Context, userID, tripID primitive.ObjectID) ([]*domain.GuideView, error) {
	t, err := ownedTrip(ctx, s.store.Trips, userID, tripID)
	if err != nil {
		return nil, err
	}
	dest, err := s.store.Destinations.FindByID(ctx, t.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}
	if dest == nil {
		return []*domain.GuideView{}, nil
	}

	guides, err := s.store.Guides.ListVerifiedByLocation(ctx, dest.Name, primitive.NilObjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to list guides: %w", err)
	}
	return s.views.guideViews(ctx, guides, true)
}

func (s *tripService) Booking(ctx context.Context, userID, tripID, bookingID primitive.ObjectID) (*domain.BookingView, error) {
	t, err := ownedTrip(ctx, s.store.Trips, userID, tripID)
	if err != nil {
		return nil, err
	}
	b, err := s.store.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if b == nil || b.TripID != t.ID || b.TravelerID != userID {
		return nil, domain.NotFound("Booking not found for this trip")
	}
	return s.views.bookingView(ctx, b)
}
