package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/pkg/events"
)

type BookingService interface {
	// Form returns the guide and trip shown on the booking form.
	Form(ctx context.Context, userID, guideID, tripID primitive.ObjectID) (*domain.BookingForm, error)
	Create(ctx context.Context, userID, guideID primitive.ObjectID, req *domain.CreateBookingRequest) (*domain.BookingView, error)
}

type bookingService struct {
	store     *repository.Store
	publisher events.Publisher
	views     *views
	tripLocks keyedMutex
}

func NewBookingService(store *repository.Store, publisher events.Publisher) BookingService {
	return &bookingService{store: store, publisher: publisher, views: &views{store: store}}
}

func (s *bookingService) verifiedGuide(ctx context.Context, guideID primitive.ObjectID) (*domain.Guide, error) {
	g, err := s.store.Guides.FindByID(ctx, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide: %w", err)
	}
	if g == nil || !g.IsVerified() {
		return nil, domain.NotFound("Guide not found")
	}
	return g, nil
}

func (s *bookingService) Form(ctx context.Context, userID, guideID, tripID primitive.ObjectID) (*domain.BookingForm, error) {
	g, err := s.verifiedGuide(ctx, guideID)
	if err != nil {
		return nil, err
	}
	t, err := ownedTrip(ctx, s.store.Trips, userID, tripID)
	if err != nil {
		return nil, err
	}
	dest, err := s.store.Destinations.FindByID(ctx, t.DestinationID)
	if err != nil {
		return nil, fmt.Errorf("failed to get destination: %w", err)
	}

	gv, err := s.views.guideView(ctx, g, true)
	if err != nil {
		return nil, err
	}
	return &domain.BookingForm{Guide: gv, Trip: tripView(t, dest)}, nil
}

func (s *bookingService) Create(ctx context.Context, userID, guideID primitive.ObjectID, req *domain.CreateBookingRequest) (*domain.BookingView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	tripID, err := domain.ParseID(req.TripID, "trip")
	if err != nil {
		return nil, err
	}

	g, err := s.verifiedGuide(ctx, guideID)
	if err != nil {
		return nil, err
	}
	t, err := ownedTrip(ctx, s.store.Trips, userID, tripID)
	if err != nil {
		return nil, err
	}
	if !t.Covers(req.StartDate.Time, req.EndDate.Time) {
		return nil, domain.Invalid("Booking dates must fall within the trip dates")
	}

	unlock := s.tripLocks.Lock(t.ID.Hex())
	defer unlock()

	existing, err := s.store.Bookings.ListByTrip(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check trip bookings: %w", err)
	}
	for _, b := range existing {
		if b.Status.Active() {
			return nil, domain.Conflict("This trip already has a %s booking", b.Status)
		}
	}

	b := &domain.BookingRequest{
		TripID:         t.ID,
		TravelerID:     userID,
		GuideID:        g.ID,
		Days:           req.Days,
		NumberOfPeople: req.NumberOfPeople,
		Message:        req.Message,
		StartDate:      req.StartDate.Time,
		EndDate:        req.EndDate.Time,
		Status:         domain.BookingPending,
	}
	if err := s.store.Bookings.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("failed to create booking: %w", err)
	}

	view, err := s.views.bookingView(ctx, b)
	if err != nil {
		return nil, err
	}

	ev := events.BookingRequestedEvent{
		BookingID:      b.ID.Hex(),
		TripID:         t.ID.Hex(),
		GuideID:        g.ID.Hex(),
		StartDate:      b.StartDate,
		EndDate:        b.EndDate,
		NumberOfPeople: b.NumberOfPeople,
		RequestedAt:    b.RequestedAt,
	}
	if view.Guide != nil && view.Guide.User != nil {
		ev.GuideEmail = view.Guide.User.Email
		ev.GuideName = view.Guide.User.Name
	}
	if view.Traveler != nil {
		ev.TravelerName = view.Traveler.Name
	}
	if view.Destination != nil {
		ev.Destination = view.Destination.Name
	}
	publish(ctx, s.publisher, events.BookingRequested, ev, b.ID)

	return view, nil
}
