package service

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/pkg/events"
)

type AdminService interface {
	Guides(ctx context.Context) (*domain.GuideOverview, error)
	SetGuideStatus(ctx context.Context, guideID primitive.ObjectID, status domain.GuideStatus) (*domain.GuideView, error)
	Users(ctx context.Context) ([]*domain.UserInfo, error)
	// Trips lists trips that have an accepted booking.
	Trips(ctx context.Context) ([]*domain.AdminTrip, error)
	Stats(ctx context.Context) (*domain.Stats, error)
}

type adminService struct {
	store     *repository.Store
	publisher events.Publisher
	views     *views
}

func NewAdminService(store *repository.Store, publisher events.Publisher) AdminService {
	return &adminService{store: store, publisher: publisher, views: &views{store: store}}
}

func (s *adminService) Guides(ctx context.Context) (*domain.GuideOverview, error) {
	pending, err := s.store.Guides.ListByStatus(ctx, domain.GuidePending)
	if err != nil {
		return nil, fmt.Errorf("failed to list pending guides: %w", err)
	}
	verified, err := s.store.Guides.ListByStatus(ctx, domain.GuideVerified)
	if err != nil {
		return nil, fmt.Errorf("failed to list verified guides: %w", err)
	}

	out := &domain.GuideOverview{}
	if out.Pending, err = s.views.guideViews(ctx, pending, false); err != nil {
		return nil, err
	}
	if out.Verified, err = s.views.guideViews(ctx, verified, false); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *adminService) SetGuideStatus(ctx context.Context, guideID primitive.ObjectID, status domain.GuideStatus) (*domain.GuideView, error) {
	if status != domain.GuideVerified && status != domain.GuideRejected {
		return nil, domain.Invalid("Unsupported guide status %q", status)
	}

	ok, err := s.store.Guides.UpdateStatus(ctx, guideID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to update guide status: %w", err)
	}
	if !ok {
		return nil, domain.NotFound("Guide not found")
	}

	g, err := s.store.Guides.FindByID(ctx, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide: %w", err)
	}
	if g == nil {
		return nil, domain.NotFound("Guide not found")
	}
	view, err := s.views.guideView(ctx, g, false)
	if err != nil {
		return nil, err
	}

	ev := events.GuideStatusChangedEvent{
		GuideID:   g.ID.Hex(),
		Status:    string(status),
		ChangedAt: g.UpdatedAt,
	}
	if view.User != nil {
		ev.Email = view.User.Email
		ev.Name = view.User.Name
	}
	publish(ctx, s.publisher, events.GuideStatusChanged, ev, g.ID)

	return view, nil
}

func (s *adminService) Users(ctx context.Context) ([]*domain.UserInfo, error) {
	users, err := s.store.Users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	guides, err := s.store.Guides.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list guides: %w", err)
	}
	guideByUser := make(map[primitive.ObjectID]primitive.ObjectID, len(guides))
	for _, g := range guides {
		guideByUser[g.UserID] = g.ID
	}

	out := make([]*domain.UserInfo, 0, len(users))
	for _, u := range users {
		info := u.ToUserInfo()
		if id, ok := guideByUser[u.ID]; ok {
			info.GuideID = &id
		}
		out = append(out, info)
	}
	return out, nil
}

func (s *adminService) Trips(ctx context.Context) ([]*domain.AdminTrip, error) {
	accepted, err := s.store.Bookings.ListByStatus(ctx, domain.BookingAccepted)
	if err != nil {
		return nil, fmt.Errorf("failed to list accepted bookings: %w", err)
	}
	list, err := s.views.bookingViews(ctx, accepted)
	if err != nil {
		return nil, err
	}

	out := make([]*domain.AdminTrip, 0, len(list))
	for _, v := range list {
		out = append(out, &domain.AdminTrip{
			Trip:        v.Trip,
			Destination: v.Destination,
			Traveler:    v.Traveler,
			Booking:     v.BookingRequest,
			Guide:       v.Guide,
		})
	}
	return out, nil
}

func (s *adminService) Stats(ctx context.Context) (*domain.Stats, error) {
	var (
		out domain.Stats
		err error
	)
	if out.UsersByRole, err = s.store.Users.CountByRole(ctx); err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if out.GuidesByStatus, err = s.store.Guides.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to count guides: %w", err)
	}
	if out.BookingsByState, err = s.store.Bookings.CountByStatus(ctx); err != nil {
		return nil, fmt.Errorf("failed to count bookings: %w", err)
	}
	if out.Destinations, err = s.store.Destinations.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count destinations: %w", err)
	}
	if out.Trips, err = s.store.Trips.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count trips: %w", err)
	}
	if out.Blogs, err = s.store.Blogs.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count blogs: %w", err)
	}
	if out.Contacts, err = s.store.Contacts.Count(ctx); err != nil {
		return nil, fmt.Errorf("failed to count contacts: %w", err)
	}
	return &out, nil
}
