package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/internal/storage"
	"github.com/diagnosis/travelmate/pkg/events"
)

const latestReviews = 3

type GuideService interface {
	CompleteProfile(ctx context.Context, userID primitive.ObjectID, req *domain.GuideProfileRequest, profileImage, idProof *storage.File) (*domain.GuideView, error)
	Profile(ctx context.Context, userID primitive.ObjectID) (*domain.GuideView, error)
	UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *domain.GuideProfileRequest, profileImage *storage.File) (*domain.GuideView, error)
	Dashboard(ctx context.Context, userID primitive.ObjectID) (*domain.GuideDashboard, error)
	// Requests lists bookings addressed to the caller's guide profile; nil status means all.
	Requests(ctx context.Context, userID primitive.ObjectID, status *domain.BookingStatus) ([]*domain.BookingView, error)
	Decide(ctx context.Context, userID, bookingID primitive.ObjectID, to domain.BookingStatus) (*domain.BookingView, error)
	Search(ctx context.Context, location string) (*domain.GuideSearch, error)
	Details(ctx context.Context, guideID primitive.ObjectID) (*domain.GuideDetails, error)
	Reviews(ctx context.Context, guideID primitive.ObjectID) (*domain.GuideReviews, error)
}

type guideService struct {
	store     *repository.Store
	files     storage.Store
	publisher events.Publisher
	views     *views
}

func NewGuideService(store *repository.Store, files storage.Store, publisher events.Publisher) GuideService {
	return &guideService{
		store:     store,
		files:     files,
		publisher: publisher,
		views:     &views{store: store},
	}
}

func (s *guideService) ownGuide(ctx context.Context, userID primitive.ObjectID) (*domain.Guide, error) {
	g, err := s.store.Guides.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide profile: %w", err)
	}
	if g == nil {
		return nil, domain.NotFound("Guide profile not found")
	}
	return g, nil
}

func (s *guideService) CompleteProfile(ctx context.Context, userID primitive.ObjectID, req *domain.GuideProfileRequest, profileImage, idProof *storage.File) (*domain.GuideView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if profileImage == nil || idProof == nil {
		return nil, domain.Invalid("Profile image and ID proof are required")
	}

	existing, err := s.store.Guides.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to check guide profile: %w", err)
	}
	if existing != nil {
		return nil, domain.Conflict("Guide profile already completed")
	}

	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, domain.NotFound("User not found")
	}

	image, err := s.files.Upload(ctx, storage.FolderGuideProfiles, *profileImage)
	if err != nil {
		return nil, err
	}
	proof, err := s.files.Upload(ctx, storage.FolderIDProofs, *idProof)
	if err != nil {
		removeAsset(ctx, s.files, image)
		return nil, err
	}

	g := &domain.Guide{
		UserID:       userID,
		ProfileImage: image,
		IDProof:      proof,
		Status:       domain.GuidePending,
	}
	req.Apply(g)

	if err := s.store.Guides.Create(ctx, g); err != nil {
		removeAsset(ctx, s.files, image)
		removeAsset(ctx, s.files, proof)
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Conflict("Guide profile already completed")
		}
		return nil, fmt.Errorf("failed to create guide profile: %w", err)
	}

	if err := s.store.Users.SetProfileImage(ctx, userID, image.URL); err != nil {
		return nil, fmt.Errorf("failed to sync user image: %w", err)
	}
	user.ProfileImage = image.URL

	return &domain.GuideView{Guide: g, User: user.Summary()}, nil
}

func (s *guideService) Profile(ctx context.Context, userID primitive.ObjectID) (*domain.GuideView, error) {
	g, err := s.ownGuide(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.views.guideView(ctx, g, false)
}

func (s *guideService) UpdateProfile(ctx context.Context, userID primitive.ObjectID, req *domain.GuideProfileRequest, profileImage *storage.File) (*domain.GuideView, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}

	g, err := s.ownGuide(ctx, userID)
	if err != nil {
		return nil, err
	}

	var image, old *domain.Asset
	if profileImage != nil {
		if image, err = s.files.Upload(ctx, storage.FolderGuideProfiles, *profileImage); err != nil {
			return nil, err
		}
		old = g.ProfileImage
	}

	updated, err := s.store.Guides.UpdateProfile(ctx, g.ID, req, image)
	if err != nil {
		removeAsset(ctx, s.files, image)
		return nil, fmt.Errorf("failed to update guide profile: %w", err)
	}
	if updated == nil {
		removeAsset(ctx, s.files, image)
		return nil, domain.NotFound("Guide profile not found")
	}

	if image != nil {
		removeAsset(ctx, s.files, old)
		if err := s.store.Users.SetProfileImage(ctx, userID, image.URL); err != nil {
			return nil, fmt.Errorf("failed to sync user image: %w", err)
		}
	}

	return s.views.guideView(ctx, updated, false)
}

func (s *guideService) Dashboard(ctx context.Context, userID primitive.ObjectID) (*domain.GuideDashboard, error) {
	g, err := s.store.Guides.FindByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide profile: %w", err)
	}
	if g == nil {
		return &domain.GuideDashboard{}, nil
	}

	pending := domain.BookingPending
	requests, err := s.store.Bookings.ListByGuide(ctx, g.ID, &pending)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending requests: %w", err)
	}
	return &domain.GuideDashboard{Guide: g, Status: g.Status, PendingRequests: len(requests)}, nil
}

func (s *guideService) Requests(ctx context.Context, userID primitive.ObjectID, status *domain.BookingStatus) ([]*domain.BookingView, error) {
	g, err := s.ownGuide(ctx, userID)
	if err != nil {
		return nil, err
	}
	bookings, err := s.store.Bookings.ListByGuide(ctx, g.ID, status)
	if err != nil {
		return nil, fmt.Errorf("failed to list booking requests: %w", err)
	}
	return s.views.bookingViews(ctx, bookings)
}

func (s *guideService) Decide(ctx context.Context, userID, bookingID primitive.ObjectID, to domain.BookingStatus) (*domain.BookingView, error) {
	if !domain.BookingPending.CanTransitionTo(to) {
		return nil, domain.Invalid("Unsupported booking status %q", to)
	}

	g, err := s.ownGuide(ctx, userID)
	if err != nil {
		return nil, err
	}

	b, err := s.store.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if b == nil {
		return nil, domain.NotFound("Booking request not found")
	}
	if b.GuideID != g.ID {
		return nil, domain.Forbidden("This booking request is not addressed to you")
	}
	if b.Status != domain.BookingPending {
		return nil, domain.Conflict("Booking request is already %s", b.Status)
	}

	ok, err := s.store.Bookings.UpdateStatus(ctx, b.ID, domain.BookingPending, to)
	if err != nil {
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	if !ok {
		return nil, domain.Conflict("Booking request was already decided")
	}
	b.Status = to
	b.UpdatedAt = now()

	view, err := s.views.bookingView(ctx, b)
	if err != nil {
		return nil, err
	}

	subject := events.BookingAccepted
	if to == domain.BookingRejected {
		subject = events.BookingRejected
	}
	ev := events.BookingDecisionEvent{
		BookingID: b.ID.Hex(),
		Status:    string(to),
		StartDate: b.StartDate,
		DecidedAt: b.UpdatedAt,
	}
	if view.Traveler != nil {
		ev.TravelerEmail = view.Traveler.Email
		ev.TravelerName = view.Traveler.Name
	}
	if view.Guide != nil && view.Guide.User != nil {
		ev.GuideName = view.Guide.User.Name
	}
	if view.Destination != nil {
		ev.Destination = view.Destination.Name
	}
	publish(ctx, s.publisher, subject, ev, b.ID)

	return view, nil
}

func (s *guideService) Search(ctx context.Context, location string) (*domain.GuideSearch, error) {
	location = strings.TrimSpace(location)
	out := &domain.GuideSearch{Location: location, Guides: []*domain.GuideView{}}

	if location != "" {
		guides, err := s.store.Guides.ListVerifiedByLocation(ctx, location, primitive.NilObjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to search guides: %w", err)
		}
		if out.Guides, err = s.views.guideViews(ctx, guides, true); err != nil {
			return nil, err
		}
	}

	dests, err := s.store.Destinations.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list destinations: %w", err)
	}
	out.Destinations = dests
	return out, nil
}

func (s *guideService) find(ctx context.Context, guideID primitive.ObjectID) (*domain.Guide, error) {
	g, err := s.store.Guides.FindByID(ctx, guideID)
	if err != nil {
		return nil, fmt.Errorf("failed to get guide: %w", err)
	}
	if g == nil {
		return nil, domain.NotFound("Guide not found")
	}
	return g, nil
}

func (s *guideService) Details(ctx context.Context, guideID primitive.ObjectID) (*domain.GuideDetails, error) {
	g, err := s.find(ctx, guideID)
	if err != nil {
		return nil, err
	}

	others, err := s.store.Guides.ListVerifiedByLocation(ctx, g.Location, g.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list other guides: %w", err)
	}
	reviews, err := s.store.Reviews.ListByGuide(ctx, g.ID, latestReviews)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	avg, total, err := s.store.Reviews.RatingSummary(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	out := &domain.GuideDetails{TotalReviews: total, AvgRating: domain.RoundRating(avg)}
	if out.Guide, err = s.views.guideView(ctx, g, true); err != nil {
		return nil, err
	}
	if out.OtherGuides, err = s.views.guideViews(ctx, others, true); err != nil {
		return nil, err
	}
	if out.Reviews, err = s.views.reviewViews(ctx, reviews); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *guideService) Reviews(ctx context.Context, guideID primitive.ObjectID) (*domain.GuideReviews, error) {
	g, err := s.find(ctx, guideID)
	if err != nil {
		return nil, err
	}

	reviews, err := s.store.Reviews.ListByGuide(ctx, g.ID, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	avg, _, err := s.store.Reviews.RatingSummary(ctx, g.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize ratings: %w", err)
	}

	out := &domain.GuideReviews{AvgRating: domain.RoundRating(avg)}
	if out.Guide, err = s.views.guideView(ctx, g, true); err != nil {
		return nil, err
	}
	if out.Reviews, err = s.views.reviewViews(ctx, reviews); err != nil {
		return nil, err
	}
	return out, nil
}
