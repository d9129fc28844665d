package service

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/pkg/events"
)

type ReviewService interface {
	// Eligibility returns the booking and guide when the caller may review the booking.
	Eligibility(ctx context.Context, userID, bookingID primitive.ObjectID) (*domain.ReviewEligibility, error)
	Create(ctx context.Context, userID, bookingID primitive.ObjectID, req *domain.CreateReviewRequest) (*domain.Review, error)
}

type reviewService struct {
	store     *repository.Store
	publisher events.Publisher
	views     *views
}

func NewReviewService(store *repository.Store, publisher events.Publisher) ReviewService {
	return &reviewService{store: store, publisher: publisher, views: &views{store: store}}
}

func (s *reviewService) reviewable(ctx context.Context, userID, bookingID primitive.ObjectID) (*domain.BookingRequest, error) {
	b, err := s.store.Bookings.FindByID(ctx, bookingID)
	if err != nil {
		return nil, fmt.Errorf("failed to get booking: %w", err)
	}
	if b == nil {
		return nil, domain.NotFound("Booking not found")
	}
	if b.TravelerID != userID {
		return nil, domain.Forbidden("Only the traveler of this booking can review it")
	}
	if b.Status != domain.BookingAccepted {
		return nil, domain.Invalid("Only accepted bookings can be reviewed")
	}
	if !b.Finished(now()) {
		return nil, domain.Invalid("You can only review after the trip ends")
	}

	existing, err := s.store.Reviews.FindByBooking(ctx, b.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing review: %w", err)
	}
	if existing != nil {
		return nil, domain.Conflict("You have already reviewed this booking")
	}
	return b, nil
}

func (s *reviewService) Eligibility(ctx context.Context, userID, bookingID primitive.ObjectID) (*domain.ReviewEligibility, error) {
	b, err := s.reviewable(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}
	view, err := s.views.bookingView(ctx, b)
	if err != nil {
		return nil, err
	}
	return &domain.ReviewEligibility{Booking: view, Guide: view.Guide}, nil
}

func (s *reviewService) Create(ctx context.Context, userID, bookingID primitive.ObjectID, req *domain.CreateReviewRequest) (*domain.Review, error) {
	req.Normalize()
	if err := req.Validate(); err != nil {
		return nil, err
	}
	b, err := s.reviewable(ctx, userID, bookingID)
	if err != nil {
		return nil, err
	}

	r := &domain.Review{
		BookingID:  b.ID,
		TravelerID: userID,
		GuideID:    b.GuideID,
		Rating:     req.Rating,
		Comment:    req.Comment,
	}
	if err := s.store.Reviews.Create(ctx, r); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, domain.Conflict("You have already reviewed this booking")
		}
		return nil, fmt.Errorf("failed to save review: %w", err)
	}

	publish(ctx, s.publisher, events.ReviewPosted, events.ReviewPostedEvent{
		ReviewID:  r.ID.Hex(),
		GuideID:   r.GuideID.Hex(),
		Rating:    r.Rating,
		CreatedAt: r.CreatedAt,
	}, r.ID)

	return r, nil
}
