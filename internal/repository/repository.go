package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
)

// ErrDuplicate is returned when a unique index rejects a write.
var ErrDuplicate = errors.New("duplicate key")

type UserRepository interface {
	Create(ctx context.Context, u *domain.User) error
	Save(ctx context.Context, u *domain.User) error
	SetProfileImage(ctx context.Context, id primitive.ObjectID, url string) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	CountByRole(ctx context.Context) (map[string]int64, error)
}

type GuideRepository interface {
	Create(ctx context.Context, g *domain.Guide) error
	// UpdateProfile writes only the editable profile fields, and the image
	// when it is not nil. It returns nil when the guide does not exist.
	UpdateProfile(ctx context.Context, id primitive.ObjectID, profile *domain.GuideProfileRequest, image *domain.Asset) (*domain.Guide, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Guide, error)
	FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Guide, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Guide, error)
	List(ctx context.Context) ([]*domain.Guide, error)
	ListByStatus(ctx context.Context, status domain.GuideStatus) ([]*domain.Guide, error)
	// ListVerifiedByLocation matches location case-insensitively; exclude may be NilObjectID.
	ListVerifiedByLocation(ctx context.Context, location string, exclude primitive.ObjectID) ([]*domain.Guide, error)
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status domain.GuideStatus) (bool, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type DestinationRepository interface {
	Create(ctx context.Context, d *domain.Destination) error
	Save(ctx context.Context, d *domain.Destination) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Destination, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Destination, error)
	List(ctx context.Context) ([]*domain.Destination, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type TripRepository interface {
	Create(ctx context.Context, t *domain.TripPlan) error

	// Each edit below touches one field of the trip in place and returns the
	// trip after the write. A nil trip means the trip or the entry the edit
	// addresses is missing, or the itinerary day is already planned.
	AddItineraryDay(ctx context.Context, id primitive.ObjectID, day domain.ItineraryDay) (*domain.TripPlan, error)
	RemoveItineraryDay(ctx context.Context, id primitive.ObjectID, day int) (*domain.TripPlan, error)
	AddBudgetItem(ctx context.Context, id primitive.ObjectID, item domain.BudgetItem) (*domain.TripPlan, error)
	RemoveBudgetCategory(ctx context.Context, id primitive.ObjectID, category string) (*domain.TripPlan, error)
	AddPackingItem(ctx context.Context, id primitive.ObjectID, item domain.PackingItem) (*domain.TripPlan, error)
	TogglePackingItem(ctx context.Context, id primitive.ObjectID, index int) (*domain.TripPlan, error)
	RemovePackingItem(ctx context.Context, id primitive.ObjectID, index int) (*domain.TripPlan, error)
	SetNotes(ctx context.Context, id primitive.ObjectID, notes string) (*domain.TripPlan, error)

	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.TripPlan, error)
	FindByUserAndDestination(ctx context.Context, userID, destinationID primitive.ObjectID) (*domain.TripPlan, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.TripPlan, error)
	ListByUser(ctx context.Context, userID primitive.ObjectID) ([]*domain.TripPlan, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type BookingRepository interface {
	Create(ctx context.Context, b *domain.BookingRequest) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.BookingRequest, error)
	// ListByGuide returns newest first; a nil status means every status.
	ListByGuide(ctx context.Context, guideID primitive.ObjectID, status *domain.BookingStatus) ([]*domain.BookingRequest, error)
	ListByTrip(ctx context.Context, tripID primitive.ObjectID) ([]*domain.BookingRequest, error)
	ListByStatus(ctx context.Context, status domain.BookingStatus) ([]*domain.BookingRequest, error)
	// UpdateStatus moves a booking from one status to another and reports
	// whether the booking was still in the from status.
	UpdateStatus(ctx context.Context, id primitive.ObjectID, from, to domain.BookingStatus) (bool, error)
	DeleteByTripAndStatus(ctx context.Context, tripID primitive.ObjectID, status domain.BookingStatus) (int64, error)
	CountByStatus(ctx context.Context) (map[string]int64, error)
}

type ChatRepository interface {
	Create(ctx context.Context, m *domain.ChatMessage) error
	ListByBooking(ctx context.Context, bookingID primitive.ObjectID) ([]*domain.ChatMessage, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, r *domain.Review) error
	FindByBooking(ctx context.Context, bookingID primitive.ObjectID) (*domain.Review, error)
	// ListByGuide returns newest first; limit 0 means no limit.
	ListByGuide(ctx context.Context, guideID primitive.ObjectID, limit int64) ([]*domain.Review, error)
	RatingSummary(ctx context.Context, guideID primitive.ObjectID) (avg float64, count int64, err error)
}

type BlogRepository interface {
	Create(ctx context.Context, b *domain.Blog) error
	Save(ctx context.Context, b *domain.Blog) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Blog, error)
	List(ctx context.Context) ([]*domain.Blog, error)
	ListByAuthor(ctx context.Context, authorID primitive.ObjectID) ([]*domain.Blog, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
	Count(ctx context.Context) (int64, error)
}

type ContactRepository interface {
	Create(ctx context.Context, c *domain.Contact) error
	List(ctx context.Context) ([]*domain.Contact, error)
	Count(ctx context.Context) (int64, error)
}

// Store bundles every repository the services need.
type Store struct {
	Users        UserRepository
	Guides       GuideRepository
	Destinations DestinationRepository
	Trips        TripRepository
	Bookings     BookingRepository
	Chats        ChatRepository
	Reviews      ReviewRepository
	Blogs        BlogRepository
	Contacts     ContactRepository
}
