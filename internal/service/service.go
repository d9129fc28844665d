package service

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/mailer"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/internal/storage"
	"github.com/diagnosis/travelmate/pkg/config"
	"github.com/diagnosis/travelmate/pkg/events"
	"github.com/diagnosis/travelmate/pkg/logger"
)

// Services bundles every service the HTTP layer talks to.
type Services struct {
	Auth         AuthService
	Profiles     ProfileService
	Destinations DestinationService
	Guides       GuideService
	Trips        TripService
	Bookings     BookingService
	Chat         ChatService
	Reviews      ReviewService
	Blogs        BlogService
	Contacts     ContactService
	Admin        AdminService
}

func New(
	store *repository.Store,
	files storage.Store,
	mail mailer.Service,
	publisher events.Publisher,
	cfg *config.Config,
) *Services {
	return &Services{
		Auth:         NewAuthService(store.Users, mail, publisher, cfg),
		Profiles:     NewProfileService(store.Users, files),
		Destinations: NewDestinationService(store.Destinations, files),
		Guides:       NewGuideService(store, files, publisher),
		Trips:        NewTripService(store),
		Bookings:     NewBookingService(store, publisher),
		Chat:         NewChatService(store, publisher),
		Reviews:      NewReviewService(store, publisher),
		Blogs:        NewBlogService(store, files),
		Contacts:     NewContactService(store.Contacts),
		Admin:        NewAdminService(store, publisher),
	}
}

func publish(ctx context.Context, pub events.Publisher, subject string, data any, id primitive.ObjectID) {
	if err := pub.Publish(ctx, subject, data); err != nil {
		logger.ErrorContext(ctx, "Failed to publish event", "error", err, "subject", subject, "id", id.Hex())
	}
}

// removeAsset deletes a replaced or orphaned file. Failures are only logged.
func removeAsset(ctx context.Context, files storage.Store, a *domain.Asset) {
	if err := storage.DeleteAsset(ctx, files, a); err != nil {
		logger.WarnContext(ctx, "Failed to delete stored file", "error", err, "key", a.Key)
	}
}

// keyedMutex serializes work per key inside one process.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*keyedLock
}

type keyedLock struct {
	sync.Mutex
	refs int
}

func (k *keyedMutex) Lock(key string) func() {
	k.mu.Lock()
	if k.locks == nil {
		k.locks = make(map[string]*keyedLock)
	}
	l, ok := k.locks[key]
	if !ok {
		l = &keyedLock{}
		k.locks[key] = l
	}
	l.refs++
	k.mu.Unlock()

	l.Lock()
	return func() {
		l.Unlock()
		k.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(k.locks, key)
		}
		k.mu.Unlock()
	}
}

var now = func() time.Time { return time.Now().UTC() }
