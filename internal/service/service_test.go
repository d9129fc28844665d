package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/mailer"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/internal/repository/memory"
	"github.com/diagnosis/travelmate/internal/storage"
	"github.com/diagnosis/travelmate/pkg/config"
)

type fakeMailer struct {
	mu   sync.Mutex
	sent []mailer.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mailer.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

type published struct {
	subject string
	data    any
}

type fakePublisher struct {
	mu     sync.Mutex
	events []published
}

func (f *fakePublisher) Publish(_ context.Context, subject string, data interface{}) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, published{subject, data})
	return nil
}

func (f *fakePublisher) Close() error { return nil }

func (f *fakePublisher) subjects() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.events))
	for _, e := range f.events {
		out = append(out, e.subject)
	}
	return out
}

type fakeFiles struct {
	mu      sync.Mutex
	n       int
	deleted []string
}

func (f *fakeFiles) Upload(_ context.Context, folder string, file storage.File) (*domain.Asset, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if strings.HasSuffix(file.Name, ".exe") {
		return nil, domain.Invalid("File type .exe is not allowed")
	}
	f.n++
	key := folder + "/" + file.Name + "-" + string(rune('a'+f.n))
	return &domain.Asset{URL: "http://files/" + key, Key: key}, nil
}

func (f *fakeFiles) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleted = append(f.deleted, key)
	return nil
}

type fixture struct {
	store *repository.Store
	svc   *Services
	mail  *fakeMailer
	pub   *fakePublisher
	files *fakeFiles
	cfg   *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:      "test-secret",
			AccessTokenTTL: time.Hour,
			OTPTTL:         10 * time.Minute,
			OTPMaxAttempts: 3,
		},
		Email: config.EmailConfig{DevMode: true},
	}
	f := &fixture{
		store: memory.NewStore(),
		mail:  &fakeMailer{},
		pub:   &fakePublisher{},
		files: &fakeFiles{},
		cfg:   cfg,
	}
	f.svc = New(f.store, f.files, f.mail, f.pub, cfg)
	return f
}

func (f *fixture) user(t *testing.T, name, role string) *domain.User {
	t.Helper()
	hash, err := argon2id.CreateHash("secret123", argon2id.DefaultParams)
	if err != nil {
		t.Fatal(err)
	}
	u := &domain.User{Name: name, Email: strings.ToLower(name) + "@example.com", PasswordHash: hash, Role: role, IsVerified: true}
	if err := f.store.Users.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func (f *fixture) guide(t *testing.T, name, location string, status domain.GuideStatus) (*domain.User, *domain.Guide) {
	t.Helper()
	u := f.user(t, name, domain.RoleGuide)
	g := &domain.Guide{UserID: u.ID, Bio: "bio", Location: location, Status: status, IDProof: &domain.Asset{URL: "http://files/id", Key: "id"}}
	if err := f.store.Guides.Create(context.Background(), g); err != nil {
		t.Fatalf("create guide: %v", err)
	}
	return u, g
}

func (f *fixture) destination(t *testing.T, name string) *domain.Destination {
	t.Helper()
	d := &domain.Destination{Name: name, Description: "nice"}
	if err := f.store.Destinations.Create(context.Background(), d); err != nil {
		t.Fatalf("create destination: %v", err)
	}
	return d
}

func day(s string) domain.Date {
	d, err := domain.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (f *fixture) trip(t *testing.T, owner *domain.User, dest *domain.Destination) *domain.TripView {
	t.Helper()
	tv, _, err := f.svc.Trips.Add(context.Background(), owner.ID, dest.ID, &domain.CreateTripRequest{
		StartDate: day("2030-05-01"), EndDate: day("2030-05-10"),
	})
	if err != nil {
		t.Fatalf("add trip: %v", err)
	}
	return tv
}

func wantKind(t *testing.T, err, kind error) {
	t.Helper()
	if !errors.Is(err, kind) {
		t.Fatalf("expected %v, got %v", kind, err)
	}
}

func withNow(t *testing.T, at time.Time) {
	t.Helper()
	prev := now
	now = func() time.Time { return at }
	t.Cleanup(func() { now = prev })
}

func TestKeyedMutex_SerializesPerKey(t *testing.T) {
	var k keyedMutex
	var wg sync.WaitGroup
	counter := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := k.Lock("trip")
			counter++
			unlock()
		}()
	}
	wg.Wait()
	if counter != 50 {
		t.Fatalf("counter = %d", counter)
	}
	if len(k.locks) != 0 {
		t.Fatalf("locks not released: %d", len(k.locks))
	}
}

func TestViews_GuideViewsStripIDProof(t *testing.T) {
	f := newFixture(t)
	_, g := f.guide(t, "Gus", "Goa", domain.GuideVerified)
	v := &views{store: f.store}

	public, err := v.guideViews(context.Background(), []*domain.Guide{g}, true)
	if err != nil {
		t.Fatal(err)
	}
	if public[0].IDProof != nil || public[0].User == nil || public[0].User.Name != "Gus" {
		t.Fatalf("unexpected public view %+v", public[0])
	}
	if g.IDProof == nil {
		t.Fatal("original guide was modified")
	}

	private, err := v.guideViews(context.Background(), []*domain.Guide{g}, false)
	if err != nil {
		t.Fatal(err)
	}
	if private[0].IDProof == nil {
		t.Fatal("admin view lost the id proof")
	}
}
