package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/pkg/events"
)

func bookingReq(tripID primitive.ObjectID, start, end string) *domain.CreateBookingRequest {
	return &domain.CreateBookingRequest{
		TripID: tripID.Hex(), StartDate: day(start), EndDate: day(end), Days: 2, NumberOfPeople: 1, Message: " hi ",
	}
}

func TestBookings_CreateRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Tia", domain.RoleTraveler)
	other := f.user(t, "Omar", domain.RoleTraveler)
	trip := f.trip(t, owner, f.destination(t, "Goa"))
	_, verified := f.guide(t, "Gus", "Goa", domain.GuideVerified)
	_, pending := f.guide(t, "Pat", "Goa", domain.GuidePending)

	tests := []struct {
		name    string
		user    primitive.ObjectID
		guide   primitive.ObjectID
		req     *domain.CreateBookingRequest
		wantErr error
	}{
		{"unknown guide", owner.ID, primitive.NewObjectID(), bookingReq(trip.ID, "2030-05-02", "2030-05-03"), domain.ErrNotFound},
		{"unverified guide", owner.ID, pending.ID, bookingReq(trip.ID, "2030-05-02", "2030-05-03"), domain.ErrNotFound},
		{"someone else's trip", other.ID, verified.ID, bookingReq(trip.ID, "2030-05-02", "2030-05-03"), domain.ErrForbidden},
		{"start after end", owner.ID, verified.ID, bookingReq(trip.ID, "2030-05-04", "2030-05-03"), domain.ErrInvalidInput},
		{"outside trip", owner.ID, verified.ID, bookingReq(trip.ID, "2030-04-30", "2030-05-03"), domain.ErrInvalidInput},
		{"bad trip id", owner.ID, verified.ID, &domain.CreateBookingRequest{TripID: "nope", StartDate: day("2030-05-02"), EndDate: day("2030-05-03"), Days: 1, NumberOfPeople: 1}, domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Bookings.Create(ctx, tt.user, tt.guide, tt.req)
			wantKind(t, err, tt.wantErr)
		})
	}

	b, err := f.svc.Bookings.Create(ctx, owner.ID, verified.ID, bookingReq(trip.ID, "2030-05-02", "2030-05-03"))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if b.Status != domain.BookingPending || b.Message != "hi" || b.Destination == nil || b.Guide == nil {
		t.Fatalf("unexpected booking %+v", b)
	}

	_, err = f.svc.Bookings.Create(ctx, owner.ID, verified.ID, bookingReq(trip.ID, "2030-05-05", "2030-05-06"))
	wantKind(t, err, domain.ErrConflict)

	subjects := f.pub.subjects()
	if len(subjects) != 1 || subjects[0] != events.BookingRequested {
		t.Fatalf("unexpected events %v", subjects)
	}
	ev := f.pub.events[0].data.(events.BookingRequestedEvent)
	if ev.GuideEmail != "gus@example.com" || ev.TravelerName != "Tia" || ev.Destination != "Goa" {
		t.Fatalf("unexpected event %+v", ev)
	}
}

func TestBookings_ConcurrentCreateKeepsOneActive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Tia", domain.RoleTraveler)
	trip := f.trip(t, owner, f.destination(t, "Goa"))
	_, g := f.guide(t, "Gus", "Goa", domain.GuideVerified)

	var wg sync.WaitGroup
	var mu sync.Mutex
	created := 0
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.svc.Bookings.Create(ctx, owner.ID, g.ID, bookingReq(trip.ID, "2030-05-02", "2030-05-03")); err == nil {
				mu.Lock()
				created++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	list, _ := f.store.Bookings.ListByTrip(ctx, trip.ID)
	if created != 1 || len(list) != 1 {
		t.Fatalf("created=%d stored=%d", created, len(list))
	}
}

func TestGuides_Decide(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Tia", domain.RoleTraveler)
	trip := f.trip(t, owner, f.destination(t, "Goa"))
	guideUser, g := f.guide(t, "Gus", "Goa", domain.GuideVerified)
	otherGuideUser, _ := f.guide(t, "Pat", "Goa", domain.GuideVerified)

	b, err := f.svc.Bookings.Create(ctx, owner.ID, g.ID, bookingReq(trip.ID, "2030-05-02", "2030-05-03"))
	if err != nil {
		t.Fatal(err)
	}

	_, err = f.svc.Guides.Decide(ctx, otherGuideUser.ID, b.ID, domain.BookingAccepted)
	wantKind(t, err, domain.ErrForbidden)

	_, err = f.svc.Guides.Decide(ctx, guideUser.ID, b.ID, domain.BookingPending)
	wantKind(t, err, domain.ErrInvalidInput)

	view, err := f.svc.Guides.Decide(ctx, guideUser.ID, b.ID, domain.BookingAccepted)
	if err != nil || view.Status != domain.BookingAccepted {
		t.Fatalf("accept: %v", err)
	}

	_, err = f.svc.Guides.Decide(ctx, guideUser.ID, b.ID, domain.BookingRejected)
	wantKind(t, err, domain.ErrConflict)

	last := f.pub.events[len(f.pub.events)-1]
	ev, ok := last.data.(events.BookingDecisionEvent)
	if last.subject != events.BookingAccepted || !ok || ev.TravelerEmail != "tia@example.com" || ev.GuideName != "Gus" {
		t.Fatalf("unexpected event %+v", last)
	}

	accepted := domain.BookingAccepted
	list, err := f.svc.Guides.Requests(ctx, guideUser.ID, &accepted)
	if err != nil || len(list) != 1 || list[0].Traveler == nil || list[0].Traveler.Name != "Tia" {
		t.Fatalf("accepted list: %v %+v", err, list)
	}

	dash, err := f.svc.Guides.Dashboard(ctx, guideUser.ID)
	if err != nil || dash.PendingRequests != 0 || dash.Status != domain.GuideVerified {
		t.Fatalf("dashboard: %v %+v", err, dash)
	}
}

func TestReviews_Eligibility(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Tia", domain.RoleTraveler)
	other := f.user(t, "Omar", domain.RoleTraveler)
	trip := f.trip(t, owner, f.destination(t, "Goa"))
	guideUser, g := f.guide(t, "Gus", "Goa", domain.GuideVerified)

	b, err := f.svc.Bookings.Create(ctx, owner.ID, g.ID, bookingReq(trip.ID, "2030-05-02", "2030-05-03"))
	if err != nil {
		t.Fatal(err)
	}
	review := &domain.CreateReviewRequest{Rating: 5, Comment: "great"}

	_, err = f.svc.Reviews.Create(ctx, owner.ID, b.ID, review)
	wantKind(t, err, domain.ErrInvalidInput) // still pending

	if _, err := f.svc.Guides.Decide(ctx, guideUser.ID, b.ID, domain.BookingAccepted); err != nil {
		t.Fatal(err)
	}

	withNow(t, time.Date(2030, 5, 2, 12, 0, 0, 0, time.UTC))
	_, err = f.svc.Reviews.Create(ctx, owner.ID, b.ID, review)
	wantKind(t, err, domain.ErrInvalidInput)

	withNow(t, time.Date(2030, 5, 4, 0, 0, 0, 0, time.UTC))
	_, err = f.svc.Reviews.Create(ctx, other.ID, b.ID, review)
	wantKind(t, err, domain.ErrForbidden)

	_, err = f.svc.Reviews.Create(ctx, owner.ID, b.ID, &domain.CreateReviewRequest{Rating: 6})
	wantKind(t, err, domain.ErrInvalidInput)

	elig, err := f.svc.Reviews.Eligibility(ctx, owner.ID, b.ID)
	if err != nil || elig.Guide == nil || elig.Guide.ID != g.ID {
		t.Fatalf("eligibility: %v %+v", err, elig)
	}

	if _, err := f.svc.Reviews.Create(ctx, owner.ID, b.ID, review); err != nil {
		t.Fatalf("review: %v", err)
	}
	_, err = f.svc.Reviews.Create(ctx, owner.ID, b.ID, review)
	wantKind(t, err, domain.ErrConflict)

	details, err := f.svc.Guides.Details(ctx, g.ID)
	if err != nil || details.TotalReviews != 1 || details.AvgRating != 5 || len(details.Reviews) != 1 {
		t.Fatalf("guide details: %v %+v", err, details)
	}
}

func TestChat_Participants(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Tia", domain.RoleTraveler)
	stranger := f.user(t, "Sam", domain.RoleTraveler)
	admin := f.user(t, "Ada", domain.RoleAdmin)
	trip := f.trip(t, owner, f.destination(t, "Goa"))
	guideUser, g := f.guide(t, "Gus", "Goa", domain.GuideVerified)

	b, err := f.svc.Bookings.Create(ctx, owner.ID, g.ID, bookingReq(trip.ID, "2030-05-02", "2030-05-03"))
	if err != nil {
		t.Fatal(err)
	}

	if _, err := f.svc.Chat.Post(ctx, Caller{ID: owner.ID, Role: owner.Role}, b.ID, &domain.PostMessageRequest{Message: " hello "}); err != nil {
		t.Fatalf("traveler post: %v", err)
	}
	if _, err := f.svc.Chat.Post(ctx, Caller{ID: guideUser.ID, Role: guideUser.Role}, b.ID, &domain.PostMessageRequest{Message: "hi!"}); err != nil {
		t.Fatalf("guide post: %v", err)
	}
	_, err = f.svc.Chat.Post(ctx, Caller{ID: owner.ID, Role: owner.Role}, b.ID, &domain.PostMessageRequest{Message: "   "})
	wantKind(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Chat.Thread(ctx, Caller{ID: stranger.ID, Role: stranger.Role}, b.ID)
	wantKind(t, err, domain.ErrForbidden)
	_, err = f.svc.Chat.Post(ctx, Caller{ID: stranger.ID, Role: stranger.Role}, b.ID, &domain.PostMessageRequest{Message: "   "})
	wantKind(t, err, domain.ErrForbidden)
	_, err = f.svc.Chat.Post(ctx, Caller{ID: owner.ID, Role: owner.Role}, primitive.NewObjectID(), &domain.PostMessageRequest{})
	wantKind(t, err, domain.ErrNotFound)

	thread, err := f.svc.Chat.Thread(ctx, Caller{ID: admin.ID, Role: admin.Role}, b.ID)
	if err != nil || len(thread.Messages) != 2 {
		t.Fatalf("thread: %v", err)
	}
	if thread.Messages[0].Message != "hello" || thread.Messages[0].Sender.Name != "Tia" || thread.Messages[1].Sender.Role != domain.RoleGuide {
		t.Fatalf("unexpected order or senders: %+v %+v", thread.Messages[0], thread.Messages[1])
	}
}
