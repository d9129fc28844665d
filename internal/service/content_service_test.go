package service

import (
	"context"
	"strings"
	"sync"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
	"github.com/diagnosis/travelmate/internal/storage"
	"github.com/diagnosis/travelmate/pkg/events"
)

func upload(name string) *storage.File {
	return &storage.File{Name: name, Body: strings.NewReader("data")}
}

func TestProfiles(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Tia", domain.RoleTraveler)
	_, g := f.guide(t, "Gus", "Goa", domain.GuideVerified)

	_, err := f.svc.Profiles.Update(ctx, u.ID, &domain.UpdateProfileRequest{Phone: "abc"}, nil)
	wantKind(t, err, domain.ErrInvalidInput)

	info, err := f.svc.Profiles.Update(ctx, u.ID, &domain.UpdateProfileRequest{AboutMe: " hiker ", Phone: "+1 555 0100"}, upload("me.png"))
	if err != nil || info.AboutMe != "hiker" || info.ProfileImage == "" {
		t.Fatalf("update: %v %+v", err, info)
	}
	first := info.ProfileImage

	if info, err = f.svc.Profiles.Update(ctx, u.ID, &domain.UpdateProfileRequest{}, upload("me2.png")); err != nil || info.ProfileImage == first {
		t.Fatalf("replace image: %v", err)
	}
	if len(f.files.deleted) != 1 {
		t.Fatalf("old image not deleted: %v", f.files.deleted)
	}

	if info, err = f.svc.Profiles.RemoveImage(ctx, u.ID); err != nil || info.ProfileImage != "" {
		t.Fatalf("remove image: %v", err)
	}
	_, err = f.svc.Profiles.RemoveImage(ctx, u.ID)
	wantKind(t, err, domain.ErrInvalidInput)

	public, err := f.svc.Profiles.Public(ctx, u.ID)
	if err != nil || public.Phone != "" {
		t.Fatalf("public profile: %v %+v", err, public)
	}
	_, err = f.svc.Profiles.Public(ctx, g.UserID)
	wantKind(t, err, domain.ErrNotFound)
}

func TestGuides_CompleteAndUpdateProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u := f.user(t, "Gia", domain.RoleGuide)
	req := func() *domain.GuideProfileRequest {
		return &domain.GuideProfileRequest{Bio: "Local", PricePerHour: 20, Location: "Goa", Languages: []string{"English", "english", " Hindi "}}
	}

	_, err := f.svc.Guides.CompleteProfile(ctx, u.ID, req(), upload("me.png"), nil)
	wantKind(t, err, domain.ErrInvalidInput)

	_, err = f.svc.Guides.Profile(ctx, u.ID)
	wantKind(t, err, domain.ErrNotFound)

	gv, err := f.svc.Guides.CompleteProfile(ctx, u.ID, req(), upload("me.png"), upload("id.pdf"))
	if err != nil {
		t.Fatalf("complete: %v", err)
	}
	if gv.Status != domain.GuidePending || len(gv.Languages) != 2 || gv.IDProof == nil {
		t.Fatalf("unexpected guide %+v", gv.Guide)
	}
	user, _ := f.store.Users.FindByID(ctx, u.ID)
	if user.ProfileImage != gv.ProfileImage.URL {
		t.Fatal("user image not synced")
	}

	_, err = f.svc.Guides.CompleteProfile(ctx, u.ID, req(), upload("me.png"), upload("id.pdf"))
	wantKind(t, err, domain.ErrConflict)

	updated, err := f.svc.Guides.UpdateProfile(ctx, u.ID, &domain.GuideProfileRequest{Bio: "New", Location: "Pune"}, upload("new.png"))
	if err != nil || updated.Bio != "New" || updated.Location != "Pune" {
		t.Fatalf("update: %v", err)
	}
	user, _ = f.store.Users.FindByID(ctx, u.ID)
	if user.ProfileImage != updated.ProfileImage.URL {
		t.Fatal("user image not synced after update")
	}

	// Pending guides stay out of search until approved.
	search, err := f.svc.Guides.Search(ctx, "pune")
	if err != nil || len(search.Guides) != 0 {
		t.Fatalf("search: %v %+v", err, search)
	}
	if _, err := f.svc.Admin.SetGuideStatus(ctx, gv.ID, domain.GuideVerified); err != nil {
		t.Fatalf("approve: %v", err)
	}
	search, _ = f.svc.Guides.Search(ctx, "PUNE")
	if len(search.Guides) != 1 || search.Guides[0].IDProof != nil {
		t.Fatalf("search after approval: %+v", search.Guides)
	}

	last := f.pub.events[len(f.pub.events)-1]
	if ev, ok := last.data.(events.GuideStatusChangedEvent); !ok || ev.Email != u.Email || ev.Status != "verified" {
		t.Fatalf("unexpected event %+v", last)
	}
}

func TestDestinations(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Destinations.Create(ctx, &domain.DestinationRequest{Name: "Goa", Description: "Beaches"}, upload("goa.exe"))
	wantKind(t, err, domain.ErrInvalidInput)

	d, err := f.svc.Destinations.Create(ctx, &domain.DestinationRequest{
		Name: " Goa ", Description: "Beaches", MustVisit: domain.StringList{"Baga", " ", "Fort"},
	}, upload("goa.png"))
	if err != nil || d.Name != "Goa" || len(d.MustVisit) != 2 || d.Image == nil {
		t.Fatalf("create: %v %+v", err, d)
	}

	d, err = f.svc.Destinations.Update(ctx, d.ID, &domain.DestinationRequest{Name: "Goa", Description: "Sun"}, upload("goa2.png"))
	if err != nil || d.Description != "Sun" {
		t.Fatalf("update: %v", err)
	}
	if len(f.files.deleted) != 1 {
		t.Fatalf("old image kept: %v", f.files.deleted)
	}

	if err := f.svc.Destinations.Delete(ctx, d.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(f.files.deleted) != 2 {
		t.Fatalf("image not removed on delete: %v", f.files.deleted)
	}
	_, err = f.svc.Destinations.Get(ctx, d.ID)
	wantKind(t, err, domain.ErrNotFound)
}

func TestBlogs_AuthorRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	author := f.user(t, "Ann", domain.RoleTraveler)
	other := f.user(t, "Bob", domain.RoleGuide)
	admin := f.user(t, "Ada", domain.RoleAdmin)
	as := func(u *domain.User) Caller { return Caller{ID: u.ID, Role: u.Role} }

	b, err := f.svc.Blogs.Create(ctx, as(author), &domain.BlogRequest{Title: "Goa", Description: "Trip notes"}, upload("cover.webp"))
	if err != nil || b.Role != domain.RoleTraveler || b.Author == nil || b.Author.Email != "" {
		t.Fatalf("create: %v %+v", err, b)
	}

	_, err = f.svc.Blogs.Update(ctx, as(other), b.ID, &domain.BlogRequest{Title: "X", Description: "Y"}, nil)
	wantKind(t, err, domain.ErrForbidden)
	err = f.svc.Blogs.Delete(ctx, as(other), b.ID)
	wantKind(t, err, domain.ErrForbidden)

	if _, err := f.svc.Blogs.Update(ctx, as(author), b.ID, &domain.BlogRequest{Title: "Goa 2", Description: "More"}, nil); err != nil {
		t.Fatalf("update: %v", err)
	}
	mine, _ := f.svc.Blogs.ListByAuthor(ctx, author.ID)
	if len(mine) != 1 || mine[0].Title != "Goa 2" {
		t.Fatalf("manage list: %+v", mine)
	}

	if err := f.svc.Blogs.Delete(ctx, as(admin), b.ID); err != nil {
		t.Fatalf("admin delete: %v", err)
	}
	_, err = f.svc.Blogs.Get(ctx, b.ID)
	wantKind(t, err, domain.ErrNotFound)
}

func TestAdmin_UsersTripsStats(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	owner := f.user(t, "Tia", domain.RoleTraveler)
	trip := f.trip(t, owner, f.destination(t, "Goa"))
	guideUser, g := f.guide(t, "Gus", "Goa", domain.GuideVerified)
	f.guide(t, "Pat", "Goa", domain.GuidePending)

	b, err := f.svc.Bookings.Create(ctx, owner.ID, g.ID, bookingReq(trip.ID, "2030-05-02", "2030-05-03"))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Guides.Decide(ctx, guideUser.ID, b.ID, domain.BookingAccepted); err != nil {
		t.Fatal(err)
	}
	if _, err := f.svc.Contacts.Submit(ctx, &domain.ContactRequest{Name: "V", Email: "V@x.co", Message: "hi"}); err != nil {
		t.Fatal(err)
	}

	users, err := f.svc.Admin.Users(ctx)
	if err != nil || len(users) != 3 {
		t.Fatalf("users: %v %d", err, len(users))
	}
	for _, u := range users {
		if (u.Role == domain.RoleGuide) != (u.GuideID != nil) {
			t.Fatalf("guide id mismatch for %+v", u)
		}
	}

	trips, err := f.svc.Admin.Trips(ctx)
	if err != nil || len(trips) != 1 || trips[0].Traveler.Name != "Tia" || trips[0].Guide.ID != g.ID {
		t.Fatalf("trips: %v %+v", err, trips)
	}

	overview, _ := f.svc.Admin.Guides(ctx)
	if len(overview.Pending) != 1 || len(overview.Verified) != 1 {
		t.Fatalf("overview: %+v", overview)
	}

	_, err = f.svc.Admin.SetGuideStatus(ctx, primitive.NewObjectID(), domain.GuideVerified)
	wantKind(t, err, domain.ErrNotFound)
	_, err = f.svc.Admin.SetGuideStatus(ctx, g.ID, domain.GuidePending)
	wantKind(t, err, domain.ErrInvalidInput)

	stats, err := f.svc.Admin.Stats(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if stats.UsersByRole[domain.RoleGuide] != 2 || stats.BookingsByState["accepted"] != 1 || stats.Trips != 1 || stats.Contacts != 1 {
		t.Fatalf("unexpected stats %+v", stats)
	}
}

// approveAfterRead approves the guide right after the first profile read,
// as an admin acting between a guide's read and write would.
type approveAfterRead struct {
	repository.GuideRepository
	once sync.Once
}

func (r *approveAfterRead) FindByUserID(ctx context.Context, userID primitive.ObjectID) (*domain.Guide, error) {
	g, err := r.GuideRepository.FindByUserID(ctx, userID)
	if g != nil {
		r.once.Do(func() { r.GuideRepository.UpdateStatus(ctx, g.ID, domain.GuideVerified) })
	}
	return g, err
}

func TestGuides_UpdateProfileKeepsConcurrentApproval(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	u, g := f.guide(t, "Gia", "Goa", domain.GuidePending)
	f.store.Guides = &approveAfterRead{GuideRepository: f.store.Guides}

	updated, err := f.svc.Guides.UpdateProfile(ctx, u.ID, &domain.GuideProfileRequest{Bio: "New bio", Location: "Goa"}, upload("new.png"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Status != domain.GuideVerified || updated.Bio != "New bio" {
		t.Fatalf("unexpected guide after update %+v", updated.Guide)
	}

	stored, _ := f.store.Guides.FindByID(ctx, g.ID)
	if stored.Status != domain.GuideVerified {
		t.Fatalf("approval lost: status=%s", stored.Status)
	}
	if stored.IDProof == nil || stored.IDProof.Key != "id" {
		t.Fatalf("id proof changed: %+v", stored.IDProof)
	}
	user, _ := f.store.Users.FindByID(ctx, u.ID)
	if user.ProfileImage != stored.ProfileImage.URL || user.Name != "Gia" {
		t.Fatalf("user image not synced: %+v", user)
	}
}
