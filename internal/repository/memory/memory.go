// Package memory implements the repository interfaces on in-process maps.
// It backs the service and handler tests and local runs without MongoDB.
package memory

import (
	"bytes"
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/diagnosis/travelmate/internal/domain"
	"github.com/diagnosis/travelmate/internal/repository"
)

type state struct {
	mu           sync.RWMutex
	users        map[primitive.ObjectID]domain.User
	guides       map[primitive.ObjectID]domain.Guide
	destinations map[primitive.ObjectID]domain.Destination
	trips        map[primitive.ObjectID]domain.TripPlan
	bookings     map[primitive.ObjectID]domain.BookingRequest
	chats        map[primitive.ObjectID]domain.ChatMessage
	reviews      map[primitive.ObjectID]domain.Review
	blogs        map[primitive.ObjectID]domain.Blog
	contacts     map[primitive.ObjectID]domain.Contact
}

// NewStore returns a fresh, empty store.
func NewStore() *repository.Store {
	s := &state{
		users:        map[primitive.ObjectID]domain.User{},
		guides:       map[primitive.ObjectID]domain.Guide{},
		destinations: map[primitive.ObjectID]domain.Destination{},
		trips:        map[primitive.ObjectID]domain.TripPlan{},
		bookings:     map[primitive.ObjectID]domain.BookingRequest{},
		chats:        map[primitive.ObjectID]domain.ChatMessage{},
		reviews:      map[primitive.ObjectID]domain.Review{},
		blogs:        map[primitive.ObjectID]domain.Blog{},
		contacts:     map[primitive.ObjectID]domain.Contact{},
	}
	return &repository.Store{
		Users:        &users{s},
		Guides:       &guides{s},
		Destinations: &destinations{s},
		Trips:        &trips{s},
		Bookings:     &bookings{s},
		Chats:        &chats{s},
		Reviews:      &reviews{s},
		Blogs:        &blogs{s},
		Contacts:     &contacts{s},
	}
}

func now() time.Time { return time.Now().UTC() }

func newID(id *primitive.ObjectID) {
	if id.IsZero() {
		*id = primitive.NewObjectID()
	}
}

// newer orders by time descending, then by id descending.
func newer(ta, tb time.Time, ia, ib primitive.ObjectID) bool {
	if !ta.Equal(tb) {
		return ta.After(tb)
	}
	return bytes.Compare(ia[:], ib[:]) > 0
}

func idSet(ids []primitive.ObjectID) map[primitive.ObjectID]bool {
	set := make(map[primitive.ObjectID]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

func cloneAsset(a *domain.Asset) *domain.Asset {
	if a == nil {
		return nil
	}
	c := *a
	return &c
}

// users

type users struct{ s *state }

func (r *users) Create(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.users {
		if existing.Email == u.Email {
			return repository.ErrDuplicate
		}
	}
	newID(&u.ID)
	u.CreatedAt, u.UpdatedAt = now(), now()
	r.s.users[u.ID] = cloneUser(*u)
	return nil
}

func (r *users) Save(_ context.Context, u *domain.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	u.UpdatedAt = now()
	r.s.users[u.ID] = cloneUser(*u)
	return nil
}

func (r *users) SetProfileImage(_ context.Context, id primitive.ObjectID, url string) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if u, ok := r.s.users[id]; ok {
		u.ProfileImage = url
		u.UpdatedAt = now()
		r.s.users[id] = u
	}
	return nil
}

func (r *users) FindByID(_ context.Context, id primitive.ObjectID) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if u, ok := r.s.users[id]; ok {
		c := cloneUser(u)
		return &c, nil
	}
	return nil, nil
}

func (r *users) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, u := range r.s.users {
		if u.Email == email {
			c := cloneUser(u)
			return &c, nil
		}
	}
	return nil, nil
}

func (r *users) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*domain.User, error) {
	set := idSet(ids)
	return r.filter(func(u domain.User) bool { return set[u.ID] }), nil
}

func (r *users) List(_ context.Context) ([]*domain.User, error) {
	return r.filter(func(domain.User) bool { return true }), nil
}

func (r *users) CountByRole(_ context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int64{}
	for _, u := range r.s.users {
		out[u.Role]++
	}
	return out, nil
}

func (r *users) filter(keep func(domain.User) bool) []*domain.User {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.User{}
	for _, u := range r.s.users {
		if keep(u) {
			c := cloneUser(u)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func cloneUser(u domain.User) domain.User {
	if u.OTPExpires != nil {
		t := *u.OTPExpires
		u.OTPExpires = &t
	}
	return u
}

// guides

type guides struct{ s *state }

func (r *guides) Create(_ context.Context, g *domain.Guide) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.guides {
		if existing.UserID == g.UserID {
			return repository.ErrDuplicate
		}
	}
	newID(&g.ID)
	g.CreatedAt, g.UpdatedAt = now(), now()
	r.s.guides[g.ID] = cloneGuide(*g)
	return nil
}

func (r *guides) UpdateProfile(_ context.Context, id primitive.ObjectID, profile *domain.GuideProfileRequest, image *domain.Asset) (*domain.Guide, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.guides[id]
	if !ok {
		return nil, nil
	}
	profile.Apply(&g)
	if image != nil {
		g.ProfileImage = image
	}
	g.UpdatedAt = now()
	g = cloneGuide(g)
	r.s.guides[id] = g
	out := cloneGuide(g)
	return &out, nil
}

func (r *guides) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Guide, error) {
	return r.first(func(g domain.Guide) bool { return g.ID == id }), nil
}

func (r *guides) FindByUserID(_ context.Context, userID primitive.ObjectID) (*domain.Guide, error) {
	return r.first(func(g domain.Guide) bool { return g.UserID == userID }), nil
}

func (r *guides) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*domain.Guide, error) {
	set := idSet(ids)
	return r.filter(func(g domain.Guide) bool { return set[g.ID] }), nil
}

func (r *guides) List(_ context.Context) ([]*domain.Guide, error) {
	return r.filter(func(domain.Guide) bool { return true }), nil
}

func (r *guides) ListByStatus(_ context.Context, status domain.GuideStatus) ([]*domain.Guide, error) {
	return r.filter(func(g domain.Guide) bool { return g.Status == status }), nil
}

func (r *guides) ListVerifiedByLocation(_ context.Context, location string, exclude primitive.ObjectID) ([]*domain.Guide, error) {
	location = strings.TrimSpace(location)
	return r.filter(func(g domain.Guide) bool {
		return g.Status == domain.GuideVerified && strings.EqualFold(g.Location, location) && g.ID != exclude
	}), nil
}

func (r *guides) UpdateStatus(_ context.Context, id primitive.ObjectID, status domain.GuideStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	g, ok := r.s.guides[id]
	if !ok {
		return false, nil
	}
	g.Status = status
	g.UpdatedAt = now()
	r.s.guides[id] = g
	return true, nil
}

func (r *guides) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int64{}
	for _, g := range r.s.guides {
		out[string(g.Status)]++
	}
	return out, nil
}

func (r *guides) first(match func(domain.Guide) bool) *domain.Guide {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, g := range r.s.guides {
		if match(g) {
			c := cloneGuide(g)
			return &c
		}
	}
	return nil
}

func (r *guides) filter(keep func(domain.Guide) bool) []*domain.Guide {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Guide{}
	for _, g := range r.s.guides {
		if keep(g) {
			c := cloneGuide(g)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func cloneGuide(g domain.Guide) domain.Guide {
	g.Languages = cloneStrings(g.Languages)
	g.ProfileImage = cloneAsset(g.ProfileImage)
	g.IDProof = cloneAsset(g.IDProof)
	return g
}

// destinations

type destinations struct{ s *state }

func (r *destinations) Create(_ context.Context, d *domain.Destination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	newID(&d.ID)
	d.CreatedAt, d.UpdatedAt = now(), now()
	r.s.destinations[d.ID] = cloneDestination(*d)
	return nil
}

func (r *destinations) Save(_ context.Context, d *domain.Destination) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	d.UpdatedAt = now()
	r.s.destinations[d.ID] = cloneDestination(*d)
	return nil
}

func (r *destinations) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Destination, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if d, ok := r.s.destinations[id]; ok {
		c := cloneDestination(d)
		return &c, nil
	}
	return nil, nil
}

func (r *destinations) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*domain.Destination, error) {
	set := idSet(ids)
	return r.filter(func(d domain.Destination) bool { return set[d.ID] }), nil
}

func (r *destinations) List(_ context.Context) ([]*domain.Destination, error) {
	return r.filter(func(domain.Destination) bool { return true }), nil
}

func (r *destinations) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.destinations[id]
	delete(r.s.destinations, id)
	return ok, nil
}

func (r *destinations) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.destinations)), nil
}

func (r *destinations) filter(keep func(domain.Destination) bool) []*domain.Destination {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Destination{}
	for _, d := range r.s.destinations {
		if keep(d) {
			c := cloneDestination(d)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

func cloneDestination(d domain.Destination) domain.Destination {
	d.MustVisit = cloneStrings(d.MustVisit)
	d.Image = cloneAsset(d.Image)
	return d
}

// trips

type trips struct{ s *state }

func (r *trips) Create(_ context.Context, t *domain.TripPlan) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.trips {
		if existing.UserID == t.UserID && existing.DestinationID == t.DestinationID {
			return repository.ErrDuplicate
		}
	}
	newID(&t.ID)
	t.AddedAt, t.UpdatedAt = now(), now()
	r.s.trips[t.ID] = cloneTrip(*t)
	return nil
}

func (r *trips) AddItineraryDay(_ context.Context, id primitive.ObjectID, day domain.ItineraryDay) (*domain.TripPlan, error) {
	return r.edit(id, func(t *domain.TripPlan) bool {
		return t.AddItineraryDay(day) == nil
	})
}

func (r *trips) RemoveItineraryDay(_ context.Context, id primitive.ObjectID, day int) (*domain.TripPlan, error) {
	return r.edit(id, func(t *domain.TripPlan) bool {
		return t.RemoveItineraryDay(day) == nil
	})
}

func (r *trips) AddBudgetItem(_ context.Context, id primitive.ObjectID, item domain.BudgetItem) (*domain.TripPlan, error) {
	return r.edit(id, func(t *domain.TripPlan) bool {
		t.AddBudgetItem(item)
		return true
	})
}

func (r *trips) RemoveBudgetCategory(_ context.Context, id primitive.ObjectID, category string) (*domain.TripPlan, error) {
	return r.edit(id, func(t *domain.TripPlan) bool {
		return t.RemoveBudgetCategory(category) == nil
	})
}

func (r *trips) AddPackingItem(_ context.Context, id primitive.ObjectID, item domain.PackingItem) (*domain.TripPlan, error) {
	return r.edit(id, func(t *domain.TripPlan) bool {
		return t.AddPackingItem(item.Name) == nil
	})
}

func (r *trips) TogglePackingItem(_ context.Context, id primitive.ObjectID, index int) (*domain.TripPlan, error) {
	return r.edit(id, func(t *domain.TripPlan) bool {
		return t.TogglePackingItem(index) == nil
	})
}

func (r *trips) RemovePackingItem(_ context.Context, id primitive.ObjectID, index int) (*domain.TripPlan, error) {
	return r.edit(id, func(t *domain.TripPlan) bool {
		return t.RemovePackingItem(index) == nil
	})
}

func (r *trips) SetNotes(_ context.Context, id primitive.ObjectID, notes string) (*domain.TripPlan, error) {
	return r.edit(id, func(t *domain.TripPlan) bool {
		t.Notes = notes
		return true
	})
}

// edit applies fn to a copy of the stored trip and keeps it when fn reports a change.
func (r *trips) edit(id primitive.ObjectID, fn func(t *domain.TripPlan) bool) (*domain.TripPlan, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	stored, ok := r.s.trips[id]
	if !ok {
		return nil, nil
	}
	t := cloneTrip(stored)
	if !fn(&t) {
		return nil, nil
	}
	t.UpdatedAt = now()
	r.s.trips[id] = cloneTrip(t)
	return &t, nil
}

func (r *trips) FindByID(_ context.Context, id primitive.ObjectID) (*domain.TripPlan, error) {
	return r.first(func(t domain.TripPlan) bool { return t.ID == id }), nil
}

func (r *trips) FindByUserAndDestination(_ context.Context, userID, destinationID primitive.ObjectID) (*domain.TripPlan, error) {
	return r.first(func(t domain.TripPlan) bool { return t.UserID == userID && t.DestinationID == destinationID }), nil
}

func (r *trips) FindByIDs(_ context.Context, ids []primitive.ObjectID) ([]*domain.TripPlan, error) {
	set := idSet(ids)
	return r.filter(func(t domain.TripPlan) bool { return set[t.ID] }), nil
}

func (r *trips) ListByUser(_ context.Context, userID primitive.ObjectID) ([]*domain.TripPlan, error) {
	return r.filter(func(t domain.TripPlan) bool { return t.UserID == userID }), nil
}

func (r *trips) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.trips[id]
	delete(r.s.trips, id)
	return ok, nil
}

func (r *trips) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.trips)), nil
}

func (r *trips) first(match func(domain.TripPlan) bool) *domain.TripPlan {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, t := range r.s.trips {
		if match(t) {
			c := cloneTrip(t)
			return &c
		}
	}
	return nil
}

func (r *trips) filter(keep func(domain.TripPlan) bool) []*domain.TripPlan {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.TripPlan{}
	for _, t := range r.s.trips {
		if keep(t) {
			c := cloneTrip(t)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].AddedAt, out[j].AddedAt, out[i].ID, out[j].ID) })
	return out
}

func cloneTrip(t domain.TripPlan) domain.TripPlan {
	t.Budget = append([]domain.BudgetItem(nil), t.Budget...)
	t.PackingList = append([]domain.PackingItem(nil), t.PackingList...)
	days := make([]domain.ItineraryDay, len(t.Itinerary))
	for i, d := range t.Itinerary {
		d.Activities = cloneStrings(d.Activities)
		days[i] = d
	}
	t.Itinerary = days
	return t
}

// bookings

type bookings struct{ s *state }

func (r *bookings) Create(_ context.Context, b *domain.BookingRequest) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	newID(&b.ID)
	b.RequestedAt, b.UpdatedAt = now(), now()
	if b.Status == "" {
		b.Status = domain.BookingPending
	}
	r.s.bookings[b.ID] = *b
	return nil
}

func (r *bookings) FindByID(_ context.Context, id primitive.ObjectID) (*domain.BookingRequest, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.bookings[id]; ok {
		return &b, nil
	}
	return nil, nil
}

func (r *bookings) ListByGuide(_ context.Context, guideID primitive.ObjectID, status *domain.BookingStatus) ([]*domain.BookingRequest, error) {
	return r.filter(func(b domain.BookingRequest) bool {
		return b.GuideID == guideID && (status == nil || b.Status == *status)
	}), nil
}

func (r *bookings) ListByTrip(_ context.Context, tripID primitive.ObjectID) ([]*domain.BookingRequest, error) {
	return r.filter(func(b domain.BookingRequest) bool { return b.TripID == tripID }), nil
}

func (r *bookings) ListByStatus(_ context.Context, status domain.BookingStatus) ([]*domain.BookingRequest, error) {
	return r.filter(func(b domain.BookingRequest) bool { return b.Status == status }), nil
}

func (r *bookings) UpdateStatus(_ context.Context, id primitive.ObjectID, from, to domain.BookingStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b, ok := r.s.bookings[id]
	if !ok || b.Status != from {
		return false, nil
	}
	b.Status = to
	b.UpdatedAt = now()
	r.s.bookings[id] = b
	return true, nil
}

func (r *bookings) DeleteByTripAndStatus(_ context.Context, tripID primitive.ObjectID, status domain.BookingStatus) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	var n int64
	for id, b := range r.s.bookings {
		if b.TripID == tripID && b.Status == status {
			delete(r.s.bookings, id)
			n++
		}
	}
	return n, nil
}

func (r *bookings) CountByStatus(_ context.Context) (map[string]int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := map[string]int64{}
	for _, b := range r.s.bookings {
		out[string(b.Status)]++
	}
	return out, nil
}

func (r *bookings) filter(keep func(domain.BookingRequest) bool) []*domain.BookingRequest {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.BookingRequest{}
	for _, b := range r.s.bookings {
		if keep(b) {
			c := b
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].RequestedAt, out[j].RequestedAt, out[i].ID, out[j].ID) })
	return out
}

// chats

type chats struct{ s *state }

func (r *chats) Create(_ context.Context, m *domain.ChatMessage) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	newID(&m.ID)
	m.CreatedAt = now()
	r.s.chats[m.ID] = *m
	return nil
}

func (r *chats) ListByBooking(_ context.Context, bookingID primitive.ObjectID) ([]*domain.ChatMessage, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.ChatMessage{}
	for _, m := range r.s.chats {
		if m.BookingID == bookingID {
			c := m
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[j].CreatedAt, out[i].CreatedAt, out[j].ID, out[i].ID) })
	return out, nil
}

// reviews

type reviews struct{ s *state }

func (r *reviews) Create(_ context.Context, rv *domain.Review) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, existing := range r.s.reviews {
		if existing.BookingID == rv.BookingID {
			return repository.ErrDuplicate
		}
	}
	newID(&rv.ID)
	rv.CreatedAt = now()
	r.s.reviews[rv.ID] = *rv
	return nil
}

func (r *reviews) FindByBooking(_ context.Context, bookingID primitive.ObjectID) (*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	for _, rv := range r.s.reviews {
		if rv.BookingID == bookingID {
			c := rv
			return &c, nil
		}
	}
	return nil, nil
}

func (r *reviews) ListByGuide(_ context.Context, guideID primitive.ObjectID, limit int64) ([]*domain.Review, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Review{}
	for _, rv := range r.s.reviews {
		if rv.GuideID == guideID {
			c := rv
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	if limit > 0 && int64(len(out)) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *reviews) RatingSummary(_ context.Context, guideID primitive.ObjectID) (float64, int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var sum, n int64
	for _, rv := range r.s.reviews {
		if rv.GuideID == guideID {
			sum += int64(rv.Rating)
			n++
		}
	}
	if n == 0 {
		return 0, 0, nil
	}
	return float64(sum) / float64(n), n, nil
}

// blogs

type blogs struct{ s *state }

func (r *blogs) Create(_ context.Context, b *domain.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	newID(&b.ID)
	b.CreatedAt, b.UpdatedAt = now(), now()
	c := *b
	c.Image = cloneAsset(b.Image)
	r.s.blogs[b.ID] = c
	return nil
}

func (r *blogs) Save(_ context.Context, b *domain.Blog) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	b.UpdatedAt = now()
	c := *b
	c.Image = cloneAsset(b.Image)
	r.s.blogs[b.ID] = c
	return nil
}

func (r *blogs) FindByID(_ context.Context, id primitive.ObjectID) (*domain.Blog, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if b, ok := r.s.blogs[id]; ok {
		b.Image = cloneAsset(b.Image)
		return &b, nil
	}
	return nil, nil
}

func (r *blogs) List(_ context.Context) ([]*domain.Blog, error) {
	return r.filter(func(domain.Blog) bool { return true }), nil
}

func (r *blogs) ListByAuthor(_ context.Context, authorID primitive.ObjectID) ([]*domain.Blog, error) {
	return r.filter(func(b domain.Blog) bool { return b.AuthorID == authorID }), nil
}

func (r *blogs) Delete(_ context.Context, id primitive.ObjectID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	_, ok := r.s.blogs[id]
	delete(r.s.blogs, id)
	return ok, nil
}

func (r *blogs) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.blogs)), nil
}

func (r *blogs) filter(keep func(domain.Blog) bool) []*domain.Blog {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Blog{}
	for _, b := range r.s.blogs {
		if keep(b) {
			c := b
			c.Image = cloneAsset(b.Image)
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out
}

// contacts

type contacts struct{ s *state }

func (r *contacts) Create(_ context.Context, c *domain.Contact) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	newID(&c.ID)
	c.CreatedAt = now()
	r.s.contacts[c.ID] = *c
	return nil
}

func (r *contacts) List(_ context.Context) ([]*domain.Contact, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := []*domain.Contact{}
	for _, c := range r.s.contacts {
		cc := c
		out = append(out, &cc)
	}
	sort.Slice(out, func(i, j int) bool { return newer(out[i].CreatedAt, out[j].CreatedAt, out[i].ID, out[j].ID) })
	return out, nil
}

func (r *contacts) Count(_ context.Context) (int64, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return int64(len(r.s.contacts)), nil
}
