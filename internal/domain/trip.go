package domain

import (
	"math"
	"sort"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BudgetItem struct {
	Category string  `bson:"category" json:"category"`
	Amount   float64 `bson:"amount" json:"amount"`
}

type PackingItem struct {
	Name   string `bson:"name" json:"name"`
	Packed bool   `bson:"packed" json:"packed"`
}

type ItineraryDay struct {
	Day        int      `bson:"day" json:"day"`
	Title      string   `bson:"title" json:"title"`
	Activities []string `bson:"activities" json:"activities"`
}

type TripPlan struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID        primitive.ObjectID `bson:"user" json:"userId"`
	DestinationID primitive.ObjectID `bson:"destination" json:"destinationId"`
	StartDate     time.Time          `bson:"start_date" json:"startDate"`
	EndDate       time.Time          `bson:"end_date" json:"endDate"`
	Notes         string             `bson:"notes" json:"notes"`
	Budget        []BudgetItem       `bson:"budget" json:"budget"`
	PackingList   []PackingItem      `bson:"packing_list" json:"packingList"`
	Itinerary     []ItineraryDay     `bson:"itinerary" json:"itinerary"`
	AddedAt       time.Time          `bson:"added_at" json:"addedAt"`
	UpdatedAt     time.Time          `bson:"updated_at" json:"updatedAt"`
}

func (t *TripPlan) OwnedBy(userID primitive.ObjectID) bool {
	return t.UserID == userID
}

// Covers reports whether [start, end] lies inside the trip dates.
func (t *TripPlan) Covers(start, end time.Time) bool {
	return !start.Before(t.StartDate) && !end.After(t.EndDate)
}

// AddItineraryDay inserts a day keeping the itinerary ordered by day number.
func (t *TripPlan) AddItineraryDay(day ItineraryDay) error {
	for _, d := range t.Itinerary {
		if d.Day == day.Day {
			return Conflict("Day %d is already planned", day.Day)
		}
	}
	t.Itinerary = append(t.Itinerary, day)
	sort.SliceStable(t.Itinerary, func(i, j int) bool { return t.Itinerary[i].Day < t.Itinerary[j].Day })
	return nil
}

func (t *TripPlan) RemoveItineraryDay(day int) error {
	for i, d := range t.Itinerary {
		if d.Day == day {
			t.Itinerary = append(t.Itinerary[:i], t.Itinerary[i+1:]...)
			return nil
		}
	}
	return NotFound("Day %d not found in itinerary", day)
}

func (t *TripPlan) AddBudgetItem(item BudgetItem) {
	t.Budget = append(t.Budget, item)
}

// RemoveBudgetCategory drops every line of the category.
func (t *TripPlan) RemoveBudgetCategory(category string) error {
	kept := t.Budget[:0]
	removed := 0
	for _, b := range t.Budget {
		if b.Category == category {
			removed++
			continue
		}
		kept = append(kept, b)
	}
	t.Budget = kept
	if removed == 0 {
		return NotFound("Budget category %q not found", category)
	}
	return nil
}

func (t *TripPlan) BudgetTotal() float64 {
	var total float64
	for _, b := range t.Budget {
		total += b.Amount
	}
	return math.Round(total*100) / 100
}

func (t *TripPlan) AddPackingItem(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return Invalid("Item name cannot be empty")
	}
	t.PackingList = append(t.PackingList, PackingItem{Name: name})
	return nil
}

func (t *TripPlan) TogglePackingItem(index int) error {
	if index < 0 || index >= len(t.PackingList) {
		return Invalid("Invalid item index")
	}
	t.PackingList[index].Packed = !t.PackingList[index].Packed
	return nil
}

func (t *TripPlan) RemovePackingItem(index int) error {
	if index < 0 || index >= len(t.PackingList) {
		return Invalid("Invalid item index")
	}
	t.PackingList = append(t.PackingList[:index], t.PackingList[index+1:]...)
	return nil
}

type TripSummary struct {
	ID        primitive.ObjectID `json:"id"`
	StartDate time.Time          `json:"startDate"`
	EndDate   time.Time          `json:"endDate"`
}

func (t *TripPlan) Summary() *TripSummary {
	if t == nil {
		return nil
	}
	return &TripSummary{ID: t.ID, StartDate: t.StartDate, EndDate: t.EndDate}
}

// TripView is a trip with its destination attached.
type TripView struct {
	*TripPlan
	Destination *DestinationSummary `json:"destination,omitempty"`
	BudgetTotal float64             `json:"budgetTotal"`
}

type TripDetails struct {
	Trip              *TripView    `json:"trip"`
	Destination       *Destination `json:"destination"`
	Booking           *BookingView `json:"booking"`
	Guide             *GuideView   `json:"guide"`
	RejectedBooking   *BookingView `json:"rejectedBooking"`
	ShowBookingButton bool         `json:"showBookingButton"`
}

type CreateTripRequest struct {
	StartDate Date   `json:"startDate"`
	EndDate   Date   `json:"endDate"`
	Notes     string `json:"notes" validate:"max=5000"`
}

func (r *CreateTripRequest) Normalize() {
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *CreateTripRequest) Validate() error {
	if err := checkRange(r.StartDate, r.EndDate); err != nil {
		return err
	}
	return validateStruct(r)
}

type ItineraryRequest struct {
	Day        int        `json:"day" validate:"required,min=1,max=365"`
	Title      string     `json:"title" validate:"required,max=200"`
	Activities StringList `json:"activities" validate:"max=50,dive,max=300"`
}

func (r *ItineraryRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Activities = cleanList(r.Activities)
}

func (r *ItineraryRequest) Validate() error {
	return validateStruct(r)
}

type BudgetRequest struct {
	Category string  `json:"category" validate:"required,max=60"`
	Amount   float64 `json:"amount" validate:"gte=0,lte=100000000"`
}

func (r *BudgetRequest) Normalize() {
	r.Category = strings.TrimSpace(r.Category)
}

func (r *BudgetRequest) Validate() error {
	return validateStruct(r)
}

type PackingRequest struct {
	Item string `json:"item" validate:"max=120"`
}

func (r *PackingRequest) Normalize() {
	r.Item = strings.TrimSpace(r.Item)
}

func (r *PackingRequest) Validate() error {
	if r.Item == "" {
		return Invalid("Item name cannot be empty")
	}
	return validateStruct(r)
}

type NotesRequest struct {
	Notes string `json:"notes" validate:"max=5000"`
}

func (r *NotesRequest) Normalize() {
	r.Notes = strings.TrimSpace(r.Notes)
}

func (r *NotesRequest) Validate() error {
	return validateStruct(r)
}
