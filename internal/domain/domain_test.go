package domain_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/diagnosis/travelmate/internal/domain"
)

func TestSignupRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     domain.SignupRequest
		wantErr bool
	}{
		{"valid traveler", domain.SignupRequest{Name: "Ann", Email: " Ann@Example.com ", Password: "secret1"}, false},
		{"valid guide", domain.SignupRequest{Name: "Bo", Email: "bo@example.com", Password: "secret1", Role: "Guide"}, false},
		{"admin not allowed", domain.SignupRequest{Name: "Cy", Email: "cy@example.com", Password: "secret1", Role: "admin"}, true},
		{"missing name", domain.SignupRequest{Email: "a@example.com", Password: "secret1"}, true},
		{"bad email", domain.SignupRequest{Name: "Ann", Email: "nope", Password: "secret1"}, true},
		{"short password", domain.SignupRequest{Name: "Ann", Email: "a@example.com", Password: "123"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.req.Normalize()
			err := tt.req.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected invalid input kind, got %v", err)
			}
		})
	}
}

func TestSignupRequest_NormalizeDefaults(t *testing.T) {
	req := domain.SignupRequest{Name: "  Ann ", Email: " ANN@Example.COM", Password: "secret1"}
	req.Normalize()
	if req.Email != "ann@example.com" || req.Name != "Ann" || req.Role != domain.RoleTraveler {
		t.Fatalf("unexpected normalized request: %+v", req)
	}
}

func TestVerifyOTPRequest_Validate(t *testing.T) {
	for _, otp := range []string{"12345", "1234567", "12a456", ""} {
		req := domain.VerifyOTPRequest{Email: "a@example.com", OTP: otp}
		if err := req.Validate(); err == nil {
			t.Fatalf("expected error for otp %q", otp)
		}
	}
	req := domain.VerifyOTPRequest{Email: "a@example.com", OTP: "012345"}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStringList_Unmarshal(t *testing.T) {
	var body struct {
		A domain.StringList `json:"a"`
		B domain.StringList `json:"b"`
	}
	if err := json.Unmarshal([]byte(`{"a":"Fort, Lake , ,Market","b":[" x ","","y"]}`), &body); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(body.A) != 3 || body.A[1] != "Lake" {
		t.Fatalf("unexpected csv split: %v", body.A)
	}
	if len(body.B) != 2 || body.B[0] != "x" {
		t.Fatalf("unexpected array clean: %v", body.B)
	}
}

func TestDate_Unmarshal(t *testing.T) {
	var req domain.CreateTripRequest
	if err := json.Unmarshal([]byte(`{"startDate":"2025-03-01","endDate":"2025-03-05T10:00:00Z"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.StartDate.Day() != 1 || req.EndDate.Hour() != 10 {
		t.Fatalf("unexpected dates: %v %v", req.StartDate, req.EndDate)
	}
	if err := json.Unmarshal([]byte(`{"startDate":"03/01/2025"}`), &req); err == nil {
		t.Fatal("expected error for unsupported layout")
	}
}

func TestCreateTripRequest_DateOrder(t *testing.T) {
	start, _ := domain.ParseDate("2025-03-05")
	end, _ := domain.ParseDate("2025-03-01")
	req := domain.CreateTripRequest{StartDate: start, EndDate: end}
	if err := req.Validate(); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid input for reversed dates, got %v", err)
	}
	req = domain.CreateTripRequest{StartDate: end, EndDate: start}
	if err := req.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestTripPlan_Itinerary(t *testing.T) {
	trip := &domain.TripPlan{}
	if err := trip.AddItineraryDay(domain.ItineraryDay{Day: 2, Title: "Hike"}); err != nil {
		t.Fatal(err)
	}
	if err := trip.AddItineraryDay(domain.ItineraryDay{Day: 1, Title: "Arrive"}); err != nil {
		t.Fatal(err)
	}
	if trip.Itinerary[0].Day != 1 {
		t.Fatalf("expected sorted itinerary, got %+v", trip.Itinerary)
	}
	if err := trip.AddItineraryDay(domain.ItineraryDay{Day: 2}); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict for duplicate day, got %v", err)
	}
	if err := trip.RemoveItineraryDay(1); err != nil || len(trip.Itinerary) != 1 {
		t.Fatalf("remove failed: %v %+v", err, trip.Itinerary)
	}
	if err := trip.RemoveItineraryDay(9); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestTripPlan_BudgetAndPacking(t *testing.T) {
	trip := &domain.TripPlan{}
	trip.AddBudgetItem(domain.BudgetItem{Category: "Food", Amount: 10.25})
	trip.AddBudgetItem(domain.BudgetItem{Category: "Hotel", Amount: 100})
	trip.AddBudgetItem(domain.BudgetItem{Category: "Food", Amount: 4.5})
	if trip.BudgetTotal() != 114.75 {
		t.Fatalf("unexpected total %v", trip.BudgetTotal())
	}
	if err := trip.RemoveBudgetCategory("Food"); err != nil {
		t.Fatal(err)
	}
	if len(trip.Budget) != 1 || trip.BudgetTotal() != 100 {
		t.Fatalf("expected only hotel left, got %+v", trip.Budget)
	}

	if err := trip.AddPackingItem("   "); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected invalid for blank item, got %v", err)
	}
	_ = trip.AddPackingItem(" Passport ")
	_ = trip.AddPackingItem("Charger")
	if err := trip.TogglePackingItem(0); err != nil || !trip.PackingList[0].Packed || trip.PackingList[0].Name != "Passport" {
		t.Fatalf("toggle failed: %v %+v", err, trip.PackingList)
	}
	if err := trip.TogglePackingItem(5); err == nil {
		t.Fatal("expected out of range error")
	}
	if err := trip.RemovePackingItem(0); err != nil || len(trip.PackingList) != 1 || trip.PackingList[0].Name != "Charger" {
		t.Fatalf("remove failed: %v %+v", err, trip.PackingList)
	}
	if err := trip.RemovePackingItem(-1); err == nil {
		t.Fatal("expected out of range error")
	}
}

func TestTripPlan_Covers(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC) }
	trip := &domain.TripPlan{StartDate: day(1), EndDate: day(10)}

	if !trip.Covers(day(1), day(10)) || !trip.Covers(day(3), day(4)) {
		t.Fatal("expected ranges inside trip to be covered")
	}
	if trip.Covers(day(0), day(4)) || trip.Covers(day(5), day(11)) {
		t.Fatal("expected ranges outside trip to be rejected")
	}
}

func TestBookingStatus_Transitions(t *testing.T) {
	tests := []struct {
		from, to domain.BookingStatus
		want     bool
	}{
		{domain.BookingPending, domain.BookingAccepted, true},
		{domain.BookingPending, domain.BookingRejected, true},
		{domain.BookingAccepted, domain.BookingRejected, false},
		{domain.BookingRejected, domain.BookingAccepted, false},
		{domain.BookingPending, domain.BookingPending, false},
	}
	for _, tt := range tests {
		if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
			t.Fatalf("%s -> %s = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
	if !domain.BookingPending.Active() || domain.BookingRejected.Active() {
		t.Fatal("unexpected Active() result")
	}
}

func TestBookingRequest_Finished(t *testing.T) {
	end := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	b := &domain.BookingRequest{Status: domain.BookingAccepted, EndDate: end}

	if b.Finished(end.Add(-time.Hour)) {
		t.Fatal("should not be finished before end date")
	}
	if !b.Finished(end) {
		t.Fatal("should be finished on end date")
	}
	b.Status = domain.BookingRejected
	if b.Finished(end.Add(time.Hour)) {
		t.Fatal("rejected booking never finishes")
	}
}

func TestCreateReviewRequest_Validate(t *testing.T) {
	for _, rating := range []int{0, 6, -1} {
		req := domain.CreateReviewRequest{Rating: rating}
		if err := req.Validate(); err == nil {
			t.Fatalf("expected error for rating %d", rating)
		}
	}
	if domain.RoundRating(4.26) != 4.3 {
		t.Fatalf("unexpected rounding %v", domain.RoundRating(4.26))
	}
}

func TestGuide_PublicHidesIDProof(t *testing.T) {
	g := domain.Guide{IDProof: &domain.Asset{URL: "https://cdn/id.pdf"}}
	if g.Public().IDProof != nil {
		t.Fatal("expected id proof to be stripped")
	}
	if g.IDProof == nil {
		t.Fatal("original guide must be untouched")
	}
}
