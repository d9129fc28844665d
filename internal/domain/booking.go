package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type BookingStatus string

const (
	BookingPending  BookingStatus = "pending"
	BookingAccepted BookingStatus = "accepted"
	BookingRejected BookingStatus = "rejected"
)

// Active bookings block new requests for the same trip and block trip deletion.
func (s BookingStatus) Active() bool {
	return s == BookingPending || s == BookingAccepted
}

// CanTransitionTo allows only pending → accepted and pending → rejected.
func (s BookingStatus) CanTransitionTo(next BookingStatus) bool {
	return s == BookingPending && (next == BookingAccepted || next == BookingRejected)
}

type BookingRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	TripID         primitive.ObjectID `bson:"trip" json:"tripId"`
	TravelerID     primitive.ObjectID `bson:"traveler" json:"travelerId"`
	GuideID        primitive.ObjectID `bson:"guide" json:"guideId"`
	Days           int                `bson:"days" json:"days"`
	NumberOfPeople int                `bson:"number_of_people" json:"numberOfPeople"`
	Message        string             `bson:"message,omitempty" json:"message,omitempty"`
	StartDate      time.Time          `bson:"start_date" json:"startDate"`
	EndDate        time.Time          `bson:"end_date" json:"endDate"`
	Status         BookingStatus      `bson:"status" json:"status"`
	RequestedAt    time.Time          `bson:"requested_at" json:"requestedAt"`
	UpdatedAt      time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Finished reports whether the booking took place and its last day has begun.
func (b *BookingRequest) Finished(now time.Time) bool {
	return b.Status == BookingAccepted && !now.Before(b.EndDate)
}

type BookingView struct {
	*BookingRequest
	Trip        *TripSummary        `json:"trip,omitempty"`
	Destination *DestinationSummary `json:"destination,omitempty"`
	Guide       *GuideView          `json:"guide,omitempty"`
	Traveler    *UserSummary        `json:"traveler,omitempty"`
}

type BookingForm struct {
	Guide *GuideView `json:"guide"`
	Trip  *TripView  `json:"trip"`
}

type CreateBookingRequest struct {
	TripID         string `json:"tripId" validate:"required"`
	StartDate      Date   `json:"startDate"`
	EndDate        Date   `json:"endDate"`
	Days           int    `json:"days" validate:"required,min=1,max=365"`
	NumberOfPeople int    `json:"numberOfPeople" validate:"required,min=1,max=100"`
	Message        string `json:"message" validate:"max=2000"`
}

func (r *CreateBookingRequest) Normalize() {
	r.TripID = strings.TrimSpace(r.TripID)
	r.Message = strings.TrimSpace(r.Message)
}

func (r *CreateBookingRequest) Validate() error {
	if err := validateStruct(r); err != nil {
		return err
	}
	return checkRange(r.StartDate, r.EndDate)
}

type AdminTrip struct {
	Trip        *TripSummary        `json:"trip"`
	Destination *DestinationSummary `json:"destination"`
	Traveler    *UserSummary        `json:"traveler"`
	Booking     *BookingRequest     `json:"booking"`
	Guide       *GuideView          `json:"guide"`
}
