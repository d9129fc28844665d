package domain

import (
	"math"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ChatMessage struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID primitive.ObjectID `bson:"booking" json:"bookingId"`
	SenderID  primitive.ObjectID `bson:"sender" json:"senderId"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type ChatMessageView struct {
	*ChatMessage
	Sender *UserSummary `json:"sender,omitempty"`
}

type ChatThread struct {
	Booking  *BookingView       `json:"booking"`
	Messages []*ChatMessageView `json:"messages"`
}

type PostMessageRequest struct {
	Message string `json:"message" validate:"max=2000"`
}

func (r *PostMessageRequest) Normalize() {
	r.Message = strings.TrimSpace(r.Message)
}

func (r *PostMessageRequest) Validate() error {
	if r.Message == "" {
		return Invalid("Message cannot be empty")
	}
	return validateStruct(r)
}

type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	BookingID  primitive.ObjectID `bson:"booking" json:"bookingId"`
	TravelerID primitive.ObjectID `bson:"traveler" json:"travelerId"`
	GuideID    primitive.ObjectID `bson:"guide" json:"guideId"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment,omitempty" json:"comment,omitempty"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}

type ReviewView struct {
	*Review
	Traveler *UserSummary `json:"traveler,omitempty"`
}

type ReviewEligibility struct {
	Booking *BookingView `json:"booking"`
	Guide   *GuideView   `json:"guide"`
}

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

func (r *CreateReviewRequest) Normalize() {
	r.Comment = strings.TrimSpace(r.Comment)
}

func (r *CreateReviewRequest) Validate() error {
	if r.Rating < 1 || r.Rating > 5 {
		return Invalid("Rating must be between 1 and 5")
	}
	return validateStruct(r)
}

// RoundRating rounds an average rating to one decimal place.
func RoundRating(avg float64) float64 {
	return math.Round(avg*10) / 10
}

type Blog struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title       string             `bson:"title" json:"title"`
	Description string             `bson:"description" json:"description"`
	Image       *Asset             `bson:"image,omitempty" json:"image,omitempty"`
	AuthorID    primitive.ObjectID `bson:"author" json:"authorId"`
	Role        string             `bson:"role" json:"role"`
	CreatedAt   time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updated_at" json:"updatedAt"`
}

type BlogView struct {
	*Blog
	Author *UserSummary `json:"author,omitempty"`
}

type BlogRequest struct {
	Title       string `json:"title" validate:"required,max=200"`
	Description string `json:"description" validate:"required,max=20000"`
}

func (r *BlogRequest) Normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Description = strings.TrimSpace(r.Description)
}

func (r *BlogRequest) Validate() error {
	return validateStruct(r)
}

type Contact struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name      string             `bson:"name" json:"name"`
	Email     string             `bson:"email" json:"email"`
	Message   string             `bson:"message" json:"message"`
	CreatedAt time.Time          `bson:"created_at" json:"createdAt"`
}

type ContactRequest struct {
	Name    string `json:"name" validate:"required,max=100"`
	Email   string `json:"email" validate:"required,email"`
	Message string `json:"message" validate:"required,max=5000"`
}

func (r *ContactRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Email = normalizeEmail(r.Email)
	r.Message = strings.TrimSpace(r.Message)
}

func (r *ContactRequest) Validate() error {
	return validateStruct(r)
}

type Stats struct {
	UsersByRole     map[string]int64 `json:"usersByRole"`
	GuidesByStatus  map[string]int64 `json:"guidesByStatus"`
	BookingsByState map[string]int64 `json:"bookingsByStatus"`
	Destinations    int64            `json:"destinations"`
	Trips           int64            `json:"trips"`
	Blogs           int64            `json:"blogs"`
	Contacts        int64            `json:"contacts"`
}
