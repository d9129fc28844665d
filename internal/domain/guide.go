package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type GuideStatus string

const (
	GuidePending  GuideStatus = "pending"
	GuideVerified GuideStatus = "verified"
	GuideRejected GuideStatus = "rejected"
)

// Asset is an uploaded file. Key addresses it in object storage.
type Asset struct {
	URL string `bson:"url" json:"url"`
	Key string `bson:"key" json:"-"`
}

type Guide struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	UserID       primitive.ObjectID `bson:"user" json:"userId"`
	Bio          string             `bson:"bio" json:"bio"`
	Experience   string             `bson:"experience,omitempty" json:"experience,omitempty"`
	PricePerHour float64            `bson:"price_per_hour" json:"pricePerHour"`
	Location     string             `bson:"location" json:"location"`
	Languages    []string           `bson:"languages" json:"languages"`
	ProfileImage *Asset             `bson:"profile_image,omitempty" json:"profileImage,omitempty"`
	IDProof      *Asset             `bson:"id_proof,omitempty" json:"idProof,omitempty"`
	Status       GuideStatus        `bson:"status" json:"status"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Public strips the identity document before the guide is shown to other users.
func (g Guide) Public() *Guide {
	g.IDProof = nil
	return &g
}

func (g *Guide) IsVerified() bool {
	return g.Status == GuideVerified
}

// GuideView is a guide with its account summary attached.
type GuideView struct {
	*Guide
	User *UserSummary `json:"user,omitempty"`
}

type GuideProfileRequest struct {
	Bio          string   `json:"bio" validate:"required,max=2000"`
	Experience   string   `json:"experience" validate:"max=500"`
	PricePerHour float64  `json:"pricePerHour" validate:"gte=0,lte=100000"`
	Location     string   `json:"location" validate:"required,max=120"`
	Languages    []string `json:"languages" validate:"max=20,dive,max=40"`
}

func (r *GuideProfileRequest) Normalize() {
	r.Bio = strings.TrimSpace(r.Bio)
	r.Experience = strings.TrimSpace(r.Experience)
	r.Location = strings.TrimSpace(r.Location)

	seen := make(map[string]bool, len(r.Languages))
	langs := make([]string, 0, len(r.Languages))
	for _, l := range r.Languages {
		l = strings.TrimSpace(l)
		if l == "" || seen[strings.ToLower(l)] {
			continue
		}
		seen[strings.ToLower(l)] = true
		langs = append(langs, l)
	}
	r.Languages = langs
}

func (r *GuideProfileRequest) Validate() error {
	return validateStruct(r)
}

// Apply copies the request fields onto g.
func (r *GuideProfileRequest) Apply(g *Guide) {
	g.Bio = r.Bio
	g.Experience = r.Experience
	g.PricePerHour = r.PricePerHour
	g.Location = r.Location
	g.Languages = r.Languages
}

type GuideDashboard struct {
	Guide           *Guide      `json:"guide"`
	Status          GuideStatus `json:"status,omitempty"`
	PendingRequests int         `json:"pendingRequests"`
}

type GuideDetails struct {
	Guide        *GuideView    `json:"guide"`
	OtherGuides  []*GuideView  `json:"otherGuides"`
	Reviews      []*ReviewView `json:"reviews"`
	TotalReviews int64         `json:"totalReviews"`
	AvgRating    float64       `json:"avgRating"`
}

type GuideReviews struct {
	Guide     *GuideView    `json:"guide"`
	Reviews   []*ReviewView `json:"reviews"`
	AvgRating float64       `json:"avgRating"`
}

type GuideSearch struct {
	Location     string         `json:"location"`
	Guides       []*GuideView   `json:"guides"`
	Destinations []*Destination `json:"destinations"`
}

type GuideOverview struct {
	Pending  []*GuideView `json:"pending"`
	Verified []*GuideView `json:"verified"`
}
