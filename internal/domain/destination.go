package domain

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Destination struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name            string             `bson:"name" json:"name"`
	Description     string             `bson:"description" json:"description"`
	BestTimeToVisit string             `bson:"best_time_to_visit,omitempty" json:"bestTimeToVisit,omitempty"`
	Image           *Asset             `bson:"image,omitempty" json:"image,omitempty"`
	MustVisit       []string           `bson:"must_visit" json:"mustVisit"`
	CreatedAt       time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updated_at" json:"updatedAt"`
}

type DestinationSummary struct {
	ID       primitive.ObjectID `json:"id"`
	Name     string             `json:"name"`
	ImageURL string             `json:"imageUrl,omitempty"`
}

func (d *Destination) Summary() *DestinationSummary {
	if d == nil {
		return nil
	}
	s := &DestinationSummary{ID: d.ID, Name: d.Name}
	if d.Image != nil {
		s.ImageURL = d.Image.URL
	}
	return s
}

type DestinationRequest struct {
	Name            string     `json:"name" validate:"required,max=120"`
	Description     string     `json:"description" validate:"required,max=5000"`
	BestTimeToVisit string     `json:"bestTimeToVisit" validate:"max=120"`
	MustVisit       StringList `json:"mustVisit" validate:"max=50,dive,max=120"`
}

func (r *DestinationRequest) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Description = strings.TrimSpace(r.Description)
	r.BestTimeToVisit = strings.TrimSpace(r.BestTimeToVisit)
	r.MustVisit = cleanList(r.MustVisit)
}

func (r *DestinationRequest) Validate() error {
	return validateStruct(r)
}

func (r *DestinationRequest) Apply(d *Destination) {
	d.Name = r.Name
	d.Description = r.Description
	d.BestTimeToVisit = r.BestTimeToVisit
	d.MustVisit = []string(r.MustVisit)
}
