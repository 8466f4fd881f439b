// Package domain contains the core data types for the Bootcamp API.
// This package has zero external dependencies and is imported by every other
// internal package (repo, service, handler, geocode).
package domain

import "time"

// DefaultPhoto is the photo file name assigned to bootcamps created without one.
const DefaultPhoto = "no-photo.jpg"

// Careers lists the career tracks a bootcamp may advertise.
var Careers = []string{
	"Web Development",
	"Mobile Development",
	"UI/UX",
	"Data Science",
	"Business",
	"Other",
}

// Bootcamp is a single bootcamp record as stored and returned by the API.
// ID is assigned by the store: a UUID string for Postgres, an ObjectID hex
// string for MongoDB.
type Bootcamp struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Slug          string    `json:"slug"`
	Description   string    `json:"description"`
	Website       string    `json:"website,omitempty"`
	Phone         string    `json:"phone,omitempty"`
	Email         string    `json:"email,omitempty"`
	Address       string    `json:"address,omitempty"`
	Location      *Location `json:"location,omitempty"` // nil until the address is geocoded
	Careers       []string  `json:"careers"`
	AverageRating *float64  `json:"averageRating,omitempty"`
	AverageCost   *float64  `json:"averageCost,omitempty"`
	Photo         string    `json:"photo"`
	Housing       bool      `json:"housing"`
	JobAssistance bool      `json:"jobAssistance"`
	JobGuarantee  bool      `json:"jobGuarantee"`
	AcceptGi      bool      `json:"acceptGi"`
	CreatedAt     time.Time `json:"createdAt"`
}

// BootcampPatch is a partial update. A nil field is left untouched by the store.
type BootcampPatch struct {
	Name          *string   `json:"name"`
	Description   *string   `json:"description"`
	Website       *string   `json:"website"`
	Phone         *string   `json:"phone"`
	Email         *string   `json:"email"`
	Address       *string   `json:"address"`
	Careers       *[]string `json:"careers"`
	AverageRating *float64  `json:"averageRating"`
	AverageCost   *float64  `json:"averageCost"`
	Photo         *string   `json:"photo"`
	Housing       *bool     `json:"housing"`
	JobAssistance *bool     `json:"jobAssistance"`
	JobGuarantee  *bool     `json:"jobGuarantee"`
	AcceptGi      *bool     `json:"acceptGi"`
}

// IsEmpty reports whether the patch sets no field at all.
func (p BootcampPatch) IsEmpty() bool {
	return p == BootcampPatch{}
}
