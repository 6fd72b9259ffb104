package entity

import (
	"strings"
	"time"
)

// Vehicle is one entry of a resident's vehicle list. There is no stable
// per-vehicle id in stored documents; vehicles are addressed by position,
// and the whole list is overwritten on every save for compatibility with
// existing profile documents.
type Vehicle struct {
	Make  string `json:"make" bson:"make"`
	Model string `json:"model" bson:"model"`
	Year  int    `json:"year" bson:"year"` // 0 = unset
	Color string `json:"color" bson:"color"`
	Plate string `json:"plate" bson:"plate"`
}

// Normalized returns a copy with trimmed fields and the plate uppercased
func (v Vehicle) Normalized() Vehicle {
	return Vehicle{
		Make:  strings.TrimSpace(v.Make),
		Model: strings.TrimSpace(v.Model),
		Year:  v.Year,
		Color: strings.TrimSpace(v.Color),
		Plate: strings.ToUpper(strings.TrimSpace(v.Plate)),
	}
}

// IsComplete reports whether all five fields are populated. A partially
// filled vehicle must never be persisted.
func (v Vehicle) IsComplete() bool {
	return v.Make != "" && v.Model != "" && v.Year > 0 && v.Color != "" && v.Plate != ""
}

// ResidentProfile is the profile document stored per resident, scoped by
// organization and property
type ResidentProfile struct {
	UserID     string    `bson:"userId"`
	OrgID      string    `bson:"orgId"`
	PropertyID string    `bson:"propertyId"`
	Name       string    `bson:"name"`
	Email      string    `bson:"email"`
	Phone      string    `bson:"phone"`
	Address    Address   `bson:"address"`
	Vehicles   []Vehicle `bson:"vehicles"`
	UpdatedAt  time.Time `bson:"updatedAt"`
}
