package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Place string

const (
	PlaceBeach   Place = "beach"
	PlacePark    Place = "park"
	PlaceStreet  Place = "street"
	PlaceRiver   Place = "river"
	PlaceGeneral Place = "general"
)

var placeLabels = map[Place]string{
	PlaceBeach:   "Beach",
	PlacePark:    "Park",
	PlaceStreet:  "Street",
	PlaceRiver:   "River",
	PlaceGeneral: "General Cleanup",
}

func (p Place) IsValid() bool {
	_, ok := placeLabels[p]
	return ok
}

func (p Place) Label() string {
	if label, ok := placeLabels[p]; ok {
		return label
	}
	return string(p)
}

const (
	EVENT_DATE_FORMAT = "January 02, 2006"
	EVENT_TIME_FORMAT = "03:04 PM"
)

type CleanupEvent struct {
	BaseUUIDModel
	Name             string          `gorm:"type:text;not null"              json:"name"`
	Place            Place           `gorm:"type:text;not null;index"        json:"place"`
	SpecificLocation string          `gorm:"type:text;not null"              json:"specificLocation"`
	Date             datatypes.Date  `gorm:"type:date;not null;index"        json:"date"`
	StartTime        datatypes.Time  `gorm:"type:time;not null"              json:"startTime"`
	DurationHours    decimal.Decimal `gorm:"type:numeric(5,2);not null"      json:"durationHours"`
	Points           int             `gorm:"type:int;default:10;not null"    json:"points"`
	MaxParticipants  int             `gorm:"type:int;default:20;not null"    json:"maxParticipants"`
	Description      string          `gorm:"type:text"                       json:"description"`
	IsActive         bool            `gorm:"type:bool;default:true"          json:"isActive"`
	IsCompleted      bool            `gorm:"type:bool;default:false;index"   json:"isCompleted"`
	CreatedByID      *uuid.UUID      `gorm:"type:uuid"                       json:"createdById,omitempty"`
	CreatedBy        *StaffAccount   `gorm:"foreignKey:CreatedByID;constraint:OnDelete:SET NULL" json:"-"`

	Registrations []CleanupRegistration `gorm:"foreignKey:EventID;constraint:OnDelete:CASCADE" json:"-"`

	// RegisteredCount is filled by catalog queries only.
	RegisteredCount int64 `gorm:"->;-:migration" json:"registeredCount"`
}

func (e *CleanupEvent) Day() time.Time {
	y, m, d := time.Time(e.Date).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (e *CleanupEvent) StartsAt() time.Time {
	return e.Day().Add(time.Duration(e.StartTime))
}

func (e *CleanupEvent) Duration() time.Duration {
	return time.Duration(e.DurationHours.Mul(decimal.NewFromInt(int64(time.Hour))).IntPart())
}

func (e *CleanupEvent) EndsAt() time.Time {
	return e.StartsAt().Add(e.Duration())
}

// IsBefore orders events by date then start time.
func (e *CleanupEvent) IsBefore(other *CleanupEvent) bool {
	return e.StartsAt().Before(other.StartsAt())
}

// AcceptsRegistrations reports whether participants may still sign up on the given day.
func (e *CleanupEvent) AcceptsRegistrations(today time.Time) bool {
	if !e.IsActive || e.IsCompleted {
		return false
	}
	return !e.Day().Before(truncateDay(today))
}

func (e *CleanupEvent) IsFull(registered int64) bool {
	return e.MaxParticipants > 0 && registered >= int64(e.MaxParticipants)
}

func (e *CleanupEvent) FormattedDate() string {
	return e.Day().Format(EVENT_DATE_FORMAT)
}

func (e *CleanupEvent) FormattedStartTime() string {
	return e.StartsAt().Format(EVENT_TIME_FORMAT)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
