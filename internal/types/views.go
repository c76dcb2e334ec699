package types

import (
	"time"

	"ecobayanihan/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// EventBuckets groups the catalog around the current day.
type EventBuckets struct {
	Previous []models.CleanupEvent `json:"previousEvents"`
	Current  []models.CleanupEvent `json:"currentEvents"`
	Upcoming []models.CleanupEvent `json:"upcomingEvents"`
}

type SelectEventView struct {
	Participant         *models.Participant  `json:"participant"`
	RegistrationSuccess *RegistrationSuccess `json:"registrationSuccess,omitempty"`
	PointsNotice        *PointsNotice        `json:"pointsAdded,omitempty"`
	EventBuckets
}

type PreviousEventsView struct {
	Events      []models.CleanupEvent `json:"events"`
	SearchQuery string                `json:"searchQuery"`
	DateFilter  string                `json:"dateFilter"`
}

type PointsHistoryEntry struct {
	ID             uuid.UUID         `json:"id"`
	Kind           models.PointsKind `json:"kind"`
	Points         int               `json:"points"`
	BalanceAfter   int               `json:"balanceAfter"`
	Reason         string            `json:"reason"`
	EventName      string            `json:"eventName,omitempty"`
	AwardedBy      string            `json:"awardedBy"`
	AwardedAt      time.Time         `json:"awardedAt"`
	RegistrationID *uuid.UUID        `json:"registrationId,omitempty"`
}

type PointsHistoryView struct {
	History     []PointsHistoryEntry `json:"pointsHistory"`
	TotalPoints int                  `json:"totalPoints"`
}

type CombinedHistoryEntry struct {
	RegistrationID uuid.UUID       `json:"registrationId"`
	EventID        uuid.UUID       `json:"eventId"`
	EventName      string          `json:"eventName"`
	EventDate      string          `json:"eventDate"`
	EventTime      string          `json:"eventTime"`
	DurationHours  decimal.Decimal `json:"durationHours"`
	Points         int             `json:"points"`
	PointsStatus   string          `json:"pointsStatus"`
	Attended       bool            `json:"attended"`
	Approved       bool            `json:"approved"`
	HasProof       bool            `json:"hasProof"`
	RegisteredAt   time.Time       `json:"registeredAt"`
	Type           string          `json:"type"`
}

type CombinedHistoryView struct {
	History           []CombinedHistoryEntry `json:"combinedHistory"`
	TotalPoints       int                    `json:"totalPoints"`
	VolunteerHours    decimal.Decimal        `json:"volunteerHours"`
	ParticipantPoints int                    `json:"participantPoints"`
}

type AdminPanelView struct {
	Events       []models.CleanupEvent `json:"events"`
	Participants []*models.Participant `json:"participants"`
	StaffName    string                `json:"staffName"`
}

type EventParticipantsView struct {
	Event         models.CleanupEvent          `json:"event"`
	Registrations []models.CleanupRegistration `json:"registrations"`
}

type AwardPointsResult struct {
	Participant models.Participant       `json:"participant"`
	Transaction models.PointsTransaction `json:"transaction"`
	Message     string                   `json:"message"`
}

// RegistrationOutcome is what a participant sees after selecting an event.
type RegistrationOutcome struct {
	Status       string                      `json:"status"`
	Message      string                      `json:"message"`
	Registration *models.CleanupRegistration `json:"registration,omitempty"`
}

const (
	OUTCOME_SUCCESS = "success"
	OUTCOME_WARNING = "warning"
)

const (
	POINTS_STATUS_AWARDED = "Awarded"
	POINTS_STATUS_PENDING = "Pending"
)
