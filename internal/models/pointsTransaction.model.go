package models

import (
	"github.com/google/uuid"
)

type PointsKind string

const (
	PointsKindAward      PointsKind = "award"
	PointsKindAdjustment PointsKind = "adjustment"
	PointsKindEvent      PointsKind = "event"
)

// PointsTransaction is one row of the points ledger. Participant.Points always
// equals the sum of Amount over the participant's rows.
type PointsTransaction struct {
	BaseUUIDModel
	ParticipantID  uuid.UUID            `gorm:"type:uuid;not null;index"                              json:"participantId"`
	Amount         int                  `gorm:"type:int;not null"                                     json:"amount"`
	BalanceAfter   int                  `gorm:"type:int;not null"                                     json:"balanceAfter"`
	Kind           PointsKind           `gorm:"type:text;not null"                                    json:"kind"`
	Reason         string               `gorm:"type:text"                                             json:"reason"`
	RegistrationID *uuid.UUID           `gorm:"type:uuid;index"                                       json:"registrationId,omitempty"`
	Registration   *CleanupRegistration `gorm:"foreignKey:RegistrationID;constraint:OnDelete:SET NULL" json:"registration,omitempty"`
	AwardedByID    *uuid.UUID           `gorm:"type:uuid"                                             json:"awardedById,omitempty"`
	AwardedBy      *StaffAccount        `gorm:"foreignKey:AwardedByID;constraint:OnDelete:SET NULL"    json:"awardedBy,omitempty"`
}

func KindForAmount(amount int) PointsKind {
	if amount < 0 {
		return PointsKindAdjustment
	}
	return PointsKindAward
}

func (t *PointsTransaction) AwardedByName() string {
	if t.AwardedBy != nil {
		return t.AwardedBy.DisplayName()
	}
	return "Admin"
}
