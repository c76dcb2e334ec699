package models

import (
	"time"

	"github.com/google/uuid"
)

type CleanupRegistration struct {
	BaseUUIDModel
	ParticipantID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_registration_participant_event" json:"participantId"`
	Participant   *Participant  `gorm:"foreignKey:ParticipantID"                                          json:"participant,omitempty"`
	EventID       uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_registration_participant_event;index" json:"eventId"`
	Event         *CleanupEvent `gorm:"foreignKey:EventID"                                                json:"event,omitempty"`
	Attended      bool          `gorm:"type:bool;default:false"                                           json:"attended"`
	Approved      bool          `gorm:"type:bool;default:false"                                           json:"approved"`
	ApprovedAt    *time.Time    `gorm:"type:timestamp"                                                    json:"approvedAt,omitempty"`
	ApprovedByID  *uuid.UUID    `gorm:"type:uuid"                                                         json:"approvedById,omitempty"`
	ApprovedBy    *StaffAccount `gorm:"foreignKey:ApprovedByID;constraint:OnDelete:SET NULL"              json:"approvedBy,omitempty"`
	PointsAwarded bool          `gorm:"type:bool;default:false"                                           json:"pointsAwarded"`
	ProofImage    *string       `gorm:"type:text"                                                         json:"proofImage,omitempty"`
	ProofNotes    string        `gorm:"type:text"                                                         json:"proofNotes"`
}

func (r *CleanupRegistration) RegisteredAt() time.Time {
	return r.CreatedAt
}

// HasAwardedPoints is true once staff approved attendance and the event points were credited.
func (r *CleanupRegistration) HasAwardedPoints() bool {
	return r.PointsAwarded && r.Approved
}

func (r *CleanupRegistration) Approve(staff *StaffAccount, now time.Time) {
	r.Attended = true
	r.Approved = true
	r.ApprovedAt = &now
	if staff != nil {
		r.ApprovedByID = &staff.ID
		r.ApprovedBy = staff
	}
}

// ApproverName mirrors what the points history shows for an awarded registration.
func (r *CleanupRegistration) ApproverName() string {
	if !r.HasAwardedPoints() {
		return "Not yet awarded"
	}
	if r.ApprovedBy != nil {
		return r.ApprovedBy.DisplayName()
	}
	return "Admin"
}
