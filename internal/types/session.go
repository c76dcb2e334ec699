package types

import (
	"time"

	"github.com/google/uuid"
)

type IdentityKind string

const (
	IdentityAnonymous   IdentityKind = "anonymous"
	IdentityParticipant IdentityKind = "participant"
	IdentityStaff       IdentityKind = "staff"
)

// AdminActivityState is the outcome of evaluating the admin idle timer.
type AdminActivityState string

const (
	NoActivityRecorded AdminActivityState = "no_activity_recorded"
	AdminActive        AdminActivityState = "active"
	AdminExpired       AdminActivityState = "expired"
)

// Session is the typed per-browser state shared across requests.
type Session struct {
	ID                  string               `json:"id"`
	Kind                IdentityKind         `json:"kind"`
	ParticipantID       *uuid.UUID           `json:"participantId,omitempty"`
	ParticipantEmail    string               `json:"participantEmail,omitempty"`
	StaffID             *uuid.UUID           `json:"staffId,omitempty"`
	StaffUsername       string               `json:"staffUsername,omitempty"`
	AdminLastActivity   *time.Time           `json:"adminLastActivity,omitempty"`
	RegistrationSuccess *RegistrationSuccess `json:"registrationSuccess,omitempty"`
	CreatedAt           time.Time            `json:"createdAt"`
	UpdatedAt           time.Time            `json:"updatedAt"`

	dirty     bool
	destroyed bool
}

// NewSession starts an anonymous session. It is only persisted once something
// is written to it.
func NewSession(id string, now time.Time) *Session {
	return &Session{
		ID:        id,
		Kind:      IdentityAnonymous,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (s *Session) IsStaff() bool {
	return s != nil && s.Kind == IdentityStaff && s.StaffID != nil
}

func (s *Session) IsParticipant() bool {
	return s != nil && s.Kind == IdentityParticipant && s.ParticipantEmail != ""
}

func (s *Session) IsAnonymous() bool {
	return !s.IsStaff() && !s.IsParticipant()
}

// SignInStaff drops any participant identity and starts the admin idle timer.
func (s *Session) SignInStaff(id uuid.UUID, username string, now time.Time) {
	s.Kind = IdentityStaff
	s.StaffID = &id
	s.StaffUsername = username
	s.ParticipantID = nil
	s.ParticipantEmail = ""
	s.AdminLastActivity = &now
	s.markDirty(now)
}

func (s *Session) SignInParticipant(id uuid.UUID, email string, now time.Time) {
	s.Kind = IdentityParticipant
	s.ParticipantID = &id
	s.ParticipantEmail = email
	s.StaffID = nil
	s.StaffUsername = ""
	s.AdminLastActivity = nil
	s.markDirty(now)
}

// TouchAdmin runs the sliding idle window. An elapsed time equal to the
// timeout already counts as expired.
func (s *Session) TouchAdmin(now time.Time, timeout time.Duration) AdminActivityState {
	if s.AdminLastActivity == nil {
		s.AdminLastActivity = &now
		s.markDirty(now)
		return NoActivityRecorded
	}

	if now.Sub(*s.AdminLastActivity) >= timeout {
		return AdminExpired
	}

	s.AdminLastActivity = &now
	s.markDirty(now)
	return AdminActive
}

func (s *Session) SetRegistrationSuccess(success RegistrationSuccess, now time.Time) {
	s.RegistrationSuccess = &success
	s.markDirty(now)
}

// PopRegistrationSuccess returns the pending notice once and clears it.
func (s *Session) PopRegistrationSuccess(now time.Time) *RegistrationSuccess {
	success := s.RegistrationSuccess
	if success == nil {
		return nil
	}
	s.RegistrationSuccess = nil
	s.markDirty(now)
	return success
}

func (s *Session) Dirty() bool {
	return s.dirty
}

func (s *Session) MarkClean() {
	s.dirty = false
}

// MarkDestroyed flags a flushed session so it is not written back.
func (s *Session) MarkDestroyed() {
	s.destroyed = true
	s.dirty = false
}

func (s *Session) Destroyed() bool {
	return s.destroyed
}

func (s *Session) markDirty(now time.Time) {
	s.UpdatedAt = now
	s.dirty = true
}

// RegistrationSuccess is the event snapshot shown once after signing up.
type RegistrationSuccess struct {
	EventID  uuid.UUID `json:"eventId"`
	Name     string    `json:"name"`
	Place    string    `json:"place"`
	Location string    `json:"location"`
	Date     string    `json:"date"`
	Time     string    `json:"time"`
	Duration string    `json:"duration"`
	Points   int       `json:"points"`
}

// PointsNotice is the one-shot message a participant sees after staff award points.
type PointsNotice struct {
	Points      int `json:"points"`
	TotalPoints int `json:"total_points"`
}
