package models

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestCredential_SetAndCheckPassword(t *testing.T) {
	identities := map[string]Credential{
		"participant": &Participant{},
		"staff":       &StaffAccount{},
	}

	for name, identity := range identities {
		t.Run(name, func(t *testing.T) {
			require.NoError(t, identity.SetPassword("test123"))
			assert.True(t, identity.CheckPassword("test123"))
			assert.False(t, identity.CheckPassword("wrong"))
			assert.False(t, identity.CheckPassword(""))
		})
	}
}

func TestCredential_PasswordTooShort(t *testing.T) {
	p := &Participant{}
	err := p.SetPassword("12345")
	assert.ErrorIs(t, err, ErrPasswordTooShort)
	assert.Empty(t, p.Password)
}

func TestCredential_PasswordTooLong(t *testing.T) {
	s := &StaffAccount{}
	err := s.SetPassword(strings.Repeat("x", MAX_PASSWORD_BYTES+1))
	assert.ErrorIs(t, err, ErrPasswordTooLong)
	assert.Empty(t, s.Password)

	require.NoError(t, s.SetPassword(strings.Repeat("x", MAX_PASSWORD_BYTES)))
}

func TestCredential_EmptyHashNeverMatches(t *testing.T) {
	s := &StaffAccount{}
	assert.False(t, s.CheckPassword(""))
	assert.False(t, s.CheckPassword("anything"))
}

func TestParticipant_BeforeSaveNormalizes(t *testing.T) {
	p := &Participant{
		Email:         "  Test@Example.COM ",
		Username:      " testuser ",
		ContactNumber: " 0912 345 6789 ",
	}
	require.NoError(t, p.BeforeSave(nil))

	assert.Equal(t, "test@example.com", p.Email)
	assert.Equal(t, "testuser", p.Username)
	assert.Equal(t, "0912 345 6789", p.ContactNumber)
}

func TestStaffAccount_CanAccessAdmin(t *testing.T) {
	tests := []struct {
		name     string
		isStaff  bool
		isActive bool
		expected bool
	}{
		{"active staff", true, true, true},
		{"inactive staff", true, false, false},
		{"active non-staff", false, true, false},
		{"neither", false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &StaffAccount{IsStaff: tt.isStaff, IsActive: tt.isActive}
			assert.Equal(t, tt.expected, s.CanAccessAdmin())
		})
	}
}

func TestLoginAttempt_Lockout(t *testing.T) {
	lockout := 10 * time.Minute
	start := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	attempt := &LoginAttempt{Username: "someone@example.com"}

	for i := range 4 {
		attempt.RecordFailure(start.Add(time.Duration(i)*time.Second), lockout)
		assert.False(t, attempt.IsLocked(start.Add(time.Duration(i)*time.Second), 5, lockout))
	}

	fifth := start.Add(4 * time.Second)
	attempt.RecordFailure(fifth, lockout)
	assert.Equal(t, 5, attempt.Attempts)
	assert.True(t, attempt.IsLocked(fifth, 5, lockout))
	assert.True(t, attempt.IsLocked(fifth.Add(lockout-time.Second), 5, lockout))
	assert.False(t, attempt.IsLocked(fifth.Add(lockout), 5, lockout))

	until := attempt.LockedUntil(5, lockout)
	require.NotNil(t, until)
	assert.Equal(t, fifth.Add(lockout), *until)
}

func TestLoginAttempt_IsLockedHasNoSideEffects(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	attempt := &LoginAttempt{Attempts: 5, LastAttempt: now.Add(-time.Hour)}

	assert.False(t, attempt.IsLocked(now, 5, 10*time.Minute))
	assert.Equal(t, 5, attempt.Attempts)
	assert.Equal(t, now.Add(-time.Hour), attempt.LastAttempt)
}

func TestLoginAttempt_RecordFailureAfterWindowRestarts(t *testing.T) {
	lockout := 10 * time.Minute
	now := time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)
	attempt := &LoginAttempt{Attempts: 5, LastAttempt: now.Add(-lockout)}

	attempt.RecordFailure(now, lockout)
	assert.Equal(t, 1, attempt.Attempts)
	assert.Equal(t, now, attempt.LastAttempt)
	assert.Nil(t, attempt.LockedUntil(5, lockout))
}

func newTestEvent(day time.Time, start time.Duration, hours string) *CleanupEvent {
	return &CleanupEvent{
		Name:            "Beach Cleanup Drive",
		Place:           PlaceBeach,
		Date:            datatypes.Date(day),
		StartTime:       datatypes.NewTime(int(start.Hours()), int(start.Minutes())%60, 0, 0),
		DurationHours:   decimal.RequireFromString(hours),
		Points:          15,
		MaxParticipants: 2,
		IsActive:        true,
	}
}

func TestCleanupEvent_Times(t *testing.T) {
	day := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)
	event := newTestEvent(day, 8*time.Hour+30*time.Minute, "2.5")

	assert.Equal(t, time.Date(2025, 3, 8, 8, 30, 0, 0, time.UTC), event.StartsAt())
	assert.Equal(t, 150*time.Minute, event.Duration())
	assert.Equal(t, time.Date(2025, 3, 8, 11, 0, 0, 0, time.UTC), event.EndsAt())
	assert.Equal(t, "March 08, 2025", event.FormattedDate())
	assert.Equal(t, "08:30 AM", event.FormattedStartTime())
}

func TestCleanupEvent_AcceptsRegistrations(t *testing.T) {
	day := time.Date(2025, 3, 8, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name     string
		mutate   func(e *CleanupEvent)
		today    time.Time
		expected bool
	}{
		{"upcoming", func(e *CleanupEvent) {}, day.AddDate(0, 0, -1), true},
		{"same day", func(e *CleanupEvent) {}, day.Add(20 * time.Hour), true},
		{"past", func(e *CleanupEvent) {}, day.AddDate(0, 0, 1), false},
		{"inactive", func(e *CleanupEvent) { e.IsActive = false }, day, false},
		{"completed", func(e *CleanupEvent) { e.IsCompleted = true }, day, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			event := newTestEvent(day, 8*time.Hour, "4")
			tt.mutate(event)
			assert.Equal(t, tt.expected, event.AcceptsRegistrations(tt.today))
		})
	}
}

func TestCleanupEvent_IsFull(t *testing.T) {
	event := newTestEvent(time.Now(), 8*time.Hour, "4")
	assert.False(t, event.IsFull(1))
	assert.True(t, event.IsFull(2))
	assert.True(t, event.IsFull(3))
}

func TestPlace_Labels(t *testing.T) {
	assert.True(t, PlaceRiver.IsValid())
	assert.False(t, Place("mall").IsValid())
	assert.Equal(t, "General Cleanup", PlaceGeneral.Label())
	assert.Equal(t, "mall", Place("mall").Label())
}

func TestCleanupRegistration_Approve(t *testing.T) {
	staff := &StaffAccount{Username: "admin"}
	reg := &CleanupRegistration{}
	assert.Equal(t, "Not yet awarded", reg.ApproverName())

	now := time.Date(2025, 3, 8, 12, 0, 0, 0, time.UTC)
	reg.Approve(staff, now)
	reg.PointsAwarded = true

	assert.True(t, reg.Attended)
	assert.True(t, reg.Approved)
	require.NotNil(t, reg.ApprovedAt)
	assert.Equal(t, now, *reg.ApprovedAt)
	assert.True(t, reg.HasAwardedPoints())
	assert.Equal(t, "admin", reg.ApproverName())
}

func TestKindForAmount(t *testing.T) {
	assert.Equal(t, PointsKindAward, KindForAmount(10))
	assert.Equal(t, PointsKindAward, KindForAmount(0))
	assert.Equal(t, PointsKindAdjustment, KindForAmount(-5))
}
