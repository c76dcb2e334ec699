package types

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sessionEpoch = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestSession_NewIsAnonymous(t *testing.T) {
	s := NewSession("abc", sessionEpoch)
	assert.True(t, s.IsAnonymous())
	assert.False(t, s.IsStaff())
	assert.False(t, s.IsParticipant())
	assert.False(t, s.Dirty())
}

func TestSession_MarkDestroyed(t *testing.T) {
	s := NewSession("abc", sessionEpoch)
	s.SignInParticipant(uuid.New(), "test@example.com", sessionEpoch)
	require.True(t, s.Dirty())

	s.MarkDestroyed()

	assert.True(t, s.Destroyed())
	assert.False(t, s.Dirty())
}

func TestSession_SignInStaffClearsParticipant(t *testing.T) {
	s := NewSession("abc", sessionEpoch)
	s.SignInParticipant(uuid.New(), "test@example.com", sessionEpoch)
	require.True(t, s.IsParticipant())

	staffID := uuid.New()
	s.SignInStaff(staffID, "admin", sessionEpoch.Add(time.Minute))

	assert.True(t, s.IsStaff())
	assert.False(t, s.IsParticipant())
	assert.Empty(t, s.ParticipantEmail)
	assert.Nil(t, s.ParticipantID)
	require.NotNil(t, s.AdminLastActivity)
	assert.Equal(t, sessionEpoch.Add(time.Minute), *s.AdminLastActivity)
}

func TestSession_TouchAdmin(t *testing.T) {
	timeout := 300 * time.Second

	t.Run("no activity recorded stamps now", func(t *testing.T) {
		s := NewSession("abc", sessionEpoch)
		state := s.TouchAdmin(sessionEpoch, timeout)
		assert.Equal(t, NoActivityRecorded, state)
		require.NotNil(t, s.AdminLastActivity)
		assert.Equal(t, sessionEpoch, *s.AdminLastActivity)
	})

	t.Run("299 seconds stays active and refreshes", func(t *testing.T) {
		s := NewSession("abc", sessionEpoch)
		s.SignInStaff(uuid.New(), "admin", sessionEpoch)

		now := sessionEpoch.Add(299 * time.Second)
		assert.Equal(t, AdminActive, s.TouchAdmin(now, timeout))
		assert.Equal(t, now, *s.AdminLastActivity)
	})

	t.Run("300 seconds expires", func(t *testing.T) {
		s := NewSession("abc", sessionEpoch)
		s.SignInStaff(uuid.New(), "admin", sessionEpoch)

		now := sessionEpoch.Add(300 * time.Second)
		assert.Equal(t, AdminExpired, s.TouchAdmin(now, timeout))
		assert.Equal(t, sessionEpoch, *s.AdminLastActivity)
	})

	t.Run("sliding window", func(t *testing.T) {
		s := NewSession("abc", sessionEpoch)
		s.SignInStaff(uuid.New(), "admin", sessionEpoch)

		now := sessionEpoch
		for range 5 {
			now = now.Add(200 * time.Second)
			assert.Equal(t, AdminActive, s.TouchAdmin(now, timeout))
		}
	})
}

func TestSession_PopRegistrationSuccess(t *testing.T) {
	s := NewSession("abc", sessionEpoch)
	assert.Nil(t, s.PopRegistrationSuccess(sessionEpoch))

	s.SetRegistrationSuccess(RegistrationSuccess{Name: "Beach Cleanup Drive", Points: 15}, sessionEpoch)
	s.MarkClean()

	first := s.PopRegistrationSuccess(sessionEpoch)
	require.NotNil(t, first)
	assert.Equal(t, "Beach Cleanup Drive", first.Name)
	assert.True(t, s.Dirty())

	assert.Nil(t, s.PopRegistrationSuccess(sessionEpoch))
}
