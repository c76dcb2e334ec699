package models

import (
	"time"
)

type LoginAttempt struct {
	BaseUUIDModel
	Username    string    `gorm:"type:text;uniqueIndex;not null" json:"username"`
	Attempts    int       `gorm:"type:int;default:0;not null"    json:"attempts"`
	LastAttempt time.Time `gorm:"type:timestamp;not null;index"  json:"lastAttempt"`
}

// IsLocked has no side effects; an expired lock is cleared by the next RecordFailure.
func (a *LoginAttempt) IsLocked(now time.Time, maxAttempts int, lockout time.Duration) bool {
	if a.Attempts < maxAttempts {
		return false
	}
	return now.Before(a.LastAttempt.Add(lockout))
}

func (a *LoginAttempt) LockedUntil(maxAttempts int, lockout time.Duration) *time.Time {
	if a.Attempts < maxAttempts {
		return nil
	}
	until := a.LastAttempt.Add(lockout)
	return &until
}

// RecordFailure restarts the count when the previous failure is older than the lockout window.
func (a *LoginAttempt) RecordFailure(now time.Time, lockout time.Duration) {
	if !a.LastAttempt.IsZero() && now.Sub(a.LastAttempt) >= lockout {
		a.Attempts = 0
	}
	a.Attempts++
	a.LastAttempt = now
}
