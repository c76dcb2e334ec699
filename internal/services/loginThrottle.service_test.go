package services

import (
	"context"
	"testing"
	"time"

	"ecobayanihan/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestThrottle() (*LoginThrottleService, *fakeLoginAttemptRepo, *fakeClock) {
	repo := newFakeLoginAttemptRepo()
	clock := &fakeClock{now: time.Date(2025, 6, 1, 9, 0, 0, 0, time.UTC)}

	service := NewLoginThrottleService(repo, &fakeTransactor{}, config.Config{
		LoginMaxAttempts:    5,
		LoginLockoutMinutes: 10,
	})
	service.now = clock.Now

	return service, repo, clock
}

func TestLoginThrottle_LocksAfterMaxFailures(t *testing.T) {
	service, _, clock := newTestThrottle()
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.NoError(t, service.Check(ctx, "user@example.com"))
		require.NoError(t, service.RecordFailure(ctx, "user@example.com"))
		clock.Advance(time.Second)
	}
	require.NoError(t, service.Check(ctx, "user@example.com"))

	require.NoError(t, service.RecordFailure(ctx, "user@example.com"))
	assert.ErrorIs(t, service.Check(ctx, "user@example.com"), ErrLoginLocked)
	assert.ErrorIs(t, service.Check(ctx, " USER@example.com"), ErrLoginLocked)
}

func TestLoginThrottle_UnlocksAfterWindow(t *testing.T) {
	service, repo, clock := newTestThrottle()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		require.NoError(t, service.RecordFailure(ctx, "admin"))
	}
	assert.ErrorIs(t, service.Check(ctx, "admin"), ErrLoginLocked)

	clock.Advance(10 * time.Minute)
	assert.NoError(t, service.Check(ctx, "admin"))

	require.NoError(t, service.RecordFailure(ctx, "admin"))
	assert.Equal(t, 1, repo.attempts["admin"].Attempts)
}

func TestLoginThrottle_ResetClearsCount(t *testing.T) {
	service, repo, _ := newTestThrottle()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, service.RecordFailure(ctx, "admin"))
	}
	require.NoError(t, service.Reset(ctx, "Admin"))

	assert.Empty(t, repo.attempts)
}

func TestLoginThrottle_PurgeStale(t *testing.T) {
	service, repo, clock := newTestThrottle()
	ctx := context.Background()

	require.NoError(t, service.RecordFailure(ctx, "old"))
	clock.Advance(11 * time.Minute)
	require.NoError(t, service.RecordFailure(ctx, "fresh"))

	deleted, err := service.PurgeStale(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, deleted)
	assert.Contains(t, repo.attempts, "fresh")
}
