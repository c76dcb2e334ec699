package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"ecobayanihan/config"
	"ecobayanihan/internal/events"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTx struct{}

func (fakeTx) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

func (fakeTx) DB(ctx context.Context) *gorm.DB { return nil }

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(channel events.Channel, event events.Event) error {
	event.Channel = channel
	f.published = append(f.published, event)
	return nil
}

type fakeEventRepo struct {
	repositories.CleanupEventRepository
	completed int64
	err       error
	cutoff    time.Time
}

func (f *fakeEventRepo) MarkCompletedEndedBefore(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error) {
	f.cutoff = now
	return f.completed, f.err
}

type fakeLedgerRepo struct {
	repositories.PointsTransactionRepository
	drift []repositories.BalanceDrift
	err   error
}

func (f *fakeLedgerRepo) FindBalanceDrift(ctx context.Context, tx *gorm.DB) ([]repositories.BalanceDrift, error) {
	return f.drift, f.err
}

type fakePurger struct {
	deleted int
	err     error
	calls   int
}

func (f *fakePurger) PurgeStale(ctx context.Context) (int, error) {
	f.calls++
	return f.deleted, f.err
}

func TestEventCompletionJob(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	t.Run("announces completed events", func(t *testing.T) {
		repo := &fakeEventRepo{completed: 2}
		publisher := &fakePublisher{}
		job := NewEventCompletionJob(repo, fakeTx{}, publisher, Hourly)
		job.now = func() time.Time { return now }

		require.NoError(t, job.Execute(context.Background()))

		assert.Equal(t, now, repo.cutoff)
		require.Len(t, publisher.published, 1)
		assert.Equal(t, events.EVENTS_COMPLETED, publisher.published[0].Type)
		assert.Equal(t, events.EVENTS_CHANNEL, publisher.published[0].Channel)
		assert.Equal(t, int64(2), publisher.published[0].Data["count"])
	})

	t.Run("quiet when nothing ended", func(t *testing.T) {
		publisher := &fakePublisher{}
		job := NewEventCompletionJob(&fakeEventRepo{}, fakeTx{}, publisher, Hourly)

		require.NoError(t, job.Execute(context.Background()))
		assert.Empty(t, publisher.published)
	})

	t.Run("repository failure", func(t *testing.T) {
		job := NewEventCompletionJob(&fakeEventRepo{err: errors.New("db down")}, fakeTx{}, &fakePublisher{}, Hourly)
		assert.Error(t, job.Execute(context.Background()))
	})

	assert.Equal(t, "EventCompletion", NewEventCompletionJob(nil, nil, nil, Hourly).Name())
	assert.Equal(t, Hourly, NewEventCompletionJob(nil, nil, nil, Hourly).Schedule())
}

func TestLoginAttemptCleanupJob(t *testing.T) {
	purger := &fakePurger{deleted: 3}
	job := NewLoginAttemptCleanupJob(purger, Daily)

	require.NoError(t, job.Execute(context.Background()))
	assert.Equal(t, 1, purger.calls)
	assert.Equal(t, Daily, job.Schedule())

	failing := NewLoginAttemptCleanupJob(&fakePurger{err: errors.New("boom")}, Daily)
	assert.Error(t, failing.Execute(context.Background()))
}

func TestPointsAuditJob(t *testing.T) {
	drift := []repositories.BalanceDrift{{
		ParticipantID: uuid.New(),
		Email:         "test@example.com",
		Points:        40,
		LedgerTotal:   25,
	}}

	job := NewPointsAuditJob(&fakeLedgerRepo{drift: drift}, fakeTx{}, Daily)
	assert.NoError(t, job.Execute(context.Background()))

	failing := NewPointsAuditJob(&fakeLedgerRepo{err: errors.New("boom")}, fakeTx{}, Daily)
	assert.Error(t, failing.Execute(context.Background()))
}

type fakeProofCleaner struct {
	removed int
	err     error
}

func (f *fakeProofCleaner) CleanupOrphanedProofs(ctx context.Context) (int, error) {
	return f.removed, f.err
}

func TestProofCleanupJob(t *testing.T) {
	job := NewProofCleanupJob(&fakeProofCleaner{removed: 2}, Daily)
	assert.NoError(t, job.Execute(context.Background()))
	assert.Equal(t, "ProofCleanup", job.Name())

	failing := NewProofCleanupJob(&fakeProofCleaner{err: errors.New("permission denied")}, Daily)
	assert.Error(t, failing.Execute(context.Background()))
}

func TestRegisterAllJobs(t *testing.T) {
	repos := repositories.Repository{
		CleanupEvent:      &fakeEventRepo{},
		PointsTransaction: &fakeLedgerRepo{},
	}

	t.Run("disabled", func(t *testing.T) {
		svc := services.Service{Scheduler: services.NewSchedulerService()}

		err := RegisterAllJobs(config.Config{SchedulerEnabled: false}, svc, repos, &fakePublisher{})

		require.NoError(t, err)
		assert.Equal(t, 0, svc.Scheduler.GetJobCount())
		assert.False(t, svc.Scheduler.IsRunning())
	})

	t.Run("enabled", func(t *testing.T) {
		svc := services.Service{Scheduler: services.NewSchedulerService()}

		err := RegisterAllJobs(config.Config{SchedulerEnabled: true}, svc, repos, &fakePublisher{})

		require.NoError(t, err)
		assert.Equal(t, 4, svc.Scheduler.GetJobCount())
	})
}
