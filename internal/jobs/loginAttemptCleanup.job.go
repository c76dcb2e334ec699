package jobs

import (
	"context"

	"ecobayanihan/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// LoginAttemptPurger drops throttle records that can no longer lock anyone out.
type LoginAttemptPurger interface {
	PurgeStale(ctx context.Context) (int, error)
}

type LoginAttemptCleanupJob struct {
	throttle LoginAttemptPurger
	log      logger.Logger
	schedule services.Schedule
}

func NewLoginAttemptCleanupJob(
	throttle LoginAttemptPurger,
	schedule services.Schedule,
) *LoginAttemptCleanupJob {
	log := logger.New("loginAttemptCleanupJob")
	log.Info("Creating new login attempt cleanup job", "schedule", schedule)

	return &LoginAttemptCleanupJob{
		throttle: throttle,
		log:      log,
		schedule: schedule,
	}
}

func (j *LoginAttemptCleanupJob) Name() string {
	return "LoginAttemptCleanup"
}

func (j *LoginAttemptCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	deleted, err := j.throttle.PurgeStale(ctx)
	if err != nil {
		return log.Err("failed to purge stale login attempts", err)
	}

	log.Info("Login attempt cleanup completed", "deleted", deleted)
	return nil
}

func (j *LoginAttemptCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
