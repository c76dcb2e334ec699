package jobs

import (
	"ecobayanihan/config"
	"ecobayanihan/internal/events"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	Daily  = services.Daily
	Hourly = services.Hourly
)

func RegisterAllJobs(
	config config.Config,
	services services.Service,
	repos repositories.Repository,
	publisher events.Publisher,
) error {
	log := logger.New("jobs").Function("RegisterAllJobs")

	if !config.SchedulerEnabled {
		log.Info("Scheduler disabled, skipping job registration")
		return nil
	}

	scheduler := services.Scheduler

	eventCompletionJob := NewEventCompletionJob(
		repos.CleanupEvent,
		services.Transaction,
		publisher,
		Hourly,
	)
	if err := scheduler.AddJob(eventCompletionJob); err != nil {
		return log.Err("failed to register event completion job", err)
	}
	log.Info("Registered event completion job", "schedule", "hourly")

	loginAttemptCleanupJob := NewLoginAttemptCleanupJob(services.LoginThrottle, Daily)
	if err := scheduler.AddJob(loginAttemptCleanupJob); err != nil {
		return log.Err("failed to register login attempt cleanup job", err)
	}
	log.Info("Registered login attempt cleanup job", "schedule", "daily")

	pointsAuditJob := NewPointsAuditJob(repos.PointsTransaction, services.Transaction, Daily)
	if err := scheduler.AddJob(pointsAuditJob); err != nil {
		return log.Err("failed to register points audit job", err)
	}
	log.Info("Registered points audit job", "schedule", "daily")

	proofCleanupJob := NewProofCleanupJob(services.FileCleanup, Daily)
	if err := scheduler.AddJob(proofCleanupJob); err != nil {
		return log.Err("failed to register proof cleanup job", err)
	}
	log.Info("Registered proof cleanup job", "schedule", "daily")

	return nil
}
