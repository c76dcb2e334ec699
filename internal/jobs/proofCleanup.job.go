package jobs

import (
	"context"

	"ecobayanihan/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type ProofCleaner interface {
	CleanupOrphanedProofs(ctx context.Context) (int, error)
}

type ProofCleanupJob struct {
	cleaner  ProofCleaner
	log      logger.Logger
	schedule services.Schedule
}

func NewProofCleanupJob(cleaner ProofCleaner, schedule services.Schedule) *ProofCleanupJob {
	log := logger.New("proofCleanupJob")
	log.Info("Creating new proof cleanup job", "schedule", schedule)

	return &ProofCleanupJob{
		cleaner:  cleaner,
		log:      log,
		schedule: schedule,
	}
}

func (j *ProofCleanupJob) Name() string {
	return "ProofCleanup"
}

func (j *ProofCleanupJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	removed, err := j.cleaner.CleanupOrphanedProofs(ctx)
	if err != nil {
		return log.Err("failed to clean up orphaned proofs", err, "removed", removed)
	}

	log.Info("Proof cleanup completed", "removed", removed)
	return nil
}

func (j *ProofCleanupJob) Schedule() services.Schedule {
	return j.schedule
}
