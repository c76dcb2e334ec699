package jobs

import (
	"context"

	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

// PointsAuditJob reports participants whose stored balance no longer matches
// the sum of their ledger rows. It never rewrites balances.
type PointsAuditJob struct {
	ledgerRepo repositories.PointsTransactionRepository
	tx         services.Transactor
	log        logger.Logger
	schedule   services.Schedule
}

func NewPointsAuditJob(
	ledgerRepo repositories.PointsTransactionRepository,
	tx services.Transactor,
	schedule services.Schedule,
) *PointsAuditJob {
	log := logger.New("pointsAuditJob")
	log.Info("Creating new points audit job", "schedule", schedule)

	return &PointsAuditJob{
		ledgerRepo: ledgerRepo,
		tx:         tx,
		log:        log,
		schedule:   schedule,
	}
}

func (j *PointsAuditJob) Name() string {
	return "PointsAudit"
}

func (j *PointsAuditJob) Execute(ctx context.Context) error {
	log := j.log.Function("Execute")

	drift, err := j.ledgerRepo.FindBalanceDrift(ctx, j.tx.DB(ctx))
	if err != nil {
		return log.Err("failed to reconcile points ledger", err)
	}

	for _, d := range drift {
		log.Warn(
			"points balance does not match ledger",
			"participantID", d.ParticipantID,
			"email", d.Email,
			"balance", d.Points,
			"ledgerTotal", d.LedgerTotal,
		)
	}

	log.Info("Points audit completed", "mismatches", len(drift))
	return nil
}

func (j *PointsAuditJob) Schedule() services.Schedule {
	return j.schedule
}
