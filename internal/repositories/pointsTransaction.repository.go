package repositories

import (
	"context"

	. "ecobayanihan/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PointsTransactionRepository interface {
	Create(ctx context.Context, tx *gorm.DB, transaction *PointsTransaction) error
	ListByParticipant(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) ([]PointsTransaction, error)
	SumByParticipant(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) (int, error)
	FindBalanceDrift(ctx context.Context, tx *gorm.DB) ([]BalanceDrift, error)
}

// BalanceDrift is a participant whose stored balance disagrees with the ledger.
type BalanceDrift struct {
	ParticipantID uuid.UUID
	Email         string
	Points        int
	LedgerTotal   int
}

type pointsTransactionRepository struct {
	log logger.Logger
}

func NewPointsTransactionRepository() PointsTransactionRepository {
	return &pointsTransactionRepository{
		log: logger.New("pointsTransactionRepository"),
	}
}

func (r *pointsTransactionRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	transaction *PointsTransaction,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(transaction).Error; err != nil {
		return log.Err(
			"failed to record points transaction",
			err,
			"participantID", transaction.ParticipantID,
			"amount", transaction.Amount,
		)
	}

	return nil
}

func (r *pointsTransactionRepository) ListByParticipant(
	ctx context.Context,
	tx *gorm.DB,
	participantID uuid.UUID,
) ([]PointsTransaction, error) {
	log := r.log.Function("ListByParticipant")

	var transactions []PointsTransaction
	if err := tx.WithContext(ctx).
		Preload("AwardedBy").
		Preload("Registration.Event").
		Where("participant_id = ?", participantID).
		Order("created_at DESC").
		Find(&transactions).Error; err != nil {
		return nil, log.Err("failed to list points transactions", err, "participantID", participantID)
	}

	return transactions, nil
}

func (r *pointsTransactionRepository) SumByParticipant(
	ctx context.Context,
	tx *gorm.DB,
	participantID uuid.UUID,
) (int, error) {
	log := r.log.Function("SumByParticipant")

	var total int
	if err := tx.WithContext(ctx).
		Model(&PointsTransaction{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("participant_id = ?", participantID).
		Scan(&total).Error; err != nil {
		return 0, log.Err("failed to sum points transactions", err, "participantID", participantID)
	}

	return total, nil
}

func (r *pointsTransactionRepository) FindBalanceDrift(
	ctx context.Context,
	tx *gorm.DB,
) ([]BalanceDrift, error) {
	log := r.log.Function("FindBalanceDrift")

	var drift []BalanceDrift
	err := tx.WithContext(ctx).
		Table("participants p").
		Select("p.id AS participant_id, p.email, p.points, COALESCE(SUM(t.amount), 0) AS ledger_total").
		Joins("LEFT JOIN points_transactions t ON t.participant_id = p.id").
		Group("p.id, p.email, p.points").
		Having("p.points <> COALESCE(SUM(t.amount), 0)").
		Scan(&drift).Error
	if err != nil {
		return nil, log.Err("failed to compare balances with ledger", err)
	}

	return drift, nil
}
