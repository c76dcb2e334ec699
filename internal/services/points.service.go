package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ecobayanihan/internal/events"
	"ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrPointsAlreadyAwarded = errors.New("points were already awarded for this registration")
	ErrParticipantNotFound  = errors.New("participant not found")
	ErrRegistrationNotFound = errors.New("registration not found")
	ErrPointsOutOfRange     = errors.New("points balance out of range")
)

// PointsNotifier delivers the one-shot notice to the participant.
type PointsNotifier interface {
	SetPointsNotice(ctx context.Context, email string, notice types.PointsNotice) error
}

// PointsService owns the points ledger. Every balance change inserts a ledger
// row and updates Participant.Points in the same transaction under a row lock.
type PointsService struct {
	repos    repositories.Repository
	tx       Transactor
	notifier PointsNotifier
	events   events.Publisher
	now      func() time.Time
	log      logger.Logger
}

func NewPointsService(
	repos repositories.Repository,
	tx Transactor,
	notifier PointsNotifier,
	publisher events.Publisher,
) *PointsService {
	return &PointsService{
		repos:    repos,
		tx:       tx,
		notifier: notifier,
		events:   publisher,
		now:      time.Now,
		log:      logger.New("PointsService"),
	}
}

type ledgerEntry struct {
	participantID  uuid.UUID
	amount         int
	kind           models.PointsKind
	reason         string
	registrationID *uuid.UUID
	staff          *models.StaffAccount
}

// credit must run inside a transaction.
func (s *PointsService) credit(
	ctx context.Context,
	tx *gorm.DB,
	entry ledgerEntry,
) (*models.Participant, *models.PointsTransaction, error) {
	participant, err := s.repos.Participant.GetByIDForUpdate(ctx, tx, entry.participantID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, ErrParticipantNotFound
		}
		return nil, nil, err
	}

	balance := int64(participant.Points) + int64(entry.amount)
	if !models.PointsInRange(balance) {
		return nil, nil, ErrPointsOutOfRange
	}
	participant.Points = int(balance)
	if err := s.repos.Participant.UpdatePoints(ctx, tx, participant.ID, participant.Points); err != nil {
		return nil, nil, err
	}

	transaction := &models.PointsTransaction{
		ParticipantID:  participant.ID,
		Amount:         entry.amount,
		BalanceAfter:   participant.Points,
		Kind:           entry.kind,
		Reason:         entry.reason,
		RegistrationID: entry.registrationID,
	}
	if entry.staff != nil {
		transaction.AwardedByID = &entry.staff.ID
	}

	if err := s.repos.PointsTransaction.Create(ctx, tx, transaction); err != nil {
		return nil, nil, err
	}
	transaction.AwardedBy = entry.staff

	return participant, transaction, nil
}

// AwardPoints adds amount to the participant balance. Negative amounts are
// recorded as adjustments.
func (s *PointsService) AwardPoints(
	ctx context.Context,
	staff *models.StaffAccount,
	participantID uuid.UUID,
	amount int,
	reason string,
) (*types.AwardPointsResult, error) {
	log := s.log.Function("AwardPoints").TraceFromContext(ctx)

	var participant *models.Participant
	var transaction *models.PointsTransaction
	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		participant, transaction, err = s.credit(ctx, tx, ledgerEntry{
			participantID: participantID,
			amount:        amount,
			kind:          models.KindForAmount(amount),
			reason:        reason,
			staff:         staff,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrParticipantNotFound) || errors.Is(err, ErrPointsOutOfRange) {
			return nil, err
		}
		return nil, log.Err("failed to award points", err, "participantID", participantID)
	}

	s.notify(ctx, participant, amount, reason)

	log.Info(
		"Points awarded",
		"participantID", participant.ID,
		"amount", amount,
		"balance", participant.Points,
	)

	return &types.AwardPointsResult{
		Participant: *participant,
		Transaction: *transaction,
		Message:     fmt.Sprintf("%d points added to %s.", amount, participant.Fullname),
	}, nil
}

// ApproveRegistration marks attendance approved and credits the event points once.
func (s *PointsService) ApproveRegistration(
	ctx context.Context,
	staff *models.StaffAccount,
	registrationID uuid.UUID,
) (*models.CleanupRegistration, error) {
	log := s.log.Function("ApproveRegistration").TraceFromContext(ctx)

	var registration *models.CleanupRegistration
	var participant *models.Participant
	var points int
	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		registration, err = s.repos.Registration.GetByIDForUpdate(ctx, tx, registrationID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrRegistrationNotFound
			}
			return err
		}

		if registration.PointsAwarded {
			return ErrPointsAlreadyAwarded
		}

		event, err := s.repos.CleanupEvent.GetByID(ctx, tx, registration.EventID)
		if err != nil {
			return err
		}
		points = event.Points

		registration.Approve(staff, s.now())
		registration.PointsAwarded = true
		if err := s.repos.Registration.Update(ctx, tx, registration); err != nil {
			return err
		}
		registration.Event = event

		participant, _, err = s.credit(ctx, tx, ledgerEntry{
			participantID:  registration.ParticipantID,
			amount:         points,
			kind:           models.PointsKindEvent,
			reason:         event.Name,
			registrationID: &registration.ID,
			staff:          staff,
		})
		return err
	})
	if err != nil {
		if errors.Is(err, ErrRegistrationNotFound) ||
			errors.Is(err, ErrPointsAlreadyAwarded) ||
			errors.Is(err, ErrPointsOutOfRange) {
			return nil, err
		}
		return nil, log.Err("failed to approve registration", err, "registrationID", registrationID)
	}

	s.notify(ctx, participant, points, registration.Event.Name)

	return registration, nil
}

// History returns ledger rows newest first. The total is the stored balance,
// which always equals the ledger sum.
func (s *PointsService) History(ctx context.Context, participant *models.Participant) (*types.PointsHistoryView, error) {
	log := s.log.Function("History").TraceFromContext(ctx)

	transactions, err := s.repos.PointsTransaction.ListByParticipant(ctx, s.tx.DB(ctx), participant.ID)
	if err != nil {
		return nil, log.Err("failed to load points history", err, "participantID", participant.ID)
	}

	view := &types.PointsHistoryView{
		History:     make([]types.PointsHistoryEntry, 0, len(transactions)),
		TotalPoints: participant.Points,
	}
	for _, transaction := range transactions {
		entry := types.PointsHistoryEntry{
			ID:             transaction.ID,
			Kind:           transaction.Kind,
			Points:         transaction.Amount,
			BalanceAfter:   transaction.BalanceAfter,
			Reason:         transaction.Reason,
			AwardedBy:      transaction.AwardedByName(),
			AwardedAt:      transaction.CreatedAt,
			RegistrationID: transaction.RegistrationID,
		}
		if transaction.Registration != nil && transaction.Registration.Event != nil {
			entry.EventName = transaction.Registration.Event.Name
		}
		view.History = append(view.History, entry)
	}

	return view, nil
}

// Audit logs every participant whose balance drifted from the ledger.
func (s *PointsService) Audit(ctx context.Context) ([]repositories.BalanceDrift, error) {
	log := s.log.Function("Audit").TraceFromContext(ctx)

	drift, err := s.repos.PointsTransaction.FindBalanceDrift(ctx, s.tx.DB(ctx))
	if err != nil {
		return nil, log.Err("failed to audit points ledger", err)
	}

	for _, d := range drift {
		log.Warn(
			"Points balance differs from ledger",
			"participantID", d.ParticipantID,
			"points", d.Points,
			"ledgerTotal", d.LedgerTotal,
		)
	}

	return drift, nil
}

func (s *PointsService) notify(ctx context.Context, participant *models.Participant, amount int, reason string) {
	log := s.log.Function("notify").TraceFromContext(ctx)

	notice := types.PointsNotice{Points: amount, TotalPoints: participant.Points}
	if err := s.notifier.SetPointsNotice(ctx, participant.Email, notice); err != nil {
		log.Warn("failed to store points notice", "participantID", participant.ID, "error", err)
	}

	if s.events == nil {
		return
	}

	event := events.PointsAwarded(participant.ID, amount, participant.Points, reason)
	if err := s.events.Publish(events.POINTS_CHANNEL, event); err != nil {
		log.Warn("failed to publish points event", "participantID", participant.ID, "error", err)
	}
}
