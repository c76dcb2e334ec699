package repositories

import (
	"context"
	"errors"

	. "ecobayanihan/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CleanupRegistrationRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleanupRegistration, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleanupRegistration, error)
	Exists(ctx context.Context, tx *gorm.DB, participantID, eventID uuid.UUID) (bool, error)
	CountByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) (int64, error)
	ListByParticipant(ctx context.Context, tx *gorm.DB, participantID uuid.UUID) ([]CleanupRegistration, error)
	ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]CleanupRegistration, error)
	Create(ctx context.Context, tx *gorm.DB, registration *CleanupRegistration) error
	Update(ctx context.Context, tx *gorm.DB, registration *CleanupRegistration) error
	ListProofPaths(ctx context.Context, tx *gorm.DB) ([]string, error)
}

type cleanupRegistrationRepository struct {
	log logger.Logger
}

func NewCleanupRegistrationRepository() CleanupRegistrationRepository {
	return &cleanupRegistrationRepository{
		log: logger.New("cleanupRegistrationRepository"),
	}
}

func (r *cleanupRegistrationRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*CleanupRegistration, error) {
	log := r.log.Function("GetByID")

	var registration CleanupRegistration
	err := tx.WithContext(ctx).
		Preload("Event").
		Preload("Participant").
		Preload("ApprovedBy").
		First(&registration, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get registration", err, "registrationID", id)
	}

	return &registration, nil
}

func (r *cleanupRegistrationRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*CleanupRegistration, error) {
	log := r.log.Function("GetByIDForUpdate")

	var registration CleanupRegistration
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&registration, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to lock registration", err, "registrationID", id)
	}

	return &registration, nil
}

func (r *cleanupRegistrationRepository) Exists(
	ctx context.Context,
	tx *gorm.DB,
	participantID, eventID uuid.UUID,
) (bool, error) {
	log := r.log.Function("Exists")

	count, err := gorm.G[CleanupRegistration](tx).
		Where("participant_id = ? AND event_id = ?", participantID, eventID).
		Count(ctx, "id")
	if err != nil {
		return false, log.Err(
			"failed to check registration",
			err,
			"participantID", participantID,
			"eventID", eventID,
		)
	}

	return count > 0, nil
}

func (r *cleanupRegistrationRepository) CountByEvent(
	ctx context.Context,
	tx *gorm.DB,
	eventID uuid.UUID,
) (int64, error) {
	log := r.log.Function("CountByEvent")

	count, err := gorm.G[CleanupRegistration](tx).Where("event_id = ?", eventID).Count(ctx, "id")
	if err != nil {
		return 0, log.Err("failed to count registrations", err, "eventID", eventID)
	}

	return count, nil
}

func (r *cleanupRegistrationRepository) ListByParticipant(
	ctx context.Context,
	tx *gorm.DB,
	participantID uuid.UUID,
) ([]CleanupRegistration, error) {
	log := r.log.Function("ListByParticipant")

	var registrations []CleanupRegistration
	if err := tx.WithContext(ctx).
		Preload("Event").
		Preload("ApprovedBy").
		Where("participant_id = ?", participantID).
		Order("created_at DESC").
		Find(&registrations).Error; err != nil {
		return nil, log.Err("failed to list registrations", err, "participantID", participantID)
	}

	return registrations, nil
}

func (r *cleanupRegistrationRepository) ListByEvent(
	ctx context.Context,
	tx *gorm.DB,
	eventID uuid.UUID,
) ([]CleanupRegistration, error) {
	log := r.log.Function("ListByEvent")

	var registrations []CleanupRegistration
	if err := tx.WithContext(ctx).
		Preload("Participant").
		Preload("ApprovedBy").
		Where("event_id = ?", eventID).
		Order("created_at ASC").
		Find(&registrations).Error; err != nil {
		return nil, log.Err("failed to list event registrations", err, "eventID", eventID)
	}

	return registrations, nil
}

// Create returns gorm.ErrDuplicatedKey unlogged when the pair already exists.
func (r *cleanupRegistrationRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	registration *CleanupRegistration,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(registration).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return log.Err(
			"failed to create registration",
			err,
			"participantID", registration.ParticipantID,
			"eventID", registration.EventID,
		)
	}

	return nil
}

func (r *cleanupRegistrationRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	registration *CleanupRegistration,
) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Save(registration).Error; err != nil {
		return log.Err("failed to update registration", err, "registrationID", registration.ID)
	}

	return nil
}

// ListProofPaths returns every proof image still referenced by a registration.
func (r *cleanupRegistrationRepository) ListProofPaths(ctx context.Context, tx *gorm.DB) ([]string, error) {
	log := r.log.Function("ListProofPaths")

	var paths []string
	if err := tx.WithContext(ctx).
		Model(&CleanupRegistration{}).
		Where("proof_image IS NOT NULL AND proof_image <> ''").
		Pluck("proof_image", &paths).Error; err != nil {
		return nil, log.Err("failed to list proof paths", err)
	}

	return paths, nil
}
