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

type ParticipantRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Participant, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*Participant, error)
	GetByEmail(ctx context.Context, tx *gorm.DB, email string) (*Participant, error)
	List(ctx context.Context, tx *gorm.DB) ([]*Participant, error)
	FindConflicts(ctx context.Context, tx *gorm.DB, participant *Participant) (ParticipantConflicts, error)
	Create(ctx context.Context, tx *gorm.DB, participant *Participant) error
	Update(ctx context.Context, tx *gorm.DB, participant *Participant) error
	UpdatePoints(ctx context.Context, tx *gorm.DB, id uuid.UUID, points int) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
}

// ParticipantConflicts flags unique fields already held by another participant.
type ParticipantConflicts struct {
	Email         bool
	Username      bool
	ContactNumber bool
}

func (c ParticipantConflicts) Any() bool {
	return c.Email || c.Username || c.ContactNumber
}

// Messages keys each conflict by its request field name.
func (c ParticipantConflicts) Messages() map[string]string {
	messages := make(map[string]string)
	if c.Email {
		messages["email"] = "An account with this email already exists."
	}
	if c.Username {
		messages["username"] = "A participant with that username already exists."
	}
	if c.ContactNumber {
		messages["contactNumber"] = "A participant with that contact number already exists."
	}
	return messages
}

type participantRepository struct {
	log logger.Logger
}

func NewParticipantRepository() ParticipantRepository {
	return &participantRepository{
		log: logger.New("participantRepository"),
	}
}

func (r *participantRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Participant, error) {
	log := r.log.Function("GetByID")

	participant, err := gorm.G[Participant](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get participant by id", err, "participantID", id)
	}

	return &participant, nil
}

func (r *participantRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*Participant, error) {
	log := r.log.Function("GetByIDForUpdate")

	var participant Participant
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&participant, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to lock participant", err, "participantID", id)
	}

	return &participant, nil
}

func (r *participantRepository) GetByEmail(
	ctx context.Context,
	tx *gorm.DB,
	email string,
) (*Participant, error) {
	log := r.log.Function("GetByEmail")

	participant, err := gorm.G[Participant](tx).
		Where("LOWER(email) = ?", NormalizeEmail(email)).
		First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get participant by email", err)
	}

	return &participant, nil
}

func (r *participantRepository) List(ctx context.Context, tx *gorm.DB) ([]*Participant, error) {
	log := r.log.Function("List")

	var participants []*Participant
	if err := tx.WithContext(ctx).
		Order("created_at DESC").
		Find(&participants).Error; err != nil {
		return nil, log.Err("failed to list participants", err)
	}

	return participants, nil
}

func (r *participantRepository) FindConflicts(
	ctx context.Context,
	tx *gorm.DB,
	participant *Participant,
) (ParticipantConflicts, error) {
	log := r.log.Function("FindConflicts")

	var conflicts ParticipantConflicts
	checks := []struct {
		query string
		value string
		flag  *bool
	}{
		{"LOWER(email) = ?", NormalizeEmail(participant.Email), &conflicts.Email},
		{"username = ?", participant.Username, &conflicts.Username},
		{"contact_number = ?", participant.ContactNumber, &conflicts.ContactNumber},
	}

	for _, check := range checks {
		if check.value == "" {
			continue
		}

		query := tx.WithContext(ctx).Model(&Participant{}).Where(check.query, check.value)
		if participant.ID != uuid.Nil {
			query = query.Where("id <> ?", participant.ID)
		}

		var count int64
		if err := query.Count(&count).Error; err != nil {
			return conflicts, log.Err("failed to check participant uniqueness", err, "check", check.query)
		}
		*check.flag = count > 0
	}

	return conflicts, nil
}

func (r *participantRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	participant *Participant,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Create(participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return log.Err("failed to create participant", err, "username", participant.Username)
	}

	return nil
}

func (r *participantRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	participant *Participant,
) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Save(participant).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
		return log.Err("failed to update participant", err, "participantID", participant.ID)
	}

	return nil
}

func (r *participantRepository) UpdatePoints(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	points int,
) error {
	log := r.log.Function("UpdatePoints")

	rowsAffected, err := gorm.G[Participant](tx).Where("id = ?", id).Update(ctx, "points", points)
	if err != nil {
		return log.Err("failed to update participant points", err, "participantID", id)
	}

	if rowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	return nil
}

func (r *participantRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	rowsAffected, err := gorm.G[Participant](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete participant", err, "participantID", id)
	}

	if rowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Participant deleted", "participantID", id)
	return nil
}
