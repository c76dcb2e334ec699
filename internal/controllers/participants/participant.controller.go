package participantController

import (
	"context"
	"errors"

	. "ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const PARTICIPANT_INVALID_MESSAGE = "Please correct the participant details."

var ErrParticipantNotFound = errors.New("participant not found")

type ParticipantControllerInterface interface {
	GetParticipant(ctx context.Context, id uuid.UUID) (*Participant, error)
	CreateParticipant(ctx context.Context, request types.ParticipantRequest) (*Participant, error)
	UpdateParticipant(ctx context.Context, id uuid.UUID, request types.ParticipantRequest) (*Participant, error)
	DeleteParticipant(ctx context.Context, id uuid.UUID) error
}

type ParticipantController struct {
	participantRepo repositories.ParticipantRepository
	tx              services.Transactor
	log             logger.Logger
}

func New(repos repositories.Repository, services services.Service) ParticipantControllerInterface {
	return &ParticipantController{
		participantRepo: repos.Participant,
		tx:              services.Transaction,
		log:             logger.New("participantController"),
	}
}

func (c *ParticipantController) GetParticipant(ctx context.Context, id uuid.UUID) (*Participant, error) {
	log := c.log.Function("GetParticipant").TraceFromContext(ctx)

	participant, err := c.participantRepo.GetByID(ctx, c.tx.DB(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		return nil, log.Err("failed to get participant", err, "participantID", id)
	}

	return participant, nil
}

func (c *ParticipantController) CreateParticipant(
	ctx context.Context,
	request types.ParticipantRequest,
) (*Participant, error) {
	log := c.log.Function("CreateParticipant").TraceFromContext(ctx)

	validation := types.Validate(PARTICIPANT_INVALID_MESSAGE, request)
	if request.Password == "" {
		validation.Add("password", "This field is required.")
	}

	participant := &Participant{}
	if err := c.prepare(ctx, participant, request, validation); err != nil {
		return nil, err
	}

	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.participantRepo.Create(ctx, tx, participant)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			validation.Add("email", "An account with this email already exists.")
			return nil, validation
		}
		return nil, log.Err("failed to create participant", err)
	}

	log.Info("Participant added", "participantID", participant.ID)
	return participant, nil
}

// UpdateParticipant keeps the stored password unless a new one is supplied.
func (c *ParticipantController) UpdateParticipant(
	ctx context.Context,
	id uuid.UUID,
	request types.ParticipantRequest,
) (*Participant, error) {
	log := c.log.Function("UpdateParticipant").TraceFromContext(ctx)

	validation := types.Validate(PARTICIPANT_INVALID_MESSAGE, request)

	var participant *Participant
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		participant, err = c.participantRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := c.prepare(ctx, participant, request, validation); err != nil {
			return err
		}

		return c.participantRepo.Update(ctx, tx, participant)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrParticipantNotFound
		}
		if _, ok := types.AsValidationError(err); ok {
			return nil, err
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			validation.Add("email", "An account with this email already exists.")
			return nil, validation
		}
		return nil, log.Err("failed to update participant", err, "participantID", id)
	}

	return participant, nil
}

// DeleteParticipant cascades to registrations and ledger rows.
func (c *ParticipantController) DeleteParticipant(ctx context.Context, id uuid.UUID) error {
	log := c.log.Function("DeleteParticipant").TraceFromContext(ctx)

	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.participantRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrParticipantNotFound
		}
		return log.Err("failed to delete participant", err, "participantID", id)
	}

	log.Info("Participant deleted", "participantID", id)
	return nil
}

func (c *ParticipantController) prepare(
	ctx context.Context,
	participant *Participant,
	request types.ParticipantRequest,
	validation *types.ValidationError,
) error {
	if err := request.Apply(participant); err != nil {
		validation.Add("birthdate", "Enter a valid date.")
	}

	if !validation.HasErrors() {
		conflicts, err := c.participantRepo.FindConflicts(ctx, c.tx.DB(ctx), participant)
		if err != nil {
			return err
		}
		for field, message := range conflicts.Messages() {
			validation.Add(field, message)
		}
	}

	if err := validation.OrNil(); err != nil {
		return err
	}

	if request.Password != "" {
		if err := participant.SetPassword(request.Password); err != nil {
			return validation.AddPasswordError(err)
		}
	}

	return nil
}
