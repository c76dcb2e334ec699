package registrationController

import (
	"context"
	"errors"
	"mime/multipart"
	"strings"
	"time"

	"ecobayanihan/internal/events"
	. "ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SELECT_EVENT_FIRST_MESSAGE = "Please select an event first."
	ALREADY_REGISTERED_MESSAGE = "You have already registered for this event."
	REGISTERED_MESSAGE         = "You have successfully registered for this event."
)

var (
	ErrEventNotFound        = errors.New("event not found")
	ErrEventClosed          = errors.New("event is no longer accepting registrations")
	ErrEventFull            = errors.New("event has reached its maximum number of participants")
	ErrRegistrationNotFound = errors.New("registration not found")

	errAlreadyRegistered = errors.New("already registered")
)

// Approver credits event points for an attended registration.
type Approver interface {
	ApproveRegistration(ctx context.Context, staff *StaffAccount, registrationID uuid.UUID) (*CleanupRegistration, error)
}

type ProofStore interface {
	SaveProof(ctx context.Context, registrationID uuid.UUID, file *multipart.FileHeader) (string, error)
	Remove(relative string) error
}

type RegistrationControllerInterface interface {
	SelectEvent(
		ctx context.Context,
		session *types.Session,
		participant *Participant,
		request types.SelectEventRequest,
	) (*types.RegistrationOutcome, error)
	SetAttendance(ctx context.Context, id uuid.UUID, attended bool) (*CleanupRegistration, error)
	Approve(ctx context.Context, staff *StaffAccount, id uuid.UUID) (*CleanupRegistration, error)
	UploadProof(
		ctx context.Context,
		participant *Participant,
		id uuid.UUID,
		file *multipart.FileHeader,
		notes string,
	) (*CleanupRegistration, error)
}

type RegistrationController struct {
	eventRepo        repositories.CleanupEventRepository
	registrationRepo repositories.CleanupRegistrationRepository
	tx               services.Transactor
	approver         Approver
	proofs           ProofStore
	publisher        events.Publisher
	now              func() time.Time
	log              logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	publisher events.Publisher,
) RegistrationControllerInterface {
	return &RegistrationController{
		eventRepo:        repos.CleanupEvent,
		registrationRepo: repos.Registration,
		tx:               services.Transaction,
		approver:         services.Points,
		proofs:           services.Upload,
		publisher:        publisher,
		now:              time.Now,
		log:              logger.New("registrationController"),
	}
}

// SelectEvent signs the participant up for an event. The event row stays
// locked while capacity is counted so concurrent sign ups cannot overfill it.
func (c *RegistrationController) SelectEvent(
	ctx context.Context,
	session *types.Session,
	participant *Participant,
	request types.SelectEventRequest,
) (*types.RegistrationOutcome, error) {
	log := c.log.Function("SelectEvent").TraceFromContext(ctx)

	rawID := strings.TrimSpace(request.Event)
	if rawID == "" {
		validation := types.NewValidationError(SELECT_EVENT_FIRST_MESSAGE)
		validation.Add("event", SELECT_EVENT_FIRST_MESSAGE)
		return nil, validation
	}

	eventID, err := uuid.Parse(rawID)
	if err != nil {
		return nil, ErrEventNotFound
	}

	now := c.now()
	var event *CleanupEvent
	var registration *CleanupRegistration
	var registered int64
	err = c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		event, err = c.eventRepo.GetByIDForUpdate(ctx, tx, eventID)
		if err != nil {
			return err
		}

		exists, err := c.registrationRepo.Exists(ctx, tx, participant.ID, event.ID)
		if err != nil {
			return err
		}
		if exists {
			return errAlreadyRegistered
		}

		if !event.AcceptsRegistrations(now) {
			return ErrEventClosed
		}

		registered, err = c.registrationRepo.CountByEvent(ctx, tx, event.ID)
		if err != nil {
			return err
		}
		if event.IsFull(registered) {
			return ErrEventFull
		}

		registration = &CleanupRegistration{
			ParticipantID: participant.ID,
			EventID:       event.ID,
		}
		if err := c.registrationRepo.Create(ctx, tx, registration); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return errAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		switch {
		case errors.Is(err, errAlreadyRegistered):
			return &types.RegistrationOutcome{
				Status:  types.OUTCOME_WARNING,
				Message: ALREADY_REGISTERED_MESSAGE,
			}, nil
		case errors.Is(err, gorm.ErrRecordNotFound):
			return nil, ErrEventNotFound
		case errors.Is(err, ErrEventClosed), errors.Is(err, ErrEventFull):
			return nil, err
		}
		return nil, log.Err("failed to register for event", err, "eventID", eventID)
	}

	session.SetRegistrationSuccess(snapshot(event), now)
	c.announce(ctx, event, registered+1)

	log.Info("Participant registered for event", "participantID", participant.ID, "eventID", event.ID)

	registration.Event = event
	return &types.RegistrationOutcome{
		Status:       types.OUTCOME_SUCCESS,
		Message:      REGISTERED_MESSAGE,
		Registration: registration,
	}, nil
}

func (c *RegistrationController) SetAttendance(
	ctx context.Context,
	id uuid.UUID,
	attended bool,
) (*CleanupRegistration, error) {
	log := c.log.Function("SetAttendance").TraceFromContext(ctx)

	var registration *CleanupRegistration
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		registration, err = c.registrationRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		registration.Attended = attended
		return c.registrationRepo.Update(ctx, tx, registration)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, log.Err("failed to update attendance", err, "registrationID", id)
	}

	return registration, nil
}

func (c *RegistrationController) Approve(
	ctx context.Context,
	staff *StaffAccount,
	id uuid.UUID,
) (*CleanupRegistration, error) {
	registration, err := c.approver.ApproveRegistration(ctx, staff, id)
	if err != nil {
		if errors.Is(err, services.ErrRegistrationNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, err
	}

	return registration, nil
}

// UploadProof attaches an image to one of the participant's own registrations,
// replacing any earlier upload.
func (c *RegistrationController) UploadProof(
	ctx context.Context,
	participant *Participant,
	id uuid.UUID,
	file *multipart.FileHeader,
	notes string,
) (*CleanupRegistration, error) {
	log := c.log.Function("UploadProof").TraceFromContext(ctx)

	if file == nil {
		validation := types.NewValidationError("Please choose an image to upload.")
		validation.Add("proof", "This field is required.")
		return nil, validation
	}

	registration, err := c.registrationRepo.GetByID(ctx, c.tx.DB(ctx), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRegistrationNotFound
		}
		return nil, log.Err("failed to get registration", err, "registrationID", id)
	}

	if registration.ParticipantID != participant.ID {
		return nil, ErrRegistrationNotFound
	}

	path, err := c.proofs.SaveProof(ctx, registration.ID, file)
	if err != nil {
		if errors.Is(err, services.ErrProofTooLarge) || errors.Is(err, services.ErrProofNotAnImage) {
			validation := types.NewValidationError(err.Error())
			validation.Add("proof", err.Error())
			return nil, validation
		}
		return nil, log.Err("failed to store proof", err, "registrationID", id)
	}

	previous := registration.ProofImage
	registration.ProofImage = &path
	registration.ProofNotes = strings.TrimSpace(notes)

	err = c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.registrationRepo.Update(ctx, tx, registration)
	})
	if err != nil {
		if removeErr := c.proofs.Remove(path); removeErr != nil {
			log.Warn("failed to remove orphaned proof", "path", path, "error", removeErr)
		}
		return nil, log.Err("failed to save proof", err, "registrationID", id)
	}

	if previous != nil && *previous != path {
		if err := c.proofs.Remove(*previous); err != nil {
			log.Warn("failed to remove replaced proof", "path", *previous, "error", err)
		}
	}

	return registration, nil
}

func snapshot(event *CleanupEvent) types.RegistrationSuccess {
	return types.RegistrationSuccess{
		EventID:  event.ID,
		Name:     event.Name,
		Place:    event.Place.Label(),
		Location: event.SpecificLocation,
		Date:     event.FormattedDate(),
		Time:     event.FormattedStartTime(),
		Duration: event.DurationHours.String(),
		Points:   event.Points,
	}
}

func (c *RegistrationController) announce(ctx context.Context, event *CleanupEvent, registered int64) {
	if c.publisher == nil {
		return
	}

	err := c.publisher.Publish(events.EVENTS_CHANNEL, events.Event{
		Type: events.EVENT_REGISTERED,
		Data: map[string]any{
			"eventId":         event.ID,
			"registeredCount": registered,
			"maxParticipants": event.MaxParticipants,
		},
	})
	if err != nil {
		c.log.Function("announce").TraceFromContext(ctx).Warn("failed to publish registration", "error", err)
	}
}
