package eventController

import (
	"context"
	"errors"

	"ecobayanihan/internal/events"
	. "ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEventNotFound = errors.New("event not found")

type EventControllerInterface interface {
	Panel(ctx context.Context, staff *StaffAccount) (*types.AdminPanelView, error)
	CreateEvent(ctx context.Context, staff *StaffAccount, request types.EventRequest) (*CleanupEvent, error)
	UpdateEvent(ctx context.Context, id uuid.UUID, request types.EventRequest) (*CleanupEvent, error)
	DeleteEvent(ctx context.Context, id uuid.UUID) error
	GetEventParticipants(ctx context.Context, id uuid.UUID) (*types.EventParticipantsView, error)
}

type EventController struct {
	eventRepo        repositories.CleanupEventRepository
	participantRepo  repositories.ParticipantRepository
	registrationRepo repositories.CleanupRegistrationRepository
	tx               services.Transactor
	publisher        events.Publisher
	log              logger.Logger
}

func New(
	repos repositories.Repository,
	services services.Service,
	publisher events.Publisher,
) EventControllerInterface {
	return &EventController{
		eventRepo:        repos.CleanupEvent,
		participantRepo:  repos.Participant,
		registrationRepo: repos.Registration,
		tx:               services.Transaction,
		publisher:        publisher,
		log:              logger.New("eventController"),
	}
}

// Panel lists every event newest first alongside all participants.
func (c *EventController) Panel(ctx context.Context, staff *StaffAccount) (*types.AdminPanelView, error) {
	log := c.log.Function("Panel").TraceFromContext(ctx)

	db := c.tx.DB(ctx)
	cleanupEvents, err := c.eventRepo.List(ctx, db)
	if err != nil {
		return nil, log.Err("failed to list events", err)
	}

	participants, err := c.participantRepo.List(ctx, db)
	if err != nil {
		return nil, log.Err("failed to list participants", err)
	}

	view := &types.AdminPanelView{
		Events:       cleanupEvents,
		Participants: participants,
	}
	if staff != nil {
		view.StaffName = staff.DisplayName()
	}

	return view, nil
}

func (c *EventController) CreateEvent(
	ctx context.Context,
	staff *StaffAccount,
	request types.EventRequest,
) (*CleanupEvent, error) {
	log := c.log.Function("CreateEvent").TraceFromContext(ctx)

	if err := request.ValidateEvent().OrNil(); err != nil {
		return nil, err
	}

	event := &CleanupEvent{}
	if err := request.Apply(event); err != nil {
		return nil, log.Err("failed to apply event request", err)
	}
	if staff != nil {
		event.CreatedByID = &staff.ID
	}

	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.eventRepo.Create(ctx, tx, event)
	})
	if err != nil {
		return nil, log.Err("failed to create event", err)
	}

	c.announce(ctx, event, "created")
	log.Info("Event added", "eventID", event.ID, "name", event.Name)

	return event, nil
}

func (c *EventController) UpdateEvent(
	ctx context.Context,
	id uuid.UUID,
	request types.EventRequest,
) (*CleanupEvent, error) {
	log := c.log.Function("UpdateEvent").TraceFromContext(ctx)

	if err := request.ValidateEvent().OrNil(); err != nil {
		return nil, err
	}

	var event *CleanupEvent
	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		var err error
		event, err = c.eventRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := request.Apply(event); err != nil {
			return err
		}

		return c.eventRepo.Update(ctx, tx, event)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, log.Err("failed to update event", err, "eventID", id)
	}

	c.announce(ctx, event, "updated")

	return event, nil
}

// DeleteEvent removes the event and, through the foreign key, its registrations.
func (c *EventController) DeleteEvent(ctx context.Context, id uuid.UUID) error {
	log := c.log.Function("DeleteEvent").TraceFromContext(ctx)

	err := c.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		return c.eventRepo.Delete(ctx, tx, id)
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEventNotFound
		}
		return log.Err("failed to delete event", err, "eventID", id)
	}

	c.announce(ctx, &CleanupEvent{BaseUUIDModel: BaseUUIDModel{ID: id}}, "deleted")

	return nil
}

func (c *EventController) GetEventParticipants(
	ctx context.Context,
	id uuid.UUID,
) (*types.EventParticipantsView, error) {
	log := c.log.Function("GetEventParticipants").TraceFromContext(ctx)

	db := c.tx.DB(ctx)
	event, err := c.eventRepo.GetByID(ctx, db, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		return nil, log.Err("failed to get event", err, "eventID", id)
	}

	registrations, err := c.registrationRepo.ListByEvent(ctx, db, id)
	if err != nil {
		return nil, log.Err("failed to list registrations", err, "eventID", id)
	}

	return &types.EventParticipantsView{
		Event:         *event,
		Registrations: registrations,
	}, nil
}

func (c *EventController) announce(ctx context.Context, event *CleanupEvent, action string) {
	if c.publisher == nil {
		return
	}

	err := c.publisher.Publish(events.EVENTS_CHANNEL, events.Event{
		Type: events.EVENT_UPDATED,
		Data: map[string]any{
			"eventId": event.ID,
			"name":    event.Name,
			"action":  action,
		},
	})
	if err != nil {
		c.log.Function("announce").TraceFromContext(ctx).Warn("failed to publish event change", "error", err)
	}
}
