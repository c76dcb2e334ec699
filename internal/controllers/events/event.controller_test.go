package eventController

import (
	"context"
	"testing"
	"time"

	"ecobayanihan/internal/events"
	. "ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeTx struct{}

func (fakeTx) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	return fn(ctx, nil)
}

func (fakeTx) DB(ctx context.Context) *gorm.DB { return nil }

type fakeEvents struct {
	repositories.CleanupEventRepository
	events map[uuid.UUID]*CleanupEvent
}

func (f *fakeEvents) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleanupEvent, error) {
	if e, ok := f.events[id]; ok {
		return e, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeEvents) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleanupEvent, error) {
	return f.GetByID(ctx, tx, id)
}

func (f *fakeEvents) List(ctx context.Context, tx *gorm.DB) ([]CleanupEvent, error) {
	list := make([]CleanupEvent, 0, len(f.events))
	for _, e := range f.events {
		list = append(list, *e)
	}
	return list, nil
}

func (f *fakeEvents) Create(ctx context.Context, tx *gorm.DB, event *CleanupEvent) error {
	event.ID = uuid.New()
	f.events[event.ID] = event
	return nil
}

func (f *fakeEvents) Update(ctx context.Context, tx *gorm.DB, event *CleanupEvent) error {
	f.events[event.ID] = event
	return nil
}

func (f *fakeEvents) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	if _, ok := f.events[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(f.events, id)
	return nil
}

type fakeParticipants struct {
	repositories.ParticipantRepository
}

func (fakeParticipants) List(ctx context.Context, tx *gorm.DB) ([]*Participant, error) {
	return []*Participant{{Fullname: "Test User"}}, nil
}

type fakeRegistrations struct {
	repositories.CleanupRegistrationRepository
	byEvent map[uuid.UUID][]CleanupRegistration
}

func (f *fakeRegistrations) ListByEvent(ctx context.Context, tx *gorm.DB, eventID uuid.UUID) ([]CleanupRegistration, error) {
	return f.byEvent[eventID], nil
}

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(channel events.Channel, event events.Event) error {
	f.published = append(f.published, event)
	return nil
}

func newController() (*EventController, *fakeEvents, *fakeRegistrations, *fakePublisher) {
	eventRepo := &fakeEvents{events: make(map[uuid.UUID]*CleanupEvent)}
	registrations := &fakeRegistrations{byEvent: make(map[uuid.UUID][]CleanupRegistration)}
	publisher := &fakePublisher{}

	return &EventController{
		eventRepo:        eventRepo,
		participantRepo:  fakeParticipants{},
		registrationRepo: registrations,
		tx:               fakeTx{},
		publisher:        publisher,
		log:              logger.New("eventController_test"),
	}, eventRepo, registrations, publisher
}

func validEventRequest() types.EventRequest {
	return types.EventRequest{
		Name:             "Beach Cleanup Drive",
		Place:            "beach",
		SpecificLocation: "Manila Bay, Roxas Boulevard",
		Date:             time.Now().AddDate(0, 0, 7).Format(types.DATE_LAYOUT),
		StartTime:        "08:00",
		DurationHours:    decimal.NewFromInt(4),
		Points:           15,
		MaxParticipants:  50,
	}
}

func TestCreateEvent(t *testing.T) {
	controller, repo, _, publisher := newController()
	staff := &StaffAccount{BaseUUIDModel: BaseUUIDModel{ID: uuid.New()}, Username: "admin"}

	event, err := controller.CreateEvent(context.Background(), staff, validEventRequest())

	require.NoError(t, err)
	assert.Contains(t, repo.events, event.ID)
	assert.Equal(t, PlaceBeach, event.Place)
	assert.True(t, event.IsActive)
	assert.Equal(t, staff.ID, *event.CreatedByID)
	assert.Equal(t, "08:00 AM", event.FormattedStartTime())
	require.Len(t, publisher.published, 1)
	assert.Equal(t, events.EVENT_UPDATED, publisher.published[0].Type)
}

func TestCreateEvent_Invalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *types.EventRequest)
		field  string
	}{
		{"unknown place", func(r *types.EventRequest) { r.Place = "mountain" }, "place"},
		{"zero duration", func(r *types.EventRequest) { r.DurationHours = decimal.Zero }, "durationHours"},
		{"negative points", func(r *types.EventRequest) { r.Points = -1 }, "points"},
		{"no capacity", func(r *types.EventRequest) { r.MaxParticipants = 0 }, "maxParticipants"},
		{"bad date", func(r *types.EventRequest) { r.Date = "07/01/2025" }, "date"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			controller, repo, _, _ := newController()
			request := validEventRequest()
			tt.mutate(&request)

			_, err := controller.CreateEvent(context.Background(), nil, request)

			validation, ok := types.AsValidationError(err)
			require.True(t, ok)
			assert.Contains(t, validation.Fields, tt.field)
			assert.Empty(t, repo.events)
		})
	}
}

func TestUpdateEvent(t *testing.T) {
	controller, repo, _, _ := newController()
	created, err := controller.CreateEvent(context.Background(), nil, validEventRequest())
	require.NoError(t, err)

	request := validEventRequest()
	request.Name = "River Cleanup"
	inactive := false
	request.IsActive = &inactive

	updated, err := controller.UpdateEvent(context.Background(), created.ID, request)

	require.NoError(t, err)
	assert.Equal(t, "River Cleanup", repo.events[created.ID].Name)
	assert.False(t, updated.IsActive)
}

func TestUpdateEvent_NotFound(t *testing.T) {
	controller, _, _, _ := newController()

	_, err := controller.UpdateEvent(context.Background(), uuid.New(), validEventRequest())

	assert.ErrorIs(t, err, ErrEventNotFound)
}

func TestDeleteEvent(t *testing.T) {
	controller, repo, _, _ := newController()
	created, err := controller.CreateEvent(context.Background(), nil, validEventRequest())
	require.NoError(t, err)

	require.NoError(t, controller.DeleteEvent(context.Background(), created.ID))
	assert.Empty(t, repo.events)

	assert.ErrorIs(t, controller.DeleteEvent(context.Background(), created.ID), ErrEventNotFound)
}

func TestGetEventParticipants(t *testing.T) {
	controller, _, registrations, _ := newController()
	created, err := controller.CreateEvent(context.Background(), nil, validEventRequest())
	require.NoError(t, err)
	registrations.byEvent[created.ID] = []CleanupRegistration{{EventID: created.ID}}

	view, err := controller.GetEventParticipants(context.Background(), created.ID)

	require.NoError(t, err)
	assert.Equal(t, created.ID, view.Event.ID)
	assert.Len(t, view.Registrations, 1)
}

func TestPanel(t *testing.T) {
	controller, _, _, _ := newController()
	_, err := controller.CreateEvent(context.Background(), nil, validEventRequest())
	require.NoError(t, err)

	view, err := controller.Panel(context.Background(), &StaffAccount{Username: "admin"})

	require.NoError(t, err)
	assert.Len(t, view.Events, 1)
	assert.Len(t, view.Participants, 1)
	assert.Equal(t, "admin", view.StaffName)
}
