package services

import (
	"context"
	"sync"
	"time"

	"ecobayanihan/internal/events"
	"ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/types"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// fakeTransactor runs fn directly and counts how often it was asked to.
type fakeTransactor struct {
	executions int
}

func (f *fakeTransactor) Execute(ctx context.Context, fn func(context.Context, *gorm.DB) error) error {
	f.executions++
	return fn(ctx, nil)
}

func (f *fakeTransactor) DB(ctx context.Context) *gorm.DB {
	return nil
}

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

type fakeSessionStore struct {
	mu       sync.Mutex
	sessions map[string]types.Session
	sets     int
}

func newFakeSessionStore() *fakeSessionStore {
	return &fakeSessionStore{sessions: make(map[string]types.Session)}
}

func (f *fakeSessionStore) Get(ctx context.Context, id string) (*types.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	session, ok := f.sessions[id]
	if !ok {
		return nil, nil
	}
	return &session, nil
}

func (f *fakeSessionStore) Set(ctx context.Context, session *types.Session, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sessions[session.ID] = *session
	f.sets++
	return nil
}

func (f *fakeSessionStore) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.sessions, id)
	return nil
}

type fakeNoticeStore struct {
	notices map[string]types.PointsNotice
}

func newFakeNoticeStore() *fakeNoticeStore {
	return &fakeNoticeStore{notices: make(map[string]types.PointsNotice)}
}

func (f *fakeNoticeStore) SetPointsNotice(
	ctx context.Context,
	email string,
	notice types.PointsNotice,
	ttl time.Duration,
) error {
	f.notices[email] = notice
	return nil
}

func (f *fakeNoticeStore) PopPointsNotice(ctx context.Context, email string) (*types.PointsNotice, error) {
	notice, ok := f.notices[email]
	if !ok {
		return nil, nil
	}
	delete(f.notices, email)
	return &notice, nil
}

type fakeNotifier struct {
	notices map[string]types.PointsNotice
}

func (f *fakeNotifier) SetPointsNotice(ctx context.Context, email string, notice types.PointsNotice) error {
	if f.notices == nil {
		f.notices = make(map[string]types.PointsNotice)
	}
	f.notices[email] = notice
	return nil
}

type fakePublisher struct {
	published []events.Event
}

func (f *fakePublisher) Publish(channel events.Channel, event events.Event) error {
	event.Channel = channel
	f.published = append(f.published, event)
	return nil
}

// Embedded interfaces leave methods the tests never reach unimplemented.
type fakeLoginAttemptRepo struct {
	repositories.LoginAttemptRepository
	attempts map[string]models.LoginAttempt
}

func newFakeLoginAttemptRepo() *fakeLoginAttemptRepo {
	return &fakeLoginAttemptRepo{attempts: make(map[string]models.LoginAttempt)}
}

func (f *fakeLoginAttemptRepo) Get(ctx context.Context, tx *gorm.DB, username string) (*models.LoginAttempt, error) {
	attempt, ok := f.attempts[username]
	if !ok {
		return nil, nil
	}
	return &attempt, nil
}

func (f *fakeLoginAttemptRepo) Save(ctx context.Context, tx *gorm.DB, attempt *models.LoginAttempt) error {
	f.attempts[attempt.Username] = *attempt
	return nil
}

func (f *fakeLoginAttemptRepo) Delete(ctx context.Context, tx *gorm.DB, username string) error {
	delete(f.attempts, username)
	return nil
}

func (f *fakeLoginAttemptRepo) DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int, error) {
	deleted := 0
	for key, attempt := range f.attempts {
		if attempt.LastAttempt.Before(cutoff) {
			delete(f.attempts, key)
			deleted++
		}
	}
	return deleted, nil
}

type fakeParticipantRepo struct {
	repositories.ParticipantRepository
	participants map[uuid.UUID]*models.Participant
	locks        int
}

func (f *fakeParticipantRepo) GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.Participant, error) {
	f.locks++
	participant, ok := f.participants[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *participant
	return &clone, nil
}

func (f *fakeParticipantRepo) UpdatePoints(ctx context.Context, tx *gorm.DB, id uuid.UUID, points int) error {
	participant, ok := f.participants[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	participant.Points = points
	return nil
}

type fakeEventRepo struct {
	repositories.CleanupEventRepository
	events map[uuid.UUID]*models.CleanupEvent
}

func (f *fakeEventRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*models.CleanupEvent, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *event
	return &clone, nil
}

type fakeRegistrationRepo struct {
	repositories.CleanupRegistrationRepository
	registrations map[uuid.UUID]*models.CleanupRegistration
}

func (f *fakeRegistrationRepo) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*models.CleanupRegistration, error) {
	registration, ok := f.registrations[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	clone := *registration
	return &clone, nil
}

func (f *fakeRegistrationRepo) ListProofPaths(ctx context.Context, tx *gorm.DB) ([]string, error) {
	paths := make([]string, 0)
	for _, registration := range f.registrations {
		if registration.ProofImage != nil {
			paths = append(paths, *registration.ProofImage)
		}
	}
	return paths, nil
}

func (f *fakeRegistrationRepo) Update(ctx context.Context, tx *gorm.DB, registration *models.CleanupRegistration) error {
	clone := *registration
	f.registrations[registration.ID] = &clone
	return nil
}

type fakePointsTransactionRepo struct {
	repositories.PointsTransactionRepository
	rows []models.PointsTransaction
}

func (f *fakePointsTransactionRepo) Create(ctx context.Context, tx *gorm.DB, transaction *models.PointsTransaction) error {
	transaction.ID = uuid.New()
	transaction.CreatedAt = time.Now()
	f.rows = append(f.rows, *transaction)
	return nil
}

func (f *fakePointsTransactionRepo) ListByParticipant(
	ctx context.Context,
	tx *gorm.DB,
	participantID uuid.UUID,
) ([]models.PointsTransaction, error) {
	result := make([]models.PointsTransaction, 0)
	for i := len(f.rows) - 1; i >= 0; i-- {
		if f.rows[i].ParticipantID == participantID {
			result = append(result, f.rows[i])
		}
	}
	return result, nil
}

func (f *fakePointsTransactionRepo) FindBalanceDrift(ctx context.Context, tx *gorm.DB) ([]repositories.BalanceDrift, error) {
	return nil, nil
}
