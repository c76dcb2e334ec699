package repositories

import (
	"context"
	"errors"
	"strings"
	"time"

	. "ecobayanihan/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const registeredCountSelect = "cleanup_events.*, " +
	"(SELECT COUNT(*) FROM cleanup_registrations r WHERE r.event_id = cleanup_events.id) AS registered_count"

type CleanupEventRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleanupEvent, error)
	GetByIDForUpdate(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*CleanupEvent, error)
	List(ctx context.Context, tx *gorm.DB) ([]CleanupEvent, error)
	ListPrevious(ctx context.Context, tx *gorm.DB, today time.Time) ([]CleanupEvent, error)
	ListOnDay(ctx context.Context, tx *gorm.DB, today time.Time) ([]CleanupEvent, error)
	ListUpcoming(ctx context.Context, tx *gorm.DB, today time.Time) ([]CleanupEvent, error)
	SearchPrevious(
		ctx context.Context,
		tx *gorm.DB,
		today time.Time,
		query string,
		date *time.Time,
	) ([]CleanupEvent, error)
	Create(ctx context.Context, tx *gorm.DB, event *CleanupEvent) error
	Update(ctx context.Context, tx *gorm.DB, event *CleanupEvent) error
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	MarkCompletedEndedBefore(ctx context.Context, tx *gorm.DB, now time.Time) (int64, error)
}

type cleanupEventRepository struct {
	log logger.Logger
}

func NewCleanupEventRepository() CleanupEventRepository {
	return &cleanupEventRepository{
		log: logger.New("cleanupEventRepository"),
	}
}

func (r *cleanupEventRepository) withCounts(ctx context.Context, tx *gorm.DB) *gorm.DB {
	return tx.WithContext(ctx).Model(&CleanupEvent{}).Select(registeredCountSelect)
}

func (r *cleanupEventRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*CleanupEvent, error) {
	log := r.log.Function("GetByID")

	var event CleanupEvent
	if err := r.withCounts(ctx, tx).First(&event, "cleanup_events.id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get event", err, "eventID", id)
	}

	return &event, nil
}

// GetByIDForUpdate locks the event row so capacity checks and inserts serialize per event.
func (r *cleanupEventRepository) GetByIDForUpdate(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*CleanupEvent, error) {
	log := r.log.Function("GetByIDForUpdate")

	var event CleanupEvent
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&event, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to lock event", err, "eventID", id)
	}

	return &event, nil
}

func (r *cleanupEventRepository) List(ctx context.Context, tx *gorm.DB) ([]CleanupEvent, error) {
	log := r.log.Function("List")

	var events []CleanupEvent
	if err := r.withCounts(ctx, tx).
		Order("date DESC, start_time DESC").
		Find(&events).Error; err != nil {
		return nil, log.Err("failed to list events", err)
	}

	return events, nil
}

func (r *cleanupEventRepository) ListPrevious(
	ctx context.Context,
	tx *gorm.DB,
	today time.Time,
) ([]CleanupEvent, error) {
	log := r.log.Function("ListPrevious")

	var events []CleanupEvent
	if err := r.withCounts(ctx, tx).
		Where("date < ?", dateOnly(today)).
		Order("date DESC, start_time DESC").
		Find(&events).Error; err != nil {
		return nil, log.Err("failed to list previous events", err)
	}

	return events, nil
}

func (r *cleanupEventRepository) ListOnDay(
	ctx context.Context,
	tx *gorm.DB,
	today time.Time,
) ([]CleanupEvent, error) {
	log := r.log.Function("ListOnDay")

	var events []CleanupEvent
	if err := r.withCounts(ctx, tx).
		Where("date = ?", dateOnly(today)).
		Order("start_time ASC").
		Find(&events).Error; err != nil {
		return nil, log.Err("failed to list current events", err)
	}

	return events, nil
}

func (r *cleanupEventRepository) ListUpcoming(
	ctx context.Context,
	tx *gorm.DB,
	today time.Time,
) ([]CleanupEvent, error) {
	log := r.log.Function("ListUpcoming")

	var events []CleanupEvent
	if err := r.withCounts(ctx, tx).
		Where("date > ?", dateOnly(today)).
		Order("date ASC, start_time ASC").
		Find(&events).Error; err != nil {
		return nil, log.Err("failed to list upcoming events", err)
	}

	return events, nil
}

func (r *cleanupEventRepository) SearchPrevious(
	ctx context.Context,
	tx *gorm.DB,
	today time.Time,
	query string,
	date *time.Time,
) ([]CleanupEvent, error) {
	log := r.log.Function("SearchPrevious")

	db := r.withCounts(ctx, tx).Where("date < ?", dateOnly(today))

	if query = strings.TrimSpace(query); query != "" {
		pattern := "%" + escapeLike(query) + "%"
		db = db.Where(
			"name ILIKE ? OR place ILIKE ? OR specific_location ILIKE ?",
			pattern, pattern, pattern,
		)
	}

	if date != nil {
		db = db.Where("date = ?", dateOnly(*date))
	}

	var events []CleanupEvent
	if err := db.Order("date DESC, start_time DESC").Find(&events).Error; err != nil {
		return nil, log.Err("failed to search previous events", err, "query", query)
	}

	return events, nil
}

func (r *cleanupEventRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	event *CleanupEvent,
) error {
	log := r.log.Function("Create")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Create(event).Error; err != nil {
		return log.Err("failed to create event", err, "name", event.Name)
	}

	return nil
}

func (r *cleanupEventRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	event *CleanupEvent,
) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Omit(clause.Associations).Save(event).Error; err != nil {
		return log.Err("failed to update event", err, "eventID", event.ID)
	}

	return nil
}

func (r *cleanupEventRepository) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	log := r.log.Function("Delete")

	rowsAffected, err := gorm.G[CleanupEvent](tx).Where("id = ?", id).Delete(ctx)
	if err != nil {
		return log.Err("failed to delete event", err, "eventID", id)
	}

	if rowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	log.Info("Event deleted", "eventID", id)
	return nil
}

// MarkCompletedEndedBefore flags every open event whose end time is not after now.
func (r *cleanupEventRepository) MarkCompletedEndedBefore(
	ctx context.Context,
	tx *gorm.DB,
	now time.Time,
) (int64, error) {
	log := r.log.Function("MarkCompletedEndedBefore")

	result := tx.WithContext(ctx).
		Model(&CleanupEvent{}).
		Where("is_completed = ?", false).
		Where("(date + start_time + duration_hours * INTERVAL '1 hour') <= ?", now.UTC()).
		Update("is_completed", true)
	if result.Error != nil {
		return 0, log.Err("failed to mark events completed", result.Error)
	}

	return result.RowsAffected, nil
}

func dateOnly(t time.Time) string {
	return t.Format("2006-01-02")
}

func escapeLike(value string) string {
	replacer := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return replacer.Replace(value)
}
