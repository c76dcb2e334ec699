package repositories

import (
	"context"
	"errors"
	"time"

	. "ecobayanihan/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

type LoginAttemptRepository interface {
	// Get returns nil without error when no failures are on record.
	Get(ctx context.Context, tx *gorm.DB, username string) (*LoginAttempt, error)
	Save(ctx context.Context, tx *gorm.DB, attempt *LoginAttempt) error
	Delete(ctx context.Context, tx *gorm.DB, username string) error
	DeleteOlderThan(ctx context.Context, tx *gorm.DB, cutoff time.Time) (int, error)
}

type loginAttemptRepository struct {
	log logger.Logger
}

func NewLoginAttemptRepository() LoginAttemptRepository {
	return &loginAttemptRepository{
		log: logger.New("loginAttemptRepository"),
	}
}

func (r *loginAttemptRepository) Get(
	ctx context.Context,
	tx *gorm.DB,
	username string,
) (*LoginAttempt, error) {
	log := r.log.Function("Get")

	attempt, err := gorm.G[LoginAttempt](tx).Where("username = ?", username).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get login attempts", err)
	}

	return &attempt, nil
}

func (r *loginAttemptRepository) Save(
	ctx context.Context,
	tx *gorm.DB,
	attempt *LoginAttempt,
) error {
	log := r.log.Function("Save")

	if err := tx.WithContext(ctx).Save(attempt).Error; err != nil {
		return log.Err("failed to save login attempt", err)
	}

	return nil
}

func (r *loginAttemptRepository) Delete(ctx context.Context, tx *gorm.DB, username string) error {
	log := r.log.Function("Delete")

	if _, err := gorm.G[LoginAttempt](tx).Where("username = ?", username).Delete(ctx); err != nil {
		return log.Err("failed to clear login attempts", err)
	}

	return nil
}

func (r *loginAttemptRepository) DeleteOlderThan(
	ctx context.Context,
	tx *gorm.DB,
	cutoff time.Time,
) (int, error) {
	log := r.log.Function("DeleteOlderThan")

	deleted, err := gorm.G[LoginAttempt](tx).Where("last_attempt < ?", cutoff).Delete(ctx)
	if err != nil {
		return 0, log.Err("failed to delete stale login attempts", err, "cutoff", cutoff)
	}

	return deleted, nil
}
