package repositories

import (
	"context"
	"errors"
	"time"

	. "ecobayanihan/internal/models"

	logger "github.com/Bparsons0904/goLogger"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StaffAccountRepository interface {
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*StaffAccount, error)
	GetByUsername(ctx context.Context, tx *gorm.DB, username string) (*StaffAccount, error)
	Create(ctx context.Context, tx *gorm.DB, account *StaffAccount) error
	Update(ctx context.Context, tx *gorm.DB, account *StaffAccount) error
	TouchLastLogin(ctx context.Context, tx *gorm.DB, id uuid.UUID, at time.Time) error
}

type staffAccountRepository struct {
	log logger.Logger
}

func NewStaffAccountRepository() StaffAccountRepository {
	return &staffAccountRepository{
		log: logger.New("staffAccountRepository"),
	}
}

func (r *staffAccountRepository) GetByID(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
) (*StaffAccount, error) {
	log := r.log.Function("GetByID")

	account, err := gorm.G[StaffAccount](tx).Where("id = ?", id).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get staff account", err, "staffID", id)
	}

	return &account, nil
}

// GetByUsername matches the username exactly.
func (r *staffAccountRepository) GetByUsername(
	ctx context.Context,
	tx *gorm.DB,
	username string,
) (*StaffAccount, error) {
	log := r.log.Function("GetByUsername")

	account, err := gorm.G[StaffAccount](tx).Where("username = ?", username).First(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		return nil, log.Err("failed to get staff account by username", err)
	}

	return &account, nil
}

func (r *staffAccountRepository) Create(
	ctx context.Context,
	tx *gorm.DB,
	account *StaffAccount,
) error {
	log := r.log.Function("Create")

	if err := gorm.G[StaffAccount](tx).Create(ctx, account); err != nil {
		return log.Err("failed to create staff account", err, "username", account.Username)
	}

	return nil
}

func (r *staffAccountRepository) Update(
	ctx context.Context,
	tx *gorm.DB,
	account *StaffAccount,
) error {
	log := r.log.Function("Update")

	if err := tx.WithContext(ctx).Save(account).Error; err != nil {
		return log.Err("failed to update staff account", err, "staffID", account.ID)
	}

	return nil
}

func (r *staffAccountRepository) TouchLastLogin(
	ctx context.Context,
	tx *gorm.DB,
	id uuid.UUID,
	at time.Time,
) error {
	log := r.log.Function("TouchLastLogin")

	if _, err := gorm.G[StaffAccount](tx).Where("id = ?", id).Update(ctx, "last_login_at", at); err != nil {
		return log.Err("failed to record staff login", err, "staffID", id)
	}

	return nil
}
