package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"ecobayanihan/config"
	"ecobayanihan/internal/models"
	"ecobayanihan/internal/repositories"

	logger "github.com/Bparsons0904/goLogger"
	"gorm.io/gorm"
)

var ErrLoginLocked = errors.New("too many failed login attempts")

// LoginThrottleService counts failed logins per identifier and refuses
// further attempts once the limit is hit inside the lockout window.
type LoginThrottleService struct {
	repo        repositories.LoginAttemptRepository
	tx          Transactor
	maxAttempts int
	lockout     time.Duration
	now         func() time.Time
	log         logger.Logger
}

func NewLoginThrottleService(
	repo repositories.LoginAttemptRepository,
	tx Transactor,
	config config.Config,
) *LoginThrottleService {
	return &LoginThrottleService{
		repo:        repo,
		tx:          tx,
		maxAttempts: config.MaxLoginAttempts(),
		lockout:     config.LoginLockout(),
		now:         time.Now,
		log:         logger.New("LoginThrottleService"),
	}
}

func throttleKey(identifier string) string {
	return strings.ToLower(strings.TrimSpace(identifier))
}

func (s *LoginThrottleService) Lockout() time.Duration {
	return s.lockout
}

// Check returns ErrLoginLocked while the identifier is locked out.
func (s *LoginThrottleService) Check(ctx context.Context, identifier string) error {
	log := s.log.Function("Check").TraceFromContext(ctx)

	attempt, err := s.repo.Get(ctx, s.tx.DB(ctx), throttleKey(identifier))
	if err != nil {
		return log.Err("failed to read login attempts", err)
	}

	if attempt != nil && attempt.IsLocked(s.now(), s.maxAttempts, s.lockout) {
		log.Warn("login attempt while locked", "attempts", attempt.Attempts)
		return ErrLoginLocked
	}

	return nil
}

func (s *LoginThrottleService) RecordFailure(ctx context.Context, identifier string) error {
	log := s.log.Function("RecordFailure").TraceFromContext(ctx)
	key := throttleKey(identifier)

	err := s.tx.Execute(ctx, func(ctx context.Context, tx *gorm.DB) error {
		attempt, err := s.repo.Get(ctx, tx, key)
		if err != nil {
			return err
		}

		if attempt == nil {
			attempt = &models.LoginAttempt{Username: key}
		}

		attempt.RecordFailure(s.now(), s.lockout)
		return s.repo.Save(ctx, tx, attempt)
	})
	if err != nil {
		return log.Err("failed to record login failure", err)
	}

	return nil
}

func (s *LoginThrottleService) Reset(ctx context.Context, identifier string) error {
	log := s.log.Function("Reset").TraceFromContext(ctx)

	if err := s.repo.Delete(ctx, s.tx.DB(ctx), throttleKey(identifier)); err != nil {
		return log.Err("failed to reset login attempts", err)
	}

	return nil
}

// PurgeStale removes records whose last failure is older than the lockout window.
func (s *LoginThrottleService) PurgeStale(ctx context.Context) (int, error) {
	log := s.log.Function("PurgeStale").TraceFromContext(ctx)

	deleted, err := s.repo.DeleteOlderThan(ctx, s.tx.DB(ctx), s.now().Add(-s.lockout))
	if err != nil {
		return 0, log.Err("failed to purge stale login attempts", err)
	}

	return deleted, nil
}
