package middleware

import (
	"context"
	"time"

	"ecobayanihan/config"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/types"

	logger "github.com/Bparsons0904/goLogger"
)

// SessionManager is what the middleware needs from the session service.
type SessionManager interface {
	Load(ctx context.Context, token string) *types.Session
	Save(ctx context.Context, session *types.Session) (string, error)
	Destroy(ctx context.Context, session *types.Session) error
	TTL() time.Duration
}

type Middleware struct {
	sessions        SessionManager
	participantRepo repositories.ParticipantRepository
	staffRepo       repositories.StaffAccountRepository
	tx              services.Transactor
	Config          config.Config
	now             func() time.Time
	log             logger.Logger
}

func New(
	config config.Config,
	repos repositories.Repository,
	services services.Service,
) Middleware {
	return Middleware{
		sessions:        services.Session,
		participantRepo: repos.Participant,
		staffRepo:       repos.StaffAccount,
		tx:              services.Transaction,
		Config:          config,
		now:             time.Now,
		log:             logger.New("middleware"),
	}
}
