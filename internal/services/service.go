package services

import (
	"ecobayanihan/config"
	"ecobayanihan/internal/database"
	"ecobayanihan/internal/events"
	"ecobayanihan/internal/repositories"
)

type Service struct {
	Transaction   *TransactionService
	Scheduler     *SchedulerService
	Session       *SessionService
	LoginThrottle *LoginThrottleService
	Points        *PointsService
	Upload        *UploadService
	FileCleanup   *FileCleanupService
}

func New(
	db database.DB,
	config config.Config,
	repos repositories.Repository,
	eventBus *events.EventBus,
) Service {
	transactionService := NewTransactionService(db)
	sessionService := NewSessionService(
		NewValkeySessionStore(db.Cache.Session),
		NewValkeyNoticeStore(db.Cache.User),
		config,
	)

	return Service{
		Transaction:   transactionService,
		Scheduler:     NewSchedulerService(),
		Session:       sessionService,
		LoginThrottle: NewLoginThrottleService(repos.LoginAttempt, transactionService, config),
		Points:        NewPointsService(repos, transactionService, sessionService, eventBus),
		Upload:        NewUploadService(config),
		FileCleanup:   NewFileCleanupService(config, repos.Registration, transactionService),
	}
}
