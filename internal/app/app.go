package app

import (
	"context"

	"ecobayanihan/config"
	"ecobayanihan/internal/controllers"
	"ecobayanihan/internal/database"
	"ecobayanihan/internal/events"
	"ecobayanihan/internal/handlers/middleware"
	"ecobayanihan/internal/jobs"
	"ecobayanihan/internal/repositories"
	"ecobayanihan/internal/services"
	"ecobayanihan/internal/websockets"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database    database.DB
	Middleware  middleware.Middleware
	Websocket   *websockets.Manager
	EventBus    *events.EventBus
	Config      config.Config
	Services    services.Service
	Repos       repositories.Repository
	Controllers controllers.Controllers
}

func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.New()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := database.New(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	eventBus := events.New(db.Cache.Events)
	repos := repositories.New()
	services := services.New(db, config, repos, eventBus)

	websocket, err := websockets.New(eventBus)
	if err != nil {
		return &App{}, log.Err("failed to create websocket manager", err)
	}

	middleware := middleware.New(config, repos, services)
	controllers := controllers.New(services, repos, eventBus)

	if err := jobs.RegisterAllJobs(config, services, repos, eventBus); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	if config.SchedulerEnabled {
		if err := services.Scheduler.Start(context.Background()); err != nil {
			return &App{}, log.Err("failed to start scheduler", err)
		}
	}

	app := &App{
		Database:    db,
		Config:      config,
		Middleware:  middleware,
		Websocket:   websocket,
		EventBus:    eventBus,
		Services:    services,
		Repos:       repos,
		Controllers: controllers,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	nilChecks := map[string]any{
		"websocket":              a.Websocket,
		"eventBus":               a.EventBus,
		"transactionService":     a.Services.Transaction,
		"schedulerService":       a.Services.Scheduler,
		"sessionService":         a.Services.Session,
		"loginThrottleService":   a.Services.LoginThrottle,
		"pointsService":          a.Services.Points,
		"uploadService":          a.Services.Upload,
		"fileCleanupService":     a.Services.FileCleanup,
		"authController":         a.Controllers.Auth,
		"catalogController":      a.Controllers.Catalog,
		"eventController":        a.Controllers.Event,
		"participantController":  a.Controllers.Participant,
		"pointsController":       a.Controllers.Points,
		"registrationController": a.Controllers.Registration,
		"participantRepository":  a.Repos.Participant,
		"staffAccountRepository": a.Repos.StaffAccount,
		"pointsLedgerRepository": a.Repos.PointsTransaction,
		"cleanupEventRepository": a.Repos.CleanupEvent,
		"registrationRepository": a.Repos.Registration,
		"loginAttemptRepository": a.Repos.LoginAttempt,
	}

	for name, check := range nilChecks {
		if isNil(check) {
			return log.Error("nil check failed", "component", name)
		}
	}

	return nil
}

func isNil(value any) bool {
	if value == nil {
		return true
	}
	switch v := value.(type) {
	case *websockets.Manager:
		return v == nil
	case *events.EventBus:
		return v == nil
	case *services.TransactionService:
		return v == nil
	case *services.SchedulerService:
		return v == nil
	case *services.SessionService:
		return v == nil
	case *services.LoginThrottleService:
		return v == nil
	case *services.PointsService:
		return v == nil
	case *services.UploadService:
		return v == nil
	case *services.FileCleanupService:
		return v == nil
	}
	return false
}

func (a *App) Close() (err error) {
	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(context.Background()); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
