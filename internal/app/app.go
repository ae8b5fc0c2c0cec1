package app

import (
	"context"
	"time"

	"lunchlog/config"
	"lunchlog/internal/controllers"
	"lunchlog/internal/database"
	"lunchlog/internal/events"
	"lunchlog/internal/handlers/middleware"
	"lunchlog/internal/jobs"
	"lunchlog/internal/repositories"
	"lunchlog/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

type App struct {
	Database   database.DB
	Middleware middleware.Middleware
	EventBus   *events.EventBus
	Config     config.Config

	Services     services.Service
	Repositories repositories.Repository
	Controllers  controllers.Controllers

	// Enrichment runtime
	EnrichmentQueue  *jobs.EnrichmentQueue
	EnrichmentJob    *jobs.EnrichmentJob
	EnrichmentWorker *jobs.EnrichmentWorker
}

// New wires the full application from environment configuration.
func New() (*App, error) {
	log := logger.New("app").Function("New")

	config, err := config.InitConfig()
	if err != nil {
		return &App{}, log.Err("failed to initialize config", err)
	}

	db, err := OpenDatabase(config)
	if err != nil {
		return &App{}, log.Err("failed to create database", err)
	}

	app, err := Build(config, db)
	if err != nil {
		_ = db.Close()
		return &App{}, err
	}

	return app, nil
}

// OpenDatabase connects the relational database and, when an address is
// configured, the valkey clients. Without valkey the event bus stays in process.
func OpenDatabase(config config.Config) (database.DB, error) {
	if config.DatabaseCacheAddress == "" {
		logger.New("app").Function("OpenDatabase").
			Warn("Cache address not configured, running with in-process events")
		return database.NewSQLOnly(config)
	}
	return database.New(config)
}

// Build assembles repositories, services, jobs and controllers on an open database.
func Build(config config.Config, db database.DB) (*App, error) {
	log := logger.New("app").Function("Build")

	repos := repositories.New(db)
	services := services.New(db, config, repos)
	eventBus := events.New(db.Cache.Events)

	queue := jobs.NewEnrichmentQueue(eventBus, db.Cache.General)
	enrichmentJob := jobs.NewEnrichmentJob(services.Enrichment, repos.EnrichmentRun, db.SQL)
	worker := jobs.NewEnrichmentWorker(eventBus, enrichmentJob, queue, config.EnrichmentWorkers)

	if err := jobs.RegisterAllJobs(services.Scheduler, config, db, repos, queue); err != nil {
		return &App{}, log.Err("failed to register jobs", err)
	}

	app := &App{
		Database:         db,
		Config:           config,
		Middleware:       middleware.New(db, services.Auth, config, repos),
		EventBus:         eventBus,
		Services:         services,
		Repositories:     repos,
		Controllers:      controllers.New(services, repos, queue, db),
		EnrichmentQueue:  queue,
		EnrichmentJob:    enrichmentJob,
		EnrichmentWorker: worker,
	}

	if err := app.validate(); err != nil {
		return &App{}, log.Err("failed to validate app", err)
	}

	return app, nil
}

// Start launches the background enrichment worker and the scheduler.
func (a *App) Start() error {
	log := logger.New("app").Function("Start")

	if err := a.EnrichmentWorker.Start(); err != nil {
		return log.Err("failed to start enrichment worker", err)
	}

	if a.Config.SchedulerEnabled {
		if err := a.Services.Scheduler.Start(context.Background()); err != nil {
			return log.Err("failed to start scheduler", err)
		}
	}

	return nil
}

func (a *App) validate() error {
	log := logger.New("app").Function("validate")
	if a.Database.SQL == nil {
		return log.ErrMsg("database is nil")
	}

	if a.Config == (config.Config{}) {
		return log.ErrMsg("config is nil")
	}

	required := []struct {
		name    string
		missing bool
	}{
		{"event bus", a.EventBus == nil},
		{"transaction service", a.Services.Transaction == nil},
		{"places service", a.Services.Places == nil},
		{"enrichment service", a.Services.Enrichment == nil},
		{"recommendation service", a.Services.Recommendation == nil},
		{"scheduler service", a.Services.Scheduler == nil},
		{"receipt controller", a.Controllers.Receipt == nil},
		{"recommendation controller", a.Controllers.Recommendation == nil},
		{"restaurant controller", a.Controllers.Restaurant == nil},
		{"user repository", a.Repositories.User == nil},
		{"enrichment queue", a.EnrichmentQueue == nil},
		{"enrichment job", a.EnrichmentJob == nil},
		{"enrichment worker", a.EnrichmentWorker == nil},
	}

	for _, component := range required {
		if component.missing {
			return log.Error("required component is nil", "component", component.name)
		}
	}

	return nil
}

func (a *App) Close() (err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if a.Services.Scheduler != nil {
		if closeErr := a.Services.Scheduler.Stop(ctx); closeErr != nil {
			err = closeErr
		}
	}

	if a.EnrichmentWorker != nil {
		if closeErr := a.EnrichmentWorker.Stop(ctx); closeErr != nil {
			err = closeErr
		}
	}

	if a.EventBus != nil {
		if closeErr := a.EventBus.Close(); closeErr != nil {
			err = closeErr
		}
	}

	if dbErr := a.Database.Close(); dbErr != nil {
		err = dbErr
	}

	return err
}
