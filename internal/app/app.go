package app

import (
	"context"
	"fmt"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/motif/internal/common"
	"github.com/ternarybob/motif/internal/handlers"
	"github.com/ternarybob/motif/internal/interfaces"
	"github.com/ternarybob/motif/internal/services/events"
	"github.com/ternarybob/motif/internal/services/generator"
	"github.com/ternarybob/motif/internal/services/llm"
	"github.com/ternarybob/motif/internal/services/scheduler"
	"github.com/ternarybob/motif/internal/storage"
)

// App holds all application components and dependencies
type App struct {
	Config         *common.Config
	Logger         arbor.ILogger
	StorageManager interfaces.StorageManager

	// Core services
	EventService     *events.Service
	ProviderFactory  *llm.Factory
	GeneratorService *generator.Service
	SchedulerService *scheduler.Service

	// HTTP handlers
	APIHandler      *handlers.APIHandler
	GenerateHandler *handlers.GenerateHandler
	StatusHandler   *handlers.StatusHandler
	ResultHandler   *handlers.ResultHandler
	WSHandler       *handlers.WebSocketHandler
}

// New initializes the application with all dependencies
func New(cfg *common.Config, logger arbor.ILogger) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
	}

	storageManager, err := storage.NewStorageManager(logger, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}
	app.StorageManager = storageManager

	app.EventService = events.NewService(logger)

	app.ProviderFactory = llm.NewFactory(&cfg.Gemini, &cfg.Claude, &cfg.LLM, logger)

	app.GeneratorService = generator.NewService(
		app.ProviderFactory,
		storageManager.JobStorage(),
		app.EventService,
		&cfg.Workers,
		logger,
	)

	app.SchedulerService = scheduler.NewService(
		storageManager.JobStorage(),
		storageManager.ResultStorage(),
		logger,
	)

	app.APIHandler = handlers.NewAPIHandler()
	app.GenerateHandler = handlers.NewGenerateHandler(app.GeneratorService, storageManager.JobStorage(), app.EventService, logger)
	app.StatusHandler = handlers.NewStatusHandler(storageManager.JobStorage(), logger)
	app.ResultHandler = handlers.NewResultHandler(storageManager.ResultStorage(), logger)
	app.WSHandler = handlers.NewWebSocketHandler(app.EventService, logger)

	return app, nil
}

// Start launches the background components: the generation worker pool and
// the sweep scheduler.
func (a *App) Start() error {
	a.GeneratorService.Start()

	if err := a.SchedulerService.Start(a.Config.Registry.SweepSchedule); err != nil {
		return fmt.Errorf("failed to start sweep scheduler: %w", err)
	}

	if err := a.GeneratorService.CheckCredentials(); err != nil {
		a.Logger.Warn().Err(err).Msg("No provider credentials configured - submissions will be rejected")
	}

	return nil
}

// Shutdown stops background components and closes storage.
func (a *App) Shutdown(ctx context.Context) error {
	a.SchedulerService.Stop()
	a.GeneratorService.Stop()

	if err := a.StorageManager.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close storage")
		return err
	}

	a.Logger.Info().Msg("Application shutdown complete")
	return nil
}
