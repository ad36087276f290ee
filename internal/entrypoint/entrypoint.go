// Package entrypoint wires the application together and runs the HTTP
// server with graceful shutdown.
package entrypoint

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mrlokans/readtrack/internal/config"
	"github.com/mrlokans/readtrack/internal/database"
	eventsdb "github.com/mrlokans/readtrack/internal/database/events"
	"github.com/mrlokans/readtrack/internal/events"
	"github.com/mrlokans/readtrack/internal/greeting"
	http_controllers "github.com/mrlokans/readtrack/internal/http"
	"github.com/mrlokans/readtrack/internal/library"
	"github.com/mrlokans/readtrack/internal/scheduler"
	"github.com/mrlokans/readtrack/internal/tasks"
	"github.com/mrlokans/readtrack/internal/watch"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// NewLogger builds the application logger at the configured level. An
// unknown level falls back to info rather than failing startup.
func NewLogger(cfg config.Logging) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(level)
	return zapCfg.Build()
}

// Serve runs the HTTP server until SIGINT or SIGTERM, then shuts down
// within the configured timeout. onShutdown runs before the listener
// closes so background workers stop taking new work first.
func Serve(router *gin.Engine, cfg *config.Config, logger *zap.Logger, onShutdown ShutdownFunc) {
	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: router,
	}

	go func() {
		logger.Info("server starting",
			zap.String("host", cfg.HTTP.Host),
			zap.Int32("port", cfg.HTTP.Port),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("listen failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutdown requested", zap.Duration("timeout", timeout))

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if onShutdown != nil {
		onShutdown(ctx)
	}

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("server shutdown failed", zap.Error(err))
	}

	logger.Info("server exited")
}

func Run(cfg *config.Config, version string) {
	logger, err := NewLogger(cfg.Logging)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("starting readtrack", zap.String("version", version))

	db, err := database.NewDatabase(cfg.Database.Path, logger)
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("error closing database", zap.Error(err))
		}
	}()

	// Watch hub for live collection snapshots
	hub := watch.NewHub(logger)
	defer hub.Close()

	// Core services
	libraryService := library.NewService(db, hub, logger).WithTopGenres(cfg.Statistics.TopGenres)
	eventsService := events.NewService(eventsdb.NewRepository(db.DB), logger)

	// Greeting provider is optional; without an endpoint the service
	// falls back to static messages.
	var provider greeting.Provider
	if cfg.Greeting.Endpoint != "" {
		provider = greeting.NewHTTPProvider(cfg.Greeting.Endpoint, cfg.Greeting.Model, cfg.Greeting.Timeout)
		logger.Info("greeting provider configured",
			zap.String("endpoint", cfg.Greeting.Endpoint),
			zap.String("model", cfg.Greeting.Model),
		)
	}
	greetingService := greeting.NewService(provider, logger)

	// Background maintenance: task queue plus cron scheduler
	var taskClient *tasks.Client
	var maintenance *scheduler.MaintenanceScheduler
	var taskCtxCancel context.CancelFunc
	if cfg.Tasks.Enabled {
		taskCfg := tasks.Config{
			Workers:           cfg.Tasks.Workers,
			MaxRetries:        cfg.Tasks.MaxRetries,
			RetryDelay:        cfg.Tasks.RetryDelay,
			TaskTimeout:       cfg.Tasks.TaskTimeout,
			ReleaseAfter:      cfg.Tasks.ReleaseAfter,
			CleanupInterval:   cfg.Tasks.CleanupInterval,
			RetentionDuration: cfg.Tasks.RetentionDuration,
		}

		taskClient, err = tasks.NewClient(cfg.Database.Path, taskCfg, logger)
		if err != nil {
			logger.Fatal("failed to initialize task queue", zap.Error(err))
		}
		defer func() {
			if err := taskClient.Close(); err != nil {
				logger.Error("error closing task client", zap.Error(err))
			}
		}()

		taskClient.Register(
			tasks.NewCleanupEventsQueue(eventsService, logger),
			tasks.NewRefreshStatsQueue(libraryService, logger),
		)

		var taskCtx context.Context
		taskCtx, taskCtxCancel = context.WithCancel(context.Background())
		go taskClient.Start(taskCtx)

		maintenance = scheduler.NewMaintenanceScheduler(taskClient, libraryService, scheduler.Config{
			CleanupSchedule: cfg.Events.CleanupSchedule,
			RefreshSchedule: cfg.Statistics.RefreshSchedule,
			RetentionDays:   cfg.Events.RetentionDays,
		}, logger)
		if err := maintenance.Start(taskCtx); err != nil {
			logger.Fatal("failed to start maintenance scheduler", zap.Error(err))
		}
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		Library:  libraryService,
		Events:   eventsService,
		Greeting: greetingService,
		Hub:      hub,
		DB:       db,
		Logger:   logger,
		Version:  version,
	})

	onShutdown := func(ctx context.Context) {
		if maintenance != nil {
			maintenance.Stop()
		}
		if taskClient != nil && taskCtxCancel != nil {
			taskClient.Stop(ctx)
			taskCtxCancel()
		}
		hub.Close()
	}

	Serve(router, cfg, logger, onShutdown)
}
