package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/readmark/internal/config"
	"github.com/MrSnakeDoc/readmark/internal/events"
	"github.com/MrSnakeDoc/readmark/internal/httpserver"
	"github.com/MrSnakeDoc/readmark/internal/httpserver/deps"
	"github.com/MrSnakeDoc/readmark/internal/logger"
	"github.com/MrSnakeDoc/readmark/internal/progress"
	"github.com/MrSnakeDoc/readmark/internal/reconciler"
	"github.com/MrSnakeDoc/readmark/internal/scheduler"
	"github.com/MrSnakeDoc/readmark/internal/store"
	"github.com/MrSnakeDoc/readmark/internal/utils"
	"github.com/MrSnakeDoc/readmark/internal/version"
)

// eventBuffer is how many events a slow listener may lag behind.
const eventBuffer = 64

type App struct {
	cfg        *config.Config
	logger     logger.Logger
	server     *httpserver.Server
	kv         store.KV
	reconciler *reconciler.Reconciler
	sweeper    *scheduler.RetentionSweeper
	importer   *scheduler.BackupImporter
}

// New wires every component from cfg. Storage is opened here so a bad
// backend fails before the listener starts.
func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	kv, err := OpenStore(ctx, cfg, loggerClient)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", cfg.StoreBackend, err)
	}

	bookmarks := progress.New(kv, progress.Options{Capacity: cfg.Capacity})
	bus := events.NewBus(eventBuffer)
	rec := reconciler.New(bookmarks, bus, cfg.DebounceDelay, logger.Named(loggerClient, "reconciler"))

	var sweeper *scheduler.RetentionSweeper
	if cfg.Retention > 0 {
		sweeper = scheduler.NewRetentionSweeper(bookmarks, loggerClient, cfg.RetentionInterval, cfg.Retention)
	}

	// Create manual import trigger channel
	var importer *scheduler.BackupImporter
	var importTrigger chan struct{}
	if cfg.ImportFile != "" {
		loggerClient.Info("backup file configured, initializing importer",
			logger.String("file", cfg.ImportFile))
		importTrigger = make(chan struct{}, 1)
		importer = scheduler.NewBackupImporter(cfg.ImportFile, bookmarks, bus, loggerClient, importTrigger)
	}

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:          loggerClient,
		StartTime:       time.Now(),
		Build:           version.Get(),
		TimeNow:         time.Now,
		AllowedOrigins:  cfg.AllowedOrigins,
		AllowedCIDRS:    cfg.AllowedCIDRS,
		TrustProxy:      cfg.TrustProxy,
		SummarizeBurst:  cfg.SummarizeBurst,
		SummarizePerMin: cfg.SummarizePerMin,
		StoreBackend:    cfg.StoreBackend,
		KV:              kv,
		Progress:        bookmarks,
		Reconciler:      rec,
		Bus:             bus,
		Summarizer:      NewSummarizer(ctx, cfg, loggerClient, false),
		Fetcher:         newFetcher(cfg),
		ImportTrigger:   importTrigger,
	}

	return &App{
		cfg:        cfg,
		logger:     loggerClient,
		server:     httpserver.New(cfg, loggerClient, d),
		kv:         kv,
		reconciler: rec,
		sweeper:    sweeper,
		importer:   importer,
	}, nil
}

// Run serves until SIGINT/SIGTERM, then drains in order: background jobs,
// HTTP, pending progress writes, storage.
func (a *App) Run() error {
	build := version.Get()
	a.logger.Infof("🚀 Starting readmark %s on %s", build.Version, a.cfg.ListenPort)
	a.logger.Info("build info",
		logger.String("commit", build.Commit),
		logger.String("built", build.BuildDate),
		logger.String("go", build.GoVersion))

	// storage closes last, after the reconciler flush below
	defer utils.CloseLogged(a.kv, a.cfg.StoreBackend+" store", a.logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.importer != nil {
		if err := a.importer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start backup importer: %w", err)
		}
		a.logger.Info("backup importer started")
	}

	if a.sweeper != nil {
		if err := a.sweeper.Start(ctx); err != nil {
			return fmt.Errorf("failed to start retention sweeper: %w", err)
		}
		a.logger.Info("retention sweeper started",
			logger.Duration("retention", a.cfg.Retention),
			logger.Duration("interval", a.cfg.RetentionInterval))
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	var runErr error
	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case runErr = <-errCh:
	}

	if a.importer != nil {
		a.importer.Stop()
	}
	if a.sweeper != nil {
		a.sweeper.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil && runErr == nil {
		runErr = fmt.Errorf("failed to stop server: %w", err)
	}

	// after the server so no new reports arrive; pending ones are flushed
	if err := a.reconciler.Stop(shutdownCtx); err != nil {
		a.logger.Warn("pending progress writes not flushed", logger.Error(err))
	}

	if runErr != nil {
		return runErr
	}
	a.logger.Info("✅ readmark stopped cleanly")
	return nil
}
