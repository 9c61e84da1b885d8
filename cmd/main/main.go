package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"gitlab.com/timkado/api/lead-importer/internal/apperrors"
	"gitlab.com/timkado/api/lead-importer/internal/config"
	"gitlab.com/timkado/api/lead-importer/internal/lockfile"
	"gitlab.com/timkado/api/lead-importer/internal/observer"
	"gitlab.com/timkado/api/lead-importer/internal/runctx"
	"gitlab.com/timkado/api/lead-importer/internal/storage"
	"gitlab.com/timkado/api/lead-importer/internal/usecase"
	"gitlab.com/timkado/api/lead-importer/pkg/logger"
	"gitlab.com/timkado/api/lead-importer/pkg/utils"
)

// metricsPushTimeout bounds the Pushgateway call made on the way out.
const metricsPushTimeout = 10 * time.Second

func main() {
	os.Exit(run())
}

// run performs one import pass and returns the process exit code. Deferred
// cleanup (lock release, store close, log sync) runs before os.Exit.
func run() int {
	// Set timezone to UTC
	time.Local = time.UTC

	// Load configuration
	cfg, err := config.LoadConfig("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		return 1
	}

	// Initialize logger
	if err := logger.Initialize(cfg.LogLevel, cfg.LogEncoding); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return 1
	}
	defer logger.Sync()

	observer.InitMetrics(cfg.Metrics.Enabled)

	runID := runctx.NewRunID()
	ctx := runctx.WithRunID(context.Background(), runID)
	ctx = logger.WithLogger(ctx, logger.Log)
	log := logger.FromContext(ctx)

	log.Info("Starting lead importer",
		zap.String("upload_dir", cfg.Paths.Upload),
		zap.String("processed_dir", cfg.Paths.Processed),
		zap.Int("batch_size", cfg.Import.BatchSize),
		zap.Duration("max_execution", cfg.Import.MaxExecution()),
		zap.Bool("archive_truncated", cfg.Import.ArchiveTruncated),
	)

	start := utils.Now()
	var summary usecase.RunSummary
	err = utils.WrapWithContextRecovery(func(ctx context.Context) error {
		var err error
		summary, err = importOnce(ctx, cfg)
		return err
	})(ctx)
	finished := utils.Now()
	observer.ObserveRun(finished.Sub(start), finished, err)
	pushMetrics(ctx, cfg)

	if err != nil {
		if apperrors.IsFatal(err) {
			log.Error("Import run aborted before any file was touched", zap.Error(err))
		} else {
			log.Error("Import run failed", zap.Error(err))
		}
		return 1
	}
	log.Info("Lead importer finished",
		zap.Duration("duration", finished.Sub(start)),
		zap.Int("files", summary.Files),
		zap.Int("inserted", summary.Inserted),
	)
	return 0
}

// importOnce holds the lock and the store connection for exactly one pass.
func importOnce(ctx context.Context, cfg *config.Config) (usecase.RunSummary, error) {
	log := logger.FromContext(ctx)

	for _, dir := range []string{cfg.Paths.Upload, cfg.Paths.Processed} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return usecase.RunSummary{}, apperrors.NewFatal(err, "failed to create directory %s", dir)
		}
	}

	guard, err := lockfile.Acquire(cfg.Paths.LockFile)
	if err != nil {
		return usecase.RunSummary{}, apperrors.NewFatal(err, "failed to acquire lock")
	}
	defer func() {
		if err := guard.Release(); err != nil {
			log.Error("Failed to remove lock file", zap.String("path", guard.Path()), zap.Error(err))
		}
	}()
	log.Info("Lock acquired", zap.String("path", guard.Path()))

	// SIGINT/SIGTERM stops reading; rows already read are flushed and the file
	// in flight stays in the upload directory.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, err := storage.NewRepo(ctx, storage.Options{
		URL:          cfg.Database.URL,
		Driver:       cfg.Database.Driver,
		MaxOpenConns: cfg.Database.MaxOpenConns,
	})
	if err != nil {
		return usecase.RunSummary{}, apperrors.NewFatal(err, "failed to connect to database")
	}
	defer func() {
		if err := repo.Close(context.Background()); err != nil {
			log.Error("Failed to close database connection", zap.Error(err))
		}
	}()
	log.Info("Connected to database", zap.String("driver", repo.Driver()))

	importer := usecase.NewImporter(
		storage.NewCampaignRepoAdapter(repo),
		storage.NewLeadRepoAdapter(repo),
		usecase.Options{
			UploadDir:        cfg.Paths.Upload,
			ProcessedDir:     cfg.Paths.Processed,
			BatchSize:        cfg.Import.BatchSize,
			MaxExecution:     cfg.Import.MaxExecution(),
			ArchiveTruncated: cfg.Import.ArchiveTruncated,
		},
	)
	return importer.Run(ctx)
}

func pushMetrics(ctx context.Context, cfg *config.Config) {
	if cfg.Metrics.PushgatewayURL == "" {
		return
	}
	instance, err := os.Hostname()
	if err != nil {
		instance = "unknown"
	}

	pushCtx, cancel := context.WithTimeout(ctx, metricsPushTimeout)
	defer cancel()
	if err := observer.Push(pushCtx, cfg.Metrics.PushgatewayURL, cfg.Metrics.Job, instance); err != nil {
		logger.FromContext(ctx).Warn("Failed to push metrics", zap.Error(err))
	}
}
