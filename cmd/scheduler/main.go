package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruit_pipeline_backend/internal/adapters/storage"
	"recruit_pipeline_backend/internal/events"
	"recruit_pipeline_backend/internal/pdf"
	"recruit_pipeline_backend/internal/pipeline"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/internal/pipeline/service"
	"recruit_pipeline_backend/internal/scheduler"
	"recruit_pipeline_backend/platform/config"
	"recruit_pipeline_backend/platform/db"
	"recruit_pipeline_backend/platform/logger"

	"github.com/jackc/pgx/v5/pgxpool"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	log := logger.New(cfg.Env)
	log.Info("starting scheduler", "env", cfg.Env, "queue", cfg.GetAsynqQueueName())

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if err := withRetry(ctx, log, "database connection", 5, 2*time.Second, func() error {
		p, err := db.NewPool(ctx, cfg)
		if err != nil {
			return err
		}
		pool = p
		return nil
	}); err != nil {
		log.Error("failed to connect to database", "error", err)
		panic("failed to connect to database: " + err.Error())
	}
	defer pool.Close()

	storageSvc, err := storage.NewMinIOService(cfg)
	if err != nil {
		log.Error("failed to initialize storage service", "error", err)
		panic("failed to initialize storage service: " + err.Error())
	}
	if err := withRetry(ctx, log, "ensure reports bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, cfg.GetMinioBucketReports())
	}); err != nil {
		log.Error("failed to ensure storage bucket exists", "error", err, "bucket", cfg.GetMinioBucketReports())
		panic("failed to ensure storage bucket exists: " + err.Error())
	}

	// Archive events land in the position timeline, same as in the API process.
	eventBus := events.NewInMemoryBus(log)
	repo := repository.New(pool)
	pipeline.NewTimelineRecorder(repo, log).RegisterHandlers(eventBus)

	svc := service.New(service.Deps{
		Repo:     repo,
		EventBus: eventBus,
		Log:      log,
		Storage:  storageSvc,
		Buckets: service.Buckets{
			CandidatePhotos: cfg.GetMinioBucketCandidatePhotos(),
			Reports:         cfg.GetMinioBucketReports(),
		},
		Renderer:      pdf.NewRenderer(),
		PhoneRegion:   cfg.GetPhoneDefaultRegion(),
		ReportTimeLoc: cfg.GetReportLocation(),
	})

	worker, err := scheduler.NewWorker(cfg, svc, log)
	if err != nil {
		log.Error("failed to initialize scheduler worker", "error", err)
		panic("failed to initialize scheduler worker: " + err.Error())
	}

	worker.Run(ctx)
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return errors.New(name + ": invalid retry attempts")
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err := fn(); err == nil {
			return nil
		} else {
			lastErr = err
			log.Warn("retryable operation failed", "operation", name, "attempt", attempt, "error", err)
		}

		if attempt < attempts {
			delay := time.Duration(attempt*attempt) * baseDelay
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}

	return errors.New(name + ": " + lastErr.Error())
}
