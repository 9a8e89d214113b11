package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"recruit_pipeline_backend/internal/adapters/storage"
	"recruit_pipeline_backend/internal/events"
	apphttp "recruit_pipeline_backend/internal/http"
	"recruit_pipeline_backend/internal/http/router"
	"recruit_pipeline_backend/internal/pdf"
	"recruit_pipeline_backend/internal/pipeline"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/internal/pipeline/service"
	"recruit_pipeline_backend/internal/scheduler"
	"recruit_pipeline_backend/migrations"
	"recruit_pipeline_backend/platform/cache"
	"recruit_pipeline_backend/platform/config"
	"recruit_pipeline_backend/platform/db"
	"recruit_pipeline_backend/platform/logger"
	"recruit_pipeline_backend/platform/validator"

	"github.com/jackc/pgx/v5/pgxpool"
)

const storageBucketEnsureErrPrefix = "failed to ensure storage bucket exists: "
const storageBucketEnsureErrMsg = "failed to ensure storage bucket exists"

// ensureBucket wraps the retry logic for verifying a MinIO bucket exists.
func ensureBucket(ctx context.Context, log *logger.Logger, storageSvc storage.StorageService, name, bucket string) {
	if err := withRetry(ctx, log, "ensure "+name+" bucket", 5, 2*time.Second, func() error {
		return storageSvc.EnsureBucketExists(ctx, bucket)
	}); err != nil {
		log.Error(storageBucketEnsureErrMsg, "error", err, "bucket", bucket)
		panic(storageBucketEnsureErrPrefix + err.Error())
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	// Initialize structured logger
	log := logger.New(cfg.Env)
	log.Info("starting server", "env", cfg.Env, "addr", cfg.HTTPAddr)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// ========================================================================
	// Infrastructure Layer
	// ========================================================================

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
	log.Info("database connection established")

	if err := withRetry(ctx, log, "database migrations", 5, 2*time.Second, func() error {
		return db.RunMigrations(ctx, pool, migrations.FS, ".")
	}); err != nil {
		log.Error("failed to run database migrations", "error", err)
		panic("failed to run database migrations: " + err.Error())
	}
	log.Info("database migrations complete")

	health := []apphttp.HealthChecker{db.NewPoolAdapter(pool)}

	entityCache, closeCache := initCache(ctx, cfg, log)
	if closeCache != nil {
		defer closeCache()
	}

	// Event bus for decoupled communication between modules
	eventBus := events.NewInMemoryBus(log)

	// Shared validator instance for dependency injection
	val := validator.New()

	deps := service.Deps{
		Cache:       entityCache,
		EventBus:    eventBus,
		Log:         log,
		Renderer:    pdf.NewRenderer(),
		PhoneRegion: cfg.GetPhoneDefaultRegion(),
		Buckets: service.Buckets{
			CandidatePhotos: cfg.GetMinioBucketCandidatePhotos(),
			Reports:         cfg.GetMinioBucketReports(),
		},
		ReportTimeLoc: cfg.GetReportLocation(),
	}

	// Storage service for candidate photos and archived reports (MinIO)
	if cfg.IsMinIOEnabled() {
		storageSvc, err := storage.NewMinIOService(cfg)
		if err != nil {
			log.Error("failed to initialize storage service", "error", err)
			panic("failed to initialize storage service: " + err.Error())
		}
		ensureBucket(ctx, log, storageSvc, "candidate-photos", cfg.GetMinioBucketCandidatePhotos())
		ensureBucket(ctx, log, storageSvc, "reports", cfg.GetMinioBucketReports())
		log.Info(
			"storage service initialized",
			"candidatePhotosBucket", cfg.GetMinioBucketCandidatePhotos(),
			"reportsBucket", cfg.GetMinioBucketReports(),
		)
		deps.Storage = storageSvc
		health = append(health, storageSvc)
	} else {
		log.Warn("MINIO_ENDPOINT not configured; photo uploads and report archives disabled")
	}

	archiveClient, closeScheduler := initArchiveScheduler(cfg, log)
	if closeScheduler != nil {
		defer closeScheduler()
		deps.Archiver = archiveClient
	}

	// ========================================================================
	// Domain Modules (Composition Root)
	// ========================================================================

	repo := repository.New(pool)
	deps.Repo = repo
	svc := service.New(deps)

	pipelineModule, err := pipeline.NewModule(repo, svc, eventBus, val, log)
	if err != nil {
		log.Error("failed to initialize pipeline module", "error", err)
		panic("failed to initialize pipeline module: " + err.Error())
	}

	// ========================================================================
	// HTTP Layer
	// ========================================================================

	app := &apphttp.App{
		Config:   cfg,
		Logger:   log,
		Health:   health,
		EventBus: eventBus,
		Modules: []apphttp.Module{
			pipelineModule,
		},
	}

	engine := router.New(app)
	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Info("server listening", "addr", cfg.HTTPAddr)
		srvErr <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		log.Info("shutdown signal received, gracefully shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			log.Error("graceful shutdown failed", "error", err)
		}
	case err := <-srvErr:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server error", "error", err)
			panic("server error: " + err.Error())
		}
	}
}

func initCache(ctx context.Context, cfg config.CacheConfig, log *logger.Logger) (cache.Cache, func()) {
	if !cfg.IsCacheEnabled() {
		log.Warn("REDIS_URL not configured; entity cache disabled")
		return cache.Noop{}, nil
	}

	redisCache, err := cache.NewRedis(cache.Options{
		URL:         cfg.GetRedisURL(),
		TLSInsecure: cfg.GetRedisTLSInsecure(),
		Prefix:      "recruit:",
		TTL:         cfg.GetCacheTTL(),
	})
	if err != nil {
		log.Error("failed to initialize entity cache", "error", err)
		return cache.Noop{}, nil
	}
	if err := redisCache.Ping(ctx); err != nil {
		log.Warn("entity cache unreachable; continuing without cache", "error", err)
		_ = redisCache.Close()
		return cache.Noop{}, nil
	}

	return redisCache, func() {
		_ = redisCache.Close()
	}
}

func initArchiveScheduler(cfg config.SchedulerConfig, log *logger.Logger) (*scheduler.Client, func()) {
	if cfg.GetRedisURL() == "" {
		log.Warn("REDIS_URL not configured; report archiving disabled")
		return nil, nil
	}

	archiveClient, err := scheduler.NewClient(cfg)
	if err != nil {
		log.Error("failed to initialize report archive scheduler client", "error", err)
		return nil, nil
	}

	return archiveClient, func() {
		_ = archiveClient.Close()
	}
}

func withRetry(ctx context.Context, log *logger.Logger, name string, attempts int, baseDelay time.Duration, fn func() error) error {
	if attempts < 1 {
		return fmt.Errorf("%s: invalid retry attempts", name)
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
