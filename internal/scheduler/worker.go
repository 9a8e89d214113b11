package scheduler

import (
	"context"
	"fmt"

	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/platform/apperr"
	"recruit_pipeline_backend/platform/config"
	"recruit_pipeline_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

// Archiver renders and stores a position report.
type Archiver interface {
	ArchiveReport(ctx context.Context, positionID uuid.UUID) (repository.ReportArchive, error)
}

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	archiver Archiver
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, archiver Archiver, log *logger.Logger) (*Worker, error) {
	redisURL := cfg.GetRedisURL()
	if redisURL == "" {
		return nil, fmt.Errorf("redis url not configured")
	}

	opt, err := redisClientOpt(redisURL, cfg.GetRedisTLSInsecure())
	if err != nil {
		return nil, err
	}

	concurrency := cfg.GetAsynqConcurrency()
	if concurrency < 1 {
		concurrency = 10
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: concurrency,
		Queues: map[string]int{
			queueName(cfg): 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		archiver: archiver,
		log:      log,
	}

	mux.HandleFunc(TaskReportArchive, w.handleReportArchive)

	return w, nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}

func (w *Worker) handleReportArchive(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseReportArchivePayload(task)
	if err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	positionID := uuid.MustParse(payload.PositionID)

	archive, err := w.archiver.ArchiveReport(ctx, positionID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) || apperr.Is(err, apperr.KindValidation) || apperr.Is(err, apperr.KindBadRequest) {
			w.log.Warn("report archive skipped", "position_id", positionID, "error", err)
			return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
		}
		return err
	}

	w.log.Info("report archived",
		"position_id", positionID,
		"archive_id", archive.ID,
		"object_key", archive.ObjectKey,
		"day", payload.Day,
	)
	return nil
}
