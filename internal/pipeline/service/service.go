// Package service implements the recruitment pipeline use cases on top of the
// repository: the create-or-get application resolver, the funnel metrics
// store, board and report assembly, and the surrounding CRUD.
package service

import (
	"context"
	"errors"
	"io"
	"time"

	"recruit_pipeline_backend/internal/adapters/storage"
	"recruit_pipeline_backend/internal/events"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/platform/apperr"
	"recruit_pipeline_backend/platform/cache"
	"recruit_pipeline_backend/platform/logger"
	"recruit_pipeline_backend/platform/phone"

	"github.com/google/uuid"
)

// Repository is the store the service needs.
type Repository interface {
	repository.PipelineRepository
}

// ObjectStorage stores candidate photos and report PDFs.
type ObjectStorage interface {
	GenerateUploadURL(ctx context.Context, bucket, folder, fileName, contentType string, sizeBytes int64) (*storage.PresignedURL, error)
	GenerateDownloadURL(ctx context.Context, bucket, fileKey string) (*storage.PresignedURL, error)
	UploadFile(ctx context.Context, bucket, folder, fileName, contentType string, reader io.Reader, size int64) (string, error)
}

// ReportRenderer turns report data into a PDF document.
type ReportRenderer interface {
	Render(data domain.ReportData) ([]byte, error)
}

// ArchiveEnqueuer schedules background report archiving.
type ArchiveEnqueuer interface {
	EnqueueReportArchive(ctx context.Context, positionID uuid.UUID, day time.Time) (string, error)
}

// Buckets names the object storage buckets used by the pipeline.
type Buckets struct {
	CandidatePhotos string
	Reports         string
}

// Deps wires the service. Storage, Renderer and Archiver are optional.
type Deps struct {
	Repo          Repository
	Cache         cache.Cache
	EventBus      events.Bus
	Log           *logger.Logger
	Storage       ObjectStorage
	Buckets       Buckets
	Renderer      ReportRenderer
	Archiver      ArchiveEnqueuer
	PhoneRegion   string
	ReportTimeLoc *time.Location
	Now           func() time.Time
}

type Service struct {
	repo        Repository
	cache       *entityCache
	eventBus    events.Bus
	log         *logger.Logger
	storage     ObjectStorage
	buckets     Buckets
	renderer    ReportRenderer
	archiver    ArchiveEnqueuer
	phoneRegion string
	reportLoc   *time.Location
	now         func() time.Time
}

func New(deps Deps) *Service {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	c := deps.Cache
	if c == nil {
		c = cache.Noop{}
	}
	now := deps.Now
	if now == nil {
		now = func() time.Time { return time.Now().UTC() }
	}
	loc := deps.ReportTimeLoc
	if loc == nil {
		loc = time.UTC
	}
	region := deps.PhoneRegion
	if region == "" {
		region = phone.DefaultRegion
	}

	return &Service{
		repo:        deps.Repo,
		cache:       newEntityCache(c, log),
		eventBus:    deps.EventBus,
		log:         log,
		storage:     deps.Storage,
		buckets:     deps.Buckets,
		renderer:    deps.Renderer,
		archiver:    deps.Archiver,
		phoneRegion: region,
		reportLoc:   loc,
		now:         now,
	}
}

func (s *Service) publish(ctx context.Context, event events.Event) {
	if s.eventBus == nil {
		return
	}
	s.eventBus.Publish(ctx, event)
}

// storeError maps repository errors to typed application errors.
// Anything that is not a known sentinel is a store failure: logged and
// returned with a generic message.
func (s *Service) storeError(ctx context.Context, op string, err error, notFound string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrNotFound):
		return apperr.NotFound(notFound)
	case errors.Is(err, repository.ErrDuplicateEmail):
		return apperr.Conflict("a candidate with this email already exists")
	case errors.Is(err, repository.ErrInvalidCursor):
		return apperr.BadRequest("invalid cursor")
	case errors.Is(err, context.Canceled):
		return err
	}
	s.log.WithContext(ctx).DatabaseError(op, err)
	return apperr.Store(op, err)
}
