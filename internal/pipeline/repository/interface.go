package repository

import (
	"context"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/google/uuid"
)

// =====================================
// Segregated Interfaces
// =====================================

// ClientStore provides client persistence.
type ClientStore interface {
	CreateClient(ctx context.Context, params CreateClientParams) (domain.Client, error)
	GetClient(ctx context.Context, id uuid.UUID) (domain.Client, error)
	ListClients(ctx context.Context, params PageParams) (Page[domain.Client], error)
}

// PositionReader provides read access to positions.
type PositionReader interface {
	GetPosition(ctx context.Context, id uuid.UUID) (domain.Position, error)
	ListPositions(ctx context.Context, params ListPositionsParams) (Page[domain.Position], error)
}

// PositionWriter provides position mutations. Status and funnel metrics are
// separate single-column updates.
type PositionWriter interface {
	CreatePosition(ctx context.Context, params CreatePositionParams) (domain.Position, error)
	UpdatePositionStatus(ctx context.Context, id uuid.UUID, status string) (domain.Position, error)
	UpdatePositionFunnelMetrics(ctx context.Context, id uuid.UUID, metrics domain.FunnelMetrics) error
}

// CandidateReader provides read access to candidates.
type CandidateReader interface {
	GetCandidate(ctx context.Context, id uuid.UUID) (domain.Candidate, error)
	GetCandidateByEmail(ctx context.Context, email string) (domain.Candidate, error)
	GetCandidatesByIDs(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]domain.Candidate, error)
	ListCandidates(ctx context.Context, params PageParams) (Page[domain.Candidate], error)
}

// CandidateWriter provides candidate mutations.
type CandidateWriter interface {
	CreateCandidate(ctx context.Context, params CandidateParams) (domain.Candidate, error)
	InsertCandidateIfAbsent(ctx context.Context, params CandidateParams) (domain.Candidate, bool, error)
	UpdateCandidate(ctx context.Context, id uuid.UUID, params CandidateParams) (domain.Candidate, error)
	AddCandidatePhoto(ctx context.Context, id uuid.UUID, photoURL string) (domain.Candidate, error)
}

// ApplicationReader provides read access to applications.
type ApplicationReader interface {
	GetApplication(ctx context.Context, id uuid.UUID) (domain.Application, error)
	GetApplicationByPair(ctx context.Context, candidateID, positionID uuid.UUID) (domain.Application, error)
	ListApplicationsByPosition(ctx context.Context, positionID uuid.UUID) ([]domain.Application, error)
	ListApplications(ctx context.Context, params ListApplicationsParams) (Page[domain.Application], error)
}

// ApplicationWriter provides application mutations.
type ApplicationWriter interface {
	InsertApplicationIfAbsent(ctx context.Context, params CreateApplicationParams) (domain.Application, bool, error)
	UpdateApplicationStage(ctx context.Context, id uuid.UUID, stage domain.StageKey) (domain.Application, error)
}

// ActivityStore records and lists timeline entries.
type ActivityStore interface {
	AddApplicationActivity(ctx context.Context, params ActivityParams) error
	AddPositionActivity(ctx context.Context, params ActivityParams) error
	ListApplicationActivity(ctx context.Context, applicationID uuid.UUID, limit int) ([]Activity, error)
	ListPositionActivity(ctx context.Context, positionID uuid.UUID, limit int) ([]Activity, error)
}

// ReportArchiveStore records archived report PDFs.
type ReportArchiveStore interface {
	CreateReportArchive(ctx context.Context, params CreateReportArchiveParams) (ReportArchive, error)
	ListReportArchives(ctx context.Context, positionID uuid.UUID) ([]ReportArchive, error)
}

// PipelineRepository is the full store used by the pipeline module.
type PipelineRepository interface {
	ClientStore
	PositionReader
	PositionWriter
	CandidateReader
	CandidateWriter
	ApplicationReader
	ApplicationWriter
	ActivityStore
	ReportArchiveStore
}

var _ PipelineRepository = (*Repository)(nil)
