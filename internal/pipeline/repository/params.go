package repository

import (
	"time"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/google/uuid"
)

const (
	defaultPageSize = 25
	maxPageSize     = 100
)

// PageParams selects one keyset page. Cursor is the opaque value returned as
// NextCursor by the previous page.
type PageParams struct {
	Cursor string
	Limit  int
}

// Page is one page of results.
type Page[T any] struct {
	Items      []T
	NextCursor string
}

// ListPositionsParams filters positions; ClientID and Status are optional.
type ListPositionsParams struct {
	PageParams
	ClientID *uuid.UUID
	Status   string
}

// ListApplicationsParams filters the applications of one position.
type ListApplicationsParams struct {
	PageParams
	PositionID uuid.UUID
}

type CreateClientParams struct {
	Name        string
	Industry    string
	ContactName string
}

type CreatePositionParams struct {
	ClientID     uuid.UUID
	Title        string
	Description  string
	Requirements []string
	Status       string
	Location     string
	Department   string
}

// CandidateParams carries every editable candidate field.
type CandidateParams struct {
	FullName               string
	Email                  string
	Phone                  string
	Location               string
	CurrentTitle           string
	LinkedInURL            string
	HardSkills             []string
	Languages              []string
	AcademicBackground     string
	ProfessionalBackground string
	MainProjects           string
}

type CreateApplicationParams struct {
	CandidateID                   uuid.UUID
	PositionID                    uuid.UUID
	ClientID                      uuid.UUID
	StageKey                      domain.StageKey
	AppliedRoleTitle              string
	AppliedCompensation           string
	ProfessionalBackgroundAtApply string
	MainProjectsAtApply           string
	Snapshot                      *domain.CandidateSnapshot
	AppliedAt                     time.Time
}

// Activity is one timeline row of an application or position.
type Activity struct {
	ID            uuid.UUID      `json:"id"`
	ApplicationID *uuid.UUID     `json:"applicationId,omitempty"`
	PositionID    uuid.UUID      `json:"positionId"`
	Actor         string         `json:"actor"`
	EventType     string         `json:"eventType"`
	Title         string         `json:"title"`
	Metadata      map[string]any `json:"metadata"`
	CreatedAt     time.Time      `json:"createdAt"`
}

type ActivityParams struct {
	ApplicationID *uuid.UUID
	PositionID    uuid.UUID
	Actor         string
	EventType     string
	Title         string
	Metadata      map[string]any
}

// ReportArchive is a stored PDF report of a position.
type ReportArchive struct {
	ID          uuid.UUID `json:"id"`
	PositionID  uuid.UUID `json:"positionId"`
	ObjectKey   string    `json:"objectKey"`
	FileName    string    `json:"fileName"`
	SizeBytes   int64     `json:"sizeBytes"`
	GeneratedOn string    `json:"generatedOn"`
	CreatedAt   time.Time `json:"createdAt"`
}

type CreateReportArchiveParams struct {
	PositionID  uuid.UUID
	ObjectKey   string
	FileName    string
	SizeBytes   int64
	GeneratedOn string
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}
