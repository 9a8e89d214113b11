// Package transport holds the request and response shapes of the pipeline API.
package transport

import (
	"time"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/google/uuid"
)

// PageQuery is the keyset pagination query of list endpoints.
type PageQuery struct {
	Cursor string `form:"cursor" json:"cursor"`
	Limit  int    `form:"limit" json:"limit" validate:"omitempty,min=1,max=100"`
}

// ListResponse is one page of items.
type ListResponse[T any] struct {
	Items      []T    `json:"items"`
	NextCursor string `json:"nextCursor,omitempty"`
}

type CreateClientRequest struct {
	Name        string `json:"name" validate:"required,max=200"`
	Industry    string `json:"industry" validate:"max=120"`
	ContactName string `json:"contactName" validate:"max=200"`
}

type CreatePositionRequest struct {
	ClientID     uuid.UUID `json:"clientId" validate:"required"`
	Title        string    `json:"title" validate:"required,max=200"`
	Description  string    `json:"description" validate:"max=20000"`
	Requirements []string  `json:"requirements" validate:"max=50,dive,max=500"`
	Status       string    `json:"status" validate:"omitempty,position_status"`
	Location     string    `json:"location" validate:"max=200"`
	Department   string    `json:"department" validate:"max=200"`
}

type ListPositionsQuery struct {
	PageQuery
	ClientID string `form:"clientId" json:"clientId" validate:"omitempty,uuid"`
	Status   string `form:"status" json:"status" validate:"omitempty,position_status"`
}

type UpdatePositionStatusRequest struct {
	Status string `json:"status" validate:"required,position_status"`
}

// CandidateRequest carries every editable candidate field.
type CandidateRequest struct {
	FullName               string   `json:"fullName" validate:"required,max=200"`
	Email                  string   `json:"email" validate:"required,email,max=254"`
	Phone                  string   `json:"phone" validate:"max=40"`
	Location               string   `json:"location" validate:"max=200"`
	CurrentTitle           string   `json:"currentTitle" validate:"max=200"`
	LinkedInURL            string   `json:"linkedinUrl" validate:"omitempty,url,max=500"`
	HardSkills             []string `json:"hardSkills" validate:"max=100,dive,max=100"`
	Languages              []string `json:"languages" validate:"max=30,dive,max=60"`
	AcademicBackground     string   `json:"academicBackground" validate:"max=5000"`
	ProfessionalBackground string   `json:"professionalBackground" validate:"max=20000"`
	MainProjects           string   `json:"mainProjects" validate:"max=20000"`
}

type PhotoUploadRequest struct {
	FileName    string `json:"fileName" validate:"required,max=255"`
	ContentType string `json:"contentType" validate:"required,max=100"`
	SizeBytes   int64  `json:"sizeBytes" validate:"required,gt=0"`
}

type AttachPhotoRequest struct {
	FileKey string `json:"fileKey" validate:"required,max=500"`
}

// PresignedUploadResponse returns where the client should PUT the file.
type PresignedUploadResponse struct {
	UploadURL string    `json:"uploadUrl"`
	FileKey   string    `json:"fileKey"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// CreateApplicationRequest assigns an existing candidate to a position.
type CreateApplicationRequest struct {
	CandidateID         uuid.UUID `json:"candidateId" validate:"required"`
	PositionID          uuid.UUID `json:"positionId" validate:"required"`
	AppliedCompensation string    `json:"appliedCompensation" validate:"max=200"`
}

// ApplyNewCandidateRequest creates or reuses a candidate by email, then applies.
type ApplyNewCandidateRequest struct {
	PositionID          uuid.UUID        `json:"positionId" validate:"required"`
	Candidate           CandidateRequest `json:"candidate"`
	AppliedCompensation string           `json:"appliedCompensation" validate:"max=200"`
}

type MoveStageRequest struct {
	Stage string `json:"stage" validate:"required,stage_key"`
}

// Notice returned when the (candidate, position) pair already had an application.
const NoticeAlreadyApplied = "already applied"

type ApplicationResponse struct {
	Application      domain.Application `json:"application"`
	Created          bool               `json:"created"`
	CandidateCreated *bool              `json:"candidateCreated,omitempty"`
	Notice           string             `json:"notice,omitempty"`
}

// StageCountsResponse lists per-stage counts in pipeline order.
type StageCountsResponse struct {
	PositionID uuid.UUID    `json:"positionId"`
	Stages     []StageCount `json:"stages"`
	Total      int          `json:"total"`
}

type StageCount struct {
	Stage domain.StageKey `json:"stage"`
	Label string          `json:"label"`
	Count int             `json:"count"`
}

// ArchiveEnqueuedResponse acknowledges a background archive request.
type ArchiveEnqueuedResponse struct {
	PositionID uuid.UUID `json:"positionId"`
	TaskID     string    `json:"taskId"`
	Status     string    `json:"status"`
}

type ReportArchiveResponse struct {
	ID          uuid.UUID `json:"id"`
	FileName    string    `json:"fileName"`
	SizeBytes   int64     `json:"sizeBytes"`
	GeneratedOn string    `json:"generatedOn"`
	CreatedAt   time.Time `json:"createdAt"`
	DownloadURL string    `json:"downloadUrl,omitempty"`
}
