package repository

import (
	"strings"
	"time"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// Rows are scanned into raw structs with nullable fields and normalized once
// here, so services only ever see fully shaped records.

type clientRow struct {
	ID          uuid.UUID
	Name        string
	Industry    *string
	ContactName *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (r clientRow) toDomain() domain.Client {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		name = domain.DefaultClientName
	}
	return domain.Client{
		ID:          r.ID,
		Name:        name,
		Industry:    deref(r.Industry),
		ContactName: deref(r.ContactName),
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type positionRow struct {
	ID            uuid.UUID
	ClientID      uuid.UUID
	Title         string
	Description   string
	Requirements  []string
	Status        string
	Location      *string
	Department    *string
	FunnelMetrics []byte
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (r positionRow) toDomain() domain.Position {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		title = domain.DefaultPositionTitle
	}
	status, err := domain.NormalizePositionStatus(r.Status)
	if err != nil {
		status = domain.PositionStatusOpen
	}
	return domain.Position{
		ID:            r.ID,
		ClientID:      r.ClientID,
		Title:         title,
		Description:   r.Description,
		Requirements:  nonNil(r.Requirements),
		Status:        status,
		Location:      deref(r.Location),
		Department:    deref(r.Department),
		FunnelMetrics: decodeFunnelMetrics(r.FunnelMetrics),
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

type candidateRow struct {
	ID                     uuid.UUID
	FullName               string
	Email                  string
	Phone                  *string
	Location               *string
	CurrentTitle           *string
	LinkedInURL            *string
	PhotoURLs              []string
	HardSkills             []string
	Languages              []string
	AcademicBackground     *string
	ProfessionalBackground *string
	MainProjects           *string
	CreatedAt              time.Time
	UpdatedAt              time.Time
}

func (r candidateRow) toDomain() domain.Candidate {
	return domain.Candidate{
		ID:                     r.ID,
		FullName:               r.FullName,
		Email:                  r.Email,
		Phone:                  deref(r.Phone),
		Location:               deref(r.Location),
		CurrentTitle:           deref(r.CurrentTitle),
		LinkedInURL:            deref(r.LinkedInURL),
		PhotoURLs:              nonNil(r.PhotoURLs),
		HardSkills:             nonNil(r.HardSkills),
		Languages:              nonNil(r.Languages),
		AcademicBackground:     deref(r.AcademicBackground),
		ProfessionalBackground: deref(r.ProfessionalBackground),
		MainProjects:           deref(r.MainProjects),
		CreatedAt:              r.CreatedAt,
		UpdatedAt:              r.UpdatedAt,
	}
}

type applicationRow struct {
	ID                            uuid.UUID
	CandidateID                   uuid.UUID
	PositionID                    uuid.UUID
	ClientID                      uuid.UUID
	StageKey                      *string
	LegacyStatus                  *string
	AppliedRoleTitle              *string
	AppliedCompensation           *string
	ProfessionalBackgroundAtApply *string
	MainProjectsAtApply           *string
	CandidateSnapshot             []byte
	AppliedAt                     time.Time
	UpdatedAt                     time.Time
}

// toDomain keeps stage_key and legacy_status as stored; stage resolution
// happens at read time in the domain.
func (r applicationRow) toDomain() domain.Application {
	return domain.Application{
		ID:                            r.ID,
		CandidateID:                   r.CandidateID,
		PositionID:                    r.PositionID,
		ClientID:                      r.ClientID,
		StageKey:                      domain.StageKey(deref(r.StageKey)),
		LegacyStatus:                  deref(r.LegacyStatus),
		AppliedRoleTitle:              deref(r.AppliedRoleTitle),
		AppliedCompensation:           deref(r.AppliedCompensation),
		ProfessionalBackgroundAtApply: deref(r.ProfessionalBackgroundAtApply),
		MainProjectsAtApply:           deref(r.MainProjectsAtApply),
		Snapshot:                      decodeSnapshot(r.CandidateSnapshot),
		AppliedAt:                     r.AppliedAt,
		UpdatedAt:                     r.UpdatedAt,
	}
}

// decodeFunnelMetrics tolerates missing keys, strings and negative values in
// stored JSON by running it through the same coercion as writes.
func decodeFunnelMetrics(raw []byte) domain.FunnelMetrics {
	if len(raw) == 0 {
		return domain.FunnelMetrics{}
	}
	var loose map[string]any
	if err := json.Unmarshal(raw, &loose); err != nil {
		return domain.FunnelMetrics{}
	}
	return domain.CoerceFunnelMetrics(loose)
}

func encodeFunnelMetrics(m domain.FunnelMetrics) ([]byte, error) {
	return json.Marshal(m.Clamped())
}

func decodeSnapshot(raw []byte) *domain.CandidateSnapshot {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	var snapshot domain.CandidateSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil
	}
	return &snapshot
}

func encodeSnapshot(s *domain.CandidateSnapshot) ([]byte, error) {
	if s == nil {
		return nil, nil
	}
	return json.Marshal(s)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func nullable(s string) *string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func nonNil(values []string) []string {
	if values == nil {
		return []string{}
	}
	return values
}
