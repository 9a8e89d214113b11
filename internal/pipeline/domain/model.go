// Package domain holds the recruitment pipeline model: entities, stage
// resolution, funnel metrics coercion, board aggregation and report assembly.
// Everything here is pure; callers resolve data before invoking it.
package domain

import (
	"strings"
	"time"

	"recruit_pipeline_backend/platform/apperr"

	"github.com/google/uuid"
)

// Position statuses as persisted.
const (
	PositionStatusOpen    = "open"
	PositionStatusClosed  = "closed"
	PositionStatusOnHold  = "onhold"
	DefaultPositionTitle  = "Untitled position"
	DefaultClientName     = "Unnamed client"
	UnknownCandidateBoard = "Unknown candidate"
)

var knownPositionStatuses = map[string]struct{}{
	PositionStatusOpen:   {},
	PositionStatusClosed: {},
	PositionStatusOnHold: {},
}

// Client is an organization that owns positions.
type Client struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Industry    string    `json:"industry,omitempty"`
	ContactName string    `json:"contactName,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Position is one open role at one client.
type Position struct {
	ID            uuid.UUID     `json:"id"`
	ClientID      uuid.UUID     `json:"clientId"`
	Title         string        `json:"title"`
	Description   string        `json:"description"`
	Requirements  []string      `json:"requirements"`
	Status        string        `json:"status"`
	Location      string        `json:"location,omitempty"`
	Department    string        `json:"department,omitempty"`
	FunnelMetrics FunnelMetrics `json:"funnelMetrics"`
	CreatedAt     time.Time     `json:"createdAt"`
	UpdatedAt     time.Time     `json:"updatedAt"`
}

// Candidate is a person profile, independent of any application.
type Candidate struct {
	ID                     uuid.UUID `json:"id"`
	FullName               string    `json:"fullName"`
	Email                  string    `json:"email"`
	Phone                  string    `json:"phone,omitempty"`
	Location               string    `json:"location,omitempty"`
	CurrentTitle           string    `json:"currentTitle,omitempty"`
	LinkedInURL            string    `json:"linkedinUrl,omitempty"`
	PhotoURLs              []string  `json:"photoUrls"`
	HardSkills             []string  `json:"hardSkills"`
	Languages              []string  `json:"languages"`
	AcademicBackground     string    `json:"academicBackground,omitempty"`
	ProfessionalBackground string    `json:"professionalBackground,omitempty"`
	MainProjects           string    `json:"mainProjects,omitempty"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

// CandidateSnapshot is the candidate identity denormalized onto an application.
type CandidateSnapshot struct {
	FullName     string `json:"fullName"`
	Email        string `json:"email,omitempty"`
	Phone        string `json:"phone,omitempty"`
	LinkedInURL  string `json:"linkedinUrl,omitempty"`
	CurrentTitle string `json:"currentTitle,omitempty"`
}

// Application is one candidate's pursuit of one position.
// StageKey may be empty or unrecognized on legacy rows; LegacyStatus then
// carries the old free-text status. Use ResolveStage to read the stage.
type Application struct {
	ID                            uuid.UUID          `json:"id"`
	CandidateID                   uuid.UUID          `json:"candidateId"`
	PositionID                    uuid.UUID          `json:"positionId"`
	ClientID                      uuid.UUID          `json:"clientId"`
	StageKey                      StageKey           `json:"stageKey,omitempty"`
	LegacyStatus                  string             `json:"status,omitempty"`
	AppliedRoleTitle              string             `json:"appliedRoleTitle,omitempty"`
	AppliedCompensation           string             `json:"appliedCompensation,omitempty"`
	ProfessionalBackgroundAtApply string             `json:"professionalBackgroundAtApply,omitempty"`
	MainProjectsAtApply           string             `json:"mainProjectsAtApply,omitempty"`
	Snapshot                      *CandidateSnapshot `json:"candidate,omitempty"`
	AppliedAt                     time.Time          `json:"appliedAt"`
	UpdatedAt                     time.Time          `json:"updatedAt"`
}

// PairKey is the deterministic composite key of a (candidate, position) pair.
func PairKey(candidateID, positionID uuid.UUID) string {
	return candidateID.String() + ":" + positionID.String()
}

// NormalizePositionStatus lower-cases and strips spaces so "On Hold" becomes
// "onhold". Empty input defaults to open.
func NormalizePositionStatus(raw string) (string, error) {
	normalized := strings.ToLower(strings.Join(strings.Fields(raw), ""))
	if normalized == "" {
		return PositionStatusOpen, nil
	}
	if _, ok := knownPositionStatuses[normalized]; !ok {
		return "", apperr.ValidationFields(apperr.FieldErrors{
			"status": "status must be one of open, closed, onhold",
		})
	}
	return normalized, nil
}

// IsKnownPositionStatus reports whether status is already normalized and known.
func IsKnownPositionStatus(status string) bool {
	_, ok := knownPositionStatuses[status]
	return ok
}

// SnapshotFromCandidate denormalizes the candidate identity for an application.
func SnapshotFromCandidate(c Candidate) *CandidateSnapshot {
	return &CandidateSnapshot{
		FullName:     c.FullName,
		Email:        c.Email,
		Phone:        c.Phone,
		LinkedInURL:  c.LinkedInURL,
		CurrentTitle: c.CurrentTitle,
	}
}
