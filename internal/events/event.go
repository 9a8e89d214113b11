// Package events provides domain event definitions for decoupled,
// event-driven communication between modules.
// Infrastructure (Bus, Handler) is in platform/events.
package events

import (
	"recruit_pipeline_backend/platform/events"

	"github.com/google/uuid"
)

// Re-export platform types for convenience
type (
	Event       = events.Event
	Bus         = events.Bus
	Handler     = events.Handler
	HandlerFunc = events.HandlerFunc
	BaseEvent   = events.BaseEvent
)

// Re-export platform functions
var NewBaseEvent = events.NewBaseEvent

// =============================================================================
// Application Events
// =============================================================================

// ApplicationCreated is published when a new application is written.
// It is not published for the already-applied branch.
type ApplicationCreated struct {
	BaseEvent
	ApplicationID uuid.UUID `json:"applicationId"`
	CandidateID   uuid.UUID `json:"candidateId"`
	PositionID    uuid.UUID `json:"positionId"`
	ClientID      uuid.UUID `json:"clientId"`
	CandidateName string    `json:"candidateName"`
	Stage         string    `json:"stage"`
	Actor         string    `json:"actor,omitempty"`
}

func (e ApplicationCreated) EventName() string { return "pipeline.application.created" }

// ApplicationStageChanged is published after a recruiter moves an application.
type ApplicationStageChanged struct {
	BaseEvent
	ApplicationID uuid.UUID `json:"applicationId"`
	PositionID    uuid.UUID `json:"positionId"`
	FromStage     string    `json:"fromStage"`
	ToStage       string    `json:"toStage"`
	Actor         string    `json:"actor,omitempty"`
}

func (e ApplicationStageChanged) EventName() string { return "pipeline.application.stage_changed" }

// =============================================================================
// Position Events
// =============================================================================

// FunnelMetricsUpdated is published after the funnel snapshot of a position is replaced.
type FunnelMetricsUpdated struct {
	BaseEvent
	PositionID uuid.UUID      `json:"positionId"`
	Metrics    map[string]int `json:"metrics"`
	Actor      string         `json:"actor,omitempty"`
}

func (e FunnelMetricsUpdated) EventName() string { return "pipeline.position.funnel_updated" }

// PositionStatusChanged is published when a position's status changes.
type PositionStatusChanged struct {
	BaseEvent
	PositionID uuid.UUID `json:"positionId"`
	OldStatus  string    `json:"oldStatus"`
	NewStatus  string    `json:"newStatus"`
	Actor      string    `json:"actor,omitempty"`
}

func (e PositionStatusChanged) EventName() string { return "pipeline.position.status_changed" }

// =============================================================================
// Report Events
// =============================================================================

// ReportArchived is published when a rendered report PDF has been stored.
type ReportArchived struct {
	BaseEvent
	ArchiveID  uuid.UUID `json:"archiveId"`
	PositionID uuid.UUID `json:"positionId"`
	ObjectKey  string    `json:"objectKey"`
	FileName   string    `json:"fileName"`
}

func (e ReportArchived) EventName() string { return "pipeline.report.archived" }
