package pipeline

import (
	"context"
	"fmt"

	"recruit_pipeline_backend/internal/events"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/platform/logger"
)

// TimelineRecorder appends pipeline events to the application and position
// activity tables.
type TimelineRecorder struct {
	store repository.ActivityStore
	log   *logger.Logger
}

func NewTimelineRecorder(store repository.ActivityStore, log *logger.Logger) *TimelineRecorder {
	return &TimelineRecorder{store: store, log: log}
}

// RegisterHandlers subscribes the recorder to every pipeline event.
func (t *TimelineRecorder) RegisterHandlers(bus events.Bus) {
	bus.Subscribe(events.ApplicationCreated{}.EventName(), t)
	bus.Subscribe(events.ApplicationStageChanged{}.EventName(), t)
	bus.Subscribe(events.FunnelMetricsUpdated{}.EventName(), t)
	bus.Subscribe(events.PositionStatusChanged{}.EventName(), t)
	bus.Subscribe(events.ReportArchived{}.EventName(), t)
}

// Handle implements events.Handler.
func (t *TimelineRecorder) Handle(ctx context.Context, event events.Event) error {
	var err error
	switch e := event.(type) {
	case events.ApplicationCreated:
		err = t.store.AddApplicationActivity(ctx, repository.ActivityParams{
			ApplicationID: &e.ApplicationID,
			PositionID:    e.PositionID,
			Actor:         e.Actor,
			EventType:     repository.ActivityApplicationCreated,
			Title:         fmt.Sprintf("%s applied", displayName(e.CandidateName)),
			Metadata:      map[string]any{"candidateId": e.CandidateID.String(), "stage": e.Stage},
		})
	case events.ApplicationStageChanged:
		err = t.store.AddApplicationActivity(ctx, repository.ActivityParams{
			ApplicationID: &e.ApplicationID,
			PositionID:    e.PositionID,
			Actor:         e.Actor,
			EventType:     repository.ActivityStageChanged,
			Title:         "Moved to " + domain.StageLabel(domain.StageKey(e.ToStage)),
			Metadata:      repository.StageChangeMetadata(domain.StageKey(e.FromStage), domain.StageKey(e.ToStage)),
		})
	case events.FunnelMetricsUpdated:
		metadata := make(map[string]any, len(e.Metrics))
		for k, v := range e.Metrics {
			metadata[k] = v
		}
		err = t.store.AddPositionActivity(ctx, repository.ActivityParams{
			PositionID: e.PositionID,
			Actor:      e.Actor,
			EventType:  repository.ActivityFunnelUpdated,
			Title:      "Funnel metrics updated",
			Metadata:   metadata,
		})
	case events.PositionStatusChanged:
		err = t.store.AddPositionActivity(ctx, repository.ActivityParams{
			PositionID: e.PositionID,
			Actor:      e.Actor,
			EventType:  repository.ActivityStatusChanged,
			Title:      fmt.Sprintf("Status changed from %s to %s", e.OldStatus, e.NewStatus),
			Metadata:   map[string]any{"from": e.OldStatus, "to": e.NewStatus},
		})
	case events.ReportArchived:
		err = t.store.AddPositionActivity(ctx, repository.ActivityParams{
			PositionID: e.PositionID,
			EventType:  repository.ActivityReportArchived,
			Title:      "Report archived",
			Metadata:   map[string]any{"archiveId": e.ArchiveID.String(), "fileName": e.FileName},
		})
	default:
		return nil
	}

	if err != nil {
		t.log.WithContext(ctx).Error("timeline write failed", "event", event.EventName(), "error", err)
	}
	return err
}

func displayName(name string) string {
	if name == "" {
		return domain.UnknownCandidateBoard
	}
	return name
}
