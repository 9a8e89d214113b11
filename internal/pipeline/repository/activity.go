package repository

import (
	"context"
	"strings"

	"recruit_pipeline_backend/internal/pipeline/domain"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	ActivityActorSystem = "system"

	ActivityApplicationCreated = "application_created"
	ActivityStageChanged       = "stage_changed"
	ActivityFunnelUpdated      = "funnel_metrics_updated"
	ActivityStatusChanged      = "status_changed"
	ActivityReportArchived     = "report_archived"

	activityTitleMaxLen = 200
	activityDefaultList = 50
)

func activityActor(actor string) string {
	if strings.TrimSpace(actor) == "" {
		return ActivityActorSystem
	}
	return actor
}

func truncateTitle(title string) string {
	trimmed := strings.TrimSpace(title)
	if len(trimmed) > activityTitleMaxLen {
		trimmed = trimmed[:activityTitleMaxLen] + "..."
	}
	return trimmed
}

func (r *Repository) AddApplicationActivity(ctx context.Context, params ActivityParams) error {
	if params.ApplicationID == nil {
		return ErrNotFound
	}
	metadata, err := json.Marshal(nonNilMetadata(params.Metadata))
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO application_activity (application_id, position_id, actor, event_type, title, metadata)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		*params.ApplicationID, params.PositionID, activityActor(params.Actor), params.EventType,
		truncateTitle(params.Title), metadata)
	return err
}

func (r *Repository) AddPositionActivity(ctx context.Context, params ActivityParams) error {
	metadata, err := json.Marshal(nonNilMetadata(params.Metadata))
	if err != nil {
		return err
	}
	_, err = r.pool.Exec(ctx, `
		INSERT INTO position_activity (position_id, actor, event_type, title, metadata)
		VALUES ($1, $2, $3, $4, $5)`,
		params.PositionID, activityActor(params.Actor), params.EventType, truncateTitle(params.Title), metadata)
	return err
}

func (r *Repository) ListApplicationActivity(ctx context.Context, applicationID uuid.UUID, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = activityDefaultList
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, application_id, position_id, actor, event_type, title, metadata, created_at
		FROM application_activity
		WHERE application_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, applicationID, limit)
	if err != nil {
		return nil, err
	}
	return collectActivity(rows, true)
}

func (r *Repository) ListPositionActivity(ctx context.Context, positionID uuid.UUID, limit int) ([]Activity, error) {
	if limit <= 0 {
		limit = activityDefaultList
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id, position_id, actor, event_type, title, metadata, created_at
		FROM position_activity
		WHERE position_id = $1
		ORDER BY created_at DESC
		LIMIT $2`, positionID, limit)
	if err != nil {
		return nil, err
	}
	return collectActivity(rows, false)
}

func collectActivity(rows pgx.Rows, withApplication bool) ([]Activity, error) {
	defer rows.Close()

	items := make([]Activity, 0)
	for rows.Next() {
		var item Activity
		var metadata []byte
		var err error
		if withApplication {
			var appID uuid.UUID
			err = rows.Scan(&item.ID, &appID, &item.PositionID, &item.Actor, &item.EventType, &item.Title, &metadata, &item.CreatedAt)
			item.ApplicationID = &appID
		} else {
			err = rows.Scan(&item.ID, &item.PositionID, &item.Actor, &item.EventType, &item.Title, &metadata, &item.CreatedAt)
		}
		if err != nil {
			return nil, err
		}
		item.Metadata = map[string]any{}
		if len(metadata) > 0 {
			_ = json.Unmarshal(metadata, &item.Metadata)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func nonNilMetadata(m map[string]any) map[string]any {
	if m == nil {
		return map[string]any{}
	}
	return m
}

// StageChangeMetadata is the metadata recorded for a stage move.
func StageChangeMetadata(from, to domain.StageKey) map[string]any {
	return map[string]any{"from": string(from), "to": string(to)}
}
