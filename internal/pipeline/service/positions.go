package service

import (
	"context"

	"recruit_pipeline_backend/internal/events"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/apperr"
	"recruit_pipeline_backend/platform/logger"
	"recruit_pipeline_backend/platform/sanitize"

	"github.com/google/uuid"
)

func (s *Service) CreatePosition(ctx context.Context, req transport.CreatePositionRequest) (domain.Position, error) {
	status, err := domain.NormalizePositionStatus(req.Status)
	if err != nil {
		return domain.Position{}, err
	}

	if _, err := s.GetClient(ctx, req.ClientID); err != nil {
		return domain.Position{}, err
	}

	position, err := s.repo.CreatePosition(ctx, repository.CreatePositionParams{
		ClientID:     req.ClientID,
		Title:        sanitize.Text(req.Title),
		Description:  sanitize.Multiline(req.Description),
		Requirements: sanitize.List(req.Requirements),
		Status:       status,
		Location:     sanitize.Text(req.Location),
		Department:   sanitize.Text(req.Department),
	})
	if err != nil {
		return domain.Position{}, s.storeError(ctx, "create position", err, "position not found")
	}

	s.cache.putPosition(ctx, position)
	s.log.WithContext(ctx).Info("position created", "position_id", position.ID, "client_id", position.ClientID)
	return position, nil
}

// GetPosition reads through the entity cache.
func (s *Service) GetPosition(ctx context.Context, id uuid.UUID) (domain.Position, error) {
	if position, ok := s.cache.position(ctx, id); ok {
		return position, nil
	}
	return s.fetchPosition(ctx, id)
}

// fetchPosition always reads the store and refreshes the cache.
func (s *Service) fetchPosition(ctx context.Context, id uuid.UUID) (domain.Position, error) {
	position, err := s.repo.GetPosition(ctx, id)
	if err != nil {
		return domain.Position{}, s.storeError(ctx, "get position", err, "position not found")
	}
	s.cache.putPosition(ctx, position)
	return position, nil
}

func (s *Service) ListPositions(ctx context.Context, req transport.ListPositionsQuery) (transport.ListResponse[domain.Position], error) {
	params := repository.ListPositionsParams{
		PageParams: repository.PageParams{Cursor: req.Cursor, Limit: req.Limit},
	}
	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			return transport.ListResponse[domain.Position]{}, apperr.ValidationFields(apperr.FieldErrors{"clientId": "clientId must be a valid id"})
		}
		params.ClientID = &clientID
	}
	if req.Status != "" {
		status, err := domain.NormalizePositionStatus(req.Status)
		if err != nil {
			return transport.ListResponse[domain.Position]{}, err
		}
		params.Status = status
	}

	page, err := s.repo.ListPositions(ctx, params)
	if err != nil {
		return transport.ListResponse[domain.Position]{}, s.storeError(ctx, "list positions", err, "position not found")
	}
	return transport.ListResponse[domain.Position]{Items: page.Items, NextCursor: page.NextCursor}, nil
}

// UpdatePositionStatus writes only the status field. Concurrent writes to
// status and funnel metrics do not interfere; each is last-write-wins.
func (s *Service) UpdatePositionStatus(ctx context.Context, id uuid.UUID, req transport.UpdatePositionStatusRequest) (domain.Position, error) {
	status, err := domain.NormalizePositionStatus(req.Status)
	if err != nil {
		return domain.Position{}, err
	}

	current, err := s.fetchPosition(ctx, id)
	if err != nil {
		return domain.Position{}, err
	}

	updated, err := s.repo.UpdatePositionStatus(ctx, id, status)
	if err != nil {
		return domain.Position{}, s.storeError(ctx, "update position status", err, "position not found")
	}
	s.cache.dropPosition(ctx, id)

	if current.Status != updated.Status {
		s.publish(ctx, events.PositionStatusChanged{
			BaseEvent:  events.NewBaseEvent(),
			PositionID: id,
			OldStatus:  current.Status,
			NewStatus:  updated.Status,
			Actor:      logger.UserIDFromContext(ctx),
		})
	}
	s.log.WithContext(ctx).Info("position status updated", "position_id", id, "status", updated.Status)
	return updated, nil
}

// SetFunnelMetrics coerces raw input into a full seven-key snapshot and
// replaces the stored one. Keys absent from raw are stored as 0; previous
// values are not merged. No other position field is written.
func (s *Service) SetFunnelMetrics(ctx context.Context, positionID uuid.UUID, raw map[string]any) (domain.FunnelMetrics, error) {
	metrics := domain.CoerceFunnelMetrics(raw)

	if err := ctx.Err(); err != nil {
		return domain.FunnelMetrics{}, err
	}
	if err := s.repo.UpdatePositionFunnelMetrics(ctx, positionID, metrics); err != nil {
		return domain.FunnelMetrics{}, s.storeError(ctx, "update funnel metrics", err, "position not found")
	}

	s.cache.dropPosition(ctx, positionID)

	s.publish(ctx, events.FunnelMetricsUpdated{
		BaseEvent:  events.NewBaseEvent(),
		PositionID: positionID,
		Metrics:    metricsMap(metrics),
		Actor:      logger.UserIDFromContext(ctx),
	})
	s.log.WithContext(ctx).Info("funnel metrics updated", "position_id", positionID, "sourced", metrics.Sourced)
	return metrics, nil
}

func (s *Service) ListPositionActivity(ctx context.Context, positionID uuid.UUID) ([]repository.Activity, error) {
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListPositionActivity(ctx, positionID, 0)
	if err != nil {
		return nil, s.storeError(ctx, "list position activity", err, "position not found")
	}
	return items, nil
}

func metricsMap(m domain.FunnelMetrics) map[string]int {
	out := make(map[string]int, 7)
	for _, bar := range m.Bars() {
		out[bar.Key] = bar.Value
	}
	return out
}
