package service

import (
	"context"

	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/transport"

	"github.com/google/uuid"
)

// GetBoard groups a position's applications into stage columns.
func (s *Service) GetBoard(ctx context.Context, positionID uuid.UUID) (domain.Board, error) {
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return domain.Board{}, err
	}

	apps, err := s.repo.ListApplicationsByPosition(ctx, positionID)
	if err != nil {
		return domain.Board{}, s.storeError(ctx, "list applications", err, "position not found")
	}

	candidates, err := s.repo.GetCandidatesByIDs(ctx, candidateIDs(apps))
	if err != nil {
		return domain.Board{}, s.storeError(ctx, "get candidates", err, "candidate not found")
	}

	return domain.BuildBoard(positionID, apps, candidates), nil
}

// StageCounts returns the number of applications per stage in pipeline order.
func (s *Service) StageCounts(ctx context.Context, positionID uuid.UUID) (transport.StageCountsResponse, error) {
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return transport.StageCountsResponse{}, err
	}

	apps, err := s.repo.ListApplicationsByPosition(ctx, positionID)
	if err != nil {
		return transport.StageCountsResponse{}, s.storeError(ctx, "list applications", err, "position not found")
	}

	counts := domain.StageCounts(apps)
	resp := transport.StageCountsResponse{PositionID: positionID, Stages: make([]transport.StageCount, 0, len(domain.Stages))}
	for _, stage := range domain.Stages {
		resp.Stages = append(resp.Stages, transport.StageCount{Stage: stage, Label: domain.StageLabel(stage), Count: counts[stage]})
		resp.Total += counts[stage]
	}
	return resp, nil
}

func candidateIDs(apps []domain.Application) []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(apps))
	for _, app := range apps {
		ids = append(ids, app.CandidateID)
	}
	return ids
}
