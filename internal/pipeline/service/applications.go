package service

import (
	"context"
	"errors"

	"recruit_pipeline_backend/internal/events"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/apperr"
	"recruit_pipeline_backend/platform/logger"
	"recruit_pipeline_backend/platform/sanitize"

	"github.com/google/uuid"
)

// CreateApplicationInput identifies the pair to apply and the caller-provided
// apply-time fields. ClientID may be zero; it is taken from the position.
type CreateApplicationInput struct {
	CandidateID         uuid.UUID
	PositionID          uuid.UUID
	ClientID            uuid.UUID
	AppliedCompensation string
}

// ApplicationResult reports whether the application was written by this call.
type ApplicationResult struct {
	Application domain.Application
	Created     bool
}

// ApplyResult extends ApplicationResult with the candidate outcome of the
// new-candidate flow.
type ApplyResult struct {
	ApplicationResult
	CandidateCreated bool
}

// CreateOrGetApplication guarantees at most one application per
// (candidate, position). An existing application is returned untouched with
// Created=false. Otherwise a new one is seeded with the candidate's current
// profile and written with a conditional insert, so concurrent callers for the
// same pair resolve to the same row. Safe to retry after a failure.
func (s *Service) CreateOrGetApplication(ctx context.Context, in CreateApplicationInput) (ApplicationResult, error) {
	position, err := s.fetchPosition(ctx, in.PositionID)
	if err != nil {
		return ApplicationResult{}, err
	}
	if in.ClientID != uuid.Nil && in.ClientID != position.ClientID {
		return ApplicationResult{}, apperr.ValidationFields(apperr.FieldErrors{"clientId": "clientId does not match the position's client"})
	}

	existing, err := s.repo.GetApplicationByPair(ctx, in.CandidateID, in.PositionID)
	switch {
	case err == nil:
		s.log.WithContext(ctx).ApplicationResolved(existing.ID.String(), in.CandidateID.String(), in.PositionID.String(), false)
		return ApplicationResult{Application: existing, Created: false}, nil
	case !errors.Is(err, repository.ErrNotFound):
		return ApplicationResult{}, s.storeError(ctx, "get application by pair", err, "application not found")
	}

	candidate, err := s.fetchCandidate(ctx, in.CandidateID)
	if err != nil {
		return ApplicationResult{}, err
	}

	params := repository.CreateApplicationParams{
		CandidateID:                   candidate.ID,
		PositionID:                    position.ID,
		ClientID:                      position.ClientID,
		StageKey:                      domain.StageShortlisted,
		AppliedRoleTitle:              candidate.CurrentTitle,
		AppliedCompensation:           sanitize.Text(in.AppliedCompensation),
		ProfessionalBackgroundAtApply: candidate.ProfessionalBackground,
		MainProjectsAtApply:           candidate.MainProjects,
		Snapshot:                      domain.SnapshotFromCandidate(candidate),
		AppliedAt:                     s.now(),
	}

	// An abandoned request writes nothing.
	if err := ctx.Err(); err != nil {
		return ApplicationResult{}, err
	}

	app, created, err := s.repo.InsertApplicationIfAbsent(ctx, params)
	if err != nil {
		return ApplicationResult{}, s.storeError(ctx, "insert application", err, "application not found")
	}

	s.log.WithContext(ctx).ApplicationResolved(app.ID.String(), candidate.ID.String(), position.ID.String(), created)
	if created {
		s.publish(ctx, events.ApplicationCreated{
			BaseEvent:     events.NewBaseEvent(),
			ApplicationID: app.ID,
			CandidateID:   candidate.ID,
			PositionID:    position.ID,
			ClientID:      position.ClientID,
			CandidateName: candidate.FullName,
			Stage:         string(app.StageKey),
			Actor:         logger.UserIDFromContext(ctx),
		})
	}
	return ApplicationResult{Application: app, Created: created}, nil
}

// ApplyNewCandidate runs the new-candidate flow: a candidate with the exact
// same email is reused instead of duplicated, then the pair is resolved with
// CreateOrGetApplication. Validation and the position lookup happen before
// any write.
func (s *Service) ApplyNewCandidate(ctx context.Context, req transport.ApplyNewCandidateRequest) (ApplyResult, error) {
	params := s.candidateParams(req.Candidate)
	if err := validateCandidateIdentity(params); err != nil {
		return ApplyResult{}, err
	}

	position, err := s.fetchPosition(ctx, req.PositionID)
	if err != nil {
		return ApplyResult{}, err
	}

	if err := ctx.Err(); err != nil {
		return ApplyResult{}, err
	}
	candidate, candidateCreated, err := s.repo.InsertCandidateIfAbsent(ctx, params)
	if err != nil {
		return ApplyResult{}, s.storeError(ctx, "insert candidate", err, "candidate not found")
	}
	if candidateCreated {
		s.cache.putCandidate(ctx, candidate)
		s.log.WithContext(ctx).Info("candidate created", "candidate_id", candidate.ID)
	}

	result, err := s.CreateOrGetApplication(ctx, CreateApplicationInput{
		CandidateID:         candidate.ID,
		PositionID:          position.ID,
		AppliedCompensation: req.AppliedCompensation,
	})
	if err != nil {
		return ApplyResult{}, err
	}
	return ApplyResult{ApplicationResult: result, CandidateCreated: candidateCreated}, nil
}

func (s *Service) GetApplication(ctx context.Context, id uuid.UUID) (domain.Application, error) {
	app, err := s.repo.GetApplication(ctx, id)
	if err != nil {
		return domain.Application{}, s.storeError(ctx, "get application", err, "application not found")
	}
	return app, nil
}

func (s *Service) ListApplications(ctx context.Context, positionID uuid.UUID, req transport.PageQuery) (transport.ListResponse[domain.Application], error) {
	if _, err := s.GetPosition(ctx, positionID); err != nil {
		return transport.ListResponse[domain.Application]{}, err
	}
	page, err := s.repo.ListApplications(ctx, repository.ListApplicationsParams{
		PageParams: repository.PageParams{Cursor: req.Cursor, Limit: req.Limit},
		PositionID: positionID,
	})
	if err != nil {
		return transport.ListResponse[domain.Application]{}, s.storeError(ctx, "list applications", err, "application not found")
	}
	return transport.ListResponse[domain.Application]{Items: page.Items, NextCursor: page.NextCursor}, nil
}

// MoveStage sets an application's stage. Only canonical keys are accepted.
// Moving to the stage the application already resolves to is a no-op.
func (s *Service) MoveStage(ctx context.Context, applicationID uuid.UUID, req transport.MoveStageRequest) (domain.Application, error) {
	target, ok := domain.ParseStageKey(req.Stage)
	if !ok {
		return domain.Application{}, apperr.ValidationFields(apperr.FieldErrors{"stage": "stage must be a pipeline stage"})
	}

	app, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return domain.Application{}, err
	}

	from, _ := domain.ResolveStage(app)
	if from == target && app.StageKey == target {
		return app, nil
	}

	if err := ctx.Err(); err != nil {
		return domain.Application{}, err
	}
	updated, err := s.repo.UpdateApplicationStage(ctx, applicationID, target)
	if err != nil {
		return domain.Application{}, s.storeError(ctx, "update application stage", err, "application not found")
	}

	s.publish(ctx, events.ApplicationStageChanged{
		BaseEvent:     events.NewBaseEvent(),
		ApplicationID: updated.ID,
		PositionID:    updated.PositionID,
		FromStage:     string(from),
		ToStage:       string(target),
		Actor:         logger.UserIDFromContext(ctx),
	})
	s.log.WithContext(ctx).Info("application stage moved", "application_id", updated.ID, "from", from, "to", target)
	return updated, nil
}

func (s *Service) ListApplicationActivity(ctx context.Context, applicationID uuid.UUID) ([]repository.Activity, error) {
	if _, err := s.GetApplication(ctx, applicationID); err != nil {
		return nil, err
	}
	items, err := s.repo.ListApplicationActivity(ctx, applicationID, 0)
	if err != nil {
		return nil, s.storeError(ctx, "list application activity", err, "application not found")
	}
	return items, nil
}
