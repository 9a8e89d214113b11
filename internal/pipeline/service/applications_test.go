package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/pipelinetest"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 15, 23, 30, 0, 0, time.UTC)

type fixture struct {
	repo      *pipelinetest.MemoryRepo
	bus       *pipelinetest.RecordingBus
	svc       *Service
	client    domain.Client
	position  domain.Position
	candidate domain.Candidate
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	repo := pipelinetest.NewMemoryRepo()
	bus := &pipelinetest.RecordingBus{}
	client := repo.AddClient("Acme")
	position := repo.AddPosition(client.ID, "Backend Engineer")
	candidate := repo.AddCandidate(domain.Candidate{
		FullName:               "Ada Lovelace",
		Email:                  "ada@example.com",
		CurrentTitle:           "Senior Engineer",
		ProfessionalBackground: "Ten years of Go",
		MainProjects:           "Analytical engine",
		HardSkills:             []string{"Go"},
	})
	svc := New(Deps{
		Repo:     repo,
		EventBus: bus,
		Now:      func() time.Time { return fixedNow },
	})
	return &fixture{repo: repo, bus: bus, svc: svc, client: client, position: position, candidate: candidate}
}

func (f *fixture) input() CreateApplicationInput {
	return CreateApplicationInput{CandidateID: f.candidate.ID, PositionID: f.position.ID}
}

func TestCreateOrGetApplicationIsIdempotent(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	first, err := f.svc.CreateOrGetApplication(ctx, f.input())
	require.NoError(t, err)
	assert.True(t, first.Created)

	second, err := f.svc.CreateOrGetApplication(ctx, f.input())
	require.NoError(t, err)
	assert.False(t, second.Created)
	assert.Equal(t, first.Application.ID, second.Application.ID)

	assert.Equal(t, 1, f.repo.ApplicationCount())
	assert.Equal(t, []string{"pipeline.application.created"}, f.bus.Names())
}

func TestCreateOrGetApplicationSeedsFromCandidateProfile(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.CreateOrGetApplication(context.Background(), CreateApplicationInput{
		CandidateID:         f.candidate.ID,
		PositionID:          f.position.ID,
		AppliedCompensation: "  90k EUR ",
	})
	require.NoError(t, err)

	app := res.Application
	assert.Equal(t, domain.StageShortlisted, app.StageKey)
	assert.Equal(t, f.client.ID, app.ClientID)
	assert.Equal(t, "Senior Engineer", app.AppliedRoleTitle)
	assert.Equal(t, "90k EUR", app.AppliedCompensation)
	assert.Equal(t, "Ten years of Go", app.ProfessionalBackgroundAtApply)
	assert.Equal(t, "Analytical engine", app.MainProjectsAtApply)
	require.NotNil(t, app.Snapshot)
	assert.Equal(t, "Ada Lovelace", app.Snapshot.FullName)
	assert.Equal(t, fixedNow, app.AppliedAt)
}

func TestCreateOrGetApplicationSeedsShortlisted(t *testing.T) {
	f := newFixture(t)
	f.repo.AddApplication(domain.Application{CandidateID: uuid.New(), PositionID: f.position.ID, StageKey: domain.StageHired})

	res, err := f.svc.CreateOrGetApplication(context.Background(), f.input())
	require.NoError(t, err)
	require.True(t, res.Created)
	assert.Equal(t, domain.StageShortlisted, res.Application.StageKey)

	stored, err := f.repo.GetApplication(context.Background(), res.Application.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.StageShortlisted, stored.StageKey)
}

func TestCreateOrGetApplicationLostRace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	winner, err := f.svc.CreateOrGetApplication(ctx, f.input())
	require.NoError(t, err)

	// The pre-check misses but the conditional insert finds the row.
	f.repo.HideNextPairLookup = true
	loser, err := f.svc.CreateOrGetApplication(ctx, f.input())
	require.NoError(t, err)

	assert.False(t, loser.Created)
	assert.Equal(t, winner.Application.ID, loser.Application.ID)
	assert.Len(t, f.bus.Names(), 1)
}

func TestCreateOrGetApplicationConcurrentCallers(t *testing.T) {
	f := newFixture(t)

	const callers = 16
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		created int
		ids     = map[uuid.UUID]struct{}{}
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.svc.CreateOrGetApplication(context.Background(), f.input())
			if err != nil {
				t.Errorf("unexpected error: %v", err)
				return
			}
			mu.Lock()
			defer mu.Unlock()
			if res.Created {
				created++
			}
			ids[res.Application.ID] = struct{}{}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Len(t, ids, 1)
	assert.Equal(t, 1, f.repo.ApplicationCount())
}

func TestCreateOrGetApplicationRejectsMismatchedClient(t *testing.T) {
	f := newFixture(t)
	in := f.input()
	in.ClientID = uuid.New()

	_, err := f.svc.CreateOrGetApplication(context.Background(), in)
	assert.True(t, apperr.Is(err, apperr.KindValidation))
	assert.Zero(t, f.repo.WriteCount())
}

func TestCreateOrGetApplicationMissingReferences(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateOrGetApplication(context.Background(), CreateApplicationInput{CandidateID: f.candidate.ID, PositionID: uuid.New()})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	_, err = f.svc.CreateOrGetApplication(context.Background(), CreateApplicationInput{CandidateID: uuid.New(), PositionID: f.position.ID})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	assert.Zero(t, f.repo.WriteCount())
	assert.Empty(t, f.bus.Names())
}

func TestCreateOrGetApplicationCanceledWritesNothing(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.CreateOrGetApplication(ctx, f.input())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.repo.WriteCount())
	assert.Empty(t, f.bus.Names())
}

func TestCreateOrGetApplicationStoreFailure(t *testing.T) {
	f := newFixture(t)
	f.repo.FailInsertApp = errors.New("connection reset")

	_, err := f.svc.CreateOrGetApplication(context.Background(), f.input())
	assert.True(t, apperr.Is(err, apperr.KindStore))
	assert.Empty(t, f.bus.Names())

	// Retrying after the failure succeeds.
	f.repo.FailInsertApp = nil
	res, err := f.svc.CreateOrGetApplication(context.Background(), f.input())
	require.NoError(t, err)
	assert.True(t, res.Created)
}

func newCandidateRequest(f *fixture, email string) transport.ApplyNewCandidateRequest {
	return transport.ApplyNewCandidateRequest{
		PositionID: f.position.ID,
		Candidate: transport.CandidateRequest{
			FullName:     "Margaret Hamilton",
			Email:        email,
			CurrentTitle: "Flight Software Lead",
		},
	}
}

func TestApplyNewCandidateCreatesCandidateAndApplication(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ApplyNewCandidate(context.Background(), newCandidateRequest(f, "margaret@example.com"))
	require.NoError(t, err)
	assert.True(t, res.CandidateCreated)
	assert.True(t, res.Created)
	assert.Equal(t, "Flight Software Lead", res.Application.AppliedRoleTitle)
}

func TestApplyNewCandidateReusesExactEmail(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ApplyNewCandidate(context.Background(), newCandidateRequest(f, "ada@example.com"))
	require.NoError(t, err)
	assert.False(t, res.CandidateCreated)
	assert.True(t, res.Created)
	assert.Equal(t, f.candidate.ID, res.Application.CandidateID)

	again, err := f.svc.ApplyNewCandidate(context.Background(), newCandidateRequest(f, "ada@example.com"))
	require.NoError(t, err)
	assert.False(t, again.Created)
	assert.Equal(t, res.Application.ID, again.Application.ID)
}

func TestApplyNewCandidateEmailIsCaseSensitive(t *testing.T) {
	f := newFixture(t)

	res, err := f.svc.ApplyNewCandidate(context.Background(), newCandidateRequest(f, "Ada@example.com"))
	require.NoError(t, err)
	assert.True(t, res.CandidateCreated)
	assert.NotEqual(t, f.candidate.ID, res.Application.CandidateID)
}

func TestApplyNewCandidateValidatesBeforeWriting(t *testing.T) {
	f := newFixture(t)
	req := newCandidateRequest(f, "  ")
	req.Candidate.FullName = " "

	_, err := f.svc.ApplyNewCandidate(context.Background(), req)
	require.True(t, apperr.Is(err, apperr.KindValidation))

	fields := err.(*apperr.Error).Details.(apperr.FieldErrors)
	assert.Contains(t, fields, "fullName")
	assert.Contains(t, fields, "email")
	assert.Zero(t, f.repo.WriteCount())
}

func TestApplyNewCandidateUnknownPositionWritesNothing(t *testing.T) {
	f := newFixture(t)
	req := newCandidateRequest(f, "new@example.com")
	req.PositionID = uuid.New()

	_, err := f.svc.ApplyNewCandidate(context.Background(), req)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
	assert.Zero(t, f.repo.WriteCount())
}

func TestApplyNewCandidateCanceled(t *testing.T) {
	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.ApplyNewCandidate(ctx, newCandidateRequest(f, "new@example.com"))
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.repo.WriteCount())
}

func TestMoveStage(t *testing.T) {
	f := newFixture(t)
	res, err := f.svc.CreateOrGetApplication(context.Background(), f.input())
	require.NoError(t, err)

	moved, err := f.svc.MoveStage(context.Background(), res.Application.ID, transport.MoveStageRequest{Stage: "client_interview_2"})
	require.NoError(t, err)
	assert.Equal(t, domain.StageClientInterview2, moved.StageKey)
	assert.Equal(t, []string{"pipeline.application.created", "pipeline.application.stage_changed"}, f.bus.Names())

	// Same stage again is a no-op.
	_, err = f.svc.MoveStage(context.Background(), res.Application.ID, transport.MoveStageRequest{Stage: "client_interview_2"})
	require.NoError(t, err)
	assert.Len(t, f.bus.Names(), 2)
}

func TestMoveStageLegacyApplicationGetsCanonicalKey(t *testing.T) {
	f := newFixture(t)
	app := f.repo.AddApplication(domain.Application{
		CandidateID:  f.candidate.ID,
		PositionID:   f.position.ID,
		ClientID:     f.client.ID,
		LegacyStatus: "Hired",
	})

	moved, err := f.svc.MoveStage(context.Background(), app.ID, transport.MoveStageRequest{Stage: "hired"})
	require.NoError(t, err)
	assert.Equal(t, domain.StageHired, moved.StageKey)
}

func TestMoveStageRejectsUnknownStage(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.MoveStage(context.Background(), uuid.New(), transport.MoveStageRequest{Stage: "Interviewing"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = f.svc.MoveStage(context.Background(), uuid.New(), transport.MoveStageRequest{Stage: "hired"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
