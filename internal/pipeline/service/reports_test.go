package service

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"recruit_pipeline_backend/internal/adapters/storage"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeStorage struct {
	uploads []string
}

func (s *fakeStorage) GenerateUploadURL(_ context.Context, bucket, folder, fileName, _ string, _ int64) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://files/" + bucket + "/" + folder + "/" + fileName, FileKey: folder + "/" + fileName}, nil
}

func (s *fakeStorage) GenerateDownloadURL(_ context.Context, bucket, fileKey string) (*storage.PresignedURL, error) {
	return &storage.PresignedURL{URL: "https://files/" + bucket + "/" + fileKey, FileKey: fileKey}, nil
}

func (s *fakeStorage) UploadFile(_ context.Context, _, folder, fileName, _ string, reader io.Reader, _ int64) (string, error) {
	if _, err := io.ReadAll(reader); err != nil {
		return "", err
	}
	key := folder + "/" + fileName
	s.uploads = append(s.uploads, key)
	return key, nil
}

type fakeRenderer struct {
	last domain.ReportData
	err  error
}

func (r *fakeRenderer) Render(data domain.ReportData) ([]byte, error) {
	r.last = data
	if r.err != nil {
		return nil, r.err
	}
	return []byte("%PDF-1.3"), nil
}

type fakeArchiver struct {
	positions []uuid.UUID
	days      []time.Time
}

func (a *fakeArchiver) EnqueueReportArchive(_ context.Context, positionID uuid.UUID, day time.Time) (string, error) {
	a.positions = append(a.positions, positionID)
	a.days = append(a.days, day)
	return "report-archive:" + positionID.String(), nil
}

func TestBuildReportOrdersAndFilters(t *testing.T) {
	f := newFixture(t)
	grace := f.repo.AddCandidate(domain.Candidate{FullName: "Grace Hopper", Email: "grace@example.com"})

	f.repo.AddApplication(domain.Application{CandidateID: f.candidate.ID, PositionID: f.position.ID, StageKey: domain.StageHired})
	f.repo.AddApplication(domain.Application{CandidateID: grace.ID, PositionID: f.position.ID, LegacyStatus: " Screening "})
	f.repo.AddApplication(domain.Application{CandidateID: uuid.New(), PositionID: f.position.ID, LegacyStatus: "Rejected"})

	report, err := f.svc.BuildReport(context.Background(), f.position.ID)
	require.NoError(t, err)

	assert.Equal(t, "Acme", report.ClientName)
	assert.Equal(t, "Backend Engineer", report.PositionTitle)
	assert.Equal(t, "March 15, 2024", report.GeneratedOn)
	require.Len(t, report.Candidates, 2)
	assert.Equal(t, "Grace Hopper", report.Candidates[0].Name)
	assert.Equal(t, "Ada Lovelace", report.Candidates[1].Name)
}

func TestBuildReportUsesReportTimezone(t *testing.T) {
	f := newFixture(t)
	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)
	f.svc = New(Deps{Repo: f.repo, ReportTimeLoc: tokyo, Now: func() time.Time { return fixedNow }})

	report, err := f.svc.BuildReport(context.Background(), f.position.ID)
	require.NoError(t, err)
	assert.Equal(t, "March 16, 2024", report.GeneratedOn)
}

func TestBuildReportMissingClientUsesDefault(t *testing.T) {
	f := newFixture(t)
	orphan := f.repo.AddPosition(uuid.New(), "")

	report, err := f.svc.BuildReport(context.Background(), orphan.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultClientName, report.ClientName)
	assert.NotNil(t, report.Candidates)
}

func TestBuildReportErrors(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.BuildReport(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	f.repo.FailListApps = errors.New("timeout")
	_, err = f.svc.BuildReport(context.Background(), f.position.ID)
	assert.True(t, apperr.Is(err, apperr.KindStore))
}

func TestRenderReportPDF(t *testing.T) {
	f := newFixture(t)
	renderer := &fakeRenderer{}
	f.svc = New(Deps{Repo: f.repo, Renderer: renderer, Now: func() time.Time { return fixedNow }})

	pdf, name, err := f.svc.RenderReportPDF(context.Background(), f.position.ID)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.3", string(pdf))
	assert.Equal(t, "backend-engineer-report.pdf", name)
	assert.Equal(t, "Backend Engineer", renderer.last.PositionTitle)

	renderer.err = errors.New("font missing")
	_, _, err = f.svc.RenderReportPDF(context.Background(), f.position.ID)
	assert.True(t, apperr.Is(err, apperr.KindInternal))
}

func TestRenderReportPDFNotConfigured(t *testing.T) {
	f := newFixture(t)
	_, _, err := f.svc.RenderReportPDF(context.Background(), f.position.ID)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestRequestReportArchive(t *testing.T) {
	f := newFixture(t)
	archiver := &fakeArchiver{}
	f.svc = New(Deps{Repo: f.repo, Storage: &fakeStorage{}, Archiver: archiver, Now: func() time.Time { return fixedNow }})

	resp, err := f.svc.RequestReportArchive(context.Background(), f.position.ID)
	require.NoError(t, err)
	assert.Equal(t, "queued", resp.Status)
	assert.Equal(t, []uuid.UUID{f.position.ID}, archiver.positions)

	_, err = f.svc.RequestReportArchive(context.Background(), uuid.New())
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestRequestReportArchiveNotConfigured(t *testing.T) {
	f := newFixture(t)
	_, err := f.svc.RequestReportArchive(context.Background(), f.position.ID)
	assert.True(t, apperr.Is(err, apperr.KindBadRequest))
}

func TestArchiveReportUploadsAndRecords(t *testing.T) {
	f := newFixture(t)
	store := &fakeStorage{}
	f.svc = New(Deps{
		Repo:     f.repo,
		EventBus: f.bus,
		Storage:  store,
		Renderer: &fakeRenderer{},
		Buckets:  Buckets{Reports: "reports"},
		Now:      func() time.Time { return fixedNow },
	})

	archive, err := f.svc.ArchiveReport(context.Background(), f.position.ID)
	require.NoError(t, err)
	assert.Equal(t, f.position.ID.String()+"/backend-engineer-report.pdf", archive.ObjectKey)
	assert.Equal(t, "March 15, 2024", archive.GeneratedOn)
	assert.Equal(t, []string{archive.ObjectKey}, store.uploads)
	assert.Equal(t, []string{"pipeline.report.archived"}, f.bus.Names())

	listed, err := f.svc.ListReportArchives(context.Background(), f.position.ID)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "https://files/reports/"+archive.ObjectKey, listed[0].DownloadURL)
}

func TestBoardAndStageCounts(t *testing.T) {
	f := newFixture(t)
	f.repo.AddApplication(domain.Application{CandidateID: f.candidate.ID, PositionID: f.position.ID, StageKey: domain.StageClientInterview1})
	f.repo.AddApplication(domain.Application{
		CandidateID: uuid.New(),
		PositionID:  f.position.ID,
		StageKey:    domain.StageClientInterview1,
		Snapshot:    &domain.CandidateSnapshot{FullName: "Former Candidate"},
	})
	f.repo.AddApplication(domain.Application{CandidateID: uuid.New(), PositionID: f.position.ID, LegacyStatus: "offer"})

	board, err := f.svc.GetBoard(context.Background(), f.position.ID)
	require.NoError(t, err)
	require.Len(t, board.Columns, len(domain.Stages))
	assert.Len(t, board.Columns[1].Cards, 2)
	assert.Len(t, board.Columns[0].Cards, 0)

	counts, err := f.svc.StageCounts(context.Background(), f.position.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, counts.Total)
	assert.Equal(t, domain.StageClientInterview1, counts.Stages[1].Stage)
	assert.Equal(t, 2, counts.Stages[1].Count)
}
