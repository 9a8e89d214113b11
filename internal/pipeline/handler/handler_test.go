package handler_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"recruit_pipeline_backend/internal/pdf"
	"recruit_pipeline_backend/internal/pipeline"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/handler"
	"recruit_pipeline_backend/internal/pipeline/pipelinetest"
	"recruit_pipeline_backend/internal/pipeline/service"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	engine    *gin.Engine
	repo      *pipelinetest.MemoryRepo
	position  domain.Position
	candidate domain.Candidate
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := pipelinetest.NewMemoryRepo()
	client := repo.AddClient("Acme")
	position := repo.AddPosition(client.ID, "Backend Engineer")
	candidate := repo.AddCandidate(domain.Candidate{FullName: "Ada Lovelace", Email: "ada@example.com", CurrentTitle: "Engineer"})

	val := validator.New()
	require.NoError(t, pipeline.RegisterValidations(val))

	svc := service.New(service.Deps{
		Repo:     repo,
		EventBus: &pipelinetest.RecordingBus{},
		Renderer: pdf.NewRenderer(),
		Now:      func() time.Time { return time.Date(2024, 3, 15, 9, 0, 0, 0, time.UTC) },
	})

	engine := gin.New()
	handler.New(svc, val).RegisterRoutes(engine.Group("/api/v1"))
	return &testAPI{engine: engine, repo: repo, position: position, candidate: candidate}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	a.engine.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return out
}

type errorBody struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details"`
}

func TestCreateApplicationCreatedThenAlreadyApplied(t *testing.T) {
	api := newTestAPI(t)
	body := transport.CreateApplicationRequest{CandidateID: api.candidate.ID, PositionID: api.position.ID}

	first := api.do(t, http.MethodPost, "/api/v1/applications", body)
	require.Equal(t, http.StatusCreated, first.Code, first.Body.String())
	created := decode[transport.ApplicationResponse](t, first)
	assert.True(t, created.Created)
	assert.Empty(t, created.Notice)

	second := api.do(t, http.MethodPost, "/api/v1/applications", body)
	require.Equal(t, http.StatusOK, second.Code)
	existing := decode[transport.ApplicationResponse](t, second)
	assert.False(t, existing.Created)
	assert.Equal(t, transport.NoticeAlreadyApplied, existing.Notice)
	assert.Equal(t, created.Application.ID, existing.Application.ID)
}

func TestCreateApplicationUnknownPosition(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/applications", transport.CreateApplicationRequest{CandidateID: api.candidate.ID, PositionID: uuid.New()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestApplyNewCandidateValidation(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/applications/new-candidate", map[string]any{
		"positionId": api.position.ID,
		"candidate":  map[string]any{"fullName": "Grace Hopper", "email": "not-an-email"},
	})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decode[errorBody](t, rec)
	assert.Contains(t, body.Details, "email")
	assert.Zero(t, api.repo.WriteCount())
}

func TestApplyNewCandidateReportsCandidateOutcome(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/v1/applications/new-candidate", map[string]any{
		"positionId": api.position.ID,
		"candidate":  map[string]any{"fullName": "Ada Lovelace", "email": "ada@example.com"},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	resp := decode[transport.ApplicationResponse](t, rec)
	require.NotNil(t, resp.CandidateCreated)
	assert.False(t, *resp.CandidateCreated)
	assert.Equal(t, api.candidate.ID, resp.Application.CandidateID)
}

func TestMalformedBodyAndID(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/applications", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	api.engine.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	assert.Equal(t, http.StatusBadRequest, api.do(t, http.MethodGet, "/api/v1/positions/not-a-uuid", nil).Code)
}

func TestSetFunnelMetricsCoercesLooseBody(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/v1/positions/"+api.position.ID.String()+"/funnel-metrics", map[string]any{
		"sourced":     -5,
		"approached":  "abc",
		"shortlisted": 3.7,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.FunnelMetrics{Shortlisted: 3}, decode[domain.FunnelMetrics](t, rec))

	bad := api.do(t, http.MethodPut, "/api/v1/positions/"+api.position.ID.String()+"/funnel-metrics", []int{1, 2})
	assert.Equal(t, http.StatusBadRequest, bad.Code)
}

func TestUpdatePositionStatusValidation(t *testing.T) {
	api := newTestAPI(t)
	path := "/api/v1/positions/" + api.position.ID.String() + "/status"

	assert.Equal(t, http.StatusUnprocessableEntity, api.do(t, http.MethodPatch, path, map[string]string{"status": "paused"}).Code)

	rec := api.do(t, http.MethodPatch, path, map[string]string{"status": "On Hold"})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, domain.PositionStatusOnHold, decode[domain.Position](t, rec).Status)
}

func TestMoveStageRejectsLegacyStatus(t *testing.T) {
	api := newTestAPI(t)
	app := api.repo.AddApplication(domain.Application{CandidateID: api.candidate.ID, PositionID: api.position.ID, StageKey: domain.StageShortlisted})
	path := "/api/v1/applications/" + app.ID.String() + "/stage"

	assert.Equal(t, http.StatusUnprocessableEntity, api.do(t, http.MethodPatch, path, map[string]string{"stage": "Interview"}).Code)

	rec := api.do(t, http.MethodPatch, path, map[string]string{"stage": "hired"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.StageHired, decode[domain.Application](t, rec).StageKey)
}

func TestBoardAndStageCounts(t *testing.T) {
	api := newTestAPI(t)
	api.repo.AddApplication(domain.Application{CandidateID: api.candidate.ID, PositionID: api.position.ID, LegacyStatus: "Interview"})
	api.repo.AddApplication(domain.Application{CandidateID: uuid.New(), PositionID: api.position.ID, LegacyStatus: "Rejected"})

	rec := api.do(t, http.MethodGet, "/api/v1/positions/"+api.position.ID.String()+"/board", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	board := decode[domain.Board](t, rec)
	require.Len(t, board.Columns, 4)
	assert.Equal(t, "Ada Lovelace", board.Columns[1].Cards[0].Name)
	assert.Equal(t, 1, board.Excluded)

	rec = api.do(t, http.MethodGet, "/api/v1/positions/"+api.position.ID.String()+"/stage-counts", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, decode[transport.StageCountsResponse](t, rec).Total)
}

func TestReportEndpoints(t *testing.T) {
	api := newTestAPI(t)
	api.repo.AddApplication(domain.Application{CandidateID: api.candidate.ID, PositionID: api.position.ID, StageKey: domain.StageShortlisted})

	rec := api.do(t, http.MethodGet, "/api/v1/positions/"+api.position.ID.String()+"/report", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[domain.ReportData](t, rec)
	assert.Equal(t, "Acme", report.ClientName)
	assert.Equal(t, "March 15, 2024", report.GeneratedOn)
	require.Len(t, report.Candidates, 1)

	rec = api.do(t, http.MethodGet, "/api/v1/positions/"+api.position.ID.String()+"/report.pdf", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/pdf", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "backend-engineer-report.pdf")
	assert.True(t, bytes.HasPrefix(rec.Body.Bytes(), []byte("%PDF")))

	rec = api.do(t, http.MethodPost, "/api/v1/positions/"+api.position.ID.String()+"/report/archive", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "archiving is not configured")
}
