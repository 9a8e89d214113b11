package handler

import (
	"net/http"

	"recruit_pipeline_backend/internal/pipeline/service"
	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/httpkit"
	"recruit_pipeline_backend/platform/validator"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// Handler handles HTTP requests for the recruitment pipeline.
type Handler struct {
	svc *service.Service
	val *validator.Validator
}

const (
	msgInvalidRequest = "invalid request"
	msgInvalidID      = "invalid id"
)

// New creates a new pipeline handler.
func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterRoutes mounts the pipeline routes on rg.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	clients := rg.Group("/clients")
	clients.GET("", h.ListClients)
	clients.POST("", h.CreateClient)
	clients.GET("/:id", h.GetClient)

	positions := rg.Group("/positions")
	positions.GET("", h.ListPositions)
	positions.POST("", h.CreatePosition)
	positions.GET("/:id", h.GetPosition)
	positions.PATCH("/:id/status", h.UpdatePositionStatus)
	positions.PUT("/:id/funnel-metrics", h.SetFunnelMetrics)
	positions.GET("/:id/applications", h.ListApplications)
	positions.GET("/:id/board", h.GetBoard)
	positions.GET("/:id/stage-counts", h.StageCounts)
	positions.GET("/:id/timeline", h.ListPositionActivity)
	positions.GET("/:id/report", h.GetReport)
	positions.GET("/:id/report.pdf", h.GetReportPDF)
	positions.POST("/:id/report/archive", h.ArchiveReport)
	positions.GET("/:id/report/archives", h.ListReportArchives)

	candidates := rg.Group("/candidates")
	candidates.GET("", h.ListCandidates)
	candidates.POST("", h.CreateCandidate)
	candidates.GET("/:id", h.GetCandidate)
	candidates.PUT("/:id", h.UpdateCandidate)
	candidates.POST("/:id/photos/presign", h.RequestPhotoUpload)
	candidates.POST("/:id/photos", h.AttachPhoto)

	applications := rg.Group("/applications")
	applications.POST("", h.CreateOrGetApplication)
	applications.POST("/new-candidate", h.ApplyNewCandidate)
	applications.GET("/:id", h.GetApplication)
	applications.PATCH("/:id/stage", h.MoveStage)
	applications.GET("/:id/timeline", h.ListApplicationActivity)
}

// bindJSON decodes and validates a JSON body. It writes the error response
// and returns false on failure.
func (h *Handler) bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	return !httpkit.HandleError(c, h.val.Struct(req))
}

func (h *Handler) bindQuery(c *gin.Context, req any) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return false
	}
	return !httpkit.HandleError(c, h.val.Struct(req))
}

func pathID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidID, nil)
		return uuid.Nil, false
	}
	return id, true
}

// respondApplication maps the create-or-get outcome: a new application is
// 201, an existing one is 200 with an "already applied" notice.
func respondApplication(c *gin.Context, result service.ApplicationResult, candidateCreated *bool) {
	resp := transport.ApplicationResponse{
		Application:      result.Application,
		Created:          result.Created,
		CandidateCreated: candidateCreated,
	}
	if !result.Created {
		resp.Notice = transport.NoticeAlreadyApplied
		httpkit.OK(c, resp)
		return
	}
	httpkit.JSON(c, http.StatusCreated, resp)
}
