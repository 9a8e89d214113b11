package handler

import (
	"net/http"

	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ListPositions lists positions, optionally by client and status.
// GET /api/v1/positions
func (h *Handler) ListPositions(c *gin.Context) {
	var req transport.ListPositionsQuery
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.ListPositions(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreatePosition creates a position for a client.
// POST /api/v1/positions
func (h *Handler) CreatePosition(c *gin.Context) {
	var req transport.CreatePositionRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreatePosition(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetPosition returns one position.
// GET /api/v1/positions/:id
func (h *Handler) GetPosition(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetPosition(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdatePositionStatus sets open, closed or onhold.
// PATCH /api/v1/positions/:id/status
func (h *Handler) UpdatePositionStatus(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.UpdatePositionStatusRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdatePositionStatus(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// SetFunnelMetrics replaces the funnel snapshot. The body is a loose object;
// values are coerced rather than rejected.
// PUT /api/v1/positions/:id/funnel-metrics
func (h *Handler) SetFunnelMetrics(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var raw map[string]any
	if err := c.ShouldBindJSON(&raw); err != nil {
		httpkit.Error(c, http.StatusBadRequest, msgInvalidRequest, nil)
		return
	}
	result, err := h.svc.SetFunnelMetrics(c.Request.Context(), id, raw)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// ListPositionActivity returns the position timeline.
// GET /api/v1/positions/:id/timeline
func (h *Handler) ListPositionActivity(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.ListPositionActivity(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, gin.H{"items": result})
}

// GetBoard returns the stage-grouped board.
// GET /api/v1/positions/:id/board
func (h *Handler) GetBoard(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetBoard(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// StageCounts returns per-stage counts.
// GET /api/v1/positions/:id/stage-counts
func (h *Handler) StageCounts(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.StageCounts(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
