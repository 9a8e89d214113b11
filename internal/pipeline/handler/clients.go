package handler

import (
	"net/http"

	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ListClients lists clients.
// GET /api/v1/clients
func (h *Handler) ListClients(c *gin.Context) {
	var req transport.PageQuery
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.ListClients(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateClient creates a client.
// POST /api/v1/clients
func (h *Handler) CreateClient(c *gin.Context) {
	var req transport.CreateClientRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateClient(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetClient returns one client.
// GET /api/v1/clients/:id
func (h *Handler) GetClient(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetClient(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
