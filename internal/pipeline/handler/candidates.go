package handler

import (
	"net/http"

	"recruit_pipeline_backend/internal/pipeline/transport"
	"recruit_pipeline_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// ListCandidates lists candidates.
// GET /api/v1/candidates
func (h *Handler) ListCandidates(c *gin.Context) {
	var req transport.PageQuery
	if !h.bindQuery(c, &req) {
		return
	}
	result, err := h.svc.ListCandidates(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// CreateCandidate creates a candidate profile.
// POST /api/v1/candidates
func (h *Handler) CreateCandidate(c *gin.Context) {
	var req transport.CandidateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.CreateCandidate(c.Request.Context(), req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.JSON(c, http.StatusCreated, result)
}

// GetCandidate returns one candidate.
// GET /api/v1/candidates/:id
func (h *Handler) GetCandidate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	result, err := h.svc.GetCandidate(c.Request.Context(), id)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// UpdateCandidate replaces the candidate profile.
// PUT /api/v1/candidates/:id
func (h *Handler) UpdateCandidate(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.CandidateRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.UpdateCandidate(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// RequestPhotoUpload returns a presigned photo upload URL.
// POST /api/v1/candidates/:id/photos/presign
func (h *Handler) RequestPhotoUpload(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.PhotoUploadRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.RequestPhotoUpload(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}

// AttachPhoto records an uploaded photo.
// POST /api/v1/candidates/:id/photos
func (h *Handler) AttachPhoto(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req transport.AttachPhotoRequest
	if !h.bindJSON(c, &req) {
		return
	}
	result, err := h.svc.AttachPhoto(c.Request.Context(), id, req)
	if httpkit.HandleError(c, err) {
		return
	}
	httpkit.OK(c, result)
}
