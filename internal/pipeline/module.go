// Package pipeline provides the recruitment pipeline bounded context module.
// This file defines the module that encapsulates setup and route registration.
package pipeline

import (
	"recruit_pipeline_backend/internal/events"
	apphttp "recruit_pipeline_backend/internal/http"
	"recruit_pipeline_backend/internal/pipeline/domain"
	"recruit_pipeline_backend/internal/pipeline/handler"
	"recruit_pipeline_backend/internal/pipeline/repository"
	"recruit_pipeline_backend/internal/pipeline/service"
	"recruit_pipeline_backend/platform/logger"
	"recruit_pipeline_backend/platform/validator"

	validatorv10 "github.com/go-playground/validator/v10"
)

// Module is the pipeline bounded context module implementing http.Module.
type Module struct {
	handler  *handler.Handler
	service  *service.Service
	timeline *TimelineRecorder
}

// NewModule registers the pipeline validation tags, subscribes the timeline
// recorder and builds the HTTP handler.
func NewModule(repo *repository.Repository, svc *service.Service, bus events.Bus, val *validator.Validator, log *logger.Logger) (*Module, error) {
	if err := RegisterValidations(val); err != nil {
		return nil, err
	}

	timeline := NewTimelineRecorder(repo, log)
	timeline.RegisterHandlers(bus)

	return &Module{
		handler:  handler.New(svc, val),
		service:  svc,
		timeline: timeline,
	}, nil
}

// RegisterValidations adds the position_status and stage_key tags.
func RegisterValidations(val *validator.Validator) error {
	if err := val.RegisterValidation("position_status", func(fl validatorv10.FieldLevel) bool {
		_, err := domain.NormalizePositionStatus(fl.Field().String())
		return err == nil
	}); err != nil {
		return err
	}
	return val.RegisterValidation("stage_key", func(fl validatorv10.FieldLevel) bool {
		_, ok := domain.ParseStageKey(fl.Field().String())
		return ok
	})
}

// Name returns the module identifier.
func (m *Module) Name() string {
	return "pipeline"
}

// Service returns the pipeline service for the background worker.
func (m *Module) Service() *service.Service {
	return m.service
}

// RegisterRoutes mounts pipeline routes on the provided router context.
func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	m.handler.RegisterRoutes(ctx.Protected)
}

// Compile-time check that Module implements http.Module
var _ apphttp.Module = (*Module)(nil)
