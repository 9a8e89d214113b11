// Package http holds the wiring types shared by the router and the domain modules.
package http

import (
	"context"

	"recruit_pipeline_backend/internal/events"
	"recruit_pipeline_backend/platform/config"
	"recruit_pipeline_backend/platform/logger"
)

// RouterConfig is the slice of configuration the router reads.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
}

// HealthChecker is any backing store /api/health should ping.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App is assembled by cmd/api and passed to router.New.
type App struct {
	Config   RouterConfig
	Logger   *logger.Logger
	Health   []HealthChecker
	EventBus events.Bus
	Modules  []Module
}
