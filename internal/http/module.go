package http

import (
	"recruit_pipeline_backend/platform/config"

	"github.com/gin-gonic/gin"
)

// Module is an HTTP-facing bounded context. The router mounts each module
// once at startup and logs its name.
type Module interface {
	Name() string
	RegisterRoutes(ctx *RouterContext)
}

// RouterContext is what the router hands to every module when mounting routes.
type RouterContext struct {
	Engine *gin.Engine
	// V1 is /api/v1 with rate limiting but no auth.
	V1 *gin.RouterGroup
	// Protected is /api/v1 behind recruiter auth when JWT_ACCESS_SECRET is set.
	Protected *gin.RouterGroup
	Config    config.JWTConfig
	// AuthMiddleware is nil when auth is disabled.
	AuthMiddleware gin.HandlerFunc
}
