// Package httpkit provides HTTP utilities including identity abstraction.
package httpkit

import (
	"context"

	"recruit_pipeline_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

// Identity represents the authenticated recruiter.
// Authentication is delegated to an external identity provider; the service
// only reads the subject claim for attribution and logging.
type Identity interface {
	// UserID returns the recruiter's subject identifier.
	UserID() string
	// IsAuthenticated returns true if a valid token was presented.
	IsAuthenticated() bool
}

type identity struct {
	userID        string
	authenticated bool
}

func (i *identity) UserID() string        { return i.userID }
func (i *identity) IsAuthenticated() bool { return i.authenticated }

// GetIdentity extracts the Identity from a Gin context.
// Returns an unauthenticated identity if user info is not present.
func GetIdentity(c *gin.Context) Identity {
	userID, ok := c.Get(ContextUserIDKey)
	if !ok {
		return &identity{authenticated: false}
	}
	uid, ok := userID.(string)
	if !ok || uid == "" {
		return &identity{authenticated: false}
	}
	return &identity{userID: uid, authenticated: true}
}

// ActorFromContext returns the recruiter id stored on a request context, if any.
func ActorFromContext(ctx context.Context) string {
	return logger.UserIDFromContext(ctx)
}
