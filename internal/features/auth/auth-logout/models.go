// internal/features/auth/auth-logout/models.go
package authlogout

import (
	"context"
	"time"

	"membership-portal/internal/common/logger"
	"membership-portal/internal/models"
)

const MessageLoggedOut = "Logged out successfully"

type Input struct {
	SessionID string `json:"sessionId"`
}

type Output struct {
	Success      bool      `json:"success"`
	Message      string    `json:"message"`
	DraftFlushed bool      `json:"draftFlushed"`
	LogoutAt     time.Time `json:"logoutAt"`
}

type SessionStore interface {
	Get(ctx context.Context, id string) (*models.Session, error)
	Delete(ctx context.Context, id string) error
}

// DraftFlusher writes any pending draft for uid immediately.
type DraftFlusher interface {
	Flush(ctx context.Context, uid string) error
}

// ServiceDependencies contains all external dependencies for the service
type ServiceDependencies struct {
	Sessions SessionStore
	Drafts   DraftFlusher
	Logger   logger.Logger
}
