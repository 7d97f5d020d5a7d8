// internal/features/auth/auth-signin-google/models.go
package authsigningoogle

import (
	"context"
	"time"

	"membership-portal/internal/common/auth"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/models"
)

// BeginInput starts a sign-in; ReturnTo is the view to land on afterwards.
type BeginInput struct {
	ReturnTo string `json:"returnTo,omitempty"`
}

type BeginOutput struct {
	AuthURL string `json:"authUrl"`
	State   string `json:"state"`
}

// Input is the provider callback.
type Input struct {
	Code  string `json:"code"`
	State string `json:"state"`
	// Error is set when the provider reports a failure, e.g. access_denied.
	Error string `json:"error,omitempty"`
}

type Output struct {
	Success   bool            `json:"success"`
	SessionID string          `json:"sessionId"`
	ExpiresAt time.Time       `json:"expiresAt"`
	Identity  models.Identity `json:"identity"`
	ReturnTo  string          `json:"returnTo,omitempty"`
}

// SessionStore is the part of the session store sign-in needs.
type SessionStore interface {
	NewState(ctx context.Context, returnTo string) (string, error)
	ConsumeState(ctx context.Context, state string) (string, error)
	Create(ctx context.Context, identity models.Identity) (*models.Session, error)
}

// ServiceDependencies contains all external dependencies for the service
type ServiceDependencies struct {
	Provider auth.IdentityProvider
	Sessions SessionStore
	Logger   logger.Logger
}
