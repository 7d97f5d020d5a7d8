// internal/transport/http/context.go
package httptransport

import (
	"context"

	"membership-portal/internal/models"
)

type contextKey int

const (
	requestIDKey contextKey = iota
	sessionKey
)

// RequestID returns the id assigned to the current request.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// SessionFrom returns the signed-in session, or nil for anonymous requests.
func SessionFrom(ctx context.Context) *models.Session {
	sess, _ := ctx.Value(sessionKey).(*models.Session)
	return sess
}

func withSession(ctx context.Context, sess *models.Session) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}
