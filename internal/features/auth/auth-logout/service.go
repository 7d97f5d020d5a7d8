// Package authlogout ends an applicant session.
package authlogout

import (
	"context"
	"time"

	"membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
)

const (
	FeatureName = "auth-logout"
)

type Service struct {
	config   *Config
	logger   logger.Logger
	sessions SessionStore
	drafts   DraftFlusher
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger.WithFields(map[string]interface{}{"feature": FeatureName}),
		sessions: deps.Sessions,
		drafts:   deps.Drafts,
	}
}

// Execute flushes the applicant's pending draft and deletes the session.
// Logging out without a live session still succeeds.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Executing auth logout", map[string]interface{}{
		"sessionId": input.SessionID,
	})

	out := &Output{
		Success:  true,
		Message:  MessageLoggedOut,
		LogoutAt: time.Now(),
	}

	if input.SessionID == "" {
		return out, nil
	}

	sess, err := s.sessions.Get(ctx, input.SessionID)
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeSessionNotFound) {
			return out, nil
		}
		return nil, err
	}

	if s.drafts != nil {
		flushCtx, cancel := context.WithTimeout(ctx, s.config.FlushTimeout)
		err := s.drafts.Flush(flushCtx, sess.UserID)
		cancel()
		if err != nil {
			s.logger.Warn("Failed to flush pending draft on logout", map[string]interface{}{
				"userId": sess.UserID,
				"error":  err.Error(),
			})
		} else {
			out.DraftFlushed = true
		}
	}

	if err := s.sessions.Delete(ctx, sess.ID); err != nil {
		return nil, err
	}

	s.logger.Info("Auth logout completed successfully", map[string]interface{}{
		"userId":    sess.UserID,
		"sessionId": sess.ID,
	})
	return out, nil
}
