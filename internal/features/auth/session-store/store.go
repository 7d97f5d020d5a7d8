// internal/features/auth/session-store/store.go
package sessionstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	commonerrors "membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	FeatureName = "session-store"

	sessionKeyPattern = "session:%s"
	stateKeyPattern   = "oauth:state:%s"
)

// Store keeps signed-in sessions and pending OAuth states in Redis.
type Store struct {
	config *Config
	client redis.Cmdable
	logger logger.Logger
	now    func() time.Time
}

func New(config *Config, client redis.Cmdable, log logger.Logger) *Store {
	return &Store{
		config: config,
		client: client,
		logger: log.WithFields(map[string]interface{}{"feature": FeatureName}),
		now:    time.Now,
	}
}

func sessionKey(id string) string {
	return fmt.Sprintf(sessionKeyPattern, id)
}

func stateKey(state string) string {
	return fmt.Sprintf(stateKeyPattern, state)
}

// Create starts a session for identity.
func (s *Store) Create(ctx context.Context, identity models.Identity) (*models.Session, error) {
	now := s.now().UTC()
	sess := &models.Session{
		ID:          uuid.New().String(),
		UserID:      identity.UID,
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		CreatedAt:   now,
		ExpiresAt:   now.Add(s.config.SessionTTL),
	}
	if err := s.write(ctx, sess, s.config.SessionTTL); err != nil {
		return nil, err
	}

	s.logger.Info("session created", map[string]interface{}{
		"sessionId": sess.ID,
		"userId":    sess.UserID,
	})
	return sess, nil
}

// Get returns SESSION_NOT_FOUND for unknown or expired sessions.
func (s *Store) Get(ctx context.Context, id string) (*models.Session, error) {
	if id == "" {
		return nil, commonerrors.NewSessionNotFoundError()
	}
	data, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, commonerrors.NewSessionNotFoundError()
	}
	if err != nil {
		return nil, commonerrors.NewSessionStoreFailedError(err)
	}

	var sess models.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("discarding unreadable session", map[string]interface{}{
			"sessionId": id,
			"error":     err.Error(),
		})
		_ = s.client.Del(ctx, sessionKey(id)).Err()
		return nil, commonerrors.NewSessionNotFoundError()
	}
	if s.now().After(sess.ExpiresAt) {
		_ = s.client.Del(ctx, sessionKey(id)).Err()
		return nil, commonerrors.NewSessionNotFoundError()
	}
	return &sess, nil
}

// Save writes sess back, keeping its original expiry.
func (s *Store) Save(ctx context.Context, sess *models.Session) error {
	ttl := sess.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		return commonerrors.NewSessionNotFoundError()
	}
	return s.write(ctx, sess, ttl)
}

func (s *Store) write(ctx context.Context, sess *models.Session, ttl time.Duration) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	if err := s.client.Set(ctx, sessionKey(sess.ID), data, ttl).Err(); err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// Delete removes the session, and with it the ViewForm hint and touched set.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, sessionKey(id)).Err(); err != nil {
		return commonerrors.NewSessionStoreFailedError(err)
	}
	return nil
}

// MarkTouched adds fields to the session's touched set.
func (s *Store) MarkTouched(ctx context.Context, sess *models.Session, fields []string) error {
	if len(fields) == 0 {
		return nil
	}
	if sess.Touched == nil {
		sess.Touched = make(map[string]bool, len(fields))
	}
	changed := false
	for _, f := range fields {
		if !sess.Touched[f] {
			sess.Touched[f] = true
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.Save(ctx, sess)
}

// SetTouched replaces the session's touched set.
func (s *Store) SetTouched(ctx context.Context, sess *models.Session, fields []string) error {
	sess.Touched = make(map[string]bool, len(fields))
	for _, f := range fields {
		sess.Touched[f] = true
	}
	return s.Save(ctx, sess)
}

// SetViewHint records the optimistic "already submitted" flag.
func (s *Store) SetViewHint(ctx context.Context, sess *models.Session, v bool) error {
	if sess.ViewForm == v {
		return nil
	}
	sess.ViewForm = v
	return s.Save(ctx, sess)
}

// NewState creates a one-time OAuth state remembering where to return.
func (s *Store) NewState(ctx context.Context, returnTo string) (string, error) {
	state := uuid.New().String()
	if err := s.client.Set(ctx, stateKey(state), returnTo, s.config.StateTTL).Err(); err != nil {
		return "", commonerrors.NewSessionStoreFailedError(err)
	}
	return state, nil
}

// ConsumeState validates and deletes state, returning the stored return target.
func (s *Store) ConsumeState(ctx context.Context, state string) (string, error) {
	if state == "" {
		return "", commonerrors.NewInvalidOAuthStateError()
	}
	returnTo, err := s.client.GetDel(ctx, stateKey(state)).Result()
	if errors.Is(err, redis.Nil) {
		return "", commonerrors.NewInvalidOAuthStateError()
	}
	if err != nil {
		return "", commonerrors.NewSessionStoreFailedError(err)
	}
	return returnTo, nil
}

func (s *Store) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}
