// internal/features/auth/auth-signin-google/service.go
package authsigningoogle

import (
	"context"
	"fmt"

	"membership-portal/internal/common/auth"
	"membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/common/metrics"
)

const (
	FeatureName = "auth-signin-google"
)

type Service struct {
	config   *Config
	logger   logger.Logger
	provider auth.IdentityProvider
	sessions SessionStore
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	return &Service{
		config:   config,
		logger:   deps.Logger.WithFields(map[string]interface{}{"feature": FeatureName}),
		provider: deps.Provider,
		sessions: deps.Sessions,
	}
}

// Begin creates a one-time state and returns the provider consent URL.
func (s *Service) Begin(ctx context.Context, input *BeginInput) (*BeginOutput, error) {
	state, err := s.sessions.NewState(ctx, input.ReturnTo)
	if err != nil {
		return nil, err
	}
	return &BeginOutput{
		AuthURL: s.provider.AuthCodeURL(state),
		State:   state,
	}, nil
}

// Execute completes the provider callback: the state must be one we issued,
// the account must belong to the allowed domain, and only then is a session
// created. Accounts outside the domain never get a session.
func (s *Service) Execute(ctx context.Context, input *Input) (*Output, error) {
	s.logger.Info("Executing Google sign-in callback", map[string]interface{}{
		"hasCode":  input.Code != "",
		"hasState": input.State != "",
	})

	if input.Error != "" {
		metrics.SignIns.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, errors.NewAuthenticationError(fmt.Sprintf("provider returned %s", input.Error))
	}

	returnTo, err := s.sessions.ConsumeState(ctx, input.State)
	if err != nil {
		metrics.SignIns.WithLabelValues(metrics.ResultInvalid).Inc()
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	profile, err := s.provider.Exchange(ctx, input.Code)
	if err != nil {
		metrics.SignIns.WithLabelValues(metrics.ResultFailure).Inc()
		s.logger.Warn("Google sign-in failed", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	identity := profile.Identity()
	if !auth.EmailHasDomain(identity.Email, s.config.AllowedDomain) {
		metrics.SignIns.WithLabelValues(metrics.ResultDenied).Inc()
		s.logger.Warn("sign-in rejected, email outside allowed domain", map[string]interface{}{
			"email":  identity.Email,
			"domain": s.config.AllowedDomain,
		})
		return nil, errors.NewDomainNotAllowedError(
			auth.DomainErrorMessage(s.config.InstitutionName, s.config.AllowedDomain),
			identity.Email,
		)
	}

	sess, err := s.sessions.Create(ctx, identity)
	if err != nil {
		metrics.SignIns.WithLabelValues(metrics.ResultFailure).Inc()
		return nil, err
	}

	metrics.SignIns.WithLabelValues(metrics.ResultSuccess).Inc()
	s.logger.Info("Google sign-in completed successfully", map[string]interface{}{
		"userId":    identity.UID,
		"sessionId": sess.ID,
	})

	return &Output{
		Success:   true,
		SessionID: sess.ID,
		ExpiresAt: sess.ExpiresAt,
		Identity:  identity,
		ReturnTo:  returnTo,
	}, nil
}
