// internal/common/auth/google.go
package auth

import (
	"context"
	"fmt"
	"time"

	"membership-portal/internal/common/config"
	"membership-portal/internal/common/errors"
	httpclient "membership-portal/internal/common/http"
	"membership-portal/internal/models"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/endpoints"
)

const DefaultUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// IdentityProvider is the sign-in surface the portal needs from an OAuth provider.
type IdentityProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (*models.GoogleProfile, error)
}

// GoogleProvider signs applicants in with Google, hinting the institutional domain.
type GoogleProvider struct {
	oauth        *oauth2.Config
	client       *httpclient.Client
	userInfoURL  string
	hostedDomain string
}

type GoogleOption func(*GoogleProvider)

// WithEndpoint overrides the Google OAuth endpoints.
func WithEndpoint(endpoint oauth2.Endpoint) GoogleOption {
	return func(g *GoogleProvider) {
		g.oauth.Endpoint = endpoint
	}
}

func NewGoogleProvider(cfg config.GoogleOAuthConfig, hostedDomain string, opts ...GoogleOption) *GoogleProvider {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	userInfoURL := cfg.UserInfoURL
	if userInfoURL == "" {
		userInfoURL = DefaultUserInfoURL
	}

	g := &GoogleProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Endpoint:     endpoints.Google,
			Scopes:       []string{"openid", "email", "profile"},
		},
		client:       httpclient.NewClient(timeout),
		userInfoURL:  userInfoURL,
		hostedDomain: hostedDomain,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AuthCodeURL returns the consent URL for state. The hd parameter only
// narrows the account picker; the domain is checked again after exchange.
func (g *GoogleProvider) AuthCodeURL(state string) string {
	opts := []oauth2.AuthCodeOption{
		oauth2.SetAuthURLParam("prompt", "select_account"),
	}
	if g.hostedDomain != "" {
		opts = append(opts,
			oauth2.SetAuthURLParam("hd", g.hostedDomain),
			oauth2.SetAuthURLParam("login_hint", g.hostedDomain),
		)
	}
	return g.oauth.AuthCodeURL(state, opts...)
}

// Exchange trades an authorization code for the signed-in user's profile.
func (g *GoogleProvider) Exchange(ctx context.Context, code string) (*models.GoogleProfile, error) {
	if code == "" {
		return nil, errors.NewAuthenticationError("missing authorization code")
	}

	ctx = context.WithValue(ctx, oauth2.HTTPClient, g.client.Standard())
	token, err := g.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.NewAuthenticationError(fmt.Sprintf("code exchange failed: %v", err))
	}

	var profile models.GoogleProfile
	if err := g.client.GetJSON(ctx, g.userInfoURL, token.AccessToken, &profile); err != nil {
		return nil, errors.NewExternalServiceError("google-userinfo", err)
	}
	if profile.ID == "" || profile.Email == "" {
		return nil, errors.NewAuthenticationError("profile is missing id or email")
	}
	if !profile.VerifiedEmail {
		return nil, errors.NewAuthenticationError("email address is not verified")
	}
	return &profile, nil
}
