// Package httptransport serves the portal over HTTP. Handlers decode the
// request, delegate to a feature and encode the result; none of them decide
// access or validity on their own.
package httptransport

import (
	"context"
	"net/http"
	"strings"

	"membership-portal/internal/common/config"
	"membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/common/observability"
	routeguard "membership-portal/internal/features/access/route-guard"
	exportapplications "membership-portal/internal/features/admin/export-applications"
	listapplications "membership-portal/internal/features/admin/list-applications"
	formstate "membership-portal/internal/features/application/form-state"
	savedraft "membership-portal/internal/features/application/save-draft"
	submitapplication "membership-portal/internal/features/application/submit-application"
	authlogout "membership-portal/internal/features/auth/auth-logout"
	authsigningoogle "membership-portal/internal/features/auth/auth-signin-google"
	sessionstore "membership-portal/internal/features/auth/session-store"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	DefaultBasePath   = "/join"
	DefaultCookieName = "portal_session"
)

// ReadinessCheck reports whether a backing service is reachable.
type ReadinessCheck func(ctx context.Context) error

// Dependencies are the features the HTTP layer delegates to.
type Dependencies struct {
	Config        config.ServerConfig
	Logger        logger.Logger
	Observability *observability.Observability

	Sessions *sessionstore.Store
	Guard    *routeguard.Handler
	SignIn   *authsigningoogle.Service
	Logout   *authlogout.Service
	Form     *formstate.Handler
	Drafts   *savedraft.Handler
	Submit   *submitapplication.Handler
	List     *listapplications.Handler
	Export   *exportapplications.Handler

	Checks map[string]ReadinessCheck
}

type Handler struct {
	basePath     string
	cookieName   string
	cookieSecure bool

	logger logger.Logger
	errors *errors.ErrorHandler
	obs    *observability.Observability

	sessions *sessionstore.Store
	guard    *routeguard.Handler
	signIn   *authsigningoogle.Service
	logout   *authlogout.Service
	form     *formstate.Handler
	drafts   *savedraft.Handler
	submit   *submitapplication.Handler
	list     *listapplications.Handler
	export   *exportapplications.Handler
	checks   map[string]ReadinessCheck
}

func NewHandler(deps Dependencies) *Handler {
	basePath := strings.TrimSuffix(deps.Config.BasePath, "/")
	if deps.Config.BasePath == "" {
		basePath = DefaultBasePath
	}
	cookieName := deps.Config.CookieName
	if cookieName == "" {
		cookieName = DefaultCookieName
	}
	log := deps.Logger.WithFields(map[string]interface{}{"component": "http"})

	return &Handler{
		basePath:     basePath,
		cookieName:   cookieName,
		cookieSecure: deps.Config.CookieSecure,
		logger:       log,
		errors:       errors.NewErrorHandler(log),
		obs:          deps.Observability,
		sessions:     deps.Sessions,
		guard:        deps.Guard,
		signIn:       deps.SignIn,
		logout:       deps.Logout,
		form:         deps.Form,
		drafts:       deps.Drafts,
		submit:       deps.Submit,
		list:         deps.List,
		export:       deps.Export,
		checks:       deps.Checks,
	}
}

// NewRouter wires all endpoints: the portal under the base path, health checks and
// metrics at the root.
func NewRouter(deps Dependencies) http.Handler {
	return NewHandler(deps).Routes()
}

func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(h.recoverer)
	r.Use(h.requestLogger)
	r.Use(h.instrument)

	r.Get("/health", h.handleHealth)
	r.Get("/ready", h.handleReady)
	r.Handle("/metrics", promhttp.Handler())

	if h.basePath == "" {
		r.Group(h.portalRoutes)
	} else {
		r.Route(h.basePath, h.portalRoutes)
	}
	return r
}

func (h *Handler) portalRoutes(r chi.Router) {
	r.Use(h.loadSession)

	r.Get("/", h.viewHandler(routeguard.ViewSignIn))
	r.Get("/auth/google", h.handleBeginSignIn)
	r.Get("/auth/google/callback", h.handleCallback)
	r.Post("/auth/logout", h.handleLogout)

	r.Route("/api", func(r chi.Router) {
		r.Get("/view/{view}", h.handleView)

		r.Get("/form", h.handleGetForm)
		r.Patch("/form", h.handleUpdateForm)
		r.Post("/form/submit", h.handleSubmit)

		r.Get("/preview", h.viewHandler(routeguard.ViewPreview))
		r.Get("/success", h.viewHandler(routeguard.ViewSuccess))
		r.Get("/formclosed", h.viewHandler(routeguard.ViewFormClosed))

		r.Get("/admin/applications", h.handleListApplications)
		r.Get("/admin/applications/export", h.handleExportApplications)
	})
}

// viewPath maps a view to the page the browser should land on.
func (h *Handler) viewPath(view string) string {
	if view == routeguard.ViewSignIn {
		return h.basePath + "/"
	}
	return h.basePath + "/" + view
}
