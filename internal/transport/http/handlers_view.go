// internal/transport/http/handlers_view.go
package httptransport

import (
	"context"
	"net/http"

	"membership-portal/internal/common/errors"
	routeguard "membership-portal/internal/features/access/route-guard"
	"membership-portal/internal/models"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) handleView(w http.ResponseWriter, r *http.Request) {
	h.viewHandler(chi.URLParam(r, "view"))(w, r)
}

// viewHandler answers with the guard decision for view.
func (h *Handler) viewHandler(view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		d, ok := h.resolve(w, r, view)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, d)
	}
}

// resolve runs the guard for the current session and applies its side
// effects: a wrong-domain session is ended, the cached submitted flag is
// kept in step with the stored record.
func (h *Handler) resolve(w http.ResponseWriter, r *http.Request, view string) (*routeguard.Decision, bool) {
	ctx := r.Context()
	sess := SessionFrom(ctx)

	input := &routeguard.Input{View: view}
	if sess != nil {
		id := sess.Identity()
		input.Identity = &id
		input.ViewHint = sess.ViewForm
	}

	d, err := h.guard.Execute(ctx, input)
	if err != nil {
		h.fail(w, r, err)
		return nil, false
	}

	if sess != nil {
		switch {
		case d.SignOut:
			h.endSession(ctx, w, sess)
		case d.SetViewHint:
			h.updateViewHint(ctx, sess, true)
		case d.ClearViewHint:
			h.updateViewHint(ctx, sess, false)
		}
	}
	return d, true
}

// denied converts a decision that did not land on view into the error a
// data endpoint answers with.
func denied(d *routeguard.Decision, sess *models.Session) error {
	switch {
	case d.SignOut:
		return errors.NewDomainNotAllowedError(d.Message, sess.Email)
	case sess == nil:
		return errors.NewSessionNotFoundError()
	case d.Requested == routeguard.ViewAdmin:
		return errors.NewAdminAccessDeniedError(sess.Email)
	case d.View == routeguard.ViewFormClosed:
		return errors.NewFormClosedError()
	case d.View == routeguard.ViewSuccess:
		return errors.NewFormReadOnlyError()
	}
	return errors.NewInvalidRequestError(d.Message)
}

func (h *Handler) endSession(ctx context.Context, w http.ResponseWriter, sess *models.Session) {
	if err := h.sessions.Delete(ctx, sess.ID); err != nil {
		h.logger.Warn("failed to delete session", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
	}
	h.clearSessionCookie(w)
}

func (h *Handler) updateViewHint(ctx context.Context, sess *models.Session, v bool) {
	if err := h.sessions.SetViewHint(ctx, sess, v); err != nil {
		h.logger.Warn("failed to update view hint", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
	}
}
