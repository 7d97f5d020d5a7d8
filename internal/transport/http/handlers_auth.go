// internal/transport/http/handlers_auth.go
package httptransport

import (
	"net/http"

	"membership-portal/internal/common/errors"
	routeguard "membership-portal/internal/features/access/route-guard"
	authlogout "membership-portal/internal/features/auth/auth-logout"
	authsigningoogle "membership-portal/internal/features/auth/auth-signin-google"
)

// handleBeginSignIn redirects to the provider's consent page.
func (h *Handler) handleBeginSignIn(w http.ResponseWriter, r *http.Request) {
	returnTo := r.URL.Query().Get("returnTo")
	if !routeguard.IsView(returnTo) {
		returnTo = ""
	}

	out, err := h.signIn.Begin(r.Context(), &authsigningoogle.BeginInput{ReturnTo: returnTo})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, out.AuthURL, http.StatusFound)
}

// handleCallback completes sign-in, sets the session cookie and sends the
// browser wherever the guard routes the new session.
func (h *Handler) handleCallback(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := h.signIn.Execute(r.Context(), &authsigningoogle.Input{
		Code:  q.Get("code"),
		State: q.Get("state"),
		Error: q.Get("error"),
	})
	if err != nil {
		if errors.HasCode(err, errors.ErrCodeDomainNotAllowed) {
			h.clearSessionCookie(w)
		}
		h.fail(w, r, err)
		return
	}

	h.setSessionCookie(w, out.SessionID, out.ExpiresAt)

	view := out.ReturnTo
	if view == "" {
		view = routeguard.ViewSignIn
	}
	identity := out.Identity
	d, err := h.guard.Execute(r.Context(), &routeguard.Input{View: view, Identity: &identity})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	http.Redirect(w, r, h.viewPath(d.View), http.StatusFound)
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	input := &authlogout.Input{}
	if sess := SessionFrom(r.Context()); sess != nil {
		input.SessionID = sess.ID
	}

	out, err := h.logout.Execute(r.Context(), input)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.clearSessionCookie(w)
	writeJSON(w, http.StatusOK, out)
}
