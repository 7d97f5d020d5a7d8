// internal/transport/http/handlers_form.go
package httptransport

import (
	"net/http"
	"sort"

	"membership-portal/internal/common/errors"
	routeguard "membership-portal/internal/features/access/route-guard"
	formstate "membership-portal/internal/features/application/form-state"
	submitapplication "membership-portal/internal/features/application/submit-application"
	"membership-portal/internal/models"
)

type formResponse struct {
	Decision *routeguard.Decision `json:"decision"`
	Form     *formstate.View      `json:"form,omitempty"`
}

type formUpdateRequest struct {
	Events []formstate.Event `json:"events"`
}

type submitResponse struct {
	Result *submitapplication.Output `json:"result"`
	Form   *formstate.View           `json:"form,omitempty"`
	Error  *errors.StandardError     `json:"error,omitempty"`
}

// handleGetForm returns the form view model, or only the decision when the
// guard routes the applicant elsewhere.
func (h *Handler) handleGetForm(w http.ResponseWriter, r *http.Request) {
	d, ok := h.resolve(w, r, routeguard.ViewForm)
	if !ok {
		return
	}

	resp := formResponse{Decision: d}
	if d.View == routeguard.ViewForm {
		sess := SessionFrom(r.Context())
		state := h.form.Hydrate(h.currentDraft(sess, d), touchedFields(sess), d.ReadOnly)
		resp.Form = h.form.View(state)
	}
	writeJSON(w, http.StatusOK, resp)
}

// handleUpdateForm applies change and blur events and schedules the
// debounced draft save when a value changed.
func (h *Handler) handleUpdateForm(w http.ResponseWriter, r *http.Request) {
	d, sess, ok := h.requireForm(w, r)
	if !ok {
		return
	}

	var req formUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, errors.NewInvalidRequestError(err.Error()))
		return
	}

	ctx := r.Context()
	out, err := h.form.Execute(ctx, &formstate.Input{
		Application: h.currentDraft(sess, d),
		Touched:     touchedFields(sess),
		Disabled:    d.ReadOnly,
		Events:      req.Events,
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.sessions.SetTouched(ctx, sess, out.View.Touched); err != nil {
		h.logger.Warn("failed to persist touched fields", map[string]interface{}{
			"sessionId": sess.ID,
			"error":     err.Error(),
		})
	}
	if out.Changed {
		h.drafts.Schedule(sess.Identity(), out.View.Application)
	}

	writeJSON(w, http.StatusOK, formResponse{Decision: d, Form: out.View})
}

// handleSubmit performs the final submit of the applicant's current form.
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	d, sess, ok := h.requireForm(w, r)
	if !ok {
		return
	}

	ctx := r.Context()
	app := h.currentDraft(sess, d)
	out, err := h.submit.Execute(ctx, &submitapplication.Input{
		Identity:    sess.Identity(),
		Application: app,
	})
	if err != nil {
		if out == nil || out.Validation == nil {
			h.fail(w, r, err)
			return
		}
		// every field is touched after a submit attempt
		if err := h.sessions.MarkTouched(ctx, sess, out.Validation.Touched); err != nil {
			h.logger.Warn("failed to persist touched fields", map[string]interface{}{
				"sessionId": sess.ID,
				"error":     err.Error(),
			})
		}
		state := h.form.Hydrate(app, touchedFields(sess), false)
		h.form.AttemptSubmit(state)
		stdErr := errors.Normalize(err)
		writeJSON(w, errors.StatusCode(stdErr), submitResponse{
			Result: out,
			Form:   h.form.View(state),
			Error:  stdErr,
		})
		return
	}

	h.updateViewHint(ctx, sess, true)
	writeJSON(w, http.StatusOK, submitResponse{Result: out})
}

// requireForm admits only requests the guard lets onto the editable form.
func (h *Handler) requireForm(w http.ResponseWriter, r *http.Request) (*routeguard.Decision, *models.Session, bool) {
	d, ok := h.resolve(w, r, routeguard.ViewForm)
	if !ok {
		return nil, nil, false
	}
	sess := SessionFrom(r.Context())
	if d.View != routeguard.ViewForm || sess == nil {
		h.fail(w, r, denied(d, sess))
		return nil, nil, false
	}
	return d, sess, true
}

// currentDraft prefers a snapshot still waiting for its quiet period over
// the stored record, which may be older.
func (h *Handler) currentDraft(sess *models.Session, d *routeguard.Decision) models.Application {
	var app models.Application
	if d.Application != nil {
		app = *d.Application
	}
	if sess == nil {
		return app
	}
	if pending, ok := h.drafts.Pending(sess.UserID); ok {
		app = *pending
		app.FullName = sess.DisplayName
		app.Email = sess.Email
	}
	return app
}

func touchedFields(sess *models.Session) []string {
	if sess == nil {
		return nil
	}
	fields := make([]string, 0, len(sess.Touched))
	for f, ok := range sess.Touched {
		if ok {
			fields = append(fields, f)
		}
	}
	sort.Strings(fields)
	return fields
}
