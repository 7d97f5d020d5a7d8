// internal/features/access/route-guard/handler.go
package routeguard

import (
	"context"
	"errors"
	"fmt"

	"membership-portal/internal/common/auth"
	commonerrors "membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	"membership-portal/internal/models"
)

const (
	FeatureName = "route-guard"
)

type RecordReader interface {
	Get(ctx context.Context, id string) (*models.Application, error)
}

type Handler struct {
	config *Config
	store  RecordReader
	logger logger.Logger
}

func NewHandler(config *Config, store RecordReader, log logger.Logger) *Handler {
	return &Handler{
		config: config,
		store:  store,
		logger: log.WithFields(map[string]interface{}{"feature": FeatureName}),
	}
}

// Execute decides which view input.Identity may reach. Decisions that depend
// on submission state read the stored record. ViewHint renders the applicant
// read-only while that read is unavailable, and is cleared once the record
// contradicts it.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Decision, error) {
	if !knownViews[input.View] {
		return nil, commonerrors.NewInvalidRequestError(fmt.Sprintf("unknown view %q", input.View))
	}

	d, err := h.decide(ctx, input.View, input.Identity)
	if err != nil {
		if !input.ViewHint || !commonerrors.HasCode(err, commonerrors.ErrCodeStoreReadFailed) {
			return nil, err
		}
		h.logger.Warn("record unavailable, rendering from view hint", map[string]interface{}{
			"requested": input.View,
		})
		d = fromViewHint(input.View)
	}
	d.Requested = input.View
	if input.ViewHint && d.Application != nil && !d.Application.Submitted {
		d.ClearViewHint = true
	}

	h.logger.Debug("view resolved", map[string]interface{}{
		"requested":  input.View,
		"view":       d.View,
		"redirected": d.Redirected,
	})
	return d, nil
}

func (h *Handler) decide(ctx context.Context, view string, id *models.Identity) (*Decision, error) {
	if view == ViewFormClosed {
		return &Decision{View: ViewFormClosed}, nil
	}

	if id == nil {
		d := &Decision{View: ViewSignIn}
		if view != ViewSignIn {
			d.Redirected = true
		}
		if view == ViewForm || view == ViewPreview {
			d.Message = MessageLoginRequired
		}
		return d, nil
	}

	if !auth.EmailHasDomain(id.Email, h.config.AllowedDomain) {
		h.logger.Warn("signed-in account outside allowed domain", map[string]interface{}{
			"email": id.Email,
		})
		return &Decision{
			View:       ViewSignIn,
			Redirected: view != ViewSignIn,
			SignOut:    true,
			Message:    auth.DomainErrorMessage(h.config.InstitutionName, h.config.AllowedDomain),
		}, nil
	}

	if view == ViewAdmin {
		if !h.config.IsAdmin(id.Email) {
			h.logger.Warn("admin view denied", map[string]interface{}{"email": id.Email})
			return h.redirect(ctx, id, MessageUnauthorized)
		}
		return &Decision{View: ViewAdmin}, nil
	}

	record, err := h.load(ctx, id)
	if err != nil {
		return nil, err
	}
	submitted := record != nil && record.Submitted

	switch view {
	case ViewSignIn:
		d, err := h.decide(ctx, ViewForm, id)
		if err != nil {
			return nil, err
		}
		d.Redirected = true
		return d, nil

	case ViewForm:
		if submitted {
			return &Decision{
				View:        ViewSuccess,
				Redirected:  true,
				ReadOnly:    true,
				SetViewHint: true,
				Application: record,
			}, nil
		}
		if !h.config.FormOpen {
			return &Decision{View: ViewFormClosed, Redirected: true, Application: record}, nil
		}
		app := models.NewApplication(*id)
		if record != nil {
			app = *record
			app.FullName = id.DisplayName
			app.Email = id.Email
		}
		return &Decision{View: ViewForm, Application: &app}, nil

	case ViewPreview:
		if submitted {
			return &Decision{View: ViewPreview, ReadOnly: true, SetViewHint: true, Application: record}, nil
		}
		if record != nil {
			return h.redirect(ctx, id, MessageNotSubmitted)
		}
		return h.redirect(ctx, id, MessageNoApplication)

	case ViewSuccess:
		return &Decision{View: ViewSuccess, ReadOnly: submitted, SetViewHint: submitted, Application: record}, nil
	}

	return nil, commonerrors.NewInvalidRequestError(fmt.Sprintf("unknown view %q", view))
}

// fromViewHint is the read-only decision for an applicant whose session says
// the form was already submitted.
func fromViewHint(view string) *Decision {
	d := &Decision{View: view, ReadOnly: true, FromHint: true}
	switch view {
	case ViewPreview, ViewSuccess:
	default:
		d.View = ViewSuccess
		d.Redirected = true
	}
	return d
}

// redirect sends the applicant back to the start, which routes onward by state.
func (h *Handler) redirect(ctx context.Context, id *models.Identity, message string) (*Decision, error) {
	d, err := h.decide(ctx, ViewSignIn, id)
	if err != nil {
		return nil, err
	}
	d.Redirected = true
	d.Message = message
	return d, nil
}

func (h *Handler) load(ctx context.Context, id *models.Identity) (*models.Application, error) {
	record, err := h.store.Get(ctx, id.UID)
	if errors.Is(err, applicationstore.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		h.logger.Error("application read failed", map[string]interface{}{
			"uid":   id.UID,
			"error": err.Error(),
		})
		return nil, applicationstore.ToStandardError(id.UID, err, false)
	}
	return record, nil
}
