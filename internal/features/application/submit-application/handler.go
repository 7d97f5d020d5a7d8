// internal/features/application/submit-application/handler.go
package submitapplication

import (
	"context"
	"errors"
	"time"

	commonerrors "membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/common/metrics"
	sendconfirmation "membership-portal/internal/features/application/send-confirmation"
	validateapplication "membership-portal/internal/features/application/validate-application"
	applicationstore "membership-portal/internal/features/data-access/application-store"
	"membership-portal/internal/models"
)

const (
	FeatureName = "submit-application"
)

// RecordStore is the part of the application store a submission needs.
type RecordStore interface {
	Get(ctx context.Context, id string) (*models.Application, error)
	Put(ctx context.Context, id string, app *models.Application) error
}

// DraftCanceller drops a pending auto-save so it cannot land after the final write.
type DraftCanceller interface {
	Cancel(uid string) bool
}

type Notifier interface {
	Execute(ctx context.Context, input *sendconfirmation.Input) (*sendconfirmation.Output, error)
}

type Handler struct {
	config    *Config
	store     RecordStore
	drafts    DraftCanceller
	validator *validateapplication.Handler
	notifier  Notifier
	logger    logger.Logger
	now       func() time.Time
}

func NewHandler(
	config *Config,
	store RecordStore,
	drafts DraftCanceller,
	validator *validateapplication.Handler,
	notifier Notifier,
	log logger.Logger,
) *Handler {
	return &Handler{
		config:    config,
		store:     store,
		drafts:    drafts,
		validator: validator,
		notifier:  notifier,
		logger:    log.WithFields(map[string]interface{}{"feature": FeatureName}),
		now:       time.Now,
	}
}

// Execute validates the whole form and, when it passes, performs the one
// unconditional write that marks the record submitted.
func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	uid := input.Identity.UID
	out := &Output{ApplicationID: uid}

	if !h.config.FormOpen {
		metrics.Submissions.WithLabelValues(metrics.ResultDenied).Inc()
		return out, commonerrors.NewFormClosedError()
	}

	app := input.Application
	app.FullName = input.Identity.DisplayName
	app.Email = input.Identity.Email

	result := h.validator.ValidateForm(&app)
	if !result.Valid {
		metrics.Submissions.WithLabelValues(metrics.ResultInvalid).Inc()
		out.Validation = result
		out.Message = result.Message
		return out, commonerrors.NewApplicationValidationFailedError(result.Errors)
	}

	existing, err := h.store.Get(ctx, uid)
	switch {
	case errors.Is(err, applicationstore.ErrNotFound):
	case err != nil:
		metrics.Submissions.WithLabelValues(metrics.ResultFailure).Inc()
		return out, applicationstore.ToStandardError(uid, err, false)
	case existing.Submitted:
		metrics.Submissions.WithLabelValues(metrics.ResultDenied).Inc()
		return out, commonerrors.NewApplicationAlreadySubmittedError(uid)
	}

	h.drafts.Cancel(uid)

	app.Submitted = true
	app.SubmittedAt = h.now().UTC().Format(models.SubmittedAtLayout)

	if err := h.store.Put(ctx, uid, &app); err != nil {
		metrics.Submissions.WithLabelValues(metrics.ResultFailure).Inc()
		h.logger.Error("submission write failed", map[string]interface{}{
			"applicationId": uid,
			"error":         err.Error(),
		})
		return out, applicationstore.ToStandardError(uid, err, true)
	}

	metrics.Submissions.WithLabelValues(metrics.ResultSuccess).Inc()
	h.logger.Info("application submitted", map[string]interface{}{
		"applicationId": uid,
		"year":          app.Year,
	})

	out.SubmittedAt = app.SubmittedAt
	out.Message = MessageSubmitted
	out.Redirect = RedirectSuccess
	out.NotificationStatus = h.notify(ctx, uid, app)
	return out, nil
}

func (h *Handler) notify(ctx context.Context, uid string, app models.Application) string {
	if h.notifier == nil {
		return sendconfirmation.StatusDisabled
	}
	res, err := h.notifier.Execute(ctx, &sendconfirmation.Input{ApplicationID: uid, Application: app})
	if err != nil {
		h.logger.Warn("confirmation failed", map[string]interface{}{
			"applicationId": uid,
			"error":         err.Error(),
		})
		return sendconfirmation.StatusFailed
	}
	return res.Status
}
