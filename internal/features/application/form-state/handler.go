// internal/features/application/form-state/handler.go
package formstate

import (
	"context"
	"fmt"
	"sort"

	"membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	validateapplication "membership-portal/internal/features/application/validate-application"
	"membership-portal/internal/models"
)

const (
	FeatureName = "form-state"
)

type Handler struct {
	config    *Config
	validator *validateapplication.Handler
	logger    logger.Logger
}

func NewHandler(config *Config, validator *validateapplication.Handler, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig(nil)
	}
	return &Handler{
		config:    config,
		validator: validator,
		logger:    log.WithFields(map[string]interface{}{"feature": FeatureName}),
	}
}

// Hydrate rebuilds the state for app, revalidating every touched field.
func (h *Handler) Hydrate(app models.Application, touched []string, disabled bool) *State {
	s := &State{
		Application: app,
		Touched:     make(map[string]bool, len(touched)),
		Errors:      make(map[string]validateapplication.FieldError),
		Disabled:    disabled,
	}
	for _, f := range touched {
		if _, ok := app.Field(f); !ok {
			continue
		}
		s.Touched[f] = true
		h.revalidate(s, f)
	}
	return s
}

// Apply handles one change or blur event.
func (h *Handler) Apply(s *State, ev Event) error {
	if s.Disabled {
		return errors.NewFormReadOnlyError()
	}
	switch ev.Type {
	case EventChange:
		return h.change(s, ev.Field, ev.Value)
	case EventBlur:
		return h.blur(s, ev.Field)
	default:
		return errors.NewInvalidRequestError(fmt.Sprintf("unknown event type %q", ev.Type))
	}
}

func (h *Handler) change(s *State, field, value string) error {
	previousYear := s.Application.Year
	if err := s.Application.SetField(field, value); err != nil {
		return errors.NewInvalidRequestError(err.Error())
	}
	s.Touched[field] = true
	h.revalidate(s, field)

	switch field {
	case models.FieldYear:
		// role lists depend on the year
		if value != previousYear {
			for _, f := range []string{models.FieldRole, models.FieldRole2} {
				_ = s.Application.SetField(f, "")
				delete(s.Touched, f)
				delete(s.Errors, f)
			}
		}
	case models.FieldHasMembership:
		h.revalidate(s, models.FieldMembershipNumber)
	}
	return nil
}

func (h *Handler) blur(s *State, field string) error {
	if _, ok := s.Application.Field(field); !ok {
		return errors.NewInvalidRequestError(fmt.Sprintf("unknown field %q", field))
	}
	s.Touched[field] = true
	h.revalidate(s, field)
	return nil
}

func (h *Handler) revalidate(s *State, field string) {
	if fe := h.validator.ValidateField(&s.Application, field); fe != nil {
		s.Errors[field] = *fe
		return
	}
	delete(s.Errors, field)
}

// AttemptSubmit runs whole-form validation, touching every field. The state
// is marked submitting only when the form is valid.
func (h *Handler) AttemptSubmit(s *State) *validateapplication.Output {
	out := h.validator.ValidateForm(&s.Application)
	for _, f := range out.Touched {
		s.Touched[f] = true
	}
	s.Errors = out.Errors
	s.Submitting = out.Valid && !s.Disabled
	return out
}

// VisibleErrors returns the errors of touched fields.
func (h *Handler) VisibleErrors(s *State) map[string]validateapplication.FieldError {
	visible := make(map[string]validateapplication.FieldError)
	for f, fe := range s.Errors {
		if s.Touched[f] {
			visible[f] = fe
		}
	}
	return visible
}

// RoleOptions lists the roles offered for year.
func (h *Handler) RoleOptions(year string) []string {
	return h.config.Registry.RoleOptions(year)
}

func (h *Handler) View(s *State) *View {
	touched := make([]string, 0, len(s.Touched))
	for f := range s.Touched {
		touched = append(touched, f)
	}
	sort.Strings(touched)

	return &View{
		Application: s.Application,
		Errors:      h.VisibleErrors(s),
		Touched:     touched,
		Disabled:    s.Disabled,
		Submitting:  s.Submitting,
		Options: Options{
			Branches: h.config.Registry.Branches,
			Years:    h.config.Registry.Years,
			Roles:    h.RoleOptions(s.Application.Year),
		},
	}
}

// Execute hydrates the state, applies the events in order and returns the
// resulting view. Changed reports whether any field value was modified.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	s := h.Hydrate(input.Application, input.Touched, input.Disabled)

	changed := false
	for _, ev := range input.Events {
		if err := h.Apply(s, ev); err != nil {
			h.logger.Debug("form event rejected", map[string]interface{}{
				"type":  ev.Type,
				"field": ev.Field,
				"error": err.Error(),
			})
			return nil, err
		}
		if ev.Type == EventChange {
			changed = true
		}
	}

	return &Output{View: h.View(s), Changed: changed}, nil
}
