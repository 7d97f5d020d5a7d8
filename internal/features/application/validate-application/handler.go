// internal/features/application/validate-application/handler.go
package validateapplication

import (
	"context"
	"fmt"
	"strings"

	"membership-portal/internal/common/errors"
	"membership-portal/internal/common/logger"
	"membership-portal/internal/models"
)

const (
	FeatureName = "validate-application"
)

type rule struct {
	valid   func(value string) bool
	message string
}

type Handler struct {
	config *Config
	logger logger.Logger
	rules  map[string]rule
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	if config == nil {
		config = LoadConfig()
	}
	return &Handler{
		config: config,
		logger: log.WithFields(map[string]interface{}{"feature": FeatureName}),
		rules:  buildRules(config.MinMotivationWords),
	}
}

func buildRules(minWords int) map[string]rule {
	return map[string]rule{
		models.FieldRollNumber:       {rollNumberRegex.MatchString, "Roll number must be exactly 11 digits"},
		models.FieldPhoneNumber:      {phoneRegex.MatchString, "Please enter a valid phone number"},
		models.FieldGithubProfile:    {githubRegex.MatchString, "Please enter a valid GitHub profile link"},
		models.FieldLinkedinProfile:  {linkedinRegex.MatchString, "Please enter a valid LinkedIn profile link"},
		models.FieldCodechefProfile:  {codechefRegex.MatchString, "Please enter a valid Codechef profile link"},
		models.FieldResume:           {resumeRegex.MatchString, "Please enter a valid Resume link"},
		models.FieldCGPA:             {cgpaRegex.MatchString, "CGPA must be between 0 and 10 with at most two decimals"},
		models.FieldMembershipNumber: {membershipNumberRegex.MatchString, "Membership number must be exactly 7 digits"},
		models.FieldWhyACM: {
			func(v string) bool { return hasAtLeastWords(v, minWords) },
			fmt.Sprintf("Please write at least %d words", minWords),
		},
	}
}

var defaultRules = buildRules(30)

func hasAtLeastWords(text string, n int) bool {
	return len(strings.Fields(text)) >= n
}

// FieldIsValid classifies a single value. Empty values are invalid; fields
// without a format rule only need to be non-empty.
func FieldIsValid(name, value string) bool {
	if strings.TrimSpace(value) == "" {
		return false
	}
	if r, ok := defaultRules[name]; ok {
		return r.valid(value)
	}
	return true
}

// ValidateField checks one field of app. It returns nil when the field is
// valid or not subject to validation.
func (h *Handler) ValidateField(app *models.Application, name string) *FieldError {
	if name == models.FieldMembershipNumber && !app.HasMembership {
		return nil
	}
	if !isValidated(name) {
		return nil
	}
	value, _ := app.Field(name)

	if strings.TrimSpace(value) == "" {
		return &FieldError{Field: name, Code: CodeMissingRequired, Message: Label(name) + " is required"}
	}
	if r, ok := h.rules[name]; ok && !r.valid(value) {
		return &FieldError{Field: name, Code: CodeInvalidFormat, Message: r.message}
	}
	if msg, ok := h.checkOption(app, name, value); !ok {
		return &FieldError{Field: name, Code: CodeInvalidOption, Message: msg}
	}
	return nil
}

func (h *Handler) checkOption(app *models.Application, name, value string) (string, bool) {
	reg := h.config.Registry
	if reg == nil {
		return "", true
	}
	switch name {
	case models.FieldBranch:
		return "Please select a valid branch", reg.HasBranch(value)
	case models.FieldYear:
		return "Please select a valid year", reg.HasYear(value)
	case models.FieldRole, models.FieldRole2:
		return "Please select a role offered for your year", reg.HasRole(app.Year, value)
	}
	return "", true
}

func isValidated(name string) bool {
	if name == models.FieldMembershipNumber {
		return true
	}
	for _, f := range requiredFields {
		if f == name {
			return true
		}
	}
	return false
}

// ValidateForm runs every required-field check plus the role collision rule
// and marks every form field touched.
func (h *Handler) ValidateForm(app *models.Application) *Output {
	out := &Output{
		Errors:  make(map[string]FieldError),
		Touched: append([]string(nil), models.FormFields...),
	}

	fields := requiredFields
	if app.HasMembership {
		fields = append(append([]string(nil), requiredFields...), models.FieldMembershipNumber)
	}
	for _, f := range fields {
		if fe := h.ValidateField(app, f); fe != nil {
			out.Errors[f] = *fe
		}
	}

	if app.Role != "" && app.Role == app.Role2 {
		for _, f := range []string{models.FieldRole, models.FieldRole2} {
			out.Errors[f] = FieldError{Field: f, Code: CodeRoleConflict, Message: MessageRoleConflict}
		}
	}

	out.Valid = len(out.Errors) == 0
	if !out.Valid {
		out.Message = MessageFillAllFields
		if onlyRoleConflict(out.Errors) {
			out.Message = MessageRoleConflict
		}
	}
	return out
}

func onlyRoleConflict(errs map[string]FieldError) bool {
	for _, fe := range errs {
		if fe.Code != CodeRoleConflict {
			return false
		}
	}
	return len(errs) > 0
}

// Execute validates input and returns APPLICATION_VALIDATION_FAILED with the
// per-field errors when the form cannot be submitted.
func (h *Handler) Execute(_ context.Context, input *Input) (*Output, error) {
	out := h.ValidateForm(&input.Application)

	h.logger.Info("validation completed", map[string]interface{}{
		"isValid":    out.Valid,
		"errorCount": len(out.Errors),
	})

	if !out.Valid {
		return out, errors.NewApplicationValidationFailedError(out.Errors)
	}
	return out, nil
}
