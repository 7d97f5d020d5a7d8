package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// ApplicationSchema describes the stored application document.
// Submitted records must carry a submission timestamp.
const ApplicationSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["email"],
  "additionalProperties": false,
  "properties": {
    "fullName":         {"type": "string"},
    "email":            {"type": "string", "minLength": 3},
    "rollNumber":       {"type": "string"},
    "branch":           {"type": "string"},
    "year":             {"type": "string"},
    "cgpa":             {"type": "string"},
    "phoneNumber":      {"type": "string"},
    "githubProfile":    {"type": "string"},
    "linkedinProfile":  {"type": "string"},
    "codechefProfile":  {"type": "string"},
    "resume":           {"type": "string"},
    "hasMembership":    {"type": "boolean"},
    "membershipNumber": {"type": "string"},
    "whyACM":           {"type": "string"},
    "role":             {"type": "string"},
    "role2":            {"type": "string"},
    "submitted":        {"type": "boolean"},
    "submittedAt":      {"type": "string", "pattern": "^\\d{4}-\\d{2}-\\d{2}T\\d{2}:\\d{2}:\\d{2}(\\.\\d+)?Z$"}
  },
  "if": {
    "required": ["submitted"],
    "properties": {"submitted": {"const": true}}
  },
  "then": {
    "required": ["submittedAt"]
  }
}`

type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

// RecordValidator checks documents against a compiled JSON schema.
type RecordValidator struct {
	schema *gojsonschema.Schema
}

func NewRecordValidator(schemaJSON string) (*RecordValidator, error) {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(schemaJSON))
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &RecordValidator{schema: schema}, nil
}

// NewApplicationValidator compiles ApplicationSchema.
func NewApplicationValidator() (*RecordValidator, error) {
	return NewRecordValidator(ApplicationSchema)
}

// Validate checks doc (any JSON-marshalable value) against the schema.
func (v *RecordValidator) Validate(doc interface{}) *ValidationResult {
	result, err := v.schema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return &ValidationResult{
			Valid: false,
			Errors: []ValidationError{{
				Field:   "(root)",
				Message: err.Error(),
				Code:    "UNREADABLE_DOCUMENT",
			}},
		}
	}

	out := &ValidationResult{Valid: result.Valid()}
	for _, e := range result.Errors() {
		// "if" and "then" report a summary error alongside the concrete one
		if e.Type() == "condition_then" || e.Type() == "condition_else" {
			continue
		}
		field := e.Field()
		if property, ok := e.Details()["property"].(string); ok && field == "(root)" {
			field = property
		}
		out.Errors = append(out.Errors, ValidationError{
			Field:   field,
			Message: e.Description(),
			Code:    strings.ToUpper(e.Type()),
		})
	}
	return out
}

// GetErrorMessages returns a simple list of error messages
func (vr *ValidationResult) GetErrorMessages() []string {
	messages := make([]string, len(vr.Errors))
	for i, err := range vr.Errors {
		messages[i] = fmt.Sprintf("%s: %s", err.Field, err.Message)
	}
	return messages
}

// HasErrors checks if validation has errors for specific field
func (vr *ValidationResult) HasErrors(field string) bool {
	for _, err := range vr.Errors {
		if err.Field == field {
			return true
		}
	}
	return false
}

// Summary joins all error messages into one line.
func (vr *ValidationResult) Summary() string {
	return strings.Join(vr.GetErrorMessages(), "; ")
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// ValidateEmail validates email format
func ValidateEmail(email string) bool {
	return emailPattern.MatchString(email)
}
