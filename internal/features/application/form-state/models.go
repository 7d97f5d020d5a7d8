// internal/features/application/form-state/models.go
package formstate

import (
	validateapplication "membership-portal/internal/features/application/validate-application"
	"membership-portal/internal/models"
	"membership-portal/pkg/registry"
)

// Event types
const (
	EventChange = "change"
	EventBlur   = "blur"
)

type Event struct {
	Type  string `json:"type"`
	Field string `json:"field"`
	Value string `json:"value,omitempty"`
}

// State is the form as held for one request: the record, which fields the
// applicant has interacted with, and their current errors.
type State struct {
	Application models.Application
	Touched     map[string]bool
	Errors      map[string]validateapplication.FieldError
	Submitting  bool
	Disabled    bool
}

type Options struct {
	Branches []registry.Option `json:"branches"`
	Years    []registry.Option `json:"years"`
	Roles    []string          `json:"roles"`
}

// View is what the form renders. Errors only carries touched fields.
type View struct {
	Application models.Application                        `json:"application"`
	Errors      map[string]validateapplication.FieldError `json:"errors"`
	Touched     []string                                  `json:"touched"`
	Disabled    bool                                      `json:"disabled"`
	Submitting  bool                                      `json:"submitting"`
	Options     Options                                   `json:"options"`
	Message     string                                    `json:"message,omitempty"`
}

type Input struct {
	Application models.Application `json:"application"`
	Touched     []string           `json:"touched"`
	Disabled    bool               `json:"disabled"`
	Events      []Event            `json:"events"`
}

type Output struct {
	View    *View `json:"view"`
	Changed bool  `json:"changed"`
}
