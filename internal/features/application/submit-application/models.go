// internal/features/application/submit-application/models.go
package submitapplication

import (
	validateapplication "membership-portal/internal/features/application/validate-application"
	"membership-portal/internal/models"
)

type Input struct {
	Identity    models.Identity    `json:"identity"`
	Application models.Application `json:"application"`
}

type Output struct {
	ApplicationID      string                      `json:"applicationId"`
	SubmittedAt        string                      `json:"submittedAt,omitempty"`
	Message            string                      `json:"message"`
	Redirect           string                      `json:"redirect,omitempty"`
	Validation         *validateapplication.Output `json:"validation,omitempty"`
	NotificationStatus string                      `json:"notificationStatus,omitempty"`
}

const (
	MessageSubmitted = "Application submitted successfully!"
	RedirectSuccess  = "/success"
)
