// internal/features/application/send-confirmation/models.go
package sendconfirmation

import "membership-portal/internal/models"

type Input struct {
	ApplicationID string             `json:"applicationId"`
	Application   models.Application `json:"application"`
}

type Output struct {
	NotificationID string `json:"notificationId"`
	Status         string `json:"status"` // "sent", "failed", "disabled"
	EmailSent      bool   `json:"emailSent"`
	EventPublished bool   `json:"eventPublished"`
	SentAt         string `json:"sentAt"` // ISO 8601
}

// SubmissionEvent is published to the admin topic.
type SubmissionEvent struct {
	Type           string `json:"type"`
	NotificationID string `json:"notificationId"`
	ApplicationID  string `json:"applicationId"`
	FullName       string `json:"fullName"`
	Email          string `json:"email"`
	Year           string `json:"year"`
	Branch         string `json:"branch"`
	Role           string `json:"role"`
	Role2          string `json:"role2"`
	SubmittedAt    string `json:"submittedAt"`
}

// Notification types
const (
	TypeApplicationSubmitted = "application_submitted"
)

// Statuses
const (
	StatusSent     = "sent"
	StatusFailed   = "failed"
	StatusDisabled = "disabled"
)
