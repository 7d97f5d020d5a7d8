// internal/features/application/save-draft/models.go
package savedraft

import "membership-portal/internal/models"

type Input struct {
	Identity    models.Identity    `json:"identity"`
	Application models.Application `json:"application"`
}

type Output struct {
	Scheduled  bool   `json:"scheduled"`
	Reason     string `json:"reason,omitempty"`
	DebounceMs int64  `json:"debounceMs"`
}

// Reasons a snapshot was not scheduled
const (
	ReasonNoEmail = "no_email"
	ReasonClosed  = "closed"
)
