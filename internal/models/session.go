package models

import "time"

// Session represents a signed-in browser session
type Session struct {
	ID          string          `json:"id"`
	UserID      string          `json:"userId"`
	Email       string          `json:"email"`
	DisplayName string          `json:"displayName"`
	ViewForm    bool            `json:"viewForm,omitempty"`
	Touched     map[string]bool `json:"touched,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	ExpiresAt   time.Time       `json:"expiresAt"`
}

// IsExpired checks if session has expired
func (s *Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// Identity returns the identity the session was created for.
func (s *Session) Identity() Identity {
	return Identity{
		UID:         s.UserID,
		DisplayName: s.DisplayName,
		Email:       s.Email,
		Provider:    ProviderGoogle,
	}
}
