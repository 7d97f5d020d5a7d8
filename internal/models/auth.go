package models

// AuthProvider represents OAuth provider types
type AuthProvider string

const (
	ProviderGoogle AuthProvider = "google"
)

// Identity is the authenticated applicant as emitted by the identity provider.
type Identity struct {
	UID         string       `json:"uid"`
	DisplayName string       `json:"displayName"`
	Email       string       `json:"email"`
	Provider    AuthProvider `json:"provider,omitempty"`
}

// GoogleProfile represents the user profile from the Google userinfo API
type GoogleProfile struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	VerifiedEmail bool   `json:"verified_email"`
	Name          string `json:"name"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	HD            string `json:"hd,omitempty"`
}

// Identity converts the profile into the portal identity.
func (p *GoogleProfile) Identity() Identity {
	name := p.Name
	if name == "" {
		name = p.GivenName
		if p.FamilyName != "" {
			name += " " + p.FamilyName
		}
	}
	return Identity{
		UID:         p.ID,
		DisplayName: name,
		Email:       p.Email,
		Provider:    ProviderGoogle,
	}
}
