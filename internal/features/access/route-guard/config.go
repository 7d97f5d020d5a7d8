// internal/features/access/route-guard/config.go
package routeguard

import (
	"strings"

	"membership-portal/internal/common/config"
)

type Config struct {
	AllowedDomain   string
	InstitutionName string
	AdminEmails     []string
	FormOpen        bool
}

func LoadConfig(auth config.AuthConfig, form config.FormConfig) *Config {
	return &Config{
		AllowedDomain:   auth.AllowedDomain,
		InstitutionName: auth.InstitutionName,
		AdminEmails:     auth.AdminEmails,
		FormOpen:        form.Open,
	}
}

// IsAdmin reports whether email is on the allowlist. An empty list admits nobody.
func (c *Config) IsAdmin(email string) bool {
	for _, admin := range c.AdminEmails {
		if strings.EqualFold(strings.TrimSpace(admin), strings.TrimSpace(email)) {
			return true
		}
	}
	return false
}
