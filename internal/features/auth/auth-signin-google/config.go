// internal/features/auth/auth-signin-google/config.go
package authsigningoogle

import (
	"fmt"
	"time"

	"membership-portal/internal/common/config"
)

// Config defines the configuration for Google sign-in
type Config struct {
	AllowedDomain   string
	InstitutionName string
	Timeout         time.Duration
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	return &Config{
		AllowedDomain:   "somaiya.edu",
		InstitutionName: "Somaiya",
		Timeout:         10 * time.Second,
	}
}

// LoadConfig builds the sign-in config from the auth section.
func LoadConfig(cfg config.AuthConfig) *Config {
	c := DefaultConfig()
	if cfg.AllowedDomain != "" {
		c.AllowedDomain = cfg.AllowedDomain
	}
	if cfg.InstitutionName != "" {
		c.InstitutionName = cfg.InstitutionName
	}
	if cfg.Google.Timeout > 0 {
		c.Timeout = time.Duration(cfg.Google.Timeout) * time.Millisecond
	}
	return c
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.AllowedDomain == "" {
		return fmt.Errorf("allowed_domain is required")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}
