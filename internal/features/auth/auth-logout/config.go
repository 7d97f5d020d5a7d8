// internal/features/auth/auth-logout/config.go
package authlogout

import (
	"fmt"
	"time"
)

// Config defines the configuration for logout
type Config struct {
	// FlushTimeout bounds how long logout waits for a pending draft write.
	FlushTimeout time.Duration
}

// DefaultConfig returns default configuration values
func DefaultConfig() *Config {
	return &Config{
		FlushTimeout: 5 * time.Second,
	}
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.FlushTimeout <= 0 {
		return fmt.Errorf("flush_timeout must be positive")
	}
	return nil
}
