// internal/features/auth/session-store/config.go
package sessionstore

import (
	"time"

	"membership-portal/internal/common/config"
)

type Config struct {
	SessionTTL time.Duration
	StateTTL   time.Duration
}

func LoadConfig(cfg config.AuthConfig) *Config {
	c := &Config{
		SessionTTL: time.Duration(cfg.SessionTTL) * time.Second,
		StateTTL:   time.Duration(cfg.StateTTL) * time.Second,
	}
	if c.SessionTTL <= 0 {
		c.SessionTTL = 24 * time.Hour
	}
	if c.StateTTL <= 0 {
		c.StateTTL = 10 * time.Minute
	}
	return c
}
