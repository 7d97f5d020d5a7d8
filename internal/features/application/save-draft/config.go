// internal/features/application/save-draft/config.go
package savedraft

import (
	"time"

	"membership-portal/internal/common/config"
)

type Config struct {
	Debounce     time.Duration
	WriteTimeout time.Duration
}

func LoadConfig(cfg config.FormConfig) *Config {
	c := &Config{
		Debounce:     time.Duration(cfg.DraftDebounce) * time.Millisecond,
		WriteTimeout: time.Duration(cfg.DraftTimeout) * time.Millisecond,
	}
	if c.Debounce <= 0 {
		c.Debounce = time.Second
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 10 * time.Second
	}
	return c
}
