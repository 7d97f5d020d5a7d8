// internal/features/admin/list-applications/config.go
package listapplications

import (
	"time"

	"membership-portal/internal/common/config"
)

type Config struct {
	ReadTimeout time.Duration
}

func LoadConfig(cfg config.StoreConfig) *Config {
	c := &Config{ReadTimeout: 30 * time.Second}
	if cfg.Timeout > 0 {
		c.ReadTimeout = time.Duration(cfg.Timeout) * time.Millisecond
	}
	return c
}
