// internal/features/data-access/application-store/config.go
package applicationstore

import (
	"time"

	"membership-portal/internal/common/config"
)

type Config struct {
	Driver         string
	Collection     string
	Timeout        time.Duration
	ValidateSchema bool
}

func LoadConfig(cfg config.StoreConfig) *Config {
	timeout := time.Duration(cfg.Timeout) * time.Millisecond
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	collection := cfg.Collection
	if collection == "" {
		collection = "applications"
	}
	return &Config{
		Driver:         cfg.Driver,
		Collection:     collection,
		Timeout:        timeout,
		ValidateSchema: cfg.ValidateJSON,
	}
}
