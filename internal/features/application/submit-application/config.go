// internal/features/application/submit-application/config.go
package submitapplication

import "membership-portal/internal/common/config"

type Config struct {
	FormOpen bool
}

func LoadConfig(cfg config.FormConfig) *Config {
	return &Config{FormOpen: cfg.Open}
}
