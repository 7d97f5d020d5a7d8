// internal/features/application/form-state/config.go
package formstate

import "membership-portal/pkg/registry"

type Config struct {
	Registry *registry.FormRegistry
}

func LoadConfig(reg *registry.FormRegistry) *Config {
	if reg == nil {
		reg = registry.Default()
	}
	return &Config{Registry: reg}
}
