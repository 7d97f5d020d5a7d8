// internal/features/application/validate-application/config.go
package validateapplication

import "membership-portal/pkg/registry"

type Config struct {
	MinMotivationWords int
	// Registry enables option checks for branch, year and roles. Nil skips them.
	Registry *registry.FormRegistry
}

func LoadConfig() *Config {
	return &Config{
		MinMotivationWords: 30,
		Registry:           registry.Default(),
	}
}
