// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
)

const (
	YearSecond = "2"
	YearThird  = "3"
)

// Default returns the built-in registry used when no registry file is configured.
func Default() *FormRegistry {
	return &FormRegistry{
		Version: "1.0.0",
		Branches: []Option{
			{Value: "CSE", Label: "Computer Science"},
			{Value: "IT", Label: "Information Technology"},
			{Value: "AIDS", Label: "AI & Data Science"},
			{Value: "EXTC", Label: "Electronics & Telecommunication"},
		},
		Years: []Option{
			{Value: YearSecond, Label: "Second Year"},
			{Value: YearThird, Label: "Third Year"},
		},
		Roles: map[string][]string{
			YearSecond: {
				"Technical Team",
				"Creative Team",
				"Marketing Team",
				"Public Relations Team",
				"Operations Team",
			},
			YearThird: {
				"Technical Head",
				"Creative Head",
				"Marketing Head",
				"Public Relations Head",
				"Operations Head",
			},
		},
	}
}

func LoadRegistry(path string) (*FormRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg FormRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse registry %s: %w", path, err)
	}
	if err := reg.Validate(); err != nil {
		return nil, err
	}
	return &reg, nil
}

// LoadOrDefault loads path when set, otherwise returns Default().
func LoadOrDefault(path string) (*FormRegistry, error) {
	if path == "" {
		return Default(), nil
	}
	return LoadRegistry(path)
}

// Validate checks that every year has a role list and no list repeats an entry.
func (r *FormRegistry) Validate() error {
	if len(r.Branches) == 0 {
		return fmt.Errorf("registry has no branches")
	}
	if len(r.Years) == 0 {
		return fmt.Errorf("registry has no years")
	}
	if err := uniqueValues("branch", r.Branches); err != nil {
		return err
	}
	if err := uniqueValues("year", r.Years); err != nil {
		return err
	}
	for _, year := range r.Years {
		roles := r.Roles[year.Value]
		if len(roles) < 2 {
			return fmt.Errorf("year %q needs at least two roles, got %d", year.Value, len(roles))
		}
		seen := make(map[string]bool, len(roles))
		for _, role := range roles {
			if role == "" {
				return fmt.Errorf("year %q has an empty role", year.Value)
			}
			if seen[role] {
				return fmt.Errorf("year %q lists role %q twice", year.Value, role)
			}
			seen[role] = true
		}
	}
	return nil
}

// RoleOptions returns the roles selectable for year, or nil when the year is unknown.
func (r *FormRegistry) RoleOptions(year string) []string {
	roles := r.Roles[year]
	if len(roles) == 0 {
		return nil
	}
	out := make([]string, len(roles))
	copy(out, roles)
	return out
}

func (r *FormRegistry) HasBranch(value string) bool {
	return hasOption(r.Branches, value)
}

func (r *FormRegistry) HasYear(value string) bool {
	return hasOption(r.Years, value)
}

// HasRole reports whether role is selectable for year.
func (r *FormRegistry) HasRole(year, role string) bool {
	for _, candidate := range r.Roles[year] {
		if candidate == role {
			return true
		}
	}
	return false
}

func hasOption(options []Option, value string) bool {
	for _, o := range options {
		if o.Value == value {
			return true
		}
	}
	return false
}

func uniqueValues(kind string, options []Option) error {
	seen := make(map[string]bool, len(options))
	for _, o := range options {
		if o.Value == "" {
			return fmt.Errorf("registry has an empty %s value", kind)
		}
		if seen[o.Value] {
			return fmt.Errorf("registry lists %s %q twice", kind, o.Value)
		}
		seen[o.Value] = true
	}
	return nil
}
