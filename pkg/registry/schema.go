// pkg/registry/schema.go
package registry

// FormRegistry lists the selectable options of the application form.
type FormRegistry struct {
	Version     string              `json:"version"`
	LastUpdated string              `json:"lastUpdated"`
	Branches    []Option            `json:"branches"`
	Years       []Option            `json:"years"`
	Roles       map[string][]string `json:"roles"` // keyed by year value
}

// Option is a select option: the stored value and the label shown to applicants.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}
