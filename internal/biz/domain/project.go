package domain

// ProjectCategory groups registry entries in listings
type ProjectCategory string

const (
	CategoryInternal   ProjectCategory = "Interno"
	CategoryExternal   ProjectCategory = "Externo"
	CategoryGovernment ProjectCategory = "Governo"
)

// ProjectCategories lists every accepted category in display order
var ProjectCategories = []ProjectCategory{CategoryInternal, CategoryExternal, CategoryGovernment}

// IsValid reports whether c is one of the fixed categories
func (c ProjectCategory) IsValid() bool {
	for _, known := range ProjectCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ProjectEntry is a known client or project that bracket tags resolve to
type ProjectEntry struct {
	Key         string          `json:"key" yaml:"key"`
	Name        string          `json:"name" yaml:"name"`
	FullName    string          `json:"full_name" yaml:"full_name"`
	Category    ProjectCategory `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
}
