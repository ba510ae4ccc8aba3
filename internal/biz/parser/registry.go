package parser

import (
	"errors"
	"fmt"
	"strings"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

var (
	ErrEmptyProjectName = errors.New("project name is empty")
	ErrDuplicateProject = errors.New("duplicate project name")
	ErrUnknownCategory  = errors.New("unknown project category")
)

// Registry is the read-only catalogue of known projects.
// It is safe for concurrent use once constructed.
type Registry struct {
	entries    []domain.ProjectEntry
	byName     map[string]int
	categories []domain.ProjectCategory
}

// NewRegistry validates entries and builds a registry.
// Names must be unique ignoring case and every category must be known.
func NewRegistry(entries []domain.ProjectEntry) (*Registry, error) {
	r := &Registry{
		entries: make([]domain.ProjectEntry, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}
	seenCategory := make(map[domain.ProjectCategory]bool)

	for _, e := range entries {
		name := strings.TrimSpace(e.Name)
		if name == "" {
			return nil, ErrEmptyProjectName
		}
		if !e.Category.IsValid() {
			return nil, fmt.Errorf("%w: %q for %s", ErrUnknownCategory, e.Category, name)
		}
		folded := strings.ToLower(name)
		if _, exists := r.byName[folded]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateProject, name)
		}

		e.Name = name
		if e.Key == "" {
			e.Key = strings.ReplaceAll(folded, " ", "_")
		}
		if e.FullName == "" {
			e.FullName = name
		}

		r.byName[folded] = len(r.entries)
		r.entries = append(r.entries, e)
		if !seenCategory[e.Category] {
			seenCategory[e.Category] = true
			r.categories = append(r.categories, e.Category)
		}
	}
	return r, nil
}

// LookupByName finds an entry by display name ignoring case
func (r *Registry) LookupByName(name string) (domain.ProjectEntry, bool) {
	if r == nil {
		return domain.ProjectEntry{}, false
	}
	i, ok := r.byName[strings.ToLower(name)]
	if !ok {
		return domain.ProjectEntry{}, false
	}
	return r.entries[i], true
}

// ListByCategory returns the entries of a category in registration order
func (r *Registry) ListByCategory(category domain.ProjectCategory) []domain.ProjectEntry {
	if r == nil {
		return nil
	}
	var out []domain.ProjectEntry
	for _, e := range r.entries {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Categories returns the categories in use, in first-seen order
func (r *Registry) Categories() []domain.ProjectCategory {
	if r == nil {
		return nil
	}
	out := make([]domain.ProjectCategory, len(r.categories))
	copy(out, r.categories)
	return out
}

// All returns a copy of every entry
func (r *Registry) All() []domain.ProjectEntry {
	if r == nil {
		return nil
	}
	out := make([]domain.ProjectEntry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Len returns the number of entries
func (r *Registry) Len() int {
	if r == nil {
		return 0
	}
	return len(r.entries)
}

// DefaultProjects returns the built-in catalogue
func DefaultProjects() []domain.ProjectEntry {
	return []domain.ProjectEntry{
		{Key: "ugf", Name: "UGF", FullName: "Unidade de Gestão Financeira", Category: domain.CategoryInternal, Description: "Gestão financeira e orçamentária"},
		{Key: "ugoc", Name: "UGOC", FullName: "Unidade de Gestão Operacional e Contratual", Category: domain.CategoryInternal, Description: "Gestão operacional e contratual"},
		{Key: "uac", Name: "UAC", FullName: "Unidade de Apoio e Controle", Category: domain.CategoryInternal, Description: "Apoio administrativo e controle"},
		{Key: "sebrae_sp", Name: "Sebrae SP", FullName: "Sebrae São Paulo", Category: domain.CategoryExternal, Description: "Serviço Brasileiro de Apoio às Micro e Pequenas Empresas - SP"},
		{Key: "sebrae_nacional", Name: "Sebrae Nacional", FullName: "Sebrae Nacional", Category: domain.CategoryExternal, Description: "Serviço Brasileiro de Apoio às Micro e Pequenas Empresas - Nacional"},
		{Key: "ministerio_economia", Name: "Ministério da Economia", FullName: "Ministério da Economia", Category: domain.CategoryGovernment, Description: "Ministério da Economia do Brasil"},
		{Key: "banco_central", Name: "Banco Central", FullName: "Banco Central do Brasil", Category: domain.CategoryGovernment, Description: "Banco Central do Brasil"},
		{Key: "fiesp", Name: "FIESP", FullName: "Federação das Indústrias do Estado de São Paulo", Category: domain.CategoryExternal, Description: "Federação das Indústrias do Estado de São Paulo"},
		{Key: "cni", Name: "CNI", FullName: "Confederação Nacional da Indústria", Category: domain.CategoryExternal, Description: "Confederação Nacional da Indústria"},
	}
}
