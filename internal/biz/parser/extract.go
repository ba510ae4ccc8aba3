package parser

import (
	"regexp"
	"strings"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

var projectTagRe = regexp.MustCompile(`\[([^\]]+)\]`)

// ExtractPriority classifies text by its priority markers.
// High markers win over low markers wherever they appear.
func ExtractPriority(text string, locale *Locale) domain.Priority {
	lower := strings.ToLower(text)
	if containsAny(lower, locale.HighMarkers) {
		return domain.PriorityHigh
	}
	if containsAny(lower, locale.LowMarkers) {
		return domain.PriorityLow
	}
	return domain.PriorityMedium
}

// ExtractStatus classifies text by its status phrases.
// Waiting phrases are checked before in-progress phrases.
func ExtractStatus(text string, locale *Locale) domain.Status {
	lower := strings.ToLower(text)
	if containsAny(lower, locale.WaitingPhrases) {
		return domain.StatusWaiting
	}
	if containsAny(lower, locale.InProgressPhrases) {
		return domain.StatusInProgress
	}
	return domain.StatusBacklog
}

// ExtractProject reads the first bracket tag and resolves it against the registry.
// Unknown tags are returned verbatim; no tag yields "".
func ExtractProject(text string, registry *Registry) string {
	m := projectTagRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}
	tag := m[1]
	if entry, ok := registry.LookupByName(tag); ok {
		return entry.Name
	}
	return tag
}

func containsAny(lower string, phrases []string) bool {
	for _, p := range phrases {
		if strings.Contains(lower, strings.ToLower(p)) {
			return true
		}
	}
	return false
}
