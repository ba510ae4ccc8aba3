package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/br"
)

type whenFallback struct {
	w       *when.Parser
	ordinal *regexp.Regexp
	suffix  *regexp.Regexp
	cues    map[string]bool
}

// WhenFallbackStrategy resolves free-form Portuguese date expressions
// ("sexta-feira", "3 de março", "dentro de 2 dias").
func WhenFallbackStrategy() DeadlineStrategy {
	return newWhenFallback(PtBR)
}

func newWhenFallback(locale *Locale) *whenFallback {
	w := when.New(nil)
	w.Add(br.All...)

	s := &whenFallback{w: w, cues: make(map[string]bool, len(locale.WeekdayCues))}
	if len(locale.OrdinalWeekdays) > 0 {
		words := make([]string, len(locale.OrdinalWeekdays))
		for i, word := range locale.OrdinalWeekdays {
			words[i] = regexp.QuoteMeta(strings.ToLower(word))
		}
		s.ordinal = regexp.MustCompile(`(?:^|[^\p{L}])(` + strings.Join(words, "|") + `)(?:[^\p{L}]|$)`)
	}
	if locale.WeekdaySuffix != "" {
		s.suffix = regexp.MustCompile(`^[\s-]*` + regexp.QuoteMeta(strings.ToLower(locale.WeekdaySuffix)))
	}
	for _, cue := range locale.WeekdayCues {
		s.cues[strings.ToLower(cue)] = true
	}
	return s
}

func (s *whenFallback) Name() string { return "fallback" }

func (s *whenFallback) Resolve(text string, today time.Time) (time.Time, bool) {
	r, err := s.w.Parse(text, today)
	if err != nil || r == nil {
		return time.Time{}, false
	}
	if s.bareOrdinal(text, r) {
		return time.Time{}, false
	}
	return r.Time, true
}

// bareOrdinal reports whether the match rests on a weekday name used as an
// ordinal: no suffix after it, no cue word before it, no digits in the match
func (s *whenFallback) bareOrdinal(text string, r *when.Result) bool {
	if s.ordinal == nil {
		return false
	}
	lower := strings.ToLower(text)
	start, end := r.Index, r.Index+len(r.Text)
	if start < 0 || end > len(lower) || start > end {
		start, end = 0, len(lower)
	}
	span := lower[start:end]
	if strings.ContainsAny(span, "0123456789") {
		return false
	}
	m := s.ordinal.FindStringSubmatchIndex(span)
	if m == nil {
		return false
	}
	wordStart, wordEnd := start+m[2], start+m[3]

	if s.suffix != nil && s.suffix.MatchString(lower[wordEnd:]) {
		return false
	}
	before := strings.Fields(lower[:wordStart])
	if len(before) > 0 && s.cues[strings.Trim(before[len(before)-1], ",.;:()")] {
		return false
	}
	return true
}
