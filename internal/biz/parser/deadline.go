package parser

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

// DeadlineStrategy finds a calendar date in free text.
// today is midnight of the anchor date in the resolver's zone.
type DeadlineStrategy interface {
	Name() string
	Resolve(text string, today time.Time) (time.Time, bool)
}

// DeadlineResolver runs strategies in order; the first hit wins
type DeadlineResolver struct {
	loc        *time.Location
	strategies []DeadlineStrategy
}

// NewDeadlineResolver creates a resolver anchored to loc
func NewDeadlineResolver(loc *time.Location, strategies ...DeadlineStrategy) *DeadlineResolver {
	if loc == nil {
		loc = time.UTC
	}
	return &DeadlineResolver{loc: loc, strategies: strategies}
}

// Location returns the zone dates are resolved in
func (r *DeadlineResolver) Location() *time.Location {
	return r.loc
}

// Strategies returns the strategy names in evaluation order
func (r *DeadlineResolver) Strategies() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the first date any strategy finds, or a zero Deadline.
// It never panics.
func (r *DeadlineResolver) Resolve(text string, now time.Time) domain.Deadline {
	today := startOfDay(now.In(r.loc))
	for _, s := range r.strategies {
		if t, ok := tryResolve(s, text, today); ok {
			return domain.NewDeadline(t.In(r.loc))
		}
	}
	return domain.Deadline{}
}

func tryResolve(s DeadlineStrategy, text string, today time.Time) (t time.Time, ok bool) {
	defer func() {
		if recover() != nil {
			t, ok = time.Time{}, false
		}
	}()
	return s.Resolve(text, today)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// relativeDay handles "amanhã" and "hoje"
type relativeDay struct {
	tomorrow []string
	today    []string
}

// RelativeDayStrategy resolves relative-day words
func RelativeDayStrategy(locale *Locale) DeadlineStrategy {
	return &relativeDay{tomorrow: locale.TomorrowWords, today: locale.TodayWords}
}

func (s *relativeDay) Name() string { return "relative_day" }

func (s *relativeDay) Resolve(text string, today time.Time) (time.Time, bool) {
	lower := strings.ToLower(text)
	if containsAny(lower, s.tomorrow) {
		return today.AddDate(0, 0, 1), true
	}
	if containsAny(lower, s.today) {
		return today, true
	}
	return time.Time{}, false
}

// halfMonth handles "primeira/segunda quinzena de <mês>"
type halfMonth struct {
	patterns []*regexp.Regexp
	days     []int
	months   map[string]time.Month
}

// HalfMonthStrategy resolves half-month idioms to their fixed day in the current year
func HalfMonthStrategy(locale *Locale) DeadlineStrategy {
	s := &halfMonth{months: locale.Months}
	for _, h := range locale.HalfMonths {
		expr := `(?i)` + spacedPhrase(h.Phrase) + `\s+` + regexp.QuoteMeta(locale.MonthJoiner) + `\s+(\p{L}+)`
		s.patterns = append(s.patterns, regexp.MustCompile(expr))
		s.days = append(s.days, h.Day)
	}
	return s
}

func (s *halfMonth) Name() string { return "half_month" }

func (s *halfMonth) Resolve(text string, today time.Time) (time.Time, bool) {
	for i, re := range s.patterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		month, ok := s.months[strings.ToLower(m[1])]
		if !ok {
			continue
		}
		return time.Date(today.Year(), month, s.days[i], 0, 0, 0, 0, today.Location()), true
	}
	return time.Time{}, false
}

// numericDateRe matches D/M or D/M/Y not glued to other digits or slashes,
// so "OS 11/2025" and "1/2/3/4" are not dates.
var numericDateRe = regexp.MustCompile(`(?:^|[^\d/])(\d{1,2})/(\d{1,2})(?:/(\d{4}|\d{2}))?(?:$|[^\d/])`)

type numericDate struct{}

// NumericDateStrategy resolves the first D/M[/Y] fragment.
// A missing year means the current year; two-digit years are in the 2000s.
func NumericDateStrategy() DeadlineStrategy {
	return numericDate{}
}

func (numericDate) Name() string { return "numeric_date" }

func (numericDate) Resolve(text string, today time.Time) (time.Time, bool) {
	m := numericDateRe.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year := today.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
		if year < 100 {
			year += 2000
		}
	}
	return validDate(year, month, day, today.Location())
}

// validDate rejects dates time.Date would normalise, like 31/02
func validDate(year, month, day int, loc *time.Location) (time.Time, bool) {
	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, false
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	if t.Year() != year || int(t.Month()) != month || t.Day() != day {
		return time.Time{}, false
	}
	return t, true
}

func spacedPhrase(phrase string) string {
	words := strings.Fields(phrase)
	for i, w := range words {
		words[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(words, `\s+`)
}
