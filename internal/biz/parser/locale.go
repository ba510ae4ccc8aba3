package parser

import "time"

// HalfMonth maps a half-month idiom to the calendar day it stands for
type HalfMonth struct {
	Phrase string
	Day    int
}

// Locale collects every language-dependent token the parser matches on.
// Matching is case-insensitive throughout.
type Locale struct {
	Name string

	// Priority markers
	HighMarkers []string
	LowMarkers  []string
	// AllMarkers are removed from summaries, including the explicit medium marker
	AllMarkers []string

	// Status phrase groups, evaluated in this order
	WaitingPhrases    []string
	InProgressPhrases []string

	// Relative days, tomorrow checked before today
	TomorrowWords []string
	TodayWords    []string

	// Half-month idioms, e.g. "primeira quinzena de outubro"
	HalfMonths  []HalfMonth
	MonthJoiner string
	Months      map[string]time.Month

	// Connectors dropped from summaries ("até 05/10", "para amanhã")
	Connectors []string

	// Weekday names that double as ordinals ("segunda versão").
	// The free-text fallback only trusts them with the suffix or a cue word.
	OrdinalWeekdays []string
	WeekdaySuffix   string
	WeekdayCues     []string
}

// DeadlinePhrases returns the deadline vocabulary removed from summaries
func (l *Locale) DeadlinePhrases() []string {
	phrases := make([]string, 0, len(l.TomorrowWords)+len(l.TodayWords)+len(l.HalfMonths))
	phrases = append(phrases, l.TomorrowWords...)
	phrases = append(phrases, l.TodayWords...)
	for _, h := range l.HalfMonths {
		phrases = append(phrases, h.Phrase)
	}
	return phrases
}

// PtBR is the Brazilian Portuguese locale
var PtBR = &Locale{
	Name: "pt-BR",

	HighMarkers: []string{"#urgente", "#alta"},
	LowMarkers:  []string{"#baixa"},
	AllMarkers:  []string{"#urgente", "#alta", "#baixa", "#media", "#média"},

	WaitingPhrases:    []string{"aguardando", "depende", "retorno do cliente", "aprovação"},
	InProgressPhrases: []string{"em andamento", "executando", "fazendo"},

	TomorrowWords: []string{"amanhã", "amanha"},
	TodayWords:    []string{"hoje"},

	HalfMonths: []HalfMonth{
		{Phrase: "primeira quinzena", Day: 10},
		{Phrase: "segunda quinzena", Day: 25},
	},
	MonthJoiner: "de",
	Months: map[string]time.Month{
		"janeiro":   time.January,
		"fevereiro": time.February,
		"março":     time.March,
		"marco":     time.March,
		"abril":     time.April,
		"maio":      time.May,
		"junho":     time.June,
		"julho":     time.July,
		"agosto":    time.August,
		"setembro":  time.September,
		"outubro":   time.October,
		"novembro":  time.November,
		"dezembro":  time.December,
	},

	Connectors: []string{"até", "para"},

	OrdinalWeekdays: []string{"segunda", "terça", "terca", "quarta", "quinta", "sexta"},
	WeekdaySuffix:   "feira",
	WeekdayCues: []string{
		"na", "nesta", "nessa", "esta", "essa", "desta", "dessa",
		"até", "ate", "próxima", "proxima", "toda", "todas",
	},
}
