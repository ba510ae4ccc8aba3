package parser

import (
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

var bracketSpanRe = regexp.MustCompile(`\[[^\]]+\]`)

// summarizer strips markup and vocabulary from a message
type summarizer struct {
	markers    *regexp.Regexp
	vocabulary *regexp.Regexp
}

func newSummarizer(locale *Locale) *summarizer {
	vocab := make([]string, 0, 16)
	vocab = append(vocab, locale.WaitingPhrases...)
	vocab = append(vocab, locale.InProgressPhrases...)
	vocab = append(vocab, locale.DeadlinePhrases()...)
	vocab = append(vocab, locale.Connectors...)

	return &summarizer{
		markers:    alternation(locale.AllMarkers),
		vocabulary: alternation(vocab),
	}
}

// alternation builds a case-insensitive pattern, longest phrases first
func alternation(phrases []string) *regexp.Regexp {
	sorted := make([]string, 0, len(phrases))
	for _, p := range phrases {
		if p != "" {
			sorted = append(sorted, p)
		}
	}
	if len(sorted) == 0 {
		return nil
	}
	sort.SliceStable(sorted, func(i, j int) bool {
		return utf8.RuneCountInString(sorted[i]) > utf8.RuneCountInString(sorted[j])
	})
	parts := make([]string, len(sorted))
	for i, p := range sorted {
		parts[i] = spacedPhrase(p)
	}
	return regexp.MustCompile(`(?i)(?:` + strings.Join(parts, "|") + `)`)
}

// Summarize cleans text and appends the deadline and project annotations
func (s *summarizer) Summarize(text, deadlineDisplay, project string) string {
	clean := text
	if s.markers != nil {
		clean = s.markers.ReplaceAllString(clean, " ")
	}
	clean = bracketSpanRe.ReplaceAllString(clean, " ")
	clean = removeWords(clean, s.vocabulary)
	clean = strings.Join(strings.Fields(clean), " ")

	var sb strings.Builder
	sb.WriteString(clean)
	if deadlineDisplay != "" {
		sb.WriteString(" (" + deadlineDisplay + ")")
	}
	if project != "" {
		sb.WriteString(" [" + project + "]")
	}
	return strings.TrimSpace(sb.String())
}

// removeWords drops matches of re that stand as whole words,
// leaving "para" inside "preparar" alone.
func removeWords(text string, re *regexp.Regexp) string {
	if re == nil {
		return text
	}
	matches := re.FindAllStringIndex(text, -1)
	if len(matches) == 0 {
		return text
	}

	var sb strings.Builder
	last := 0
	for _, m := range matches {
		start, end := m[0], m[1]
		if !isWordBoundary(text, start, end) {
			continue
		}
		sb.WriteString(text[last:start])
		sb.WriteByte(' ')
		last = end
	}
	sb.WriteString(text[last:])
	return sb.String()
}

func isWordBoundary(text string, start, end int) bool {
	if start > 0 {
		r, _ := utf8.DecodeLastRuneInString(text[:start])
		if isWordRune(r) {
			return false
		}
	}
	if end < len(text) {
		r, _ := utf8.DecodeRuneInString(text[end:])
		if isWordRune(r) {
			return false
		}
	}
	return true
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
