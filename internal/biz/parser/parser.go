// Package parser turns free-form demand messages into structured records.
//
// Parsing is a pure function of the message text and an anchor time:
// no I/O, no shared mutable state, safe for concurrent use.
package parser

import (
	"time"

	"github.com/radardiario/radar-bridge/internal/biz/domain"
)

// DefaultTimezone is the zone deadlines are resolved in when none is given
const DefaultTimezone = "America/Sao_Paulo"

type options struct {
	locale     *Locale
	fallback   DeadlineStrategy
	noFallback bool
}

// Option configures a Parser
type Option func(*options)

// WithLocale replaces the token table
func WithLocale(locale *Locale) Option {
	return func(o *options) { o.locale = locale }
}

// WithFallback replaces the free-text date parser tried last
func WithFallback(s DeadlineStrategy) Option {
	return func(o *options) { o.fallback = s }
}

// WithoutFallback disables the free-text date parser
func WithoutFallback() Option {
	return func(o *options) { o.noFallback = true }
}

// Parser composes the extractors into one record
type Parser struct {
	locale     *Locale
	registry   *Registry
	resolver   *DeadlineResolver
	summarizer *summarizer
}

// New creates a parser resolving dates in loc
func New(registry *Registry, loc *time.Location, opts ...Option) *Parser {
	o := &options{locale: PtBR}
	for _, opt := range opts {
		opt(o)
	}

	strategies := []DeadlineStrategy{
		RelativeDayStrategy(o.locale),
		HalfMonthStrategy(o.locale),
		NumericDateStrategy(),
	}
	if !o.noFallback {
		if o.fallback == nil {
			o.fallback = newWhenFallback(o.locale)
		}
		strategies = append(strategies, o.fallback)
	}

	return &Parser{
		locale:     o.locale,
		registry:   registry,
		resolver:   NewDeadlineResolver(loc, strategies...),
		summarizer: newSummarizer(o.locale),
	}
}

// Registry returns the project registry the parser resolves tags against
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Location returns the zone deadlines are resolved in
func (p *Parser) Location() *time.Location {
	return p.resolver.Location()
}

// Deadline resolves the deadline of text relative to now
func (p *Parser) Deadline(text string, now time.Time) domain.Deadline {
	return p.resolver.Resolve(text, now)
}

// Summary builds the one-line summary of text
func (p *Parser) Summary(text, deadlineDisplay, project string) string {
	return p.summarizer.Summarize(text, deadlineDisplay, project)
}

// Parse extracts a record from text. It is total and deterministic
// for a given text and anchor time.
func (p *Parser) Parse(text string, now time.Time) domain.ParsedRecord {
	priority := ExtractPriority(text, p.locale)
	status := ExtractStatus(text, p.locale)
	project := ExtractProject(text, p.registry)
	deadline := p.resolver.Resolve(text, now)

	return domain.ParsedRecord{
		Priority:        priority,
		Status:          status,
		Project:         project,
		DeadlineISO:     deadline.ISO,
		DeadlineDisplay: deadline.Display,
		Summary:         p.summarizer.Summarize(text, deadline.Display, project),
		OriginalText:    text,
	}
}

// LoadLocation resolves a zone name, defaulting to DefaultTimezone
func LoadLocation(name string) (*time.Location, error) {
	if name == "" {
		name = DefaultTimezone
	}
	return time.LoadLocation(name)
}
