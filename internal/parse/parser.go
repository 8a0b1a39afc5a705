package parse

import (
	"log/slog"
	"time"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
)

// DefaultSelectors are used for html fragments whose source has no selectors configured.
var DefaultSelectors = config.Selectors{
	Title:       "h2",
	Company:     "div.m-jobsListItem__company",
	Location:    "div.m-jobsListItem__location",
	Description: "div.m-jobsListItem__description",
	Salary:      ".m-jobsListItem__meta--salary",
	Link:        "a",
	Date:        "time",
}

// Parser turns raw fragments into listings.
type Parser struct {
	sources map[string]config.Source
	loc     *LocationNormalizer
	now     func() time.Time
}

func New(cfg config.Config) *Parser {
	p := &Parser{
		sources: make(map[string]config.Source, len(cfg.Sources)),
		loc:     NewLocationNormalizer(cfg.Locations),
		now:     time.Now,
	}
	for _, s := range cfg.Sources {
		p.sources[s.Name] = s
	}
	return p
}

// Locations exposes the normalizer used for listing locations.
func (p *Parser) Locations() *LocationNormalizer { return p.loc }

// Parse extracts a listing from f. ok is false when no title could be located.
func (p *Parser) Parse(f domain.Fragment) (l domain.Listing, ok bool) {
	switch f.Kind {
	case domain.FragmentRSS:
		l, ok = p.parseRSS(f)
	case domain.FragmentJSON:
		l, ok = p.parseJSON(f)
	default:
		l, ok = p.parseHTML(f)
	}
	if !ok {
		return domain.Listing{}, false
	}

	l.Source = f.Source
	l.LocationRaw = l.Location
	l.Location = p.loc.Normalize(l.Location)
	if l.Link == "" {
		l.Link = "#"
	}
	if l.Date.IsZero() {
		l.Date = p.now()
	}
	l.Date = day(l.Date)
	return l, true
}

// ParseAll parses every fragment, dropping the ones without a title.
func (p *Parser) ParseAll(frags []domain.Fragment) []domain.Listing {
	out := make([]domain.Listing, 0, len(frags))
	for _, f := range frags {
		l, ok := p.Parse(f)
		if !ok {
			slog.Debug("parse: fragment without title skipped", "source", f.Source, "kind", f.Kind)
			continue
		}
		out = append(out, l)
	}
	return out
}

func (p *Parser) selectorsFor(source string) config.Selectors {
	s, ok := p.sources[source]
	if !ok || s.Selectors.Title == "" {
		return DefaultSelectors
	}
	return s.Selectors
}

func (p *Parser) baseURLFor(f domain.Fragment) string {
	if f.BaseURL != "" {
		return f.BaseURL
	}
	return p.sources[f.Source].BaseURL
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func parseDate(s string, layouts ...string) time.Time {
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
