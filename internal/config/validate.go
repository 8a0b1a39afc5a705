package config

import (
	"fmt"
	"net/url"
	"strings"
)

type Validation struct {
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings"`
}

func (v *Validation) addErr(format string, args ...any) {
	v.Errors = append(v.Errors, fmt.Sprintf(format, args...))
}
func (v *Validation) addWarn(format string, args ...any) {
	v.Warnings = append(v.Warnings, fmt.Sprintf(format, args...))
}
func (v Validation) OK() bool { return len(v.Errors) == 0 }

// NormalizeAndValidate returns a normalized copy of cfg and the validation result.
// Keyword and variant lists are trimmed, lowercased and deduplicated.
func NormalizeAndValidate(cfg Config) (Config, Validation) {
	out := cfg
	var res Validation

	trimList := func(xs []string, lower bool) []string {
		seen := map[string]bool{}
		var ys []string
		for _, x := range xs {
			x = strings.TrimSpace(x)
			if x == "" {
				continue
			}
			key := strings.ToLower(x)
			if seen[key] {
				continue
			}
			seen[key] = true
			if lower {
				x = key
			}
			ys = append(ys, x)
		}
		return ys
	}

	out.Matching.HighValue.Keywords = trimList(out.Matching.HighValue.Keywords, true)
	out.Matching.MediumValue.Keywords = trimList(out.Matching.MediumValue.Keywords, true)
	out.Filters.Locations = trimList(out.Filters.Locations, false)
	out.Filters.LocationChoices = trimList(out.Filters.LocationChoices, false)

	out.Locations = make([]City, 0, len(cfg.Locations))
	for _, c := range cfg.Locations {
		out.Locations = append(out.Locations, City{
			Name:     strings.ToLower(strings.TrimSpace(c.Name)),
			Variants: trimList(c.Variants, true),
		})
	}

	out.Sources = make([]Source, 0, len(cfg.Sources))
	for _, s := range cfg.Sources {
		s.Name = strings.TrimSpace(s.Name)
		s.Kind = strings.ToLower(strings.TrimSpace(s.Kind))
		s.URLs = trimList(s.URLs, false)
		out.Sources = append(out.Sources, s)
	}

	// ---- matching ----

	m := out.Matching
	if m.BaseScore < 0 {
		res.addErr("matching.base_score must be >= 0")
	}
	if m.MaxScore < m.BaseScore {
		res.addErr("matching.max_score (%d) must be >= matching.base_score (%d)", m.MaxScore, m.BaseScore)
	}
	if m.MaxScore > 99 {
		res.addErr("matching.max_score must be <= 99")
	}
	if m.HighValue.Weight < 0 || m.MediumValue.Weight < 0 {
		res.addErr("matching weights must be >= 0")
	}
	if len(m.HighValue.Keywords) == 0 && len(m.MediumValue.Keywords) == 0 {
		res.addWarn("no keywords configured; every listing gets the base score.")
	}

	// ---- locations ----

	seenCity := map[string]bool{}
	for i, c := range out.Locations {
		if c.Name == "" {
			res.addErr("locations[%d].name is required", i)
			continue
		}
		if seenCity[c.Name] {
			res.addErr("locations[%d].name %q is duplicated", i, c.Name)
		}
		seenCity[c.Name] = true
		if len(c.Variants) == 0 {
			res.addErr("locations[%d].variants must have at least 1 term", i)
		}
		if !containsAny(c.Name, c.Variants) {
			res.addErr("locations[%d]: %q is not matched by its own variants", i, c.Name)
		}
		for j := 0; j < i; j++ {
			if containsAny(c.Name, out.Locations[j].Variants) {
				res.addErr("locations[%d]: %q is captured by earlier city %q", i, c.Name, out.Locations[j].Name)
			}
		}
	}

	// ---- fetch ----

	if strings.TrimSpace(out.Fetch.UserAgent) == "" {
		res.addWarn("fetch.user_agent is empty; some boards reject requests without one.")
	}
	if out.Fetch.Concurrency < 0 {
		res.addErr("fetch.concurrency must be >= 0")
	}
	if out.Fetch.RequestsPerSecond < 0 {
		res.addErr("fetch.requests_per_second must be >= 0")
	}

	// ---- sources ----

	enabled := 0
	seenSource := map[string]bool{}
	for i, s := range out.Sources {
		if s.Name == "" {
			res.addErr("sources[%d].name is required", i)
		} else if seenSource[s.Name] {
			res.addErr("sources[%d].name %q is duplicated", i, s.Name)
		}
		seenSource[s.Name] = true

		switch s.Kind {
		case KindHTML, KindRSS, KindAPI:
			if s.Enabled && len(s.URLs) == 0 {
				res.addErr("sources[%d] (%s): urls must have at least 1 entry", i, s.Name)
			}
			for j, u := range s.URLs {
				if pu, err := url.Parse(u); err != nil || pu.Host == "" {
					res.addErr("sources[%d].urls[%d] is not an absolute url: %q", i, j, u)
				}
			}
		case KindMail:
			if s.Enabled {
				if strings.TrimSpace(s.Mail.IMAPHost) == "" {
					res.addErr("sources[%d] (%s): mail.imap_host is required", i, s.Name)
				}
				if strings.TrimSpace(s.Mail.Username) == "" {
					res.addErr("sources[%d] (%s): mail.username is required", i, s.Name)
				}
				if len(s.Mail.SubjectAny) == 0 {
					res.addWarn("sources[%d] (%s): mail.subject_any is empty; every unseen message is scanned.", i, s.Name)
				}
			}
		default:
			res.addErr("sources[%d].kind %q must be one of html, rss, api, mail", i, s.Kind)
		}

		if (s.Kind == KindHTML || s.Kind == KindMail) && s.Enabled {
			if strings.TrimSpace(s.ItemSelector) == "" {
				res.addErr("sources[%d] (%s): item_selector is required", i, s.Name)
			}
			if strings.TrimSpace(s.Selectors.Title) == "" {
				res.addErr("sources[%d] (%s): selectors.title is required", i, s.Name)
			}
		}
		if s.Enabled {
			enabled++
		}
	}
	if enabled == 0 {
		res.addWarn("no sources enabled; searches will always return no results.")
	}

	// ---- filters / notify ----

	if out.Filters.MinScore < 0 || out.Filters.MinScore > 100 {
		res.addErr("filters.min_score must be 0..100")
	}
	if out.Notify.Enabled && out.Notify.ChatID == 0 {
		res.addErr("notify.chat_id is required when notify.enabled=true")
	}
	if out.Polling.RefreshMinutes < 0 {
		res.addErr("polling.refresh_minutes must be >= 0")
	} else if out.Polling.RefreshMinutes > 0 && out.Polling.RefreshMinutes < 5 {
		res.addWarn("polling.refresh_minutes is very low (%d) and may get you rate limited.", out.Polling.RefreshMinutes)
	}

	switch out.Database.Driver {
	case "", "sqlite", "pgx":
	default:
		res.addErr("database.driver must be sqlite or pgx")
	}
	if out.Database.Driver == "pgx" && strings.TrimSpace(out.Database.DSN) == "" {
		res.addErr("database.dsn is required for the pgx driver")
	}

	return out, res
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
