package match

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/JFdC77/job-search-assistant/internal/config"
	"github.com/JFdC77/job-search-assistant/internal/domain"
)

// KeywordMatcher scores listings by keyword presence in title and description.
// Each keyword counts at most once regardless of how often it occurs.
type KeywordMatcher struct {
	base, max    int
	highWeight   int
	mediumWeight int
	high         []string
	medium       []string
}

func New(m config.Matching) *KeywordMatcher {
	return &KeywordMatcher{
		base:         m.BaseScore,
		max:          m.MaxScore,
		highWeight:   m.HighValue.Weight,
		mediumWeight: m.MediumValue.Weight,
		high:         prepare(m.HighValue.Keywords),
		medium:       prepare(m.MediumValue.Keywords),
	}
}

func (k *KeywordMatcher) Score(l domain.Listing) (int, domain.MatchDetails) {
	d := k.Details(l)
	score := k.base + k.highWeight*len(d.Perfect) + k.mediumWeight*len(d.Good)
	return clamp(score, 0, k.max), d
}

// MatchScore is Score without the details.
func (k *KeywordMatcher) MatchScore(l domain.Listing) int {
	s, _ := k.Score(l)
	return s
}

// Details reports the keywords of each tier found in the listing, in table order.
func (k *KeywordMatcher) Details(l domain.Listing) domain.MatchDetails {
	text := fold(l.Title + " " + l.Description)
	return domain.MatchDetails{
		Perfect: present(text, k.high),
		Good:    present(text, k.medium),
	}
}

func present(text string, keywords []string) []string {
	found := []string{}
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			found = append(found, kw)
		}
	}
	return found
}

func prepare(keywords []string) []string {
	seen := map[string]bool{}
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = fold(strings.TrimSpace(kw))
		if kw == "" || seen[kw] {
			continue
		}
		seen[kw] = true
		out = append(out, kw)
	}
	return out
}

func fold(s string) string { return strings.ToLower(norm.NFC.String(s)) }

func clamp(v, lo, hi int) int {
	if v > hi {
		return hi
	}
	if v < lo {
		return lo
	}
	return v
}
