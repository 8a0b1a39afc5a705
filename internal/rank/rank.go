package rank

import (
	"math"
	"sort"
	"strings"

	"github.com/JFdC77/job-search-assistant/internal/domain"
)

// Options selects and orders listings. Zero values disable the respective filter.
type Options struct {
	Locations []string
	MinScore  int
	Keywords  []string
	Reverse   bool // ascending by score
}

// Rank filters listings and sorts them by score, highest first.
// The input slice is not modified.
func Rank(listings []domain.ScoredListing, opt Options) []domain.ScoredListing {
	locs := lowerNonBlank(opt.Locations)
	kws := lowerNonBlank(opt.Keywords)

	out := make([]domain.ScoredListing, 0, len(listings))
	for _, l := range listings {
		if len(locs) > 0 && !locationMatches(l.Location, locs) {
			continue
		}
		if opt.MinScore > 0 && l.MatchScore < opt.MinScore {
			continue
		}
		if len(kws) > 0 && !keywordMatches(l.Matched, kws) {
			continue
		}
		out = append(out, l)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if opt.Reverse {
			return out[i].MatchScore < out[j].MatchScore
		}
		return out[i].MatchScore > out[j].MatchScore
	})
	return out
}

// Stats summarizes listings. AvgScore is NaN for an empty input.
func Stats(listings []domain.ScoredListing) domain.Statistics {
	st := domain.Statistics{
		TotalJobs:         len(listings),
		Locations:         map[string]int{},
		ScoreDistribution: map[int]int{},
		AvgScore:          math.NaN(),
	}
	if len(listings) == 0 {
		return st
	}

	sum := 0
	for _, l := range listings {
		st.Locations[l.Location]++
		st.ScoreDistribution[l.MatchScore]++
		sum += l.MatchScore
	}
	st.AvgScore = float64(sum) / float64(len(listings))
	return st
}

// Build ranks listings and attaches statistics of the ranked subset.
func Build(listings []domain.ScoredListing, opt Options) domain.ResultSet {
	ranked := Rank(listings, opt)
	return domain.ResultSet{Listings: ranked, Stats: Stats(ranked)}
}

func locationMatches(location string, wanted []string) bool {
	loc := strings.ToLower(location)
	for _, w := range wanted {
		if loc == w || strings.Contains(loc, w) {
			return true
		}
	}
	return false
}

func keywordMatches(m domain.MatchDetails, wanted []string) bool {
	for _, kw := range m.All() {
		for _, w := range wanted {
			if strings.ToLower(kw) == w {
				return true
			}
		}
	}
	return false
}

func lowerNonBlank(xs []string) []string {
	var out []string
	for _, x := range xs {
		if x = strings.ToLower(strings.TrimSpace(x)); x != "" {
			out = append(out, x)
		}
	}
	return out
}
