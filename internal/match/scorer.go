package match

import "github.com/JFdC77/job-search-assistant/internal/domain"

type Scorer interface {
	Score(l domain.Listing) (score int, matched domain.MatchDetails)
}

// ScoreAll scores every listing in order. IDs are the position in listings.
func ScoreAll(s Scorer, listings []domain.Listing) []domain.ScoredListing {
	out := make([]domain.ScoredListing, 0, len(listings))
	for i, l := range listings {
		score, matched := s.Score(l)
		out = append(out, domain.ScoredListing{
			Listing:    l,
			ID:         i,
			MatchScore: score,
			Matched:    matched,
		})
	}
	return out
}
