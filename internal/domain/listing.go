package domain

import "time"

// Listing is one job posting as extracted from a board.
type Listing struct {
	Title       string    `json:"title"`
	Company     string    `json:"company"`
	Location    string    `json:"location"` // normalized city, or the lowercased raw value
	LocationRaw string    `json:"locationRaw"`
	Description string    `json:"description"`
	Salary      string    `json:"salary,omitempty"`
	Link        string    `json:"link"`
	Date        time.Time `json:"date"`
	Source      string    `json:"source"`
}

// MatchDetails lists the keywords found per tier, in keyword-table order.
type MatchDetails struct {
	Perfect []string `json:"perfect"`
	Good    []string `json:"good"`
}

// All returns the matched keywords of both tiers.
func (m MatchDetails) All() []string {
	out := make([]string, 0, len(m.Perfect)+len(m.Good))
	out = append(out, m.Perfect...)
	return append(out, m.Good...)
}

type ScoredListing struct {
	Listing
	ID         int          `json:"id"`
	MatchScore int          `json:"matchScore"`
	Matched    MatchDetails `json:"matched"`
}
