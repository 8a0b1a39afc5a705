package domain

import (
	"encoding/json"
	"math"
)

type Statistics struct {
	TotalJobs         int            `json:"totalJobs"`
	Locations         map[string]int `json:"locations"`
	AvgScore          float64        `json:"avgScore"`
	ScoreDistribution map[int]int    `json:"scoreDistribution"`
}

// MarshalJSON encodes an undefined (NaN) average as null.
func (s Statistics) MarshalJSON() ([]byte, error) {
	type alias Statistics
	out := struct {
		alias
		AvgScore *float64 `json:"avgScore"`
	}{alias: alias(s)}
	if !math.IsNaN(s.AvgScore) {
		avg := s.AvgScore
		out.AvgScore = &avg
	}
	return json.Marshal(out)
}

// ResultSet is the filtered, ordered listings shown to the user. Listing IDs
// are only unique within RunID.
type ResultSet struct {
	RunID    string          `json:"runId,omitempty"`
	Listings []ScoredListing `json:"listings"`
	Stats    Statistics      `json:"stats"`
}

func (r ResultSet) Empty() bool { return len(r.Listings) == 0 }
