// Package match defines the ranked result entity returned by a search.
package match

import "math"

// Metadata is the fixed projection of index fields attached to a hit.
// A typed struct rather than a string map, so the writer (upsert
// projection) and reader (prompt construction) cannot drift on field
// names.
type Metadata struct {
	Type            string `json:"type,omitempty"`
	Name            string `json:"name,omitempty"`
	Title           string `json:"title,omitempty"`
	Skills          string `json:"skills,omitempty"`
	RequiredSkills  string `json:"required_skills,omitempty"`
	Location        string `json:"location,omitempty"`
	DesiredLocation string `json:"desired_location,omitempty"`
	Position        string `json:"position,omitempty"`
	DesiredPosition string `json:"desired_position,omitempty"`
	Salary          string `json:"salary,omitempty"`
}

// Match is one ranked hit from the opposite namespace.
//
// ID is the external id the opposite-side record was upserted under. It is
// opaque to this service: callers own upsert/lookup id consistency, and
// the format is never validated or coerced here.
type Match struct {
	ID       string   `json:"id"`
	Score    float64  `json:"score"`
	Metadata Metadata `json:"metadata"`
	Reason   *string  `json:"reason"`
}

// ScaleScore converts a raw [0,1] similarity into a 0-100 score with one
// decimal place.
func ScaleScore(raw float64) float64 {
	return math.Round(raw*1000) / 10
}
