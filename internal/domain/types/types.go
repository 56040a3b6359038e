// Package types contains common types used across the application
package types

// PointsWithheld is the sentinel rendered instead of real points while a
// person-name-only guess is pending the public name reveal.
const PointsWithheld = -1

// RankingRow represents one row of a day's ranking as rendered to clients.
// Rank is positional and 1-based: tied points still get distinct consecutive
// ranks, ordered by the earlier submission.
type RankingRow struct {
	Rank      int    `json:"rank"`
	UserID    string `json:"user_id"`
	Username  string `json:"username"`
	AvatarRef string `json:"avatar_ref,omitempty"`
	Points    int    `json:"points"`
}

// Withheld reports whether the row's points are redacted pending reveal.
func (r RankingRow) Withheld() bool { return r.Points == PointsWithheld }

// EligibilityFlags carries the two independent guess gates for a day.
type EligibilityFlags struct {
	TeaAttributes bool `json:"tea_attributes"`
	PersonName    bool `json:"person_name"`
}
