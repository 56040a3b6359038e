// Package ranking orders a day's guesses into the displayed ranking. Only
// each user's most recent guess competes; rows sort by points descending
// with the earlier submission winning ties, and ranks are positional. A
// separate redaction pass withholds the points of person-name-only guesses
// while the names are still unrevealed.
package ranking

import (
	"sort"

	"github.com/okian/advientea/internal/domain/model"
	"github.com/okian/advientea/internal/domain/types"
)

// MostRecentPerUser reduces a day's guesses to one per user: the latest by
// CreatedAt. The result is deterministic regardless of input order; the
// guess ID breaks exact timestamp collisions.
func MostRecentPerUser(guesses []model.ScoredGuess) []model.ScoredGuess {
	byTime := make([]model.ScoredGuess, len(guesses))
	copy(byTime, guesses)
	sort.Slice(byTime, func(i, j int) bool {
		if !byTime[i].CreatedAt.Equal(byTime[j].CreatedAt) {
			return byTime[i].CreatedAt.After(byTime[j].CreatedAt)
		}
		return byTime[i].ID > byTime[j].ID
	})

	seen := make(map[string]struct{}, len(byTime))
	latest := make([]model.ScoredGuess, 0, len(byTime))
	for _, g := range byTime {
		if _, ok := seen[g.UserID]; ok {
			continue
		}
		seen[g.UserID] = struct{}{}
		latest = append(latest, g)
	}
	return latest
}

// SortStanding orders guesses in place by points descending, breaking ties
// by CreatedAt ascending: the user who reached the score first ranks higher.
func SortStanding(guesses []model.ScoredGuess) {
	sort.Slice(guesses, func(i, j int) bool {
		if guesses[i].Points != guesses[j].Points {
			return guesses[i].Points > guesses[j].Points
		}
		if !guesses[i].CreatedAt.Equal(guesses[j].CreatedAt) {
			return guesses[i].CreatedAt.Before(guesses[j].CreatedAt)
		}
		return guesses[i].ID < guesses[j].ID
	})
}

// Rows converts an already-sorted standing into ranking rows with 1-based
// positional ranks. Tied points still get distinct consecutive ranks.
func Rows(standing []model.ScoredGuess) []types.RankingRow {
	rows := make([]types.RankingRow, len(standing))
	for i, g := range standing {
		rows[i] = types.RankingRow{
			Rank:      i + 1,
			UserID:    g.UserID,
			Username:  g.Username,
			AvatarRef: g.AvatarRef,
			Points:    g.Points,
		}
	}
	return rows
}

// RedactPending overlays the display policy on computed rows: while person
// names are unreleased, a guess whose only identifying content was a person
// name (no tea name and no tea kind guessed) shows withheld points instead
// of its score. Sort order and rank positions are untouched. rows and
// standing must be parallel, as produced by SortStanding and Rows.
func RedactPending(rows []types.RankingRow, standing []model.ScoredGuess, personNamesReleased bool) []types.RankingRow {
	if personNamesReleased {
		return rows
	}
	out := make([]types.RankingRow, len(rows))
	copy(out, rows)
	for i, g := range standing {
		if g.PersonName != "" && g.TeaName == "" && g.TeaKind == "" {
			out[i].Points = types.PointsWithheld
		}
	}
	return out
}

// Rank produces the full ranked view for a day's guesses: most recent guess
// per user, standing order, positional ranks, and the redaction overlay. A
// day with no guesses yields an empty, non-nil slice.
func Rank(guesses []model.ScoredGuess, personNamesReleased bool) []types.RankingRow {
	standing := MostRecentPerUser(guesses)
	SortStanding(standing)
	return RedactPending(Rows(standing), standing, personNamesReleased)
}
