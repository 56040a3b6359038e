// Package repository defines the persistence interfaces the core consumes
// and their sqlite implementation. Writes to the guess log are append-only;
// a new submission is always a new row.
package repository

import (
	"context"

	"github.com/okian/advientea/internal/domain/model"
)

// DayStore looks up the external day/tea/assignment data for a season day.
type DayStore interface {
	// Day returns the day record for (day, year).
	// Returns ErrNotFound when the day has not been created.
	Day(ctx context.Context, day, year int) (model.DayRecord, error)
}

// GuessStore is the append-only log of scored guesses.
type GuessStore interface {
	// AppendGuess persists a scored guess and returns it with its assigned id.
	// The guess's CreatedAt is respected if set, otherwise assigned.
	AppendGuess(ctx context.Context, g model.ScoredGuess) (model.ScoredGuess, error)

	// GuessesForDay returns every guess for (day, year), newest first,
	// with usernames and avatar references joined in. A day with no
	// guesses yields an empty slice.
	GuessesForDay(ctx context.Context, day, year int) ([]model.ScoredGuess, error)

	// GuessCount returns the total number of guesses stored.
	GuessCount(ctx context.Context) (int, error)
}

// Store bundles the read and write surfaces behind one connection.
type Store interface {
	DayStore
	GuessStore
}
