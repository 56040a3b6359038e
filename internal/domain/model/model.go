// Package model contains domain models passed between layers.
package model

import "time"

// TeaKind enumerates the tea categories a day's tea can belong to.
// Kind matching is exact; there is no partial credit between categories.
type TeaKind string

// Known tea kinds. The zero value means "not set / not guessed".
const (
	KindBlack   TeaKind = "black"
	KindGreen   TeaKind = "green"
	KindWhite   TeaKind = "white"
	KindOolong  TeaKind = "oolong"
	KindPuerh   TeaKind = "puerh"
	KindRooibos TeaKind = "rooibos"
	KindHerbal  TeaKind = "herbal"
)

// Valid reports whether k is one of the known tea kinds.
func (k TeaKind) Valid() bool {
	switch k {
	case KindBlack, KindGreen, KindWhite, KindOolong, KindPuerh, KindRooibos, KindHerbal:
		return true
	}
	return false
}

// TeaFacts is the ground truth for a day: what the featured tea actually is
// and who brought it. Immutable once the day's tea is entered.
type TeaFacts struct {
	Name        string   // display name of the tea
	Kind        TeaKind  // tea category
	Ingredients []string // ingredient names, matched verbatim at scoring time
	OwnerName   string   // assigned person's display name, empty if none
}

// GuessInput is a candidate submission. Every field is optional and scored
// independently; nil (or an empty slice for ingredients) means "not guessed",
// which is distinct from guessing an empty value.
type GuessInput struct {
	TeaName     *string
	TeaKind     *TeaKind
	Ingredients []string
	PersonName  *string
}

// HasTeaName reports whether a tea name was actually guessed.
func (g GuessInput) HasTeaName() bool { return g.TeaName != nil && *g.TeaName != "" }

// HasTeaKind reports whether a tea kind was actually guessed.
func (g GuessInput) HasTeaKind() bool { return g.TeaKind != nil && *g.TeaKind != "" }

// HasIngredients reports whether any ingredients were guessed.
func (g GuessInput) HasIngredients() bool { return len(g.Ingredients) > 0 }

// HasPersonName reports whether a person name was actually guessed.
func (g GuessInput) HasPersonName() bool { return g.PersonName != nil && *g.PersonName != "" }

// Empty reports whether nothing at all was guessed.
func (g GuessInput) Empty() bool {
	return !g.HasTeaName() && !g.HasTeaKind() && !g.HasIngredients() && !g.HasPersonName()
}

// ScoredGuess is the persisted outcome of one submission. Guesses are
// append-only: a new submission is a new record, never an edit, and only the
// most recent one per user counts for ranking.
type ScoredGuess struct {
	ID        string
	UserID    string
	Username  string // joined from the user record at read time
	AvatarRef string // joined from the user record at read time
	Day       int
	Year      int
	Points    int
	CreatedAt time.Time

	// Guessed content, kept so the ranking redaction policy can tell what
	// kind of guess this was. Empty string / nil means "not guessed".
	TeaName     string
	TeaKind     TeaKind
	Ingredients []string
	PersonName  string
}

// Assignment identifies who is featured on a given day. Either UserID refers
// to a registered user, or GuestName names a guest placeholder without an
// account. Both empty means the day has no assigned owner yet.
type Assignment struct {
	UserID    string
	Username  string
	GuestName string
}

// IsGuest reports whether the day's owner is a guest placeholder.
func (a Assignment) IsGuest() bool { return a.UserID == "" && a.GuestName != "" }

// DayRecord is the external day/tea lookup result consumed by the core.
// Tea and Assignment are nil when not yet entered.
type DayRecord struct {
	Day        int
	Year       int
	Tea        *TeaFacts
	Assignment *Assignment
}
