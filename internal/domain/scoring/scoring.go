// Package scoring computes per-attribute and aggregate points for a daily
// guess against the day's true tea record. Every attribute score is an
// integer in [0, MaxAttributeScore]; the daily total is their plain sum.
package scoring

import (
	"time"

	"github.com/okian/advientea/internal/domain/model"
	"github.com/okian/advientea/internal/domain/similarity"
)

// Default scoring configuration constants.
const (
	// MaxAttributeScore caps every individual attribute score.
	MaxAttributeScore = 200

	// defaultWindowStartHour and defaultWindowEndHour bound the time-decay
	// window: guesses before the start hour take the full time score, the
	// score decays linearly to zero at the end hour.
	defaultWindowStartHour = 10
	defaultWindowEndHour   = 20
)

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithGuessWindow sets the local hours between which the time score decays.
func WithGuessWindow(startHour, endHour int) Option {
	return func(s *Scorer) {
		if startHour >= 0 && endHour > startHour && endHour <= 24 {
			s.windowStart = startHour
			s.windowEnd = endHour
		}
	}
}

// WithLocation sets the zone in which submission wall-clock hours are read.
func WithLocation(loc *time.Location) Option {
	return func(s *Scorer) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// Scorer computes attribute and daily scores. It is stateless after
// construction and safe for concurrent use.
type Scorer struct {
	windowStart int
	windowEnd   int
	loc         *time.Location
}

// New creates a Scorer with default configuration.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		windowStart: defaultWindowStartHour,
		windowEnd:   defaultWindowEndHour,
		loc:         time.Local,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// TeaNameScore scores a guessed tea name against the true one.
func (s *Scorer) TeaNameScore(truth, guess string) int {
	return similarity.NameScore(truth, guess)
}

// PersonNameScore scores a guessed person name against the true one. Same
// algorithm as TeaNameScore, distinct semantic channel.
func (s *Scorer) PersonNameScore(truth, guess string) int {
	return similarity.NameScore(truth, guess)
}

// TeaKindScore gives full credit for the exact kind and nothing otherwise.
// There is no partial credit between tea categories.
func (s *Scorer) TeaKindScore(truth, guess model.TeaKind) int {
	if truth == guess {
		return MaxAttributeScore
	}
	return 0
}

// IngredientsScore scores the guessed ingredient set by the fraction of the
// true set it covers. Matching is verbatim string equality; extra guessed
// ingredients are ignored. An empty truth set scores 0 regardless of the
// guess: no ingredients to find means no credit.
func (s *Scorer) IngredientsScore(truth, guess []string) int {
	if len(truth) == 0 {
		return 0
	}
	guessed := make(map[string]struct{}, len(guess))
	for _, g := range guess {
		guessed[g] = struct{}{}
	}
	matched := 0
	seen := make(map[string]struct{}, len(truth))
	for _, t := range truth {
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		if _, ok := guessed[t]; ok {
			matched++
		}
	}
	return matched * MaxAttributeScore / len(seen)
}

// TimeScore rewards earlier submissions. Before the window start hour the
// score is maximal; from there it decays linearly to zero at the window end.
// The hour is the wall-clock hour of the submission in the configured zone;
// minutes are ignored.
func (s *Scorer) TimeScore(at time.Time) int {
	h := at.In(s.loc).Hour()
	if h < s.windowStart {
		return MaxAttributeScore
	}
	if h >= s.windowEnd {
		return 0
	}
	return (s.windowEnd - h) * MaxAttributeScore / (s.windowEnd - s.windowStart)
}

// DailyScore sums the applicable attribute scores for one submission.
// An attribute counts only when both the truth and the guess provide a
// non-empty value for it; a field absent on either side contributes zero,
// never a penalty. The time score is added whenever a submission timestamp
// is supplied, independent of which attributes were guessed.
func (s *Scorer) DailyScore(truth model.TeaFacts, guess model.GuessInput, at time.Time) int {
	total := 0
	if truth.Name != "" && guess.HasTeaName() {
		total += s.TeaNameScore(truth.Name, *guess.TeaName)
	}
	if truth.Kind != "" && guess.HasTeaKind() {
		total += s.TeaKindScore(truth.Kind, *guess.TeaKind)
	}
	if len(truth.Ingredients) > 0 && guess.HasIngredients() {
		total += s.IngredientsScore(truth.Ingredients, guess.Ingredients)
	}
	if truth.OwnerName != "" && guess.HasPersonName() {
		total += s.PersonNameScore(truth.OwnerName, *guess.PersonName)
	}
	if !at.IsZero() {
		total += s.TimeScore(at)
	}
	return total
}
