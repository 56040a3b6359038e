// Package service provides the core business service that implements
// the dependencies required by the HTTP API: the submission pipeline
// (gate -> score -> persist) and the ranking and eligibility read paths.
package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/advientea/internal/adapters/repository"
	"github.com/okian/advientea/internal/domain/eligibility"
	"github.com/okian/advientea/internal/domain/model"
	"github.com/okian/advientea/internal/domain/ranking"
	"github.com/okian/advientea/internal/domain/release"
	"github.com/okian/advientea/internal/domain/scoring"
	"github.com/okian/advientea/internal/domain/types"
	"github.com/okian/advientea/pkg/logger"
	"github.com/okian/advientea/pkg/metrics"
)

// Service implements the guessing game over a store, a scorer, and the
// release oracle. All methods are safe for concurrent use: the service
// performs no writes outside the append-only guess log.
type Service struct {
	mu sync.RWMutex

	// Core components
	store  repository.Store
	scorer *scoring.Scorer
	oracle *release.Oracle
	gate   *eligibility.Gate

	// Configuration
	seasonYear      int
	loc             *time.Location
	windowStart     int
	windowEnd       int
	nameHintHour    int
	ingredientsHour int
	teaHour         int
	storyHour       int
	personRevealDay int

	// now is the clock; replaceable in tests.
	now func() time.Time

	// State
	started bool

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithStore sets the persistence store. Required before Start.
func WithStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.store = store
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(log logger.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.logger = log
		}
	}
}

// WithSeasonYear sets the calendar year of the season.
func WithSeasonYear(year int) Option {
	return func(s *Service) {
		if year > 0 {
			s.seasonYear = year
		}
	}
}

// WithLocation sets the season's wall-clock zone.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) {
		if loc != nil {
			s.loc = loc
		}
	}
}

// WithGuessWindow sets the time-decay scoring window hours.
func WithGuessWindow(startHour, endHour int) Option {
	return func(s *Service) {
		if startHour >= 0 && endHour > startHour && endHour <= 24 {
			s.windowStart = startHour
			s.windowEnd = endHour
		}
	}
}

// WithReleaseHours sets the day's reveal schedule hours.
func WithReleaseHours(nameHint, ingredients, tea, story int) Option {
	return func(s *Service) {
		s.nameHintHour = nameHint
		s.ingredientsHour = ingredients
		s.teaHour = tea
		s.storyHour = story
	}
}

// WithPersonRevealDay sets the December day person names go public.
func WithPersonRevealDay(day int) Option {
	return func(s *Service) {
		if day >= 1 && day <= 31 {
			s.personRevealDay = day
		}
	}
}

// WithClock replaces the service clock. Intended for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		seasonYear:      time.Now().Year(),
		loc:             time.Local,
		windowStart:     10,
		windowEnd:       20,
		nameHintHour:    7,
		ingredientsHour: 13,
		teaHour:         18,
		storyHour:       20,
		personRevealDay: 28,
		now:             time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start wires the domain components. The store must have been provided.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.store == nil {
		return errors.New("service requires a store")
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.oracle = release.NewOracle(s.seasonYear,
		release.WithLocation(s.loc),
		release.WithHours(s.nameHintHour, s.ingredientsHour, s.teaHour, s.storyHour),
		release.WithPersonRevealDay(s.personRevealDay),
	)
	s.gate = eligibility.NewGate(s.oracle)
	s.scorer = scoring.New(
		scoring.WithLocation(s.loc),
		scoring.WithGuessWindow(s.windowStart, s.windowEnd),
	)

	s.started = true
	s.logger.Info(ctx, "guessing service started",
		logger.Int("season_year", s.seasonYear),
		logger.Int("window_start", s.windowStart),
		logger.Int("window_end", s.windowEnd),
	)
	return nil
}

// Stop marks the service stopped. The store's lifecycle belongs to the
// caller that opened it.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "guessing service stopped")
}

// eligibilityContext folds the day lookup into the gate's input. A missing
// day is a closed gate, not an error.
func (s *Service) eligibilityContext(ctx context.Context, day int) (eligibility.Context, error) {
	ectx := eligibility.Context{Day: day, Year: s.seasonYear}

	rec, err := s.store.Day(ctx, day, s.seasonYear)
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ectx, nil
	case err != nil:
		return ectx, fmt.Errorf("day lookup: %w", err)
	}

	ectx.TeaExists = rec.Tea != nil
	if rec.Assignment != nil {
		ectx.OwnerUserID = rec.Assignment.UserID
		ectx.OwnerIsGuest = rec.Assignment.IsGuest()
	}
	return ectx, nil
}

// Eligibility reports the two guess gates for a user and day.
func (s *Service) Eligibility(ctx context.Context, userID string, day int) (types.EligibilityFlags, error) {
	if err := s.ensureStarted(); err != nil {
		return types.EligibilityFlags{}, err
	}
	if userID == "" {
		return types.EligibilityFlags{}, ErrIdentityRequired
	}

	ectx, err := s.eligibilityContext(ctx, day)
	if err != nil {
		return types.EligibilityFlags{}, err
	}

	now := s.now()
	return types.EligibilityFlags{
		TeaAttributes: s.gate.CanGuessTeaAttributes(ectx, userID, now),
		PersonName:    s.gate.CanGuessPersonName(ectx, userID, now),
	}, nil
}

// SubmitGuess runs the submission pipeline for one guess. Fields whose
// channel is closed are dropped from scoring; when every channel is closed
// the submission is rejected with ErrGuessingClosed. The returned guess
// carries the awarded points and its assigned id.
func (s *Service) SubmitGuess(ctx context.Context, userID string, day int, guess model.GuessInput) (model.ScoredGuess, error) {
	if err := s.ensureStarted(); err != nil {
		return model.ScoredGuess{}, err
	}
	if userID == "" {
		metrics.RecordGuessRejected("identity_required")
		return model.ScoredGuess{}, ErrIdentityRequired
	}

	ectx, err := s.eligibilityContext(ctx, day)
	if err != nil {
		return model.ScoredGuess{}, err
	}

	now := s.now()
	canTea := s.gate.CanGuessTeaAttributes(ectx, userID, now)
	canPerson := s.gate.CanGuessPersonName(ectx, userID, now)
	if !canTea && !canPerson {
		metrics.RecordGuessRejected("guessing_closed")
		return model.ScoredGuess{}, ErrGuessingClosed
	}

	if !canTea {
		guess.TeaName = nil
		guess.TeaKind = nil
		guess.Ingredients = nil
	}
	if !canPerson {
		guess.PersonName = nil
	}

	// An open gate implies the day and its tea exist.
	rec, err := s.store.Day(ctx, day, s.seasonYear)
	if err != nil {
		return model.ScoredGuess{}, fmt.Errorf("day lookup: %w", err)
	}

	start := time.Now()
	points := s.scorer.DailyScore(*rec.Tea, guess, now)
	metrics.RecordScoringLatency(float64(time.Since(start).Milliseconds()))

	scored := model.ScoredGuess{
		UserID:      userID,
		Day:         day,
		Year:        s.seasonYear,
		Points:      points,
		CreatedAt:   now,
		Ingredients: guess.Ingredients,
	}
	if guess.HasTeaName() {
		scored.TeaName = *guess.TeaName
	}
	if guess.HasTeaKind() {
		scored.TeaKind = *guess.TeaKind
	}
	if guess.HasPersonName() {
		scored.PersonName = *guess.PersonName
	}

	stored, err := s.store.AppendGuess(ctx, scored)
	if err != nil {
		return model.ScoredGuess{}, fmt.Errorf("store guess: %w", err)
	}

	metrics.RecordGuessScored(points)
	s.logger.Info(ctx, "guess scored",
		logger.String("user", userID),
		logger.Int("day", day),
		logger.Int("points", points),
		logger.Bool("tea_channel", canTea),
		logger.Bool("person_channel", canPerson),
	)
	return stored, nil
}

// Ranking returns the ranked view of a day's guesses. A day with no guesses
// (or no day record at all) yields an empty ranking.
func (s *Service) Ranking(ctx context.Context, day int) ([]types.RankingRow, error) {
	if err := s.ensureStarted(); err != nil {
		return nil, err
	}

	start := time.Now()
	guesses, err := s.store.GuessesForDay(ctx, day, s.seasonYear)
	if err != nil {
		return nil, fmt.Errorf("load guesses: %w", err)
	}

	st := s.oracle.State(s.now(), day, release.RoleMember, false)
	rows := ranking.Rank(guesses, st.PersonNameReleased)

	metrics.RecordRankingQuery()
	metrics.RecordRankingLatency(float64(time.Since(start).Milliseconds()))
	return rows, nil
}

// DayView is the released subset of a day's data.
type DayView struct {
	Day                int           `json:"day"`
	Year               int           `json:"year"`
	TeaName            string        `json:"tea_name,omitempty"`
	TeaKind            model.TeaKind `json:"tea_kind,omitempty"`
	Ingredients        []string      `json:"ingredients,omitempty"`
	OwnerName          string        `json:"owner_name,omitempty"`
	TeaReleased        bool          `json:"tea_released"`
	PersonNameReleased bool          `json:"person_name_released"`
}

// Day returns the public view of a day: only released attributes are
// populated. Admins may pass simulate to preview the fully released view.
func (s *Service) Day(ctx context.Context, day int, role release.Role, simulate bool) (DayView, error) {
	if err := s.ensureStarted(); err != nil {
		return DayView{}, err
	}

	rec, err := s.store.Day(ctx, day, s.seasonYear)
	if errors.Is(err, repository.ErrNotFound) {
		return DayView{}, ErrDayNotFound
	}
	if err != nil {
		return DayView{}, fmt.Errorf("day lookup: %w", err)
	}

	st := s.oracle.State(s.now(), day, role, simulate)
	view := DayView{
		Day:                day,
		Year:               s.seasonYear,
		TeaReleased:        st.TeaReleased,
		PersonNameReleased: st.PersonNameReleased,
	}
	if rec.Tea != nil {
		if st.TeaReleased {
			view.TeaName = rec.Tea.Name
			view.TeaKind = rec.Tea.Kind
		}
		if st.IngredientsReleased {
			view.Ingredients = rec.Tea.Ingredients
		}
		if st.PersonNameReleased {
			view.OwnerName = rec.Tea.OwnerName
		}
	}
	return view, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":     s.started,
		"season_year": s.seasonYear,
	}
	if !s.started {
		return stats
	}

	if total, err := s.store.GuessCount(context.Background()); err == nil {
		stats["total_guesses"] = total
		metrics.UpdateTotalGuesses(total)
	}
	return stats
}

func (s *Service) ensureStarted() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return ErrNotStarted
	}
	return nil
}
