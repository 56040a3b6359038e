// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	service "github.com/okian/advientea/internal/app"
	"github.com/okian/advientea/internal/domain/model"
	"github.com/okian/advientea/internal/domain/release"
	"github.com/okian/advientea/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// SubmitGuess scores and stores a guess for the given user and day.
	SubmitGuess(ctx context.Context, userID string, day int, guess model.GuessInput) (model.ScoredGuess, error)

	// Ranking returns the current ranked standing for a day.
	Ranking(ctx context.Context, day int) ([]types.RankingRow, error)

	// Eligibility reports the open guess channels for a user and day.
	Eligibility(ctx context.Context, userID string, day int) (types.EligibilityFlags, error)

	// Day returns the released subset of a day's data.
	Day(ctx context.Context, day int, role release.Role, simulate bool) (service.DayView, error)
}

// DayView mirrors the read shape returned by day queries.
type DayView = service.DayView

// Identity headers set by the authenticating proxy.
const (
	headerUserID   = "X-User-ID"
	headerUserRole = "X-User-Role"
)

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	guessesHandler     *GuessesHandler
	rankingHandler     *RankingHandler
	eligibilityHandler *EligibilityHandler
	daysHandler        *DaysHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, maxRankingLimit int) *Server {
	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		guessesHandler:     NewGuessesHandler(deps),
		rankingHandler:     NewRankingHandler(deps, maxRankingLimit),
		eligibilityHandler: NewEligibilityHandler(deps),
		daysHandler:        NewDaysHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	// Specific paths first (most specific to least specific)
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/guesses", MetricsMiddleware(s.guessesHandler.HandlePostGuess, "guesses"))
	mux.HandleFunc("/ranking", MetricsMiddleware(s.rankingHandler.HandleGetRanking, "ranking"))
	mux.HandleFunc("/eligibility", MetricsMiddleware(s.eligibilityHandler.HandleGetEligibility, "eligibility"))
	mux.HandleFunc("/days/", MetricsMiddleware(s.daysHandler.HandleGetDay, "days"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeServiceError translates service sentinel errors to their HTTP shape.
func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, service.ErrIdentityRequired):
		writeError(w, http.StatusUnauthorized, "identity_required", NewKind(op, err))
	case errors.Is(err, service.ErrGuessingClosed):
		writeError(w, http.StatusForbidden, "guessing_closed", NewKind(op, err))
	case errors.Is(err, service.ErrDayNotFound):
		writeError(w, http.StatusNotFound, "not_found", NewKind(op, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", Wrap(op, err))
	}
}
