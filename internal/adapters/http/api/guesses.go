// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/okian/advientea/internal/domain/model"
)

// GuessDependencies defines the interface for guess submission dependencies.
type GuessDependencies interface {
	SubmitGuess(ctx context.Context, userID string, day int, guess model.GuessInput) (model.ScoredGuess, error)
}

// GuessesHandler handles guess submission requests.
type GuessesHandler struct {
	deps GuessDependencies
}

// NewGuessesHandler creates a new guesses handler.
func NewGuessesHandler(deps GuessDependencies) *GuessesHandler {
	return &GuessesHandler{deps: deps}
}

// guessRequest mirrors the OpenAPI schema for POST /guesses. Omitted or
// empty fields count as not guessed.
type guessRequest struct {
	Day         int      `json:"day"`
	TeaName     *string  `json:"tea_name,omitempty"`
	TeaKind     *string  `json:"tea_kind,omitempty"`
	Ingredients []string `json:"ingredients,omitempty"`
	PersonName  *string  `json:"person_name,omitempty"`
}

func (g guessRequest) validate() error {
	if g.Day < 1 || g.Day > 24 {
		return errors.New("day must be between 1 and 24")
	}
	if g.TeaKind != nil && *g.TeaKind != "" && !model.TeaKind(*g.TeaKind).Valid() {
		return errors.New("unknown tea_kind")
	}
	return nil
}

func (g guessRequest) toInput() model.GuessInput {
	in := model.GuessInput{
		TeaName:     g.TeaName,
		Ingredients: g.Ingredients,
		PersonName:  g.PersonName,
	}
	if g.TeaKind != nil {
		kind := model.TeaKind(*g.TeaKind)
		in.TeaKind = &kind
	}
	return in
}

// guessResponse acknowledges a scored submission.
type guessResponse struct {
	ID        string    `json:"id"`
	Day       int       `json:"day"`
	Points    int       `json:"points"`
	CreatedAt time.Time `json:"created_at"`
}

// HandlePostGuess handles POST /guesses requests.
func (h *GuessesHandler) HandlePostGuess(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_guess"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	userID := strings.TrimSpace(r.Header.Get(headerUserID))

	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	scored, err := h.deps.SubmitGuess(r.Context(), userID, req.Day, req.toInput())
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, guessResponse{
		ID:        scored.ID,
		Day:       scored.Day,
		Points:    scored.Points,
		CreatedAt: scored.CreatedAt,
	})
}
