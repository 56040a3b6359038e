// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/advientea/internal/domain/types"
)

// EligibilityDependencies defines the interface for eligibility queries.
type EligibilityDependencies interface {
	Eligibility(ctx context.Context, userID string, day int) (types.EligibilityFlags, error)
}

// EligibilityHandler handles eligibility requests.
type EligibilityHandler struct {
	deps EligibilityDependencies
}

// NewEligibilityHandler creates a new eligibility handler.
func NewEligibilityHandler(deps EligibilityDependencies) *EligibilityHandler {
	return &EligibilityHandler{deps: deps}
}

// eligibilityResponse reports the caller's open guess channels for a day.
type eligibilityResponse struct {
	Day           int  `json:"day"`
	TeaAttributes bool `json:"tea_attributes"`
	PersonName    bool `json:"person_name"`
}

// HandleGetEligibility handles GET /eligibility?day=N requests.
func (h *EligibilityHandler) HandleGetEligibility(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_eligibility"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil || day < 1 || day > 24 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	userID := strings.TrimSpace(r.Header.Get(headerUserID))

	flags, err := h.deps.Eligibility(r.Context(), userID, day)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, eligibilityResponse{
		Day:           day,
		TeaAttributes: flags.TeaAttributes,
		PersonName:    flags.PersonName,
	})
}
