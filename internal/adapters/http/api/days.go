// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/advientea/internal/domain/release"
)

// DayDependencies defines the interface for day view operations.
type DayDependencies interface {
	Day(ctx context.Context, day int, role release.Role, simulate bool) (DayView, error)
}

// DaysHandler handles day view requests.
type DaysHandler struct {
	deps DayDependencies
}

// NewDaysHandler creates a new days handler.
func NewDaysHandler(deps DayDependencies) *DaysHandler {
	return &DaysHandler{deps: deps}
}

// HandleGetDay handles GET /days/{day} requests. Admin callers may append
// ?simulate=true to preview the fully released view.
func (h *DaysHandler) HandleGetDay(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_day"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	// Extract path parameter after /days/
	path := strings.TrimPrefix(r.URL.Path, "/days/")
	day, err := strconv.Atoi(path)
	if err != nil || day < 1 || day > 24 {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}

	role := release.RoleMember
	if r.Header.Get(headerUserRole) == string(release.RoleAdmin) {
		role = release.RoleAdmin
	}
	simulate := r.URL.Query().Get("simulate") == "true"

	view, err := h.deps.Day(r.Context(), day, role, simulate)
	if err != nil {
		writeServiceError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}
