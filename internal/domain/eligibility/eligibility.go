// Package eligibility decides whether a user may currently guess about a
// day's tea attributes or its person's name. Both gates run the same ordered
// predicate pipeline and diverge only on which release flag closes them.
// Missing external data never produces an error here: absence means "cannot
// guess".
package eligibility

import (
	"time"

	"github.com/okian/advientea/internal/domain/release"
)

// Channel discriminates which guess gate is being evaluated.
type Channel int

// Guess channels.
const (
	ChannelTeaAttributes Channel = iota
	ChannelPersonName
)

// Context is the per-(day, user) input to the gates, derived by the caller
// from the external day/assignment data. TeaExists must already fold in
// "day record exists": a missing day and a day without a tea are the same
// closed gate.
type Context struct {
	Day          int
	Year         int
	OwnerUserID  string // empty when no registered owner is assigned
	OwnerIsGuest bool
	TeaExists    bool
}

// Gate evaluates guess eligibility against a release oracle.
type Gate struct {
	oracle *release.Oracle
}

// NewGate creates a Gate backed by the given oracle.
func NewGate(oracle *release.Oracle) *Gate {
	return &Gate{oracle: oracle}
}

// CanGuessTeaAttributes reports whether the user may guess the day's tea
// name, kind, or ingredients at the given moment.
func (g *Gate) CanGuessTeaAttributes(ectx Context, userID string, now time.Time) bool {
	return g.allowed(ectx, userID, now, ChannelTeaAttributes)
}

// CanGuessPersonName reports whether the user may guess the day's person.
func (g *Gate) CanGuessPersonName(ectx Context, userID string, now time.Time) bool {
	return g.allowed(ectx, userID, now, ChannelPersonName)
}

// allowed is the shared predicate pipeline. Checks short-circuit in order:
//
//  1. the day must exist and have a tea;
//  2. the requester must not be the day's assigned owner (a guest owner or
//     an unassigned day blocks nobody);
//  3. the day must be today or already past;
//  4. the channel must not have been publicly released yet.
func (g *Gate) allowed(ectx Context, userID string, now time.Time, ch Channel) bool {
	if !ectx.TeaExists {
		return false
	}
	if !ectx.OwnerIsGuest && ectx.OwnerUserID != "" && ectx.OwnerUserID == userID {
		return false
	}
	if !g.oracle.DayReached(now, ectx.Day) {
		return false
	}

	st := g.oracle.State(now, ectx.Day, release.RoleMember, false)
	switch ch {
	case ChannelPersonName:
		return !st.PersonNameReleased
	default:
		return !st.TeaReleased
	}
}
