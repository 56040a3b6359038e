// Package release computes the public-visibility state of a calendar day:
// which parts of the day's tea and the assigned person's identity have been
// revealed at a given moment. The state is a pure function of the clock, the
// configured release hours, and the season's person-name reveal date.
package release

import "time"

// Default release schedule, hours in the season's local zone.
const (
	defaultNameHintHour    = 7  // tea name hint goes public
	defaultIngredientsHour = 13 // ingredient list goes public
	defaultTeaHour         = 18 // full tea details go public
	defaultStoryHour       = 20 // the day's story goes public

	// defaultPersonRevealDay is the December day on which all person names
	// for the season become public.
	defaultPersonRevealDay = 28
)

// Role identifies the caller's privilege level for simulation purposes.
type Role string

// Caller roles.
const (
	RoleMember Role = "member"
	RoleAdmin  Role = "admin"
)

// State reports what has been revealed for one day at one moment.
type State struct {
	NameHintReleased    bool
	IngredientsReleased bool
	TeaReleased         bool
	StoryReleased       bool
	PersonNameReleased  bool
}

// Option applies a configuration option to the Oracle.
type Option func(*Oracle)

// WithHours sets the four release hours (name hint, ingredients, tea, story).
func WithHours(nameHint, ingredients, tea, story int) Option {
	return func(o *Oracle) {
		if 0 <= nameHint && nameHint <= ingredients && ingredients <= tea && tea <= story && story <= 24 {
			o.nameHintHour = nameHint
			o.ingredientsHour = ingredients
			o.teaHour = tea
			o.storyHour = story
		}
	}
}

// WithPersonRevealDay sets the December day on which person names go public.
func WithPersonRevealDay(day int) Option {
	return func(o *Oracle) {
		if day >= 1 && day <= 31 {
			o.personRevealDay = day
		}
	}
}

// WithLocation sets the zone in which release hours are evaluated.
func WithLocation(loc *time.Location) Option {
	return func(o *Oracle) {
		if loc != nil {
			o.loc = loc
		}
	}
}

// Oracle evaluates release state for the days of one season. It is stateless
// after construction and safe for concurrent use.
type Oracle struct {
	year            int
	loc             *time.Location
	nameHintHour    int
	ingredientsHour int
	teaHour         int
	storyHour       int
	personRevealDay int
}

// NewOracle creates an Oracle for the given season year.
func NewOracle(year int, opts ...Option) *Oracle {
	o := &Oracle{
		year:            year,
		loc:             time.Local,
		nameHintHour:    defaultNameHintHour,
		ingredientsHour: defaultIngredientsHour,
		teaHour:         defaultTeaHour,
		storyHour:       defaultStoryHour,
		personRevealDay: defaultPersonRevealDay,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Year returns the season year the oracle evaluates.
func (o *Oracle) Year() int { return o.year }

// Location returns the zone in which the oracle evaluates the clock.
func (o *Oracle) Location() *time.Location { return o.loc }

// TargetDate returns midnight of the given calendar day in the season zone.
func (o *Oracle) TargetDate(day int) time.Time {
	return time.Date(o.year, time.December, day, 0, 0, 0, 0, o.loc)
}

// DayReached reports whether the given calendar day is today or already past
// at the given moment. The comparison is by calendar day in the season zone,
// so the day counts as reached from its first minute.
func (o *Oracle) DayReached(now time.Time, day int) bool {
	return !now.In(o.loc).Before(o.TargetDate(day))
}

// State returns the release state of a day at the given moment. An admin
// asking to simulate sees everything as released, which is how the editorial
// pages preview a day before its reveal.
func (o *Oracle) State(now time.Time, day int, role Role, simulate bool) State {
	if role == RoleAdmin && simulate {
		return State{
			NameHintReleased:    true,
			IngredientsReleased: true,
			TeaReleased:         true,
			StoryReleased:       true,
			PersonNameReleased:  true,
		}
	}

	local := now.In(o.loc)
	target := o.TargetDate(day)

	var st State
	st.NameHintReleased = !local.Before(target.Add(time.Duration(o.nameHintHour) * time.Hour))
	st.IngredientsReleased = !local.Before(target.Add(time.Duration(o.ingredientsHour) * time.Hour))
	st.TeaReleased = !local.Before(target.Add(time.Duration(o.teaHour) * time.Hour))
	st.StoryReleased = !local.Before(target.Add(time.Duration(o.storyHour) * time.Hour))

	reveal := time.Date(o.year, time.December, o.personRevealDay, 0, 0, 0, 0, o.loc)
	st.PersonNameReleased = !local.Before(reveal)

	return st
}
