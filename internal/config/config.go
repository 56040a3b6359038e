// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers an optional YAML file and env vars on top.
// - External errors must be wrapped via this package's error kinds.
package config

import "time"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the sqlite database path.
	DBPath string `koanf:"db_path"`

	// SeasonYear is the calendar year of the advent season.
	SeasonYear int `koanf:"season_year"`

	// UTCOffsetHours fixes the season's wall-clock zone relative to UTC.
	UTCOffsetHours int `koanf:"utc_offset_hours"`

	// WindowStartHour and WindowEndHour bound the time-decay scoring window.
	WindowStartHour int `koanf:"window_start_hour"`
	WindowEndHour   int `koanf:"window_end_hour"`

	// Release hours for the day's reveal schedule, in season local time.
	ReleaseNameHintHour    int `koanf:"release_name_hint_hour"`
	ReleaseIngredientsHour int `koanf:"release_ingredients_hour"`
	ReleaseTeaHour         int `koanf:"release_tea_hour"`
	ReleaseStoryHour       int `koanf:"release_story_hour"`

	// PersonRevealDay is the December day person names go public.
	PersonRevealDay int `koanf:"person_reveal_day"`

	// MaxRankingLimit caps GET /ranking?limit.
	MaxRankingLimit int `koanf:"max_ranking_limit"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		DBPath:                 "advientea.db",
		SeasonYear:             time.Now().Year(),
		UTCOffsetHours:         1, // CET, where the tea club lives
		WindowStartHour:        10,
		WindowEndHour:          20,
		ReleaseNameHintHour:    7,
		ReleaseIngredientsHour: 13,
		ReleaseTeaHour:         18,
		ReleaseStoryHour:       20,
		PersonRevealDay:        28,
		MaxRankingLimit:        100,
	}
}

// Location returns the fixed season zone derived from the UTC offset.
func (c *Config) Location() *time.Location {
	return time.FixedZone("season", c.UTCOffsetHours*3600)
}
