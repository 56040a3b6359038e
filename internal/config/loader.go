package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New)
//  2. file (YAML) if ADVIENTEA_CONFIG is set
//  3. env (prefix ADVIENTEA_)
//
// A .env file in the working directory is folded into the environment first,
// so local development does not need exported variables.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load() // absence of .env is the normal production case

	base := New()

	k := koanf.New(".")

	if path := os.Getenv("ADVIENTEA_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
		}
	}

	// Environment variables: ADVIENTEA_ADDR, ADVIENTEA_SEASON_YEAR, ...
	// Keys keep their underscores to match the koanf tags on the struct.
	envProvider := env.Provider("ADVIENTEA_", ".", func(s string) string {
		s = strings.ToLower(s)
		return strings.TrimPrefix(s, "advientea_")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.DBPath == "":
		return fmt.Errorf("%w: db_path must not be empty", ErrInvalidConfig)
	case c.SeasonYear < 2000:
		return fmt.Errorf("%w: season_year %d is implausible", ErrInvalidConfig, c.SeasonYear)
	case c.WindowStartHour < 0 || c.WindowEndHour > 24 || c.WindowEndHour <= c.WindowStartHour:
		return fmt.Errorf("%w: guess window [%d, %d) is not a valid hour range",
			ErrInvalidConfig, c.WindowStartHour, c.WindowEndHour)
	case c.PersonRevealDay < 1 || c.PersonRevealDay > 31:
		return fmt.Errorf("%w: person_reveal_day %d is not a December day", ErrInvalidConfig, c.PersonRevealDay)
	case c.MaxRankingLimit < 1:
		return fmt.Errorf("%w: max_ranking_limit must be positive", ErrInvalidConfig)
	}
	return nil
}
