// Package config holds the conversion defaults: the zone timestamps are
// stored in, the zone they are presented in, and the output format string.
// A Settings value is constructed once at startup and handed to the
// converter; it is never consulted ambiently.
package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog/log"
)

const (
	// DefaultTimezone is the fallback for both the database and user zones.
	DefaultTimezone = "UTC"

	// DefaultFormat renders "2024-01-15 06:30:00 PST".
	DefaultFormat = "%Y-%m-%d %H:%M:%S %Z"
)

// Settings carries the conversion defaults. Zero-value fields fall back to
// the package defaults when the converter resolves them.
type Settings struct {
	// DBTimezone is the zone naive stored timestamps are anchored to.
	DBTimezone string `envconfig:"DB_TIMEZONE"`

	// UserTimezone is the presentation zone used when a call supplies none.
	UserTimezone string `envconfig:"USER_TIMEZONE"`

	// Format is the strftime-style output format used when a call supplies
	// none.
	Format string `envconfig:"FORMAT"`
}

// Default returns Settings with every field at its package default.
func Default() Settings {
	return Settings{
		DBTimezone:   DefaultTimezone,
		UserTimezone: DefaultTimezone,
		Format:       DefaultFormat,
	}
}

// FromEnv builds Settings from GETTIME_-prefixed environment variables,
// seeded from a .env file when one is present. Unset fields take the
// package defaults; a malformed environment is logged and the defaults are
// returned.
func FromEnv() Settings {
	// Missing .env files are expected outside development.
	_ = godotenv.Load()

	var s Settings
	if err := envconfig.Process("GETTIME", &s); err != nil {
		log.Warn().
			Err(err).
			Msg("Failed to read settings from environment, using defaults")
		return Default()
	}

	if s.DBTimezone == "" {
		s.DBTimezone = DefaultTimezone
	}
	if s.UserTimezone == "" {
		s.UserTimezone = DefaultTimezone
	}
	if s.Format == "" {
		s.Format = DefaultFormat
	}
	return s
}
