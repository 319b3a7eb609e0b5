// Package convert turns database-stored timestamps into text in a viewer's
// time zone.
//
// A [Converter] accepts a timestamp in any of the supported shapes — a
// [time.Time], a [timestamp.Naive] or [timestamp.Date], integer or
// floating-point epoch seconds, or a string — normalizes it to an instant,
// re-anchors the instant to the viewer's zone, and renders it with an
// strftime-style format. Each call resolves its zone and format from the
// converter's [config.Settings], with per-call overrides. String formats
// beyond the built-in set are registered at runtime with
// [Converter.AddFormat].
package convert

import (
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kimutai01/gettime/convert/config"
	"github.com/Kimutai01/gettime/convert/render"
	"github.com/Kimutai01/gettime/convert/timestamp"
	"github.com/Kimutai01/gettime/convert/tzdb"
)

var (
	// ErrDBConfig is returned when the configured database time zone is not
	// a valid zone identifier.
	ErrDBConfig = errors.New("db timezone config")

	// ErrUserConfig is returned when the configured default user time zone
	// is not a valid zone identifier.
	ErrUserConfig = errors.New("user timezone config")

	// ErrTimezone is returned when a caller-supplied time zone is not a
	// valid zone identifier.
	ErrTimezone = errors.New("invalid timezone")
)

// Converter converts timestamps for presentation. It is safe for concurrent
// use; the only mutable state is the custom-format registry, which takes a
// consistent snapshot per call.
type Converter struct {
	settings config.Settings
	registry *timestamp.Registry
	norm     *timestamp.Normalizer
	order    timestamp.SlashOrder
	log      zerolog.Logger
}

// Option configures a Converter.
type Option func(*Converter)

// WithSlashOrder sets how slash-date strings (NN/NN/YYYY HH:MM:SS) are
// read. Without it, strings valid under both the month-first and day-first
// readings are rejected as ambiguous.
func WithSlashOrder(order timestamp.SlashOrder) Option {
	return func(c *Converter) { c.order = order }
}

// WithLogger sets a logger for per-conversion debug output. The default
// logger discards everything.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Converter) { c.log = logger }
}

// New returns a Converter resolving defaults from settings.
func New(settings config.Settings, opt ...Option) *Converter {
	c := &Converter{
		settings: settings,
		registry: timestamp.NewRegistry(),
		log:      zerolog.Nop(),
	}
	for _, o := range opt {
		o(c)
	}
	c.norm = timestamp.NewNormalizer(c.registry, c.order)
	return c
}

// CallOption overrides a resolved default for a single call.
type CallOption func(*callConfig)

type callConfig struct {
	timezone string
	format   string
}

// WithTimezone presents the result in the named zone instead of the
// configured default.
func WithTimezone(tz string) CallOption {
	return func(cc *callConfig) { cc.timezone = tz }
}

// WithFormat renders the result with the given strftime-style format
// instead of the configured default.
func WithFormat(format string) CallOption {
	return func(cc *callConfig) { cc.format = format }
}

// resolved is the per-call settings snapshot shared by every element of a
// batch.
type resolved struct {
	dbLoc   *time.Location
	userLoc *time.Location
	format  string
}

// resolve takes the settings snapshot for one call: database zone, user
// zone (explicit override ahead of the configured default), and format
// string. Caller-supplied zones fail with [ErrTimezone]; misconfigured
// defaults fail with [ErrDBConfig] or [ErrUserConfig].
func (c *Converter) resolve(opt ...CallOption) (resolved, error) {
	var cc callConfig
	for _, o := range opt {
		o(&cc)
	}

	dbTZ := c.settings.DBTimezone
	if dbTZ == "" {
		dbTZ = config.DefaultTimezone
	}
	dbLoc, err := tzdb.Load(dbTZ)
	if err != nil {
		return resolved{}, fmt.Errorf("%w: %q", ErrDBConfig, dbTZ)
	}

	var userLoc *time.Location
	if cc.timezone != "" {
		if !tzdb.Valid(cc.timezone) {
			return resolved{}, fmt.Errorf("%w: %q", ErrTimezone, cc.timezone)
		}
		userLoc, err = tzdb.Load(cc.timezone)
		if err != nil {
			return resolved{}, fmt.Errorf("%w: %q", ErrTimezone, cc.timezone)
		}
	} else {
		userTZ := c.settings.UserTimezone
		if userTZ == "" {
			userTZ = config.DefaultTimezone
		}
		userLoc, err = tzdb.Load(userTZ)
		if err != nil {
			return resolved{}, fmt.Errorf("%w: %q", ErrUserConfig, userTZ)
		}
	}

	format := cc.format
	if format == "" {
		format = c.settings.Format
	}
	if format == "" {
		format = config.DefaultFormat
	}

	return resolved{dbLoc: dbLoc, userLoc: userLoc, format: format}, nil
}

// Convert normalizes input, re-anchors it to the user zone, and renders it.
// Returns the first stage error verbatim.
func (c *Converter) Convert(input any, opt ...CallOption) (string, error) {
	res, err := c.resolve(opt...)
	if err != nil {
		return "", err
	}
	return c.convertOne(input, res)
}

// ConvertBatch converts every element of inputs under one settings
// snapshot, preserving input order. All-or-nothing: the first element to
// fail determines the result and no partial list is returned.
func (c *Converter) ConvertBatch(inputs []any, opt ...CallOption) ([]string, error) {
	res, err := c.resolve(opt...)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(inputs))
	for _, input := range inputs {
		text, err := c.convertOne(input, res)
		if err != nil {
			return nil, err
		}
		out = append(out, text)
	}
	return out, nil
}

// convertOne runs the normalize → shift → render pipeline for one input.
func (c *Converter) convertOne(input any, res resolved) (string, error) {
	t, err := c.norm.Normalize(input, res.dbLoc)
	if err != nil {
		return "", err
	}

	shifted, err := tzdb.Shift(t, res.userLoc)
	if err != nil {
		return "", err
	}

	text, err := render.Render(shifted, res.format)
	if err != nil {
		return "", err
	}

	c.log.Debug().
		Any("input", input).
		Str("timezone", res.userLoc.String()).
		Str("result", text).
		Msg("converted timestamp")
	return text, nil
}

// AddFormat registers a custom string format ahead of every existing one.
// pattern is a regular expression matched against the trimmed input string;
// fn is invoked with the string and the compiled pattern. Returns an error
// if pattern does not compile or fn is nil.
func (c *Converter) AddFormat(pattern string, fn timestamp.ParseFunc) error {
	//nolint:wrapcheck // Okay to return unwrapped error
	return c.registry.Add(pattern, fn)
}

// AvailableTimezones returns the sorted identifiers of every zone the
// converter accepts.
func (c *Converter) AvailableTimezones() []string {
	return tzdb.Identifiers()
}

// ValidTimezone reports whether tz names a known zone.
func (c *Converter) ValidTimezone(tz string) bool {
	return tzdb.Valid(tz)
}
