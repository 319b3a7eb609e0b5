// Package tzdb exposes the IANA time zone database to the conversion
// pipeline: the master list of zone identifiers, location loading, and the
// anchor and shift operations that attach or exchange a zone annotation.
//
// Zone rules come from the Go runtime's embedded copy of the IANA data, so
// lookups work the same on hosts without a system zoneinfo directory. The
// identifier list is embedded separately because the runtime exposes no
// enumeration API.
package tzdb

import (
	"bufio"
	_ "embed"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
	_ "time/tzdata"

	"golang.org/x/exp/maps"
)

var (
	// ErrUnknownZone is returned for identifiers not present in the zone
	// database.
	ErrUnknownZone = errors.New("unknown timezone")

	// ErrAnchor is returned when a naive local time cannot be anchored to a
	// zone, such as a wall-clock time skipped by a daylight saving
	// transition.
	ErrAnchor = errors.New("anchor")

	// ErrShift is returned when an instant cannot be re-anchored to a
	// target zone.
	ErrShift = errors.New("timezone conversion")
)

//go:embed zones.txt
var zoneList string

//nolint:gochecknoglobals
var identifiers = func() map[string]struct{} {
	ids := make(map[string]struct{})
	scanner := bufio.NewScanner(strings.NewReader(zoneList))
	for scanner.Scan() {
		if id := strings.TrimSpace(scanner.Text()); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids
}()

// Identifiers returns the sorted list of zone identifiers known to the
// database.
func Identifiers() []string {
	ids := maps.Keys(identifiers)
	slices.Sort(ids)
	return ids
}

// Valid reports whether id names a zone in the database.
func Valid(id string) bool {
	_, ok := identifiers[id]
	return ok
}

// Load returns the time.Location for id. Returns an error wrapping
// [ErrUnknownZone] if the database has no rules for id.
func Load(id string) (*time.Location, error) {
	loc, err := time.LoadLocation(id)
	if err != nil {
		return nil, fmt.Errorf("%w: %q", ErrUnknownZone, id)
	}
	return loc, nil
}

// Anchor attaches loc to the naive calendar fields, producing the instant at
// that wall-clock time in loc. Fields must already be calendar-valid.
// Returns an error wrapping [ErrAnchor] for wall-clock times that do not
// exist in loc, such as times inside a spring-forward gap, and for times
// that exist twice, such as times inside a fall-back overlap, rather than
// silently selecting one of the readings.
func Anchor(
	year int, month time.Month, day, hour, min, sec int, loc *time.Location,
) (time.Time, error) {
	if loc == nil {
		return time.Time{}, fmt.Errorf("%w: nil location", ErrAnchor)
	}

	t := time.Date(year, month, day, hour, min, sec, 0, loc)

	// time.Date resolves a skipped wall-clock time by sliding it across the
	// transition, which changes the fields. A round trip detects that.
	y, m, d := t.Date()
	hh, mm, ss := t.Clock()
	if y != year || m != month || d != day || hh != hour || mm != min || ss != sec {
		return time.Time{}, fmt.Errorf(
			"%w: %04d-%02d-%02d %02d:%02d:%02d does not exist in %v",
			ErrAnchor, year, month, day, hour, min, sec, loc,
		)
	}

	// time.Date resolves a repeated wall-clock time by picking one of the
	// offsets in effect around the transition.
	if alt, ok := otherReading(t, loc); ok {
		_, off := t.Zone()
		_, altOff := alt.Zone()
		return time.Time{}, fmt.Errorf(
			"%w: %04d-%02d-%02d %02d:%02d:%02d is ambiguous in %v (UTC offsets %v and %v)",
			ErrAnchor, year, month, day, hour, min, sec, loc,
			offsetString(off), offsetString(altOff),
		)
	}

	return t, nil
}

// otherReading looks for a second instant in loc with the same wall-clock
// fields as t, which exists when the fields fall inside the overlap of an
// offset transition within a day of t. An instant t.Add(off-probeOff) that
// lands on the probed offset renders the same fields under that offset.
func otherReading(t time.Time, loc *time.Location) (time.Time, bool) {
	_, off := t.Zone()
	const window = 24 * time.Hour
	for _, probe := range []time.Time{t.Add(-window), t.Add(window)} {
		_, probeOff := probe.Zone()
		if probeOff == off {
			continue
		}
		alt := t.Add(time.Duration(off-probeOff) * time.Second)
		if _, altOff := alt.Zone(); altOff == probeOff {
			return alt.In(loc), true
		}
	}
	return time.Time{}, false
}

// offsetString renders a zone offset in seconds as ±hh:mm.
func offsetString(off int) string {
	sign := "+"
	if off < 0 {
		sign = "-"
		off = -off
	}
	return fmt.Sprintf("%s%02d:%02d", sign, off/3600, off%3600/60)
}

// Shift re-anchors t to loc, preserving the absolute point in time.
func Shift(t time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		return time.Time{}, fmt.Errorf("%w: nil location", ErrShift)
	}
	return t.In(loc), nil
}
