package timestamp

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Kimutai01/gettime/convert/tzdb"
)

// SlashOrder selects how the day and month fields of a slash-date string
// (NN/NN/YYYY HH:MM:SS) are read. The two readings are structurally
// identical, so without an explicit order a string valid under both is
// rejected as ambiguous.
type SlashOrder uint8

const (
	// SlashUnset rejects slash dates that are valid under both readings.
	SlashUnset SlashOrder = iota
	// MonthDay reads slash dates as MM/DD/YYYY.
	MonthDay
	// DayMonth reads slash dates as DD/MM/YYYY.
	DayMonth
)

// Normalizer dispatches an arbitrary timestamp input to a zoned instant.
// Zoned inputs pass through unchanged; naive inputs are anchored to the
// source zone; strings run the parser chain.
type Normalizer struct {
	reg   *Registry
	order SlashOrder
}

// NewNormalizer returns a Normalizer consulting reg for custom string
// formats ahead of the built-in chain. A nil reg is treated as empty.
func NewNormalizer(reg *Registry, order SlashOrder) *Normalizer {
	if reg == nil {
		reg = NewRegistry()
	}
	return &Normalizer{reg: reg, order: order}
}

// Normalize interprets input as an instant. Inputs that carry no zone of
// their own are anchored to src. Returns an error wrapping [ErrUnsupported]
// when input is not one of the recognized variants.
func (n *Normalizer) Normalize(input any, src *time.Location) (time.Time, error) {
	if s, ok := input.(string); ok {
		return n.parseString(strings.TrimSpace(s), src)
	}
	return n.normalizeTyped(input, src)
}

// normalizeTyped handles every input variant except strings.
func (n *Normalizer) normalizeTyped(input any, src *time.Location) (time.Time, error) {
	switch v := input.(type) {
	case time.Time:
		// Already a zoned instant.
		return v, nil
	case Naive:
		return n.anchorNaive(v, src)
	case Date:
		return n.anchorDate(v, src)
	case int:
		return fromUnix(int64(v))
	case int8:
		return fromUnix(int64(v))
	case int16:
		return fromUnix(int64(v))
	case int32:
		return fromUnix(int64(v))
	case int64:
		return fromUnix(v)
	case uint:
		return fromUnsigned(uint64(v))
	case uint8:
		return fromUnix(int64(v))
	case uint16:
		return fromUnix(int64(v))
	case uint32:
		return fromUnix(int64(v))
	case uint64:
		return fromUnsigned(v)
	case float32:
		return fromFloat(float64(v))
	case float64:
		return fromFloat(v)
	default:
		return time.Time{}, fmt.Errorf("%w: %T", ErrUnsupported, input)
	}
}

// anchorNaive anchors v to src, reporting nonexistent wall-clock times.
func (n *Normalizer) anchorNaive(v Naive, src *time.Location) (time.Time, error) {
	t, err := tzdb.Anchor(v.year, v.month, v.day, v.hour, v.min, v.sec, src)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrDatetime, err)
	}
	return t, nil
}

// anchorDate anchors midnight on v to src.
func (n *Normalizer) anchorDate(v Date, src *time.Location) (time.Time, error) {
	m := v.Midnight()
	t, err := tzdb.Anchor(m.year, m.month, m.day, 0, 0, 0, src)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %w", ErrDate, err)
	}
	return t, nil
}

// fromUnix interprets sec as whole seconds since the Unix epoch.
func fromUnix(sec int64) (time.Time, error) {
	if sec < MinUnix || sec > MaxUnix {
		return time.Time{}, fmt.Errorf(
			"%w: %d is outside the representable range", ErrUnix, sec,
		)
	}
	return time.Unix(sec, 0).UTC(), nil
}

// fromUnsigned guards against values too large for int64 before delegating
// to fromUnix.
func fromUnsigned(sec uint64) (time.Time, error) {
	if sec > math.MaxInt64 {
		return time.Time{}, fmt.Errorf(
			"%w: %d is outside the representable range", ErrUnix, sec,
		)
	}
	return fromUnix(int64(sec))
}

// fromFloat truncates sec toward zero to whole seconds.
func fromFloat(sec float64) (time.Time, error) {
	if math.IsNaN(sec) || math.IsInf(sec, 0) {
		return time.Time{}, fmt.Errorf("%w: %v is not a finite value", ErrUnix, sec)
	}
	if sec < float64(MinUnix) || sec > float64(MaxUnix) {
		return time.Time{}, fmt.Errorf(
			"%w: %v is outside the representable range", ErrUnix, sec,
		)
	}
	return fromUnix(int64(sec))
}

// Built-in string layouts. The zoned layouts cover ISO-8601 and RFC 3339
// interchangeably; both resolve to the same zone-aware parse.
//
//nolint:gochecknoglobals
var zonedLayouts = []string{
	"2006-01-02T15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999Z0700",
	"2006-01-02T15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
}

const (
	dateOnlyLayout  = "2006-01-02"
	datetimeLayout  = "2006-01-02 15:04:05"
	isoNoZoneLayout = "2006-01-02T15:04:05"
)

// slashRE matches the shared digit structure of the MM/DD/YYYY and
// DD/MM/YYYY formats.
//
//nolint:gochecknoglobals
var slashRE = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4}) (\d{2}):(\d{2}):(\d{2})$`)

// parseString runs the parser chain over a trimmed string: custom formats
// first, most recently registered first, then the built-in layouts in fixed
// order. A layout that matches structurally but names an invalid calendar
// value falls through to the next parser.
func (n *Normalizer) parseString(raw string, src *time.Location) (time.Time, error) {
	if val, ok := n.reg.parse(raw); ok {
		return n.normalizeTyped(val, src)
	}

	for _, layout := range zonedLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}

	if t, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return n.anchorDate(Date{t.Year(), t.Month(), t.Day()}, src)
	}

	if t, err := time.Parse(datetimeLayout, raw); err == nil {
		return n.anchorNaive(naiveOf(t), src)
	}

	if v, matched, err := parseSlash(raw, n.order); err != nil {
		return time.Time{}, err
	} else if matched {
		return n.anchorNaive(v, src)
	}

	if t, err := time.Parse(isoNoZoneLayout, raw); err == nil {
		return n.anchorNaive(naiveOf(t), src)
	}

	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparseable, raw)
}

// naiveOf copies the calendar fields of t into a Naive. The fields came out
// of time.Parse, so they are already valid.
func naiveOf(t time.Time) Naive {
	hh, mm, ss := t.Clock()
	return Naive{t.Year(), t.Month(), t.Day(), hh, mm, ss}
}

// parseSlash interprets a slash-date string under order. With no order
// configured, a string valid under both the month-first and day-first
// readings is rejected as ambiguous rather than silently read month-first;
// a string valid under exactly one reading takes that reading. With an
// order configured, its reading is preferred and the other is a fallback.
// matched is false when the string lacks the slash-date structure or names
// no valid calendar value under either reading.
func parseSlash(raw string, order SlashOrder) (v Naive, matched bool, err error) {
	m := slashRE.FindStringSubmatch(raw)
	if m == nil {
		return Naive{}, false, nil
	}

	fields := make([]int, 6)
	for i, s := range m[1:] {
		fields[i], _ = strconv.Atoi(s)
	}
	first, second, year := fields[0], fields[1], fields[2]
	hour, min, sec := fields[3], fields[4], fields[5]

	monthFirst, mfErr := NewNaive(year, first, second, hour, min, sec)
	dayFirst, dfErr := NewNaive(year, second, first, hour, min, sec)

	switch order {
	case MonthDay:
		if mfErr == nil {
			return monthFirst, true, nil
		}
		if dfErr == nil {
			return dayFirst, true, nil
		}
	case DayMonth:
		if dfErr == nil {
			return dayFirst, true, nil
		}
		if mfErr == nil {
			return monthFirst, true, nil
		}
	case SlashUnset:
		switch {
		case mfErr == nil && dfErr == nil && first != second:
			return Naive{}, false, fmt.Errorf(
				"%w: %q reads as both %v and %v; set a slash-date order",
				ErrAmbiguous, raw, monthFirst, dayFirst,
			)
		case mfErr == nil:
			return monthFirst, true, nil
		case dfErr == nil:
			return dayFirst, true, nil
		}
	}

	// Structural match, but no valid reading. Fall through the chain.
	return Naive{}, false, nil
}
