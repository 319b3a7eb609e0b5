// Package timestamp normalizes heterogeneous timestamp inputs into zoned
// instants.
//
// An input may already be a zoned instant ([time.Time]), a calendar value
// without a zone ([Naive] or [Date]), an integer or floating-point count of
// seconds since the Unix epoch, or a string in one of a fixed set of textual
// formats. Strings run through an ordered parser chain that callers can
// extend at runtime through a [Registry].
package timestamp

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrUnparseable is returned when no parser in the chain matches a
	// string input.
	ErrUnparseable = errors.New("unparseable timestamp")

	// ErrUnsupported is returned when an input's type is not one of the
	// recognized timestamp variants.
	ErrUnsupported = errors.New("unsupported timestamp format")

	// ErrDatetime is returned when a naive local time cannot be anchored to
	// its source time zone.
	ErrDatetime = errors.New("datetime conversion")

	// ErrDate is returned when a calendar date cannot be anchored to its
	// source time zone.
	ErrDate = errors.New("date conversion")

	// ErrUnix is returned when an epoch value lies outside the representable
	// instant range.
	ErrUnix = errors.New("unix conversion")

	// ErrAmbiguous is returned for slash-date strings whose day and month
	// cannot be told apart without an explicit [SlashOrder].
	ErrAmbiguous = errors.New("ambiguous date")
)

// Epoch bounds for integer and floating-point inputs. Instants outside the
// years 1–9999 are not representable.
const (
	MinUnix int64 = -62135596800
	MaxUnix int64 = 253402300799
)

// Naive represents a calendar date and time without a time zone. It must be
// anchored to a zone before it can denote an instant.
type Naive struct {
	year           int
	month          time.Month
	day            int
	hour, min, sec int
}

// NewNaive constructs a Naive from calendar fields. Returns an error unless
// the fields are calendar-valid: month 1–12, day valid for the month and
// year, hour 0–23, minute and second 0–59.
func NewNaive(year, month, day, hour, min, sec int) (Naive, error) {
	if err := validDate(year, month, day); err != nil {
		return Naive{}, err
	}
	if hour < 0 || hour > 23 || min < 0 || min > 59 || sec < 0 || sec > 59 {
		return Naive{}, fmt.Errorf(
			"%w: invalid time %02d:%02d:%02d", ErrDatetime, hour, min, sec,
		)
	}
	return Naive{year, time.Month(month), day, hour, min, sec}, nil
}

// MustNaive is like [NewNaive] but panics on invalid fields. Mostly provided
// for use in tests and documentation examples.
func MustNaive(year, month, day, hour, min, sec int) Naive {
	n, err := NewNaive(year, month, day, hour, min, sec)
	if err != nil {
		panic(err)
	}
	return n
}

// Year returns the year field.
func (n Naive) Year() int { return n.year }

// Month returns the month field.
func (n Naive) Month() time.Month { return n.month }

// Day returns the day field.
func (n Naive) Day() int { return n.day }

// Clock returns the hour, minute, and second fields.
func (n Naive) Clock() (hour, min, sec int) { return n.hour, n.min, n.sec }

// Date returns the calendar date portion of n.
func (n Naive) Date() Date {
	return Date{year: n.year, month: n.month, day: n.day}
}

// naiveFormat represents the canonical string format for Naive values.
const naiveFormat = "%04d-%02d-%02d %02d:%02d:%02d"

// String returns the string representation of n.
func (n Naive) String() string {
	return fmt.Sprintf(
		naiveFormat, n.year, n.month, n.day, n.hour, n.min, n.sec,
	)
}

// Date represents a calendar date without a time zone.
type Date struct {
	year  int
	month time.Month
	day   int
}

// NewDate constructs a Date from calendar fields. Returns an error unless
// the fields are calendar-valid.
func NewDate(year, month, day int) (Date, error) {
	if err := validDate(year, month, day); err != nil {
		return Date{}, err
	}
	return Date{year, time.Month(month), day}, nil
}

// MustDate is like [NewDate] but panics on invalid fields.
func MustDate(year, month, day int) Date {
	d, err := NewDate(year, month, day)
	if err != nil {
		panic(err)
	}
	return d
}

// Year returns the year field.
func (d Date) Year() int { return d.year }

// Month returns the month field.
func (d Date) Month() time.Month { return d.month }

// Day returns the day field.
func (d Date) Day() int { return d.day }

// String returns the string representation of d.
func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, d.month, d.day)
}

// Midnight returns the Naive at 00:00:00 on d.
func (d Date) Midnight() Naive {
	return Naive{year: d.year, month: d.month, day: d.day}
}

// validDate reports whether year, month, and day name a real calendar date.
// The upper year bound matches the epoch bounds above.
func validDate(year, month, day int) error {
	if year < 1 || year > 9999 || month < 1 || month > 12 {
		return fmt.Errorf(
			"%w: invalid date %04d-%02d-%02d", ErrDate, year, month, day,
		)
	}
	if day < 1 || day > daysIn(year, time.Month(month)) {
		return fmt.Errorf(
			"%w: invalid date %04d-%02d-%02d", ErrDate, year, month, day,
		)
	}
	return nil
}

// daysIn returns the number of days in month of year.
func daysIn(year int, month time.Month) int {
	// The zeroth day of the next month normalizes to the last of this one.
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
