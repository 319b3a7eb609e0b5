package timestamp

import (
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constParser returns a ParseFunc that always succeeds with val.
func constParser(val any) ParseFunc {
	return func(string, *regexp.Regexp) (any, error) { return val, nil }
}

func TestRegistryAdd(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	reg := NewRegistry()
	a.Equal(0, reg.Len())

	r.NoError(reg.Add(`^\d{4}$`, constParser(1)))
	a.Equal(1, reg.Len())

	// Duplicate patterns are allowed.
	r.NoError(reg.Add(`^\d{4}$`, constParser(2)))
	a.Equal(2, reg.Len())

	err := reg.Add(`[`, constParser(3))
	r.ErrorIs(err, ErrRegistration)
	a.Equal(2, reg.Len())

	err = reg.Add(`^ok$`, nil)
	r.ErrorIs(err, ErrRegistration)
	a.Equal(2, reg.Len())
}

func TestRegistryMostRecentWins(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	reg := NewRegistry()
	r.NoError(reg.Add(`^\d+$`, constParser("first")))
	r.NoError(reg.Add(`^\d+$`, constParser("second")))

	val, ok := reg.parse("1234")
	r.True(ok)
	a.Equal("second", val)
}

func TestRegistryNonMatchSkipped(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	reg := NewRegistry()
	r.NoError(reg.Add(`^\d+$`, constParser("digits")))
	r.NoError(reg.Add(`^[a-z]+$`, constParser("letters")))

	val, ok := reg.parse("1234")
	r.True(ok)
	a.Equal("digits", val)

	_, ok = reg.parse("!!!")
	a.False(ok)
}

func TestRegistryParserFailureFallsThrough(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	reg := NewRegistry()
	r.NoError(reg.Add(`^\d+$`, constParser("older")))
	r.NoError(reg.Add(`^\d+$`, func(string, *regexp.Regexp) (any, error) {
		return nil, errors.New("nope")
	}))

	// The most recent registration fails, so the older one wins.
	val, ok := reg.parse("1234")
	r.True(ok)
	a.Equal("older", val)
}

func TestRegistryParserPanicFallsThrough(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	reg := NewRegistry()
	r.NoError(reg.Add(`^\d+$`, constParser("older")))
	r.NoError(reg.Add(`^\d+$`, func(string, *regexp.Regexp) (any, error) {
		panic("boom")
	}))

	val, ok := reg.parse("1234")
	r.True(ok)
	a.Equal("older", val)

	// A lone panicking parser reads as no match at all.
	lone := NewRegistry()
	r.NoError(lone.Add(`^\d+$`, func(string, *regexp.Regexp) (any, error) {
		panic("boom")
	}))
	_, ok = lone.parse("1234")
	a.False(ok)
}

func TestRegistryParserReceivesPattern(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	reg := NewRegistry()
	var gotRaw, gotPattern string
	r.NoError(reg.Add(`^(\d{4})\|(\d{2})\|(\d{2})$`, func(raw string, re *regexp.Regexp) (any, error) {
		gotRaw = raw
		gotPattern = re.String()
		return MustDate(2024, 1, 15), nil
	}))

	_, ok := reg.parse("2024|01|15")
	r.True(ok)
	a.Equal("2024|01|15", gotRaw)
	a.Equal(`^(\d{4})\|(\d{2})\|(\d{2})$`, gotPattern)
}
