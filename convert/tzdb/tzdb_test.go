package tzdb

import (
	"slices"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifiers(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	ids := Identifiers()
	a.True(slices.IsSorted(ids))
	a.Greater(len(ids), 400)

	for _, id := range []string{
		"UTC",
		"America/Los_Angeles",
		"America/New_York",
		"Europe/London",
		"Europe/Paris",
		"Asia/Tokyo",
	} {
		a.Contains(ids, id)
	}

	// Every listed identifier must load.
	for _, id := range []string{"UTC", "US/Pacific", "Etc/UTC", "Asia/Calcutta"} {
		_, err := Load(id)
		a.NoError(err, id)
	}
}

func TestValid(t *testing.T) {
	t.Parallel()
	a := assert.New(t)

	a.True(Valid("UTC"))
	a.True(Valid("Europe/Paris"))
	a.False(Valid(""))
	a.False(Valid("Invalid/Zone"))
	a.False(Valid("europe/paris"))
	a.False(Valid(" UTC"))
}

func TestLoad(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	loc, err := Load("Europe/London")
	r.NoError(err)
	a.Equal("Europe/London", loc.String())

	_, err = Load("Invalid/Zone")
	r.ErrorIs(err, ErrUnknownZone)
	r.ErrorContains(err, `"Invalid/Zone"`)
}

func TestAnchor(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	nyc, err := Load("America/New_York")
	r.NoError(err)

	got, err := Anchor(2024, time.January, 15, 14, 30, 0, nyc)
	r.NoError(err)
	a.Equal(time.Date(2024, 1, 15, 14, 30, 0, 0, nyc), got)

	// 02:30 is inside the 2024-03-10 spring-forward gap.
	_, err = Anchor(2024, time.March, 10, 2, 30, 0, nyc)
	r.ErrorIs(err, ErrAnchor)
	r.ErrorContains(err, "does not exist")

	// The moments on either side of the gap are fine.
	_, err = Anchor(2024, time.March, 10, 1, 59, 59, nyc)
	r.NoError(err)
	_, err = Anchor(2024, time.March, 10, 3, 0, 0, nyc)
	r.NoError(err)

	_, err = Anchor(2024, time.January, 15, 14, 30, 0, nil)
	r.ErrorIs(err, ErrAnchor)
}

func TestAnchorAmbiguous(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	nyc, err := Load("America/New_York")
	r.NoError(err)

	// 01:30 on 2024-11-03 occurs twice in America/New_York, once under each
	// offset; it must be reported, not silently read as the earlier one.
	_, err = Anchor(2024, time.November, 3, 1, 30, 0, nyc)
	r.ErrorIs(err, ErrAnchor)
	r.ErrorContains(err, "ambiguous")
	a.Contains(err.Error(), "-04:00")
	a.Contains(err.Error(), "-05:00")

	// The moments on either side of the overlap anchor cleanly.
	_, err = Anchor(2024, time.November, 3, 0, 59, 59, nyc)
	r.NoError(err)
	_, err = Anchor(2024, time.November, 3, 2, 0, 0, nyc)
	r.NoError(err)

	// Half-hour offset transitions are detected too: 01:45 on 2024-04-07
	// repeats in Australia/Lord_Howe, which falls back by 30 minutes.
	lh, err := Load("Australia/Lord_Howe")
	r.NoError(err)
	_, err = Anchor(2024, time.April, 7, 1, 45, 0, lh)
	r.ErrorIs(err, ErrAnchor)
	r.ErrorContains(err, "ambiguous")
}

func TestShift(t *testing.T) {
	t.Parallel()
	a := assert.New(t)
	r := require.New(t)

	la, err := Load("America/Los_Angeles")
	r.NoError(err)

	orig := time.Date(2024, 1, 15, 14, 30, 0, 0, time.UTC)
	got, err := Shift(orig, la)
	r.NoError(err)

	// The absolute instant is preserved; only the annotation changes.
	a.True(orig.Equal(got))
	a.Same(la, got.Location())
	hh, _, _ := got.Clock()
	a.Equal(6, hh)

	_, err = Shift(orig, nil)
	r.ErrorIs(err, ErrShift)
}
