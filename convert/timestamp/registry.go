package timestamp

import (
	"errors"
	"fmt"
	"regexp"
	"sync"
)

// ErrRegistration is returned when a custom format cannot be registered.
var ErrRegistration = errors.New("format registration")

// ParseFunc interprets raw, which is known to match pattern, as a timestamp.
// It returns a [time.Time], [Naive], or [Date] on success. A returned error
// or a panic is treated as a non-match and the parser chain moves on.
type ParseFunc func(raw string, pattern *regexp.Regexp) (any, error)

// entry pairs a compiled match pattern with its parser.
type entry struct {
	re *regexp.Regexp
	fn ParseFunc
}

// Registry holds runtime-registered string formats. Registrations prepend,
// so the most recently added format is tried first, and duplicates of a
// pattern are all tried in that order. The zero Registry is not usable; call
// [NewRegistry].
type Registry struct {
	mu      sync.RWMutex
	entries []entry
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// Add compiles pattern and registers fn for strings it matches, ahead of
// every existing registration. Returns an error if pattern is not a valid
// regular expression or fn is nil.
func (r *Registry) Add(pattern string, fn ParseFunc) error {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("%w: invalid pattern %q: %w", ErrRegistration, pattern, err)
	}
	if fn == nil {
		return fmt.Errorf("%w: nil parser for pattern %q", ErrRegistration, pattern)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Prepend into a fresh slice so concurrent readers holding the previous
	// snapshot are unaffected.
	entries := make([]entry, 0, len(r.entries)+1)
	entries = append(entries, entry{re, fn})
	entries = append(entries, r.entries...)
	r.entries = entries
	return nil
}

// Len returns the number of registered formats.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.entries)
}

// snapshot returns a consistent view of the registration list, most recent
// first.
func (r *Registry) snapshot() []entry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.entries
}

// parse runs raw through the registered parsers in order and returns the
// first successful result. The second return value is false when no
// registered format matched and the built-in chain should run.
func (r *Registry) parse(raw string) (any, bool) {
	for _, e := range r.snapshot() {
		if !e.re.MatchString(raw) {
			continue
		}
		if val, err := safeParse(e.fn, raw, e.re); err == nil {
			return val, true
		}
	}
	return nil, false
}

// safeParse invokes fn, converting a panic into a parse error so a faulty
// custom parser reads as a non-match instead of taking down the caller.
func safeParse(fn ParseFunc, raw string, re *regexp.Regexp) (val any, err error) {
	defer func() {
		if p := recover(); p != nil {
			val = nil
			err = fmt.Errorf("%w: custom parser panicked: %v", ErrUnparseable, p)
		}
	}()
	return fn(raw, re)
}
