// Package render is the boundary to the strftime-style renderer. Every
// failure mode of the renderer, including panics, is caught here and
// reported as a value wrapping [ErrFormat], so a bad format string can
// never take down a caller.
package render

import (
	"errors"
	"fmt"
	"time"

	"github.com/lestrrat-go/strftime"
)

// ErrFormat wraps rendering failures.
var ErrFormat = errors.New("formatting")

// Render formats t according to the strftime-style format string. Directives
// include %Y, %m, %d, %H, %I, %M, %S, %p, %Z, %B, and %b; characters outside
// a directive pass through literally. An unrecognized directive or any
// renderer fault is reported as an error wrapping [ErrFormat].
func Render(t time.Time, format string) (out string, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = ""
			err = fmt.Errorf("%w: renderer panicked: %v", ErrFormat, p)
		}
	}()

	f, err := strftime.New(format)
	if err != nil {
		return "", fmt.Errorf("%w: %q: %w", ErrFormat, format, err)
	}
	return f.FormatString(t), nil
}
