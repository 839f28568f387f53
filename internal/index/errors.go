package index

import (
	"fmt"

	"github.com/skyline93/cgrep/internal/errors"
)

// ErrFormat is matched by every error reporting a malformed index.
var ErrFormat = errors.New("malformed index")

// FormatError reports a structural problem in an index.
type FormatError struct {
	// Entry is the affected entry, or -1 for the header.
	Entry  int
	Reason string
}

func (e *FormatError) Error() string {
	if e.Entry < 0 {
		return fmt.Sprintf("%v: header: %s", ErrFormat, e.Reason)
	}
	return fmt.Sprintf("%v: entry %d: %s", ErrFormat, e.Entry, e.Reason)
}

// Is makes errors.Is(err, ErrFormat) hold for all format errors.
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// IsFormatError returns true if err reports a malformed index.
func IsFormatError(err error) bool {
	return errors.Is(err, ErrFormat)
}
