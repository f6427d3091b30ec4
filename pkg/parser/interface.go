package parser

import (
	"context"
	"errors"
)

// ErrInvalidEncoding is returned by sources when a line is not valid UTF-8.
var ErrInvalidEncoding = errors.New("invalid UTF-8 byte sequence")

// LineSource provides an iterator over raw log lines.
// Implementations must be safe for sequential access (not concurrent).
type LineSource interface {
	// Next returns the next line with its terminator stripped.
	// Returns io.EOF when no more lines are available.
	Next(ctx context.Context) (string, error)

	// Close releases any resources held by the source.
	Close() error
}
