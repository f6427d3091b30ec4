package output

import (
	"context"
	"fmt"
	"io"
)

// Formatter renders analysis results in a specific format.
type Formatter interface {
	// Format renders the report to the given writer.
	Format(ctx context.Context, report *Report, w io.Writer) error

	// Name returns the format name (text, json, html).
	Name() string

	// ContentType returns the MIME type of the rendered output.
	ContentType() string
}

// FormatOptions controls formatter behavior.
type FormatOptions struct {
	// Verbose adds run metadata (source, timing) to the output.
	Verbose bool

	// Quiet enables minimal summary-only output.
	Quiet bool
}

// NewFormatter returns the formatter registered under name.
func NewFormatter(name string, opts FormatOptions) (Formatter, error) {
	switch name {
	case "text":
		return NewTextFormatter(opts), nil
	case "json":
		return NewJSONFormatter(opts), nil
	case "html":
		return NewHTMLFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text, json, or html)", name)
	}
}
