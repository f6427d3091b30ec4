package output

import (
	"context"
	"encoding/json"
	"io"

	"github.com/ccollicutt/logtally/pkg/analyzer"
)

// JSONFormatter formats reports as JSON.
// The default output is the bare stats object; Verbose adds a metadata field.
type JSONFormatter struct {
	opts FormatOptions
}

// NewJSONFormatter creates a new JSON formatter with the given options.
func NewJSONFormatter(opts FormatOptions) *JSONFormatter {
	return &JSONFormatter{opts: opts}
}

// Name returns the format name.
func (f *JSONFormatter) Name() string {
	return "json"
}

// ContentType returns the MIME type of the output.
func (f *JSONFormatter) ContentType() string {
	return "application/json"
}

// Format renders the report as JSON.
func (f *JSONFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")

	if !f.opts.Verbose || f.opts.Quiet {
		return encoder.Encode(report.Stats)
	}

	return encoder.Encode(struct {
		*analyzer.Stats
		Metadata *Metadata `json:"metadata"`
	}{report.Stats, &report.Metadata})
}
