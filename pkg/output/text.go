package output

import (
	"context"
	"fmt"
	"io"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// ContentType returns the MIME type of the output.
func (f *TextFormatter) ContentType() string {
	return "text/plain; charset=utf-8"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	if f.opts.Quiet {
		return f.formatQuiet(report, w)
	}
	return f.formatFull(report, w)
}

func (f *TextFormatter) formatQuiet(report *Report, w io.Writer) error {
	s := report.Stats
	_, err := fmt.Fprintf(w, "logtally: %d lines, %d errors, %d warnings, %d info\n",
		s.TotalLines, s.ErrorCount, s.WarningCount, s.InfoCount)
	return err
}

func (f *TextFormatter) formatFull(report *Report, w io.Writer) error {
	s := report.Stats

	// Header
	fmt.Fprintln(w, "=== logtally report ===")
	if report.Metadata.Source != "" {
		fmt.Fprintf(w, "Source: %s\n", report.Metadata.Source)
	}
	fmt.Fprintln(w)

	// Counts
	fmt.Fprintf(w, "Total lines: %d\n", s.TotalLines)
	fmt.Fprintf(w, "Errors:      %d\n", s.ErrorCount)
	fmt.Fprintf(w, "Warnings:    %d\n", s.WarningCount)
	fmt.Fprintf(w, "Info:        %d\n", s.InfoCount)

	if s.TimeRange != nil {
		fmt.Fprintf(w, "Time range:  %s .. %s\n", s.TimeRange.First, s.TimeRange.Last)
	} else {
		fmt.Fprintln(w, "Time range:  none (no timestamps found)")
	}
	fmt.Fprintln(w)

	// Top errors
	ranked := s.RankedErrors()
	if len(ranked) == 0 {
		fmt.Fprintln(w, "No errors found")
	} else {
		fmt.Fprintf(w, "Top errors (%d):\n", len(ranked))
		for _, e := range ranked {
			fmt.Fprintf(w, "  %6d  %s\n", e.Count, e.Message)
		}
	}

	if f.opts.Verbose {
		fmt.Fprintln(w, "---")
		fmt.Fprintf(w, "Analyzed at: %s\n", report.Metadata.AnalyzedAt.Format("2006-01-02 15:04:05"))
		_, err := fmt.Fprintf(w, "Duration: %s\n", report.Metadata.Duration.Round(1e6))
		return err
	}

	return nil
}
