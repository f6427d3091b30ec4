package analyzer

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/ccollicutt/logtally/pkg/parser"
)

// Analyzer runs analyses over line sources. It holds only configuration,
// so one Analyzer can serve any number of concurrent Analyze calls.
type Analyzer struct {
	sourceName string
	now        func() time.Time
}

// AnalyzerOption configures analyzer behavior.
type AnalyzerOption func(*Analyzer)

// WithSourceName sets the name recorded in the result metadata.
func WithSourceName(name string) AnalyzerOption {
	return func(a *Analyzer) {
		a.sourceName = name
	}
}

// WithClock overrides the clock used for metadata timestamps.
func WithClock(now func() time.Time) AnalyzerOption {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnalyzer creates a new analyzer.
func NewAnalyzer(opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{now: time.Now}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Analyze reads every line from source, in order, into a fresh Aggregator.
// Malformed lines never fail the fold; the only errors come from the source
// itself (I/O, decoding, or a cancelled context).
func (a *Analyzer) Analyze(ctx context.Context, source parser.LineSource) (*AnalysisResult, error) {
	result := &AnalysisResult{
		Metadata: AnalysisMetadata{
			Source:    a.sourceName,
			StartTime: a.now(),
		},
	}

	agg := NewAggregator()
	for {
		line, err := source.Next(ctx)
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading log source: %w", err)
		}
		agg.Add(line)
	}

	result.Stats = agg.Stats()
	result.Metadata.EndTime = a.now()

	return result, nil
}

// Analyze is shorthand for NewAnalyzer().Analyze returning only the stats.
func Analyze(ctx context.Context, source parser.LineSource) (*Stats, error) {
	result, err := NewAnalyzer().Analyze(ctx, source)
	if err != nil {
		return nil, err
	}
	return result.Stats, nil
}

// AnalyzeLines folds an in-memory slice of lines.
func AnalyzeLines(lines []string) *Stats {
	agg := NewAggregator()
	for _, line := range lines {
		agg.Add(line)
	}
	return agg.Stats()
}

// AnalyzeText splits text into physical lines and folds them. Text that is
// not valid UTF-8 yields parser.ErrInvalidEncoding.
func AnalyzeText(text string) (*Stats, error) {
	return Analyze(context.Background(), parser.NewReaderSource("text", strings.NewReader(text)))
}
