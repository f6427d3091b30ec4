// Package output provides formatting and output generation for analysis results.
package output

import (
	"time"

	"github.com/ccollicutt/logtally/pkg/analyzer"
)

// Report is the complete analysis output.
type Report struct {
	// Stats are the aggregated line statistics.
	Stats *analyzer.Stats `json:"stats"`

	// Metadata provides context about the analysis.
	Metadata Metadata `json:"metadata"`
}

// Metadata provides context about the analysis run.
type Metadata struct {
	// Source names what was analyzed.
	Source string `json:"source,omitempty"`

	// AnalyzedAt is when the analysis was performed.
	AnalyzedAt time.Time `json:"analyzedAt"`

	// Duration is how long the analysis took.
	Duration time.Duration `json:"duration"`
}

// NewReport creates a Report from analysis results.
func NewReport(result *analyzer.AnalysisResult) *Report {
	return &Report{
		Stats: result.Stats,
		Metadata: Metadata{
			Source:     result.Metadata.Source,
			AnalyzedAt: result.Metadata.EndTime,
			Duration:   result.Metadata.Duration(),
		},
	}
}

// HasErrors returns true if any error-class lines were found.
func (r *Report) HasErrors() bool {
	return r.Stats != nil && r.Stats.HasErrors()
}
