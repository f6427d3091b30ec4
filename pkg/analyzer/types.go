// Package analyzer folds streams of log lines into summary statistics.
package analyzer

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"
)

// TopErrorsLimit is the maximum number of distinct messages kept in TopErrors.
const TopErrorsLimit = 10

// Stats is the result of analyzing one stream of log lines.
type Stats struct {
	// TotalLines counts every physical line read, blank lines included.
	TotalLines int `json:"totalLines"`

	// ErrorCount counts ERROR, ERR and FATAL entries.
	ErrorCount int `json:"errorCount"`

	// WarningCount counts WARN and WARNING entries.
	WarningCount int `json:"warningCount"`

	// InfoCount counts INFO entries.
	InfoCount int `json:"infoCount"`

	// TopErrors maps the most frequent error messages to their counts.
	// It holds at most TopErrorsLimit entries.
	TopErrors map[string]int `json:"topErrors"`

	// TimeRange holds the first and last timestamps encountered, or nil
	// when no line carried a timestamp.
	TimeRange *TimeRange `json:"timeRange"`
}

// HasErrors returns true if any error-class entry was seen.
func (s *Stats) HasErrors() bool {
	return s.ErrorCount > 0
}

// MessageCount pairs an error message with its occurrence count.
type MessageCount struct {
	Message string
	Count   int
}

// RankedErrors returns TopErrors ordered by descending count, then message.
func (s *Stats) RankedErrors() []MessageCount {
	ranked := make([]MessageCount, 0, len(s.TopErrors))
	for msg, n := range s.TopErrors {
		ranked = append(ranked, MessageCount{Message: msg, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Message < ranked[j].Message
	})
	return ranked
}

// TimeRange is the first and last timestamp encountered, kept verbatim.
// "First" and "last" refer to encounter order, not chronology.
type TimeRange struct {
	First string
	Last  string
}

// MarshalJSON encodes the range as a two-element array.
func (r TimeRange) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]string{r.First, r.Last})
}

// UnmarshalJSON decodes a two-element array.
func (r *TimeRange) UnmarshalJSON(data []byte) error {
	var pair []string
	if err := json.Unmarshal(data, &pair); err != nil {
		return err
	}
	if len(pair) != 2 {
		return fmt.Errorf("timeRange: expected 2 elements, got %d", len(pair))
	}
	r.First, r.Last = pair[0], pair[1]
	return nil
}

// AnalysisResult contains the statistics plus context about the run.
type AnalysisResult struct {
	Stats    *Stats
	Metadata AnalysisMetadata
}

// AnalysisMetadata provides context about the analysis run.
type AnalysisMetadata struct {
	// Source names what was analyzed (file path, upload name, log group).
	Source string

	// StartTime is when analysis began.
	StartTime time.Time

	// EndTime is when analysis completed.
	EndTime time.Time
}

// Duration returns how long the analysis took.
func (m AnalysisMetadata) Duration() time.Duration {
	return m.EndTime.Sub(m.StartTime)
}
