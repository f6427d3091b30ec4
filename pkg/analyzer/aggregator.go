package analyzer

import (
	"sort"

	"github.com/ccollicutt/logtally/pkg/parser"
)

// Aggregator accumulates statistics one line at a time.
// An Aggregator is scoped to a single analysis and is not safe for
// concurrent use.
type Aggregator struct {
	totalLines   int
	errorCount   int
	warningCount int
	infoCount    int

	// errorFreq counts error messages; errorOrder records first-seen order
	// so equal counts rank deterministically.
	errorFreq  map[string]int
	errorOrder []string

	firstTimestamp string
	lastTimestamp  string
	sawTimestamp   bool
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{
		errorFreq: make(map[string]int),
	}
}

// Add folds one physical line (terminator stripped) into the running totals.
func (a *Aggregator) Add(line string) {
	a.totalLines++

	entry, ok := parser.Classify(line)
	if !ok {
		return
	}
	a.AddEntry(entry)
}

// AddEntry folds an already classified entry. It does not touch the line count.
func (a *Aggregator) AddEntry(entry parser.LogEntry) {
	if entry.Timestamp != "" {
		if !a.sawTimestamp {
			a.firstTimestamp = entry.Timestamp
			a.sawTimestamp = true
		}
		a.lastTimestamp = entry.Timestamp
	}

	switch entry.Severity() {
	case parser.SeverityError:
		a.errorCount++
		if _, seen := a.errorFreq[entry.Message]; !seen {
			a.errorOrder = append(a.errorOrder, entry.Message)
		}
		a.errorFreq[entry.Message]++
	case parser.SeverityWarning:
		a.warningCount++
	case parser.SeverityInfo:
		a.infoCount++
	}
}

// Stats builds the result record from the current totals.
func (a *Aggregator) Stats() *Stats {
	stats := &Stats{
		TotalLines:   a.totalLines,
		ErrorCount:   a.errorCount,
		WarningCount: a.warningCount,
		InfoCount:    a.infoCount,
		TopErrors:    a.topErrors(TopErrorsLimit),
	}
	if a.sawTimestamp {
		stats.TimeRange = &TimeRange{First: a.firstTimestamp, Last: a.lastTimestamp}
	}
	return stats
}

func (a *Aggregator) topErrors(limit int) map[string]int {
	ranked := make([]string, len(a.errorOrder))
	copy(ranked, a.errorOrder)
	sort.SliceStable(ranked, func(i, j int) bool {
		return a.errorFreq[ranked[i]] > a.errorFreq[ranked[j]]
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	top := make(map[string]int, len(ranked))
	for _, msg := range ranked {
		top[msg] = a.errorFreq[msg]
	}
	return top
}
