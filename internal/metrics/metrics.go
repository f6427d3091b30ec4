// Package metrics defines the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/parser"
)

// Analysis results recorded by AnalysesTotal.
const (
	ResultOK          = "ok"
	ResultDecodeError = "decode_error"
	ResultTooLarge    = "too_large"
	ResultTimeout     = "timeout"
	ResultCanceled    = "canceled"
	ResultError       = "error"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logtally_http_requests_total",
		Help: "Total number of HTTP requests processed",
	}, []string{"status", "method"})

	LinesAnalyzed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logtally_lines_analyzed_total",
		Help: "The total number of log lines analyzed, by level class",
	}, []string{"level"})

	AnalysesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "logtally_analyses_total",
		Help: "The total number of analyses run, by result",
	}, []string{"result"})

	AnalysisDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "logtally_analysis_duration_seconds",
		Help:    "Time spent folding one request body",
		Buckets: prometheus.DefBuckets,
	})
)

// ObserveStats adds the per-class line counts of one analysis.
func ObserveStats(stats *analyzer.Stats) {
	other := stats.TotalLines - stats.ErrorCount - stats.WarningCount - stats.InfoCount
	LinesAnalyzed.WithLabelValues(string(parser.SeverityError)).Add(float64(stats.ErrorCount))
	LinesAnalyzed.WithLabelValues(string(parser.SeverityWarning)).Add(float64(stats.WarningCount))
	LinesAnalyzed.WithLabelValues(string(parser.SeverityInfo)).Add(float64(stats.InfoCount))
	LinesAnalyzed.WithLabelValues(string(parser.SeverityOther)).Add(float64(other))
}
