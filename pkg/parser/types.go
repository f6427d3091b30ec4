// Package parser provides log line classification and line sources.
package parser

// Level tokens with special meaning to the aggregator.
const (
	LevelError   = "ERROR"
	LevelErr     = "ERR"
	LevelFatal   = "FATAL"
	LevelWarn    = "WARN"
	LevelWarning = "WARNING"
	LevelInfo    = "INFO"
	LevelUnknown = "UNKNOWN"
)

// Severity groups level tokens into the classes that are counted.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
	SeverityOther   Severity = "other"
)

// LogEntry is the structured form of one non-blank log line.
type LogEntry struct {
	// Timestamp is the raw timestamp text, or empty when the line had none.
	// It is never parsed into a time value.
	Timestamp string

	// Level is the upper-cased severity token, UNKNOWN for unstructured lines.
	Level string

	// Message is the text after the timestamp and level, or the whole
	// trimmed line when no structured prefix was found.
	Message string
}

// Severity returns the counting class of the entry's level.
func (e LogEntry) Severity() Severity {
	switch e.Level {
	case LevelError, LevelErr, LevelFatal:
		return SeverityError
	case LevelWarn, LevelWarning:
		return SeverityWarning
	case LevelInfo:
		return SeverityInfo
	default:
		return SeverityOther
	}
}
