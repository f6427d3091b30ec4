package parser

import (
	"regexp"
	"strings"
)

// structuredLine matches "<date>[T ]<time>[.frac] [LEVEL] message".
// The timestamp and level groups are both required for a match. Separators
// include Unicode spaces and the level is any run of word characters.
var structuredLine = regexp.MustCompile(
	`^(\d{4}-\d{2}-\d{2}[T ]\d{2}:\d{2}:\d{2}(?:[.,]\d+)?)[\s\p{Zs}]*\[?([\pL\pM\pN\pPc]+)\]?[\s\p{Zs}]*(.*)$`,
)

// Classify converts a single line (without its terminator) into a LogEntry.
// It returns false when the line is blank. Every other line produces an
// entry; lines without a recognizable prefix become UNKNOWN entries whose
// message is the whole trimmed line.
func Classify(line string) (LogEntry, bool) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return LogEntry{}, false
	}

	matches := structuredLine.FindStringSubmatch(trimmed)
	if matches == nil {
		return LogEntry{
			Level:   LevelUnknown,
			Message: trimmed,
		}, true
	}

	return LogEntry{
		Timestamp: strings.TrimSpace(matches[1]),
		Level:     strings.ToUpper(strings.TrimSpace(matches[2])),
		Message:   strings.TrimSpace(matches[3]),
	}, true
}
