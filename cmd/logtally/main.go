// logtally - Log Severity Summaries
//
// logtally reads log lines and reports error, warning and info counts, the
// most frequent error messages, and the observed time range.
package main

import (
	"os"

	"github.com/ccollicutt/logtally/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
