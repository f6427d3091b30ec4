// Package cli provides the command-line interface for logtally.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	if err := NewRootCommand().Execute(); err != nil {
		// SilenceErrors prevents Cobra from printing this itself
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logtally",
		Short: "Summarize log files by severity",
		Long: `logtally reads log lines and reports how many were errors, warnings and
info messages, the ten most frequent error messages, and the first and last
timestamps seen.

Lines of the form

  2024-01-01T10:00:00 [ERROR] disk full

are classified by their level. Anything else still counts toward the total.

Run it once over a file, stdin or a CloudWatch log group with 'analyze', or
start the HTTP service with 'serve'.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
