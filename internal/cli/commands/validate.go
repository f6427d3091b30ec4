package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logtally configuration file without starting the server.

Checks:
  - YAML syntax
  - Listen address and request limits
  - Webhook URLs and triggers`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	s := cfg.Server
	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Listen:           %s\n", s.Listen)
	fmt.Fprintf(out, "  Max upload:       %d bytes\n", s.MaxUploadBytes)
	fmt.Fprintf(out, "  Read timeout:     %s\n", s.ReadTimeout)
	fmt.Fprintf(out, "  Write timeout:    %s\n", s.WriteTimeout)
	fmt.Fprintf(out, "  Analysis timeout: %s\n", s.AnalysisTimeout)
	fmt.Fprintf(out, "  Webhooks:         %d\n", len(cfg.Webhooks))

	for i, wh := range cfg.Webhooks {
		name := wh.Name
		if name == "" {
			name = wh.URL
		}
		fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, wh.Trigger, name)
	}

	return nil
}
