package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/internal/api"
	"github.com/ccollicutt/logtally/pkg/config"
)

// ServeOptions holds command-line options for the serve command.
type ServeOptions struct {
	Config string
	Listen string
}

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	opts := &ServeOptions{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP analysis service",
		Long: `Run the HTTP analysis service.

Endpoints:
  GET  /             Upload form
  POST /api/analyze  Analyze a multipart upload, form field, JSON {"text"} or raw body
  GET  /healthz      Liveness check
  GET  /metrics      Prometheus metrics

The server shuts down gracefully on SIGINT or SIGTERM.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file (defaults apply when omitted)")
	cmd.Flags().StringVarP(&opts.Listen, "listen", "l", "", "Listen address, overrides the config file")

	return cmd
}

func runServe(cmd *cobra.Command, opts *ServeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := loadServeConfig(ctx, opts)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := api.NewServer(cfg.Server).Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// loadServeConfig loads the config file and applies flag overrides.
func loadServeConfig(ctx context.Context, opts *ServeOptions) (*config.Config, error) {
	cfg, err := config.Load(ctx, opts.Config)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	if opts.Listen != "" {
		cfg.Server.Listen = opts.Listen
		if err := config.Validate(cfg); err != nil {
			return nil, fmt.Errorf("invalid --listen: %w", err)
		}
	}
	return cfg, nil
}
