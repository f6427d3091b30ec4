package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/config"
	"github.com/ccollicutt/logtally/pkg/output"
	"github.com/ccollicutt/logtally/pkg/parser"
	"github.com/ccollicutt/logtally/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// newLogsClient builds the CloudWatch client. Tests replace it with a mock.
var newLogsClient = func(ctx context.Context, region, profile string) (parser.LogsClient, error) {
	return parser.NewCloudWatchClient(ctx, region, profile)
}

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	Output  string
	Config  string
	Verbose bool
	Quiet   bool

	// CloudWatch options
	CloudWatchGroup string
	Region          string
	Profile         string
	Since           time.Duration

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [file|-]",
		Short: "Summarize a log file, stdin or CloudWatch log group",
		Long: `Count error, warning and info lines, rank the most frequent error
messages, and report the first and last timestamps seen.

With no file, or with "-", lines are read from stdin. With --cloudwatch-group,
events are read from a CloudWatch Logs group over the --since window.

Exit codes:
  0 - No error lines found
  1 - Error lines found
  2 - Configuration or runtime error`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json|html)")
	cmd.Flags().StringVarP(&opts.Config, "config", "c", "", "Config file with webhook definitions")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include source and timing details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only, no details")

	// CloudWatch flags
	cmd.Flags().StringVar(&opts.CloudWatchGroup, "cloudwatch-group", "", "Read events from this CloudWatch Logs group")
	cmd.Flags().StringVar(&opts.Region, "region", "", "AWS region (defaults to the SDK's resolution)")
	cmd.Flags().StringVar(&opts.Profile, "profile", "", "AWS shared config profile")
	cmd.Flags().DurationVar(&opts.Since, "since", time.Hour, "How far back to read CloudWatch events")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_errors", "When to fire webhook (on_errors|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ExitCode = 0

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	// Fail on a bad format before reading anything
	formatter, err := createFormatter(opts)
	if err != nil {
		return err
	}

	cfg, err := config.Load(ctx, opts.Config)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	source, name, err := openLogSource(ctx, cmd.InOrStdin(), args, opts)
	if err != nil {
		return err
	}
	defer source.Close()

	result, err := analyzer.NewAnalyzer(analyzer.WithSourceName(name)).Analyze(ctx, source)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	report := output.NewReport(result)
	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are reported but never fail the analysis
	sendWebhooks(ctx, cmd.ErrOrStderr(), cfg, opts, report)

	if report.HasErrors() {
		ExitCode = 1
	}

	return nil
}

// openLogSource picks the line source named by the arguments and flags.
func openLogSource(ctx context.Context, stdin io.Reader, args []string, opts *AnalyzeOptions) (parser.LineSource, string, error) {
	if opts.CloudWatchGroup != "" {
		if len(args) > 0 {
			return nil, "", fmt.Errorf("cannot combine a file argument with --cloudwatch-group")
		}
		if opts.Since <= 0 {
			return nil, "", fmt.Errorf("invalid --since %s: must be positive", opts.Since)
		}
		client, err := newLogsClient(ctx, opts.Region, opts.Profile)
		if err != nil {
			return nil, "", err
		}
		end := time.Now()
		source := parser.NewCloudWatchSource(client, opts.CloudWatchGroup, end.Add(-opts.Since), end)
		return source, opts.CloudWatchGroup, nil
	}

	if len(args) == 0 || args[0] == "-" {
		return parser.NewReaderSource("stdin", io.NopCloser(stdin)), "stdin", nil
	}

	path := args[0]
	info, err := os.Stat(path)
	if err != nil {
		return nil, "", fmt.Errorf("opening log file: %w", err)
	}
	if info.IsDir() {
		return nil, "", fmt.Errorf("%s is a directory, not a log file", path)
	}
	return parser.NewFileSource(path), path, nil
}

func createFormatter(opts *AnalyzeOptions) (output.Formatter, error) {
	return output.NewFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
}

// sendWebhooks sends the report to all configured webhooks.
// Results are logged to w.
func sendWebhooks(ctx context.Context, w io.Writer, cfg *config.Config, opts *AnalyzeOptions, report *output.Report) {
	webhooks := collectWebhooks(cfg, opts)
	if len(webhooks) == 0 {
		return
	}

	for _, resp := range webhook.NewClient().Notify(ctx, report, webhooks) {
		if resp.Success() {
			fmt.Fprintf(w, "Webhook %s: sent (%d, %s)\n", resp.Name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(w, "Webhook %s: failed (%v)\n", resp.Name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *AnalyzeOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)
	webhooks = append(webhooks, cfg.Webhooks...)

	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnErrors
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}
