package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/config"
	"github.com/ccollicutt/logtally/pkg/parser"
)

// DiagnoseOptions holds options for the diagnose command
type DiagnoseOptions struct {
	Verbose     bool
	Sample      string
	SampleLines int
}

const (
	statusOK      = "ok"
	statusWarning = "warning"
	statusError   = "error"
)

// statusLabels maps a result status to its printed tag.
var statusLabels = map[string]string{
	statusOK:      "PASS",
	statusWarning: "WARN",
	statusError:   "FAIL",
}

// DiagnosticResult is the outcome of one check.
type DiagnosticResult struct {
	Check    string
	Status   string
	Message  string
	Details  []string
	Suggests []string
}

func (r *DiagnosticResult) pass(format string, args ...any) {
	r.Status, r.Message = statusOK, fmt.Sprintf(format, args...)
}

func (r *DiagnosticResult) warn(format string, args ...any) {
	r.Status, r.Message = statusWarning, fmt.Sprintf(format, args...)
}

func (r *DiagnosticResult) fail(format string, args ...any) {
	r.Status, r.Message = statusError, fmt.Sprintf(format, args...)
}

func (r *DiagnosticResult) failed() bool {
	return r.Status == statusError
}

// NewDiagnoseCommand creates the diagnose command
func NewDiagnoseCommand() *cobra.Command {
	opts := &DiagnoseOptions{}

	cmd := &cobra.Command{
		Use:   "diagnose [config-file]",
		Short: "Diagnose common configuration and log format issues",
		Long: `Diagnose common configuration and log format issues.

This command checks:
- Config file syntax and structure
- Whether the listen address can be bound
- Request limits and timeouts
- Webhook definitions (and connectivity with -v)
- With --sample, how many lines of a log file the classifier recognizes

Example:
  logtally diagnose config.yaml
  logtally diagnose --sample /var/log/app.log
  logtally diagnose -v config.yaml  # verbose output`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := ""
			if len(args) == 1 {
				configPath = args[0]
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runDiagnose(ctx, cmd.OutOrStdout(), configPath, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Show detailed diagnostic output")
	cmd.Flags().StringVar(&opts.Sample, "sample", "", "Log file to test against the line classifier")
	cmd.Flags().IntVar(&opts.SampleLines, "lines", 100, "Number of lines to sample")

	return cmd
}

func runDiagnose(ctx context.Context, w io.Writer, configPath string, opts *DiagnoseOptions) error {
	var results []DiagnosticResult
	defer func() { printDiagnostics(w, results, opts) }()

	if configPath != "" {
		exists := checkConfigExists(configPath)
		results = append(results, exists)
		if exists.failed() {
			return nil
		}
	}

	cfg, parsed := checkConfigParseable(ctx, configPath)
	switch {
	case parsed.failed():
		results = append(results, parsed)
		return nil
	case configPath == "":
		results = append(results, DiagnosticResult{
			Check:   "Config File",
			Status:  statusOK,
			Message: "No config file given, using defaults",
		})
	default:
		results = append(results, parsed)
	}

	results = append(results, checkServer(cfg)...)
	results = append(results, checkWebhooks(ctx, cfg, opts)...)
	if opts.Sample != "" {
		results = append(results, checkLogSample(ctx, opts.Sample, opts))
	}
	return nil
}

func checkConfigExists(path string) DiagnosticResult {
	result := DiagnosticResult{Check: "Config File"}

	info, err := os.Stat(path)
	switch {
	case os.IsNotExist(err):
		result.fail("Config file not found: %s", path)
		result.Suggests = []string{"Check the path", "Omit the config file to run with defaults"}
	case err != nil:
		result.fail("Cannot access config file: %v", err)
		result.Suggests = []string{"Check file permissions"}
	case info.IsDir():
		result.fail("%s is a directory", path)
	case info.Size() == 0:
		result.fail("Config file is empty")
		result.Suggests = []string{"Omit the config file to run with defaults"}
	default:
		result.pass("Found: %s (%d bytes)", path, info.Size())
	}
	return result
}

// checkConfigParseable loads path the same way serve does, env overrides
// included. An empty path checks the defaults.
func checkConfigParseable(ctx context.Context, path string) (*config.Config, DiagnosticResult) {
	result := DiagnosticResult{Check: "Config Syntax"}

	cfg, err := config.Load(ctx, path)
	if err != nil {
		result.fail("Failed to parse config: %v", err)
		if strings.Contains(err.Error(), "yaml") {
			result.Suggests = []string{"Indent YAML with spaces and check for unclosed brackets or quotes"}
		}
		return nil, result
	}

	result.pass("Config file parsed successfully")
	result.Details = []string{
		"Listen: " + cfg.Server.Listen,
		fmt.Sprintf("Webhooks: %d", len(cfg.Webhooks)),
	}
	return cfg, result
}

func checkServer(cfg *config.Config) []DiagnosticResult {
	s := cfg.Server

	listen := DiagnosticResult{Check: "Listen Address: " + s.Listen}
	if ln, err := net.Listen("tcp", s.Listen); err != nil {
		listen.warn("Cannot bind: %v", err)
		listen.Suggests = []string{
			"Another process may already be using this port",
			fmt.Sprintf("Set %s or server.listen to a free address", config.EnvListen),
		}
	} else {
		_ = ln.Close()
		listen.pass("Address is available")
	}

	limits := DiagnosticResult{Check: "Request Limits"}
	if s.AnalysisTimeout >= s.WriteTimeout {
		limits.Details = append(limits.Details, fmt.Sprintf(
			"analysis_timeout (%s) is not below write_timeout (%s); slow analyses will lose their response",
			s.AnalysisTimeout, s.WriteTimeout))
	}
	if n := len(limits.Details); n > 0 {
		limits.warn("%d warning(s)", n)
	} else {
		limits.pass("Uploads up to %d bytes, analysis timeout %s", s.MaxUploadBytes, s.AnalysisTimeout)
	}

	return []DiagnosticResult{listen, limits}
}

// checkLogSample classifies the first lines of a log file and reports how
// many carried a timestamp and level.
func checkLogSample(ctx context.Context, path string, opts *DiagnoseOptions) DiagnosticResult {
	result := DiagnosticResult{Check: "Log Sample: " + path}

	limit := opts.SampleLines
	if limit <= 0 {
		limit = 100
	}

	source := parser.NewFileSource(path)
	defer source.Close()

	var sampled, structured int
	var firstMatch, firstMiss string
	levels := map[parser.Severity]int{}
	for sampled < limit {
		line, err := source.Next(ctx)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			result.fail("Cannot read file: %v", err)
			if errors.Is(err, parser.ErrInvalidEncoding) {
				result.Suggests = []string{"The file is not valid UTF-8; convert it before analysis"}
			}
			return result
		}

		entry, ok := parser.Classify(line)
		if !ok {
			continue
		}
		sampled++
		if entry.Level == parser.LevelUnknown {
			if firstMiss == "" {
				firstMiss = line
			}
			continue
		}
		structured++
		levels[entry.Severity()]++
		if firstMatch == "" {
			firstMatch = line
		}
	}

	miss := []string{"First unstructured line:", truncate(firstMiss, 80)}
	switch {
	case sampled == 0:
		result.warn("File has no non-blank lines")
	case structured == 0:
		result.fail("No lines carry a timestamp and level")
		result.Details = miss
		result.Suggests = []string{
			"Lines are counted but not classified unless they look like:",
			"2024-01-01T10:00:00 [ERROR] message",
		}
	case structured < sampled/2:
		result.warn("Only %d/%d sample lines are structured", structured, sampled)
		result.Details = miss
	default:
		result.pass("%d/%d sample lines are structured", structured, sampled)
		if opts.Verbose {
			result.Details = []string{
				"First structured line:",
				truncate(firstMatch, 80),
				fmt.Sprintf("error: %d, warning: %d, info: %d, other: %d",
					levels[parser.SeverityError], levels[parser.SeverityWarning],
					levels[parser.SeverityInfo], levels[parser.SeverityOther]),
			}
		}
	}
	return result
}

func printDiagnostics(w io.Writer, results []DiagnosticResult, opts *DiagnoseOptions) {
	fmt.Fprintln(w, "=== logtally Diagnostics ===")
	fmt.Fprintln(w)

	tally := map[string]int{}
	for _, r := range results {
		tally[r.Status]++

		fmt.Fprintf(w, "[%s] %s\n", statusLabels[r.Status], r.Check)
		fmt.Fprintf(w, "    %s\n", r.Message)
		if opts.Verbose || r.Status != statusOK {
			for _, d := range r.Details {
				fmt.Fprintf(w, "      - %s\n", d)
			}
		}
		for _, s := range r.Suggests {
			fmt.Fprintf(w, "      Hint: %s\n", s)
		}
		fmt.Fprintln(w)
	}

	fmt.Fprintln(w, "---")
	fmt.Fprintf(w, "Summary: %d passed, %d warnings, %d errors\n",
		tally[statusOK], tally[statusWarning], tally[statusError])

	switch {
	case tally[statusError] > 0:
		fmt.Fprintln(w, "\nFix the errors above before running logtally.")
	case tally[statusWarning] > 0:
		fmt.Fprintln(w, "\nConfiguration is usable but has warnings.")
	default:
		fmt.Fprintln(w, "\nConfiguration looks good!")
	}
}

func webhookName(wh config.WebhookConfig) string {
	if wh.Name != "" {
		return wh.Name
	}
	return wh.URL
}

// checkWebhooks inspects each configured webhook. With Verbose, every
// webhook that has a URL is followed by a reachability check.
func checkWebhooks(ctx context.Context, cfg *config.Config, opts *DiagnoseOptions) []DiagnosticResult {
	if len(cfg.Webhooks) == 0 {
		if !opts.Verbose {
			return nil
		}
		return []DiagnosticResult{{Check: "Webhooks", Status: statusOK, Message: "No webhooks configured (optional)"}}
	}

	var results []DiagnosticResult
	for _, wh := range cfg.Webhooks {
		results = append(results, inspectWebhook(wh, opts.Verbose))
		if opts.Verbose && wh.URL != "" {
			reach := checkWebhookConnectivity(ctx, wh)
			reach.Check = "Webhook Connectivity: " + webhookName(wh)
			results = append(results, reach)
		}
	}
	return results
}

func inspectWebhook(wh config.WebhookConfig, verbose bool) DiagnosticResult {
	result := DiagnosticResult{Check: "Webhook: " + webhookName(wh)}

	var issues, warnings []string
	if problem := webhookURLProblem(wh.URL); problem != "" {
		issues = append(issues, problem)
	}
	switch wh.Trigger {
	case "", config.WebhookTriggerOnErrors, config.WebhookTriggerAlways:
	case config.WebhookTriggerNever:
		warnings = append(warnings, "Trigger is never; this webhook is disabled")
	default:
		issues = append(issues, fmt.Sprintf("Invalid trigger %q (use on_errors, always, or never)", wh.Trigger))
	}
	if strings.HasPrefix(wh.Token, "$") {
		warnings = append(warnings, "Token looks like an unset environment variable: "+wh.Token)
	}

	switch {
	case len(issues) > 0:
		result.fail("%d configuration issue(s)", len(issues))
		result.Details = issues
	case len(warnings) > 0:
		result.warn("%d warning(s)", len(warnings))
		result.Details = warnings
	default:
		result.pass("Trigger: %s", wh.Trigger)
		if verbose {
			result.Details = []string{"URL: " + wh.URL, "Timeout: " + wh.Timeout.String()}
			if wh.Token != "" {
				result.Details = append(result.Details, "Token: configured")
			}
		}
	}
	return result
}

func webhookURLProblem(raw string) string {
	if raw == "" {
		return "Missing url"
	}
	u, err := url.Parse(raw)
	switch {
	case err != nil:
		return fmt.Sprintf("Invalid URL: %v", err)
	case u.Scheme != "http" && u.Scheme != "https":
		return fmt.Sprintf("URL scheme must be http or https, got %q", u.Scheme)
	case u.Host == "":
		return "URL must have a host"
	}
	return ""
}

// checkWebhookConnectivity sends a HEAD request. Most receivers only accept
// POST, so a non-2xx/3xx answer is a warning rather than a failure.
func checkWebhookConnectivity(ctx context.Context, wh config.WebhookConfig) DiagnosticResult {
	var result DiagnosticResult

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, wh.URL, nil)
	if err != nil {
		result.warn("Cannot create request: %v", err)
		return result
	}
	if wh.Token != "" {
		req.Header.Set("Authorization", "Bearer "+wh.Token)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		result.warn("Cannot connect: %v", err)
		result.Suggests = []string{"Check the webhook URL and network access"}
		return result
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 400 {
		result.pass("Reachable (status %d)", resp.StatusCode)
	} else {
		result.warn("Reachable but returned status %d", resp.StatusCode)
		result.Suggests = []string{"Reports are sent with POST; a HEAD rejection may be harmless"}
	}
	return result
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen-3] + "..."
}
