package parser

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
)

// LogsClient is the subset of the CloudWatch Logs API used by CloudWatchSource.
type LogsClient interface {
	FilterLogEvents(ctx context.Context, params *cloudwatchlogs.FilterLogEventsInput, optFns ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.FilterLogEventsOutput, error)
}

// NewCloudWatchClient loads AWS configuration and returns a CloudWatch Logs
// client. Empty region or profile fall back to the default resolution chain.
func NewCloudWatchClient(ctx context.Context, region, profile string) (*cloudwatchlogs.Client, error) {
	var cfgOpts []func(*awsconfig.LoadOptions) error
	if region != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithRegion(region))
	}
	if profile != "" {
		cfgOpts = append(cfgOpts, awsconfig.WithSharedConfigProfile(profile))
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("loading AWS config: %w", err)
	}
	return cloudwatchlogs.NewFromConfig(cfg), nil
}

// CloudWatchSource implements LineSource over the events of one CloudWatch
// Logs group. Pages are fetched lazily; each event message yields one line
// per embedded newline-separated segment.
type CloudWatchSource struct {
	client  LogsClient
	group   string
	startMs int64
	endMs   int64

	pending []string
	next    *string
	done    bool
}

// NewCloudWatchSource creates a LineSource reading events of group between
// start and end.
func NewCloudWatchSource(client LogsClient, group string, start, end time.Time) *CloudWatchSource {
	return &CloudWatchSource{
		client:  client,
		group:   group,
		startMs: start.UnixMilli(),
		endMs:   end.UnixMilli(),
	}
}

// Next returns the next line from the log group.
// Returns io.EOF once the last page has been consumed.
func (s *CloudWatchSource) Next(ctx context.Context) (string, error) {
	for len(s.pending) == 0 {
		if s.done {
			return "", io.EOF
		}
		if err := s.fetch(ctx); err != nil {
			return "", err
		}
	}

	line := s.pending[0]
	s.pending = s.pending[1:]
	if !utf8.ValidString(line) {
		return "", fmt.Errorf("log group %s: %w", s.group, ErrInvalidEncoding)
	}
	return line, nil
}

func (s *CloudWatchSource) fetch(ctx context.Context) error {
	out, err := s.client.FilterLogEvents(ctx, &cloudwatchlogs.FilterLogEventsInput{
		LogGroupName: aws.String(s.group),
		StartTime:    aws.Int64(s.startMs),
		EndTime:      aws.Int64(s.endMs),
		NextToken:    s.next,
	})
	if err != nil {
		return fmt.Errorf("fetching events from %s: %w", s.group, err)
	}

	for _, e := range out.Events {
		msg := strings.TrimRight(aws.ToString(e.Message), "\r\n")
		for _, line := range strings.Split(msg, "\n") {
			s.pending = append(s.pending, strings.TrimSuffix(line, "\r"))
		}
	}

	// A repeated token means the service has nothing further to return.
	if out.NextToken == nil || (s.next != nil && aws.ToString(out.NextToken) == aws.ToString(s.next)) {
		s.done = true
		return nil
	}
	s.next = out.NextToken
	return nil
}

// Close is a no-op; the client is owned by the caller.
func (s *CloudWatchSource) Close() error {
	return nil
}
