package sink

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs"
	cwltypes "github.com/aws/aws-sdk-go-v2/service/cloudwatchlogs/types"

	"github.com/dwsmith1983/causeway/pkg/types"
)

// CWLAPI is the subset of the CloudWatch Logs client used by CloudWatchSink.
type CWLAPI interface {
	PutLogEvents(ctx context.Context, input *cloudwatchlogs.PutLogEventsInput, opts ...func(*cloudwatchlogs.Options)) (*cloudwatchlogs.PutLogEventsOutput, error)
}

// CloudWatchSink buffers run log lines and ships them to a CloudWatch Logs
// stream on Flush. WriteLine itself never blocks on the network.
type CloudWatchSink struct {
	client    CWLAPI
	logGroup  string
	logStream string

	mu     sync.Mutex
	buffer []cwltypes.InputLogEvent
}

// CloudWatchSinkOption configures a CloudWatchSink.
type CloudWatchSinkOption func(*CloudWatchSink)

// WithCWLClient sets a custom CloudWatch Logs client (useful for testing).
func WithCWLClient(c CWLAPI) CloudWatchSinkOption {
	return func(s *CloudWatchSink) { s.client = c }
}

// NewCloudWatchSink creates a CloudWatch Logs sink.
func NewCloudWatchSink(cfg types.LogConfig, opts ...CloudWatchSinkOption) (*CloudWatchSink, error) {
	s := &CloudWatchSink{
		logGroup:  cfg.LogGroup,
		logStream: cfg.LogStream,
	}
	for _, o := range opts {
		o(s)
	}
	if s.client == nil {
		var loadOpts []func(*awsconfig.LoadOptions) error
		if cfg.Region != "" {
			loadOpts = append(loadOpts, awsconfig.WithRegion(cfg.Region))
		}
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOpts...)
		if err != nil {
			return nil, fmt.Errorf("loading AWS config: %w", err)
		}
		s.client = cloudwatchlogs.NewFromConfig(awsCfg)
	}
	return s, nil
}

// WriteLine buffers one line for the next Flush.
func (s *CloudWatchSink) WriteLine(line string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buffer = append(s.buffer, cwltypes.InputLogEvent{
		Message:   aws.String(line),
		Timestamp: aws.Int64(time.Now().UnixMilli()),
	})
}

// Flush ships buffered lines to the log stream. A failed flush keeps the
// buffer so a retry does not lose lines.
func (s *CloudWatchSink) Flush(ctx context.Context) error {
	s.mu.Lock()
	events := s.buffer
	s.mu.Unlock()

	if len(events) == 0 {
		return nil
	}

	_, err := s.client.PutLogEvents(ctx, &cloudwatchlogs.PutLogEventsInput{
		LogGroupName:  &s.logGroup,
		LogStreamName: &s.logStream,
		LogEvents:     events,
	})
	if err != nil {
		return fmt.Errorf("putting log events: %w", err)
	}

	s.mu.Lock()
	s.buffer = s.buffer[len(events):]
	s.mu.Unlock()
	return nil
}
