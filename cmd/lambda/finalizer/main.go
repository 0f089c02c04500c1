// finalizer Lambda consumes interruption messages from an SQS queue and
// finalizes the named runs against DynamoDB, reporting causes to CloudWatch Logs.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"github.com/dwsmith1983/causeway/internal/finalize"
	"github.com/dwsmith1983/causeway/internal/sink"
	"github.com/dwsmith1983/causeway/internal/store"
	ddbstore "github.com/dwsmith1983/causeway/internal/store/dynamodb"
	"github.com/dwsmith1983/causeway/pkg/cause"
	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// interruptMessage is the SQS message payload.
type interruptMessage struct {
	RunID   string                `json:"run_id"`
	Status  types.TerminalStatus  `json:"status"`
	Message string                `json:"message,omitempty"`
	Causes  []types.RecordedCause `json:"causes"`
}

type deps struct {
	store     store.Store
	finalizer *finalize.Finalizer
	cwSink    *sink.CloudWatchSink
}

var (
	sharedDeps *deps
	depsOnce   sync.Once
	depsErr    error
)

func getDeps(ctx context.Context) (*deps, error) {
	depsOnce.Do(func() {
		sharedDeps, depsErr = initDeps(ctx)
	})
	return sharedDeps, depsErr
}

func initDeps(ctx context.Context) (*deps, error) {
	tableName := os.Getenv("CAUSEWAY_TABLE")
	if tableName == "" {
		return nil, fmt.Errorf("CAUSEWAY_TABLE is required")
	}
	logGroup := os.Getenv("CAUSEWAY_LOG_GROUP")
	logStream := os.Getenv("CAUSEWAY_LOG_STREAM")
	if logGroup == "" || logStream == "" {
		return nil, fmt.Errorf("CAUSEWAY_LOG_GROUP and CAUSEWAY_LOG_STREAM are required")
	}

	st, err := ddbstore.New(&types.DynamoDBConfig{
		TableName: tableName,
		Region:    os.Getenv("AWS_REGION"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating dynamodb store: %w", err)
	}
	instrumented := store.Instrument(st)
	if err := instrumented.Start(ctx); err != nil {
		return nil, fmt.Errorf("connecting to dynamodb: %w", err)
	}

	cwSink, err := sink.NewCloudWatchSink(types.LogConfig{
		LogGroup:  logGroup,
		LogStream: logStream,
		Region:    os.Getenv("AWS_REGION"),
	})
	if err != nil {
		return nil, fmt.Errorf("creating cloudwatch sink: %w", err)
	}

	return &deps{
		store:     instrumented,
		finalizer: finalize.New(instrumented, cwSink),
		cwSink:    cwSink,
	}, nil
}

// processMessage finalizes one run from a raw SQS message body.
func processMessage(ctx context.Context, fin *finalize.Finalizer, body []byte) error {
	var msg interruptMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return fmt.Errorf("parsing message: %w", err)
	}
	if msg.RunID == "" {
		return fmt.Errorf("message missing run_id")
	}

	status := msg.Status
	if status == "" {
		status = types.StatusAborted
	}
	if !status.IsValid() {
		return fmt.Errorf("unknown status: %s", status)
	}

	causes := make([]interrupt.Cause, 0, len(msg.Causes))
	for _, rc := range msg.Causes {
		causes = append(causes, cause.Custom(rc.Kind, rc.Summary))
	}

	var sig *interrupt.Signal
	if msg.Message != "" {
		sig = interrupt.Wrap(status, interrupt.NewAbort("%s", msg.Message), causes...)
	} else {
		sig = interrupt.New(status, causes...)
	}

	final, err := fin.Finalize(ctx, msg.RunID, sig)
	if err != nil {
		return fmt.Errorf("finalizing run %s: %w", msg.RunID, err)
	}

	slog.Info("run finalized", "runID", msg.RunID, "status", final)
	return nil
}

// handler processes an SQS batch, reporting per-message failures so that
// only failed messages are redelivered.
func handler(ctx context.Context, event events.SQSEvent) (events.SQSEventResponse, error) {
	d, err := getDeps(ctx)
	if err != nil {
		return events.SQSEventResponse{}, err
	}

	var resp events.SQSEventResponse
	for _, record := range event.Records {
		if err := processMessage(ctx, d.finalizer, []byte(record.Body)); err != nil {
			slog.Error("message failed", "messageID", record.MessageId, "error", err)
			resp.BatchItemFailures = append(resp.BatchItemFailures,
				events.SQSBatchItemFailure{ItemIdentifier: record.MessageId})
		}
	}

	if err := d.cwSink.Flush(ctx); err != nil {
		slog.Warn("flushing cloudwatch sink", "error", err)
	}
	return resp, nil
}

func main() {
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stderr, nil)))
	awslambda.Start(handler)
}
