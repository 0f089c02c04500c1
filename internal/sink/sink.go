// Package sink implements the run log sinks reconciliation reports to.
package sink

import (
	"fmt"

	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// New creates the log sink described by cfg.
func New(cfg types.LogConfig) (interrupt.LogSink, error) {
	switch cfg.Sink {
	case types.SinkConsole, "":
		return NewConsoleSink(), nil
	case types.SinkFile:
		if cfg.Path == "" {
			return nil, fmt.Errorf("file sink path required")
		}
		return NewFileSink(cfg.Path)
	case types.SinkCloudWatch:
		if cfg.LogGroup == "" || cfg.LogStream == "" {
			return nil, fmt.Errorf("cloudwatch logGroup and logStream required")
		}
		return NewCloudWatchSink(cfg)
	default:
		return nil, fmt.Errorf("unknown log sink type %q", cfg.Sink)
	}
}
