package notify

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/dwsmith1983/causeway/pkg/types"
)

// ConsoleSink writes notifications to the terminal with color.
type ConsoleSink struct{}

// NewConsoleSink creates a new console notification sink.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

// Name returns the sink identifier.
func (s *ConsoleSink) Name() string { return "console" }

// Send writes a notification to the terminal, color-coded by status severity.
func (s *ConsoleSink) Send(_ context.Context, n types.Notification) error {
	var prefix string
	switch n.Status {
	case types.StatusAborted, types.StatusFailure:
		prefix = color.RedString("[%s]", n.Status)
	case types.StatusUnstable, types.StatusNotBuilt:
		prefix = color.YellowString("[%s]", n.Status)
	default:
		prefix = color.CyanString("[%s]", n.Status)
	}

	for _, c := range n.Causes {
		fmt.Printf("%s [%s] %s\n", prefix, n.RunID, c.Summary)
	}
	if len(n.Causes) == 0 {
		fmt.Printf("%s [%s] run interrupted\n", prefix, n.RunID)
	}
	return nil
}
