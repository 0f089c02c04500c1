package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwsmith1983/causeway/internal/store"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status [run-id]",
		Short: "Show the terminal status of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd.Context(), args[0])
		},
	}
}

func runStatus(ctx context.Context, runID string) error {
	_, st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Stop(ctx) }()

	status, err := st.GetRunStatus(ctx, runID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			color.Yellow("Run %s has no recorded status.", runID)
			return nil
		}
		return fmt.Errorf("getting run status: %w", err)
	}

	fmt.Printf("Run %s: %s\n", runID, colorStatus(status))
	return nil
}

func colorStatus(status types.TerminalStatus) string {
	switch status {
	case types.StatusSuccess:
		return color.GreenString(string(status))
	case types.StatusUnstable:
		return color.YellowString(string(status))
	default:
		return color.RedString(string(status))
	}
}
