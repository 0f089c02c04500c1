package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// NewRecordsCmd creates the records command.
func NewRecordsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "records [run-id]",
		Short: "List the cause records of a run",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRecords(cmd.Context(), args[0])
		},
	}
}

func runRecords(ctx context.Context, runID string) error {
	_, st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Stop(ctx) }()

	records, err := st.ListCauseRecords(ctx, runID)
	if err != nil {
		return fmt.Errorf("listing cause records: %w", err)
	}

	if len(records) == 0 {
		fmt.Printf("No cause records for run %s.\n", runID)
		return nil
	}

	bold := color.New(color.Bold)
	_, _ = bold.Printf("Cause records for run %s:\n", runID)
	fmt.Println()

	for _, rec := range records {
		fmt.Printf("  %s  %s\n", rec.ID, rec.RecordedAt.Format(time.RFC3339))
		for _, c := range rec.Causes {
			fmt.Printf("    %s: %s\n", color.CyanString(c.Kind), c.Summary)
		}
	}
	fmt.Println()
	return nil
}
