package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwsmith1983/causeway/pkg/cause"
	"github.com/dwsmith1983/causeway/pkg/interrupt"
	"github.com/dwsmith1983/causeway/pkg/types"
)

// NewInterruptCmd creates the interrupt command.
func NewInterruptCmd() *cobra.Command {
	var (
		statusName string
		causeSpecs []string
		message    string
	)

	cmd := &cobra.Command{
		Use:   "interrupt [run-id]",
		Short: "Interrupt a run and record its causes",
		Long: `Builds an interruption signal from the given causes and finalizes the run:
new causes are recorded and reported, previously recorded ones are skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInterrupt(cmd.Context(), args[0], statusName, causeSpecs, message)
		},
	}

	cmd.Flags().StringVar(&statusName, "status", string(types.StatusAborted), "Terminal status (SUCCESS, UNSTABLE, FAILURE, NOT_BUILT, ABORTED)")
	cmd.Flags().StringArrayVar(&causeSpecs, "cause", nil, "Cause as kind=summary (repeatable)")
	cmd.Flags().StringVar(&message, "message", "", "Underlying abort message")
	return cmd
}

func runInterrupt(ctx context.Context, runID, statusName string, causeSpecs []string, message string) error {
	status := types.TerminalStatus(statusName)
	if !status.IsValid() {
		return fmt.Errorf("unknown status: %s", statusName)
	}

	causes, err := parseCauses(causeSpecs)
	if err != nil {
		return err
	}

	cfg, st, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = st.Stop(ctx) }()

	fin, _, err := newFinalizer(cfg, st)
	if err != nil {
		return err
	}

	var sig *interrupt.Signal
	if message != "" {
		sig = interrupt.Wrap(status, interrupt.NewAbort("%s", message), causes...)
	} else {
		sig = interrupt.New(status, causes...)
	}

	final, err := fin.Finalize(ctx, runID, sig)
	if err != nil {
		return fmt.Errorf("finalizing run %s: %w", runID, err)
	}

	color.Green("  ✓ Run %s finalized as %s", runID, final)
	return nil
}

// parseCauses turns kind=summary flag values into structural causes.
func parseCauses(specs []string) ([]interrupt.Cause, error) {
	causes := make([]interrupt.Cause, 0, len(specs))
	for _, spec := range specs {
		kind, summary, ok := strings.Cut(spec, "=")
		if !ok || kind == "" {
			return nil, fmt.Errorf("invalid cause %q: expected kind=summary", spec)
		}
		causes = append(causes, cause.Custom(kind, summary))
	}
	return causes, nil
}
