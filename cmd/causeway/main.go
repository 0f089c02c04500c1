package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dwsmith1983/causeway/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "causeway",
		Short: "Structured run interruption with cause deduplication",
		Long: `Causeway finalizes interrupted runs: it records why a run was stopped,
deduplicates causes that were already recorded, reports only what is new,
and settles the run's terminal status.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewInterruptCmd(),
		commands.NewRecordsCmd(),
		commands.NewStatusCmd(),
		commands.NewServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
