package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/dwsmith1983/causeway/internal/config"
)

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	var storeName string

	cmd := &cobra.Command{
		Use:   "init [project-name]",
		Short: "Initialize a new Causeway project",
		Long:  "Creates project scaffolding with a starter causeway.yaml.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(args[0], storeName)
		},
	}

	cmd.Flags().StringVar(&storeName, "store", "memory", "Store backend (memory, redis, dynamodb)")
	return cmd
}

func runInit(projectName, storeName string) error {
	bold := color.New(color.Bold)

	_, _ = bold.Printf("Initializing Causeway project: %s\n", projectName)

	if err := os.MkdirAll(projectName, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", projectName, err)
	}

	configPath := filepath.Join(projectName, config.FileName)
	configContent, err := starterConfig(storeName)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, []byte(configContent), 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	color.Green("  ✓ Project scaffolded")

	fmt.Println()
	_, _ = bold.Println("Next steps:")
	fmt.Printf("  cd %s\n", projectName)
	fmt.Println("  causeway interrupt my-run --status ABORTED --cause user-interruption=\"Aborted by alice\"")
	fmt.Println("  causeway serve")
	return nil
}

func starterConfig(storeName string) (string, error) {
	common := `log:
  sink: console
notify:
  - type: console
server:
  addr: ":3000"
lockTTL: 30s
`
	switch storeName {
	case "memory":
		return "store: memory\n" + common, nil
	case "redis":
		return `store: redis
redis:
  addr: localhost:6379
  keyPrefix: "causeway:"
` + common, nil
	case "dynamodb":
		return `store: dynamodb
dynamodb:
  tableName: causeway-runs
  region: us-east-1
  createTable: true
` + common, nil
	default:
		return "", fmt.Errorf("unsupported store: %s", storeName)
	}
}
