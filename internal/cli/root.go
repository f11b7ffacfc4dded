package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mahimpat/creatorcrafter/internal/logging"
)

var (
	editPath   string
	configPath string
	outputJSON bool
	verbose    bool
	noProgress bool
)

// Execute runs the root cobra command.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "craftrender",
		Short: "Timeline composition and render CLI",
		PersistentPreRun: func(*cobra.Command, []string) {
			logging.Init(verbose)
		},
	}

	cmd.PersistentFlags().StringVar(&editPath, "edit", "edit.yaml", "Path to the edit document")
	cmd.PersistentFlags().StringVar(&configPath, "config", "craftrender.yaml", "Path to the workspace config")
	cmd.PersistentFlags().BoolVar(&outputJSON, "json", false, "Output machine-readable JSON")
	cmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable debug logging")
	cmd.PersistentFlags().BoolVar(&noProgress, "no-progress", false, "Disable interactive progress display")

	cmd.AddCommand(newValidateCmd())
	cmd.AddCommand(newBuildCmd())
	cmd.AddCommand(newInspectCmd())
	cmd.AddCommand(newRenderCmd())
	return cmd
}
