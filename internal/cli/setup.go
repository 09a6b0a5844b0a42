package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/nodestrap/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Interactive setup wizard",
	Long: `Setup walks through the same questions the provision flags answer,
runs the preflight checks, and then executes the plan with live
progress. Press ? on any screen for key help.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return tui.Run(cmd.Context())
	},
}

func init() {
	rootCmd.AddCommand(setupCmd)
}
