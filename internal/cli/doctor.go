package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/nodestrap/internal/host"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check host prerequisites",
	RunE: func(cmd *cobra.Command, args []string) error {
		results := host.RunChecks(cmd.Context(), host.NewExecRunner())
		host.PrintChecks(results)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
