package cmd

import (
	"fmt"

	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var currentCmd = &cobra.Command{
	Use:   "current",
	Short: "Show the active Bun version",
	Long: `Print the active Bun version, the one $BVM_DIR/bin/bun points at.

Examples:
  bvm current`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, ok, err := bvm.activator.Current()
		if err != nil {
			return err
		}
		if !ok {
			ui.Info("No version is currently active")
			return nil
		}
		fmt.Println(v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(currentCmd)
}
