package cmd

import (
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var unaliasCmd = &cobra.Command{
	Use:   "unalias <name>",
	Short: "Remove an alias",
	Long: `Remove a named alias. The version it points at is not touched.

Examples:
  bvm unalias prod`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bvm.aliases.Remove(args[0]); err != nil {
			return err
		}
		ui.Success("Alias %s removed", ui.Highlight(args[0]))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(unaliasCmd)
}
