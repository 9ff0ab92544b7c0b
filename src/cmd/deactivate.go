package cmd

import (
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var deactivateCmd = &cobra.Command{
	Use:   "deactivate",
	Short: "Remove the active Bun version from PATH",
	Long: `Remove the active version link. Installed versions and aliases are kept.

Examples:
  bvm deactivate`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		current, _, err := bvm.activator.Current()
		if err != nil {
			return err
		}
		removed, err := bvm.activator.Deactivate()
		if err != nil {
			return err
		}
		if !removed {
			ui.Info("No version is currently active")
			return nil
		}
		if current != "" {
			ui.Success("Deactivated Bun %s", ui.HighlightVersion(current))
		} else {
			ui.Success("Removed active link %s", bvm.activator.Link())
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deactivateCmd)
}
