package cmd

import (
	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/bvm-cli/bvm/src/internal/version"
	"github.com/spf13/cobra"
)

var uninstallCmd = &cobra.Command{
	Use:   "uninstall <version>",
	Short: "Remove an installed Bun version",
	Long: `Remove an installed version of Bun.

The version must be given in full; partial versions and aliases are not
accepted. The active version cannot be removed; switch to another one first.
Cached archives are kept; use 'bvm cache clear' to remove them.

Examples:
  bvm uninstall 1.0.0
  bvm uninstall v1.1.3`,
	Args: usageArgs(cobra.ExactArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runUninstall(args[0])
	},
}

func runUninstall(spec string) error {
	v, ok := version.Canonical(spec)
	if !ok {
		return apperr.Usage("'%s' is not a complete version; uninstall needs one such as 1.1.3", spec)
	}

	spinner := ui.NewSpinner("Removing Bun " + v + "...")
	spinner.Start()
	if err := bvm.store.Remove(v); err != nil {
		spinner.Stop()
		return err
	}
	spinner.Success("Bun " + v + " removed")
	return nil
}

func init() {
	rootCmd.AddCommand(uninstallCmd)
}
