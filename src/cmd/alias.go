package cmd

import (
	"github.com/bvm-cli/bvm/src/internal/alias"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var aliasCmd = &cobra.Command{
	Use:   "alias <name> <version>",
	Short: "Create or update an alias for an installed version",
	Long: `Point a named alias at an installed version of Bun.

The version is resolved against installed versions, so partial
versions, "latest", "current" and other aliases are accepted.
Aliases can be used anywhere a version is expected.

Examples:
  bvm alias prod 1.1.3
  bvm alias default latest`,
	Args: usageArgs(cobra.ExactArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runAlias(args[0], args[1])
	},
}

func runAlias(name, spec string) error {
	if err := alias.ValidateName(name); err != nil {
		return err
	}
	v, err := bvm.resolveLocal(spec)
	if err != nil {
		return err
	}
	if err := bvm.aliases.Set(name, v); err != nil {
		return err
	}

	ui.Success("Alias %s -> %s", ui.Highlight(name), ui.HighlightVersion(v))
	return nil
}

func init() {
	rootCmd.AddCommand(aliasCmd)
}
