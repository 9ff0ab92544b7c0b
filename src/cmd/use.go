package cmd

import (
	"github.com/bvm-cli/bvm/src/internal/config"
	"github.com/bvm-cli/bvm/src/internal/path"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var useCmd = &cobra.Command{
	Use:   "use [version]",
	Short: "Switch the active Bun version",
	Long: `Switch to an installed version of Bun.

The version is resolved against installed versions only: exact, partial,
"latest", "current" or an alias. Without an argument the nearest
` + config.ProjectFileName + ` file is used.

Examples:
  bvm use 1.1
  bvm use default
  bvm use`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := ""
		if len(args) == 1 {
			spec = args[0]
		}
		return runUse(spec)
	},
}

func runUse(spec string) error {
	v, err := bvm.resolveLocal(spec)
	if err != nil {
		return err
	}
	if err := bvm.activator.Activate(v); err != nil {
		return err
	}

	ui.Success("Now using Bun %s", ui.HighlightVersion(v))
	warnIfNotOnPath(bvm.paths.Bin)
	return nil
}

// warnIfNotOnPath tells the user how to put dir on PATH when it is missing
func warnIfNotOnPath(dir string) {
	if path.IsInPath(dir) {
		return
	}
	ui.Warning("%s is not in your PATH", dir)
	file, line := path.SetupHint(dir)
	if file != "" {
		ui.Info("Add this line to %s:", file)
	} else {
		ui.Info("Run:")
	}
	ui.Println("  %s", line)
}

func init() {
	rootCmd.AddCommand(useCmd)
}
