package cmd

import (
	"github.com/bvm-cli/bvm/src/internal/alias"
	"github.com/bvm-cli/bvm/src/internal/config"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:   "install [version]",
	Short: "Install a Bun version and make it active",
	Long: `Install a version of Bun and switch to it.

The version may be exact (1.1.3), partial (1.1), "latest" or an alias.
Without an argument the version is read from the nearest ` + config.ProjectFileName + ` file.
The first version installed also becomes the "default" alias.

Examples:
  bvm install latest
  bvm install 1.1
  bvm install v1.1.3
  bvm install          # uses ` + config.ProjectFileName,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := ""
		if len(args) == 1 {
			spec = args[0]
		}
		return runInstall(cmd, spec)
	},
}

func runInstall(cmd *cobra.Command, spec string) error {
	result, err := bvm.installer.Install(cmd.Context(), spec, newConsoleObserver())
	if err != nil {
		return err
	}

	if result.ProjectFile != "" {
		ui.Info("Found %s with version %s", result.ProjectFile, result.Spec)
	}
	if result.AlreadyInstalled {
		ui.Info("Bun %s is already installed", ui.HighlightVersion(result.Version))
	} else {
		if result.CacheHit {
			ui.Progress("Used cached archive from %s", bvm.paths.Cache)
		}
		ui.Success("Bun %s installed", ui.HighlightVersion(result.Version))
	}
	if result.DefaultAliasSet {
		ui.Info("Alias %s set to %s", alias.Default, result.Version)
	}
	ui.Success("Now using Bun %s", ui.HighlightVersion(result.Version))

	warnIfNotOnPath(bvm.paths.Bin)
	return nil
}

func init() {
	rootCmd.AddCommand(installCmd)
}
