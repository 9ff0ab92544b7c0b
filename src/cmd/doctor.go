package cmd

import (
	"fmt"
	"os"
	"strconv"

	"github.com/bvm-cli/bvm/src/internal/catalog"
	"github.com/bvm-cli/bvm/src/internal/config"
	"github.com/bvm-cli/bvm/src/internal/path"
	"github.com/bvm-cli/bvm/src/internal/tui"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Show bvm's directories, state and PATH setup",
	Long: `Print the directories bvm uses, the active version, installed versions,
aliases and whether $BVM_DIR/bin is on PATH.

Example:
  bvm doctor`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDoctor()
	},
}

func runDoctor() error {
	installed, err := bvm.store.ListInstalled()
	if err != nil {
		return err
	}
	current, hasCurrent, err := bvm.activator.Current()
	if err != nil {
		return err
	}
	aliases, err := bvm.aliases.List()
	if err != nil {
		return err
	}

	ui.Header("bvm %s", Version)

	dirs := tui.NewTable("Name", "Path")
	dirs.SetTitle("Directories")
	dirs.AddRow(config.RootEnvVar, bvm.paths.Root)
	dirs.AddRow("versions", bvm.paths.Versions)
	dirs.AddRow("bin", bvm.paths.Bin)
	dirs.AddRow("alias", bvm.paths.Alias)
	dirs.AddRow("cache", bvm.paths.Cache)
	dirs.AddRow("config", bvm.paths.ConfigFile()+configFileNote(bvm.paths.ConfigFile()))
	fmt.Println(dirs.Render())

	state := tui.NewTable("Item", "Value")
	state.SetTitle("State")
	if hasCurrent {
		state.AddActiveRow("active", current)
	} else {
		state.AddRow("active", tui.RenderMuted("none"))
	}
	state.AddRow("installed", strconv.Itoa(len(installed)))
	state.AddRow("aliases", strconv.Itoa(len(aliases)))
	state.AddRow("timezone", catalog.DetectTimezone(bvm.settings.Timezone))
	for i, name := range bvm.catalog.SourceNames() {
		state.AddRow(fmt.Sprintf("source %d", i+1), name)
	}
	fmt.Println(state.Render())

	if path.IsInPath(bvm.paths.Bin) {
		ui.Success("%s is in your PATH", bvm.paths.Bin)
	} else {
		warnIfNotOnPath(bvm.paths.Bin)
	}
	return nil
}

func configFileNote(file string) string {
	if _, err := os.Stat(file); err != nil {
		return tui.RenderMuted(" (not present)")
	}
	return ""
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}
