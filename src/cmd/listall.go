package cmd

import (
	"context"
	"fmt"

	"github.com/bvm-cli/bvm/src/internal/tui"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var listRemoteAll bool

var listRemoteCmd = &cobra.Command{
	Use:     "ls-remote",
	Aliases: []string{"list-remote"},
	Short:   "List Bun versions available to install",
	Long: `List Bun versions available to install, newest first.

Versions are read from the npm registry, falling back to the mirror
registry and then to the release tags of the Bun repository.
Prereleases and canary builds are hidden unless --all is given.

Examples:
  bvm ls-remote
  bvm ls-remote --all`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runListRemote(cmd.Context())
	},
}

func runListRemote(ctx context.Context) error {
	var versions []string
	err := ui.WithSpinner("Fetching available versions", func() error {
		var err error
		if listRemoteAll {
			versions, err = bvm.catalog.RemoteAll(ctx)
		} else {
			versions, err = bvm.catalog.Remote(ctx)
		}
		return err
	})
	if err != nil {
		return err
	}

	installed, err := bvm.store.ListInstalled()
	if err != nil {
		return err
	}
	current, _, err := bvm.activator.Current()
	if err != nil {
		return err
	}
	isInstalled := make(map[string]bool, len(installed))
	for _, v := range installed {
		isInstalled[v] = true
	}

	for _, v := range versions {
		switch {
		case v == current:
			fmt.Printf("%s %s %s\n", tui.GetArrow(), tui.RenderActiveVersion(v), tui.RenderMuted("(current)"))
		case isInstalled[v]:
			fmt.Printf("%s %s %s\n", tui.GetCheckMark(), tui.RenderVersion(v), tui.RenderMuted("(installed)"))
		default:
			fmt.Printf("  %s\n", v)
		}
	}
	ui.Debug("%d versions listed", len(versions))
	return nil
}

func init() {
	rootCmd.AddCommand(listRemoteCmd)
	listRemoteCmd.Flags().BoolVarP(&listRemoteAll, "all", "a", false, "Include prerelease and canary versions")
}
