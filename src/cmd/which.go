package cmd

import (
	"fmt"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/config"
	"github.com/bvm-cli/bvm/src/internal/resolve"
	"github.com/spf13/cobra"
)

var whichCmd = &cobra.Command{
	Use:   "which [version]",
	Short: "Show the path to a Bun executable",
	Long: `Print the path of the bun executable for a version.

Without an argument the nearest ` + config.ProjectFileName + ` file is used, and
without one of those the active version.

Examples:
  bvm which
  bvm which 1.1
  bvm which current`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		spec := ""
		if len(args) == 1 {
			spec = args[0]
		}
		p, err := whichPath(spec)
		if err != nil {
			return err
		}
		fmt.Println(p)
		return nil
	},
}

func whichPath(spec string) (string, error) {
	if spec == "" {
		pv, found, err := config.FindProjectVersion(bvm.workDir)
		if err != nil {
			return "", err
		}
		spec = resolve.Current
		if found {
			spec = pv.Spec
		}
	}

	if resolve.IsCurrent(spec) {
		target, ok, err := bvm.activator.Target()
		if err != nil {
			return "", err
		}
		if !ok {
			installed, err := bvm.store.ListInstalled()
			if err != nil {
				return "", err
			}
			return "", apperr.NotFound(spec, installed)
		}
		return target, nil
	}

	v, err := bvm.resolveLocal(spec)
	if err != nil {
		return "", err
	}
	return bvm.store.ExecutablePath(v), nil
}

func init() {
	rootCmd.AddCommand(whichCmd)
}
