package cmd

import (
	"fmt"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/tui"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version [version]",
	Short: "Resolve a version, or show the bvm version",
	Long: `With an argument, print the installed version it resolves to, or N/A.
Without one, print the version of bvm itself.

Examples:
  bvm version 1.1
  bvm version default
  bvm version`,
	Args: usageArgs(cobra.MaximumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			fmt.Printf("bvm %s\n", tui.RenderVersion(Version))
			return nil
		}

		v, err := bvm.resolveLocal(args[0])
		if apperr.IsNotFound(err) {
			fmt.Println("N/A")
		}
		if err != nil {
			return err
		}
		fmt.Println(v)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
