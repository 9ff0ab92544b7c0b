package cmd

import (
	"context"

	"github.com/bvm-cli/bvm/src/internal/process"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run <version> [args...]",
	Short: "Run a script or command with a specific Bun version",
	Long: `Run the given installed version of Bun with the remaining arguments,
without changing the active version. The exit code of bun is returned.

Examples:
  bvm run 1.1 --version
  bvm run default index.ts`,
	Args: usageArgs(cobra.MinimumNArgs(1)),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := bvm.resolveLocal(args[0])
		if err != nil {
			return err
		}
		return process.Run(childContext(cmd), process.Command{
			Name:        bvm.store.ExecutablePath(v),
			Args:        args[1:],
			PrependPath: bvm.store.VersionDir(v),
		})
	},
}

// childContext detaches the child from bvm's interrupt handling. The
// terminal delivers the interrupt to the child itself.
func childContext(cmd *cobra.Command) context.Context {
	return context.WithoutCancel(cmd.Context())
}

func init() {
	rootCmd.AddCommand(runCmd)
	// Flags after the version belong to bun
	runCmd.Flags().SetInterspersed(false)
}
