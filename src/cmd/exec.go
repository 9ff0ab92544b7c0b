package cmd

import (
	"github.com/bvm-cli/bvm/src/internal/process"
	"github.com/spf13/cobra"
)

var execCmd = &cobra.Command{
	Use:   "exec <version> <command> [args...]",
	Short: "Run any command with a specific Bun version first on PATH",
	Long: `Run a command with the given installed version of Bun placed first on
PATH. The command's exit code is returned.

Examples:
  bvm exec 1.1 bunx prettier --check .
  bvm exec default bun test`,
	Args: usageArgs(cobra.MinimumNArgs(2)),
	RunE: func(cmd *cobra.Command, args []string) error {
		v, err := bvm.resolveLocal(args[0])
		if err != nil {
			return err
		}
		return process.Run(childContext(cmd), process.Command{
			Name:        args[1],
			Args:        args[2:],
			PrependPath: bvm.store.VersionDir(v),
		})
	},
}

func init() {
	rootCmd.AddCommand(execCmd)
	execCmd.Flags().SetInterspersed(false)
}
