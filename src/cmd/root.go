// Package cmd implements the CLI commands for bvm
package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/bvm-cli/bvm/src/internal/apperr"
	"github.com/bvm-cli/bvm/src/internal/tui"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

// Version can be set at build time using ldflags
var Version = "dev"

var verbose bool

var rootCmd = &cobra.Command{
	Use:           "bvm",
	Short:         "Bun Version Manager",
	Version:       Version,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		ui.CheckVerboseEnv()
		if verbose {
			ui.SetVerbose(true)
		}
		a, err := loadApp()
		if err != nil {
			return err
		}
		bvm = a
		return nil
	},
}

// Execute runs the root command and exits with the mapped exit code
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		reportError(err)
		os.Exit(apperr.ExitCode(err))
	}
}

// reportError prints err for the user. Child exit codes are passed through
// without a message; the child already spoke for itself.
func reportError(err error) {
	var ec apperr.ExitCoder
	if errors.As(err, &ec) {
		ui.Debug("%v", err)
		return
	}

	ui.Error("%v", err)
	if !apperr.IsNotFound(err) {
		return
	}
	if candidates := apperr.CandidatesOf(err); len(candidates) > 0 {
		ui.Info("Available versions: %s", strings.Join(candidates, ", "))
	} else {
		ui.Info("No versions installed. Run 'bvm ls-remote' to see what can be installed")
	}
}

// usageArgs classifies cobra's argument validation failures as usage errors
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return apperr.Usage("%v", err)
		}
		return nil
	}
}

func init() {
	// Hide the completion command until we implement it
	rootCmd.CompletionOptions.HiddenDefaultCmd = true

	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Enable verbose output for debugging")
	rootCmd.SetVersionTemplate("bvm {{.Version}}\n")
	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return apperr.Usage("%v", err)
	})

	rootCmd.SetUsageFunc(customUsage)
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd != rootCmd {
			text := cmd.Long
			if text == "" {
				text = cmd.Short
			}
			fmt.Println(text)
			fmt.Println()
		}
		_ = customUsage(cmd)
	})
}

func customUsage(cmd *cobra.Command) error {
	if cmd != rootCmd {
		fmt.Printf("Usage:\n  %s\n", cmd.UseLine())
		if flags := cmd.LocalFlags().FlagUsages(); flags != "" {
			fmt.Printf("\nFlags:\n%s", flags)
		}
		return nil
	}

	const tableWidth = 80

	headerTable := tui.NewTable("")
	headerTable.SetTitle(cmd.Short)
	headerTable.HideHeader()
	headerTable.SetMinWidth(tableWidth)
	headerTable.AddRow("Install, switch between and run multiple versions of Bun.")
	headerTable.AddRow("Versions live under $BVM_DIR (default ~/.bvm); add $BVM_DIR/bin to your PATH.")

	fmt.Println(headerTable.Render())
	fmt.Println()

	table := tui.NewTable("Command", "Description")
	table.SetTitle("Available Commands")
	table.SetMinWidth(tableWidth)

	for _, c := range cmd.Commands() {
		if c.Hidden || c.Name() == "completion" || c.Name() == "help" {
			continue
		}
		table.AddRow(c.Name(), c.Short)
	}

	fmt.Println(table.Render())
	return nil
}
