package cmd

import (
	"fmt"
	"sort"

	"github.com/bvm-cli/bvm/src/internal/tui"
	"github.com/bvm-cli/bvm/src/internal/ui"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "List installed versions and aliases",
	Long: `List installed Bun versions, newest first, and the aliases pointing at them.

Examples:
  bvm ls`,
	Args: usageArgs(cobra.NoArgs),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runList()
	},
}

// aliasRow is one line of the alias table
type aliasRow struct {
	name    string
	version string
	note    string
}

func runList() error {
	installed, err := bvm.store.ListInstalled()
	if err != nil {
		return err
	}
	current, _, err := bvm.activator.Current()
	if err != nil {
		return err
	}

	if len(installed) == 0 {
		ui.Info("No versions installed")
	} else {
		table := tui.NewTable("Version", "")
		table.SetTitle("Installed Versions")
		for _, v := range installed {
			if v == current {
				table.AddActiveRow(v, tui.GetCheckMark()+" active")
			} else {
				table.AddRow(v, "")
			}
		}
		fmt.Println(table.Render())
	}

	rows, err := aliasRows(installed, current)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		return nil
	}

	table := tui.NewTable("Alias", "", "Version", "")
	table.SetTitle("Aliases")
	for _, r := range rows {
		note := r.note
		if note == notInstalledNote {
			note = tui.RenderDangling(note)
		}
		table.AddRow(tui.RenderAlias(r.name), tui.GetArrow(), r.version, note)
	}
	fmt.Println(table.Render())
	return nil
}

const (
	notInstalledNote = "(N/A - not installed)"
	currentNote      = "(current)"
)

// aliasRows returns the aliases sorted by name, with a note for dangling
// aliases and for the one pointing at the active version
func aliasRows(installed []string, current string) ([]aliasRow, error) {
	aliases, err := bvm.aliases.List()
	if err != nil {
		return nil, err
	}

	isInstalled := make(map[string]bool, len(installed))
	for _, v := range installed {
		isInstalled[v] = true
	}

	rows := make([]aliasRow, 0, len(aliases))
	for name, v := range aliases {
		row := aliasRow{name: name, version: v}
		switch {
		case !isInstalled[v]:
			row.note = notInstalledNote
		case v == current:
			row.note = currentNote
		}
		rows = append(rows, row)
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].name < rows[j].name })
	return rows, nil
}

func init() {
	rootCmd.AddCommand(listCmd)
}
