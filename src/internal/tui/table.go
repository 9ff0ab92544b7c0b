package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is a bordered table with optional title and header row
type Table struct {
	title      string
	headers    []string
	rows       []tableRow
	widths     []int
	hideHeader bool
	minWidth   int
}

type tableRow struct {
	cells  []string
	active bool
}

// NewTable creates a new table with the given headers
func NewTable(headers ...string) *Table {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	return &Table{
		headers: headers,
		widths:  widths,
	}
}

// SetTitle sets a title that spans all columns at the top of the table
func (t *Table) SetTitle(title string) {
	t.title = title
}

// HideHeader hides the column header row
func (t *Table) HideHeader() {
	t.hideHeader = true
}

// SetMinWidth sets a minimum width for the table content
func (t *Table) SetMinWidth(width int) {
	t.minWidth = width
}

// AddRow adds a row to the table
func (t *Table) AddRow(cells ...string) {
	t.addRow(cells, false)
}

// AddActiveRow adds a highlighted row, used for the active version
func (t *Table) AddActiveRow(cells ...string) {
	t.addRow(cells, true)
}

func (t *Table) addRow(cells []string, active bool) {
	row := make([]string, len(t.headers))
	for i := range row {
		if i >= len(cells) {
			continue
		}
		row[i] = cells[i]
		// lipgloss.Width ignores ANSI sequences
		if w := lipgloss.Width(cells[i]); w > t.widths[i] {
			t.widths[i] = w
		}
	}
	t.rows = append(t.rows, tableRow{cells: row, active: active})
}

// RowCount returns the number of data rows
func (t *Table) RowCount() int {
	return len(t.rows)
}

// Render returns the rendered table
func (t *Table) Render() string {
	if len(t.headers) == 0 {
		return ""
	}
	initStyles()

	widths := append([]int(nil), t.widths...)
	totalWidth := 0
	for _, w := range widths {
		totalWidth += w + 2
	}
	if t.minWidth > 0 && totalWidth < t.minWidth {
		widths[len(widths)-1] += t.minWidth - totalWidth
		totalWidth = t.minWidth
	}

	var lines []string

	if t.title != "" {
		titleStyle := StyleTitle.
			Width(totalWidth).
			Align(lipgloss.Center)
		lines = append(lines, titleStyle.Render(t.title))
		lines = append(lines, StyleMuted.Render(strings.Repeat("─", totalWidth)))
	}

	if !t.hideHeader {
		var header, sep strings.Builder
		for i, h := range t.headers {
			header.WriteString(StyleTableHeader.Width(widths[i] + 2).Render(h))
			sep.WriteString(StyleMuted.Render(strings.Repeat("─", widths[i]+2)))
		}
		lines = append(lines, header.String(), sep.String())
	}

	for _, row := range t.rows {
		var line strings.Builder
		for i, cell := range row.cells {
			style := StyleTableCell.Width(widths[i] + 2)
			if row.active {
				style = style.Foreground(colorSuccess)
			}
			line.WriteString(style.Render(cell))
		}
		lines = append(lines, line.String())
	}

	return StyleTableBorder.Render(strings.Join(lines, "\n"))
}
