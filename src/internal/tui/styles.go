// Package tui renders the styled listings printed by ls and ls-remote
package tui

import (
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// Styles are built on first use; lipgloss terminal detection is slow on cold start
var (
	initOnce sync.Once

	colorPrimary lipgloss.Color
	colorSuccess lipgloss.Color
	colorWarning lipgloss.Color
	colorError   lipgloss.Color
	colorMuted   lipgloss.Color

	StyleTitle         lipgloss.Style
	StyleVersion       lipgloss.Style
	StyleActiveVersion lipgloss.Style
	StyleAlias         lipgloss.Style
	StyleMuted         lipgloss.Style
	StyleDangling      lipgloss.Style

	StyleTableHeader lipgloss.Style
	StyleTableCell   lipgloss.Style
	StyleTableBorder lipgloss.Style

	CheckMark string
	CrossMark string
	Arrow     string
)

func initStyles() {
	initOnce.Do(func() {
		// Skip capability probing; color is stripped by the writer when not a TTY
		lipgloss.SetColorProfile(termenv.TrueColor)

		colorPrimary = lipgloss.Color("39")  // Cyan
		colorSuccess = lipgloss.Color("42")  // Green
		colorWarning = lipgloss.Color("214") // Orange
		colorError = lipgloss.Color("196")   // Red
		colorMuted = lipgloss.Color("245")   // Gray

		StyleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

		StyleVersion = lipgloss.NewStyle().
			Foreground(lipgloss.Color("213"))

		StyleActiveVersion = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorSuccess)

		StyleAlias = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary)

		StyleMuted = lipgloss.NewStyle().
			Foreground(colorMuted)

		StyleDangling = lipgloss.NewStyle().
			Foreground(colorWarning)

		StyleTableHeader = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorPrimary).
			PaddingRight(2)

		StyleTableCell = lipgloss.NewStyle().
			PaddingRight(2)

		StyleTableBorder = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorMuted).
			Padding(0, 1)

		CheckMark = lipgloss.NewStyle().Foreground(colorSuccess).Render("✓")
		CrossMark = lipgloss.NewStyle().Foreground(colorError).Render("✗")
		Arrow = lipgloss.NewStyle().Foreground(colorPrimary).Render("→")
	})
}

// RenderTitle renders a section title
func RenderTitle(text string) string {
	initStyles()
	return StyleTitle.Render(text)
}

// RenderVersion renders a version string
func RenderVersion(version string) string {
	initStyles()
	return StyleVersion.Render(version)
}

// RenderActiveVersion renders the active version
func RenderActiveVersion(version string) string {
	initStyles()
	return StyleActiveVersion.Render(version)
}

// RenderAlias renders an alias name
func RenderAlias(name string) string {
	initStyles()
	return StyleAlias.Render(name)
}

// RenderMuted renders text in a dim style
func RenderMuted(text string) string {
	initStyles()
	return StyleMuted.Render(text)
}

// RenderDangling renders a note for an alias whose version is gone
func RenderDangling(text string) string {
	initStyles()
	return StyleDangling.Render(text)
}

// GetCheckMark returns the styled checkmark indicator
func GetCheckMark() string {
	initStyles()
	return CheckMark
}

// GetArrow returns the styled arrow indicator
func GetArrow() string {
	initStyles()
	return Arrow
}
