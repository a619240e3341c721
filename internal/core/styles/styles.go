// Package styles provides the lipgloss styles used by CLI output.
package styles

import "github.com/charmbracelet/lipgloss"

// Markers shown next to grid entries.
const (
	MarkDone     = "✓"
	MarkRepeated = "↻"
)

// CurrentPalette holds the active theme palette.
var CurrentPalette Palette

// Style exports.
var (
	HeaderStyle  lipgloss.Style
	DayStyle     lipgloss.Style
	CellStyle    lipgloss.Style
	DoneStyle    lipgloss.Style
	MutedStyle   lipgloss.Style
	BorderStyle  lipgloss.Style
	SuccessStyle lipgloss.Style
	WarningStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
)

func init() {
	p, _ := GetPalette(DefaultTheme)
	SetTheme(p)
}

// SetTheme sets the active palette and rebuilds all global styles. An empty
// color leaves the terminal default in place.
func SetTheme(p Palette) {
	CurrentPalette = p

	HeaderStyle = lipgloss.NewStyle().
		Foreground(p.Primary).
		Bold(true).
		Padding(0, 1)
	DayStyle = lipgloss.NewStyle().
		Foreground(p.Secondary).
		Bold(true).
		Padding(0, 1)
	CellStyle = lipgloss.NewStyle().
		Foreground(p.Foreground).
		Padding(0, 1)
	DoneStyle = lipgloss.NewStyle().
		Foreground(p.Success).
		Strikethrough(true)
	MutedStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	BorderStyle = lipgloss.NewStyle().
		Foreground(p.Muted)
	SuccessStyle = lipgloss.NewStyle().
		Foreground(p.Success)
	WarningStyle = lipgloss.NewStyle().
		Foreground(p.Warning)
	ErrorStyle = lipgloss.NewStyle().
		Foreground(p.Error).
		Bold(true)
}
