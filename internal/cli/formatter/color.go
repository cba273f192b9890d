package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Palette. Legal hours are green and cash hours amber; red marks a full cap.
var (
	ColorLegal  = lipgloss.Color("#8ec07c")
	ColorCash   = lipgloss.Color("#fabd2f")
	ColorOver   = lipgloss.Color("#fb4934")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleLegal  = lipgloss.NewStyle().Foreground(ColorLegal)
	StyleCash   = lipgloss.NewStyle().Foreground(ColorCash)
	StyleOver   = lipgloss.NewStyle().Foreground(ColorOver)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// Header upper-cases text and underlines it.
func Header(text string) string {
	upper := strings.ToUpper(text)
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(strings.Repeat("─", len(upper))))
}

func Dim(text string) string  { return StyleDim.Render(text) }
func Bold(text string) string { return StyleBold.Render(text) }
