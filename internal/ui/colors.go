package ui

import (
	"github.com/charmbracelet/lipgloss"
)

// styles maps render roles to colors: sent counts green, errors red,
// failed counts orange, hints dim grey.
var styles = NewPalette("#04B575", "#FF0000", "#FFA500", "#626262")

// Palette holds one [lipgloss.Style] per message role the campaign
// browser renders.
type Palette struct {
	ok   lipgloss.Style
	err  lipgloss.Style
	warn lipgloss.Style
	help lipgloss.Style
}

func NewPalette(ok, err, warn, help string) *Palette {
	return &Palette{
		ok:   boldStyle(ok),
		err:  boldStyle(err),
		warn: fgStyle(warn),
		help: dimStyle(help),
	}
}

func fgStyle(fg string) lipgloss.Style {
	return lipgloss.NewStyle().Foreground(lipgloss.Color(fg))
}

func boldStyle(fg string) lipgloss.Style {
	return fgStyle(fg).Bold(true)
}

func dimStyle(fg string) lipgloss.Style {
	return fgStyle(fg).Italic(true)
}
