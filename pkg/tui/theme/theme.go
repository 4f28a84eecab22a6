package theme

import (
	"fmt"

	"github.com/charmbracelet/lipgloss/v2"
	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultAccent is used when no accent colour is configured.
const DefaultAccent = "#7aa2f7"

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Level  LevelTheme
	Table  TableTheme
	Footer FooterTheme
	Modal  ModalTheme
}

// LevelTheme styles the months, dates and tasks columns.
type LevelTheme struct {
	Frame        lipgloss.Style
	FocusedFrame lipgloss.Style
	Title        lipgloss.Style
	Item         lipgloss.Style
	Highlight    lipgloss.Style
	Placeholder  lipgloss.Style
}

// TableTheme styles the worklog table.
type TableTheme struct {
	Header lipgloss.Style
	Row    lipgloss.Style
	Cursor lipgloss.Style
	Total  lipgloss.Style
}

// FooterTheme groups styles used by the bottom status and help line.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// ModalTheme styles the entry editor.
type ModalTheme struct {
	Frame  lipgloss.Style
	Title  lipgloss.Style
	Label  lipgloss.Style
	Active lipgloss.Style
	Hint   lipgloss.Style
}

// Default returns the theme for DefaultAccent on a dark terminal.
func Default() Theme {
	t, _ := New(DefaultAccent, true)
	return t
}

// New builds a theme around accent, a hex colour. The muted accent used for
// unfocused frames is blended towards the terminal background.
func New(accent string, dark bool) (Theme, error) {
	if accent == "" {
		accent = DefaultAccent
	}
	base, err := colorful.Hex(accent)
	if err != nil {
		return Theme{}, fmt.Errorf("theme: accent %q: %w", accent, err)
	}
	bg, fg := colorful.Color{R: 1, G: 1, B: 1}, "#1a1b26"
	if dark {
		bg, fg = colorful.Color{}, "#c0caf5"
	}
	accentColor := lipgloss.Color(base.Hex())
	muted := lipgloss.Color(base.BlendLab(bg, 0.6).Clamped().Hex())
	text := lipgloss.Color(fg)
	faint := lipgloss.Color("244")

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(muted).
		Padding(0, 1)

	return Theme{
		Level: LevelTheme{
			Frame:        frame,
			FocusedFrame: frame.BorderForeground(accentColor),
			Title:        lipgloss.NewStyle().Bold(true).Foreground(accentColor),
			Item:         lipgloss.NewStyle().Foreground(text),
			Highlight:    lipgloss.NewStyle().Foreground(accentColor).Reverse(true),
			Placeholder:  lipgloss.NewStyle().Foreground(faint).Italic(true),
		},
		Table: TableTheme{
			Header: lipgloss.NewStyle().Bold(true).Foreground(accentColor),
			Row:    lipgloss.NewStyle().Foreground(text),
			Cursor: lipgloss.NewStyle().Foreground(accentColor).Reverse(true),
			Total:  lipgloss.NewStyle().Foreground(faint),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(faint),
			Error:  lipgloss.NewStyle().Foreground(lipgloss.Color("203")).Bold(true),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accentColor).
				Padding(1, 2),
			Title:  lipgloss.NewStyle().Bold(true).Foreground(accentColor),
			Label:  lipgloss.NewStyle().Foreground(faint),
			Active: lipgloss.NewStyle().Foreground(accentColor).Bold(true),
			Hint:   lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		},
	}, nil
}
