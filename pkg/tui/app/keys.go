package app

import "github.com/charmbracelet/bubbles/v2/key"

type keyMap struct {
	Refresh    key.Binding
	Focus      key.Binding
	Left       key.Binding
	Right      key.Binding
	Up         key.Binding
	Down       key.Binding
	Top        key.Binding
	Bottom     key.Binding
	Toggle     key.Binding
	SelectOnly key.Binding
	SelectAll  key.Binding
	New        key.Binding
	Edit       key.Binding
	Delete     key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Refresh:    key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Focus:      key.NewBinding(key.WithKeys("1", "2", "3", "4"), key.WithHelp("1-4", "focus level")),
		Left:       key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "previous level")),
		Right:      key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "next level")),
		Up:         key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:       key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Top:        key.NewBinding(key.WithKeys("home", "g"), key.WithHelp("g", "top")),
		Bottom:     key.NewBinding(key.WithKeys("end", "G"), key.WithHelp("G", "bottom")),
		Toggle:     key.NewBinding(key.WithKeys("space"), key.WithHelp("space", "toggle")),
		SelectOnly: key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "only this")),
		SelectAll:  key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "select all")),
		New:        key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new entry")),
		Edit:       key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "edit entry")),
		Delete:     key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete entry")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Refresh, k.Focus, k.Toggle, k.New, k.Edit, k.Delete, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Focus, k.Left, k.Right, k.Up, k.Down, k.Top, k.Bottom},
		{k.Toggle, k.SelectOnly, k.SelectAll, k.Refresh},
		{k.New, k.Edit, k.Delete},
		{k.Help, k.Quit},
	}
}
