package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap is every binding the table view understands
type keyMap struct {
	BetUp    key.Binding
	BetDown  key.Binding
	Hit      key.Binding
	Double   key.Binding
	Split    key.Binding
	Stand    key.Binding
	Deal     key.Binding
	Hint     key.Binding
	ScrollUp key.Binding
	ScrollDn key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		BetUp:    key.NewBinding(key.WithKeys("up", "+"), key.WithHelp("↑/+", "bet more")),
		BetDown:  key.NewBinding(key.WithKeys("down", "-"), key.WithHelp("↓/-", "bet less")),
		Hit:      key.NewBinding(key.WithKeys("h"), key.WithHelp("h", "hit")),
		Double:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "double")),
		Split:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "split")),
		Stand:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "stand")),
		Deal:     key.NewBinding(key.WithKeys("n", "enter"), key.WithHelp("n", "deal")),
		Hint:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "hint")),
		ScrollUp: key.NewBinding(key.WithKeys("pgup"), key.WithHelp("pgup", "log up")),
		ScrollDn: key.NewBinding(key.WithKeys("pgdown"), key.WithHelp("pgdn", "log down")),
		Help:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "more keys")),
		Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Hit, k.Stand, k.Double, k.Split, k.Deal, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.BetUp, k.BetDown, k.Deal},
		{k.Hit, k.Double, k.Split, k.Stand},
		{k.Hint, k.ScrollUp, k.ScrollDn},
		{k.Help, k.Quit},
	}
}
