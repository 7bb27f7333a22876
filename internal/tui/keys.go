package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Toggle       key.Binding
	Add          key.Binding
	Delete       key.Binding
	Mark         key.Binding
	Complete     key.Binding
	Reopen       key.Binding
	DeleteMarked key.Binding
	Refresh      key.Binding
	Disconnect   key.Binding
	Quit         key.Binding
}

func defaultKeys() keyMap {
	return keyMap{
		Toggle:       key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "toggle")),
		Add:          key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
		Delete:       key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Mark:         key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "mark")),
		Complete:     key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "complete marked")),
		Reopen:       key.NewBinding(key.WithKeys("o"), key.WithHelp("o", "reopen marked")),
		DeleteMarked: key.NewBinding(key.WithKeys("D"), key.WithHelp("D", "delete marked")),
		Refresh:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
		Disconnect:   key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "disconnect")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) short() []key.Binding {
	return []key.Binding{k.Toggle, k.Add, k.Delete, k.Mark}
}

func (k keyMap) full() []key.Binding {
	return []key.Binding{
		k.Toggle, k.Add, k.Delete, k.Mark, k.Complete, k.Reopen,
		k.DeleteMarked, k.Refresh, k.Disconnect,
	}
}
