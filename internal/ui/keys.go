package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/nhath/clipkeep/internal/config"
)

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Accept  key.Binding
	Cancel  key.Binding
	Toggle  key.Binding
	Inspect key.Binding
	Quit    key.Binding
	Clear   key.Binding
}

func newKeyMap(k config.KeyMap) keyMap {
	bind := func(keys []string, help string) key.Binding {
		label := ""
		if len(keys) > 0 {
			label = keys[0]
		}
		return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label, help))
	}
	return keyMap{
		Up:      bind(k.Up, "up"),
		Down:    bind(k.Down, "down"),
		Accept:  bind(k.Accept, "paste"),
		Cancel:  bind(k.Cancel, "close"),
		Toggle:  bind(k.Toggle, "open/close"),
		Inspect: bind(k.Inspect, "details"),
		Quit:    bind(k.Quit, "quit"),
		Clear:   bind(k.Clear, "clear history"),
	}
}

// ShortHelp implements help.KeyMap
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Accept, k.Inspect, k.Cancel, k.Quit}
}

// FullHelp implements help.KeyMap
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp(), {k.Toggle, k.Clear}}
}
