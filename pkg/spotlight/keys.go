package spotlight

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next         key.Binding
	Prev         key.Binding
	Leave        key.Binding
	Manual       key.Binding
	Slower       key.Binding
	Faster       key.Binding
	LongerPause  key.Binding
	ShorterPause key.Binding
	Filter       key.Binding
	Help         key.Binding
	Quit         key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		Next:         key.NewBinding(key.WithKeys("right", "l", "tab"), key.WithHelp("→/tab", "next")),
		Prev:         key.NewBinding(key.WithKeys("left", "h", "shift+tab"), key.WithHelp("←/S-tab", "prev")),
		Leave:        key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "leave")),
		Manual:       key.NewBinding(key.WithKeys("m"), key.WithHelp("m", "manual/auto")),
		Slower:       key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "duration")),
		Faster:       key.NewBinding(key.WithKeys("-", "_")),
		LongerPause:  key.NewBinding(key.WithKeys("]"), key.WithHelp("]/[", "pause")),
		ShorterPause: key.NewBinding(key.WithKeys("[")),
		Filter:       key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "filter")),
		Help:         key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.Manual, k.Filter, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Leave},
		{k.Manual, k.Slower, k.LongerPause},
		{k.Filter, k.Help, k.Quit},
	}
}
