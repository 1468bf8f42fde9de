package tui

import (
	"github.com/charmbracelet/bubbles/key"

	"github.com/verte-zerg/furitype/internal/session"
)

type keyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Delete key.Binding
	Start  key.Binding
	Cancel key.Binding
	Pause  key.Binding
	Resume key.Binding
	End    key.Binding
	Retry  key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding

	state session.State
}

func newKeyMap() keyMap {
	return keyMap{
		Up:     key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
		Down:   key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
		Select: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select")),
		Delete: key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		Start:  key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "start")),
		Cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		Pause:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "pause")),
		Resume: key.NewBinding(key.WithKeys("enter", " "), key.WithHelp("enter", "resume")),
		End:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "end attempt")),
		Retry:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "retry")),
		Back:   key.NewBinding(key.WithKeys("enter", "esc"), key.WithHelp("enter", "menu")),
		Help:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:   key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// ShortHelp implements help.KeyMap for the active screen.
func (k keyMap) ShortHelp() []key.Binding {
	switch k.state {
	case session.StatePreStart:
		return []key.Binding{k.Start, k.Cancel}
	case session.StateTyping:
		return []key.Binding{k.Pause}
	case session.StatePaused:
		return []key.Binding{k.Resume, k.End}
	case session.StateResult:
		return []key.Binding{k.Retry, k.Back, k.Quit}
	default:
		return []key.Binding{k.Up, k.Down, k.Select, k.Help, k.Quit}
	}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	if k.state == session.StateMenu {
		return [][]key.Binding{{k.Up, k.Down, k.Select}, {k.Delete, k.Help, k.Quit}}
	}
	return [][]key.Binding{k.ShortHelp()}
}
