package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Action is what a key press asks the viewer to do.
type Action int

const (
	ActionNone Action = iota
	ActionQuit
	ActionNext
	ActionPrev
	ActionScrollRight
	ActionScrollLeft
	ActionOpenTarget
	ActionOpenComments
)

var actionNames = [...]string{
	ActionNone:         "none",
	ActionQuit:         "quit",
	ActionNext:         "select-next",
	ActionPrev:         "select-prev",
	ActionScrollRight:  "scroll-right",
	ActionScrollLeft:   "scroll-left",
	ActionOpenTarget:   "open-target",
	ActionOpenComments: "open-comments",
}

func (a Action) String() string {
	if a >= 0 && int(a) < len(actionNames) {
		return actionNames[a]
	}
	return "unknown"
}

// KeyMap binds keys to actions.
type KeyMap struct {
	Quit         key.Binding
	Next         key.Binding
	Prev         key.Binding
	ScrollRight  key.Binding
	ScrollLeft   key.Binding
	OpenTarget   key.Binding
	OpenComments key.Binding
}

// DefaultKeyMap returns the vi-style bindings plus arrow keys.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Next: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/↓", "next story"),
		),
		Prev: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/↑", "previous story"),
		),
		ScrollRight: key.NewBinding(
			key.WithKeys("l", "right"),
			key.WithHelp("l/→", "scroll right"),
		),
		ScrollLeft: key.NewBinding(
			key.WithKeys("h", "left"),
			key.WithHelp("h/←", "scroll left"),
		),
		OpenTarget: key.NewBinding(
			key.WithKeys("o", "enter"),
			key.WithHelp("o/enter", "open story"),
		),
		OpenComments: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "open comments"),
		),
	}
}

// Bindings returns every binding in help order.
func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Next, k.Prev, k.ScrollRight, k.ScrollLeft, k.OpenTarget, k.OpenComments, k.Quit}
}

// Action resolves a key press. Unbound keys give ActionNone.
func (k KeyMap) Action(msg tea.KeyMsg) Action {
	switch {
	case key.Matches(msg, k.Quit):
		return ActionQuit
	case key.Matches(msg, k.Next):
		return ActionNext
	case key.Matches(msg, k.Prev):
		return ActionPrev
	case key.Matches(msg, k.ScrollRight):
		return ActionScrollRight
	case key.Matches(msg, k.ScrollLeft):
		return ActionScrollLeft
	case key.Matches(msg, k.OpenTarget):
		return ActionOpenTarget
	case key.Matches(msg, k.OpenComments):
		return ActionOpenComments
	default:
		return ActionNone
	}
}
