// Package tui implements the interactive story viewer.
//
// It is a single pane built on Charmbracelet's BubbleTea: the model
// turns key presses into actions on a viewport.State, regenerates the
// formatted lines when the selection moves, and draws the visible window
// with internal/render.
//
// Component architecture:
//
//	model.go   root model, message routing, Init/Update/View
//	keys.go    key bindings and the actions they trigger
//	theme.go   lipgloss styles for placeholders, errors and key help
package tui
