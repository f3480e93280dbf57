package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ────────────────────────────────────────────────────────────
// Chrome palette
// ────────────────────────────────────────────────────────────
//
// The story list is colored by internal/theme. These colors are only
// for the text around it: placeholders, errors and key help.

var (
	colorTextDim   = lipgloss.Color("#8b949e")
	colorTextMuted = lipgloss.Color("#484f58")
	colorText      = lipgloss.Color("#e6edf3")
	colorRed       = lipgloss.Color("#f85149")
	colorRedLobste = lipgloss.Color("#ac130d")
)

var (
	loadingStyle = lipgloss.NewStyle().
			Foreground(colorTextDim).
			Padding(1, 2)

	errorLabelStyle = lipgloss.NewStyle().
			Foreground(colorRed).
			Bold(true)

	errorTextStyle = lipgloss.NewStyle().
			Foreground(colorText)

	noticeStyle = lipgloss.NewStyle().
			Foreground(colorTextDim)

	brandStyle = lipgloss.NewStyle().
			Foreground(colorRedLobste).
			Bold(true)

	hintKeyStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Bold(true)

	hintDescStyle = lipgloss.NewStyle().
			Foreground(colorTextMuted)
)

// FormatError renders err as a one-line message for stderr.
func FormatError(err error) string {
	return errorLabelStyle.Render("error:") + " " + errorTextStyle.Render(err.Error())
}

// FormatNotice renders an informational message.
func FormatNotice(msg string) string {
	return noticeStyle.Render(msg)
}

// Brand renders the program name.
func Brand(name string) string {
	return brandStyle.Render(name)
}

// KeyHelp lists the bindings of k, one per line.
func KeyHelp(k KeyMap) string {
	var b strings.Builder
	for _, binding := range k.Bindings() {
		h := binding.Help()
		b.WriteString("  ")
		b.WriteString(hintKeyStyle.Width(10).Render(h.Key))
		b.WriteString(hintDescStyle.Render(h.Desc))
		b.WriteString("\n")
	}
	return b.String()
}
