package text

import "strings"

// Line is one terminal row made of spans, left to right.
type Line []Span

// Width returns the display width of all spans.
func (l Line) Width() int {
	n := 0
	for _, s := range l {
		n += s.Width()
	}
	return n
}

// Plain returns the line's text without any styling.
func (l Line) Plain() string {
	var b strings.Builder
	for _, s := range l {
		b.WriteString(s.Text)
	}
	return b.String()
}

// Highlight returns a copy of l with every span's background replaced by bg.
// Foreground and attributes are left alone.
func Highlight(l Line, bg Color) Line {
	out := make(Line, len(l))
	for i, s := range l {
		out[i] = s.WithBg(bg)
	}
	return out
}
