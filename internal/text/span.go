// Package text is the styled text model shared by the formatter and the
// renderer: colors, spans of uniformly styled text and lines of spans.
//
// Widths are terminal columns, not bytes or runes. Control and other
// non-printable runes are counted as zero columns rather than rejected.
package text

import (
	"io"
	"strings"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// widths ignores the locale so that layout is identical everywhere.
var widths = &runewidth.Condition{StrictEmojiNeutral: true}

// RuneWidth returns the number of columns r occupies.
func RuneWidth(r rune) int {
	return widths.RuneWidth(r)
}

// StringWidth returns the number of columns s occupies.
func StringWidth(s string) int {
	n := 0
	for _, r := range s {
		n += widths.RuneWidth(r)
	}
	return n
}

// Span is a run of text sharing one style.
type Span struct {
	Text      string
	Fg        Color
	Bg        Color
	Bold      bool
	Italic    bool
	Underline bool
}

// New returns an unstyled span.
func New(text string) Span {
	return Span{Text: text}
}

func (s Span) WithFg(c Color) Span {
	s.Fg = c
	return s
}

func (s Span) WithBg(c Color) Span {
	s.Bg = c
	return s
}

func (s Span) WithBold() Span {
	s.Bold = true
	return s
}

func (s Span) WithItalic() Span {
	s.Italic = true
	return s
}

func (s Span) WithUnderline() Span {
	s.Underline = true
	return s
}

// Width returns the display width of the span's text.
func (s Span) Width() int {
	return StringWidth(s.Text)
}

// IsEmpty reports whether the span has no text. An empty span may still
// carry a style.
func (s Span) IsEmpty() bool {
	return s.Text == ""
}

// TruncateFront drops leading runes while the dropped width is less than n.
// A wide rune straddling n is dropped whole, so the result can start one
// column later than n. When the whole span fits in n the result is empty
// but keeps the style.
func (s Span) TruncateFront(n int) Span {
	if n <= 0 {
		return s
	}
	if s.Width() <= n {
		s.Text = ""
		return s
	}

	removed := 0
	for i, r := range s.Text {
		if removed >= n {
			s.Text = s.Text[i:]
			return s
		}
		removed += RuneWidth(r)
	}
	s.Text = ""
	return s
}

// Truncate keeps leading runes while the kept width stays strictly below n.
//
// Invariant: Truncate(n).Width() <= n-1 for every n >= 1. A wide rune that
// would reach n is dropped whole, leaving the result one column narrower.
func (s Span) Truncate(n int) Span {
	used := 0
	for i, r := range s.Text {
		w := RuneWidth(r)
		if used+w >= n {
			s.Text = s.Text[:i]
			return s
		}
		used += w
	}
	return s
}

// sgr returns the sequences that switch the span's style on and off.
// Both are empty for an unstyled span.
func (s Span) sgr() (enter, exit string) {
	var on, off ansi.Style
	if s.Bg.IsSet() {
		on = on.BackgroundColor(s.Bg.ansi())
	}
	if s.Fg.IsSet() {
		on = on.ForegroundColor(s.Fg.ansi())
	}
	if s.Bold {
		on = on.Bold()
	}
	if s.Italic {
		on = on.Italic()
	}
	if s.Underline {
		on = on.Underline()
		off = off.NoUnderline()
	}
	if s.Italic {
		off = off.NoItalic()
	}
	if s.Bold {
		off = off.NormalIntensity()
	}
	if s.Fg.IsSet() {
		off = off.DefaultForegroundColor()
	}
	if s.Bg.IsSet() {
		off = off.DefaultBackgroundColor()
	}

	if len(on) == 0 {
		return "", ""
	}
	return on.String(), off.String()
}

// WriteTo writes the style, the text and the style reset to w.
func (s Span) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, s.String())
	return int64(n), err
}

// String returns the span as it is written to a terminal.
func (s Span) String() string {
	enter, exit := s.sgr()
	if enter == "" {
		return s.Text
	}

	var b strings.Builder
	b.Grow(len(enter) + len(s.Text) + len(exit))
	b.WriteString(enter)
	b.WriteString(s.Text)
	b.WriteString(exit)
	return b.String()
}
