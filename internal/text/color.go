package text

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// NamedColor is one of the sixteen portable ANSI colors.
type NamedColor uint8

const (
	Black NamedColor = iota
	Red
	Green
	Yellow
	Blue
	Magenta
	Cyan
	White
	BrightBlack
	BrightRed
	BrightGreen
	BrightYellow
	BrightBlue
	BrightMagenta
	BrightCyan
	BrightWhite
)

var namedColors = [...]string{
	"black", "red", "green", "yellow", "blue", "magenta", "cyan", "white",
	"bright-black", "bright-red", "bright-green", "bright-yellow",
	"bright-blue", "bright-magenta", "bright-cyan", "bright-white",
}

func (n NamedColor) String() string {
	if int(n) < len(namedColors) {
		return namedColors[n]
	}
	return fmt.Sprintf("named(%d)", uint8(n))
}

type colorKind uint8

const (
	kindNone colorKind = iota
	kindAnsi256
	kindRGB
	kindNamed
)

// Color is a closed union of terminal colors: a 256-color palette index,
// a 24-bit RGB triple or a named ANSI color. The zero value means no color
// and leaves the terminal default in place.
type Color struct {
	kind    colorKind
	r, g, b uint8
}

// NoColor is the zero Color.
var NoColor = Color{}

// Ansi256 returns the palette color at index.
func Ansi256(index uint8) Color {
	return Color{kind: kindAnsi256, r: index}
}

// RGB returns a 24-bit color.
func RGB(r, g, b uint8) Color {
	return Color{kind: kindRGB, r: r, g: g, b: b}
}

// Named returns one of the sixteen portable colors.
func Named(n NamedColor) Color {
	return Color{kind: kindNamed, r: uint8(n) & 0x0f}
}

// IsSet reports whether c is an actual color.
func (c Color) IsSet() bool {
	return c.kind != kindNone
}

// ansi converts c for SGR emission. Callers must check IsSet first.
func (c Color) ansi() ansi.Color {
	switch c.kind {
	case kindAnsi256:
		return ansi.IndexedColor(c.r)
	case kindRGB:
		return ansi.RGBColor{R: c.r, G: c.g, B: c.b}
	default:
		return ansi.BasicColor(c.r)
	}
}

// Lipgloss converts c into a lipgloss color for CLI output.
func (c Color) Lipgloss() lipgloss.TerminalColor {
	switch c.kind {
	case kindAnsi256, kindNamed:
		return lipgloss.Color(strconv.Itoa(int(c.r)))
	case kindRGB:
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b))
	default:
		return lipgloss.NoColor{}
	}
}

// String returns the form accepted by ParseColor.
func (c Color) String() string {
	switch c.kind {
	case kindAnsi256:
		return strconv.Itoa(int(c.r))
	case kindRGB:
		return fmt.Sprintf("#%02x%02x%02x", c.r, c.g, c.b)
	case kindNamed:
		return NamedColor(c.r).String()
	default:
		return ""
	}
}

// ParseColor parses "#rrggbb", a palette index "0".."255", or a color name
// such as "red" or "bright-blue". The empty string and "none" give NoColor.
func ParseColor(s string) (Color, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	switch {
	case s == "" || s == "none":
		return NoColor, nil
	case strings.HasPrefix(s, "#"):
		if len(s) != 7 {
			return NoColor, fmt.Errorf("parsing color %q: want #rrggbb", s)
		}
		v, err := strconv.ParseUint(s[1:], 16, 32)
		if err != nil {
			return NoColor, fmt.Errorf("parsing color %q: %w", s, err)
		}
		return RGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
	}

	if n, err := strconv.ParseUint(s, 10, 8); err == nil {
		return Ansi256(uint8(n)), nil
	}
	for i, name := range namedColors {
		if s == name || s == strings.ReplaceAll(name, "-", "") {
			return Named(NamedColor(i)), nil
		}
	}
	return NoColor, fmt.Errorf("parsing color %q: unknown color", s)
}
