// Package theme maps the semantic roles of a rendered story list to
// concrete colors.
//
// All palette values live here. Nothing else in the viewer uses color
// literals.
package theme

import (
	"fmt"
	"strings"

	"github.com/Mr-Dark-debug/lobsters/internal/text"
)

// Role is a semantic slot in the story list that a theme gives a color.
type Role int

const (
	RoleScore Role = iota
	RoleTitle
	RoleAskTag
	RoleMediaTag
	RoleMetaTag
	RoleNormalTag
	RoleDomain
	RoleByline
	RoleCursor
)

var roleNames = [...]string{
	RoleScore:     "score",
	RoleTitle:     "title",
	RoleAskTag:    "ask_tag",
	RoleMediaTag:  "media_tag",
	RoleMetaTag:   "meta_tag",
	RoleNormalTag: "normal_tag",
	RoleDomain:    "domain",
	RoleByline:    "byline",
	RoleCursor:    "cursor",
}

// Roles lists every role in display order.
func Roles() []Role {
	roles := make([]Role, len(roleNames))
	for i := range roleNames {
		roles[i] = Role(i)
	}
	return roles
}

func (r Role) String() string {
	if r >= 0 && int(r) < len(roleNames) {
		return roleNames[r]
	}
	return fmt.Sprintf("role(%d)", int(r))
}

// ParseRole looks a role up by its String form.
func ParseRole(name string) (Role, bool) {
	for i, n := range roleNames {
		if n == name {
			return Role(i), true
		}
	}
	return 0, false
}

// Theme is a mapping from roles to colors.
type Theme struct {
	Name   string
	colors [len(roleNames)]text.Color
}

// Color returns the color for r, or text.NoColor for an unknown role.
func (t Theme) Color(r Role) text.Color {
	if r < 0 || int(r) >= len(t.colors) {
		return text.NoColor
	}
	return t.colors[r]
}

// With returns a copy of t with r set to c.
func (t Theme) With(r Role, c text.Color) Theme {
	if r >= 0 && int(r) < len(t.colors) {
		t.colors[r] = c
	}
	return t
}

// TagRole picks the role for a tag. The precedence is fixed: ask and show
// first, then media tags, then meta, then everything else.
func TagRole(name string, isMedia bool) Role {
	switch {
	case name == "ask" || name == "show":
		return RoleAskTag
	case isMedia:
		return RoleMediaTag
	case name == "meta":
		return RoleMetaTag
	default:
		return RoleNormalTag
	}
}

// TagColor is Color(TagRole(name, isMedia)).
func (t Theme) TagColor(name string, isMedia bool) text.Color {
	return t.Color(TagRole(name, isMedia))
}

func build(name string, colors map[Role]text.Color) Theme {
	t := Theme{Name: name}
	for r, c := range colors {
		t.colors[r] = c
	}
	return t
}

var (
	// True uses 24-bit colors close to the lobste.rs site.
	True = build("true", map[Role]text.Color{
		RoleScore:     text.RGB(170, 170, 170),
		RoleTitle:     text.RGB(37, 98, 220),
		RoleAskTag:    text.RGB(240, 178, 184),
		RoleMediaTag:  text.RGB(178, 204, 240),
		RoleMetaTag:   text.RGB(200, 200, 200),
		RoleNormalTag: text.RGB(213, 212, 88),
		RoleDomain:    text.RGB(153, 153, 153),
		RoleByline:    text.RGB(136, 136, 136),
		RoleCursor:    text.RGB(48, 48, 48),
	})

	// Ansi256 is for terminals limited to the 256-color palette.
	Ansi256 = build("256", map[Role]text.Color{
		RoleScore:     text.Ansi256(248),
		RoleTitle:     text.Ansi256(33),
		RoleAskTag:    text.Ansi256(1),
		RoleMediaTag:  text.Ansi256(195),
		RoleMetaTag:   text.Ansi256(252),
		RoleNormalTag: text.Ansi256(229),
		RoleDomain:    text.Ansi256(245),
		RoleByline:    text.Ansi256(250),
		RoleCursor:    text.Ansi256(236),
	})

	// Grey is the 256 palette without hue.
	Grey = build("grey", map[Role]text.Color{
		RoleScore:     text.Ansi256(248),
		RoleTitle:     text.Ansi256(254),
		RoleAskTag:    text.Ansi256(252),
		RoleMediaTag:  text.Ansi256(252),
		RoleMetaTag:   text.Ansi256(252),
		RoleNormalTag: text.Ansi256(252),
		RoleDomain:    text.Ansi256(245),
		RoleByline:    text.Ansi256(250),
		RoleCursor:    text.Ansi256(238),
	})

	// Mono only uses the portable named colors.
	Mono = build("mono", map[Role]text.Color{
		RoleScore:     text.Named(text.White),
		RoleTitle:     text.Named(text.White),
		RoleAskTag:    text.Named(text.White),
		RoleMediaTag:  text.Named(text.White),
		RoleMetaTag:   text.Named(text.White),
		RoleNormalTag: text.Named(text.White),
		RoleDomain:    text.Named(text.White),
		RoleByline:    text.Named(text.White),
		RoleCursor:    text.Named(text.BrightBlack),
	})
)

// ParseError reports an unknown theme name.
type ParseError struct {
	Name string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("'%s' is not a valid theme. Options are: true, 256, mono, grey or gray", e.Name)
}

// Parse returns the built-in theme called name.
func Parse(name string) (Theme, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "true":
		return True, nil
	case "256":
		return Ansi256, nil
	case "mono":
		return Mono, nil
	case "grey", "gray":
		return Grey, nil
	default:
		return Theme{}, &ParseError{Name: name}
	}
}

// Builtins returns the built-in themes in a stable order.
func Builtins() []Theme {
	return []Theme{True, Ansi256, Grey, Mono}
}
