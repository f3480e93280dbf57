package theme

import (
	"errors"
	"testing"

	"github.com/Mr-Dark-debug/lobsters/internal/text"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTagRolePrecedence(t *testing.T) {
	tests := []struct {
		name    string
		isMedia bool
		want    Role
	}{
		{"ask", false, RoleAskTag},
		{"show", false, RoleAskTag},
		// Name match wins over the media flag.
		{"ask", true, RoleAskTag},
		{"video", true, RoleMediaTag},
		// Media wins over meta.
		{"meta", true, RoleMediaTag},
		{"meta", false, RoleMetaTag},
		{"rust", false, RoleNormalTag},
		{"Ask", false, RoleNormalTag},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TagRole(tt.name, tt.isMedia), "%s media=%v", tt.name, tt.isMedia)
	}
}

func TestParse(t *testing.T) {
	for name, want := range map[string]string{
		"true": "true", "256": "256", "mono": "mono", "grey": "grey", "gray": "grey", " GREY ": "grey",
	} {
		th, err := Parse(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, th.Name)
	}
}

func TestParseUnknown(t *testing.T) {
	_, err := Parse("solarized")
	require.Error(t, err)

	var pe *ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "solarized", pe.Name)
	assert.Equal(t, "'solarized' is not a valid theme. Options are: true, 256, mono, grey or gray", err.Error())
}

func TestBuiltinsSetEveryRole(t *testing.T) {
	for _, th := range Builtins() {
		for _, r := range Roles() {
			assert.True(t, th.Color(r).IsSet(), "%s/%s", th.Name, r)
		}
		assert.NotEqual(t, th.Color(RoleCursor), th.Color(RoleTitle), th.Name)
	}
}

func TestWithDoesNotModifyReceiver(t *testing.T) {
	custom := Ansi256.With(RoleCursor, text.Named(text.Blue))
	assert.Equal(t, text.Named(text.Blue), custom.Color(RoleCursor))
	assert.Equal(t, text.Ansi256(236), Ansi256.Color(RoleCursor))
	assert.Equal(t, text.NoColor, custom.Color(Role(99)))
}

func TestParseRole(t *testing.T) {
	for _, r := range Roles() {
		got, ok := ParseRole(r.String())
		require.True(t, ok)
		assert.Equal(t, r, got)
	}
	_, ok := ParseRole("headline")
	assert.False(t, ok)
}
