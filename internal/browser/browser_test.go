package browser

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenTriesLaunchersInOrder(t *testing.T) {
	var tried []string
	s := System{
		GOOS: "linux",
		Start: func(name string, args ...string) error {
			tried = append(tried, name)
			if name == "xdg-open" {
				return errors.New("not installed")
			}
			return nil
		},
	}

	require.NoError(t, s.Open(" https://example.com "))
	assert.Equal(t, []string{"xdg-open", "gio"}, tried)
}

func TestOpenReportsWhenNothingStarts(t *testing.T) {
	s := System{
		GOOS:  "darwin",
		Start: func(string, ...string) error { return errors.New("missing") },
	}
	err := s.Open("https://example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestOpenEmptyURL(t *testing.T) {
	called := false
	s := System{Start: func(string, ...string) error { called = true; return nil }}
	assert.ErrorIs(t, s.Open("  "), ErrEmptyURL)
	assert.False(t, called)
}

func TestCommands(t *testing.T) {
	assert.Equal(t, [][]string{{"open", "u"}}, Commands("darwin", "u"))
	assert.Equal(t, [][]string{{"cmd", "/c", "start", "", "u"}}, Commands("windows", "u"))
	assert.Len(t, Commands("freebsd", "u"), 2)
}
