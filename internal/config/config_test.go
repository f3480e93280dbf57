package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/Mr-Dark-debug/lobsters/internal/text"
	"github.com/Mr-Dark-debug/lobsters/internal/theme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "https://lobste.rs/", cfg.BaseURL)
	assert.Equal(t, 1, cfg.Page)
	assert.Equal(t, 10, cfg.ScrollStep)
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	t.Setenv("LOBSTERS_TEST_DIR", "/tmp/lobsters-test")
	path := writeConfig(t, `
base_url: https://example.org/
theme: gray
page: 2
colors:
  cursor: "#303030"
  title: bright-blue
database: ${LOBSTERS_TEST_DIR}/cache.db
`)

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "https://example.org/", cfg.BaseURL)
	assert.Equal(t, 2, cfg.Page)
	assert.Equal(t, 10, cfg.ScrollStep, "unset keys keep their defaults")
	assert.Equal(t, "/tmp/lobsters-test/cache.db", cfg.Database)

	th, err := cfg.ResolveTheme()
	require.NoError(t, err)
	assert.Equal(t, "grey", th.Name)
	assert.Equal(t, text.RGB(0x30, 0x30, 0x30), th.Color(theme.RoleCursor))
	assert.Equal(t, text.Named(text.BrightBlue), th.Color(theme.RoleTitle))
	assert.Equal(t, theme.Grey.Color(theme.RoleScore), th.Color(theme.RoleScore))
}

func TestLoadFileRejectsBadValues(t *testing.T) {
	tests := map[string]string{
		"theme":       "theme: solarized\n",
		"page":        "page: 0\n",
		"scroll_step": "scroll_step: -1\n",
		"role":        "colors:\n  headline: red\n",
		"color":       "colors:\n  cursor: chartreuse\n",
		"yaml":        "page: [\n",
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, body))
			assert.Error(t, err)
		})
	}
}

func TestLoadMissingFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load("")
	require.NoError(t, err, "a missing default file falls back to defaults")
	assert.Equal(t, Default().Theme, cfg.Theme)

	_, err = Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestExpandPathHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	assert.Equal(t, filepath.Join(home, "x", "cache.db"), expandPath("~/x/cache.db"))
	assert.Equal(t, "/abs/path", expandPath("/abs/path"))
}
