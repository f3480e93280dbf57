// Package config loads viewer settings from an optional YAML file.
//
// Precedence is flags, then the file, then built-in defaults. The file
// lives at ~/.lobsters/config.yaml unless --config names another one; a
// missing default file is not an error, a missing named file is.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
	"github.com/Mr-Dark-debug/lobsters/internal/text"
	"github.com/Mr-Dark-debug/lobsters/internal/theme"

	"gopkg.in/yaml.v3"
)

// Config holds every setting the binaries read from the file.
type Config struct {
	// BaseURL is the site to read from.
	BaseURL string `yaml:"base_url"`

	// Theme is the name of a built-in theme: true, 256, mono, grey or gray.
	Theme string `yaml:"theme"`

	// Page is the listing page shown at start. Page 1 is the front page.
	Page int `yaml:"page"`

	// ScrollStep is the number of columns one horizontal scroll moves.
	ScrollStep int `yaml:"scroll_step"`

	// Colors overrides theme colors by role name, e.g. cursor: "#303030".
	// Values are "#rrggbb", a palette index 0-255 or a color name.
	Colors map[string]string `yaml:"colors,omitempty"`

	// Database is the cache file.
	Database string `yaml:"database"`

	// LogFile receives the log; the terminal belongs to the viewer.
	LogFile string `yaml:"log_file"`
}

// Dir returns the directory holding the config, cache and log files.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".lobsters")
}

// DefaultPath is where Load looks when no path is given.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.yaml")
}

// Default returns the built-in settings.
func Default() *Config {
	dir := Dir()
	return &Config{
		BaseURL:    lobsters.DefaultBaseURL,
		Theme:      "256",
		Page:       1,
		ScrollStep: 10,
		Database:   filepath.Join(dir, "cache.db"),
		LogFile:    filepath.Join(dir, "lobsters.log"),
	}
}

// Load reads path, or DefaultPath when path is empty. Only the default
// file may be absent.
func Load(path string) (*Config, error) {
	if path == "" {
		cfg, err := LoadFile(DefaultPath())
		if errors.Is(err, fs.ErrNotExist) {
			return Default(), nil
		}
		return cfg, err
	}
	return LoadFile(path)
}

// LoadFile reads one file over the defaults and validates the result.
func LoadFile(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}

	cfg.expandPaths()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

func (c *Config) expandPaths() {
	c.Database = expandPath(c.Database)
	c.LogFile = expandPath(c.LogFile)
}

// expandPath resolves a leading ~ and ${VAR} references.
func expandPath(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			p = filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return os.ExpandEnv(p)
}

// Validate checks that every setting is usable.
func (c *Config) Validate() error {
	var errs []error
	if c.Page < 1 {
		errs = append(errs, fmt.Errorf("page must be at least 1, got %d", c.Page))
	}
	if c.ScrollStep < 1 {
		errs = append(errs, fmt.Errorf("scroll_step must be at least 1, got %d", c.ScrollStep))
	}
	if c.BaseURL == "" {
		errs = append(errs, errors.New("base_url must not be empty"))
	}
	if _, err := c.ResolveTheme(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ResolveTheme returns the named theme with the color overrides applied.
func (c *Config) ResolveTheme() (theme.Theme, error) {
	th, err := theme.Parse(c.Theme)
	if err != nil {
		return theme.Theme{}, err
	}

	// Sorted so the first bad entry reported is stable.
	roles := make([]string, 0, len(c.Colors))
	for name := range c.Colors {
		roles = append(roles, name)
	}
	sort.Strings(roles)

	for _, name := range roles {
		role, ok := theme.ParseRole(name)
		if !ok {
			return theme.Theme{}, fmt.Errorf("colors: unknown role %q", name)
		}
		color, err := text.ParseColor(c.Colors[name])
		if err != nil {
			return theme.Theme{}, fmt.Errorf("colors.%s: %w", name, err)
		}
		th = th.With(role, color)
	}
	return th, nil
}
