package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestSetupWritesToFile(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	path := filepath.Join(t.TempDir(), "nested", "lobsters.log")
	logger, closeLog, err := Setup(Options{Path: path, Debug: true})
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	logger.Debug("fetched page", "page", 2)
	slog.Info("via default")
	if err := closeLog(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "msg=\"fetched page\" page=2") {
		t.Errorf("debug record missing from log:\n%s", out)
	}
	if !strings.Contains(out, "via default") {
		t.Errorf("Setup did not install the default logger:\n%s", out)
	}
}

func TestNewLevel(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, false).Debug("hidden")
	if buf.Len() != 0 {
		t.Errorf("debug record written at info level: %q", buf.String())
	}

	New(&buf, true).Debug("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Errorf("debug record missing at debug level: %q", buf.String())
	}
}
