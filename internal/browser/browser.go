// Package browser hands URLs to the desktop's default handler.
package browser

import (
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// ErrEmptyURL is returned when there is nothing to open.
var ErrEmptyURL = errors.New("empty url")

// Opener opens a URL outside the terminal.
type Opener interface {
	Open(url string) error
}

// System opens URLs with the platform's launcher.
type System struct {
	// GOOS overrides runtime.GOOS when set.
	GOOS string
	// Start runs a launcher command. Nil means exec.
	Start func(name string, args ...string) error
}

// Open tries each launcher for the platform until one starts. It does not
// wait for the browser.
func (s System) Open(url string) error {
	url = strings.TrimSpace(url)
	if url == "" {
		return ErrEmptyURL
	}

	start := s.Start
	if start == nil {
		start = startDetached
	}

	var errs []error
	for _, args := range Commands(s.goos(), url) {
		err := start(args[0], args[1:]...)
		if err == nil {
			return nil
		}
		errs = append(errs, err)
	}
	return fmt.Errorf("no open command available: %w", errors.Join(errs...))
}

func (s System) goos() string {
	if s.GOOS != "" {
		return s.GOOS
	}
	return runtime.GOOS
}

// Commands lists the launcher invocations tried for goos, in order.
func Commands(goos, url string) [][]string {
	switch goos {
	case "darwin":
		return [][]string{{"open", url}}
	case "windows":
		return [][]string{{"cmd", "/c", "start", "", url}}
	default:
		return [][]string{{"xdg-open", url}, {"gio", "open", url}}
	}
}

func startDetached(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	if err := cmd.Start(); err != nil {
		return err
	}
	go cmd.Wait()
	return nil
}
