// lobsters-tui is the interactive story viewer.
//
// Usage:
//
//	lobsters-tui [flags]
//
// Flags:
//
//	--config       Path to config file (default: ~/.lobsters/config.yaml)
//	--base-url     Site to read from (default: https://lobste.rs/)
//	--page         Listing page, 1 is the front page (default: 1)
//	--theme        Color theme: true, 256, mono, grey or gray (default: 256)
//	--db           Path to SQLite cache file (default: ~/.lobsters/cache.db)
//	--offline      Show the cached copy of the page instead of fetching
//	--dump         Print one frame of the list and exit
//	--log-file     Log destination (default: ~/.lobsters/lobsters.log)
//	--debug        Log at debug level
//	--scroll-step  Columns per horizontal scroll (default: 10)
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/Mr-Dark-debug/lobsters/internal/config"
	"github.com/Mr-Dark-debug/lobsters/internal/database"
	"github.com/Mr-Dark-debug/lobsters/internal/format"
	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
	"github.com/Mr-Dark-debug/lobsters/internal/logging"
	"github.com/Mr-Dark-debug/lobsters/internal/render"
	"github.com/Mr-Dark-debug/lobsters/internal/tui"
	"github.com/Mr-Dark-debug/lobsters/internal/viewport"
	"github.com/Mr-Dark-debug/lobsters/pkg/timeutil"

	tea "github.com/charmbracelet/bubbletea"
	flag "github.com/spf13/pflag"
	"golang.org/x/term"
)

// errNotATty is returned when the viewer would draw into a pipe or file.
var errNotATty = errors.New("stdout is not a terminal")

// Size used by --dump when stdout has no size to query.
const (
	dumpWidth  = 80
	dumpHeight = 24
)

type options struct {
	configPath string
	offline    bool
	dump       bool
	debug      bool
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}

func run() error {
	var opts options
	defaults := config.Default()

	flag.StringVar(&opts.configPath, "config", "", "Path to config file")
	baseURL := flag.String("base-url", defaults.BaseURL, "Site to read from")
	page := flag.Int("page", defaults.Page, "Listing page, 1 is the front page")
	themeName := flag.String("theme", defaults.Theme, "Color theme: true, 256, mono, grey or gray")
	dbPath := flag.String("db", defaults.Database, "Path to SQLite cache file")
	flag.BoolVar(&opts.offline, "offline", false, "Show the cached copy of the page instead of fetching")
	flag.BoolVar(&opts.dump, "dump", false, "Print one frame of the list and exit")
	logFile := flag.String("log-file", defaults.LogFile, "Log destination")
	flag.BoolVar(&opts.debug, "debug", false, "Log at debug level")
	scrollStep := flag.Int("scroll-step", defaults.ScrollStep, "Columns per horizontal scroll")
	flag.Usage = usage
	flag.Parse()

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}

	// Flags win over the file only when given.
	changed := flag.CommandLine.Changed
	if changed("base-url") {
		cfg.BaseURL = *baseURL
	}
	if changed("page") {
		cfg.Page = *page
	}
	if changed("theme") {
		cfg.Theme = *themeName
	}
	if changed("db") {
		cfg.Database = *dbPath
	}
	if changed("log-file") {
		cfg.LogFile = *logFile
	}
	if changed("scroll-step") {
		cfg.ScrollStep = *scrollStep
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	th, err := cfg.ResolveTheme()
	if err != nil {
		return err
	}

	if !opts.dump && !term.IsTerminal(int(os.Stdout.Fd())) {
		return errNotATty
	}

	logger, closeLog, err := logging.Setup(logging.Options{Path: cfg.LogFile, Debug: opts.debug})
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	fp, err := loadFrontPage(ctx, cfg, opts.offline, logger)
	if err != nil {
		return err
	}
	if len(fp.Stories) == 0 {
		return fmt.Errorf("page %d: %w", cfg.Page, viewport.ErrNoItems)
	}

	formatter := format.Formatter{Theme: th, Tags: fp.Tags, Clock: timeutil.System}

	if opts.dump {
		return dump(fp.Stories, formatter)
	}

	model, err := tui.NewModel(fp.Stories, tui.Options{
		Formatter:  formatter,
		ScrollStep: cfg.ScrollStep,
		Logger:     logger,
	})
	if err != nil {
		return err
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	final, err := p.Run()
	// An interrupt cancels ctx and is a normal way out.
	if err != nil && ctx.Err() == nil {
		return fmt.Errorf("running viewer: %w", err)
	}
	if m, ok := final.(tui.Model); ok && m.Err() != nil {
		return m.Err()
	}
	return nil
}

// loadFrontPage fetches the page and caches it, or reads the cached copy
// when offline. A cache that cannot be opened only matters offline.
func loadFrontPage(ctx context.Context, cfg *config.Config, offline bool, logger *slog.Logger) (*lobsters.FrontPage, error) {
	client, err := lobsters.NewClient(lobsters.Options{BaseURL: cfg.BaseURL, Logger: logger})
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg.Database)
	if err != nil {
		if offline {
			return nil, err
		}
		logger.Warn("cache unavailable", "path", cfg.Database, "error", err)
	} else {
		defer store.Close()
	}

	if offline {
		fp, fetchedAt, err := store.LoadFrontPage(client.BaseURL(), cfg.Page)
		if err != nil {
			return nil, fmt.Errorf("loading page %d from cache: %w", cfg.Page, err)
		}
		logger.Info("showing cached page", "page", cfg.Page, "fetched_at", fetchedAt)
		return fp, nil
	}

	fp, err := client.FrontPage(ctx, cfg.Page)
	if err != nil {
		return nil, err
	}
	if store != nil {
		if err := store.SaveFrontPage(client.BaseURL(), fp, time.Now()); err != nil {
			logger.Warn("caching page failed", "page", cfg.Page, "error", err)
		}
	}
	return fp, nil
}

func openStore(path string) (*database.DBService, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}
	store, err := database.NewDBService(path)
	if err != nil {
		return nil, fmt.Errorf("opening cache: %w", err)
	}
	return store, nil
}

// dump writes the first screen of the list, selection on the first story.
func dump(stories []lobsters.Story, formatter format.Formatter) error {
	size := render.Size{Width: dumpWidth, Height: dumpHeight}
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		size = render.Size{Width: w, Height: h}
	}

	state, err := viewport.New(len(stories))
	if err != nil {
		return err
	}
	if err := state.Reconcile(size.Height); err != nil {
		return err
	}
	lines, err := formatter.FormatAll(stories, state.Selected())
	if err != nil {
		return err
	}

	r := render.Renderer{Frame: render.RawFrame}
	if err := r.Render(os.Stdout, lines, state.RowOffset(), state.ColOffset(), size); err != nil {
		return err
	}
	_, err = fmt.Fprint(os.Stdout, "\r\n")
	return err
}

func usage() {
	fmt.Fprintf(os.Stderr, "%s, a terminal viewer for lobste.rs\n\n", tui.Brand("lobsters-tui"))
	fmt.Fprintln(os.Stderr, "Usage:\n  lobsters-tui [flags]\n\nFlags:")
	flag.PrintDefaults()
	fmt.Fprintln(os.Stderr, "\nKeys:")
	fmt.Fprint(os.Stderr, tui.KeyHelp(tui.DefaultKeyMap()))
}
