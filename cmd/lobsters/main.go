// lobsters is the command line companion to the viewer.
//
// Usage:
//
//	lobsters <command> [flags]
//
// Commands:
//
//	fetch     Fetch listing pages into the cache
//	cache     List or prune cached pages
//	themes    Show the built-in color themes
//	status    Show refresh daemon status
//	version   Print version information
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/Mr-Dark-debug/lobsters/internal/config"
	"github.com/Mr-Dark-debug/lobsters/internal/database"
	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
	"github.com/Mr-Dark-debug/lobsters/internal/logging"
	"github.com/Mr-Dark-debug/lobsters/internal/refresh"
	"github.com/Mr-Dark-debug/lobsters/internal/theme"
	"github.com/Mr-Dark-debug/lobsters/internal/tui"
	"github.com/Mr-Dark-debug/lobsters/pkg/jsonutil"
	"github.com/Mr-Dark-debug/lobsters/pkg/timeutil"

	"github.com/charmbracelet/lipgloss"
	flag "github.com/spf13/pflag"
)

var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "fetch":
		err = cmdFetch(os.Args[2:])
	case "cache":
		err = cmdCache(os.Args[2:])
	case "themes":
		cmdThemes()
	case "status":
		err = cmdStatus(os.Args[2:])
	case "version":
		fmt.Printf("lobsters v%s (commit: %s, built: %s)\n", Version, GitCommit, BuildTime)
	case "help", "--help", "-h":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, tui.FormatError(err))
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(tui.Brand("lobsters") + `, stories from lobste.rs in the terminal

Usage:
  lobsters <command> [flags]

Commands:
  fetch      Fetch listing pages into the cache
  cache      List or prune cached pages
  themes     Show the built-in color themes
  status     Show refresh daemon status
  version    Print version information

Run 'lobsters <command> --help' for details on each command.
Run 'lobsters-tui' to browse stories.`)
}

// loadConfig reads the config file named by --config and applies the
// --base-url and --db overrides when given.
func loadConfig(fs *flag.FlagSet, path, baseURL, dbPath string) (*config.Config, error) {
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if fs.Changed("base-url") {
		cfg.BaseURL = baseURL
	}
	if fs.Changed("db") {
		cfg.Database = dbPath
	}
	return cfg, cfg.Validate()
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

// cmdFetch refreshes the cache once, the same way the daemon does.
func cmdFetch(args []string) error {
	defaults := config.Default()
	fs := flag.NewFlagSet("fetch", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	baseURL := fs.String("base-url", defaults.BaseURL, "Site to read from")
	dbPath := fs.String("db", defaults.Database, "Path to SQLite cache file")
	pages := fs.IntSlice("pages", []int{1}, "Listing pages to fetch")
	asJSON := fs.Bool("json", false, "Print the fetched stories as JSON")
	debug := fs.Bool("debug", false, "Log at debug level")
	fs.Parse(args)

	cfg, err := loadConfig(fs, *configPath, *baseURL, *dbPath)
	if err != nil {
		return err
	}

	logger := logging.New(os.Stderr, *debug)
	client, err := lobsters.NewClient(lobsters.Options{BaseURL: cfg.BaseURL, Logger: logger})
	if err != nil {
		return err
	}
	store, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rc := refresh.DefaultConfig()
	rc.BaseURL = client.BaseURL()
	rc.Pages = *pages
	rc.DBPath = cfg.Database
	rc.MetricsAddr = ""

	start := time.Now()
	if err := refresh.NewDaemon(rc, client, store, logger).RefreshOnce(ctx); err != nil {
		return err
	}
	elapsed := time.Since(start).Milliseconds()

	if *asJSON {
		var stories []lobsters.Story
		for _, page := range rc.Pages {
			fp, _, err := store.LoadFrontPage(rc.BaseURL, page)
			if err != nil {
				return err
			}
			stories = append(stories, fp.Stories...)
		}
		fmt.Println(jsonutil.PrettyJSON(jsonutil.MustMarshal(stories)))
		return nil
	}

	fmt.Printf("Fetched %d page(s) from %s in %s\n", len(rc.Pages), rc.BaseURL, timeutil.FormatDuration(elapsed))
	return nil
}

// cmdCache lists cached pages, or drops old ones with --prune.
func cmdCache(args []string) error {
	defaults := config.Default()
	fs := flag.NewFlagSet("cache", flag.ExitOnError)
	configPath := fs.String("config", "", "Path to config file")
	dbPath := fs.String("db", defaults.Database, "Path to SQLite cache file")
	prune := fs.Duration("prune", 0, "Drop pages fetched longer ago than this, e.g. 168h")
	fs.Parse(args)

	cfg, err := loadConfig(fs, *configPath, "", *dbPath)
	if err != nil {
		return err
	}
	store, err := openStore(cfg.Database)
	if err != nil {
		return err
	}
	defer store.Close()

	if *prune > 0 {
		n, err := store.Prune(time.Now().Add(-*prune))
		if err != nil {
			return err
		}
		fmt.Println(tui.FormatNotice(fmt.Sprintf("Pruned %d page(s) older than %s.", n, *prune)))
		return nil
	}

	pages, err := store.ListPages()
	if err != nil {
		return err
	}
	if len(pages) == 0 {
		fmt.Println(tui.FormatNotice("The cache is empty. Run 'lobsters fetch' to fill it."))
		return nil
	}

	now := time.Now()
	fmt.Printf("%-28s %5s %8s  %-19s  %s\n", "SITE", "PAGE", "STORIES", "FETCHED (UTC)", "AGE")
	for _, p := range pages {
		fmt.Printf("%-28s %5d %8d  %-19s  %s\n",
			p.BaseURL, p.Page, p.StoryCount,
			timeutil.FormatTimestampFull(p.FetchedAt),
			timeutil.RelativeTime(p.FetchedAt, now))
	}
	return nil
}

// cmdThemes prints a swatch for every role of every built-in theme.
func cmdThemes() {
	for _, th := range theme.Builtins() {
		fmt.Println(tui.Brand(th.Name))
		for _, role := range theme.Roles() {
			c := th.Color(role)
			swatch := lipgloss.NewStyle().Background(c.Lipgloss()).Render("    ")
			value := c.String()
			if value == "" {
				value = "default"
			}
			fmt.Printf("  %s %-11s %s\n", swatch, role, value)
		}
		fmt.Println()
	}
	fmt.Println(tui.FormatNotice("Names accepted by --theme: " + strings.Join(themeNames(), ", ")))
}

func themeNames() []string {
	var names []string
	for _, th := range theme.Builtins() {
		names = append(names, th.Name)
	}
	return names
}

// cmdStatus shows the refresh daemon status by querying its metrics endpoint.
func cmdStatus(args []string) error {
	fs := flag.NewFlagSet("status", flag.ExitOnError)
	addr := fs.String("metrics", refresh.DefaultConfig().MetricsAddr, "Daemon metrics address")
	fs.Parse(args)

	url := fmt.Sprintf("http://%s/api/metrics", *addr)
	client := &http.Client{Timeout: 3 * time.Second}

	resp, err := client.Get(url)
	if err != nil {
		fmt.Println("The refresh daemon is not running.")
		fmt.Printf("  Start it with: lobsters-daemon\n")
		fmt.Printf("  (tried: %s)\n", url)
		os.Exit(1)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &lobsters.StatusError{URL: url, Code: resp.StatusCode}
	}

	var metrics refresh.Metrics
	if err := json.NewDecoder(resp.Body).Decode(&metrics); err != nil {
		return fmt.Errorf("decoding metrics: %w", err)
	}

	last := "never"
	if metrics.LastRefresh > 0 {
		last = timeutil.RelativeTime(time.Unix(metrics.LastRefresh, 0), time.Now())
	}

	fmt.Println("The refresh daemon is running.")
	fmt.Println()
	fmt.Printf("  Pages fetched:   %d\n", metrics.PagesFetched)
	fmt.Printf("  Stories cached:  %d\n", metrics.StoriesCached)
	fmt.Printf("  Errors:          %d\n", metrics.ErrorCount)
	fmt.Printf("  Last refresh:    %s\n", last)
	fmt.Printf("  Uptime:          %s\n", timeutil.FormatDuration(metrics.Uptime*1000))
	return nil
}
