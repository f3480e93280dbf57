// lobsters-daemon keeps the offline story cache warm.
//
// Usage:
//
//	lobsters-daemon [flags]
//
// Flags:
//
//	--config    Path to config file (default: ~/.lobsters/config.yaml)
//	--base-url  Site to read from (default: https://lobste.rs/)
//	--pages     Listing pages to cache (default: 1)
//	--interval  Time between refreshes (default: 15m)
//	--db        Path to SQLite cache file (default: ~/.lobsters/cache.db)
//	--metrics   HTTP address for metrics (default: 127.0.0.1:9877)
//	--debug     Log at debug level
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/Mr-Dark-debug/lobsters/internal/config"
	"github.com/Mr-Dark-debug/lobsters/internal/database"
	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
	"github.com/Mr-Dark-debug/lobsters/internal/logging"
	"github.com/Mr-Dark-debug/lobsters/internal/refresh"

	flag "github.com/spf13/pflag"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "lobsters-daemon: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg := refresh.DefaultConfig()

	configPath := flag.String("config", "", "Path to config file")
	baseURL := flag.String("base-url", "", "Site to read from")
	dbPath := flag.String("db", "", "Path to SQLite cache file")
	flag.IntSliceVar(&cfg.Pages, "pages", cfg.Pages, "Listing pages to cache")
	flag.DurationVar(&cfg.Interval, "interval", cfg.Interval, "Time between refreshes")
	flag.StringVar(&cfg.MetricsAddr, "metrics", cfg.MetricsAddr, "Metrics HTTP address (empty disables)")
	debug := flag.Bool("debug", false, "Log at debug level")
	flag.Parse()

	file, err := config.Load(*configPath)
	if err != nil {
		return err
	}
	cfg.BaseURL, cfg.DBPath = file.BaseURL, file.Database
	if *baseURL != "" {
		cfg.BaseURL = *baseURL
	}
	if *dbPath != "" {
		cfg.DBPath = *dbPath
	}

	logger, closeLog, err := logging.Setup(logging.Options{Debug: *debug})
	if err != nil {
		return err
	}
	defer closeLog()

	client, err := lobsters.NewClient(lobsters.Options{BaseURL: cfg.BaseURL, Logger: logger})
	if err != nil {
		return err
	}
	cfg.BaseURL = client.BaseURL()

	// Ensure the cache directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}

	store, err := database.NewDBService(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("opening cache: %w", err)
	}
	defer store.Close()

	daemon := refresh.NewDaemon(cfg, client, store, logger)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := daemon.Start(ctx); err != nil {
		return fmt.Errorf("starting daemon: %w", err)
	}

	// Print startup banner
	fmt.Println()
	fmt.Println("  LOBSTERS DAEMON")
	fmt.Println()
	fmt.Printf("  Site:     %s\n", cfg.BaseURL)
	fmt.Printf("  Pages:    %v every %s\n", cfg.Pages, cfg.Interval)
	fmt.Printf("  DB:       %s\n", cfg.DBPath)
	if cfg.MetricsAddr != "" {
		fmt.Printf("  Metrics:  http://%s/metrics\n", cfg.MetricsAddr)
	}
	fmt.Println()
	fmt.Println("  Press Ctrl+C to stop.")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	fmt.Println("\n  Shutting down gracefully...")
	cancel()
	if err := daemon.Stop(); err != nil {
		logger.Error("shutdown", "error", err)
	}

	fmt.Println("  Done.")
	return nil
}
