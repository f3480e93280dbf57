// Package refresh keeps the offline story cache warm.
//
// A Daemon fetches the configured listing pages on a fixed interval and
// writes each one, with the tag list, to the cache. It also serves its
// counters over HTTP so `lobsters status` can report on it.
//
// Architecture:
//
//	ticker -> FrontPager (HTTP) -> Store (SQLite)
package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Mr-Dark-debug/lobsters/internal/database"
	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Refresher defines the lifecycle of a background cache refresher.
type Refresher interface {
	// Start runs a first refresh and then refreshes on every tick.
	Start(ctx context.Context) error
	// Stop ends the loop and waits for a refresh in flight.
	Stop() error
	// Metrics returns the current counters.
	Metrics() Metrics
}

// FrontPager fetches a listing page joined with the tag list.
// *lobsters.Client satisfies it.
type FrontPager interface {
	FrontPage(ctx context.Context, page int) (*lobsters.FrontPage, error)
}

// Metrics tracks refresh throughput and failures.
type Metrics struct {
	PagesFetched  int64 `json:"pages_fetched"`
	StoriesCached int64 `json:"stories_cached"`
	ErrorCount    int64 `json:"error_count"`
	LastRefresh   int64 `json:"last_refresh_unix"`
	Uptime        int64 `json:"uptime_seconds"`
}

// Config holds configuration for the refresh daemon.
type Config struct {
	// BaseURL keys the cache rows; it must match the client's site.
	BaseURL string `json:"base_url"`

	// Pages are the listing pages to keep cached.
	Pages []int `json:"pages"`

	// Interval is the time between refreshes.
	Interval time.Duration `json:"interval"`

	// DBPath is the path to the SQLite cache file.
	DBPath string `json:"db_path"`

	// MetricsAddr is the HTTP address for metrics.
	// Empty string disables the metrics server.
	MetricsAddr string `json:"metrics_addr"`
}

// DefaultConfig returns sensible defaults for the refresh daemon.
func DefaultConfig() Config {
	homeDir, _ := os.UserHomeDir()

	return Config{
		BaseURL:     lobsters.DefaultBaseURL,
		Pages:       []int{1},
		Interval:    15 * time.Minute,
		DBPath:      filepath.Join(homeDir, ".lobsters", "cache.db"),
		MetricsAddr: "127.0.0.1:9877",
	}
}

// ============================================================
// Daemon Implementation
// ============================================================

var _ Refresher = (*Daemon)(nil)

// Daemon is the production implementation of the Refresher interface.
type Daemon struct {
	config  Config
	client  FrontPager
	store   database.Store
	logger  *slog.Logger
	metrics Metrics

	registry        *prometheus.Registry
	promPages       prometheus.Counter
	promStories     prometheus.Counter
	promErrors      prometheus.Counter
	promLastRefresh prometheus.Gauge

	mu      sync.Mutex
	wg      sync.WaitGroup
	started time.Time
	cancel  context.CancelFunc
}

// NewDaemon creates a refresh daemon. A nil logger means slog.Default().
func NewDaemon(config Config, client FrontPager, store database.Store, logger *slog.Logger) *Daemon {
	if logger == nil {
		logger = slog.Default()
	}
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Daemon{
		config:   config,
		client:   client,
		store:    store,
		logger:   logger,
		registry: reg,
		promPages: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lobsters",
			Name:      "pages_fetched_total",
			Help:      "Listing pages fetched and written to the cache.",
		}),
		promStories: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lobsters",
			Name:      "stories_cached_total",
			Help:      "Stories written to the cache.",
		}),
		promErrors: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "lobsters",
			Name:      "refresh_errors_total",
			Help:      "Page refreshes that failed to fetch or save.",
		}),
		promLastRefresh: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "lobsters",
			Name:      "last_refresh_timestamp_seconds",
			Help:      "Unix time of the last refresh pass.",
		}),
	}
}

// RefreshOnce fetches and saves every configured page. A failing page
// does not stop the others; all failures are returned joined.
func (d *Daemon) RefreshOnce(ctx context.Context) error {
	var errs []error
	for _, page := range d.config.Pages {
		if err := d.refreshPage(ctx, page); err != nil {
			atomic.AddInt64(&d.metrics.ErrorCount, 1)
			d.promErrors.Inc()
			d.logger.Error("refresh failed", "page", page, "error", err)
			errs = append(errs, err)
		}
	}

	now := time.Now()
	atomic.StoreInt64(&d.metrics.LastRefresh, now.Unix())
	d.promLastRefresh.Set(float64(now.Unix()))
	return errors.Join(errs...)
}

func (d *Daemon) refreshPage(ctx context.Context, page int) error {
	start := time.Now()
	fp, err := d.client.FrontPage(ctx, page)
	if err != nil {
		return err
	}
	if err := d.store.SaveFrontPage(d.config.BaseURL, fp, time.Now()); err != nil {
		return fmt.Errorf("saving page %d: %w", page, err)
	}

	atomic.AddInt64(&d.metrics.PagesFetched, 1)
	atomic.AddInt64(&d.metrics.StoriesCached, int64(len(fp.Stories)))
	d.promPages.Inc()
	d.promStories.Add(float64(len(fp.Stories)))
	d.logger.Info("page cached", "page", page, "stories", len(fp.Stories), "elapsed", time.Since(start))
	return nil
}

// Start runs one refresh synchronously, then keeps refreshing in the
// background until Stop or ctx ends. A failing first refresh is logged,
// not returned, so a daemon started offline recovers by itself.
func (d *Daemon) Start(ctx context.Context) error {
	if d.config.Interval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", d.config.Interval)
	}
	if len(d.config.Pages) == 0 {
		return errors.New("no pages to refresh")
	}

	d.mu.Lock()
	d.started = time.Now()
	ctx, d.cancel = context.WithCancel(ctx)
	d.mu.Unlock()

	d.RefreshOnce(ctx)

	d.wg.Add(1)
	go d.loop(ctx)

	if d.config.MetricsAddr != "" {
		d.wg.Add(1)
		go d.serveMetrics(ctx)
	}

	d.logger.Info("refresh daemon started", "pages", d.config.Pages, "interval", d.config.Interval)
	return nil
}

// Stop gracefully shuts the daemon down.
func (d *Daemon) Stop() error {
	d.logger.Info("shutting down refresh daemon")

	d.mu.Lock()
	if d.cancel != nil {
		d.cancel()
	}
	d.mu.Unlock()

	d.wg.Wait()
	d.logger.Info("refresh daemon stopped")
	return nil
}

// Metrics returns a snapshot of the current refresh metrics.
func (d *Daemon) Metrics() Metrics {
	d.mu.Lock()
	started := d.started
	d.mu.Unlock()

	var uptime int64
	if !started.IsZero() {
		uptime = int64(time.Since(started).Seconds())
	}
	return Metrics{
		PagesFetched:  atomic.LoadInt64(&d.metrics.PagesFetched),
		StoriesCached: atomic.LoadInt64(&d.metrics.StoriesCached),
		ErrorCount:    atomic.LoadInt64(&d.metrics.ErrorCount),
		LastRefresh:   atomic.LoadInt64(&d.metrics.LastRefresh),
		Uptime:        uptime,
	}
}

func (d *Daemon) loop(ctx context.Context) {
	defer d.wg.Done()

	ticker := time.NewTicker(d.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			d.RefreshOnce(ctx)
		}
	}
}

// Handler exposes /health, Prometheus /metrics and JSON /api/metrics.
func (d *Daemon) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	mux.Handle("/metrics", promhttp.HandlerFor(d.registry, promhttp.HandlerOpts{}))

	// JSON metrics for `lobsters status`
	mux.HandleFunc("/api/metrics", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(d.Metrics())
	})

	return mux
}

func (d *Daemon) serveMetrics(ctx context.Context) {
	defer d.wg.Done()

	server := &http.Server{
		Addr:              d.config.MetricsAddr,
		Handler:           d.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()

	d.logger.Info("metrics server listening", "addr", d.config.MetricsAddr)
	if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		d.logger.Error("metrics server", "error", err)
	}
}
