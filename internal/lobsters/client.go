package lobsters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

const (
	// DefaultBaseURL is the public lobste.rs site.
	DefaultBaseURL = "https://lobste.rs/"

	defaultTimeout   = 15 * time.Second
	defaultRateLimit = rate.Limit(2)
	defaultBurst     = 2
	userAgent        = "lobsters-tui/0.1 (+https://github.com/Mr-Dark-debug/lobsters)"
)

// ErrInvalidPage is returned for page numbers below 1.
var ErrInvalidPage = errors.New("page numbers start at 1")

// Options configures a Client. Zero fields take defaults.
type Options struct {
	BaseURL    string
	HTTPClient *http.Client
	RateLimit  rate.Limit
	Burst      int
	Logger     *slog.Logger
}

// Client reads listing pages and tags from a lobste.rs compatible site.
// It is safe for concurrent use.
type Client struct {
	base    *url.URL
	http    *http.Client
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewClient creates a Client. Only an unparsable base URL is an error.
func NewClient(opts Options) (*Client, error) {
	raw := opts.BaseURL
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing base url: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base url %q must be absolute", raw)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	limit, burst := opts.RateLimit, opts.Burst
	if limit == 0 {
		limit = defaultRateLimit
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		base:    base,
		http:    httpClient,
		limiter: rate.NewLimiter(limit, burst),
		logger:  logger,
	}, nil
}

// BaseURL returns the site the client talks to.
func (c *Client) BaseURL() string {
	return c.base.String()
}

// Index fetches one listing page. Page 1 is the front page.
func (c *Client) Index(ctx context.Context, page int) ([]Story, error) {
	if page < 1 {
		return nil, ErrInvalidPage
	}
	path := "hottest.json"
	if page > 1 {
		path = "page/" + strconv.Itoa(page) + ".json"
	}

	var stories []Story
	if err := c.getJSON(ctx, path, &stories); err != nil {
		return nil, fmt.Errorf("fetching page %d: %w", page, err)
	}
	return stories, nil
}

// Tags fetches the list of tags.
func (c *Client) Tags(ctx context.Context) ([]Tag, error) {
	var tags []Tag
	if err := c.getJSON(ctx, "tags.json", &tags); err != nil {
		return nil, fmt.Errorf("fetching tags: %w", err)
	}
	return tags, nil
}

// FrontPage fetches a listing page and the tag list concurrently and
// waits for both. The first error cancels the other request.
func (c *Client) FrontPage(ctx context.Context, page int) (*FrontPage, error) {
	var (
		stories []Story
		tags    []Tag
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		stories, err = c.Index(ctx, page)
		return err
	})
	g.Go(func() error {
		var err error
		tags, err = c.Tags(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &FrontPage{Page: page, Stories: stories, Tags: NewTagMap(tags)}, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %w", err)
	}

	u := c.base.JoinPath(path)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	c.logger.Debug("api request", "url", u.String(), "status", resp.StatusCode, "elapsed", time.Since(start))

	if resp.StatusCode != http.StatusOK {
		return &StatusError{URL: u.String(), Code: resp.StatusCode}
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding %s: %w", u.Path, err)
	}
	return nil
}

// StatusError is returned when the site answers with a non-200 status.
type StatusError struct {
	URL  string
	Code int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP error: %d %s (%s)", e.Code, http.StatusText(e.Code), e.URL)
}
