package refresh

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/lobsters/internal/database"
	"github.com/Mr-Dark-debug/lobsters/internal/logging"
	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePager struct {
	mu    sync.Mutex
	fail  map[int]error
	calls []int
}

func (f *fakePager) FrontPage(_ context.Context, page int) (*lobsters.FrontPage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, page)
	if err := f.fail[page]; err != nil {
		return nil, err
	}
	stories := make([]lobsters.Story, 3)
	for i := range stories {
		id := fmt.Sprintf("p%d-%d", page, i)
		stories[i] = lobsters.Story{
			ShortID:     id,
			Title:       "Story " + id,
			CommentsURL: "https://lobste.rs/s/" + id,
			Tags:        []string{"go"},
		}
	}
	return &lobsters.FrontPage{
		Page:    page,
		Stories: stories,
		Tags:    lobsters.NewTagMap([]lobsters.Tag{{Name: "go"}}),
	}, nil
}

func (f *fakePager) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestDaemon(t *testing.T, pager FrontPager, pages ...int) (*Daemon, *database.DBService) {
	t.Helper()
	store, err := database.NewDBService(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	cfg := DefaultConfig()
	cfg.Pages = pages
	cfg.MetricsAddr = ""
	return NewDaemon(cfg, pager, store, logging.Discard()), store
}

func TestRefreshOnceCachesEveryPage(t *testing.T) {
	d, store := newTestDaemon(t, &fakePager{}, 1, 2)

	require.NoError(t, d.RefreshOnce(context.Background()))

	for _, page := range []int{1, 2} {
		fp, fetched, err := store.LoadFrontPage(lobsters.DefaultBaseURL, page)
		require.NoError(t, err, "page %d", page)
		assert.Len(t, fp.Stories, 3)
		assert.False(t, fetched.IsZero())
	}

	m := d.Metrics()
	assert.EqualValues(t, 2, m.PagesFetched)
	assert.EqualValues(t, 6, m.StoriesCached)
	assert.Zero(t, m.ErrorCount)
	assert.NotZero(t, m.LastRefresh)
}

func TestRefreshOnceKeepsGoingPastFailures(t *testing.T) {
	boom := errors.New("boom")
	pager := &fakePager{fail: map[int]error{1: boom}}
	d, store := newTestDaemon(t, pager, 1, 2)

	err := d.RefreshOnce(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{1, 2}, pager.calls)

	_, _, err = store.LoadFrontPage(lobsters.DefaultBaseURL, 1)
	assert.ErrorIs(t, err, database.ErrNotCached)
	_, _, err = store.LoadFrontPage(lobsters.DefaultBaseURL, 2)
	assert.NoError(t, err)

	m := d.Metrics()
	assert.EqualValues(t, 1, m.PagesFetched)
	assert.EqualValues(t, 1, m.ErrorCount)
}

func TestStartValidatesConfig(t *testing.T) {
	d, _ := newTestDaemon(t, &fakePager{})
	assert.Error(t, d.Start(context.Background()), "no pages")

	d, _ = newTestDaemon(t, &fakePager{}, 1)
	d.config.Interval = 0
	assert.Error(t, d.Start(context.Background()))
}

func TestStartRefreshesUntilStopped(t *testing.T) {
	pager := &fakePager{}
	d, _ := newTestDaemon(t, pager, 1)
	d.config.Interval = 10 * time.Millisecond

	require.NoError(t, d.Start(context.Background()))
	assert.GreaterOrEqual(t, pager.callCount(), 1, "Start refreshes before returning")

	require.Eventually(t, func() bool { return pager.callCount() >= 3 },
		time.Second, 5*time.Millisecond)
	require.NoError(t, d.Stop())

	after := pager.callCount()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, pager.callCount(), "no refreshes after Stop")
}

func TestHandler(t *testing.T) {
	d, _ := newTestDaemon(t, &fakePager{}, 1)
	require.NoError(t, d.RefreshOnce(context.Background()))

	srv := httptest.NewServer(d.Handler())
	defer srv.Close()

	t.Run("health", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("json", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/api/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		var m Metrics
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&m))
		assert.EqualValues(t, 1, m.PagesFetched)
		assert.EqualValues(t, 3, m.StoriesCached)
	})

	t.Run("prometheus", func(t *testing.T) {
		resp, err := http.Get(srv.URL + "/metrics")
		require.NoError(t, err)
		defer resp.Body.Close()

		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		out := string(body)
		assert.True(t, strings.Contains(out, "lobsters_pages_fetched_total 1"), out)
		assert.True(t, strings.Contains(out, "lobsters_stories_cached_total 3"), out)
		assert.True(t, strings.Contains(out, "lobsters_refresh_errors_total 0"), out)
	})
}
