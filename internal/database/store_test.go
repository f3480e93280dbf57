package database

import (
	"errors"
	"reflect"
	"testing"
	"time"

	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
)

const testBase = "https://lobste.rs/"

func newTestDB(t *testing.T) *DBService {
	t.Helper()
	svc, err := NewDBService(":memory:")
	if err != nil {
		t.Fatalf("NewDBService failed: %v", err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func testPage(page int, ids ...string) *lobsters.FrontPage {
	stories := make([]lobsters.Story, len(ids))
	for i, id := range ids {
		stories[i] = lobsters.Story{
			ShortID:      id,
			ShortIDURL:   "https://lobste.rs/s/" + id,
			CreatedAt:    "2024-03-01T10:00:00.000-06:00",
			Title:        "Story " + id,
			URL:          "https://example.com/" + id,
			Score:        10 - i,
			CommentCount: i,
			CommentsURL:  "https://lobste.rs/s/" + id + "/story",
			Submitter:    lobsters.User{Username: "alice", Karma: 99},
			Tags:         []string{"rust", "video"},
		}
	}
	return &lobsters.FrontPage{
		Page:    page,
		Stories: stories,
		Tags: lobsters.NewTagMap([]lobsters.Tag{
			{Name: "rust", Description: "Rust"},
			{Name: "video", IsMedia: true, HotnessMod: -0.5},
		}),
	}
}

// TestNewDBService verifies that the database initializes correctly
// with the embedded schema using an in-memory SQLite instance.
func TestNewDBService(t *testing.T) {
	svc, err := NewDBService(":memory:")
	if err != nil {
		t.Fatalf("NewDBService(:memory:) failed: %v", err)
	}
	defer svc.Close()

	pages, err := svc.ListPages()
	if err != nil {
		t.Fatalf("ListPages failed: %v", err)
	}
	if len(pages) != 0 {
		t.Errorf("expected empty cache, got %d pages", len(pages))
	}
}

// TestSaveAndLoadFrontPage verifies the full page lifecycle:
// save → load → verify order and fields match.
func TestSaveAndLoadFrontPage(t *testing.T) {
	svc := newTestDB(t)
	fetched := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	want := testPage(1, "aaa", "bbb", "ccc")

	if err := svc.SaveFrontPage(testBase, want, fetched); err != nil {
		t.Fatalf("SaveFrontPage failed: %v", err)
	}

	got, at, err := svc.LoadFrontPage(testBase, 1)
	if err != nil {
		t.Fatalf("LoadFrontPage failed: %v", err)
	}
	if !at.Equal(fetched) {
		t.Errorf("fetched_at = %v, want %v", at, fetched)
	}
	if !reflect.DeepEqual(got.Stories, want.Stories) {
		t.Errorf("stories differ:\n got %+v\nwant %+v", got.Stories, want.Stories)
	}

	video, ok := got.Tags.Lookup("video")
	if !ok || !video.IsMedia || video.HotnessMod != -0.5 {
		t.Errorf("video tag not restored: %+v (found=%v)", video, ok)
	}
	if got.Tags.Len() != 2 {
		t.Errorf("expected 2 tags, got %d", got.Tags.Len())
	}
}

// TestSaveReplacesPage verifies that saving a page again drops stories
// that fell off it.
func TestSaveReplacesPage(t *testing.T) {
	svc := newTestDB(t)
	now := time.Now()

	if err := svc.SaveFrontPage(testBase, testPage(1, "a", "b", "c"), now); err != nil {
		t.Fatalf("first save failed: %v", err)
	}
	if err := svc.SaveFrontPage(testBase, testPage(1, "d"), now.Add(time.Minute)); err != nil {
		t.Fatalf("second save failed: %v", err)
	}

	got, _, err := svc.LoadFrontPage(testBase, 1)
	if err != nil {
		t.Fatalf("LoadFrontPage failed: %v", err)
	}
	if len(got.Stories) != 1 || got.Stories[0].ShortID != "d" {
		t.Errorf("expected only story d, got %+v", got.Stories)
	}
}

func TestLoadMissingPage(t *testing.T) {
	svc := newTestDB(t)

	_, _, err := svc.LoadFrontPage(testBase, 3)
	if !errors.Is(err, ErrNotCached) {
		t.Fatalf("expected ErrNotCached, got %v", err)
	}
}

func TestStoryWithoutTags(t *testing.T) {
	svc := newTestDB(t)
	fp := testPage(1, "x")
	fp.Stories[0].Tags = nil

	if err := svc.SaveFrontPage(testBase, fp, time.Now()); err != nil {
		t.Fatalf("SaveFrontPage failed: %v", err)
	}
	got, _, err := svc.LoadFrontPage(testBase, 1)
	if err != nil {
		t.Fatalf("LoadFrontPage failed: %v", err)
	}
	if got.Stories[0].Tags == nil || len(got.Stories[0].Tags) != 0 {
		t.Errorf("expected empty tag list, got %#v", got.Stories[0].Tags)
	}
}

// TestListPagesAndPrune verifies listing order, story counts and that
// pruning removes old pages with their stories.
func TestListPagesAndPrune(t *testing.T) {
	svc := newTestDB(t)
	old := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	recent := old.Add(48 * time.Hour)

	if err := svc.SaveFrontPage(testBase, testPage(2, "a", "b"), old); err != nil {
		t.Fatalf("save page 2 failed: %v", err)
	}
	if err := svc.SaveFrontPage(testBase, testPage(1, "c", "d", "e"), recent); err != nil {
		t.Fatalf("save page 1 failed: %v", err)
	}
	if err := svc.SaveFrontPage("https://example.org/", testPage(1, "f"), old); err != nil {
		t.Fatalf("save other site failed: %v", err)
	}

	pages, err := svc.ListPages()
	if err != nil {
		t.Fatalf("ListPages failed: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 pages, got %d", len(pages))
	}
	if pages[0].Page != 1 || pages[0].BaseURL != testBase || pages[0].StoryCount != 3 {
		t.Errorf("unexpected newest page: %+v", pages[0])
	}

	n, err := svc.Prune(old.Add(time.Hour))
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if n != 2 {
		t.Errorf("expected 2 pruned pages, got %d", n)
	}

	if _, _, err := svc.LoadFrontPage(testBase, 2); !errors.Is(err, ErrNotCached) {
		t.Errorf("page 2 should be gone, got %v", err)
	}

	var orphans int
	if err := svc.db.QueryRow(`SELECT COUNT(*) FROM stories WHERE page = 2`).Scan(&orphans); err != nil {
		t.Fatalf("counting stories failed: %v", err)
	}
	if orphans != 0 {
		t.Errorf("expected stories of pruned pages to be deleted, found %d", orphans)
	}
}
