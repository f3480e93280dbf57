// Package database provides the offline story cache.
//
// It implements the Store interface using SQLite with WAL mode. Every
// successful fetch of a listing page is written here together with the
// tag list, so the viewer can show the last copy without a network.
// The DBService struct is the primary entry point for all cache
// operations.
package database

import (
	"database/sql"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Mr-Dark-debug/lobsters/internal/lobsters"
	"github.com/Mr-Dark-debug/lobsters/pkg/jsonutil"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaFS embed.FS

// ErrNotCached is returned when a page was never saved.
var ErrNotCached = errors.New("page not in cache")

// Store defines the interface for cached listing pages.
type Store interface {
	// SaveFrontPage replaces the cached copy of fp.Page for baseURL,
	// including the tag list.
	SaveFrontPage(baseURL string, fp *lobsters.FrontPage, fetchedAt time.Time) error
	// LoadFrontPage returns the cached page and tags, or ErrNotCached.
	LoadFrontPage(baseURL string, page int) (*lobsters.FrontPage, time.Time, error)
	// ListPages returns what is cached, newest fetch first.
	ListPages() ([]CachedPage, error)
	// Prune drops pages fetched before cutoff and returns how many went.
	Prune(cutoff time.Time) (int64, error)

	// Close gracefully shuts down the database connection.
	Close() error
}

// CachedPage summarizes one cached listing page.
type CachedPage struct {
	BaseURL    string    `json:"base_url"`
	Page       int       `json:"page"`
	FetchedAt  time.Time `json:"fetched_at"`
	StoryCount int       `json:"story_count"`
}

// ============================================================
// DBService Implementation
// ============================================================

// DBService implements the Store interface using SQLite.
// It serializes writers through a read-write mutex.
type DBService struct {
	db *sql.DB
	mu sync.RWMutex

	stmtInsertStory *sql.Stmt
	stmtUpsertTag   *sql.Stmt
}

// NewDBService opens the cache at path, creating the schema if needed.
// Use ":memory:" for in-memory databases (useful for testing).
func NewDBService(path string) (*DBService, error) {
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_synchronous=NORMAL&_foreign_keys=ON", path)

	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database at %s: %w", path, err)
	}

	// SQLite only supports one writer at a time
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	svc := &DBService{
		db: db,
	}

	if err := svc.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	if err := svc.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("preparing statements: %w", err)
	}

	return svc, nil
}

func (s *DBService) initSchema() error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("reading embedded schema: %w", err)
	}

	if _, err := s.db.Exec(string(schema)); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}

	return nil
}

func (s *DBService) prepareStatements() error {
	var err error

	s.stmtInsertStory, err = s.db.Prepare(`
		INSERT INTO stories (base_url, page, position, short_id, short_id_url, created_at,
			title, url, score, comment_count, comments_url, description, submitter, tags)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing InsertStory: %w", err)
	}

	s.stmtUpsertTag, err = s.db.Prepare(`
		INSERT INTO tags (base_url, tag, description, privileged, is_media, inactive, hotness_mod)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(base_url, tag) DO UPDATE SET
			description = excluded.description,
			privileged = excluded.privileged,
			is_media = excluded.is_media,
			inactive = excluded.inactive,
			hotness_mod = excluded.hotness_mod
	`)
	if err != nil {
		return fmt.Errorf("preparing UpsertTag: %w", err)
	}

	return nil
}

// SaveFrontPage replaces the cached page in a single transaction.
func (s *DBService) SaveFrontPage(baseURL string, fp *lobsters.FrontPage, fetchedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning save transaction: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	// Stories go with the page row through ON DELETE CASCADE.
	if _, err := tx.Exec(`DELETE FROM pages WHERE base_url = ? AND page = ?`, baseURL, fp.Page); err != nil {
		return fmt.Errorf("clearing page %d: %w", fp.Page, err)
	}
	if _, err := tx.Exec(`INSERT INTO pages (base_url, page, fetched_at) VALUES (?, ?, ?)`,
		baseURL, fp.Page, fetchedAt.UnixNano()); err != nil {
		return fmt.Errorf("inserting page %d: %w", fp.Page, err)
	}

	stmt := tx.Stmt(s.stmtInsertStory)
	for i, st := range fp.Stories {
		tags := st.Tags
		if tags == nil {
			tags = []string{}
		}
		_, err := stmt.Exec(
			baseURL, fp.Page, i, st.ShortID, st.ShortIDURL, st.CreatedAt,
			st.Title, st.URL, st.Score, st.CommentCount, st.CommentsURL, st.Description,
			jsonutil.MustMarshal(st.Submitter), jsonutil.MustMarshal(tags),
		)
		if err != nil {
			return fmt.Errorf("inserting story %s: %w", st.ShortID, err)
		}
	}

	tagStmt := tx.Stmt(s.stmtUpsertTag)
	for _, t := range fp.Tags.Tags() {
		_, err := tagStmt.Exec(baseURL, t.Name, t.Description, t.Privileged, t.IsMedia, t.Inactive, t.HotnessMod)
		if err != nil {
			return fmt.Errorf("upserting tag %s: %w", t.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing save transaction: %w", err)
	}
	return nil
}

// LoadFrontPage returns the cached page in its original order together
// with every tag cached for baseURL and the time it was fetched.
func (s *DBService) LoadFrontPage(baseURL string, page int) (*lobsters.FrontPage, time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var fetchedNs int64
	err := s.db.QueryRow(`SELECT fetched_at FROM pages WHERE base_url = ? AND page = ?`, baseURL, page).Scan(&fetchedNs)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, time.Time{}, fmt.Errorf("page %d of %s: %w", page, baseURL, ErrNotCached)
	}
	if err != nil {
		return nil, time.Time{}, fmt.Errorf("querying page %d: %w", page, err)
	}

	stories, err := s.queryStories(baseURL, page)
	if err != nil {
		return nil, time.Time{}, err
	}
	tags, err := s.queryTags(baseURL)
	if err != nil {
		return nil, time.Time{}, err
	}

	fp := &lobsters.FrontPage{Page: page, Stories: stories, Tags: lobsters.NewTagMap(tags)}
	return fp, time.Unix(0, fetchedNs), nil
}

func (s *DBService) queryStories(baseURL string, page int) ([]lobsters.Story, error) {
	rows, err := s.db.Query(`
		SELECT short_id, short_id_url, created_at, title, url, score, comment_count,
			comments_url, description, submitter, tags
		FROM stories
		WHERE base_url = ? AND page = ?
		ORDER BY position ASC
	`, baseURL, page)
	if err != nil {
		return nil, fmt.Errorf("querying stories for page %d: %w", page, err)
	}
	defer rows.Close()

	var stories []lobsters.Story
	for rows.Next() {
		var (
			st        lobsters.Story
			submitter string
			tags      string
		)
		if err := rows.Scan(
			&st.ShortID, &st.ShortIDURL, &st.CreatedAt, &st.Title, &st.URL,
			&st.Score, &st.CommentCount, &st.CommentsURL, &st.Description,
			&submitter, &tags,
		); err != nil {
			return nil, fmt.Errorf("scanning story row: %w", err)
		}
		if err := json.Unmarshal([]byte(submitter), &st.Submitter); err != nil {
			return nil, fmt.Errorf("decoding submitter of %s: %w", st.ShortID, err)
		}
		if st.Tags, err = jsonutil.StringSlice(tags); err != nil {
			return nil, fmt.Errorf("decoding tags of %s: %w", st.ShortID, err)
		}
		stories = append(stories, st)
	}
	return stories, rows.Err()
}

func (s *DBService) queryTags(baseURL string) ([]lobsters.Tag, error) {
	rows, err := s.db.Query(`
		SELECT tag, description, privileged, is_media, inactive, hotness_mod
		FROM tags
		WHERE base_url = ?
		ORDER BY tag ASC
	`, baseURL)
	if err != nil {
		return nil, fmt.Errorf("querying tags: %w", err)
	}
	defer rows.Close()

	var tags []lobsters.Tag
	for rows.Next() {
		var t lobsters.Tag
		if err := rows.Scan(&t.Name, &t.Description, &t.Privileged, &t.IsMedia, &t.Inactive, &t.HotnessMod); err != nil {
			return nil, fmt.Errorf("scanning tag row: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// ListPages returns every cached page, most recently fetched first.
func (s *DBService) ListPages() ([]CachedPage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT p.base_url, p.page, p.fetched_at, COUNT(st.short_id)
		FROM pages p
		LEFT JOIN stories st ON st.base_url = p.base_url AND st.page = p.page
		GROUP BY p.base_url, p.page, p.fetched_at
		ORDER BY p.fetched_at DESC, p.base_url ASC, p.page ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("querying cached pages: %w", err)
	}
	defer rows.Close()

	var pages []CachedPage
	for rows.Next() {
		var (
			p         CachedPage
			fetchedNs int64
		)
		if err := rows.Scan(&p.BaseURL, &p.Page, &fetchedNs, &p.StoryCount); err != nil {
			return nil, fmt.Errorf("scanning cached page: %w", err)
		}
		p.FetchedAt = time.Unix(0, fetchedNs)
		pages = append(pages, p)
	}
	return pages, rows.Err()
}

// Prune deletes pages fetched before cutoff along with their stories.
// Tags are kept; they are shared by every page of a site.
func (s *DBService) Prune(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM pages WHERE fetched_at < ?`, cutoff.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("pruning pages: %w", err)
	}
	return res.RowsAffected()
}

// Close gracefully shuts down the database, closing all prepared statements
// and the underlying connection pool.
func (s *DBService) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, stmt := range []*sql.Stmt{s.stmtInsertStory, s.stmtUpsertTag} {
		if stmt != nil {
			stmt.Close()
		}
	}

	return s.db.Close()
}
