package linkcheck

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// Result is the outcome of probing one outbound link found in one post.
type Result struct {
	ID        int64     `json:"-"`
	Slug      string    `json:"slug"`   // post the link was found in
	URL       string    `json:"url"`    // external href as written
	Status    int       `json:"status"` // HTTP status, 0 on transport error
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
	CheckedAt time.Time `json:"checked_at"`
}

// Store persists link check results in SQLite.
type Store struct {
	db *sql.DB
}

// NewStore opens (or creates) the results database at path, ensures the data
// directory exists, and runs schema migrations.
func NewStore(path string) (*Store, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open linkcheck db: %w", err)
	}
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &Store{db: db}
	if err := s.ensureSchema(); err != nil {
		return nil, fmt.Errorf("ensure linkcheck schema: %w", err)
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS link_results (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    slug TEXT NOT NULL,
    url TEXT NOT NULL,
    status INTEGER NOT NULL,
    ok INTEGER NOT NULL,
    error TEXT NOT NULL DEFAULT '',
    checked_at DATETIME NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_link_results_slug ON link_results(slug);
`)
	return err
}

// ReplaceAll swaps the stored results for a fresh check run in one transaction.
func (s *Store) ReplaceAll(results []Result) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if _, err := tx.Exec(`DELETE FROM link_results`); err != nil {
		return err
	}
	stmt, err := tx.Prepare(`INSERT INTO link_results (slug, url, status, ok, error, checked_at) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return err
	}
	defer stmt.Close()
	for _, r := range results {
		ok := 0
		if r.OK {
			ok = 1
		}
		if _, err := stmt.Exec(r.Slug, r.URL, r.Status, ok, r.Error, r.CheckedAt.UTC()); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// ListResults returns all stored results ordered by post slug, then URL.
func (s *Store) ListResults() ([]Result, error) {
	return s.list(`SELECT id, slug, url, status, ok, error, checked_at FROM link_results ORDER BY slug, url`)
}

// ListBroken returns only the failing results.
func (s *Store) ListBroken() ([]Result, error) {
	return s.list(`SELECT id, slug, url, status, ok, error, checked_at FROM link_results WHERE ok = 0 ORDER BY slug, url`)
}

func (s *Store) list(query string) ([]Result, error) {
	rows, err := s.db.Query(query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []Result
	for rows.Next() {
		var r Result
		var ok int
		if err := rows.Scan(&r.ID, &r.Slug, &r.URL, &r.Status, &ok, &r.Error, &r.CheckedAt); err != nil {
			return nil, err
		}
		r.OK = ok == 1
		results = append(results, r)
	}
	return results, rows.Err()
}

// DeleteOlderThan removes results checked before cutoff and reports how many
// rows were deleted.
func (s *Store) DeleteOlderThan(cutoff time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM link_results WHERE checked_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// StartCleanupScheduler periodically deletes results older than maxAgeDays.
// The returned function stops the scheduler.
func (s *Store) StartCleanupScheduler(maxAgeDays int, interval time.Duration) func() {
	stop := make(chan struct{})
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				cutoff := time.Now().AddDate(0, 0, -maxAgeDays)
				if _, err := s.DeleteOlderThan(cutoff); err != nil {
					// Next tick retries; nothing else to do here.
					continue
				}
			case <-stop:
				return
			}
		}
	}()
	return func() { close(stop) }
}
