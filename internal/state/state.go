// Package state persists the cursor and watermarks carried between runs.
package state

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/ubuntu/decorate"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schema string

const keyLastRunDate = "last_run_date"

// Watermark is what the previous successful run saw for one feed.
type Watermark struct {
	Feed     string
	RowCount int
	Pages    int
}

type Store struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (or creates) the sqlite database at path. ":memory:" is accepted.
func Open(ctx context.Context, path string) (s *Store, err error) {
	defer decorate.OnError(&err, "could not open state store %q", path)

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// a single connection keeps ":memory:" databases alive and writes serialized
	db.SetMaxOpenConns(1)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db, now: time.Now}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// LastRunDate returns the stored cursor, or def when none has been saved yet.
func (s *Store) LastRunDate(ctx context.Context, def string) (string, error) {
	var v string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM run_state WHERE key = ?`, keyLastRunDate).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return def, nil
	}
	if err != nil {
		return "", fmt.Errorf("read last run date: %w", err)
	}
	return v, nil
}

// SetLastRunDate stores the cursor for the next run.
func (s *Store) SetLastRunDate(ctx context.Context, date string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO run_state (key, value, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		keyLastRunDate, date, s.stamp())
	if err != nil {
		return fmt.Errorf("write last run date: %w", err)
	}
	return nil
}

// Watermark returns the previous counts for feed; ok is false when unknown.
func (s *Store) Watermark(ctx context.Context, feed string) (w Watermark, ok bool, err error) {
	w.Feed = feed
	err = s.db.QueryRowContext(ctx, `SELECT row_count, pages FROM feed_watermark WHERE feed = ?`, feed).Scan(&w.RowCount, &w.Pages)
	if errors.Is(err, sql.ErrNoRows) {
		return w, false, nil
	}
	if err != nil {
		return w, false, fmt.Errorf("read watermark %s: %w", feed, err)
	}
	return w, true, nil
}

// SetWatermark records the counts of a completed feed.
func (s *Store) SetWatermark(ctx context.Context, w Watermark) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO feed_watermark (feed, row_count, pages, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(feed) DO UPDATE SET row_count = excluded.row_count, pages = excluded.pages, updated_at = excluded.updated_at`,
		w.Feed, w.RowCount, w.Pages, s.stamp())
	if err != nil {
		return fmt.Errorf("write watermark %s: %w", w.Feed, err)
	}
	return nil
}

func (s *Store) stamp() string {
	return s.now().UTC().Format(time.RFC3339)
}
