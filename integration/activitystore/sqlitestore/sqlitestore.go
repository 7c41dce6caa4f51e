// Package sqlitestore implements activity.Store on an embedded SQLite file
// using the pure-Go modernc driver.
//
// Times are stored as Unix nanoseconds. Touch is one upsert keeping the
// greater of the stored and incoming value.
package sqlitestore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmitrymomot/idlesession/core/activity"
)

const schema = `CREATE TABLE IF NOT EXISTS session_activity (
	session_id    TEXT PRIMARY KEY,
	last_activity INTEGER NOT NULL
)`

const (
	selectQuery = `SELECT last_activity FROM session_activity WHERE session_id = ?`
	touchQuery  = `INSERT INTO session_activity (session_id, last_activity) VALUES (?, ?)
ON CONFLICT (session_id) DO UPDATE
SET last_activity = MAX(session_activity.last_activity, excluded.last_activity)`
	deleteQuery = `DELETE FROM session_activity WHERE session_id = ?`
	purgeQuery  = `DELETE FROM session_activity WHERE last_activity < ?`
)

// Config holds the database location.
type Config struct {
	Path        string        `env:"SQLITE_PATH" envDefault:"idlesession.sqlite"`
	BusyTimeout time.Duration `env:"SQLITE_BUSY_TIMEOUT" envDefault:"5s"`
}

// Store implements activity.Store.
type Store struct {
	db *sql.DB
}

// Open opens the database file in WAL mode and creates the table.
func Open(ctx context.Context, cfg Config) (*Store, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(%d)&_pragma=journal_mode(WAL)",
		cfg.Path, cfg.BusyTimeout.Milliseconds())

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", cfg.Path, err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	s, err := New(ctx, db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database and creates the table if needed.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create session_activity table: %w", err)
	}
	return &Store{db: db}, nil
}

var _ activity.Store = (*Store)(nil)

func (s *Store) LastActivity(ctx context.Context, sessionID string) (time.Time, error) {
	if sessionID == "" {
		return time.Time{}, activity.ErrEmptySessionID
	}

	var nanos int64
	err := s.db.QueryRowContext(ctx, selectQuery, sessionID).Scan(&nanos)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.Join(activity.ErrUnavailable, err)
	}
	return time.Unix(0, nanos).UTC(), nil
}

func (s *Store) Touch(ctx context.Context, sessionID string, t time.Time) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}
	if _, err := s.db.ExecContext(ctx, touchQuery, sessionID, t.UnixNano()); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}
	if _, err := s.db.ExecContext(ctx, deleteQuery, sessionID); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

// Purge deletes records last touched before cutoff.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, purgeQuery, cutoff.UnixNano())
	if err != nil {
		return 0, errors.Join(activity.ErrUnavailable, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, errors.Join(activity.ErrUnavailable, err)
	}
	return n, nil
}

// Healthcheck pings the database.
func (s *Store) Healthcheck(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}
