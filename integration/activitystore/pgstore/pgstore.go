// Package pgstore implements activity.Store on a PostgreSQL table.
//
// The schema ships as goose migrations in Migrations; apply them with
// pg.Migrate before serving. Touch is a single upsert that keeps the greater
// of the stored and incoming time.
package pgstore

import (
	"context"
	"embed"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/dmitrymomot/idlesession/core/activity"
)

// Migrations holds the schema, rooted at "migrations".
//
//go:embed migrations/*.sql
var Migrations embed.FS

// DB is the subset of pgxpool.Pool, pgx.Conn and pgx.Tx the store needs.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

const (
	selectQuery = `SELECT last_activity FROM session_activity WHERE session_id = $1`
	touchQuery  = `INSERT INTO session_activity (session_id, last_activity) VALUES ($1, $2)
ON CONFLICT (session_id) DO UPDATE
SET last_activity = GREATEST(session_activity.last_activity, EXCLUDED.last_activity)`
	deleteQuery = `DELETE FROM session_activity WHERE session_id = $1`
	purgeQuery  = `DELETE FROM session_activity WHERE last_activity < $1`
)

// Store implements activity.Store.
type Store struct {
	db DB
}

// New creates a Store.
func New(db DB) *Store {
	return &Store{db: db}
}

var _ activity.Store = (*Store)(nil)

func (s *Store) LastActivity(ctx context.Context, sessionID string) (time.Time, error) {
	if sessionID == "" {
		return time.Time{}, activity.ErrEmptySessionID
	}

	var last time.Time
	err := s.db.QueryRow(ctx, selectQuery, sessionID).Scan(&last)
	if errors.Is(err, pgx.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.Join(activity.ErrUnavailable, err)
	}
	return last.UTC(), nil
}

func (s *Store) Touch(ctx context.Context, sessionID string, t time.Time) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}
	if _, err := s.db.Exec(ctx, touchQuery, sessionID, t.UTC()); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}
	if _, err := s.db.Exec(ctx, deleteQuery, sessionID); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

// Purge deletes records last touched before cutoff and returns how many were
// removed. Pick a cutoff older than now-(timeout+grace).
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.db.Exec(ctx, purgeQuery, cutoff.UTC())
	if err != nil {
		return 0, errors.Join(activity.ErrUnavailable, err)
	}
	return tag.RowsAffected(), nil
}
