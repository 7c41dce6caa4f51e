// Package boltstore implements activity.Store on an embedded bbolt file for
// single-node deployments that need activity to survive restarts.
//
// Values are 8-byte big-endian Unix nanoseconds. bbolt serialises writers,
// and Touch compares inside its update transaction.
package boltstore

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/dmitrymomot/idlesession/core/activity"
)

var bucketName = []byte("session_activity")

// ErrCorruptRecord is returned when a stored value is not 8 bytes.
var ErrCorruptRecord = errors.New("corrupt activity record")

// Config holds the database location.
type Config struct {
	Path        string        `env:"BOLT_PATH" envDefault:"idlesession.db"`
	OpenTimeout time.Duration `env:"BOLT_OPEN_TIMEOUT" envDefault:"1s"`
}

// Store implements activity.Store.
type Store struct {
	db *bolt.DB
}

// Open opens (creating if needed) the database file and its bucket.
func Open(cfg Config) (*Store, error) {
	db, err := bolt.Open(cfg.Path, 0o600, &bolt.Options{Timeout: cfg.OpenTimeout})
	if err != nil {
		return nil, fmt.Errorf("open bolt database %q: %w", cfg.Path, err)
	}

	s, err := New(db)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return s, nil
}

// New wraps an open database, creating the bucket if needed.
func New(db *bolt.DB) (*Store, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketName)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("create bucket: %w", err)
	}
	return &Store{db: db}, nil
}

var _ activity.Store = (*Store)(nil)

func (s *Store) LastActivity(ctx context.Context, sessionID string) (time.Time, error) {
	if sessionID == "" {
		return time.Time{}, activity.ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return time.Time{}, errors.Join(activity.ErrUnavailable, err)
	}

	var last time.Time
	err := s.db.View(func(tx *bolt.Tx) error {
		v := tx.Bucket(bucketName).Get([]byte(sessionID))
		if v == nil {
			return nil
		}
		t, err := decode(v)
		last = t
		return err
	})
	if err != nil {
		return time.Time{}, errors.Join(activity.ErrUnavailable, err)
	}
	return last, nil
}

func (s *Store) Touch(ctx context.Context, sessionID string, t time.Time) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)
		key := []byte(sessionID)
		if v := b.Get(key); v != nil {
			current, err := decode(v)
			if err != nil {
				return err
			}
			if !t.After(current) {
				return nil
			}
		}
		return b.Put(key, encode(t))
	})
	if err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}
	if err := ctx.Err(); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}

	err := s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketName).Delete([]byte(sessionID))
	})
	if err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

// Purge deletes records last touched before cutoff.
func (s *Store) Purge(ctx context.Context, cutoff time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, errors.Join(activity.ErrUnavailable, err)
	}

	var removed int64
	err := s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketName)

		var stale [][]byte
		err := b.ForEach(func(k, v []byte) error {
			if t, err := decode(v); err != nil || t.Before(cutoff) {
				stale = append(stale, append([]byte(nil), k...))
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, k := range stale {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		removed = int64(len(stale))
		return nil
	})
	if err != nil {
		return 0, errors.Join(activity.ErrUnavailable, err)
	}
	return removed, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

func encode(t time.Time) []byte {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.UnixNano()))
	return buf
}

func decode(v []byte) (time.Time, error) {
	if len(v) != 8 {
		return time.Time{}, ErrCorruptRecord
	}
	return time.Unix(0, int64(binary.BigEndian.Uint64(v))).UTC(), nil
}
