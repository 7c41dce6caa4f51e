// Package redisstore implements activity.Store on Redis so every instance of
// a service shares one view of session activity.
//
// Times are stored as Unix microseconds. Touch runs a Lua script that only
// writes when the new time is later than the stored one, so concurrent
// writers from any number of processes can never move a record backward.
package redisstore

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/idlesession/core/activity"
)

var touchScript = redis.NewScript(`
local current = redis.call('GET', KEYS[1])
local t = tonumber(ARGV[1])
local ttl = tonumber(ARGV[2])
if current and tonumber(current) >= t then
	return 0
end
if ttl > 0 then
	redis.call('SET', KEYS[1], ARGV[1], 'PX', ttl)
else
	redis.call('SET', KEYS[1], ARGV[1])
end
return 1
`)

// Store implements activity.Store over any go-redis client.
type Store struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// Option configures a Store.
type Option func(*Store)

// WithKeyPrefix sets the key namespace (default "idle:activity:").
func WithKeyPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = prefix
	}
}

// WithTTL expires records untouched for longer than ttl. It should exceed
// timeout+grace, otherwise an idle session re-seeds instead of expiring.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) {
		s.ttl = ttl
	}
}

// New creates a Store.
func New(client redis.UniversalClient, opts ...Option) *Store {
	s := &Store{
		client: client,
		prefix: "idle:activity:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ activity.Store = (*Store)(nil)

func (s *Store) LastActivity(ctx context.Context, sessionID string) (time.Time, error) {
	if sessionID == "" {
		return time.Time{}, activity.ErrEmptySessionID
	}

	raw, err := s.client.Get(ctx, s.prefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, errors.Join(activity.ErrUnavailable, err)
	}

	usec, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return time.Time{}, errors.Join(activity.ErrUnavailable, err)
	}
	return time.UnixMicro(usec).UTC(), nil
}

func (s *Store) Touch(ctx context.Context, sessionID string, t time.Time) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}

	err := touchScript.Run(ctx, s.client,
		[]string{s.prefix + sessionID},
		t.UnixMicro(), s.ttl.Milliseconds(),
	).Err()
	if err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return activity.ErrEmptySessionID
	}
	if err := s.client.Del(ctx, s.prefix+sessionID).Err(); err != nil {
		return errors.Join(activity.ErrUnavailable, err)
	}
	return nil
}
