package ratelimiter

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dmitrymomot/idlesession/core/clock"
)

// incrementScript increments the counter and arms its expiry on the first hit
// of a window, in one server-side step. The PTTL repair covers keys that lost
// their expiry (e.g. restored from a snapshot without TTL).
var incrementScript = redis.NewScript(`
local count = redis.call('INCR', KEYS[1])
if count == 1 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
local ttl = redis.call('PTTL', KEYS[1])
if ttl < 0 then
	redis.call('PEXPIRE', KEYS[1], ARGV[1])
	ttl = tonumber(ARGV[1])
end
return {count, ttl}
`)

// RedisStore implements Store on Redis. Counters are shared by every process
// using the same Redis, and the Lua script keeps increment-and-expire atomic.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	clock  clock.Clock
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithKeyPrefix sets the namespace for counter keys (default "ratelimit:").
func WithKeyPrefix(prefix string) RedisStoreOption {
	return func(rs *RedisStore) {
		rs.prefix = prefix
	}
}

// WithRedisStoreClock sets the clock that converts the key TTL into a reset time.
func WithRedisStoreClock(c clock.Clock) RedisStoreOption {
	return func(rs *RedisStore) {
		if c != nil {
			rs.clock = c
		}
	}
}

// NewRedisStore creates a store over any go-redis client (single node,
// cluster or ring).
func NewRedisStore(client redis.UniversalClient, opts ...RedisStoreOption) *RedisStore {
	rs := &RedisStore{
		client: client,
		prefix: "ratelimit:",
		clock:  clock.System,
	}
	for _, opt := range opts {
		opt(rs)
	}
	return rs
}

var _ Store = (*RedisStore)(nil)

// Increment counts one call in the current window of key.
func (rs *RedisStore) Increment(ctx context.Context, key string, length time.Duration) (int64, time.Time, error) {
	ms := length.Milliseconds()
	if ms <= 0 {
		return 0, time.Time{}, fmt.Errorf("%w: window must be at least 1ms", ErrInvalidConfig)
	}

	vals, err := incrementScript.Run(ctx, rs.client, []string{rs.prefix + key}, ms).Int64Slice()
	if err != nil {
		return 0, time.Time{}, errors.Join(ErrStoreUnavailable, err)
	}
	if len(vals) != 2 {
		return 0, time.Time{}, fmt.Errorf("%w: unexpected script reply %v", ErrStoreUnavailable, vals)
	}

	return vals[0], rs.clock.Now().Add(time.Duration(vals[1]) * time.Millisecond), nil
}

// Reset drops the counter for key.
func (rs *RedisStore) Reset(ctx context.Context, key string) error {
	if err := rs.client.Del(ctx, rs.prefix+key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}
