package ratelimiter_test

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/pkg/ratelimiter"
)

func TestFixedWindow_ConcurrentSafety(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping race condition test in short mode")
	}

	t.Parallel()

	ctx := context.Background()
	config := ratelimiter.Config{
		Limit:  30,
		Window: time.Hour, // Long window so nothing resets during the test
	}

	t.Run("exactly limit calls succeed for one key", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		fw, err := ratelimiter.NewFixedWindow(store, config)
		require.NoError(t, err)

		goroutines := 200
		var wg sync.WaitGroup
		wg.Add(goroutines)

		var allowed atomic.Int64
		var denied atomic.Int64
		start := make(chan struct{})

		for range goroutines {
			go func() {
				defer wg.Done()
				<-start
				result, err := fw.Allow(ctx, "actor:1")
				if !assert.NoError(t, err) {
					return
				}
				if result.Allowed() {
					allowed.Add(1)
				} else {
					denied.Add(1)
				}
			}()
		}

		close(start)
		wg.Wait()

		assert.Equal(t, int64(config.Limit), allowed.Load())
		assert.Equal(t, int64(goroutines-config.Limit), denied.Load())
	})

	t.Run("keys do not share budget", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		fw, err := ratelimiter.NewFixedWindow(store, config)
		require.NoError(t, err)

		keys := []string{"a", "b", "c", "d"}
		perKey := 50

		var wg sync.WaitGroup
		counts := make([]atomic.Int64, len(keys))

		for i, key := range keys {
			for range perKey {
				wg.Add(1)
				go func(idx int, k string) {
					defer wg.Done()
					result, err := fw.Allow(ctx, k)
					if assert.NoError(t, err) && result.Allowed() {
						counts[idx].Add(1)
					}
				}(i, key)
			}
		}

		wg.Wait()

		for i := range keys {
			assert.Equal(t, int64(config.Limit), counts[i].Load(), "key %s", keys[i])
		}
	})

	t.Run("concurrent allow and reset", func(t *testing.T) {
		t.Parallel()

		store := ratelimiter.NewMemoryStore()
		fw, err := ratelimiter.NewFixedWindow(store, config)
		require.NoError(t, err)

		goroutines := 20
		var wg sync.WaitGroup
		wg.Add(goroutines * 2)

		for range goroutines {
			go func() {
				defer wg.Done()
				for range 50 {
					_, _ = fw.Allow(ctx, "reset-test")
					time.Sleep(time.Microsecond)
				}
			}()

			go func() {
				defer wg.Done()
				for range 10 {
					_ = fw.Reset(ctx, "reset-test")
					time.Sleep(5 * time.Microsecond)
				}
			}()
		}

		wg.Wait()
	})
}

func TestMemoryStore_ConcurrentCleanup(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping cleanup test in short mode")
	}

	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := ratelimiter.NewMemoryStore(
		ratelimiter.WithCleanupInterval(5 * time.Millisecond),
	)
	go func() { _ = store.Start(ctx) }()

	goroutines := 20
	var wg sync.WaitGroup
	wg.Add(goroutines)

	for i := range goroutines {
		go func(id int) {
			defer wg.Done()
			key := "cleanup-key-" + string(rune('a'+id))

			for j := range 100 {
				if j%10 == 0 {
					_ = store.Reset(ctx, key)
				} else {
					_, _, err := store.Increment(ctx, key, 2*time.Millisecond)
					assert.NoError(t, err)
				}

				if j%20 == 0 {
					time.Sleep(10 * time.Millisecond)
				}
			}
		}(i)
	}

	wg.Wait()
}
