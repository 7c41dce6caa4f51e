// Package activitytest holds the behavioural suite every activity.Store
// implementation must pass.
package activitytest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/core/activity"
)

// base is truncated to the millisecond so backends with coarser time
// resolution round-trip it exactly.
var base = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// Run exercises store against the activity.Store contract. Session IDs are
// random, so a shared backend can be reused across runs.
func Run(t *testing.T, newStore func(t *testing.T) activity.Store) {
	t.Helper()

	t.Run("missing record reads as zero", func(t *testing.T) {
		store := newStore(t)

		last, err := store.LastActivity(context.Background(), uuid.NewString())
		require.NoError(t, err)
		assert.True(t, last.IsZero())
	})

	t.Run("touch then read", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		id := uuid.NewString()

		require.NoError(t, store.Touch(ctx, id, base))

		last, err := store.LastActivity(ctx, id)
		require.NoError(t, err)
		assert.True(t, base.Equal(last), "want %v, got %v", base, last)
	})

	t.Run("touch is forward only", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		id := uuid.NewString()

		require.NoError(t, store.Touch(ctx, id, base.Add(time.Minute)))
		require.NoError(t, store.Touch(ctx, id, base))

		last, err := store.LastActivity(ctx, id)
		require.NoError(t, err)
		assert.True(t, base.Add(time.Minute).Equal(last))

		require.NoError(t, store.Touch(ctx, id, base.Add(2*time.Minute)))
		last, err = store.LastActivity(ctx, id)
		require.NoError(t, err)
		assert.True(t, base.Add(2*time.Minute).Equal(last))
	})

	t.Run("delete", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		id := uuid.NewString()

		require.NoError(t, store.Touch(ctx, id, base))
		require.NoError(t, store.Delete(ctx, id))

		last, err := store.LastActivity(ctx, id)
		require.NoError(t, err)
		assert.True(t, last.IsZero())

		assert.NoError(t, store.Delete(ctx, id), "deleting a missing record")
	})

	t.Run("sessions are isolated", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		a, b := uuid.NewString(), uuid.NewString()

		require.NoError(t, store.Touch(ctx, a, base))
		require.NoError(t, store.Touch(ctx, b, base.Add(time.Hour)))
		require.NoError(t, store.Delete(ctx, b))

		last, err := store.LastActivity(ctx, a)
		require.NoError(t, err)
		assert.True(t, base.Equal(last))
	})

	t.Run("empty session id", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		_, err := store.LastActivity(ctx, "")
		assert.ErrorIs(t, err, activity.ErrEmptySessionID)
		assert.ErrorIs(t, store.Touch(ctx, "", base), activity.ErrEmptySessionID)
		assert.ErrorIs(t, store.Delete(ctx, ""), activity.ErrEmptySessionID)
	})

	t.Run("concurrent touches keep the latest", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		id := uuid.NewString()

		const writers = 32
		var wg sync.WaitGroup
		for i := range writers {
			wg.Add(1)
			go func() {
				defer wg.Done()
				assert.NoError(t, store.Touch(ctx, id, base.Add(time.Duration(i)*time.Second)))
			}()
		}
		wg.Wait()

		last, err := store.LastActivity(ctx, id)
		require.NoError(t, err)
		assert.True(t, base.Add((writers-1)*time.Second).Equal(last), "got %v", last)
	})
}
