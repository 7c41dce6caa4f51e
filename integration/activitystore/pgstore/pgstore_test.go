package pgstore_test

import (
	"context"
	"io/fs"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/core/activity"
	"github.com/dmitrymomot/idlesession/core/activity/activitytest"
	"github.com/dmitrymomot/idlesession/integration/activitystore/pgstore"
	"github.com/dmitrymomot/idlesession/integration/database/pg"
)

func newTestStore(t *testing.T) *pgstore.Store {
	t.Helper()

	url := os.Getenv("TEST_PG_URL")
	if url == "" {
		t.Skip("TEST_PG_URL not set")
	}

	ctx := context.Background()
	cfg := pg.Config{ConnectionString: url, RetryAttempts: 1, MigrationsPath: "migrations"}
	pool, err := pg.Connect(ctx, cfg)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	require.NoError(t, pg.Migrate(ctx, pool, pgstore.Migrations, cfg, nil))
	return pgstore.New(pool)
}

func TestMigrationsEmbedded(t *testing.T) {
	t.Parallel()

	files, err := fs.Glob(pgstore.Migrations, "migrations/*.sql")
	require.NoError(t, err)
	assert.NotEmpty(t, files)
}

func TestStore_Contract(t *testing.T) {
	store := newTestStore(t)

	activitytest.Run(t, func(t *testing.T) activity.Store {
		return store
	})
}

func TestStore_Purge(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	old, fresh := uuid.NewString(), uuid.NewString()
	now := time.Now().UTC()
	require.NoError(t, store.Touch(ctx, old, now.Add(-48*time.Hour)))
	require.NoError(t, store.Touch(ctx, fresh, now))

	removed, err := store.Purge(ctx, now.Add(-24*time.Hour))
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))

	last, err := store.LastActivity(ctx, old)
	require.NoError(t, err)
	assert.True(t, last.IsZero())

	last, err = store.LastActivity(ctx, fresh)
	require.NoError(t, err)
	assert.False(t, last.IsZero())
}
