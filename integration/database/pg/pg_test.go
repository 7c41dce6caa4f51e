package pg_test

import (
	"context"
	"os"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/idlesession/integration/database/pg"
)

func TestConnect_Validation(t *testing.T) {
	t.Parallel()

	_, err := pg.Connect(context.Background(), pg.Config{})
	assert.ErrorIs(t, err, pg.ErrEmptyConnectionString)

	_, err = pg.Connect(context.Background(), pg.Config{ConnectionString: "postgres://%zz"})
	assert.ErrorIs(t, err, pg.ErrFailedToParseDBConfig)
}

func TestMigrate_MissingDir(t *testing.T) {
	t.Parallel()

	err := pg.Migrate(context.Background(), nil, fstest.MapFS{}, pg.Config{MigrationsPath: "migrations"}, nil)
	assert.ErrorIs(t, err, pg.ErrMigrationsDirNotFound)
}

func TestConnect_Live(t *testing.T) {
	url := os.Getenv("TEST_PG_URL")
	if url == "" {
		t.Skip("TEST_PG_URL not set")
	}

	pool, err := pg.Connect(context.Background(), pg.Config{ConnectionString: url, RetryAttempts: 1})
	require.NoError(t, err)
	defer pool.Close()

	assert.NoError(t, pg.Healthcheck(pool)(context.Background()))
}
