// Package pg connects a pgx pool and applies goose migrations.
//
//	pool, err := pg.Connect(ctx, cfg)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.Migrate(ctx, pool, pgstore.Migrations, cfg, log); err != nil {
//		return err
//	}
//
// Configuration comes from PG_* environment variables; see Config.
// Connect pings with exponential backoff, RetryAttempts times.
package pg
