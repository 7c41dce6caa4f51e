// Package redis connects a go-redis client for the activity store and the
// keep-alive rate limiter.
//
// Connect validates the URL scheme (redis:// or rediss://), parses it and
// pings the server with exponential backoff before returning the client:
//
//	client, err := redis.Connect(ctx, redis.Config{ConnectionURL: "redis://localhost:6379/0"})
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
// Healthcheck wraps a ping for readiness checks. Connection strings are
// redacted before they appear in error messages.
package redis
