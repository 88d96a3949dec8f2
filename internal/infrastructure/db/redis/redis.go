// Package redis owns the Redis connection backing the submission-event
// dedup store and the readiness probe. Nothing durable lives here: every
// key the system writes expires on its own.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/codehive/classroom/internal/core/domain"
)

const defaultTimeout = 5 * time.Second

// Config captures the settings for the dedup-store connection.
type Config struct {
	Addr    string
	DB      int
	Timeout time.Duration
}

// Connect establishes the client used by the dedup store and verifies
// connectivity with a ping. An unreachable server is reported as
// domain.ErrStoreUnavailable, matching the MongoDB connection path.
func Connect(ctx context.Context, cfg Config) (*redis.Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("%w: redis ping: %w", domain.ErrStoreUnavailable, err)
	}

	return client, nil
}
