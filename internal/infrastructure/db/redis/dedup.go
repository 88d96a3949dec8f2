package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const dedupTTL = time.Hour

// DedupChecker filters redelivered submission events. Sandbox runners deliver
// events at least once; an event is identified by who submitted what and when.
// Key format: submit:<username>:<environment>:<unix_timestamp>
type DedupChecker struct {
	client *redis.Client
}

// NewDedupChecker creates a DedupChecker wrapping the given Redis client.
func NewDedupChecker(client *redis.Client) *DedupChecker {
	return &DedupChecker{client: client}
}

// IsDuplicate reports whether this exact submission event was already accepted.
func (d *DedupChecker) IsDuplicate(ctx context.Context, username, environment string, ts time.Time) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(username, environment, ts)).Result()
	if err != nil {
		return false, fmt.Errorf("dedup check: %w", err)
	}
	return n > 0, nil
}

// Mark records that this event has been accepted (expires after dedupTTL).
func (d *DedupChecker) Mark(ctx context.Context, username, environment string, ts time.Time) error {
	return d.client.Set(ctx, d.key(username, environment, ts), "1", dedupTTL).Err()
}

func (d *DedupChecker) key(username, environment string, ts time.Time) string {
	return fmt.Sprintf("submit:%s:%s:%d", username, environment, ts.Unix())
}
