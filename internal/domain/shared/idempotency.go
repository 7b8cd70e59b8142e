package shared

import (
	"context"
	"time"
)

// IdempotencyStore remembers processed message IDs (webhook deliveries, events)
// so a redelivered message is acknowledged without being applied twice.
type IdempotencyStore interface {
	// MarkProcessed marks an id as processed with a TTL.
	// Returns true if the id was newly marked, false if it was already processed.
	MarkProcessed(ctx context.Context, id string, ttl time.Duration) (bool, error)

	// Forget removes an id, allowing the message to be processed again
	Forget(ctx context.Context, id string) error

	// IsProcessed checks if an id has already been processed
	IsProcessed(ctx context.Context, id string) (bool, error)

	Close() error
}
