package driven

import (
	"context"
	"time"
)

// DistributedLock coordinates bulk sweeps across instances so that two
// sweeps of the same kind never run at the same time.
type DistributedLock interface {
	// Acquire attempts to take a named lock for ttl.
	// Returns false without error when another holder has it.
	Acquire(ctx context.Context, name string, ttl time.Duration) (acquired bool, err error)

	// Release releases a named lock. Safe to call when the lock has expired.
	Release(ctx context.Context, name string) error

	// Extend extends the TTL of a lock held by this instance.
	// PostgreSQL advisory locks have no TTL and treat this as a no-op.
	Extend(ctx context.Context, name string, ttl time.Duration) error

	// Ping checks if the lock backend is healthy
	Ping(ctx context.Context) error
}
