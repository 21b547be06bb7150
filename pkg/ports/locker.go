package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a distributed lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for distributed concurrency control.
// It lets session.Manager serialize interaction cycles of one candidate across server replicas.
type DistributedLocker interface {
	// Lock attempts to acquire a distributed lock for the given key (a session ID).
	// It blocks until the lock is held or ctx is done.
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
