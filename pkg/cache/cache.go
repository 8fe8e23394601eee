package cache

import (
	"context"
	"time"
)

// Cache is the storage abstraction for small, expiring values (revoked
// token ids and the like). Implementations must be safe for concurrent
// use.
type Cache interface {
	// Get unmarshals the value at key into dest. The bool reports
	// whether the key existed.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value at key with the given TTL. A zero TTL means no
	// expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping reports whether the backing store is reachable.
	Ping(ctx context.Context) error
}
