package ports

import "context"

// KVStore is the durable key-value storage the session store persists into.
// It must survive process restarts.
type KVStore interface {
	// Get returns domain.ErrEntryNotFound when key is absent.
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Delete is idempotent: removing a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
