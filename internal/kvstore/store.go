package kvstore

import "context"

// Store is a minimal key-value surface shared by the summary cache and the
// usage tracker. Keys are plain strings; values are opaque byte payloads,
// typically JSON.
type Store interface {
	// Get returns the value for key, or ok=false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	// Set writes key to value, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Remove deletes key. Removing an absent key is not an error.
	Remove(ctx context.Context, key string) error
	// Keys lists every key matching the glob-style pattern.
	Keys(ctx context.Context, pattern string) ([]string, error)
}
