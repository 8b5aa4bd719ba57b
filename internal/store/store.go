// Package store defines the key-value substrate that bookmark lists are persisted in.
package store

import "context"

// KV is a string-keyed, string-valued store.
//
// Get reports a missing key with ok=false and a nil error; absence is never an error.
// Remove on a missing key is a no-op.
type KV interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error

	// Ping reports whether the backend is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// UpdateFunc maps the current value of a key to its replacement.
// ok is false when the key is missing. A non-nil error aborts the update.
type UpdateFunc func(value string, ok bool) (string, error)

// Updater is implemented by substrates that apply a read-modify-write to a
// single key atomically. fn may run more than once when a backend retries.
type Updater interface {
	Update(ctx context.Context, key string, fn UpdateFunc) error
}

// Backend names accepted by configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)
