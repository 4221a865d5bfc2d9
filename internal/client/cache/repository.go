// Package cache is the device-resident key-value store. It holds the session
// snapshot and the persisted auth token, and is the fallback source of
// profile data when the backend is unreachable.
package cache

import "context"

// Repository is a string-keyed, string-valued store. Structured values are
// serialized by the callers.
type Repository interface {
	// Get returns the value for key, or "" when the key is absent.
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}
