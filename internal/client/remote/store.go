// Package remote is the client's only boundary with the hosted backend. It
// defines the document-store and auth interfaces the rest of the client
// consumes, and an HTTP implementation that translates backend failures into
// the shared error taxonomy in exactly one place.
package remote

import (
	"context"

	"shelftrack/internal/common"
)

// ServerTimestamp is a sentinel field value. The backend replaces it with
// the current server time (RFC3339Nano, UTC) when the document is written.
const ServerTimestamp = common.TimestampSentinel

// Document is a stored record merged with its id.
type Document struct {
	ID     string
	Fields map[string]any
}

// Filter is a single field condition. The only operator the client needs
// is equality.
type Filter struct {
	Field string
	Op    string
	Value any
}

// Where builds an equality filter.
func Where(field string, value any) Filter {
	return Filter{Field: field, Op: "==", Value: value}
}

// Query selects documents in a collection. OrderBy is best-effort: the
// backend rejects it with an index error when no supporting index exists.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
}

// Collection exposes document operations scoped to one named collection.
type Collection interface {
	// Get returns the document fields, or common.ErrNotFound.
	Get(ctx context.Context, id string) (map[string]any, error)

	// Add stores a new document under a server-assigned id.
	Add(ctx context.Context, fields map[string]any) (string, error)

	// Set writes the document under the given id, creating it if absent.
	// With merge, fields not present in the write are preserved.
	Set(ctx context.Context, id string, fields map[string]any, merge bool) error

	// Update merges fields into an existing document; common.ErrNotFound
	// if it does not exist.
	Update(ctx context.Context, id string, fields map[string]any) error

	// Delete removes the document.
	Delete(ctx context.Context, id string) error

	// Query returns the documents matching q.
	Query(ctx context.Context, q Query) ([]Document, error)
}

// Store vends collection handles.
type Store interface {
	Collection(name string) Collection
}
