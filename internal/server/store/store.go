// Package store persists accounts and schemaless documents for the backend.
package store

import (
	"context"

	"shelftrack/internal/server/models"
)

// Filter is an equality condition on a top-level document field.
type Filter struct {
	Field string
	Value any
}

// Query selects documents matching every filter, optionally ordered.
type Query struct {
	Filters []Filter
	OrderBy string
	Desc    bool
}

// Store is the persistence surface used by the HTTP handlers.
type Store interface {
	CreateAccount(ctx context.Context, email string, passwordHash string) (*models.Account, error)
	AccountByEmail(ctx context.Context, email string) (*models.Account, error)
	AccountByID(ctx context.Context, id string) (*models.Account, error)

	GetDoc(ctx context.Context, collection string, id string) (*models.Document, error)
	AddDoc(ctx context.Context, collection string, fields map[string]any) (string, error)
	SetDoc(ctx context.Context, collection string, id string, fields map[string]any, merge bool) error
	UpdateDoc(ctx context.Context, collection string, id string, fields map[string]any) error
	DeleteDoc(ctx context.Context, collection string, id string) error
	QueryDocs(ctx context.Context, collection string, q Query) ([]*models.Document, error)
}
