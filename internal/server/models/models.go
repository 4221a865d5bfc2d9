// Package models defines the server-side storage types.
package models

import "time"

// Account is a registered user of the backend.
type Account struct {
	ID           string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Document is a schemaless record within a named collection.
type Document struct {
	ID     string
	Fields map[string]any
}
