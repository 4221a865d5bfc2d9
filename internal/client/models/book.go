// Package models defines the client-side data types: book records, user
// profiles, reading statistics and the cached session snapshot. Documents in
// the remote store are schemaless JSON objects, so each type carries a codec
// to and from the generic map form.
package models

import "strings"

// BookStatus is the reading state of a book record.
type BookStatus string

const (
	StatusToRead    BookStatus = "to-read"
	StatusReading   BookStatus = "reading"
	StatusCompleted BookStatus = "completed"
)

// Book is a single reading-progress record. Timestamps are RFC3339 strings
// assigned by the remote store; StartDate and EndDate are "YYYY-MM-DD" or
// empty. Whether EndDate may be set while Status is not "completed" is left
// to the entry form; the record itself does not constrain it.
type Book struct {
	ID        string
	Title     string
	Author    string
	Status    BookStatus
	StartDate string
	EndDate   string
	Comment   string
	OwnerID   string
	CreatedAt string
	UpdatedAt string
}

// BookInput is the caller-supplied portion of a record for add and edit
// operations. The data-access layer trusts that the form validated the
// required fields (title, author, status).
type BookInput struct {
	Title     string
	Author    string
	Status    BookStatus
	StartDate string
	EndDate   string
	Comment   string
}

// Doc converts the input into document fields. Owner and timestamps are
// stamped by the data-access layer, not here.
func (in BookInput) Doc() map[string]any {
	return map[string]any{
		"title":     in.Title,
		"author":    in.Author,
		"status":    string(in.Status),
		"startDate": in.StartDate,
		"endDate":   in.EndDate,
		"comment":   in.Comment,
	}
}

// BookFromDoc builds a Book from a stored document merged with its id.
func BookFromDoc(id string, doc map[string]any) Book {
	return Book{
		ID:        id,
		Title:     docString(doc, "title"),
		Author:    docString(doc, "author"),
		Status:    BookStatus(docString(doc, "status")),
		StartDate: docString(doc, "startDate"),
		EndDate:   docString(doc, "endDate"),
		Comment:   docString(doc, "comment"),
		OwnerID:   docString(doc, "userId"),
		CreatedAt: docString(doc, "createdAt"),
		UpdatedAt: docString(doc, "updatedAt"),
	}
}

// FilterBooks returns the records whose title or author contains the query,
// case-insensitively. An empty query returns the input unchanged.
func FilterBooks(books []Book, query string) []Book {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return books
	}
	out := make([]Book, 0, len(books))
	for _, b := range books {
		if strings.Contains(strings.ToLower(b.Title), query) ||
			strings.Contains(strings.ToLower(b.Author), query) {
			out = append(out, b)
		}
	}
	return out
}

func docString(doc map[string]any, key string) string {
	if v, ok := doc[key].(string); ok {
		return v
	}
	return ""
}
