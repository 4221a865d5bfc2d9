// Package services contains the client application services: the book
// data-access layer, the auth flows with their local-cache reconciliation,
// and the session bootstrap.
package services

import (
	"context"
	"errors"
	"fmt"

	"shelftrack/internal/client/models"
	"shelftrack/internal/client/remote"
	"shelftrack/internal/client/session"
	"shelftrack/internal/common"
	"shelftrack/internal/logging"
)

// Collection names in the remote store. Stats and user documents are keyed
// by user id; book ids are assigned by the store.
const (
	collBooks = "books"
	collUsers = "users"
	collStats = "readingStats"
)

// BookService is the data-access layer over the remote document store.
// Every operation takes the caller's session explicitly and re-validates
// ownership before mutating, independent of any backend-side access rule.
type BookService struct {
	store  remote.Store
	logger logging.Logger
}

func NewBookService(store remote.Store, logger logging.Logger) *BookService {
	return &BookService{store: store, logger: logger}
}

// List returns all of the user's book records, newest first when the backend
// can order them. Ordering is a convenience, not a guarantee: when the
// ordered query is rejected for lack of an index, the same filter is retried
// unordered and those results are returned.
func (s *BookService) List(ctx context.Context, sess *session.Session) ([]models.Book, error) {
	if !sess.Valid() {
		return nil, common.ErrUnauthenticated
	}

	col := s.store.Collection(collBooks)
	q := remote.Query{
		Filters: []remote.Filter{remote.Where("userId", sess.UserID)},
		OrderBy: "createdAt",
		Desc:    true,
	}

	docs, err := col.Query(ctx, q)
	if errors.Is(err, common.ErrIndexRequired) {
		s.logger.Warn(ctx, "ordered book query rejected, falling back to unordered", "user_id", sess.UserID)
		docs, err = col.Query(ctx, remote.Query{Filters: q.Filters})
	}
	if err != nil {
		return nil, fmt.Errorf("listing books: %w", err)
	}

	books := make([]models.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, models.BookFromDoc(d.ID, d.Fields))
	}
	return books, nil
}

// Get loads one record by id. Missing records fail with common.ErrNotFound;
// records owned by another user fail with common.ErrForbidden even though
// the fetch itself succeeded.
func (s *BookService) Get(ctx context.Context, sess *session.Session, id string) (models.Book, error) {
	if !sess.Valid() {
		return models.Book{}, common.ErrUnauthenticated
	}

	fields, err := s.store.Collection(collBooks).Get(ctx, id)
	if err != nil {
		return models.Book{}, fmt.Errorf("loading book %s: %w", id, err)
	}

	book := models.BookFromDoc(id, fields)
	if book.OwnerID != sess.UserID {
		return models.Book{}, common.ErrForbidden
	}
	return book, nil
}

// Add persists a new record stamped with the owner and server-assigned
// timestamps, then recomputes the owner's statistics before returning the
// new id. The input is trusted: required fields were validated by the form.
func (s *BookService) Add(ctx context.Context, sess *session.Session, in models.BookInput) (string, error) {
	if !sess.Valid() {
		return "", common.ErrUnauthenticated
	}

	fields := in.Doc()
	fields["userId"] = sess.UserID
	fields["createdAt"] = remote.ServerTimestamp
	fields["updatedAt"] = remote.ServerTimestamp

	id, err := s.store.Collection(collBooks).Add(ctx, fields)
	if err != nil {
		return "", fmt.Errorf("adding book: %w", err)
	}

	if _, err := s.RecomputeStats(ctx, sess.UserID); err != nil {
		return "", fmt.Errorf("updating stats after add: %w", err)
	}
	return id, nil
}

// Update merges the supplied fields into an existing record after
// re-validating ownership, stamps updatedAt, and recomputes statistics.
// Last writer wins; there is no concurrency token.
func (s *BookService) Update(ctx context.Context, sess *session.Session, id string, in models.BookInput) error {
	if !sess.Valid() {
		return common.ErrUnauthenticated
	}

	col := s.store.Collection(collBooks)
	if err := s.checkOwnership(ctx, col, sess, id); err != nil {
		return err
	}

	fields := in.Doc()
	fields["updatedAt"] = remote.ServerTimestamp
	if err := col.Update(ctx, id, fields); err != nil {
		return fmt.Errorf("updating book %s: %w", id, err)
	}

	if _, err := s.RecomputeStats(ctx, sess.UserID); err != nil {
		return fmt.Errorf("updating stats after edit: %w", err)
	}
	return nil
}

// Delete removes a record after re-validating ownership and recomputes
// statistics.
func (s *BookService) Delete(ctx context.Context, sess *session.Session, id string) error {
	if !sess.Valid() {
		return common.ErrUnauthenticated
	}

	col := s.store.Collection(collBooks)
	if err := s.checkOwnership(ctx, col, sess, id); err != nil {
		return err
	}

	if err := col.Delete(ctx, id); err != nil {
		return fmt.Errorf("deleting book %s: %w", id, err)
	}

	if _, err := s.RecomputeStats(ctx, sess.UserID); err != nil {
		return fmt.Errorf("updating stats after delete: %w", err)
	}
	return nil
}

// RecomputeStats derives the user's aggregate from the full record set and
// overwrites the stats document with merge semantics, so fields added
// out-of-band survive. This is the single source of truth for statistics:
// they are never adjusted incrementally.
func (s *BookService) RecomputeStats(ctx context.Context, userID string) (models.ReadingStats, error) {
	docs, err := s.store.Collection(collBooks).Query(ctx, remote.Query{
		Filters: []remote.Filter{remote.Where("userId", userID)},
	})
	if err != nil {
		return models.ReadingStats{}, fmt.Errorf("counting books: %w", err)
	}

	books := make([]models.Book, 0, len(docs))
	for _, d := range docs {
		books = append(books, models.BookFromDoc(d.ID, d.Fields))
	}

	stats := models.CountByStatus(books)
	fields := stats.Doc()
	fields["lastUpdated"] = remote.ServerTimestamp

	if err := s.store.Collection(collStats).Set(ctx, userID, fields, true); err != nil {
		return models.ReadingStats{}, fmt.Errorf("writing stats: %w", err)
	}
	return stats, nil
}

// Stats returns the stored aggregate for the user, computing it on demand
// when no stats document exists yet.
func (s *BookService) Stats(ctx context.Context, sess *session.Session) (models.ReadingStats, error) {
	if !sess.Valid() {
		return models.ReadingStats{}, common.ErrUnauthenticated
	}

	fields, err := s.store.Collection(collStats).Get(ctx, sess.UserID)
	if errors.Is(err, common.ErrNotFound) {
		return s.RecomputeStats(ctx, sess.UserID)
	}
	if err != nil {
		return models.ReadingStats{}, fmt.Errorf("loading stats: %w", err)
	}
	return models.StatsFromDoc(fields), nil
}

func (s *BookService) checkOwnership(ctx context.Context, col remote.Collection, sess *session.Session, id string) error {
	fields, err := col.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("loading book %s: %w", id, err)
	}
	if models.BookFromDoc(id, fields).OwnerID != sess.UserID {
		return common.ErrForbidden
	}
	return nil
}
