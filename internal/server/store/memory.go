package store

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"shelftrack/internal/common"
	"shelftrack/internal/server/models"
)

// MemoryStore is a map-backed Store used in tests and local development.
type MemoryStore struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	docs     map[string]map[string]map[string]any
	indexes  Indexes
	now      func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		accounts: make(map[string]*models.Account),
		docs:     make(map[string]map[string]map[string]any),
		indexes:  DefaultIndexes(),
		now:      time.Now,
	}
}

func (s *MemoryStore) CreateAccount(_ context.Context, email string, passwordHash string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			return nil, common.ErrEmailTaken
		}
	}
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}
	s.accounts[account.ID] = account
	return account, nil
}

func (s *MemoryStore) AccountByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, a := range s.accounts {
		if a.Email == email {
			found := *a
			return &found, nil
		}
	}
	return nil, common.ErrNotFound
}

func (s *MemoryStore) AccountByID(_ context.Context, id string) (*models.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.accounts[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	found := *a
	return &found, nil
}

func (s *MemoryStore) GetDoc(_ context.Context, collection string, id string) (*models.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fields, ok := s.docs[collection][id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &models.Document{ID: id, Fields: mergeFields(nil, fields)}, nil
}

func (s *MemoryStore) AddDoc(_ context.Context, collection string, fields map[string]any) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.NewString()
	s.put(collection, id, resolveTimestamps(fields, s.now()))
	return id, nil
}

func (s *MemoryStore) SetDoc(_ context.Context, collection string, id string, fields map[string]any, merge bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	fields = resolveTimestamps(fields, s.now())
	if merge {
		if existing, ok := s.docs[collection][id]; ok {
			fields = mergeFields(existing, fields)
		}
	}
	s.put(collection, id, fields)
	return nil
}

func (s *MemoryStore) UpdateDoc(_ context.Context, collection string, id string, fields map[string]any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	existing, ok := s.docs[collection][id]
	if !ok {
		return common.ErrNotFound
	}
	s.put(collection, id, mergeFields(existing, resolveTimestamps(fields, s.now())))
	return nil
}

func (s *MemoryStore) DeleteDoc(_ context.Context, collection string, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.docs[collection][id]; !ok {
		return common.ErrNotFound
	}
	delete(s.docs[collection], id)
	return nil
}

func (s *MemoryStore) QueryDocs(_ context.Context, collection string, q Query) ([]*models.Document, error) {
	if q.OrderBy != "" && !s.indexes.Supports(collection, q.OrderBy) {
		return nil, common.ErrIndexRequired
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var docs []*models.Document
	for id, fields := range s.docs[collection] {
		ok, err := matchesFilters(fields, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, &models.Document{ID: id, Fields: mergeFields(nil, fields)})
		}
	}

	if q.OrderBy != "" {
		sortDocs(docs, q.OrderBy, q.Desc)
	}
	return docs, nil
}

func (s *MemoryStore) put(collection string, id string, fields map[string]any) {
	if s.docs[collection] == nil {
		s.docs[collection] = make(map[string]map[string]any)
	}
	s.docs[collection][id] = fields
}
