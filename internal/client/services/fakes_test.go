package services

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"sync"

	"shelftrack/internal/client/remote"
	"shelftrack/internal/common"
)

// fakeStore is an in-memory remote.Store with the same merge, sentinel and
// ordering semantics the backend applies. Error injection is per collection.
type fakeStore struct {
	mu   sync.Mutex
	cols map[string]*fakeCollection
	seq  int
}

func newFakeStore() *fakeStore {
	return &fakeStore{cols: map[string]*fakeCollection{}}
}

func (s *fakeStore) Collection(name string) remote.Collection {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.collection(name)
}

func (s *fakeStore) collection(name string) *fakeCollection {
	if s.cols[name] == nil {
		s.cols[name] = &fakeCollection{store: s, docs: map[string]map[string]any{}}
	}
	return s.cols[name]
}

// seed inserts a document directly, bypassing the service layer.
func (s *fakeStore) seed(col, id string, fields map[string]any) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.collection(col).docs[id] = cloneDoc(fields)
}

// doc returns the current document, or nil.
func (s *fakeStore) doc(col, id string) map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.collection(col).docs[id]
	if !ok {
		return nil
	}
	return cloneDoc(d)
}

// stamp yields monotonically increasing RFC3339 strings so records gain
// distinct, orderable timestamps.
func (s *fakeStore) stamp() string {
	s.seq++
	return fmt.Sprintf("2024-05-01T10:%02d:00Z", s.seq)
}

type fakeCollection struct {
	store *fakeStore
	docs  map[string]map[string]any

	noIndex   bool // ordered queries fail as unindexed
	getErr    error
	addErr    error
	setErr    error
	updateErr error
	deleteErr error
	queryErr  error
}

func (c *fakeCollection) Get(_ context.Context, id string) (map[string]any, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	d, ok := c.docs[id]
	if !ok {
		return nil, common.ErrNotFound
	}
	return cloneDoc(d), nil
}

func (c *fakeCollection) Add(_ context.Context, fields map[string]any) (string, error) {
	if c.addErr != nil {
		return "", c.addErr
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	c.store.seq++
	id := fmt.Sprintf("doc-%d", c.store.seq)
	c.docs[id] = c.resolve(fields)
	return id, nil
}

func (c *fakeCollection) Set(_ context.Context, id string, fields map[string]any, merge bool) error {
	if c.setErr != nil {
		return c.setErr
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	resolved := c.resolve(fields)
	if merge {
		if existing, ok := c.docs[id]; ok {
			merged := cloneDoc(existing)
			for k, v := range resolved {
				merged[k] = v
			}
			resolved = merged
		}
	}
	c.docs[id] = resolved
	return nil
}

func (c *fakeCollection) Update(_ context.Context, id string, fields map[string]any) error {
	if c.updateErr != nil {
		return c.updateErr
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	existing, ok := c.docs[id]
	if !ok {
		return common.ErrNotFound
	}
	merged := cloneDoc(existing)
	for k, v := range c.resolve(fields) {
		merged[k] = v
	}
	c.docs[id] = merged
	return nil
}

func (c *fakeCollection) Delete(_ context.Context, id string) error {
	if c.deleteErr != nil {
		return c.deleteErr
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()
	if _, ok := c.docs[id]; !ok {
		return common.ErrNotFound
	}
	delete(c.docs, id)
	return nil
}

func (c *fakeCollection) Query(_ context.Context, q remote.Query) ([]remote.Document, error) {
	if c.queryErr != nil {
		return nil, c.queryErr
	}
	if q.OrderBy != "" && c.noIndex {
		return nil, common.ErrIndexRequired
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	var docs []remote.Document
	for id, fields := range c.docs {
		if matches(fields, q.Filters) {
			docs = append(docs, remote.Document{ID: id, Fields: cloneDoc(fields)})
		}
	}
	if q.OrderBy != "" {
		sort.SliceStable(docs, func(i, j int) bool {
			a := fmt.Sprint(docs[i].Fields[q.OrderBy])
			b := fmt.Sprint(docs[j].Fields[q.OrderBy])
			if q.Desc {
				return a > b
			}
			return a < b
		})
	}
	return docs, nil
}

func (c *fakeCollection) resolve(fields map[string]any) map[string]any {
	out := make(map[string]any, len(fields))
	for k, v := range fields {
		if s, ok := v.(string); ok && s == remote.ServerTimestamp {
			out[k] = c.store.stamp()
			continue
		}
		out[k] = v
	}
	return out
}

func matches(fields map[string]any, filters []remote.Filter) bool {
	for _, f := range filters {
		if !reflect.DeepEqual(fields[f.Field], f.Value) {
			return false
		}
	}
	return true
}

func cloneDoc(d map[string]any) map[string]any {
	out := make(map[string]any, len(d))
	for k, v := range d {
		out[k] = v
	}
	return out
}

// fakeAuth is a scripted remote.Auth.
type fakeAuth struct {
	signUpErr  error
	signInErr  error
	signOutErr error

	user *remote.UserRef

	restoreEvent remote.SessionEvent
	restoreBlock bool // never deliver, for cancellation tests

	signOutCalls int
}

func (a *fakeAuth) SignUp(_ context.Context, email, _ string) (*remote.UserRef, error) {
	if a.signUpErr != nil {
		return nil, a.signUpErr
	}
	a.user = &remote.UserRef{ID: "user-1", Email: email}
	return a.user, nil
}

func (a *fakeAuth) SignIn(_ context.Context, email, _ string) (*remote.UserRef, error) {
	if a.signInErr != nil {
		return nil, a.signInErr
	}
	a.user = &remote.UserRef{ID: "user-1", Email: email}
	return a.user, nil
}

func (a *fakeAuth) SignOut(context.Context) error {
	a.signOutCalls++
	a.user = nil
	return a.signOutErr
}

func (a *fakeAuth) CurrentUser() *remote.UserRef {
	return a.user
}

func (a *fakeAuth) RestoreSession(context.Context) <-chan remote.SessionEvent {
	ch := make(chan remote.SessionEvent, 1)
	if a.restoreBlock {
		return ch
	}
	ch <- a.restoreEvent
	close(ch)
	return ch
}

// memRepo is an in-memory cache.Repository.
type memRepo struct {
	mu     sync.Mutex
	values map[string]string

	getErr error
	setErr error
}

func newMemRepo() *memRepo {
	return &memRepo{values: map[string]string{}}
}

func (r *memRepo) Get(_ context.Context, key string) (string, error) {
	if r.getErr != nil {
		return "", r.getErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.values[key], nil
}

func (r *memRepo) Set(_ context.Context, key, value string) error {
	if r.setErr != nil {
		return r.setErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[key] = value
	return nil
}

func (r *memRepo) Delete(_ context.Context, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, key)
	return nil
}

func (r *memRepo) Clear(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values = map[string]string{}
	return nil
}
