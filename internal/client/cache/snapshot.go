package cache

import (
	"context"
	"encoding/json"
	"fmt"

	"shelftrack/internal/client/models"
)

const (
	snapshotKey = "userData"
	tokenKey    = "authToken"
)

// Snapshots reads and writes the session snapshot and the persisted auth
// token on top of the generic key-value repository. It also satisfies
// remote.TokenStore.
type Snapshots struct {
	repo Repository
}

func NewSnapshots(repo Repository) *Snapshots {
	return &Snapshots{repo: repo}
}

// Save serializes the snapshot under its well-known key.
func (s *Snapshots) Save(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return s.repo.Set(ctx, snapshotKey, string(data))
}

// Load returns the stored snapshot, or nil when none exists.
func (s *Snapshots) Load(ctx context.Context) (*models.Snapshot, error) {
	raw, err := s.repo.Get(ctx, snapshotKey)
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}
	var snap models.Snapshot
	if err := json.Unmarshal([]byte(raw), &snap); err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return &snap, nil
}

// Clear removes the snapshot. Missing keys are not an error.
func (s *Snapshots) Clear(ctx context.Context) error {
	return s.repo.Delete(ctx, snapshotKey)
}

func (s *Snapshots) Token(ctx context.Context) (string, error) {
	return s.repo.Get(ctx, tokenKey)
}

func (s *Snapshots) SaveToken(ctx context.Context, token string) error {
	return s.repo.Set(ctx, tokenKey, token)
}

func (s *Snapshots) DeleteToken(ctx context.Context) error {
	return s.repo.Delete(ctx, tokenKey)
}
