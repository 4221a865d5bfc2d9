package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"shelftrack/internal/common"
	"shelftrack/internal/dbx"
	"shelftrack/internal/server/migrations"
	"shelftrack/internal/server/models"
)

// PostgresStore keeps accounts in a relational table and documents as
// JSONB rows keyed by (collection, id).
type PostgresStore struct {
	db      *sql.DB
	indexes Indexes
	now     func() time.Time
}

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db, indexes: DefaultIndexes(), now: time.Now}
}

// InitDatabase opens a connection via the pgx stdlib driver and applies
// the embedded schema migrations.
func InitDatabase(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return nil, fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return db, nil
}

// CreateAccount checks and inserts inside one transaction so two concurrent
// registrations with the same email cannot both succeed.
func (s *PostgresStore) CreateAccount(ctx context.Context, email string, passwordHash string) (*models.Account, error) {
	account := &models.Account{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    s.now().UTC(),
	}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		var exists bool
		err := tx.QueryRowContext(ctx,
			`SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`, email).Scan(&exists)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		if exists {
			return common.ErrEmailTaken
		}

		_, err = tx.ExecContext(ctx,
			`INSERT INTO accounts (id, email, password_hash, created_at) VALUES ($1, $2, $3, $4)`,
			account.ID, account.Email, account.PasswordHash, account.CreatedAt)
		if err != nil {
			return fmt.Errorf("db error: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return account, nil
}

func (s *PostgresStore) AccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	account := &models.Account{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE email = $1`, email).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (s *PostgresStore) AccountByID(ctx context.Context, id string) (*models.Account, error) {
	account := &models.Account{}
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, password_hash, created_at FROM accounts WHERE id = $1`, id).
		Scan(&account.ID, &account.Email, &account.PasswordHash, &account.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	return account, nil
}

func (s *PostgresStore) GetDoc(ctx context.Context, collection string, id string) (*models.Document, error) {
	var raw []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT doc FROM documents WHERE collection = $1 AND id = $2`, collection, id).Scan(&raw)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}
	fields := map[string]any{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return &models.Document{ID: id, Fields: fields}, nil
}

func (s *PostgresStore) AddDoc(ctx context.Context, collection string, fields map[string]any) (string, error) {
	id := uuid.NewString()
	if err := s.writeDoc(ctx, collection, id, resolveTimestamps(fields, s.now())); err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) SetDoc(ctx context.Context, collection string, id string, fields map[string]any, merge bool) error {
	fields = resolveTimestamps(fields, s.now())
	if merge {
		existing, err := s.GetDoc(ctx, collection, id)
		if err != nil && !errors.Is(err, common.ErrNotFound) {
			return err
		}
		if existing != nil {
			fields = mergeFields(existing.Fields, fields)
		}
	}
	return s.writeDoc(ctx, collection, id, fields)
}

func (s *PostgresStore) UpdateDoc(ctx context.Context, collection string, id string, fields map[string]any) error {
	existing, err := s.GetDoc(ctx, collection, id)
	if err != nil {
		return err
	}
	merged := mergeFields(existing.Fields, resolveTimestamps(fields, s.now()))
	return s.writeDoc(ctx, collection, id, merged)
}

func (s *PostgresStore) DeleteDoc(ctx context.Context, collection string, id string) error {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM documents WHERE collection = $1 AND id = $2`, collection, id)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	if n == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (s *PostgresStore) QueryDocs(ctx context.Context, collection string, q Query) ([]*models.Document, error) {
	if q.OrderBy != "" && !s.indexes.Supports(collection, q.OrderBy) {
		return nil, common.ErrIndexRequired
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, doc FROM documents WHERE collection = $1`, collection)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, fmt.Errorf("db error: %w", err)
		}
		fields := map[string]any{}
		if err := json.Unmarshal(raw, &fields); err != nil {
			return nil, fmt.Errorf("failed to decode document: %w", err)
		}
		ok, err := matchesFilters(fields, q.Filters)
		if err != nil {
			return nil, err
		}
		if ok {
			docs = append(docs, &models.Document{ID: id, Fields: fields})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}

	if q.OrderBy != "" {
		sortDocs(docs, q.OrderBy, q.Desc)
	}
	return docs, nil
}

func (s *PostgresStore) writeDoc(ctx context.Context, collection string, id string, fields map[string]any) error {
	raw, err := json.Marshal(fields)
	if err != nil {
		return fmt.Errorf("failed to encode document: %w", err)
	}
	now := s.now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (collection, id, doc, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $4)
		 ON CONFLICT (collection, id) DO UPDATE SET doc = EXCLUDED.doc, updated_at = EXCLUDED.updated_at`,
		collection, id, raw, now)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
