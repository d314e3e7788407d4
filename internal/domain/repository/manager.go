package repository

import (
	"context"
	"database/sql"
	"starter_api/internal/platform/database"
)

// Store gives access to the repositories bound to one unit of work.
type Store interface {
	Users() UserRepository
	Contents() ContentRepository
}

// Manager runs units of work against a backing store.
type Manager interface {
	// WithinTx runs fn in a single unit of work. Changes are committed when fn
	// returns nil and discarded otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error
	Ping(ctx context.Context) error
	Close() error
}

type pgStore struct {
	db database.DBTX
}

func (s pgStore) Users() UserRepository       { return NewPgUserRepository(s.db) }
func (s pgStore) Contents() ContentRepository { return NewPgContentRepository(s.db) }

type PostgresManager struct {
	db *sql.DB
}

func NewPostgresManager(db *sql.DB) *PostgresManager {
	return &PostgresManager{db: db}
}

func (m *PostgresManager) WithinTx(ctx context.Context, fn func(ctx context.Context, store Store) error) error {
	return database.WithTx(ctx, m.db, nil, func(ctx context.Context, tx database.DBTX) error {
		return fn(ctx, pgStore{db: tx})
	})
}

func (m *PostgresManager) Ping(ctx context.Context) error {
	return m.db.PingContext(ctx)
}

func (m *PostgresManager) Close() error {
	return m.db.Close()
}
