package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/urchin/internal/client/migrations"
	"github.com/dmitrijs2005/urchin/internal/client/repositories/notes"
	"github.com/dmitrijs2005/urchin/internal/client/repositories/profiles"
	"github.com/dmitrijs2005/urchin/internal/client/repositories/sessions"
	"github.com/dmitrijs2005/urchin/internal/client/repositories/users"
	"github.com/dmitrijs2005/urchin/internal/dbx"

	_ "modernc.org/sqlite"
)

// Repositories groups the per-entity repositories bound to one DBTX.
type Repositories struct {
	Sessions sessions.Repository
	Users    users.Repository
	Profiles profiles.Repository
	Notes    notes.Repository
}

// NewRepositories binds the SQLite repositories to db, which may be a
// *sql.DB or a *sql.Tx.
func NewRepositories(db dbx.DBTX) *Repositories {
	return &Repositories{
		Sessions: sessions.NewSQLiteRepository(db),
		Users:    users.NewSQLiteRepository(db),
		Profiles: profiles.NewSQLiteRepository(db),
		Notes:    notes.NewSQLiteRepository(db),
	}
}

type Store struct {
	db *sql.DB
	mu sync.Mutex
}

// Open opens (creating if needed) the SQLite database at dsn and migrates it.
// Use ":memory:" for a throwaway store.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	// one connection: an in-memory database lives per connection, and
	// sqlite allows one writer anyway
	db.SetMaxOpenConns(1)

	if err := migrations.Up(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return New(db), nil
}

// New wraps an already migrated database.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Update runs fn inside one transaction. Writers are serialized; fn returning
// an error rolls back everything it did.
func (s *Store) Update(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return fn(ctx, NewRepositories(tx))
	})
}

// View runs fn against the committed state.
func (s *Store) View(ctx context.Context, fn func(ctx context.Context, r *Repositories) error) error {
	return fn(ctx, NewRepositories(s.db))
}

func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Close() error {
	return s.db.Close()
}
