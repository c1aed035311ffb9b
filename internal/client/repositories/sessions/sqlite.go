package sessions

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/common"
	"github.com/dmitrijs2005/urchin/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func (r *SQLiteRepository) Upsert(ctx context.Context, s *models.Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (key, session_id, user_id, created_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET session_id = excluded.session_id,
			user_id = excluded.user_id,
			created_at = excluded.created_at
	`, s.Key, s.SessionID, nullable(s.UserID), dbx.TimeValue(s.CreatedAt))
	if err != nil {
		return fmt.Errorf("failed to upsert session: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) scan(row *sql.Row) (*models.Session, error) {
	var (
		s         models.Session
		userID    sql.NullString
		createdAt sql.NullString
	)
	err := row.Scan(&s.Key, &s.SessionID, &userID, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.UserID = userID.String
	if s.CreatedAt, err = dbx.ParseTime(createdAt); err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, key string) (*models.Session, error) {
	s, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT key, session_id, user_id, created_at FROM sessions WHERE key = ?`, key))
	if err != nil {
		return nil, fmt.Errorf("failed to get session[%s]: %w", key, err)
	}
	return s, nil
}

func (r *SQLiteRepository) Current(ctx context.Context) (*models.Session, error) {
	s, err := r.scan(r.db.QueryRowContext(ctx,
		`SELECT key, session_id, user_id, created_at FROM sessions ORDER BY created_at DESC LIMIT 1`))
	if err != nil {
		return nil, fmt.Errorf("failed to get current session: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) AttachUser(ctx context.Context, key, sessionID, userID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE sessions SET user_id = ? WHERE key = ? AND session_id = ?`,
		nullable(userID), key, sessionID)
	if err != nil {
		return fmt.Errorf("failed to attach user to session: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("session[%s]: %w", key, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
		return fmt.Errorf("failed to delete sessions: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM sessions`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count sessions: %w", err)
	}
	return n, nil
}
