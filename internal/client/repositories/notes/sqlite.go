package notes

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/dbx"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const selectColumns = `SELECT id, user_id, author_id, group_id, parent_id, author_name, message_text,
	timestamp, created_time, modified_time, replies, updated_at FROM notes`

func (r *SQLiteRepository) Upsert(ctx context.Context, n *models.Note) error {
	replies := n.Replies
	if replies == nil {
		replies = []string{}
	}
	encoded, err := json.Marshal(replies)
	if err != nil {
		return fmt.Errorf("failed to encode replies: %w", err)
	}

	updated := n.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO notes (id, user_id, author_id, group_id, parent_id, author_name, message_text,
			timestamp, created_time, modified_time, replies, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET user_id = excluded.user_id,
			author_id = excluded.author_id,
			group_id = excluded.group_id,
			parent_id = excluded.parent_id,
			author_name = excluded.author_name,
			message_text = excluded.message_text,
			timestamp = excluded.timestamp,
			created_time = excluded.created_time,
			modified_time = excluded.modified_time,
			replies = excluded.replies,
			updated_at = excluded.updated_at
	`, n.ID, n.UserID, n.AuthorID, n.GroupID, n.ParentID, n.AuthorName, n.MessageText,
		dbx.TimeValue(n.Timestamp), dbx.TimeValue(n.CreatedTime), dbx.TimeValue(n.ModifiedTime),
		string(encoded), dbx.TimeValue(updated))
	if err != nil {
		return fmt.Errorf("failed to upsert note: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanNote(s scanner) (*models.Note, error) {
	var (
		n                          models.Note
		ts, created, modified, upd sql.NullString
		replies                    string
	)
	if err := s.Scan(&n.ID, &n.UserID, &n.AuthorID, &n.GroupID, &n.ParentID, &n.AuthorName,
		&n.MessageText, &ts, &created, &modified, &replies, &upd); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(replies), &n.Replies); err != nil {
		return nil, fmt.Errorf("decode replies: %w", err)
	}

	var err error
	if n.Timestamp, err = dbx.ParseTime(ts); err != nil {
		return nil, err
	}
	if n.CreatedTime, err = dbx.ParseTime(created); err != nil {
		return nil, err
	}
	if n.ModifiedTime, err = dbx.ParseTime(modified); err != nil {
		return nil, err
	}
	if n.UpdatedAt, err = dbx.ParseTime(upd); err != nil {
		return nil, err
	}
	return &n, nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, id string) (*models.Note, error) {
	n, err := scanNote(r.db.QueryRowContext(ctx, selectColumns+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get note[%s]: %w", id, err)
	}
	return n, nil
}

func (r *SQLiteRepository) ListByUser(ctx context.Context, userID string, from, to time.Time) ([]models.Note, error) {
	conds := []string{"user_id = ?"}
	args := []any{userID}
	if !from.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, dbx.TimeValue(from))
	}
	if !to.IsZero() {
		conds = append(conds, "timestamp <= ?")
		args = append(args, dbx.TimeValue(to))
	}

	rows, err := r.db.QueryContext(ctx,
		selectColumns+` WHERE `+strings.Join(conds, " AND ")+` ORDER BY timestamp, id`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query notes: %w", err)
	}
	defer rows.Close()

	var out []models.Note
	for rows.Next() {
		n, err := scanNote(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan note: %w", err)
		}
		out = append(out, *n)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate notes: %w", err)
	}
	return out, nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM notes`); err != nil {
		return fmt.Errorf("failed to delete notes: %w", err)
	}
	return nil
}
