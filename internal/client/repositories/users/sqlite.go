package users

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

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

func (r *SQLiteRepository) Upsert(ctx context.Context, u *models.User) error {
	emails := u.Emails
	if emails == nil {
		emails = []string{}
	}
	encoded, err := json.Marshal(emails)
	if err != nil {
		return fmt.Errorf("failed to encode emails: %w", err)
	}

	updated := u.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	var profileID any
	if u.ProfileID != "" {
		profileID = u.ProfileID
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (user_id, username, emails, terms_accepted, profile_id, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id) DO UPDATE SET username = excluded.username,
			emails = excluded.emails,
			terms_accepted = excluded.terms_accepted,
			profile_id = COALESCE(excluded.profile_id, users.profile_id),
			updated_at = excluded.updated_at
	`, u.UserID, u.Username, string(encoded), dbx.TimeValue(u.TermsAccepted), profileID, dbx.TimeValue(updated))
	if err != nil {
		return fmt.Errorf("failed to upsert user: %w", err)
	}
	return nil
}

func (r *SQLiteRepository) FindByID(ctx context.Context, userID string) (*models.User, error) {
	var (
		u         models.User
		emails    string
		terms     sql.NullString
		profileID sql.NullString
		updated   sql.NullString
	)

	err := r.db.QueryRowContext(ctx, `
		SELECT user_id, username, emails, terms_accepted, profile_id, updated_at
		FROM users WHERE user_id = ?
	`, userID).Scan(&u.UserID, &u.Username, &emails, &terms, &profileID, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user[%s]: %w", userID, err)
	}

	if err := json.Unmarshal([]byte(emails), &u.Emails); err != nil {
		return nil, fmt.Errorf("failed to decode emails of user[%s]: %w", userID, err)
	}
	if u.TermsAccepted, err = dbx.ParseTime(terms); err != nil {
		return nil, err
	}
	if u.UpdatedAt, err = dbx.ParseTime(updated); err != nil {
		return nil, err
	}
	u.ProfileID = profileID.String

	u.ViewableUserIDs, err = r.viewableIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *SQLiteRepository) viewableIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT viewable_id FROM user_viewable_ids WHERE user_id = ? ORDER BY position
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query viewable ids: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan viewable id: %w", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate viewable ids: %w", err)
	}
	return ids, nil
}

func (r *SQLiteRepository) SetProfileID(ctx context.Context, userID, profileID string) error {
	res, err := r.db.ExecContext(ctx, `UPDATE users SET profile_id = ? WHERE user_id = ?`, profileID, userID)
	if err != nil {
		return fmt.Errorf("failed to set profile of user[%s]: %w", userID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("user[%s]: %w", userID, common.ErrorNotFound)
	}
	return nil
}

func (r *SQLiteRepository) SetViewableIDs(ctx context.Context, userID string, ids []string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_viewable_ids WHERE user_id = ?`, userID); err != nil {
		return fmt.Errorf("failed to clear viewable ids: %w", err)
	}
	for i, id := range ids {
		_, err := r.db.ExecContext(ctx, `
			INSERT INTO user_viewable_ids (user_id, position, viewable_id) VALUES (?, ?, ?)
		`, userID, i, id)
		if err != nil {
			return fmt.Errorf("failed to insert viewable id: %w", err)
		}
	}
	return nil
}

func (r *SQLiteRepository) DeleteAll(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM user_viewable_ids`); err != nil {
		return fmt.Errorf("failed to delete viewable ids: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM users`); err != nil {
		return fmt.Errorf("failed to delete users: %w", err)
	}
	return nil
}
