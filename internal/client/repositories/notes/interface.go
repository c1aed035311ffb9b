// Package notes persists notes fetched for an account.
package notes

import (
	"context"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, n *models.Note) error

	// FindByID returns the note, or (nil, nil).
	FindByID(ctx context.Context, id string) (*models.Note, error)

	// ListByUser returns the notes of userID whose timestamp lies in
	// [from, to], oldest first. A zero bound is open.
	ListByUser(ctx context.Context, userID string, from, to time.Time) ([]models.Note, error)

	DeleteAll(ctx context.Context) error
}
