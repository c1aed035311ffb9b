// Package sessions persists the single authenticated Session record.
package sessions

import (
	"context"

	"github.com/dmitrijs2005/urchin/internal/client/models"
)

// Repository stores Session records. Callers keep the singleton invariant by
// calling DeleteAll before Upsert inside one transaction.
type Repository interface {
	// Upsert inserts the session or replaces the one with the same key.
	Upsert(ctx context.Context, s *models.Session) error

	// FindByID returns the session with the given key, or (nil, nil).
	FindByID(ctx context.Context, key string) (*models.Session, error)

	// Current returns the session, or (nil, nil) when unauthenticated.
	Current(ctx context.Context) (*models.Session, error)

	// AttachUser sets the owning user of the session stored under key, only
	// while that session still carries sessionID.
	AttachUser(ctx context.Context, key, sessionID, userID string) error

	// DeleteAll removes every session.
	DeleteAll(ctx context.Context) error

	// Count returns the number of stored sessions.
	Count(ctx context.Context) (int, error)
}
