// Package profiles persists user metadata profiles.
package profiles

import (
	"context"

	"github.com/dmitrijs2005/urchin/internal/client/models"
)

type Repository interface {
	Upsert(ctx context.Context, p *models.Profile) error
	// FindByID returns the profile of the user, or (nil, nil).
	FindByID(ctx context.Context, userID string) (*models.Profile, error)
	DeleteAll(ctx context.Context) error
}
