// Package users persists User records and their viewable-user lists.
package users

import (
	"context"

	"github.com/dmitrijs2005/urchin/internal/client/models"
)

type Repository interface {
	// Upsert writes the account fields of u. The profile link is only
	// overwritten when u.ProfileID is set; the viewable list is untouched.
	Upsert(ctx context.Context, u *models.User) error

	// FindByID returns the user with its viewable list, or (nil, nil).
	FindByID(ctx context.Context, userID string) (*models.User, error)

	// SetProfileID links the user to the profile with the given id.
	SetProfileID(ctx context.Context, userID, profileID string) error

	// SetViewableIDs replaces the viewable list of the user, keeping order.
	SetViewableIDs(ctx context.Context, userID string, ids []string) error

	DeleteAll(ctx context.Context) error
}
