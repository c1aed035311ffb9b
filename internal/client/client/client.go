package client

import (
	"context"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/client/transport"
)

type Client interface {
	SignIn(ctx context.Context, username, password string, cb func(*models.User, error)) *transport.Handle
	ViewableUserIDs(ctx context.Context, cb func([]string, error)) *transport.Handle
	Profile(ctx context.Context, userID string, cb func(*models.Profile, error)) *transport.Handle
	Notes(ctx context.Context, userID string, from, to time.Time, cb func([]models.Note, error)) *transport.Handle

	CurrentUser(ctx context.Context) (*models.User, error)
	SessionToken(ctx context.Context) (string, error)
	SetServer(name string) error
	Server() (transport.Endpoint, string)
	Close() error
}
