package services

import (
	"context"
	"fmt"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/client"
	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/client/transport"
	"github.com/dmitrijs2005/urchin/internal/common"
)

// DataService fetches and caches account data. An empty userID means the
// signed-in user.
type DataService interface {
	ViewableUserIDs(ctx context.Context) ([]string, error)
	Profile(ctx context.Context, userID string) (*models.Profile, error)
	Notes(ctx context.Context, userID string, from, to time.Time) ([]models.Note, error)
}

type dataService struct {
	client client.Client
}

func NewDataService(c client.Client) DataService {
	return &dataService{client: c}
}

func (s *dataService) resolve(ctx context.Context, userID string) (string, error) {
	if userID != "" {
		return userID, nil
	}
	u, err := s.client.CurrentUser(ctx)
	if err != nil {
		return "", err
	}
	if u == nil {
		return "", common.ErrNoCurrentUser
	}
	return u.UserID, nil
}

func (s *dataService) ViewableUserIDs(ctx context.Context) ([]string, error) {
	return await(ctx, func(cb func([]string, error)) *transport.Handle {
		return s.client.ViewableUserIDs(ctx, cb)
	})
}

func (s *dataService) Profile(ctx context.Context, userID string) (*models.Profile, error) {
	id, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	p, err := await(ctx, func(cb func(*models.Profile, error)) *transport.Handle {
		return s.client.Profile(ctx, id, cb)
	})
	if err != nil {
		return nil, fmt.Errorf("profile of %s: %w", id, err)
	}
	return p, nil
}

func (s *dataService) Notes(ctx context.Context, userID string, from, to time.Time) ([]models.Note, error) {
	id, err := s.resolve(ctx, userID)
	if err != nil {
		return nil, err
	}
	notes, err := await(ctx, func(cb func([]models.Note, error)) *transport.Handle {
		return s.client.Notes(ctx, id, from, to, cb)
	})
	if err != nil {
		return nil, fmt.Errorf("notes of %s: %w", id, err)
	}
	return notes, nil
}
