package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/urchin/internal/client/client"
	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/client/session"
	"github.com/dmitrijs2005/urchin/internal/client/transport"
	"github.com/dmitrijs2005/urchin/internal/common"
)

// AuthService defines authentication operations for the CLI.
//
// Contract:
//   - SignIn: log in against the current server and persist the session.
//   - CurrentUser: the user of the stored session, nil when signed out.
//   - SessionInfo: server, token and decoded token claims for display.
//   - SetServer: switch the endpoint by name.
//   - Close: wait for in-flight requests and release the store.
type AuthService interface {
	SignIn(ctx context.Context, username string, password []byte) (*models.User, error)
	CurrentUser(ctx context.Context) (*models.User, error)
	SessionInfo(ctx context.Context) (*SessionInfo, error)
	SetServer(name string) error
	Close(ctx context.Context) error
}

// SessionInfo describes the current session. Claims is nil when the token
// is not a JWT; Token is empty when signed out.
type SessionInfo struct {
	Server  transport.Endpoint
	BaseURL string
	Token   string
	Claims  *session.Claims
	User    *models.User
}

type authService struct {
	client client.Client
}

func NewAuthService(c client.Client) AuthService {
	return &authService{client: c}
}

// SignIn wipes password once the request has been built.
func (a *authService) SignIn(ctx context.Context, username string, password []byte) (*models.User, error) {
	pw := string(password)
	common.WipeByteArray(password)

	u, err := await(ctx, func(cb func(*models.User, error)) *transport.Handle {
		return a.client.SignIn(ctx, username, pw, cb)
	})
	if err != nil {
		return nil, fmt.Errorf("login error: %w", err)
	}
	return u, nil
}

func (a *authService) CurrentUser(ctx context.Context) (*models.User, error) {
	return a.client.CurrentUser(ctx)
}

func (a *authService) SessionInfo(ctx context.Context) (*SessionInfo, error) {
	info := &SessionInfo{}
	info.Server, info.BaseURL = a.client.Server()

	token, err := a.client.SessionToken(ctx)
	if err != nil {
		return nil, err
	}
	info.Token = token
	if token == "" {
		return info, nil
	}

	// opaque tokens are fine; only JWTs have claims to show
	if c, err := session.ParseClaims(token); err == nil {
		info.Claims = c
	}

	if info.User, err = a.client.CurrentUser(ctx); err != nil {
		return nil, err
	}
	return info, nil
}

func (a *authService) SetServer(name string) error {
	return a.client.SetServer(name)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
