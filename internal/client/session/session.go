// Package session owns the authenticated Session of the client: who is
// signed in and which token goes on the wire.
//
// Session state lives in the store so that it survives restarts. At most
// one Session exists at any time; Establish replaces whatever was there in
// a single transaction.
package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/client/store"
	"github.com/dmitrijs2005/urchin/internal/common"
	"github.com/dmitrijs2005/urchin/internal/logging"
)

type Manager struct {
	store *store.Store
	log   logging.Logger
	now   func() time.Time
}

func NewManager(s *store.Store, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Nop()
	}
	return &Manager{store: s, log: log, now: time.Now}
}

func (m *Manager) current(ctx context.Context) (*models.Session, error) {
	var s *models.Session
	err := m.store.View(ctx, func(ctx context.Context, r *store.Repositories) error {
		var err error
		s, err = r.Sessions.Current(ctx)
		return err
	})
	return s, err
}

// CurrentSessionToken returns the token of the current session, or "" when
// unauthenticated.
func (m *Manager) CurrentSessionToken(ctx context.Context) (string, error) {
	s, err := m.current(ctx)
	if err != nil || s == nil {
		return "", err
	}
	return s.SessionID, nil
}

// CurrentUser returns the user attached to the current session. It returns
// (nil, nil) when there is no session or the login body was never stored.
func (m *Manager) CurrentUser(ctx context.Context) (*models.User, error) {
	var u *models.User
	err := m.store.View(ctx, func(ctx context.Context, r *store.Repositories) error {
		s, err := r.Sessions.Current(ctx)
		if err != nil || s == nil || s.UserID == "" {
			return err
		}
		u, err = r.Users.FindByID(ctx, s.UserID)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("current user: %w", err)
	}
	return u, nil
}

// Invalidate drops every session.
func (m *Manager) Invalidate(ctx context.Context) error {
	err := m.store.Update(ctx, func(ctx context.Context, r *store.Repositories) error {
		return r.Sessions.DeleteAll(ctx)
	})
	if err != nil {
		return fmt.Errorf("invalidate session: %w", err)
	}
	m.log.Debug(ctx, "session invalidated")
	return nil
}

// Establish replaces any session with a fresh one holding token.
func (m *Manager) Establish(ctx context.Context, token string) (*models.Session, error) {
	s := &models.Session{Key: models.SessionKey, SessionID: token, CreatedAt: m.now()}
	err := m.store.Update(ctx, func(ctx context.Context, r *store.Repositories) error {
		if err := r.Sessions.DeleteAll(ctx); err != nil {
			return err
		}
		return r.Sessions.Upsert(ctx, s)
	})
	if err != nil {
		return nil, fmt.Errorf("establish session: %w", err)
	}
	m.log.Info(ctx, "session established")
	return s, nil
}

// Headers is the request pipeline's header source. The session token is
// attached whenever a session exists; a store failure is logged and yields
// no token.
func (m *Manager) Headers(ctx context.Context) http.Header {
	h := http.Header{}
	token, err := m.CurrentSessionToken(ctx)
	if err != nil {
		m.log.Warn(ctx, "cannot read session token", "error", err)
		return h
	}
	if token != "" {
		h.Set(common.SessionTokenHeaderName, token)
	}
	return h
}

// Claims describes what the token says about itself. Nothing here is
// verified.
type Claims struct {
	Subject   string
	ExpiresAt time.Time
	IssuedAt  time.Time
}

var ErrNotJWT = errors.New("session token is not a jwt")

// ParseClaims decodes token as a JWT without verifying it. Tokens that are
// not JWTs yield ErrNotJWT; that does not make the session invalid.
func ParseClaims(token string) (*Claims, error) {
	rc := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &rc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNotJWT, err)
	}

	c := &Claims{Subject: rc.Subject}
	if rc.ExpiresAt != nil {
		c.ExpiresAt = rc.ExpiresAt.Time
	}
	if rc.IssuedAt != nil {
		c.IssuedAt = rc.IssuedAt.Time
	}
	return c, nil
}

// Expired reports whether the claims carry an expiry before now.
func (c *Claims) Expired(now time.Time) bool {
	return !c.ExpiresAt.IsZero() && now.After(c.ExpiresAt)
}
