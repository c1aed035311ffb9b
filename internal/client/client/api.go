package client

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/urchin/internal/client/codec"
	"github.com/dmitrijs2005/urchin/internal/client/models"
	"github.com/dmitrijs2005/urchin/internal/client/session"
	"github.com/dmitrijs2005/urchin/internal/client/store"
	"github.com/dmitrijs2005/urchin/internal/client/transport"
	"github.com/dmitrijs2005/urchin/internal/common"
	"github.com/dmitrijs2005/urchin/internal/logging"
)

var _ Client = (*APIClient)(nil)

type APIClient struct {
	store    *store.Store
	sessions *session.Manager
	pipeline *transport.Pipeline

	general *codec.Codec
	message *codec.Codec

	log    logging.Logger
	closed atomic.Bool

	// signInMu serializes the session swap of competing sign-ins; signInGen
	// names the latest one.
	signInMu  sync.Mutex
	signInGen uint64
}

// New builds a client over st. The pipeline always takes its headers from
// the session manager; opts configure endpoints, workers and timeouts.
func New(st *store.Store, log logging.Logger, opts ...transport.Option) *APIClient {
	if log == nil {
		log = logging.Nop()
	}
	sessions := session.NewManager(st, log.With("component", "session"))

	opts = append(opts,
		transport.WithLogger(log.With("component", "pipeline")),
		transport.WithHeaders(sessions.Headers),
	)

	return &APIClient{
		store:    st,
		sessions: sessions,
		pipeline: transport.New(opts...),
		general:  codec.New(codec.GeneralDateFormat),
		message:  codec.New(codec.MessageDateFormat),
		log:      log,
	}
}

func basicAuth(username, password string) string {
	return "Basic " + base64.StdEncoding.EncodeToString([]byte(username+":"+password))
}

// fail reports err through cb on a pipeline handle, without sending anything.
func fail[T any](c *APIClient, err error, cb func(T, error)) *transport.Handle {
	return c.pipeline.Fail(err, func(err error) {
		var zero T
		cb(zero, err)
	})
}

func onError[T any](cb func(T, error)) func(error) {
	return func(err error) {
		var zero T
		cb(zero, err)
	}
}

// SignIn drops the current session, then logs in with HTTP Basic
// credentials. The token header of the response becomes the new session
// before the body is decoded; the decoded user is stored and attached to
// that session. If another SignIn starts before the response arrives, this
// one is delivered ErrSuperseded and changes nothing.
func (c *APIClient) SignIn(ctx context.Context, username, password string, cb func(*models.User, error)) *transport.Handle {
	if c.closed.Load() {
		return fail(c, ErrClosed, cb)
	}

	c.signInMu.Lock()
	c.signInGen++
	gen := c.signInGen
	err := c.sessions.Invalidate(ctx)
	c.signInMu.Unlock()
	if err != nil {
		return fail(c, err, cb)
	}

	req := transport.Request{
		Method: http.MethodPost,
		Path:   "/auth/login",
		Header: http.Header{common.AuthorizationHeaderName: []string{basicAuth(username, password)}},
	}

	return c.pipeline.Submit(ctx, req, func(resp transport.Response) {
		u, err := c.completeSignIn(ctx, gen, resp)
		if err != nil {
			cb(nil, err)
			return
		}
		c.log.Info(ctx, "signed in", "user_id", u.UserID)
		cb(u, nil)
	}, onError(cb))
}

func (c *APIClient) completeSignIn(ctx context.Context, gen uint64, resp transport.Response) (*models.User, error) {
	token := resp.Header.Get(common.SessionTokenHeaderName)
	if token == "" {
		c.log.Warn(ctx, "login succeeded without session token")
		return nil, common.ErrNoSessionToken
	}

	c.signInMu.Lock()
	defer c.signInMu.Unlock()

	if gen != c.signInGen {
		c.log.Debug(ctx, "stale login response dropped")
		return nil, ErrSuperseded
	}

	sess, err := c.sessions.Establish(ctx, token)
	if err != nil {
		return nil, err
	}

	u, err := c.general.DecodeUser(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}

	err = c.store.Update(ctx, func(ctx context.Context, r *store.Repositories) error {
		if err := r.Users.Upsert(ctx, u); err != nil {
			return err
		}
		return r.Sessions.AttachUser(ctx, sess.Key, sess.SessionID, u.UserID)
	})
	if err != nil {
		return nil, fmt.Errorf("sign in: store user: %w", err)
	}
	return u, nil
}

// ViewableUserIDs fetches the ids of the accounts the current user may view
// and replaces the user's stored list with them.
func (c *APIClient) ViewableUserIDs(ctx context.Context, cb func([]string, error)) *transport.Handle {
	if c.closed.Load() {
		return fail(c, ErrClosed, cb)
	}
	user, err := c.sessions.CurrentUser(ctx)
	if err != nil {
		return fail(c, err, cb)
	}
	if user == nil {
		return fail(c, common.ErrNoCurrentUser, cb)
	}

	req := transport.Request{Method: http.MethodGet, Path: "/access/groups/" + url.PathEscape(user.UserID)}

	return c.pipeline.Submit(ctx, req, func(resp transport.Response) {
		ids, err := c.general.DecodeKeys(resp.Body)
		if err != nil {
			cb(nil, fmt.Errorf("viewable users: %w", err))
			return
		}

		err = c.store.Update(ctx, func(ctx context.Context, r *store.Repositories) error {
			return r.Users.SetViewableIDs(ctx, user.UserID, ids)
		})
		if err != nil {
			cb(nil, fmt.Errorf("viewable users: store: %w", err))
			return
		}

		c.log.Debug(ctx, "viewable users stored", "user_id", user.UserID, "count", len(ids))
		cb(ids, nil)
	}, onError(cb))
}

// Profile fetches the profile of userID, stores it under that id and links
// it from the user, creating a bare user record when none exists yet.
func (c *APIClient) Profile(ctx context.Context, userID string, cb func(*models.Profile, error)) *transport.Handle {
	if c.closed.Load() {
		return fail(c, ErrClosed, cb)
	}

	req := transport.Request{Method: http.MethodGet, Path: "/metadata/" + url.PathEscape(userID) + "/profile"}

	return c.pipeline.Submit(ctx, req, func(resp transport.Response) {
		p, err := c.general.DecodeProfile(resp.Body)
		if err != nil {
			cb(nil, fmt.Errorf("profile: %w", err))
			return
		}
		p.UserID = userID

		err = c.store.Update(ctx, func(ctx context.Context, r *store.Repositories) error {
			if err := r.Profiles.Upsert(ctx, p); err != nil {
				return err
			}
			u, err := r.Users.FindByID(ctx, userID)
			if err != nil {
				return err
			}
			if u == nil {
				if err := r.Users.Upsert(ctx, &models.User{UserID: userID}); err != nil {
					return err
				}
			}
			return r.Users.SetProfileID(ctx, userID, p.UserID)
		})
		if err != nil {
			cb(nil, fmt.Errorf("profile: store: %w", err))
			return
		}

		cb(p, nil)
	}, onError(cb))
}

// Notes fetches the notes of userID between from and to. Either every note
// of the response is stored or none is.
func (c *APIClient) Notes(ctx context.Context, userID string, from, to time.Time, cb func([]models.Note, error)) *transport.Handle {
	if c.closed.Load() {
		return fail(c, ErrClosed, cb)
	}

	path := fmt.Sprintf("/message/notes/%s?starttime=%s&endtime=%s", url.PathEscape(userID),
		url.QueryEscape(c.general.FormatTime(from)),
		url.QueryEscape(c.general.FormatTime(to)))
	req := transport.Request{Method: http.MethodGet, Path: path}

	return c.pipeline.Submit(ctx, req, func(resp transport.Response) {
		var notes []models.Note

		err := c.store.Update(ctx, func(ctx context.Context, r *store.Repositories) error {
			raw, err := c.general.DecodeMessages(resp.Body)
			if err != nil {
				return err
			}
			notes = make([]models.Note, 0, len(raw))
			for _, m := range raw {
				n, err := c.message.DecodeNote(m)
				if err != nil {
					return err
				}
				n.UserID = userID
				if err := r.Notes.Upsert(ctx, n); err != nil {
					return err
				}
				notes = append(notes, *n)
			}
			return nil
		})
		if err != nil {
			c.log.Warn(ctx, "notes discarded", "user_id", userID, "error", err)
			cb(nil, fmt.Errorf("notes: %w", err))
			return
		}

		c.log.Debug(ctx, "notes stored", "user_id", userID, "count", len(notes))
		cb(notes, nil)
	}, onError(cb))
}

func (c *APIClient) CurrentUser(ctx context.Context) (*models.User, error) {
	return c.sessions.CurrentUser(ctx)
}

func (c *APIClient) SessionToken(ctx context.Context) (string, error) {
	return c.sessions.CurrentSessionToken(ctx)
}

// SetServer switches the base endpoint for later requests.
func (c *APIClient) SetServer(name string) error {
	e, err := transport.ParseEndpoint(name)
	if err != nil {
		return err
	}
	return c.pipeline.SetEndpoint(e)
}

func (c *APIClient) Server() (transport.Endpoint, string) {
	return c.pipeline.Endpoint()
}

// Close waits for in-flight requests and closes the store. Operations
// started afterwards fail with ErrClosed.
func (c *APIClient) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.pipeline.Close()
	return c.store.Close()
}
