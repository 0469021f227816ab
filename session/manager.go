package session

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/remote"
	"github.com/s0up4200/listnode/result"
)

const (
	loginPath  = "/account/login"
	logoutPath = "/account/logout"

	defaultLogoutTimeout = 10 * time.Second
)

// Operation is the work done inside a session
type Operation[T any] func(ctx context.Context, sess *remote.Session) result.Result[T]

// Manager opens and closes sessions against one API client
type Manager struct {
	client        *remote.Client
	logger        zerolog.Logger
	logoutTimeout time.Duration
}

// ManagerOption configures a Manager
type ManagerOption func(*Manager)

// WithLogoutTimeout bounds the logout call
func WithLogoutTimeout(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.logoutTimeout = d
		}
	}
}

// NewManager creates a session manager
func NewManager(client *remote.Client, logger zerolog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		client:        client,
		logger:        logger,
		logoutTimeout: defaultLogoutTimeout,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Client returns the API client sessions are opened on
func (m *Manager) Client() *remote.Client {
	return m.client
}

// Do runs op inside a fresh session. For every successful login exactly one
// logout is attempted, on every exit path of op.
func Do[T any](ctx context.Context, m *Manager, creds Credentials, op Operation[T]) result.Result[T] {
	if !creds.Complete() {
		return result.Err[T](result.Fail(result.MissingCredentials, "Missing credentials: login and password are required."))
	}

	sess, f := m.login(ctx, creds)
	if f != nil {
		return result.Err[T](f)
	}
	defer m.logout(ctx, sess)

	return invoke(ctx, op, &sess)
}

// Run is Do for operations written as plain (value, error) functions.
// Errors that are not yet classified become RequestFailed.
func Run[T any](ctx context.Context, m *Manager, creds Credentials, fn func(ctx context.Context, sess *remote.Session) (T, error)) result.Result[T] {
	return Do(ctx, m, creds, func(ctx context.Context, sess *remote.Session) result.Result[T] {
		v, err := fn(ctx, sess)
		if err != nil {
			return result.Err[T](result.From(err, result.RequestFailed))
		}
		return result.Ok(v)
	})
}

func invoke[T any](ctx context.Context, op Operation[T], sess *remote.Session) (res result.Result[T]) {
	defer func() {
		if r := recover(); r != nil {
			res = result.Err[T](&result.Failure{
				Kind:    result.RequestFailed,
				Message: fmt.Sprintf("Request failed: %v", r),
			})
		}
	}()
	return op(ctx, sess)
}

func (m *Manager) login(ctx context.Context, creds Credentials) (remote.Session, *result.Failure) {
	payload := url.Values{
		"login":    {creds.Login},
		"password": {creds.Password},
	}

	resp, err := m.client.Call(ctx, http.MethodPost, loginPath, payload, nil)
	if err != nil {
		m.logger.Debug().Err(err).Str("login", creds.Login).Msg("Login call failed")
		return remote.Session{}, result.Wrap(result.LoginFailed, err)
	}

	sess := remote.Session{
		ID:   resp.Get("sessionId").String(),
		Name: resp.Get("sessionName").String(),
	}
	if !sess.Valid() {
		f := &result.Failure{
			Kind:    result.InvalidCredentials,
			Message: "Invalid credentials: login did not return a session.",
		}
		if marker, ok := normalize.Marker(resp.Body); ok {
			f.Message = normalize.FromMarker(marker).Message
		}
		return remote.Session{}, f
	}

	m.logger.Debug().Str("login", creds.Login).Str("session", sess.Name).Msg("Session opened")
	return sess, nil
}

func (m *Manager) logout(ctx context.Context, sess remote.Session) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), m.logoutTimeout)
	defer cancel()

	resp, err := m.client.Call(ctx, http.MethodPost, logoutPath, nil, &sess)
	if err == nil {
		if marker, ok := normalize.Marker(resp.Body); ok {
			err = normalize.FromMarker(marker)
		}
	}
	if err != nil {
		f := result.Wrap(result.LogoutFailed, err)
		m.logger.Warn().Err(f).Str("kind", f.Kind.String()).Str("session", sess.Name).Msg("Logout failed")
		return
	}

	m.logger.Debug().Str("session", sess.Name).Msg("Session closed")
}
