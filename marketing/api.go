package marketing

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/refcache"
	"github.com/s0up4200/listnode/remote"
	"github.com/s0up4200/listnode/result"
	"github.com/s0up4200/listnode/session"
)

// API paths
const (
	PathSubscriber = "/subscriber"
	PathTag        = "/tag"
	PathField      = "/field"
	PathList       = "/list"
)

// API runs typed operations against the marketing API, each inside its own
// session. Reference datasets are cached per account login.
type API struct {
	sessions *session.Manager
	cache    *refcache.Cache
	creds    session.Credentials
	ttl      time.Duration
	logger   zerolog.Logger
}

// Option configures an API
type Option func(*API)

// WithCache sets the reference data cache
func WithCache(cache *refcache.Cache) Option {
	return func(a *API) {
		if cache != nil {
			a.cache = cache
		}
	}
}

// WithReferenceTTL overrides the cache ttl for reference datasets
func WithReferenceTTL(ttl time.Duration) Option {
	return func(a *API) {
		a.ttl = ttl
	}
}

// WithLogger sets the logger
func WithLogger(logger zerolog.Logger) Option {
	return func(a *API) {
		a.logger = logger
	}
}

// New creates an API bound to one set of credentials. Without WithCache an
// in-memory cache is used.
func New(sessions *session.Manager, creds session.Credentials, opts ...Option) *API {
	a := &API{
		sessions: sessions,
		creds:    creds,
		logger:   zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.cache == nil {
		a.cache = refcache.New(refcache.NewMemoryStore(), refcache.WithLogger(a.logger))
	}
	return a
}

// WithCredentials returns a copy of the API that logs in as creds
func (a *API) WithCredentials(creds session.Credentials) *API {
	cp := *a
	cp.creds = creds
	return &cp
}

// Credentials returns the credentials sessions are opened with
func (a *API) Credentials() session.Credentials {
	return a.creds
}

// Sessions returns the session manager
func (a *API) Sessions() *session.Manager {
	return a.sessions
}

// Cache returns the reference data cache
func (a *API) Cache() *refcache.Cache {
	return a.cache
}

// call runs one request in a fresh session and decodes the answer
func call[T any](ctx context.Context, a *API, method, path string, payload url.Values, decode normalize.Decoder[T]) result.Result[T] {
	return session.Do(ctx, a.sessions, a.creds, func(ctx context.Context, sess *remote.Session) result.Result[T] {
		resp, err := a.sessions.Client().Call(ctx, method, path, payload, sess)
		return normalize.Response(resp, err, decode)
	})
}

// Contacts lists subscribers matching query
func (a *API) Contacts(ctx context.Context, query url.Values) result.Result[[]Contact] {
	return call(ctx, a, http.MethodGet, PathSubscriber, query, DecodeContacts)
}

// Contact looks up one subscriber by email
func (a *API) Contact(ctx context.Context, email string) result.Result[Contact] {
	res := call(ctx, a, http.MethodGet, PathSubscriber, url.Values{"email": {email}}, DecodeContact)
	if f := res.Failure(); f != nil && errors.Is(f, ErrContactNotFound) {
		return result.Err[Contact](&result.Failure{Kind: result.APIError, Message: normalize.Message("4"), Code: "4", Err: ErrContactNotFound})
	}
	return res
}

// Tags returns the cached tag dataset
func (a *API) Tags(ctx context.Context) result.Result[[]Tag] {
	return reference(ctx, a, refcache.KeyTags, PathTag, DecodeTags)
}

// Fields returns the cached custom field dataset
func (a *API) Fields(ctx context.Context) result.Result[[]Field] {
	return reference(ctx, a, refcache.KeyFields, PathField, DecodeFields)
}

// Lists returns the cached opt-in list dataset
func (a *API) Lists(ctx context.Context) result.Result[[]List] {
	return reference(ctx, a, refcache.KeyLists, PathList, DecodeLists)
}

// datasetKey scopes a reference dataset to the account it was fetched as
func (a *API) datasetKey(key string) string {
	return key + ":" + a.creds.Login
}

func reference[T any](ctx context.Context, a *API, key, path string, decode normalize.Decoder[T]) result.Result[T] {
	v, err := refcache.Get(ctx, a.cache, a.datasetKey(key), a.ttl, func(ctx context.Context) (T, error) {
		return call(ctx, a, http.MethodGet, path, nil, decode).Unwrap()
	})
	if err != nil {
		return result.Err[T](result.From(err, result.RequestFailed))
	}
	return result.Ok(v)
}

// Raw performs one session-authenticated call and returns the decoded body
func (a *API) Raw(ctx context.Context, method, path string, payload url.Values) result.Result[any] {
	return call(ctx, a, method, path, payload, normalize.Value)
}

// RawWithAPIKey performs one call authenticated by the API key instead of a
// session
func (a *API) RawWithAPIKey(ctx context.Context, method, path string, payload url.Values) result.Result[any] {
	resp, err := a.sessions.Client().CallWithAPIKey(ctx, method, path, payload)
	if errors.Is(err, remote.ErrMissingAPIKey) {
		return result.Err[any](&result.Failure{Kind: result.MissingCredentials, Message: "Missing credentials: API key is not configured.", Err: err})
	}
	return normalize.Response(resp, err, normalize.Value)
}

// Check logs in and out again without any other call
func (a *API) Check(ctx context.Context) result.Result[bool] {
	return session.Do(ctx, a.sessions, a.creds, func(context.Context, *remote.Session) result.Result[bool] {
		return result.Ok(true)
	})
}
