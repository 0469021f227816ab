package session

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/listnode/normalize"
	"github.com/s0up4200/listnode/remote"
	"github.com/s0up4200/listnode/result"
)

// fakeAPI records every call it receives
type fakeAPI struct {
	mu    sync.Mutex
	calls []string

	loginStatus  int
	loginBody    string
	logoutStatus int
	primary      http.HandlerFunc
	cookies      []string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		loginStatus:  http.StatusOK,
		loginBody:    `{"sessionId": "s-1", "sessionName": "APISESSID"}`,
		logoutStatus: http.StatusOK,
		primary: func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`{"id": 1}`))
		},
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.calls = append(f.calls, r.Method+" "+r.URL.Path)
	if c, err := r.Cookie("APISESSID"); err == nil {
		f.cookies = append(f.cookies, c.Value)
	}
	f.mu.Unlock()

	switch r.URL.Path {
	case loginPath:
		w.WriteHeader(f.loginStatus)
		w.Write([]byte(f.loginBody))
	case logoutPath:
		w.WriteHeader(f.logoutStatus)
		w.Write([]byte(`{}`))
	default:
		f.primary(w, r)
	}
}

func (f *fakeAPI) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func (f *fakeAPI) Cookies() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.cookies...)
}

func (f *fakeAPI) count(call string) int {
	n := 0
	for _, c := range f.Calls() {
		if c == call {
			n++
		}
	}
	return n
}

func setup(t *testing.T, api *fakeAPI) (*Manager, *remote.Client) {
	t.Helper()
	server := httptest.NewServer(api)
	t.Cleanup(server.Close)

	client, err := remote.NewClient(server.URL, zerolog.Nop())
	require.NoError(t, err)
	return NewManager(client, zerolog.Nop()), client
}

var creds = Credentials{Login: "user", Password: "pass"}

func getSubscriber(client *remote.Client) Operation[any] {
	return func(ctx context.Context, s *remote.Session) result.Result[any] {
		resp, err := client.Call(ctx, http.MethodGet, "/subscriber/1", nil, s)
		return normalize.Response(resp, err, normalize.Value)
	}
}

func TestDo_MissingCredentials(t *testing.T) {
	tests := []struct {
		name  string
		creds Credentials
	}{
		{"empty", Credentials{}},
		{"no password", Credentials{Login: "user"}},
		{"no login", Credentials{Password: "pass"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			mgr, client := setup(t, api)

			res := Do(context.Background(), mgr, tt.creds, getSubscriber(client))
			require.False(t, res.IsOk())
			assert.Equal(t, result.MissingCredentials, res.Failure().Kind)
			assert.Empty(t, api.Calls())
		})
	}
}

func TestDo_Success(t *testing.T) {
	api := newFakeAPI()
	mgr, client := setup(t, api)

	res := Do(context.Background(), mgr, creds, getSubscriber(client))
	require.True(t, res.IsOk())
	assert.Equal(t, map[string]any{"id": float64(1)}, res.Value())

	assert.Equal(t, []string{
		"POST /account/login",
		"GET /subscriber/1",
		"POST /account/logout",
	}, api.Calls())
	assert.Equal(t, []string{"s-1", "s-1"}, api.Cookies())
}

func TestDo_ValidationErrorStillLogsOut(t *testing.T) {
	api := newFakeAPI()
	api.primary = func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error": {"field": "email", "name": "x@x", "reason": "is invalid"}}`))
	}
	mgr, client := setup(t, api)

	res := Do(context.Background(), mgr, creds, getSubscriber(client))
	require.False(t, res.IsOk())
	assert.Equal(t, result.ValidationFailed, res.Failure().Kind)
	assert.Equal(t, `Validation error: email "x@x" is invalid`, res.Failure().Message)
	assert.Equal(t, 1, api.count("POST /account/logout"))
}

func TestDo_TransportErrorStillLogsOut(t *testing.T) {
	api := newFakeAPI()
	api.primary = func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}
	mgr, client := setup(t, api)

	res := Do(context.Background(), mgr, creds, getSubscriber(client))
	require.False(t, res.IsOk())
	assert.Equal(t, result.TransportError, res.Failure().Kind)
	assert.Equal(t, 1, api.count("POST /account/logout"))
}

func TestDo_PanicStillLogsOut(t *testing.T) {
	api := newFakeAPI()
	mgr, _ := setup(t, api)

	res := Do(context.Background(), mgr, creds, func(ctx context.Context, s *remote.Session) result.Result[int] {
		panic("nil map write")
	})
	require.False(t, res.IsOk())
	assert.Equal(t, result.RequestFailed, res.Failure().Kind)
	assert.Contains(t, res.Failure().Message, "nil map write")
	assert.Equal(t, 1, api.count("POST /account/logout"))
}

func TestDo_LoginTransportFailure(t *testing.T) {
	api := newFakeAPI()
	api.loginStatus = http.StatusBadGateway
	api.loginBody = `upstream down`
	mgr, client := setup(t, api)

	res := Do(context.Background(), mgr, creds, getSubscriber(client))
	require.False(t, res.IsOk())
	assert.Equal(t, result.LoginFailed, res.Failure().Kind)
	assert.Contains(t, res.Failure().Message, "upstream down")
	assert.Equal(t, []string{"POST /account/login"}, api.Calls())
}

func TestDo_LoginWithoutSession(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		message string
	}{
		{
			name:    "missing name",
			body:    `{"sessionId": "s-1"}`,
			message: "Invalid credentials: login did not return a session.",
		},
		{
			name:    "error code",
			body:    `{"error": 23}`,
			message: "Invalid login or password.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := newFakeAPI()
			api.loginBody = tt.body
			mgr, client := setup(t, api)

			res := Do(context.Background(), mgr, creds, getSubscriber(client))
			require.False(t, res.IsOk())
			assert.Equal(t, result.InvalidCredentials, res.Failure().Kind)
			assert.Equal(t, tt.message, res.Failure().Message)
			assert.Equal(t, []string{"POST /account/login"}, api.Calls())
		})
	}
}

func TestDo_LogoutFailureDoesNotMaskResult(t *testing.T) {
	api := newFakeAPI()
	api.logoutStatus = http.StatusInternalServerError
	mgr, client := setup(t, api)

	res := Do(context.Background(), mgr, creds, getSubscriber(client))
	require.True(t, res.IsOk())
	assert.Equal(t, 1, api.count("POST /account/logout"))
}

func TestDo_LogoutSurvivesCancellation(t *testing.T) {
	api := newFakeAPI()
	mgr, _ := setup(t, api)

	ctx, cancel := context.WithCancel(context.Background())
	res := Do(ctx, mgr, creds, func(ctx context.Context, s *remote.Session) result.Result[string] {
		cancel()
		return result.Ok("done")
	})
	require.True(t, res.IsOk())
	assert.Equal(t, 1, api.count("POST /account/logout"))
}

func TestRun(t *testing.T) {
	api := newFakeAPI()
	mgr, _ := setup(t, api)

	res := Run(context.Background(), mgr, creds, func(ctx context.Context, s *remote.Session) (int, error) {
		return 0, errors.New("mapping failed")
	})
	require.False(t, res.IsOk())
	assert.Equal(t, result.RequestFailed, res.Failure().Kind)
	assert.Equal(t, "mapping failed", res.Failure().Message)

	res = Run(context.Background(), mgr, creds, func(ctx context.Context, s *remote.Session) (int, error) {
		return 5, nil
	})
	require.True(t, res.IsOk())
	assert.Equal(t, 5, res.Value())
	assert.Equal(t, 2, api.count("POST /account/logout"))
}

func TestCredentials(t *testing.T) {
	assert.True(t, creds.Complete())
	assert.Equal(t, "user:***", creds.String())
}
