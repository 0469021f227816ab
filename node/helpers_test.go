package node

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/s0up4200/listnode/marketing"
	"github.com/s0up4200/listnode/refcache"
	"github.com/s0up4200/listnode/remote"
	"github.com/s0up4200/listnode/session"
	"github.com/s0up4200/listnode/webhook"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type request struct {
	Call  string
	Form  url.Values
	Login string
}

// fakeAPI answers from a route table and records every request
type fakeAPI struct {
	mu       sync.Mutex
	requests []request
	routes   map[string]string
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	req := request{Call: r.Method + " " + r.URL.Path, Form: r.Form, Login: r.PostForm.Get("login")}

	f.mu.Lock()
	f.requests = append(f.requests, req)
	body, ok := f.routes[req.Call]
	f.mu.Unlock()

	switch r.URL.Path {
	case "/account/login":
		w.Write([]byte(`{"sessionId": "s-1", "sessionName": "APISESSID"}`))
		return
	case "/account/logout":
		w.Write([]byte(`{}`))
		return
	}
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"error": 26}`))
		return
	}
	w.Write([]byte(body))
}

func (f *fakeAPI) Requests() []request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]request(nil), f.requests...)
}

func (f *fakeAPI) Count(call string) int {
	n := 0
	for _, r := range f.Requests() {
		if r.Call == call {
			n++
		}
	}
	return n
}

// Last returns the most recent request for call
func (f *fakeAPI) Last(call string) (request, bool) {
	reqs := f.Requests()
	for i := len(reqs) - 1; i >= 0; i-- {
		if reqs[i].Call == call {
			return reqs[i], true
		}
	}
	return request{}, false
}

type testEnv struct {
	api      *fakeAPI
	registry *Registry
	hooks    *webhook.Server
}

func newTestEnv(t *testing.T, routes map[string]string) *testEnv {
	t.Helper()

	fake := &fakeAPI{routes: routes}
	server := httptest.NewServer(fake)
	t.Cleanup(server.Close)

	client, err := remote.NewClient(server.URL, zerolog.Nop(), remote.WithAPIKey("key-1"))
	require.NoError(t, err)

	api := marketing.New(
		session.NewManager(client, zerolog.Nop()),
		session.Credentials{Login: "me", Password: "pw"},
		marketing.WithCache(refcache.New(refcache.NewMemoryStore(), refcache.WithTTL(time.Minute))),
	)
	hooks := webhook.NewServer(zerolog.Nop())

	reg, err := DefaultRegistry(Deps{API: api, Webhooks: hooks, Concurrency: 2, Logger: zerolog.Nop()})
	require.NoError(t, err)

	return &testEnv{api: fake, registry: reg, hooks: hooks}
}

type statusLog struct {
	mu       sync.Mutex
	statuses []Status
}

func (s *statusLog) record(st Status) {
	s.mu.Lock()
	s.statuses = append(s.statuses, st)
	s.mu.Unlock()
}

func (s *statusLog) All() []Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Status(nil), s.statuses...)
}

// runNode creates a node, feeds it one message and returns every message it sent
func (e *testEnv) runNode(t *testing.T, nodeType string, cfg Config, payload map[string]any) ([]Message, *statusLog) {
	t.Helper()

	log := &statusLog{}
	n, err := e.registry.Create(nodeType, cfg, log.record)
	require.NoError(t, err)

	var sent []Message
	n.Input(t.Context(), NewMessage(payload), func(m Message) {
		sent = append(sent, m)
	})
	return sent, log
}
