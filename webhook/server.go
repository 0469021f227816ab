package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// DefaultBasePath prefixes every webhook path
const DefaultBasePath = "/webhook"

// ErrAlreadyStarted is returned by Start on a running server
var ErrAlreadyStarted = errors.New("webhook server already started")

// Delivery is one inbound webhook call
type Delivery struct {
	Token       string            `json:"token"`
	ContentType string            `json:"contentType,omitempty"`
	Body        any               `json:"body"`
	Query       map[string]string `json:"query,omitempty"`
	Headers     map[string]string `json:"headers,omitempty"`
	ReceivedAt  time.Time         `json:"receivedAt"`
}

// Handler receives deliveries for one registered token
type Handler func(ctx context.Context, d Delivery)

// Server routes POST <base>/:token to registered handlers
type Server struct {
	router   *gin.Engine
	basePath string
	logger   zerolog.Logger

	mu    sync.RWMutex
	hooks map[string]Handler
	http  *http.Server
}

// Option configures a Server
type Option func(*Server)

// WithBasePath sets the path prefix of webhook routes
func WithBasePath(path string) Option {
	return func(s *Server) {
		path = "/" + strings.Trim(path, "/")
		if path != "/" {
			s.basePath = path
		}
	}
}

// NewServer creates a webhook server
func NewServer(logger zerolog.Logger, opts ...Option) *Server {
	s := &Server{
		basePath: DefaultBasePath,
		logger:   logger,
		hooks:    make(map[string]Handler),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(s.requestLogger())

	router.GET("/health", s.handleHealth)
	router.POST(s.basePath+"/:token", s.handleWebhook)
	return router
}

// requestLogger logs every request at debug level
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", c.Writer.Status()).
			Dur("duration", time.Since(start)).
			Msg("Webhook request")
	}
}

// Register adds handler under a fresh random token and returns the token
// and the path to POST to
func (s *Server) Register(handler Handler) (token, path string) {
	token = uuid.NewString()

	s.mu.Lock()
	s.hooks[token] = handler
	s.mu.Unlock()

	return token, s.Path(token)
}

// Unregister removes the handler for token
func (s *Server) Unregister(token string) {
	s.mu.Lock()
	delete(s.hooks, token)
	s.mu.Unlock()
}

// Path returns the route of token
func (s *Server) Path(token string) string {
	return s.basePath + "/" + token
}

// Len returns the number of registered hooks
func (s *Server) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.hooks)
}

// ServeHTTP implements http.Handler
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Start binds addr and serves in the background. Bind errors are returned
// and leave the server stopped.
func (s *Server) Start(addr string) error {
	s.mu.Lock()
	if s.http != nil {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		s.mu.Unlock()
		return fmt.Errorf("listen on %s: %w", addr, err)
	}
	srv := &http.Server{Addr: addr, Handler: s.router, ReadHeaderTimeout: 10 * time.Second}
	s.http = srv
	s.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Str("addr", ln.Addr().String()).Msg("Webhook server stopped")
		}
	}()

	s.logger.Info().Str("addr", ln.Addr().String()).Str("base_path", s.basePath).Msg("Webhook server listening")
	return nil
}

// Shutdown stops a started server
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.http
	s.http = nil
	s.mu.Unlock()

	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "hooks": s.Len()})
}

func (s *Server) handleWebhook(c *gin.Context) {
	token := c.Param("token")

	s.mu.RLock()
	handler, ok := s.hooks[token]
	s.mu.RUnlock()

	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown webhook"})
		return
	}

	body, err := decodeBody(c)
	if err != nil {
		s.logger.Warn().Err(err).Str("token", token).Msg("Rejected webhook body")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	d := Delivery{
		Token:       token,
		ContentType: c.ContentType(),
		Body:        body,
		Query:       flatten(c.Request.URL.Query()),
		Headers:     flatten(c.Request.Header),
		ReceivedAt:  time.Now(),
	}
	handler(c.Request.Context(), d)

	c.JSON(http.StatusOK, gin.H{"received": true})
}

// decodeBody returns JSON bodies as Go values, form bodies as a map and
// anything else as text. A JSON body that does not parse is delivered as text.
func decodeBody(c *gin.Context) (any, error) {
	switch c.ContentType() {
	case gin.MIMEJSON:
		raw, err := c.GetRawData()
		if err != nil {
			return nil, fmt.Errorf("failed to read body: %w", err)
		}
		if len(bytes.TrimSpace(raw)) == 0 {
			return nil, nil
		}
		var v any
		if err := json.Unmarshal(raw, &v); err != nil {
			return string(raw), nil
		}
		return v, nil
	case gin.MIMEPOSTForm, gin.MIMEMultipartPOSTForm:
		if err := c.Request.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil, fmt.Errorf("invalid form body: %w", err)
		}
		form := make(map[string]any, len(c.Request.PostForm))
		for k, v := range flatten(c.Request.PostForm) {
			form[k] = v
		}
		return form, nil
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return string(raw), nil
}

// flatten keeps the first value of every key
func flatten(values map[string][]string) map[string]string {
	if len(values) == 0 {
		return nil
	}
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
