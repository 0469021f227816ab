package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		API:     APIConfig{URL: "https://api.example.com", Timeout: 30 * time.Second},
		Cache:   CacheConfig{Backend: BackendMemory, TTL: time.Minute},
		Batch:   BatchConfig{Concurrency: 4},
		Logging: LoggingConfig{Level: "info", Format: "console"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "valid", modify: func(*Config) {}},
		{name: "missing url", modify: func(c *Config) { c.API.URL = "" }, wantErr: "api.url is required"},
		{name: "url without scheme", modify: func(c *Config) { c.API.URL = "api.example.com" }, wantErr: "api.url must start with"},
		{name: "zero timeout", modify: func(c *Config) { c.API.Timeout = 0 }, wantErr: "api.timeout"},
		{name: "unknown backend", modify: func(c *Config) { c.Cache.Backend = "disk" }, wantErr: "invalid cache.backend: disk"},
		{name: "redis without addr", modify: func(c *Config) { c.Cache.Backend = BackendRedis }, wantErr: "cache.redis.addr"},
		{name: "redis with addr", modify: func(c *Config) {
			c.Cache.Backend = BackendRedis
			c.Cache.Redis.Addr = "localhost:6379"
		}},
		{name: "sqlite without path", modify: func(c *Config) { c.Cache.Backend = BackendSQLite }, wantErr: "cache.sqlite.path"},
		{name: "zero ttl", modify: func(c *Config) { c.Cache.TTL = 0 }, wantErr: "cache.ttl"},
		{name: "zero concurrency", modify: func(c *Config) { c.Batch.Concurrency = 0 }, wantErr: "batch.concurrency"},
		{name: "bad level", modify: func(c *Config) { c.Logging.Level = "loud" }, wantErr: "invalid logging level: loud"},
		{name: "bad format", modify: func(c *Config) { c.Logging.Format = "xml" }, wantErr: "invalid logging format: xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.modify(cfg)

			err := validate(cfg)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	err := os.WriteFile(path, []byte(`
api:
  url: https://api.example.com
  login: me
  password: from-file
  timeout: 5s
cache:
  backend: sqlite
  ttl: 2m
  sqlite:
    path: /tmp/cache.db
filters:
  vip: hasTag("vip")
logging:
  level: debug
`), 0o600)
	require.NoError(t, err)

	t.Setenv("LISTNODE_API_PASSWORD", "from-env")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "https://api.example.com", cfg.API.URL)
	assert.Equal(t, "me", cfg.API.Login)
	assert.Equal(t, "from-env", cfg.API.Password)
	assert.Equal(t, 5*time.Second, cfg.API.Timeout)
	assert.Equal(t, "listnode", cfg.API.UserAgent)
	assert.Equal(t, BackendSQLite, cfg.Cache.Backend)
	assert.Equal(t, 2*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, "/tmp/cache.db", cfg.Cache.SQLite.Path)
	assert.Equal(t, FilterConfig{"vip": `hasTag("vip")`}, cfg.Filters)
	assert.Equal(t, 4, cfg.Batch.Concurrency)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoadEnvOnly(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())
	t.Setenv("LISTNODE_API_URL", "http://localhost:9000")
	t.Setenv("LISTNODE_CACHE_BACKEND", "redis")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:9000", cfg.API.URL)
	assert.Equal(t, BackendRedis, cfg.Cache.Backend)
	assert.Equal(t, "localhost:6379", cfg.Cache.Redis.Addr)
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
