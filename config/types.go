package config

import "time"

// Config represents the complete configuration structure
type Config struct {
	API     APIConfig     `mapstructure:"api"`
	Cache   CacheConfig   `mapstructure:"cache"`
	Webhook WebhookConfig `mapstructure:"webhook"`
	Batch   BatchConfig   `mapstructure:"batch"`
	Filters FilterConfig  `mapstructure:"filters"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// APIConfig holds the marketing API connection details
type APIConfig struct {
	URL       string        `mapstructure:"url"`
	Login     string        `mapstructure:"login"`
	Password  string        `mapstructure:"password"`
	APIKey    string        `mapstructure:"api_key"`
	Timeout   time.Duration `mapstructure:"timeout"`
	UserAgent string        `mapstructure:"user_agent"`
}

// CacheConfig selects and tunes the reference data cache
type CacheConfig struct {
	Backend string        `mapstructure:"backend"`
	TTL     time.Duration `mapstructure:"ttl"`
	Redis   RedisConfig   `mapstructure:"redis"`
	SQLite  SQLiteConfig  `mapstructure:"sqlite"`
}

// RedisConfig holds the redis cache backend connection
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// SQLiteConfig holds the sqlite cache backend location
type SQLiteConfig struct {
	Path string `mapstructure:"path"`
}

// WebhookConfig configures the inbound webhook server
type WebhookConfig struct {
	Listen   string `mapstructure:"listen"`
	BasePath string `mapstructure:"base_path"`
}

// BatchConfig bounds the batch nodes
type BatchConfig struct {
	Concurrency int `mapstructure:"concurrency"`
}

// FilterConfig contains named contact search expressions
type FilterConfig map[string]string

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Color  bool   `mapstructure:"color"`
}

// Cache backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendSQLite = "sqlite"
)
