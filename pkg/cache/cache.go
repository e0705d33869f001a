package cache

import (
	"context"
	"errors"
	"fmt"
	"time"
)

type Provider string

const (
	Redis  Provider = "redis"
	Memory Provider = "memory"
)

var (
	ErrKeyNotFound   = errors.New("key not found")
	ErrInvalidTTL    = errors.New("invalid TTL")
	ErrSerialization = errors.New("serialization failed")
)

type Error struct {
	Operation string
	Key       string
	Err       error
}

func (e *Error) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("cache %s operation failed for key '%s': %v", e.Operation, e.Key, e.Err)
	}
	return fmt.Sprintf("cache %s operation failed: %v", e.Operation, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

type Logger interface {
	Info(msg string, fields ...interface{})
	Error(msg string, fields ...interface{})
	Debug(msg string, fields ...interface{})
	Infof(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Debugf(format string, args ...interface{})
}

// Client is the key/value store behind sessions, the roles cache and rate-limit counters.
type Client interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)

	// Increment adds delta to a counter. ttl starts when the counter is created and is
	// not extended by later increments.
	Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error)

	GetTTL(ctx context.Context, key string) (time.Duration, error)

	Close() error
	Ping(ctx context.Context) error
}

type Config struct {
	Host     string `json:"host" yaml:"host"`
	Port     int    `json:"port" yaml:"port"`
	Password string `json:"password" yaml:"password"`
	DB       int    `json:"db" yaml:"db"`

	PoolSize     int           `json:"pool_size" yaml:"pool_size"`
	MinIdleConns int           `json:"min_idle_conns" yaml:"min_idle_conns"`
	PoolTimeout  time.Duration `json:"pool_timeout" yaml:"pool_timeout"`

	DialTimeout  time.Duration `json:"dial_timeout" yaml:"dial_timeout"`
	ReadTimeout  time.Duration `json:"read_timeout" yaml:"read_timeout"`
	WriteTimeout time.Duration `json:"write_timeout" yaml:"write_timeout"`

	// Used when a write passes a zero TTL
	DefaultTTL time.Duration `json:"default_ttl" yaml:"default_ttl"`

	// Memory cache only
	MaxSize         int           `json:"max_size" yaml:"max_size"`
	CleanupInterval time.Duration `json:"cleanup_interval" yaml:"cleanup_interval"`
}

type Factory struct {
	logger Logger
}

// NewCacheFactory creates a new cache factory
func NewCacheFactory(logger Logger) *Factory {
	return &Factory{
		logger: logger,
	}
}

// CreateCache creates a cache instance based on the configuration
func (f *Factory) CreateCache(cacheType Provider, config *Config) (Client, error) {
	switch cacheType {
	case Redis:
		return f.createRedisCache(config)
	case Memory:
		return f.createMemoryCache(config)
	default:
		return nil, fmt.Errorf("unsupported cache type: %s", cacheType)
	}
}

func (f *Factory) createRedisCache(config *Config) (Client, error) {
	setRedisDefaults(config)

	cache, err := NewRedisCache(config, f.logger)
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis cache: %w", err)
	}

	f.logger.Info("Redis cache created successfully",
		"host", config.Host,
		"port", config.Port,
		"db", config.DB,
		"pool_size", config.PoolSize,
		"default_ttl", config.DefaultTTL.String(),
	)
	return cache, nil
}

func (f *Factory) createMemoryCache(config *Config) (Client, error) {
	setMemoryDefaults(config)

	cache := NewMemoryCache(config, f.logger)

	f.logger.Info("Memory cache created successfully",
		"max_size", config.MaxSize,
		"default_ttl", config.DefaultTTL.String(),
	)
	return cache, nil
}

func setRedisDefaults(config *Config) {
	if config.Host == "" {
		config.Host = "localhost"
	}
	if config.Port == 0 {
		config.Port = 6379
	}
	if config.PoolSize == 0 {
		config.PoolSize = 10
	}
	if config.MinIdleConns == 0 {
		config.MinIdleConns = 2
	}
	if config.PoolTimeout == 0 {
		config.PoolTimeout = 4 * time.Second
	}
	if config.DialTimeout == 0 {
		config.DialTimeout = 5 * time.Second
	}
	if config.ReadTimeout == 0 {
		config.ReadTimeout = 3 * time.Second
	}
	if config.WriteTimeout == 0 {
		config.WriteTimeout = 3 * time.Second
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = time.Hour
	}
}

func setMemoryDefaults(config *Config) {
	if config.MaxSize == 0 {
		config.MaxSize = 1000
	}
	if config.DefaultTTL == 0 {
		config.DefaultTTL = 5 * time.Minute
	}
	if config.CleanupInterval == 0 {
		config.CleanupInterval = time.Minute
	}
}
