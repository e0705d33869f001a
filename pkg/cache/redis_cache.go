package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisCache implements Client interface using Redis
type RedisCache struct {
	client *redis.Client
	config *Config
	logger Logger
}

// NewRedisCache creates a new Redis cache instance and checks the connection.
func NewRedisCache(config *Config, logger Logger) (*RedisCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password:     config.Password,
		DB:           config.DB,
		PoolSize:     config.PoolSize,
		MinIdleConns: config.MinIdleConns,
		PoolTimeout:  config.PoolTimeout,
		DialTimeout:  config.DialTimeout,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	})

	cache := &RedisCache{
		client: rdb,
		config: config,
		logger: logger,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := cache.Ping(ctx); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	return cache, nil
}

func (r *RedisCache) ttl(ttl time.Duration) time.Duration {
	if ttl == 0 {
		return r.config.DefaultTTL
	}
	return ttl
}

func (r *RedisCache) Get(ctx context.Context, key string) ([]byte, error) {
	result, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrKeyNotFound
		}
		return nil, &Error{Operation: "get", Key: key, Err: err}
	}
	return result, nil
}

func (r *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		return &Error{Operation: "set", Key: key, Err: ErrInvalidTTL}
	}
	if err := r.client.Set(ctx, key, value, r.ttl(ttl)).Err(); err != nil {
		return &Error{Operation: "set", Key: key, Err: err}
	}
	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, key).Err(); err != nil {
		return &Error{Operation: "delete", Key: key, Err: err}
	}
	return nil
}

func (r *RedisCache) Exists(ctx context.Context, key string) (bool, error) {
	result, err := r.client.Exists(ctx, key).Result()
	if err != nil {
		return false, &Error{Operation: "exists", Key: key, Err: err}
	}
	return result > 0, nil
}

func (r *RedisCache) Increment(ctx context.Context, key string, delta int64, ttl time.Duration) (int64, error) {
	val, err := r.client.IncrBy(ctx, key, delta).Result()
	if err != nil {
		return 0, &Error{Operation: "increment", Key: key, Err: err}
	}
	// first hit of the window
	if val == delta {
		if err := r.client.Expire(ctx, key, r.ttl(ttl)).Err(); err != nil {
			return 0, &Error{Operation: "expire", Key: key, Err: err}
		}
	}
	return val, nil
}

func (r *RedisCache) GetTTL(ctx context.Context, key string) (time.Duration, error) {
	result, err := r.client.TTL(ctx, key).Result()
	if err != nil {
		return 0, &Error{Operation: "ttl", Key: key, Err: err}
	}
	if result == -2 {
		return 0, ErrKeyNotFound
	}
	return result, nil
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return &Error{Operation: "ping", Err: err}
	}
	return nil
}
