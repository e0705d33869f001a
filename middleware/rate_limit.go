package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"wiz-academy/common"
	"wiz-academy/pkg/cache"
	"wiz-academy/pkg/log"

	"github.com/gin-gonic/gin"
)

// RateLimitConfig holds rate limiting configuration
type RateLimitConfig struct {
	WindowSize  time.Duration // Time window for rate limiting (e.g., 1 minute)
	MaxRequests int64         // Maximum requests allowed in the window

	KeyPrefix    string                    // Prefix for cache keys
	KeyGenerator func(*gin.Context) string // Custom key generator function

	HeaderRemainingRequests string
	HeaderRetryAfter        string
	HeaderRateLimit         string

	SkipPaths     []string                // Paths to skip rate limiting
	SkipCondition func(*gin.Context) bool // Custom skip condition

	OnLimitReached func(*gin.Context, RateLimitInfo) // Custom handler when limit is reached
}

// RateLimitInfo contains rate limit status information
type RateLimitInfo struct {
	Key        string
	Limit      int64
	Remaining  int64
	ResetTime  time.Time
	RetryAt    time.Time
	WindowSize time.Duration
}

// DefaultRateLimitConfig returns a default rate limiting configuration
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		WindowSize:              time.Minute,
		MaxRequests:             100,
		KeyPrefix:               "rate_limit:",
		KeyGenerator:            defaultKeyGenerator,
		HeaderRemainingRequests: "X-RateLimit-Remaining",
		HeaderRetryAfter:        "X-RateLimit-Retry-After",
		HeaderRateLimit:         "X-RateLimit-Limit",
		SkipPaths:               []string{"/health", "/metrics"},
		OnLimitReached:          defaultOnLimitReached,
	}
}

// withDefaults fills every zero field of cfg from DefaultRateLimitConfig.
func (cfg RateLimitConfig) withDefaults() RateLimitConfig {
	def := DefaultRateLimitConfig()
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = def.KeyGenerator
	}
	if cfg.OnLimitReached == nil {
		cfg.OnLimitReached = def.OnLimitReached
	}
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = def.KeyPrefix
	}
	if cfg.WindowSize <= 0 {
		cfg.WindowSize = def.WindowSize
	}
	if cfg.MaxRequests <= 0 {
		cfg.MaxRequests = def.MaxRequests
	}
	if cfg.HeaderRateLimit == "" {
		cfg.HeaderRateLimit = def.HeaderRateLimit
	}
	if cfg.HeaderRemainingRequests == "" {
		cfg.HeaderRemainingRequests = def.HeaderRemainingRequests
	}
	if cfg.HeaderRetryAfter == "" {
		cfg.HeaderRetryAfter = def.HeaderRetryAfter
	}
	if cfg.SkipPaths == nil {
		cfg.SkipPaths = def.SkipPaths
	}
	return cfg
}

// RateLimit returns a fixed-window rate limiting middleware backed by the cache
func (m *middlewares) RateLimit(config ...RateLimitConfig) gin.HandlerFunc {
	var cfg RateLimitConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = cfg.withDefaults()

	skipPaths := make(map[string]bool, len(cfg.SkipPaths))
	for _, path := range cfg.SkipPaths {
		skipPaths[path] = true
	}

	return func(c *gin.Context) {
		if skipPaths[c.Request.URL.Path] {
			c.Next()
			return
		}
		if cfg.SkipCondition != nil && cfg.SkipCondition(c) {
			c.Next()
			return
		}

		key := cfg.KeyPrefix + cfg.KeyGenerator(c)
		info, allowed, err := checkRateLimit(c.Request.Context(), m.cache, key, cfg)
		if err != nil {
			// fail open
			m.logger.WarnContext(c.Request.Context(), "Rate limit check failed", log.String("key", key), log.Error(err))
			c.Next()
			return
		}

		setRateLimitHeaders(c, cfg, info)
		if !allowed {
			cfg.OnLimitReached(c, info)
			return
		}
		c.Next()
	}
}

// RateLimitWithLogger returns a rate limiting middleware that logs rejected requests
func (m *middlewares) RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc {
	var cfg RateLimitConfig
	if len(config) > 0 {
		cfg = config[0]
	}
	cfg = cfg.withDefaults()

	originalHandler := cfg.OnLimitReached
	cfg.OnLimitReached = func(c *gin.Context, info RateLimitInfo) {
		m.logger.WarnContext(c.Request.Context(), "Rate limit exceeded",
			log.String("key", info.Key),
			log.Int64("limit", info.Limit),
			log.String("client_ip", c.ClientIP()),
			log.String("path", c.Request.URL.Path),
		)
		originalHandler(c, info)
	}

	return m.RateLimit(cfg)
}

// APIRateLimits limits every API call per session, or per client IP without one.
func (m *middlewares) APIRateLimits() gin.HandlerFunc {
	cfg := m.apiRateLimit
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "api:"
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 120
	}
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = SessionKeyGenerator
	}
	return m.RateLimitWithLogger(cfg)
}

// WriteRateLimits limits mutating calls (POST, PUT, DELETE) separately and more tightly.
func (m *middlewares) WriteRateLimits() gin.HandlerFunc {
	cfg := m.writeRateLimit
	if cfg.KeyPrefix == "" {
		cfg.KeyPrefix = "write:"
	}
	if cfg.MaxRequests == 0 {
		cfg.MaxRequests = 30
	}
	if cfg.KeyGenerator == nil {
		cfg.KeyGenerator = SessionKeyGenerator
	}
	cfg.SkipCondition = func(c *gin.Context) bool {
		switch c.Request.Method {
		case http.MethodGet, http.MethodHead, http.MethodOptions:
			return true
		}
		return false
	}
	return m.RateLimitWithLogger(cfg)
}

// checkRateLimit increments the window counter for key. The window starts with the
// first request and resets when the counter expires.
func checkRateLimit(ctx context.Context, client cache.Client, key string, cfg RateLimitConfig) (RateLimitInfo, bool, error) {
	current, err := client.Increment(ctx, key, 1, cfg.WindowSize)
	if err != nil {
		return RateLimitInfo{}, true, err
	}

	resetTime := time.Now().Add(cfg.WindowSize)
	if ttl, err := client.GetTTL(ctx, key); err == nil && ttl > 0 {
		resetTime = time.Now().Add(ttl)
	}

	remaining := cfg.MaxRequests - current
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitInfo{
		Key:        key,
		Limit:      cfg.MaxRequests,
		Remaining:  remaining,
		ResetTime:  resetTime,
		RetryAt:    resetTime,
		WindowSize: cfg.WindowSize,
	}, current <= cfg.MaxRequests, nil
}

func setRateLimitHeaders(c *gin.Context, cfg RateLimitConfig, info RateLimitInfo) {
	if cfg.HeaderRateLimit != "" {
		c.Header(cfg.HeaderRateLimit, strconv.FormatInt(info.Limit, 10))
	}
	if cfg.HeaderRemainingRequests != "" {
		c.Header(cfg.HeaderRemainingRequests, strconv.FormatInt(info.Remaining, 10))
	}
	if cfg.HeaderRetryAfter != "" && info.Remaining == 0 && !info.RetryAt.IsZero() {
		if retryAfterSeconds := int64(time.Until(info.RetryAt).Seconds()); retryAfterSeconds > 0 {
			c.Header(cfg.HeaderRetryAfter, strconv.FormatInt(retryAfterSeconds, 10))
		}
	}
}

func defaultKeyGenerator(c *gin.Context) string {
	return common.GetClientIP(c)
}

func defaultOnLimitReached(c *gin.Context, info RateLimitInfo) {
	message := fmt.Sprintf("Too many requests. Limit %d requests per %v", info.Limit, info.WindowSize)
	common.ResponseTooManyRequests(c, message, info.RetryAt)
}

// SessionKeyGenerator keys the limit by session id, falling back to the client IP.
func SessionKeyGenerator(c *gin.Context) string {
	if id := common.GetSessionIDFromRequest(c); id != "" {
		return "session:" + id
	}
	return "ip:" + common.GetClientIP(c)
}
