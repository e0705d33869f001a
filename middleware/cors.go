package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"wiz-academy/common"
	"wiz-academy/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// CORSConfig holds CORS configuration
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig returns a default CORS configuration
func DefaultCORSConfig() CORSConfig {
	return CORSConfig{
		AllowOrigins: []string{"*"},
		AllowMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodHead,
			http.MethodOptions,
		},
		AllowHeaders: []string{
			"Origin",
			"Content-Length",
			"Content-Type",
			"Accept",
			"Cache-Control",
			"X-Requested-With",
			common.RequestIDHeader,
			common.SessionHeader,
		},
		ExposeHeaders: []string{
			"Content-Length",
			common.RequestIDHeader,
			"X-RateLimit-Limit",
			"X-RateLimit-Remaining",
		},
		AllowCredentials: true,
		MaxAge:           86400,
	}
}

func (cfg CORSConfig) apply(c *gin.Context, origin string) bool {
	allowed := true
	// credentials cannot be combined with a literal "*" origin, so echo the origin instead
	switch {
	case len(cfg.AllowOrigins) == 1 && cfg.AllowOrigins[0] == "*" && !cfg.AllowCredentials:
		c.Header("Access-Control-Allow-Origin", "*")
	case origin != "" && isOriginAllowed(origin, cfg.AllowOrigins):
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Vary", "Origin")
	default:
		allowed = origin == ""
	}

	if len(cfg.AllowMethods) > 0 {
		c.Header("Access-Control-Allow-Methods", strings.Join(cfg.AllowMethods, ", "))
	}
	if len(cfg.AllowHeaders) > 0 {
		c.Header("Access-Control-Allow-Headers", strings.Join(cfg.AllowHeaders, ", "))
	}
	if len(cfg.ExposeHeaders) > 0 {
		c.Header("Access-Control-Expose-Headers", strings.Join(cfg.ExposeHeaders, ", "))
	}
	if cfg.AllowCredentials {
		c.Header("Access-Control-Allow-Credentials", "true")
	}
	if cfg.MaxAge > 0 {
		c.Header("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
	}
	return allowed
}

// CORS returns a middleware that handles CORS
func (m *middlewares) CORS(config ...CORSConfig) gin.HandlerFunc {
	cfg := DefaultCORSConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *gin.Context) {
		cfg.apply(c, c.Request.Header.Get("Origin"))
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// CORSWithLogger returns a CORS middleware that logs preflights and rejected origins
func (m *middlewares) CORSWithLogger(config ...CORSConfig) gin.HandlerFunc {
	cfg := DefaultCORSConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if !cfg.apply(c, origin) {
			m.logger.Warnf("CORS request from disallowed origin: %s", origin)
		}

		if c.Request.Method == http.MethodOptions {
			m.logger.Debug("CORS preflight request handled", log.String("origin", origin))
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

func isOriginAllowed(origin string, allowedOrigins []string) bool {
	return lo.Contains(allowedOrigins, "*") || lo.Contains(allowedOrigins, origin)
}
