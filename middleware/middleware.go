package middleware

import (
	"wiz-academy/domain"
	"wiz-academy/pkg/cache"
	"wiz-academy/pkg/log"
	"wiz-academy/pkg/metrics"

	"github.com/gin-gonic/gin"
)

// Middlewares defines all available middleware methods
type Middlewares interface {
	// Rate limiting middlewares
	RateLimit(config ...RateLimitConfig) gin.HandlerFunc
	RateLimitWithLogger(config ...RateLimitConfig) gin.HandlerFunc
	APIRateLimits() gin.HandlerFunc
	WriteRateLimits() gin.HandlerFunc

	// Logging middlewares
	LoggingMiddleware(config ...LoggerConfig) gin.HandlerFunc
	RequestIDMiddleware() gin.HandlerFunc

	// CORS and security headers
	CORS(config ...CORSConfig) gin.HandlerFunc
	CORSWithLogger(config ...CORSConfig) gin.HandlerFunc
	SecurityHeaders(config ...SecurityConfig) gin.HandlerFunc

	// Session and permission gates
	SessionResolver() gin.HandlerFunc
	RequireSession() gin.HandlerFunc
	RequirePermission(perm domain.Permission) gin.HandlerFunc
	RequireRole(roles ...domain.Role) gin.HandlerFunc
}

// Dependencies holds all dependencies needed by middlewares
type Dependencies struct {
	Cache    cache.Client
	Logger   log.Logger
	Sessions domain.SessionUsecase
	Roles    domain.RoleUsecase
	Metrics  *metrics.Metrics

	// APIRateLimit and WriteRateLimit fall back to their defaults when zero.
	APIRateLimit   RateLimitConfig
	WriteRateLimit RateLimitConfig

	// EnforcePermissions rejects gated requests that carry no session.
	EnforcePermissions bool
	// SecureCookies marks the session cookie Secure.
	SecureCookies bool
}

// NewMiddlewares creates a new instance of middlewares with dependencies
func NewMiddlewares(deps Dependencies) Middlewares {
	logger := deps.Logger
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &middlewares{
		cache:              deps.Cache,
		logger:             logger,
		sessions:           deps.Sessions,
		roles:              deps.Roles,
		metrics:            deps.Metrics,
		apiRateLimit:       deps.APIRateLimit,
		writeRateLimit:     deps.WriteRateLimit,
		enforcePermissions: deps.EnforcePermissions,
		secureCookies:      deps.SecureCookies,
	}
}

// middlewares is the concrete implementation of Middlewares interface
type middlewares struct {
	cache              cache.Client
	logger             log.Logger
	sessions           domain.SessionUsecase
	roles              domain.RoleUsecase
	metrics            *metrics.Metrics
	apiRateLimit       RateLimitConfig
	writeRateLimit     RateLimitConfig
	enforcePermissions bool
	secureCookies      bool
}
