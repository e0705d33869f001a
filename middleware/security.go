package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/unrolled/secure"
)

// SecurityConfig selects the response security headers.
type SecurityConfig struct {
	// IsDevelopment disables HSTS and host checks for local runs.
	IsDevelopment         bool
	ContentSecurityPolicy string
}

func DefaultSecurityConfig() SecurityConfig {
	return SecurityConfig{
		ContentSecurityPolicy: "default-src 'self'; style-src 'self' 'unsafe-inline'; img-src 'self' data:",
	}
}

// SecurityHeaders sets frame, sniffing, referrer and CSP headers on every response.
func (m *middlewares) SecurityHeaders(config ...SecurityConfig) gin.HandlerFunc {
	cfg := DefaultSecurityConfig()
	if len(config) > 0 {
		cfg = config[0]
	}

	sec := secure.New(secure.Options{
		FrameDeny:             true,
		ContentTypeNosniff:    true,
		BrowserXssFilter:      true,
		ReferrerPolicy:        "strict-origin-when-cross-origin",
		ContentSecurityPolicy: cfg.ContentSecurityPolicy,
		STSSeconds:            31536000,
		STSIncludeSubdomains:  true,
		IsDevelopment:         cfg.IsDevelopment,
	})

	return func(c *gin.Context) {
		if err := sec.Process(c.Writer, c.Request); err != nil {
			m.logger.Warnf("Security check rejected request: %v", err)
			c.Abort()
			return
		}
		// secure may have redirected
		if status := c.Writer.Status(); status > 300 && status < 399 {
			c.Abort()
			return
		}
		c.Next()
	}
}
