package common

import (
	"net"
	"strings"

	"wiz-academy/domain"

	"github.com/gin-gonic/gin"
)

const (
	RequestIDContextKey = "request_id"
	SessionContextKey   = "session"

	RequestIDHeader = "X-Request-ID"
	SessionHeader   = "X-Session-ID"
	SessionCookie   = "wiz_session"
)

// GetClientIP gets the real client IP address
func GetClientIP(c *gin.Context) string {
	xff := c.GetHeader("X-Forwarded-For")
	if xff != "" {
		ip := strings.TrimSpace(strings.Split(xff, ",")[0])
		if ip != "" && net.ParseIP(ip) != nil {
			return ip
		}
	}

	xri := c.GetHeader("X-Real-IP")
	if xri != "" && net.ParseIP(xri) != nil {
		return xri
	}

	remoteIP, _, err := net.SplitHostPort(c.Request.RemoteAddr)
	if err != nil {
		return c.Request.RemoteAddr
	}
	return remoteIP
}

// GetSessionIDFromRequest reads the session id from the X-Session-ID header, falling
// back to the wiz_session cookie.
func GetSessionIDFromRequest(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(SessionHeader)); id != "" {
		return id
	}
	if id, err := c.Cookie(SessionCookie); err == nil {
		return id
	}
	return ""
}

func SetSessionToCtx(c *gin.Context, session *domain.Session) {
	c.Set(SessionContextKey, session)
}

// GetSessionFromCtx returns the session resolved by the session middleware, or nil.
func GetSessionFromCtx(c *gin.Context) *domain.Session {
	if v, ok := c.Get(SessionContextKey); ok {
		if session, ok := v.(*domain.Session); ok {
			return session
		}
	}
	return nil
}
