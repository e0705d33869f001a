package middleware

import (
	"errors"
	"net/http"

	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/pkg/log"

	"github.com/gin-gonic/gin"
)

// resolveSession loads the caller's session once per request, re-reading the acting
// wizard so demotions and deletions apply immediately. A stale or unknown session id,
// or one whose wizard is gone, is treated as no session.
func (m *middlewares) resolveSession(c *gin.Context) (*domain.Session, error) {
	if session := common.GetSessionFromCtx(c); session != nil {
		return session, nil
	}
	if _, resolved := c.Get(sessionResolvedKey); resolved {
		return nil, nil
	}
	c.Set(sessionResolvedKey, true)

	id := common.GetSessionIDFromRequest(c)
	if id == "" || m.sessions == nil {
		return nil, nil
	}

	session, err := m.sessions.Refresh(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			clearSessionCookie(c, m.secureCookies)
			return nil, nil
		}
		return nil, err
	}

	common.SetSessionToCtx(c, session)
	c.Request = c.Request.WithContext(log.WithSession(c.Request.Context(), session.ID, session.Wizard.ID))
	return session, nil
}

const sessionResolvedKey = "session_resolved"

// SessionResolver attaches the caller's session, if any, to the request context.
func (m *middlewares) SessionResolver() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := m.resolveSession(c); err != nil {
			common.ResponseError(c, err)
			return
		}
		c.Next()
	}
}

func (m *middlewares) RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.resolveSession(c)
		if err != nil {
			common.ResponseError(c, err)
			return
		}
		if session == nil {
			common.ResponseError(c, domain.ErrSessionNotFound)
			return
		}
		c.Next()
	}
}

// SetSessionCookie stores the session id in the wiz_session cookie for the session lifetime.
func SetSessionCookie(c *gin.Context, session *domain.Session, secure bool) {
	maxAge := int(session.TTL(session.StartedAt).Seconds())
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookie, session.ID, maxAge, "/", "", secure, true)
}

func clearSessionCookie(c *gin.Context, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(common.SessionCookie, "", -1, "/", "", secure, true)
}

// ClearSessionCookie expires the wiz_session cookie.
func ClearSessionCookie(c *gin.Context, secure bool) {
	clearSessionCookie(c, secure)
}
