package middleware

import (
	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

// RequirePermission lets a request through when the caller's role holds perm in the
// current roles document. Requests without a session pass unless enforcement is on.
func (m *middlewares) RequirePermission(perm domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.resolveSession(c)
		if err != nil {
			common.ResponseError(c, err)
			return
		}
		if session == nil {
			if m.enforcePermissions {
				common.ResponseError(c, domain.ErrSessionRequired)
				return
			}
			c.Next()
			return
		}

		doc, err := m.roles.Get(c.Request.Context())
		if err != nil {
			common.ResponseError(c, err)
			return
		}
		if !doc.Allows(session.Role, perm) {
			m.logger.WarnContext(c.Request.Context(), "Permission denied",
				log.Role(string(session.Role)),
				log.String("permission", string(perm)),
				log.String("path", c.Request.URL.Path),
			)
			m.metrics.PermissionDenied(string(session.Role), string(perm))
			common.ResponseError(c, domain.ErrPermissionDenied.WithReasonf(
				"%s may not %s", session.Role.DisplayName(), perm.Label()))
			return
		}
		c.Next()
	}
}

// RequireRole restricts a route to the given roles. Requests without a session follow
// the same rule as RequirePermission.
func (m *middlewares) RequireRole(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := m.resolveSession(c)
		if err != nil {
			common.ResponseError(c, err)
			return
		}
		if session == nil {
			if m.enforcePermissions {
				common.ResponseError(c, domain.ErrSessionRequired)
				return
			}
			c.Next()
			return
		}
		if !lo.Contains(roles, session.Role) {
			m.metrics.PermissionDenied(string(session.Role), "role")
			common.ResponseError(c, domain.ErrPermissionDenied.WithReasonf(
				"%s may not access this resource", session.Role.DisplayName()))
			return
		}
		c.Next()
	}
}
