package api

import (
	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/middleware"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	usecase       domain.SessionUsecase
	middlewares   middleware.Middlewares
	secureCookies bool
}

func NewSessionHandler(usecase domain.SessionUsecase, middlewares middleware.Middlewares, secureCookies bool) *SessionHandler {
	return &SessionHandler{
		usecase:       usecase,
		middlewares:   middlewares,
		secureCookies: secureCookies,
	}
}

func (h *SessionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	session := rg.Group("/session")

	session.POST("", h.Start)
	session.GET("", h.middlewares.RequireSession(), h.Current)
	session.DELETE("", h.End)
}

func (h *SessionHandler) Start(c *gin.Context) {
	var req domain.SessionStartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	session, err := h.usecase.Start(c.Request.Context(), req.WizardID)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	middleware.SetSessionCookie(c, session, h.secureCookies)
	common.ResponseCreated(c, session, "Session started")
}

func (h *SessionHandler) Current(c *gin.Context) {
	common.ResponseOK(c, common.GetSessionFromCtx(c), "Session found")
}

func (h *SessionHandler) End(c *gin.Context) {
	if err := h.usecase.End(c.Request.Context(), common.GetSessionIDFromRequest(c)); err != nil {
		common.ResponseError(c, err)
		return
	}
	middleware.ClearSessionCookie(c, h.secureCookies)
	common.ResponseOK[any](c, nil, "Session ended")
}
