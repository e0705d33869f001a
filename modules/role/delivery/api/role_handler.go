package api

import (
	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/middleware"

	"github.com/gin-gonic/gin"
)

type RoleHandler struct {
	usecase     domain.RoleUsecase
	middlewares middleware.Middlewares
}

func NewRoleHandler(usecase domain.RoleUsecase, middlewares middleware.Middlewares) *RoleHandler {
	return &RoleHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

func (h *RoleHandler) RegisterRoutes(rg *gin.RouterGroup) {
	roles := rg.Group("/roles")

	roles.GET("", h.Get)
	roles.POST("", h.middlewares.RequireRole(domain.RoleGrandmaster), h.Replace)
	roles.POST("/toggle", h.middlewares.RequireRole(domain.RoleGrandmaster), h.Toggle)
}

func (h *RoleHandler) Get(c *gin.Context) {
	doc, err := h.usecase.Get(c.Request.Context())
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, doc, "Roles found")
}

func (h *RoleHandler) Replace(c *gin.Context) {
	var doc domain.RolesDocument
	if err := c.ShouldBindJSON(&doc); err != nil {
		if dErr, ok := common.IsDetailError(err); ok {
			common.ResponseError(c, dErr)
			return
		}
		common.ResponseBindError(c, err)
		return
	}
	stored, err := h.usecase.Replace(c.Request.Context(), &doc)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, stored, "Roles replaced successfully")
}

func (h *RoleHandler) Toggle(c *gin.Context) {
	var req domain.RoleToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	stored, err := h.usecase.Toggle(c.Request.Context(), req.Role, req.Permission)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, stored, "Permission toggled")
}
