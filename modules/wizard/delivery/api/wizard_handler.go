package api

import (
	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/middleware"

	"github.com/gin-gonic/gin"
)

type WizardHandler struct {
	usecase     domain.WizardUsecase
	middlewares middleware.Middlewares
}

func NewWizardHandler(usecase domain.WizardUsecase, middlewares middleware.Middlewares) *WizardHandler {
	return &WizardHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

type searchResult struct {
	Items      []*domain.Wizard   `json:"items"`
	Pagination *domain.Pagination `json:"pagination"`
}

func (h *WizardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	wizards := rg.Group("/wizards")

	view := h.middlewares.RequirePermission(domain.PermWizardsView)

	wizards.GET("", view, h.GetByID)
	wizards.GET("/all", view, h.GetAll)
	wizards.GET("/search", view, h.Search)
	wizards.POST("", h.middlewares.RequirePermission(domain.PermWizardsAdd), h.Register)
	wizards.PUT("", h.middlewares.RequirePermission(domain.PermWizardsModify), h.Update)
	wizards.DELETE("", h.middlewares.RequirePermission(domain.PermWizardsDelete), h.Delete)
}

func (h *WizardHandler) GetByID(c *gin.Context) {
	wizard, err := h.usecase.FindByID(c.Request.Context(), c.Query("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, wizard, "Wizard found")
}

func (h *WizardHandler) GetAll(c *gin.Context) {
	wizards, err := h.usecase.FindAll(c.Request.Context())
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, wizards, "Wizards found")
}

func (h *WizardHandler) Search(c *gin.Context) {
	var query domain.WizardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	wizards, pagination, err := h.usecase.Search(c.Request.Context(), &query)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, searchResult{Items: wizards, Pagination: pagination}, "Wizards found")
}

func (h *WizardHandler) Register(c *gin.Context) {
	var req domain.WizardCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	wizard, err := h.usecase.Register(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, wizard, "Wizard added successfully")
}

func (h *WizardHandler) Update(c *gin.Context) {
	var req domain.WizardUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	wizard, err := h.usecase.Update(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, wizard, "Wizard updated successfully")
}

func (h *WizardHandler) Delete(c *gin.Context) {
	var req domain.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	if err := h.usecase.Delete(c.Request.Context(), req.ID); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"deleted_wizard_id": req.ID}, "Wizard deleted successfully")
}
