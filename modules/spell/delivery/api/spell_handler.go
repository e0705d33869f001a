package api

import (
	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/middleware"

	"github.com/gin-gonic/gin"
)

type SpellHandler struct {
	usecase     domain.SpellUsecase
	middlewares middleware.Middlewares
}

func NewSpellHandler(usecase domain.SpellUsecase, middlewares middleware.Middlewares) *SpellHandler {
	return &SpellHandler{
		usecase:     usecase,
		middlewares: middlewares,
	}
}

type searchResult struct {
	Items      []*domain.Spell    `json:"items"`
	Pagination *domain.Pagination `json:"pagination"`
}

func (h *SpellHandler) RegisterRoutes(rg *gin.RouterGroup) {
	spells := rg.Group("/spells")

	view := h.middlewares.RequirePermission(domain.PermSpellsView)
	add := h.middlewares.RequirePermission(domain.PermSpellsAdd)

	spells.GET("", view, h.GetByID)
	spells.GET("/all", view, h.GetAll)
	spells.GET("/search", view, h.Search)
	spells.POST("", add, h.Create)
	spells.POST("/all", add, h.CreateMany)
	spells.PUT("", h.middlewares.RequirePermission(domain.PermSpellsModify), h.Update)
	spells.DELETE("", h.middlewares.RequirePermission(domain.PermSpellsDelete), h.Delete)
}

func (h *SpellHandler) GetByID(c *gin.Context) {
	spell, err := h.usecase.FindByID(c.Request.Context(), c.Query("id"))
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, spell, "Spell found")
}

func (h *SpellHandler) GetAll(c *gin.Context) {
	spells, err := h.usecase.FindAll(c.Request.Context())
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, spells, "Spells found")
}

func (h *SpellHandler) Search(c *gin.Context) {
	var query domain.SpellQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	spells, pagination, err := h.usecase.Search(c.Request.Context(), &query)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, searchResult{Items: spells, Pagination: pagination}, "Spells found")
}

func (h *SpellHandler) Create(c *gin.Context) {
	var req domain.SpellCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	spell, err := h.usecase.Create(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseCreated(c, spell, "Spell created successfully")
}

func (h *SpellHandler) CreateMany(c *gin.Context) {
	var reqs []*domain.SpellCreateRequest
	if err := c.ShouldBindJSON(&reqs); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	spells, err := h.usecase.CreateMany(c.Request.Context(), reqs)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"inserted_count": len(spells)}, "Spells added successfully")
}

func (h *SpellHandler) Update(c *gin.Context) {
	var req domain.SpellUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	spell, err := h.usecase.Update(c.Request.Context(), &req)
	if err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, spell, "Spell updated successfully")
}

func (h *SpellHandler) Delete(c *gin.Context) {
	var req domain.DeleteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.ResponseBindError(c, err)
		return
	}
	if err := h.usecase.Delete(c.Request.Context(), req.ID); err != nil {
		common.ResponseError(c, err)
		return
	}
	common.ResponseOK(c, gin.H{"deleted_spell_id": req.ID}, "Spell deleted successfully")
}
