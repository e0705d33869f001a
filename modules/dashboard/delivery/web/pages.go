package web

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/pkg/filter"

	"github.com/gin-gonic/gin"
)

/****************************
*           Spells          *
****************************/

type spellsData struct {
	Spells               []*domain.Spell
	Pagination           *domain.Pagination
	Query                url.Values
	SearchFields         []string
	Field                string
	Q                    string
	Types                []string
	SelectedTypes        []string
	Difficulties         []domain.Difficulty
	SelectedDifficulties []string
}

type spellFormData struct {
	Action       string
	IsEdit       bool
	Form         spellForm
	Errors       map[string]string
	Types        []string
	Difficulties []domain.Difficulty
}

func (h *DashboardHandler) SpellList(c *gin.Context) {
	var query domain.SpellQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.renderError(c, domain.ErrBadRequest.WithError(err.Error()))
		return
	}
	if query.SearchField == "" {
		query.SearchField = domain.SpellSearchFields[0]
	}
	query.PerPage = filter.DefaultPerPage

	spells, page, err := h.spells.Search(c.Request.Context(), &query)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "spells.html", "Spells", spellsData{
		Spells:               spells,
		Pagination:           page,
		Query:                c.Request.URL.Query(),
		SearchFields:         domain.SpellSearchFields,
		Field:                query.SearchField,
		Q:                    query.SearchValue,
		Types:                domain.SpellTypes,
		SelectedTypes:        query.Types,
		Difficulties:         domain.Difficulties,
		SelectedDifficulties: query.Difficulties,
	})
}

func (h *DashboardHandler) renderSpellForm(c *gin.Context, status int, data spellFormData) {
	data.Types = domain.SpellTypes
	data.Difficulties = domain.Difficulties
	title := "Create Spell"
	if data.IsEdit {
		title = "Edit Spell"
	}
	h.render(c, status, "spell_form.html", title, data)
}

func (h *DashboardHandler) SpellNew(c *gin.Context) {
	form := spellForm{DateOfCreation: domain.Today()}
	if session := common.GetSessionFromCtx(c); session != nil {
		form.CreatedBy = session.Wizard.Name
	}
	h.renderSpellForm(c, http.StatusOK, spellFormData{Action: "/dashboard/spells", Form: form})
}

func (h *DashboardHandler) SpellCreate(c *gin.Context) {
	var form spellForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSpellForm(c, http.StatusBadRequest, spellFormData{Action: "/dashboard/spells", Form: form, Errors: formErrors(err)})
		return
	}

	spell, err := h.spells.Create(c.Request.Context(), form.createRequest())
	if err != nil {
		if status, ok := formStatus(err); ok {
			h.renderSpellForm(c, status, spellFormData{Action: "/dashboard/spells", Form: form, Errors: formErrors(err)})
			return
		}
		h.renderError(c, err)
		return
	}
	h.setFlash(c, "success", "Spell "+spell.Name+" created successfully")
	c.Redirect(http.StatusSeeOther, "/dashboard/spells")
}

func (h *DashboardHandler) SpellEdit(c *gin.Context) {
	spell, err := h.spells.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderSpellForm(c, http.StatusOK, spellFormData{
		Action: common.JoinURLPath("/dashboard/spells", spell.ID),
		IsEdit: true,
		Form:   spellFormFrom(spell),
	})
}

func (h *DashboardHandler) SpellUpdate(c *gin.Context) {
	id := c.Param("id")
	action := common.JoinURLPath("/dashboard/spells", id)

	var form spellForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderSpellForm(c, http.StatusBadRequest, spellFormData{Action: action, IsEdit: true, Form: form, Errors: formErrors(err)})
		return
	}

	spell, err := h.spells.Update(c.Request.Context(), form.updateRequest(id))
	if err != nil {
		if status, ok := formStatus(err); ok {
			h.renderSpellForm(c, status, spellFormData{Action: action, IsEdit: true, Form: form, Errors: formErrors(err)})
			return
		}
		h.renderError(c, err)
		return
	}
	h.setFlash(c, "success", "Spell "+spell.Name+" updated successfully")
	c.Redirect(http.StatusSeeOther, "/dashboard/spells")
}

func (h *DashboardHandler) SpellDelete(c *gin.Context) {
	if err := h.spells.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	h.setFlash(c, "success", "Spell deleted successfully")
	c.Redirect(http.StatusSeeOther, "/dashboard/spells")
}

/****************************
*          Wizards          *
****************************/

type wizardsData struct {
	Wizards       []*domain.Wizard
	Pagination    *domain.Pagination
	Query         url.Values
	SearchFields  []string
	Field         string
	Q             string
	Types         []string
	SelectedTypes []string
	Roles         []domain.Role
	SelectedRoles []string
}

type wizardFormData struct {
	Action string
	IsEdit bool
	Form   wizardForm
	Errors map[string]string
	Types  []string
	Roles  []domain.Role
}

func (h *DashboardHandler) WizardList(c *gin.Context) {
	var query domain.WizardQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.renderError(c, domain.ErrBadRequest.WithError(err.Error()))
		return
	}
	if query.SearchField == "" {
		query.SearchField = domain.WizardSearchFields[0]
	}
	query.PerPage = filter.DefaultPerPage

	wizards, page, err := h.wizards.Search(c.Request.Context(), &query)
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.render(c, http.StatusOK, "wizards.html", "Wizards", wizardsData{
		Wizards:       wizards,
		Pagination:    page,
		Query:         c.Request.URL.Query(),
		SearchFields:  domain.WizardSearchFields,
		Field:         query.SearchField,
		Q:             query.SearchValue,
		Types:         domain.SpellTypes,
		SelectedTypes: query.Types,
		Roles:         domain.Roles,
		SelectedRoles: query.Roles,
	})
}

func (h *DashboardHandler) renderWizardForm(c *gin.Context, status int, data wizardFormData) {
	data.Types = domain.SpellTypes
	data.Roles = domain.Roles
	title := "Add Wizard"
	if data.IsEdit {
		title = "Edit Wizard"
	}
	h.render(c, status, "wizard_form.html", title, data)
}

func (h *DashboardHandler) WizardNew(c *gin.Context) {
	h.renderWizardForm(c, http.StatusOK, wizardFormData{Action: "/dashboard/wizards"})
}

func (h *DashboardHandler) WizardCreate(c *gin.Context) {
	var form wizardForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderWizardForm(c, http.StatusBadRequest, wizardFormData{Action: "/dashboard/wizards", Form: form, Errors: formErrors(err)})
		return
	}

	wizard, err := h.wizards.Register(c.Request.Context(), form.createRequest())
	if err != nil {
		if status, ok := formStatus(err); ok {
			h.renderWizardForm(c, status, wizardFormData{Action: "/dashboard/wizards", Form: form, Errors: formErrors(err)})
			return
		}
		h.renderError(c, err)
		return
	}
	h.setFlash(c, "success", "Wizard "+wizard.Name+" added successfully")
	c.Redirect(http.StatusSeeOther, "/dashboard/wizards")
}

func (h *DashboardHandler) WizardEdit(c *gin.Context) {
	wizard, err := h.wizards.FindByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	h.renderWizardForm(c, http.StatusOK, wizardFormData{
		Action: common.JoinURLPath("/dashboard/wizards", wizard.ID),
		IsEdit: true,
		Form:   wizardFormFrom(wizard),
	})
}

func (h *DashboardHandler) WizardUpdate(c *gin.Context) {
	id := c.Param("id")
	action := common.JoinURLPath("/dashboard/wizards", id)

	var form wizardForm
	if err := c.ShouldBind(&form); err != nil {
		h.renderWizardForm(c, http.StatusBadRequest, wizardFormData{Action: action, IsEdit: true, Form: form, Errors: formErrors(err)})
		return
	}

	wizard, err := h.wizards.Update(c.Request.Context(), form.updateRequest(id))
	if err != nil {
		if status, ok := formStatus(err); ok {
			h.renderWizardForm(c, status, wizardFormData{Action: action, IsEdit: true, Form: form, Errors: formErrors(err)})
			return
		}
		h.renderError(c, err)
		return
	}
	h.setFlash(c, "success", "Wizard "+wizard.Name+" updated successfully")
	c.Redirect(http.StatusSeeOther, "/dashboard/wizards")
}

func (h *DashboardHandler) WizardDelete(c *gin.Context) {
	if err := h.wizards.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.renderError(c, err)
		return
	}
	h.setFlash(c, "success", "Wizard deleted successfully")
	c.Redirect(http.StatusSeeOther, "/dashboard/wizards")
}

/****************************
*           Roles           *
****************************/

type rolesData struct {
	Roles       []domain.Role
	Permissions []domain.Permission
	Doc         *domain.RolesDocument
}

func (h *DashboardHandler) RolesPage(c *gin.Context) {
	h.render(c, http.StatusOK, "roles.html", "Roles", rolesData{
		Roles:       domain.Roles,
		Permissions: domain.AllPermissions,
		Doc:         rolesDocFromCtx(c),
	})
}

func (h *DashboardHandler) RolesSave(c *gin.Context) {
	doc, err := rolesDocumentFromForm(c.PostForm)
	if err != nil {
		h.renderError(c, err)
		return
	}
	if _, err := h.roles.Replace(c.Request.Context(), doc); err != nil {
		h.renderError(c, err)
		return
	}
	h.setFlash(c, "success", "Roles replaced successfully")
	c.Redirect(http.StatusSeeOther, "/dashboard/roles")
}

// RolesToggle flips the single cell named by the submitting button ("master.spells-view").
func (h *DashboardHandler) RolesToggle(c *gin.Context) {
	role, perm, ok := strings.Cut(c.PostForm("cell"), ".")
	if !ok {
		h.renderError(c, domain.ErrRolesValidationFailed.WithError("cell must be role.permission"))
		return
	}
	if _, err := h.roles.Toggle(c.Request.Context(), domain.Role(role), domain.Permission(perm)); err != nil {
		h.renderError(c, err)
		return
	}
	h.setFlash(c, "success", fmt.Sprintf("%s: %s toggled", domain.Role(role).DisplayName(), domain.Permission(perm).Label()))
	c.Redirect(http.StatusSeeOther, "/dashboard/roles")
}

// formStatus reports whether err should be shown on the form instead of an error page.
func formStatus(err error) (int, bool) {
	dErr, ok := domain.AsDetailedError(err)
	if !ok {
		return 0, false
	}
	switch dErr.StatusCode() {
	case http.StatusBadRequest, http.StatusConflict:
		return dErr.StatusCode(), true
	}
	return 0, false
}
