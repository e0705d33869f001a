package web

import (
	"errors"
	"net/http"
	"strings"

	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/middleware"
	"wiz-academy/pkg/log"
	"wiz-academy/pkg/view"

	"github.com/gin-gonic/gin"
	"github.com/samber/lo"
)

const (
	flashCookie = "wiz_flash"
	rolesDocKey = "dashboard_roles"
)

// Config carries the wizard ids linked from the landing page.
type Config struct {
	NoviceWizardID      string
	MasterWizardID      string
	GrandmasterWizardID string
	SecureCookies       bool
}

type DashboardHandler struct {
	spells      domain.SpellUsecase
	wizards     domain.WizardUsecase
	roles       domain.RoleUsecase
	sessions    domain.SessionUsecase
	middlewares middleware.Middlewares
	engine      *view.Engine
	config      Config
	logger      log.Logger
}

func NewDashboardHandler(
	spells domain.SpellUsecase,
	wizards domain.WizardUsecase,
	roles domain.RoleUsecase,
	sessions domain.SessionUsecase,
	middlewares middleware.Middlewares,
	engine *view.Engine,
	config Config,
	logger log.Logger,
) *DashboardHandler {
	return &DashboardHandler{
		spells:      spells,
		wizards:     wizards,
		roles:       roles,
		sessions:    sessions,
		middlewares: middlewares,
		engine:      engine,
		config:      config,
		logger:      logger,
	}
}

func (h *DashboardHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/", h.Landing)

	dash := rg.Group("/dashboard", h.middlewares.SessionResolver())
	dash.GET("", h.requirePage(""), h.Home)
	dash.GET("/logout", h.Logout)
	dash.GET("/:wizId", h.Enter)

	spells := dash.Group("/spells")
	spells.GET("", h.requirePage(domain.PermSpellsView), h.SpellList)
	spells.GET("/new", h.requirePage(domain.PermSpellsAdd), h.SpellNew)
	spells.POST("", h.requirePage(domain.PermSpellsAdd), h.SpellCreate)
	spells.GET("/:id/edit", h.requirePage(domain.PermSpellsModify), h.SpellEdit)
	spells.POST("/:id", h.requirePage(domain.PermSpellsModify), h.SpellUpdate)
	spells.POST("/:id/delete", h.requirePage(domain.PermSpellsDelete), h.SpellDelete)

	wizards := dash.Group("/wizards")
	wizards.GET("", h.requirePage(domain.PermWizardsView), h.WizardList)
	wizards.GET("/new", h.requirePage(domain.PermWizardsAdd), h.WizardNew)
	wizards.POST("", h.requirePage(domain.PermWizardsAdd), h.WizardCreate)
	wizards.GET("/:id/edit", h.requirePage(domain.PermWizardsModify), h.WizardEdit)
	wizards.POST("/:id", h.requirePage(domain.PermWizardsModify), h.WizardUpdate)
	wizards.POST("/:id/delete", h.requirePage(domain.PermWizardsDelete), h.WizardDelete)

	roles := dash.Group("/roles", h.requireGrandmaster())
	roles.GET("", h.RolesPage)
	roles.POST("", h.RolesSave)
	roles.POST("/toggle", h.RolesToggle)
}

/****************************
*         Page gates        *
****************************/

// requirePage sends visitors without a session back to the landing page and renders a
// 403 page when the live roles document does not grant perm. An empty perm only
// requires a session.
func (h *DashboardHandler) requirePage(perm domain.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := common.GetSessionFromCtx(c)
		if session == nil {
			c.Redirect(http.StatusSeeOther, "/")
			c.Abort()
			return
		}
		doc, err := h.roles.Get(c.Request.Context())
		if err != nil {
			h.renderError(c, err)
			c.Abort()
			return
		}
		c.Set(rolesDocKey, doc)

		if perm != "" && !doc.Allows(session.Role, perm) {
			h.logger.WarnContext(c.Request.Context(), "Dashboard page denied",
				log.Role(string(session.Role)),
				log.String("permission", string(perm)),
				log.String("path", c.Request.URL.Path),
			)
			h.renderError(c, domain.ErrPermissionDenied.WithErrorf(
				"%s may not %s", session.Role.DisplayName(), strings.ToLower(perm.Label())))
			c.Abort()
			return
		}
		c.Next()
	}
}

func (h *DashboardHandler) requireGrandmaster() gin.HandlerFunc {
	page := h.requirePage("")
	return func(c *gin.Context) {
		page(c)
		if c.IsAborted() {
			return
		}
		if session := common.GetSessionFromCtx(c); !session.IsGrandmaster() {
			h.renderError(c, domain.ErrPermissionDenied.WithError("Only the Grand Master may manage roles"))
			c.Abort()
		}
	}
}

func rolesDocFromCtx(c *gin.Context) *domain.RolesDocument {
	if v, ok := c.Get(rolesDocKey); ok {
		if doc, ok := v.(*domain.RolesDocument); ok {
			return doc
		}
	}
	return nil
}

/****************************
*       Landing & entry     *
****************************/

type roleCard struct {
	Role        domain.Role
	Icon        string
	Description string
	WizardID    string
	Permissions []domain.Permission
}

type landingData struct {
	Cards []roleCard
}

func (h *DashboardHandler) Landing(c *gin.Context) {
	doc, err := h.roles.Get(c.Request.Context())
	if err != nil && !errors.Is(err, domain.ErrRolesNotFound) {
		h.renderError(c, err)
		return
	}

	cards := []roleCard{
		{Role: domain.RoleNovice, Icon: "🔮", Description: "Apprentice wizards learning the mystical arts", WizardID: h.config.NoviceWizardID},
		{Role: domain.RoleMaster, Icon: "⚡", Description: "Experienced wizards teaching the next generation", WizardID: h.config.MasterWizardID},
		{Role: domain.RoleGrandmaster, Icon: "👑", Description: "The supreme leader of Wiz Academy", WizardID: h.config.GrandmasterWizardID},
	}
	for i := range cards {
		role := cards[i].Role
		cards[i].Permissions = lo.Filter(domain.AllPermissions, func(p domain.Permission, _ int) bool {
			return doc.Allows(role, p)
		})
	}

	h.render(c, http.StatusOK, "landing.html", "Welcome", landingData{Cards: cards})
}

// Enter starts a session as the given wizard, replacing any session the browser had.
func (h *DashboardHandler) Enter(c *gin.Context) {
	ctx := c.Request.Context()
	if previous := common.GetSessionFromCtx(c); previous != nil {
		if err := h.sessions.End(ctx, previous.ID); err != nil {
			h.logger.WarnContext(ctx, "Failed to end previous session", log.SessionID(previous.ID), log.Error(err))
		}
	}

	session, err := h.sessions.Start(ctx, c.Param("wizId"))
	if err != nil {
		h.renderError(c, err)
		return
	}
	middleware.SetSessionCookie(c, session, h.config.SecureCookies)
	h.setFlash(c, "success", "Welcome, "+session.Wizard.Name)
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

func (h *DashboardHandler) Logout(c *gin.Context) {
	if session := common.GetSessionFromCtx(c); session != nil {
		if err := h.sessions.End(c.Request.Context(), session.ID); err != nil {
			h.renderError(c, err)
			return
		}
	}
	middleware.ClearSessionCookie(c, h.config.SecureCookies)
	c.Redirect(http.StatusSeeOther, "/")
}

type homeStat struct {
	Label string
	Value int64
}

type homeData struct {
	Granted []domain.Permission
	Stats   []homeStat
}

// Home lists what the role may do and counts only the collections the role may view.
func (h *DashboardHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()
	session := common.GetSessionFromCtx(c)
	granted := h.granted(c)

	var stats []homeStat
	if granted.SpellsView {
		total, err := h.spells.Count(ctx, &domain.SpellFilter{})
		if err != nil {
			h.renderError(c, err)
			return
		}
		author := session.Wizard.Name
		mine, err := h.spells.Count(ctx, &domain.SpellFilter{CreatedBy: &author})
		if err != nil {
			h.renderError(c, err)
			return
		}
		stats = append(stats, homeStat{Label: "Spells", Value: total}, homeStat{Label: "Spells you created", Value: mine})
	}
	if granted.WizardsView {
		total, err := h.wizards.Count(ctx, &domain.WizardFilter{})
		if err != nil {
			h.renderError(c, err)
			return
		}
		stats = append(stats, homeStat{Label: "Wizards", Value: total})
		for _, role := range domain.Roles {
			n, err := h.wizards.Count(ctx, &domain.WizardFilter{Role: &role})
			if err != nil {
				h.renderError(c, err)
				return
			}
			stats = append(stats, homeStat{Label: role.DisplayName() + "s", Value: n})
		}
	}

	h.render(c, http.StatusOK, "home.html", "Dashboard", homeData{Granted: granted.Granted(), Stats: stats})
}

/****************************
*          Rendering        *
****************************/

type navEntry struct {
	item            view.NavItem
	perm            domain.Permission
	grandmasterOnly bool
}

var navEntries = []navEntry{
	{item: view.NavItem{Label: "Wizards", Icon: "🧙", Path: "/dashboard/wizards"}, perm: domain.PermWizardsView},
	{item: view.NavItem{Label: "Roles", Icon: "📜", Path: "/dashboard/roles"}, grandmasterOnly: true},
	{item: view.NavItem{Label: "Spells", Icon: "🪄", Path: "/dashboard/spells"}, perm: domain.PermSpellsView},
	{item: view.NavItem{Label: "Create Spell", Icon: "✨", Path: "/dashboard/spells/new"}, perm: domain.PermSpellsAdd},
	{item: view.NavItem{Label: "Add Wizard", Icon: "➕", Path: "/dashboard/wizards/new"}, perm: domain.PermWizardsAdd},
}

func (h *DashboardHandler) nav(session *domain.Session, doc *domain.RolesDocument, current string) []view.NavItem {
	if session == nil {
		return nil
	}
	return lo.FilterMap(navEntries, func(e navEntry, _ int) (view.NavItem, bool) {
		if e.grandmasterOnly && !session.IsGrandmaster() {
			return view.NavItem{}, false
		}
		if e.perm != "" && !doc.Allows(session.Role, e.perm) {
			return view.NavItem{}, false
		}
		item := e.item
		item.Active = item.Path == current
		return item, true
	})
}

// granted returns the live permissions of the acting wizard's role.
func (h *DashboardHandler) granted(c *gin.Context) domain.Permissions {
	session := common.GetSessionFromCtx(c)
	if session == nil {
		return domain.Permissions{}
	}
	if session.IsGrandmaster() {
		return domain.FullPermissions()
	}
	doc := rolesDocFromCtx(c)
	if doc == nil {
		return domain.Permissions{}
	}
	if perms := doc.PermissionsFor(session.Role); perms != nil {
		return *perms
	}
	return domain.Permissions{}
}

func (h *DashboardHandler) render(c *gin.Context, status int, page, title string, data any) {
	session := common.GetSessionFromCtx(c)
	td := view.TemplateData{
		Title:       title,
		CurrentPath: c.Request.URL.Path,
		Flash:       h.popFlash(c),
		Session:     session,
		Granted:     h.granted(c),
		Nav:         h.nav(session, rolesDocFromCtx(c), c.Request.URL.Path),
		Data:        data,
	}
	if err := h.engine.Render(c.Writer, status, page, td); err != nil {
		h.logger.ErrorContext(c.Request.Context(), "Failed to render page",
			log.String("page", page),
			log.Error(err),
		)
		c.String(http.StatusInternalServerError, "failed to render page")
	}
}

type errorData struct {
	Status  int
	Title   string
	Message string
}

func (h *DashboardHandler) renderError(c *gin.Context, err error) {
	dErr, ok := common.IsDetailError(err)
	if !ok {
		h.logger.ErrorContext(c.Request.Context(), "Unhandled dashboard error",
			log.String("path", c.Request.URL.Path),
			log.Error(err),
		)
		dErr = domain.ErrInternalServerError.WithWrap(err)
	}
	status := dErr.StatusCode()
	h.render(c, status, "error.html", http.StatusText(status), errorData{
		Status:  status,
		Title:   http.StatusText(status),
		Message: dErr.Error(),
	})
}

func (h *DashboardHandler) setFlash(c *gin.Context, kind, message string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(flashCookie, kind+"|"+message, 60, "/", "", h.config.SecureCookies, true)
}

func (h *DashboardHandler) popFlash(c *gin.Context) *view.Flash {
	value, err := c.Cookie(flashCookie)
	if err != nil || value == "" {
		return nil
	}
	c.SetCookie(flashCookie, "", -1, "/", "", h.config.SecureCookies, true)

	kind, message, found := strings.Cut(value, "|")
	if !found {
		return nil
	}
	return &view.Flash{Kind: kind, Message: message}
}
