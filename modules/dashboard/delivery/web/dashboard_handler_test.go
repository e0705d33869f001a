package web

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/middleware"
	"wiz-academy/pkg/log"
	"wiz-academy/pkg/view"
	"wiz-academy/validator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubRoles struct {
	domain.RoleUsecase
	doc      *domain.RolesDocument
	replaced *domain.RolesDocument
}

func (s *stubRoles) Get(context.Context) (*domain.RolesDocument, error) {
	if s.doc == nil {
		return nil, domain.ErrRolesNotFound
	}
	return s.doc, nil
}

func (s *stubRoles) Replace(_ context.Context, doc *domain.RolesDocument) (*domain.RolesDocument, error) {
	cp := *doc
	cp.Normalize()
	s.replaced = &cp
	s.doc = &cp
	return &cp, nil
}

func (s *stubRoles) Toggle(ctx context.Context, role domain.Role, perm domain.Permission) (*domain.RolesDocument, error) {
	cp := *s.doc
	if err := cp.Toggle(role, perm); err != nil {
		return nil, err
	}
	return s.Replace(ctx, &cp)
}

type stubSessions struct {
	domain.SessionUsecase
	sessions map[string]*domain.Session
	ended    []string
}

func (s *stubSessions) Get(_ context.Context, id string) (*domain.Session, error) {
	if session, ok := s.sessions[id]; ok {
		return session, nil
	}
	return nil, domain.ErrSessionNotFound
}

func (s *stubSessions) Refresh(ctx context.Context, id string) (*domain.Session, error) {
	return s.Get(ctx, id)
}

func (s *stubSessions) Start(_ context.Context, wizardID string) (*domain.Session, error) {
	if wizardID != "2" {
		return nil, domain.ErrWizardNotFound
	}
	session := &domain.Session{ID: "new", Wizard: domain.Wizard{ID: "2", Name: "Thorne"}, Role: domain.RoleMaster}
	s.sessions[session.ID] = session
	return session, nil
}

func (s *stubSessions) End(_ context.Context, id string) error {
	s.ended = append(s.ended, id)
	delete(s.sessions, id)
	return nil
}

type stubSpells struct {
	domain.SpellUsecase
	created []*domain.SpellCreateRequest
}

func (s *stubSpells) Search(context.Context, *domain.SpellQuery) ([]*domain.Spell, *domain.Pagination, error) {
	spells := []*domain.Spell{{ID: "s-1", Name: "Fireball", Type: "Fire", DifficultyLevel: domain.DifficultyHard}}
	return spells, domain.NewPagination(1, 10, 1, 1), nil
}

func (s *stubSpells) Create(_ context.Context, req *domain.SpellCreateRequest) (*domain.Spell, error) {
	s.created = append(s.created, req)
	return &domain.Spell{ID: "s-2", Name: req.Name}, nil
}

func (s *stubSpells) Count(_ context.Context, filter *domain.SpellFilter) (int64, error) {
	if filter.CreatedBy != nil {
		return 1, nil
	}
	return 7, nil
}

type stubWizards struct {
	domain.WizardUsecase
}

func (s *stubWizards) Count(_ context.Context, filter *domain.WizardFilter) (int64, error) {
	if filter.Role == nil {
		return 12, nil
	}
	switch *filter.Role {
	case domain.RoleGrandmaster:
		return 1, nil
	case domain.RoleMaster:
		return 4, nil
	}
	return 7, nil
}

type fixture struct {
	router *gin.Engine
	roles  *stubRoles
	spells *stubSpells
	sess   *stubSessions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	validator.RegisterValidatorWithGin()

	doc := domain.DefaultRolesDocument()
	doc.Master.SpellsView = true

	f := &fixture{
		roles:  &stubRoles{doc: doc},
		spells: &stubSpells{},
		sess: &stubSessions{sessions: map[string]*domain.Session{
			"gm":     {ID: "gm", Wizard: domain.Wizard{Name: "Aldric"}, Role: domain.RoleGrandmaster},
			"master": {ID: "master", Wizard: domain.Wizard{Name: "Thorne"}, Role: domain.RoleMaster},
			"novice": {ID: "novice", Wizard: domain.Wizard{Name: "Elara"}, Role: domain.RoleNovice},
		}},
	}

	engine, err := view.NewEngine()
	require.NoError(t, err)

	mw := middleware.NewMiddlewares(middleware.Dependencies{Sessions: f.sess, Roles: f.roles})
	f.router = gin.New()
	NewDashboardHandler(f.spells, &stubWizards{}, f.roles, f.sess, mw, engine, Config{
		NoviceWizardID:      "12",
		MasterWizardID:      "2",
		GrandmasterWizardID: "1",
	}, log.NewNopLogger()).RegisterRoutes(&f.router.RouterGroup)
	return f
}

func (f *fixture) do(method, target, session string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	if session != "" {
		req.Header.Set(common.SessionHeader, session)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func TestLanding_ShowsLivePermissions(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `href="/dashboard/12"`)
	assert.Contains(t, body, `href="/dashboard/2"`)
	assert.Contains(t, body, `href="/dashboard/1"`)
	assert.Contains(t, body, "No permissions granted")
	assert.Contains(t, body, "View spells")
	assert.Contains(t, body, "Delete wizards")
}

func TestEnter_StartsSession(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/dashboard/2", "novice", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))
	assert.Contains(t, w.Header().Values("Set-Cookie")[0], common.SessionCookie+"=new")
	assert.Equal(t, []string{"novice"}, f.sess.ended)

	w = f.do(http.MethodGet, "/dashboard/404", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Wizard not found")
}

func TestHome_CountsOnlyViewableCollections(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/dashboard", "gm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "<dt>Spells</dt><dd>7</dd>")
	assert.Contains(t, body, "<dt>Spells you created</dt><dd>1</dd>")
	assert.Contains(t, body, "<dt>Wizards</dt><dd>12</dd>")
	assert.Contains(t, body, "<dt>Masters</dt><dd>4</dd>")

	w = f.do(http.MethodGet, "/dashboard", "master", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "<dt>Spells</dt><dd>7</dd>")
	assert.NotContains(t, body, "<dt>Wizards</dt>")

	w = f.do(http.MethodGet, "/dashboard", "novice", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, w.Body.String(), "Academy at a glance")
}

func TestPages_RequireSession(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/dashboard/spells", "", nil)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))
}

func TestSpellsPage_HidesAffordancesTheRoleLacks(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/dashboard/spells", "novice", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/dashboard/spells", "master", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "Fireball")
	assert.NotContains(t, body, "/dashboard/spells/new")
	assert.NotContains(t, body, "/dashboard/spells/s-1/edit")
	assert.NotContains(t, body, "/dashboard/spells/s-1/delete")
	assert.NotContains(t, body, "/dashboard/roles")

	w = f.do(http.MethodGet, "/dashboard/spells", "gm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	assert.Contains(t, body, "/dashboard/spells/new")
	assert.Contains(t, body, "/dashboard/spells/s-1/edit")
	assert.Contains(t, body, "/dashboard/spells/s-1/delete")
	assert.Contains(t, body, "/dashboard/roles")
}

func TestSpellCreate(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/dashboard/spells", "gm", url.Values{"name": {"  "}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, f.spells.created)

	w = f.do(http.MethodPost, "/dashboard/spells", "master", url.Values{"name": {"Frost Nova"}})
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodPost, "/dashboard/spells", "gm", url.Values{
		"name":             {"Frost Nova"},
		"type":             {"Ice"},
		"steps":            {"chill the air\r\n\r\nrelease"},
		"difficulty_level": {"Medium"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.Len(t, f.spells.created, 1)
	assert.Equal(t, []string{"chill the air", "release"}, f.spells.created[0].Steps)
	assert.Equal(t, domain.DifficultyMedium, f.spells.created[0].DifficultyLevel)
}

func TestRolesPage(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodGet, "/dashboard/roles", "master", nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = f.do(http.MethodGet, "/dashboard/roles", "gm", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `name="grandmaster.spells-view"`)
	assert.Contains(t, w.Body.String(), "disabled")

	w = f.do(http.MethodPost, "/dashboard/roles", "gm", url.Values{
		"novice.spells-view":   {"true"},
		"master.wizards-add":   {"true"},
		"master.unknown-thing": {"true"},
	})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, f.roles.replaced)
	assert.Equal(t, domain.Permissions{SpellsView: true}, f.roles.replaced.Novice)
	assert.Equal(t, domain.Permissions{WizardsAdd: true}, f.roles.replaced.Master)
	assert.Equal(t, domain.FullPermissions(), f.roles.replaced.Grandmaster)
}

func TestRolesToggle(t *testing.T) {
	f := newFixture(t)

	w := f.do(http.MethodPost, "/dashboard/roles/toggle", "master", url.Values{"cell": {"novice.spells-view"}})
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Nil(t, f.roles.replaced)

	w = f.do(http.MethodPost, "/dashboard/roles/toggle", "gm", url.Values{"cell": {"novice.spells-view"}})
	assert.Equal(t, http.StatusSeeOther, w.Code)
	require.NotNil(t, f.roles.replaced)
	assert.True(t, f.roles.replaced.Novice.SpellsView)
	assert.True(t, f.roles.replaced.Master.SpellsView)

	w = f.do(http.MethodPost, "/dashboard/roles/toggle", "gm", url.Values{"cell": {"novice"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = f.do(http.MethodPost, "/dashboard/roles/toggle", "gm", url.Values{"cell": {"archmage.spells-view"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
