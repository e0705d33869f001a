package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"wiz-academy/common"
	"wiz-academy/domain"
	sessionusecase "wiz-academy/modules/session/usecase"
	"wiz-academy/pkg/cache"
	"wiz-academy/pkg/log"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubSessions struct {
	domain.SessionUsecase
	sessions map[string]*domain.Session
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

type stubRoles struct {
	domain.RoleUsecase
	doc *domain.RolesDocument
}

func (s *stubRoles) Get(context.Context) (*domain.RolesDocument, error) {
	return s.doc, nil
}

func newGate(enforce bool) (Middlewares, *stubRoles) {
	doc := domain.DefaultRolesDocument()
	doc.Master.SpellsView = true
	roles := &stubRoles{doc: doc}
	sessions := &stubSessions{sessions: map[string]*domain.Session{
		"novice": {ID: "novice", Role: domain.RoleNovice, Wizard: domain.Wizard{ID: "12"}},
		"master": {ID: "master", Role: domain.RoleMaster, Wizard: domain.Wizard{ID: "2"}},
		"gm":     {ID: "gm", Role: domain.RoleGrandmaster, Wizard: domain.Wizard{ID: "1"}},
	}}
	return NewMiddlewares(Dependencies{
		Sessions:           sessions,
		Roles:              roles,
		EnforcePermissions: enforce,
	}), roles
}

func serveGate(h gin.HandlerFunc, session string) *httptest.ResponseRecorder {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/gated", h, func(c *gin.Context) { c.Status(http.StatusNoContent) })

	req := httptest.NewRequest(http.MethodGet, "/gated", nil)
	if session != "" {
		req.AddCookie(&http.Cookie{Name: common.SessionCookie, Value: session})
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequirePermission(t *testing.T) {
	mw, roles := newGate(false)
	gate := mw.RequirePermission(domain.PermSpellsView)

	assert.Equal(t, http.StatusNoContent, serveGate(gate, "master").Code)
	assert.Equal(t, http.StatusForbidden, serveGate(gate, "novice").Code)
	assert.Equal(t, http.StatusNoContent, serveGate(gate, "gm").Code)
	assert.Equal(t, http.StatusNoContent, serveGate(gate, "").Code)

	// the live document decides, not the snapshot taken at session start
	roles.doc.Novice.SpellsView = true
	assert.Equal(t, http.StatusNoContent, serveGate(gate, "novice").Code)
}

func TestRequirePermission_Enforced(t *testing.T) {
	mw, _ := newGate(true)
	gate := mw.RequirePermission(domain.PermSpellsView)

	assert.Equal(t, http.StatusUnauthorized, serveGate(gate, "").Code)
	assert.Equal(t, http.StatusUnauthorized, serveGate(gate, "expired").Code)
	assert.Equal(t, http.StatusNoContent, serveGate(gate, "master").Code)
}

func TestRequireRole(t *testing.T) {
	mw, _ := newGate(false)
	gate := mw.RequireRole(domain.RoleGrandmaster)

	assert.Equal(t, http.StatusNoContent, serveGate(gate, "gm").Code)
	assert.Equal(t, http.StatusForbidden, serveGate(gate, "master").Code)
}

type memoryWizards struct {
	domain.WizardUsecase
	wizards map[string]*domain.Wizard
}

func (s *memoryWizards) FindByID(_ context.Context, id string) (*domain.Wizard, error) {
	if w, ok := s.wizards[id]; ok {
		cp := *w
		return &cp, nil
	}
	return nil, domain.ErrWizardNotFound
}

func TestRequireRole_FollowsWizardRecord(t *testing.T) {
	client := cache.NewMemoryCache(&cache.Config{}, common.NewLoggerAdapter(log.NewNopLogger()))
	t.Cleanup(func() { _ = client.Close() })

	wizards := &memoryWizards{wizards: map[string]*domain.Wizard{
		"1": {ID: "1", Name: "Aldric", Role: domain.RoleGrandmaster},
	}}
	roles := &stubRoles{doc: domain.DefaultRolesDocument()}
	sessions := sessionusecase.NewSessionUsecase(wizards, roles, client, time.Hour, nil)
	session, err := sessions.Start(context.Background(), "1")
	require.NoError(t, err)

	mw := NewMiddlewares(Dependencies{Sessions: sessions, Roles: roles, EnforcePermissions: true})
	gate := mw.RequireRole(domain.RoleGrandmaster)
	assert.Equal(t, http.StatusNoContent, serveGate(gate, session.ID).Code)

	wizards.wizards["1"].Role = domain.RoleNovice
	assert.Equal(t, http.StatusForbidden, serveGate(gate, session.ID).Code)

	delete(wizards.wizards, "1")
	assert.Equal(t, http.StatusUnauthorized, serveGate(gate, session.ID).Code)
	_, err = sessions.Get(context.Background(), session.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestRequireSession(t *testing.T) {
	mw, _ := newGate(false)

	w := serveGate(mw.RequireSession(), "unknown")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), common.SessionCookie+"=;")
}

func TestRateLimit(t *testing.T) {
	mr := miniredis.RunT(t)
	port, err := strconv.Atoi(mr.Port())
	require.NoError(t, err)
	client, err := cache.NewCacheFactory(common.NewLoggerAdapter(log.NewNopLogger())).
		CreateCache(cache.Redis, &cache.Config{Host: mr.Host(), Port: port})
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	mw := NewMiddlewares(Dependencies{Cache: client})
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw.RateLimit(RateLimitConfig{MaxRequests: 2, WindowSize: time.Minute}))
	r.GET("/api/spells", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	hit := func() *httptest.ResponseRecorder {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/spells", nil))
		return w
	}

	assert.Equal(t, http.StatusNoContent, hit().Code)
	assert.Equal(t, http.StatusNoContent, hit().Code)
	w := hit()
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))

	mr.FastForward(2 * time.Minute)
	assert.Equal(t, http.StatusNoContent, hit().Code)
}

func TestWriteRateLimitsSkipsReads(t *testing.T) {
	client := cache.NewMemoryCache(&cache.Config{}, common.NewLoggerAdapter(log.NewNopLogger()))
	t.Cleanup(func() { _ = client.Close() })

	mw := NewMiddlewares(Dependencies{
		Cache:          client,
		WriteRateLimit: RateLimitConfig{MaxRequests: 1},
	})
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(mw.WriteRateLimits())
	r.Any("/api/spells", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	for i := 0; i < 3; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/spells", nil))
		assert.Equal(t, http.StatusNoContent, w.Code)
	}

	codes := make([]int, 0, 2)
	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/spells", nil))
		codes = append(codes, w.Code)
	}
	assert.Equal(t, []int{http.StatusNoContent, http.StatusTooManyRequests}, codes)
}
