package api

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"wiz-academy/common"
	"wiz-academy/domain"
	"wiz-academy/middleware"
	"wiz-academy/modules/session/usecase"
	"wiz-academy/pkg/cache"
	"wiz-academy/pkg/log"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubWizards struct {
	domain.WizardUsecase
}

func (stubWizards) FindByID(_ context.Context, id string) (*domain.Wizard, error) {
	if id != "1" {
		return nil, domain.ErrWizardNotFound
	}
	return &domain.Wizard{ID: "1", Name: "Albus", Role: domain.RoleGrandmaster}, nil
}

type stubRoles struct {
	domain.RoleUsecase
}

func (stubRoles) Get(context.Context) (*domain.RolesDocument, error) {
	return domain.DefaultRolesDocument(), nil
}

func newRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	client := cache.NewMemoryCache(&cache.Config{}, common.NewLoggerAdapter(log.NewNopLogger()))
	t.Cleanup(func() { _ = client.Close() })

	sessions := usecase.NewSessionUsecase(stubWizards{}, stubRoles{}, client, time.Hour, nil)
	mw := middleware.NewMiddlewares(middleware.Dependencies{Cache: client, Sessions: sessions, Roles: stubRoles{}})
	r := gin.New()
	NewSessionHandler(sessions, mw, false).RegisterRoutes(r.Group("/api"))
	return r
}

func TestSessionHandler_Lifecycle(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(`{"wizard_id":"1"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, common.SessionCookie, cookies[0].Name)
	sessionID := cookies[0].Value

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.AddCookie(&http.Cookie{Name: common.SessionCookie, Value: sessionID})
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"Albus"`)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodDelete, "/api/session", nil)
	req.Header.Set(common.SessionHeader, sessionID)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/session", nil)
	req.Header.Set(common.SessionHeader, sessionID)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "SESSION_NOT_FOUND")
}

func TestSessionHandler_StartUnknownWizard(t *testing.T) {
	r := newRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/session", bytes.NewBufferString(`{"wizard_id":"99"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
