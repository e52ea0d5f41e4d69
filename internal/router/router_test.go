package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kandebooths/packer-service/internal/config"
	"github.com/kandebooths/packer-service/internal/handler"
	"github.com/kandebooths/packer-service/internal/middleware"
	"github.com/kandebooths/packer-service/internal/model"
	"github.com/kandebooths/packer-service/internal/repository"
	"github.com/kandebooths/packer-service/internal/service"
	"github.com/kandebooths/packer-service/internal/utils"
)

const secret = "router-secret"

type fixedFetcher struct{}

func (fixedFetcher) FetchDashboard(context.Context) (*model.Dashboard, error) {
	return &model.Dashboard{
		Events: []model.Event{{
			ID:        "e1",
			Title:     "Smith Wedding",
			EventType: "Wedding",
			EventDate: "2025-06-14",
			Services:  []model.Service{{Name: "Bronze Package", Quantity: 1}},
		}},
		LastUpdated: time.Now(),
	}, nil
}

func newServer(t *testing.T) *echo.Echo {
	t.Helper()
	store, err := repository.NewFileBlobStore(t.TempDir())
	require.NoError(t, err)
	events := service.NewEventCache(fixedFetcher{}, time.Minute)
	catalog := service.NewCatalogService(repository.NewCatalogRepo(store))
	svc := service.NewChecklistService(repository.NewChecklistRepo(store), events, catalog, nil)

	auth, err := handler.NewAuthHandler(config.Config{JWTSecret: secret, AccessTTLMin: 5, BcryptCost: 4, AdminPassword: "pw"})
	require.NoError(t, err)
	ev := handler.NewEventsHandler(events, svc, config.StaffRoster{}, "")
	cl := handler.NewChecklistHandler(svc, nil)

	e := echo.New()
	RegisterRoutes(e, events, handler.NewPublicHandler(events, svc), middleware.NewRedisCache(config.CacheConfig{}, nil))
	RegisterAuth(e, auth, ev)
	RegisterStaff(e, ev, cl, secret, middleware.NewTokenBucket(config.RateLimitConfig{}, nil))
	RegisterAdmin(e, ev, cl, handler.NewCatalogHandler(catalog), secret)
	return e
}

func bearer(t *testing.T, sub, role string) string {
	t.Helper()
	tok, err := utils.NewAccessToken(secret, sub, role, time.Minute)
	require.NoError(t, err)
	return "Bearer " + tok.Token
}

func call(e *echo.Echo, method, path, auth, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if auth != "" {
		req.Header.Set(echo.HeaderAuthorization, auth)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestRoutes_Public(t *testing.T) {
	e := newServer(t)

	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/api/health", "", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/metrics", "", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/event/e1", "", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/api/staff-list/packer", "", "").Code)
}

func TestRoutes_RequireToken(t *testing.T) {
	e := newServer(t)

	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodGet, "/api/events", "", "").Code)
	assert.Equal(t, http.StatusUnauthorized, call(e, http.MethodGet, "/api/checklist/e1", "Bearer junk", "").Code)
	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/api/checklist/e1", bearer(t, "c-1", model.RoleStaff), "").Code)
}

func TestRoutes_LoginThenUseToken(t *testing.T) {
	e := newServer(t)

	rec := call(e, http.MethodPost, "/api/auth/login", "", `{"password":"pw"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	token := strings.Split(strings.Split(rec.Body.String(), `"token":"`)[1], `"`)[0]

	assert.Equal(t, http.StatusOK, call(e, http.MethodGet, "/api/events", "Bearer "+token, "").Code)
}

func TestRoutes_AdminOnly(t *testing.T) {
	e := newServer(t)
	staff := bearer(t, "c-1", model.RoleStaff)
	admin := bearer(t, "admin", model.RoleAdmin)

	for _, r := range []struct{ method, path string }{
		{http.MethodPost, "/api/checklist/e1/packer/reset"},
		{http.MethodGet, "/api/packer-config"},
		{http.MethodPost, "/api/refresh"},
	} {
		assert.Equal(t, http.StatusForbidden, call(e, r.method, r.path, staff, "").Code, r.path)
		assert.Equal(t, http.StatusOK, call(e, r.method, r.path, admin, "").Code, r.path)
	}
}

func TestRoutes_StaffChecklistFlow(t *testing.T) {
	e := newServer(t)
	staff := bearer(t, "c-1", model.RoleStaff)

	rec := call(e, http.MethodPost, "/api/checklist/e1/packer/items/auto_0", staff, `{"completed":true,"completed_by":"Sam"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodPost, "/api/checklist/e1/custom-item", staff, `{"text":"Tripod"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = call(e, http.MethodPost, "/api/checklist/e1/packer/submit", staff, `{"staff_member":"Sam"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
