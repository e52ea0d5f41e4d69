package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/kandebooths/packer-service/internal/config"
	"github.com/kandebooths/packer-service/internal/model"
)

const testSecret = "test-secret"

func newAuthEcho(t *testing.T, staffPassword string) *echo.Echo {
	t.Helper()
	h, err := NewAuthHandler(config.Config{
		JWTSecret:     testSecret,
		AccessTTLMin:  60,
		BcryptCost:    bcrypt.MinCost,
		AdminPassword: "admin-pass",
		StaffPassword: staffPassword,
	})
	require.NoError(t, err)
	e := echo.New()
	e.POST("/api/auth/login", h.Login)
	return e
}

func login(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/auth/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func claimsOf(t *testing.T, rec *httptest.ResponseRecorder) (loginResp, jwt.MapClaims) {
	t.Helper()
	var resp loginResp
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(resp.Access.Token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte(testSecret), nil
	})
	require.NoError(t, err)
	return resp, claims
}

func TestAuthHandler_Login_Admin(t *testing.T) {
	e := newAuthEcho(t, "staff-pass")

	rec := login(e, `{"password":"admin-pass"}`)

	require.Equal(t, http.StatusOK, rec.Code)
	resp, claims := claimsOf(t, rec)
	assert.Equal(t, model.RoleAdmin, resp.Role)
	assert.True(t, resp.IsAdmin)
	assert.False(t, resp.Access.Expires.IsZero())
	assert.Equal(t, "admin", claims["sub"])
	assert.Equal(t, model.RoleAdmin, claims["role"])
}

func TestAuthHandler_Login_Staff(t *testing.T) {
	e := newAuthEcho(t, "staff-pass")

	rec := login(e, `{"password":"staff-pass","staff_id":" c-1 "}`)
	require.Equal(t, http.StatusOK, rec.Code)
	resp, claims := claimsOf(t, rec)
	assert.Equal(t, model.RoleStaff, resp.Role)
	assert.False(t, resp.IsAdmin)
	assert.Equal(t, "c-1", claims["sub"])

	rec = login(e, `{"password":"staff-pass"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	_, claims = claimsOf(t, rec)
	assert.Equal(t, "staff", claims["sub"])
}

func TestAuthHandler_Login_Rejected(t *testing.T) {
	cases := []struct {
		name  string
		staff string
		body  string
		code  int
	}{
		{"empty password", "staff-pass", `{"password":""}`, http.StatusBadRequest},
		{"malformed", "staff-pass", `{"password":`, http.StatusBadRequest},
		{"wrong password", "staff-pass", `{"password":"nope"}`, http.StatusUnauthorized},
		{"staff login disabled", "", `{"password":"staff-pass"}`, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := login(newAuthEcho(t, tc.staff), tc.body)
			assert.Equal(t, tc.code, rec.Code)
		})
	}
}
