package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kandebooths/packer-service/internal/config"
	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
	"github.com/kandebooths/packer-service/internal/utils"
)

// AuthHandler exchanges the shared dashboard passwords for access tokens.
// Only bcrypt hashes of the passwords are kept after construction.
type AuthHandler struct {
	secret    string
	ttl       time.Duration
	adminHash string
	staffHash string
}

// NewAuthHandler hashes the configured passwords.  An empty staff password
// disables staff login.
func NewAuthHandler(cfg config.Config) (*AuthHandler, error) {
	h := &AuthHandler{secret: cfg.JWTSecret, ttl: time.Duration(cfg.AccessTTLMin) * time.Minute}
	var err error
	if h.adminHash, err = utils.HashPassword(cfg.AdminPassword, cfg.BcryptCost); err != nil {
		return nil, err
	}
	if cfg.StaffPassword != "" {
		if h.staffHash, err = utils.HashPassword(cfg.StaffPassword, cfg.BcryptCost); err != nil {
			return nil, err
		}
	}
	return h, nil
}

type loginReq struct {
	Password string `json:"password"`
	StaffID  string `json:"staff_id"`
}

type tokenPart struct {
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

type loginResp struct {
	Access  tokenPart `json:"access"`
	Role    string    `json:"role"`
	IsAdmin bool      `json:"is_admin"`
}

// Login checks the password against the admin hash first, then the staff
// hash.  Staff tokens carry the upstream contact id as subject when given.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if req.Password == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "password required"})
	}

	var sub, role string
	switch {
	case utils.VerifyPassword(h.adminHash, req.Password):
		sub, role = "admin", model.RoleAdmin
	case utils.VerifyPassword(h.staffHash, req.Password):
		sub, role = strings.TrimSpace(req.StaffID), model.RoleStaff
		if sub == "" {
			sub = "staff"
		}
	default:
		logger.Warn("login rejected", map[string]interface{}{"remote_ip": c.RealIP()})
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "invalid credentials"})
	}

	access, err := utils.NewAccessToken(h.secret, sub, role, h.ttl)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "issue access failed"})
	}
	return c.JSON(http.StatusOK, loginResp{
		Access:  tokenPart{Token: access.Token, Expires: access.Exp},
		Role:    role,
		IsAdmin: role == model.RoleAdmin,
	})
}
