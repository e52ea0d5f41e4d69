package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kandebooths/packer-service/internal/packer"
	"github.com/kandebooths/packer-service/internal/service"
)

// CatalogHandler lets admins read and replace the service → equipment
// catalog.
type CatalogHandler struct {
	svc *service.CatalogService
}

func NewCatalogHandler(svc *service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

func (h *CatalogHandler) Get(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Catalog())
}

type catalogReq struct {
	Corporate    *packer.Tier `json:"corporate"`
	NonCorporate *packer.Tier `json:"nonCorporate"`
}

// Save replaces the catalog.  Both tiers must be present; existing
// checklists change only when regenerated.
func (h *CatalogHandler) Save(c echo.Context) error {
	var req catalogReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if req.Corporate == nil || req.NonCorporate == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "corporate and nonCorporate are required"})
	}
	cat := &packer.Catalog{Corporate: *req.Corporate, NonCorporate: *req.NonCorporate}
	if err := h.svc.Save(c.Request().Context(), cat); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "message": "configuration saved"})
}
