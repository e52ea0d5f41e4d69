package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kandebooths/packer-service/internal/handler"
	"github.com/kandebooths/packer-service/internal/middleware"
	"github.com/kandebooths/packer-service/internal/model"
)

// RegisterAdmin registers endpoints restricted to the ADMIN role.
func RegisterAdmin(e *echo.Echo, ev *handler.EventsHandler, cl *handler.ChecklistHandler, cat *handler.CatalogHandler, jwtSecret string) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleAdmin),
	)
	g.POST("/checklist/:eventId/:type/reset", cl.Reset)
	g.GET("/packer-config", cat.Get)
	g.POST("/packer-config", cat.Save, echomw.BodyLimit("5M"))
	g.POST("/refresh", ev.Refresh)
}
