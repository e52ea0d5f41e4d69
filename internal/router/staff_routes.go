package router

import (
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/kandebooths/packer-service/internal/handler"
	"github.com/kandebooths/packer-service/internal/middleware"
	"github.com/kandebooths/packer-service/internal/model"
)

// RegisterStaff registers the dashboard endpoints open to any signed-in
// user.  submitLimit throttles checklist submission.
func RegisterStaff(e *echo.Echo, ev *handler.EventsHandler, cl *handler.ChecklistHandler, jwtSecret string, submitLimit echo.MiddlewareFunc) {
	g := e.Group(
		"/api",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole(model.RoleStaff, model.RoleAdmin),
	)
	g.GET("/events", ev.List)
	g.GET("/staff", ev.Staff)

	c := g.Group("/checklist/:eventId")
	c.GET("", cl.Get)
	c.POST("/:type/submit", cl.Submit, submitLimit, echomw.BodyLimit("10M"))
	c.POST("/:type/items/:itemId", cl.Toggle)
	c.POST("/notes/:type", cl.SetNotes)
	c.POST("/subcontractor", cl.SetSubcontractor)
	c.POST("/internal-notes", cl.SetInternalNotes)
	c.POST("/custom-item", cl.AddCustomItem)
	c.DELETE("/custom-item/:itemId", cl.RemoveItem)
	c.PUT("/packer-item/:itemId", cl.EditItem)
	c.DELETE("/packer-item/:itemId", cl.RemoveItem)
	c.POST("/regenerate-packer", cl.Regenerate)
	c.POST("/backdrop", cl.SetBackdrop)
	c.POST("/backdrop-image", cl.SetBackdropImage, echomw.BodyLimit("50M"))
	c.DELETE("/backdrop-image", cl.ClearBackdropImage)
	c.POST("/hidden-services", cl.SetHiddenService)
}
