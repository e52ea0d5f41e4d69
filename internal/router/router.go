// Package router registers the HTTP routes and their middleware.
package router

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/kandebooths/packer-service/internal/handler"
)

// RegisterRoutes registers the unauthenticated endpoints.  pageCache wraps
// the public event page.
func RegisterRoutes(e *echo.Echo, events handler.SnapshotSource, pub *handler.PublicHandler, pageCache echo.MiddlewareFunc) {
	e.GET("/healthz", handler.Health)
	e.GET("/api/health", handler.APIHealth(events))
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.GET("/event/:eventId", pub.EventPage, pageCache)
}

// RegisterAuth registers login and the roster lookup used on the login and
// signature screens.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, ev *handler.EventsHandler) {
	e.POST("/api/auth/login", a.Login)
	e.GET("/api/staff-list/:type", ev.StaffList)
}
