package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kandebooths/packer-service/internal/model"
)

// Health is the liveness probe.
func Health(c echo.Context) error {
	return c.String(http.StatusOK, "ok")
}

// SnapshotSource exposes the cached upstream snapshot without fetching.
type SnapshotSource interface {
	Snapshot() *model.Dashboard
}

// APIHealth reports whether event data is cached and how old it is.
func APIHealth(events SnapshotSource) echo.HandlerFunc {
	return func(c echo.Context) error {
		snap := events.Snapshot()
		body := echo.Map{"status": "ok", "cached": snap != nil, "last_updated": nil}
		if snap != nil {
			body["last_updated"] = snap.LastUpdated
		}
		return c.JSON(http.StatusOK, body)
	}
}
