package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
)

// writeError maps domain errors to status codes and the JSON error body.
func writeError(c echo.Context, err error) error {
	var inc *model.IncompleteError
	switch {
	case errors.As(err, &inc):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": model.ErrIncomplete.Error(), "missing": inc.Missing})
	case errors.Is(err, model.ErrEventNotFound),
		errors.Is(err, model.ErrChecklistNotFound),
		errors.Is(err, model.ErrItemNotFound):
		return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrInvalidKind), errors.Is(err, model.ErrValidation):
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrAlreadySubmitted):
		return c.JSON(http.StatusConflict, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrForbidden):
		return c.JSON(http.StatusForbidden, echo.Map{"error": err.Error()})
	case errors.Is(err, model.ErrNoEventData):
		return c.JSON(http.StatusServiceUnavailable, echo.Map{"error": err.Error()})
	}
	logger.Error("request failed", map[string]interface{}{
		"method": c.Request().Method,
		"path":   c.Path(),
		"error":  err.Error(),
	})
	return c.JSON(http.StatusInternalServerError, echo.Map{"error": "internal error"})
}

func badBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
}
