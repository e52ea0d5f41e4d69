package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kandebooths/packer-service/internal/middleware"
	"github.com/kandebooths/packer-service/internal/model"
	"github.com/kandebooths/packer-service/internal/service"
)

// PageInvalidator drops any cached public page for an event.
type PageInvalidator func(ctx context.Context, eventID string)

// ChecklistHandler exposes the checklist lifecycle.
type ChecklistHandler struct {
	svc        *service.ChecklistService
	invalidate PageInvalidator
}

// NewChecklistHandler wires the service.  invalidate may be nil.
func NewChecklistHandler(svc *service.ChecklistService, invalidate PageInvalidator) *ChecklistHandler {
	if invalidate == nil {
		invalidate = func(context.Context, string) {}
	}
	return &ChecklistHandler{svc: svc, invalidate: invalidate}
}

func ok(c echo.Context, extra echo.Map) error {
	body := echo.Map{"success": true}
	for k, v := range extra {
		body[k] = v
	}
	return c.JSON(http.StatusOK, body)
}

// Get returns the checklist view, creating it on first access.
func (h *ChecklistHandler) Get(c echo.Context) error {
	view, err := h.svc.Get(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, view)
}

type toggleReq struct {
	Completed   bool   `json:"completed"`
	CompletedBy string `json:"completed_by"`
}

// Toggle marks one item done or not done.
func (h *ChecklistHandler) Toggle(c echo.Context) error {
	kind, err := model.ParseKind(c.Param("type"))
	if err != nil {
		return writeError(c, err)
	}
	var req toggleReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	item, err := h.svc.Toggle(c.Request().Context(), c.Param("eventId"), kind, c.Param("itemId"), req.Completed, req.CompletedBy)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, echo.Map{"item": item})
}

type submitReq struct {
	StaffMember         string `json:"staff_member"`
	EventTitle          string `json:"event_title"`
	EventDate           string `json:"event_date"`
	Signature           string `json:"signature"`
	ChecklistScreenshot string `json:"checklist_screenshot"`
	SendEmail           *bool  `json:"send_email"`
}

// Submit finalizes a checklist.  send_email defaults to true.
func (h *ChecklistHandler) Submit(c echo.Context) error {
	kind, err := model.ParseKind(c.Param("type"))
	if err != nil {
		return writeError(c, err)
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	send := true
	if req.SendEmail != nil {
		send = *req.SendEmail
	}
	rec, err := h.svc.Submit(c.Request().Context(), c.Param("eventId"), kind, service.SubmitRequest{
		StaffMember:         req.StaffMember,
		EventTitle:          req.EventTitle,
		EventDate:           req.EventDate,
		Signature:           req.Signature,
		ChecklistScreenshot: req.ChecklistScreenshot,
		SendEmail:           send,
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, echo.Map{"submitted_by": rec.SubmittedBy, "submitted_at": rec.SubmittedAt})
}

// Reset clears a submission.  Admin only.
func (h *ChecklistHandler) Reset(c echo.Context) error {
	kind, err := model.ParseKind(c.Param("type"))
	if err != nil {
		return writeError(c, err)
	}
	if err := h.svc.Reset(c.Request().Context(), c.Param("eventId"), kind, middleware.ActorFrom(c)); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

type notesReq struct {
	Notes string `json:"notes"`
}

// SetNotes saves the packer, attendant or packer-notes text.
func (h *ChecklistHandler) SetNotes(c echo.Context) error {
	var req notesReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := h.svc.SetNotes(c.Request().Context(), c.Param("eventId"), c.Param("type"), req.Notes); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

type subcontractorReq struct {
	Subcontractor string `json:"subcontractor"`
}

// SetSubcontractor records who staffs the event and drops the cached public page.
func (h *ChecklistHandler) SetSubcontractor(c echo.Context) error {
	var req subcontractorReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	id := c.Param("eventId")
	if err := h.svc.SetSubcontractor(c.Request().Context(), id, req.Subcontractor); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c.Request().Context(), id)
	return ok(c, nil)
}

type internalNotesReq struct {
	InternalNotes string `json:"internal_notes"`
}

// SetInternalNotes overrides the upstream attendant notes.
func (h *ChecklistHandler) SetInternalNotes(c echo.Context) error {
	var req internalNotesReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	id := c.Param("eventId")
	if err := h.svc.SetInternalNotes(c.Request().Context(), id, req.InternalNotes); err != nil {
		return writeError(c, err)
	}
	h.invalidate(c.Request().Context(), id)
	return ok(c, nil)
}

type customItemReq struct {
	Text     string `json:"text"`
	Required *bool  `json:"required"`
}

// AddCustomItem appends a hand-written item; required defaults to true.
func (h *ChecklistHandler) AddCustomItem(c echo.Context) error {
	var req customItemReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	required := true
	if req.Required != nil {
		required = *req.Required
	}
	item, items, err := h.svc.AddCustomItem(c.Request().Context(), c.Param("eventId"), req.Text, required)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, echo.Map{"item": item, "packer": items})
}

// EditItem renames a packer item or flips its required flag.
func (h *ChecklistHandler) EditItem(c echo.Context) error {
	var req customItemReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	item, items, err := h.svc.EditItem(c.Request().Context(), c.Param("eventId"), c.Param("itemId"), req.Text, req.Required)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, echo.Map{"item": item, "packer": items})
}

// RemoveItem deletes a custom or packer item.
func (h *ChecklistHandler) RemoveItem(c echo.Context) error {
	items, err := h.svc.RemoveItem(c.Request().Context(), c.Param("eventId"), c.Param("itemId"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, echo.Map{"packer": items})
}

// Regenerate rebuilds the packer list from the event's booked services.
func (h *ChecklistHandler) Regenerate(c echo.Context) error {
	res, err := h.svc.Regenerate(c.Request().Context(), c.Param("eventId"))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, echo.Map{
		"packer":           res.Packer,
		"event_type":       res.EventType,
		"is_corporate":     res.Corporate,
		"services_matched": res.ServicesMatched,
	})
}

type backdropReq struct {
	BackdropText string `json:"backdrop_text"`
}

// SetBackdrop saves the backdrop description.
func (h *ChecklistHandler) SetBackdrop(c echo.Context) error {
	var req backdropReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := h.svc.SetBackdrop(c.Request().Context(), c.Param("eventId"), req.BackdropText); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

type backdropImageReq struct {
	Image     string `json:"image"`
	ImageFull string `json:"image_full"`
}

// SetBackdropImage saves the backdrop preview and original image.
func (h *ChecklistHandler) SetBackdropImage(c echo.Context) error {
	var req backdropImageReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if err := h.svc.SetBackdropImage(c.Request().Context(), c.Param("eventId"), req.Image, req.ImageFull); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

// ClearBackdropImage removes both backdrop images.
func (h *ChecklistHandler) ClearBackdropImage(c echo.Context) error {
	if err := h.svc.ClearBackdropImage(c.Request().Context(), c.Param("eventId")); err != nil {
		return writeError(c, err)
	}
	return ok(c, nil)
}

type hiddenServiceReq struct {
	ServiceIndex *int `json:"service_index"`
	Hidden       bool `json:"hidden"`
}

// SetHiddenService hides or shows one service on the public page.
func (h *ChecklistHandler) SetHiddenService(c echo.Context) error {
	var req hiddenServiceReq
	if err := c.Bind(&req); err != nil {
		return badBody(c)
	}
	if req.ServiceIndex == nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "service_index is required"})
	}
	id := c.Param("eventId")
	hidden, err := h.svc.SetHiddenService(c.Request().Context(), id, *req.ServiceIndex, req.Hidden)
	if err != nil {
		return writeError(c, err)
	}
	h.invalidate(c.Request().Context(), id)
	return ok(c, echo.Map{"hidden_services": hidden})
}
