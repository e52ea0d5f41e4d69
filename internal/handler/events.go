package handler

import (
	"context"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kandebooths/packer-service/internal/config"
	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/middleware"
	"github.com/kandebooths/packer-service/internal/model"
)

// EventSource serves the cached upstream snapshot.
type EventSource interface {
	SnapshotSource
	Get(ctx context.Context) (*model.Dashboard, error)
	Refresh(ctx context.Context) (*model.Dashboard, error)
}

// ChecklistPeeker reads a stored checklist without creating one.
type ChecklistPeeker interface {
	Peek(ctx context.Context, eventID string) (*model.EventChecklist, error)
}

// AttendantNotesField is the upstream field that saved internal notes
// replace.
const AttendantNotesField = "3: Internal Notes(for Attendants)"

var managementFields = []string{
	"1: Internal Notes(for Management)",
	"2. Internal Notes (For Designer)",
	"Internal Notes(for Management)",
}

// EventsHandler serves the dashboard event list and staff lookups.
type EventsHandler struct {
	events     EventSource
	checklists ChecklistPeeker
	roster     config.StaffRoster
	publicBase string
}

func NewEventsHandler(events EventSource, checklists ChecklistPeeker, roster config.StaffRoster, publicBase string) *EventsHandler {
	return &EventsHandler{events: events, checklists: checklists, roster: roster, publicBase: publicBase}
}

type eventOut struct {
	model.Event
	ShareURL string `json:"share_url,omitempty"`
}

// withInternalNotes returns e with saved internal notes merged over the
// upstream attendant notes field.  The snapshot map is never mutated.
func withInternalNotes(e model.Event, notes *string) model.Event {
	if notes == nil {
		return e
	}
	fields := make(map[string]model.CustomFieldValue, len(e.CustomFields)+1)
	for k, v := range e.CustomFields {
		fields[k] = v
	}
	prev := fields[AttendantNotesField]
	fields[AttendantNotesField] = model.CustomFieldValue{Text: *notes, Images: prev.Images}
	e.CustomFields = fields
	return e
}

func withoutManagementFields(e model.Event) model.Event {
	fields := make(map[string]model.CustomFieldValue, len(e.CustomFields))
	for k, v := range e.CustomFields {
		fields[k] = v
	}
	for _, f := range managementFields {
		delete(fields, f)
	}
	e.CustomFields = fields
	return e
}

// List returns upcoming events.  Non-admins may filter by staff_id and never
// see management-only fields.
func (h *EventsHandler) List(c echo.Context) error {
	ctx := c.Request().Context()
	snap, err := h.events.Get(ctx)
	if err != nil {
		return writeError(c, err)
	}
	actor := middleware.ActorFrom(c)
	staffID := c.QueryParam("staff_id")

	out := make([]eventOut, 0, len(snap.Events))
	for _, e := range snap.Events {
		if staffID != "" && !actor.IsAdmin() && !e.HasStaff(staffID) {
			continue
		}
		saved, err := h.checklists.Peek(ctx, e.ID)
		if err != nil {
			logger.Warn("internal notes unavailable", map[string]interface{}{"event_id": e.ID, "error": err.Error()})
		} else if saved != nil {
			e = withInternalNotes(e, saved.InternalNotes)
		}
		if !actor.IsAdmin() {
			e = withoutManagementFields(e)
		}
		eo := eventOut{Event: e}
		if h.publicBase != "" {
			eo.ShareURL = h.publicBase + "/event/" + e.ID
		}
		out = append(out, eo)
	}

	return c.JSON(http.StatusOK, echo.Map{
		"events":       out,
		"last_updated": snap.LastUpdated,
		"is_admin":     actor.IsAdmin(),
	})
}

// Staff returns the distinct staff assigned across upcoming events.
func (h *EventsHandler) Staff(c echo.Context) error {
	snap, err := h.events.Get(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	staff := snap.Staff
	if staff == nil {
		staff = []model.StaffMember{}
	}
	return c.JSON(http.StatusOK, staff)
}

// StaffList returns the configured roster used by the signer dropdown:
// packers for type "packer", everyone otherwise.
func (h *EventsHandler) StaffList(c echo.Context) error {
	list := h.roster.List(c.Param("type"))
	if list == nil {
		list = []config.StaffContact{}
	}
	return c.JSON(http.StatusOK, list)
}

// Refresh refetches upstream data immediately.
func (h *EventsHandler) Refresh(c echo.Context) error {
	snap, err := h.events.Refresh(c.Request().Context())
	if err != nil {
		logger.Error("manual refresh failed", map[string]interface{}{"error": err.Error()})
		return c.JSON(http.StatusBadGateway, echo.Map{"error": "failed to refresh", "message": err.Error()})
	}
	return c.JSON(http.StatusOK, echo.Map{"success": true, "last_updated": snap.LastUpdated})
}
