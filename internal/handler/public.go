package handler

import (
	"embed"
	"html/template"
	"net/http"
	"net/url"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTmpl = template.Must(template.ParseFS(templateFS, "templates/event.html"))

// PublicHandler renders the shareable event page.
type PublicHandler struct {
	events     EventSource
	checklists ChecklistPeeker
}

func NewPublicHandler(events EventSource, checklists ChecklistPeeker) *PublicHandler {
	return &PublicHandler{events: events, checklists: checklists}
}

// Custom fields that the page shows elsewhere or keeps private, lower-cased.
var pageHiddenFields = map[string]bool{
	"budget": true, "package": true, "eventtimes": true, "load in time": true,
	"backup contact": true, "backup contact number": true,
	"primary onsite contact": true, "primary onsite contact number": true,
	"eventhashtag": true, "design direction": true, "design themes or colors": true,
	"template wording": true, "9. attendant picking up equipment": true,
	"backdrop": true, "message": true, "subject": true, "vendor meal": true,
	"3: internal notes(for attendants)": true,
	"360 booth design choices": true, "360 music choice": true,
	"5: 360 booth design choices": true, "6: 360 music choice": true,
	"1: internal notes(for management)": true, "2. internal notes (for designer)": true,
	"internal notes(for management)": true,
}

var fieldPriority = map[string]int{"Load In Instructions": 1, "Parking Instructions": 2}

var serviceExclusions = []string{"discount", "extended hours", "full day add on", "full day rental add on", "props", "premium backdrop"}

var distantCities = []string{"los angeles", "san diego", "riverside", "anaheim", "santa ana", "long beach", "irvine", "fresno", "bakersfield"}

func hideField(name string) bool {
	lower := strings.ToLower(name)
	return pageHiddenFields[lower] || strings.Contains(lower, "360 booth design") || strings.Contains(lower, "360 music")
}

// isDistant flags venues outside California or in the listed far cities.
func isDistant(loc *model.Location) bool {
	if loc == nil || loc.City == "" || loc.State == "" {
		return false
	}
	state := strings.ToLower(strings.TrimSpace(loc.State))
	if state != "ca" && state != "california" {
		return true
	}
	city := strings.ToLower(strings.TrimSpace(loc.City))
	for _, dc := range distantCities {
		if strings.Contains(city, dc) {
			return true
		}
	}
	return false
}

// formatClock turns "HH:MM" into "3:04 PM".  Unparseable input is returned
// as is.
func formatClock(t string) string {
	if t == "" {
		return ""
	}
	parsed, err := time.Parse("15:04", t)
	if err != nil {
		return t
	}
	return parsed.Format("3:04 PM")
}

var nonDigit = regexp.MustCompile(`\D`)

// formatPhone renders 10 digit and 1-prefixed 11 digit US numbers.
func formatPhone(p string) string {
	d := nonDigit.ReplaceAllString(p, "")
	if len(d) == 11 && d[0] == '1' {
		d = d[1:]
	} else if len(d) != 10 {
		return p
	}
	return "(" + d[0:3] + ") " + d[3:6] + "-" + d[6:]
}

var loadInClock = regexp.MustCompile(`(?i)(\d{1,2}):?(\d{0,2})\s*(AM|PM)`)

// formatLoadIn expands a free-text load-in time to "4:30 PM - Saturday, June 14, 2025".
func formatLoadIn(value, eventDate string) string {
	if value == "" {
		return ""
	}
	m := loadInClock.FindStringSubmatch(value)
	day, err := time.Parse("2006-01-02", eventDate)
	if m == nil || err != nil {
		return value
	}
	mins := m[2]
	if mins == "" {
		mins = "00"
	}
	return m[1] + ":" + mins + " " + strings.ToUpper(m[3]) + " - " + day.Format("Monday, January 2, 2006")
}

type dateBox struct {
	Month   string
	Day     int
	Weekday string
}

func newDateBox(s string) *dateBox {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil
	}
	return &dateBox{Month: d.Format("Jan"), Day: d.Day(), Weekday: d.Format("Mon")}
}

type contactLine struct {
	Name  string
	Phone string
	Tel   string
}

type fieldRow struct {
	Name   string
	Text   string
	Images []string
}

type pageData struct {
	Event         model.Event
	Distant       bool
	Start         *dateBox
	End           *dateBox
	Times         string
	LoadIn        string
	MapsURL       string
	Onsite        *contactLine
	Backup        *contactLine
	Backdrop      string
	PickingUp     string
	Subcontractor string
	Services      []model.Service
	NotesText     string
	NotesImages   []string
	Fields        []fieldRow
}

func fieldText(e model.Event, names ...string) string {
	for _, n := range names {
		if v, ok := e.CustomFields[n]; ok && v.Text != "" {
			return v.Text
		}
	}
	return ""
}

func contact(e model.Event, names, phones []string) *contactLine {
	name := fieldText(e, names...)
	if name == "" {
		return nil
	}
	phone := fieldText(e, phones...)
	return &contactLine{Name: name, Phone: formatPhone(phone), Tel: phone}
}

// visibleServices drops discounts, time extensions, props and negative
// lines, then the indexes hidden for this event.  Hidden indexes count
// positions in the already filtered list.
func visibleServices(services []model.Service, hidden []int) []model.Service {
	skip := make(map[int]bool, len(hidden))
	for _, i := range hidden {
		skip[i] = true
	}
	out := []model.Service{}
	idx := 0
	for _, s := range services {
		name := strings.ToLower(s.Name)
		excluded := s.Price < 0
		for _, x := range serviceExclusions {
			if strings.Contains(name, x) {
				excluded = true
				break
			}
		}
		if excluded {
			continue
		}
		if !skip[idx] {
			if s.Quantity == 0 {
				s.Quantity = 1
			}
			out = append(out, s)
		}
		idx++
	}
	return out
}

func buildPage(e model.Event, saved *model.EventChecklist) pageData {
	if saved == nil {
		saved = model.NewEventChecklist(e.ID)
	}
	p := pageData{
		Event:         e,
		Distant:       isDistant(e.Location),
		Start:         newDateBox(e.EventDate),
		LoadIn:        formatLoadIn(fieldText(e, "Load In Time"), e.EventDate),
		Onsite:        contact(e, []string{"primary onsite contact", "Primary Onsite Contact"}, []string{"primary onsite contact number", "Primary Onsite Contact number"}),
		Backup:        contact(e, []string{"Backup Contact"}, []string{"Backup Contact Number"}),
		Backdrop:      fieldText(e, "Backdrop"),
		PickingUp:     fieldText(e, "9. Attendant Picking Up Equipment"),
		Subcontractor: saved.Subcontractor,
		Services:      visibleServices(e.Services, saved.HiddenServices),
	}
	if e.EndDate != "" && e.EndDate != e.EventDate {
		p.End = newDateBox(e.EndDate)
	}
	if e.StartTime != "" {
		p.Times = formatClock(e.StartTime)
		if e.EndTime != "" {
			p.Times += " - " + formatClock(e.EndTime)
		}
	}
	if e.Location != nil && e.Location.FullAddress != "" {
		p.MapsURL = "https://maps.google.com/?q=" + url.QueryEscape(e.Location.FullAddress)
	}

	upstream := e.CustomFields[AttendantNotesField]
	p.NotesText = upstream.Text
	p.NotesImages = upstream.Images
	if saved.InternalNotes != nil {
		p.NotesText = *saved.InternalNotes
	}

	for name, v := range e.CustomFields {
		if hideField(name) {
			continue
		}
		p.Fields = append(p.Fields, fieldRow{Name: name, Text: v.Text, Images: v.Images})
	}
	sort.Slice(p.Fields, func(i, j int) bool {
		pi, pj := priority(p.Fields[i].Name), priority(p.Fields[j].Name)
		if pi != pj {
			return pi < pj
		}
		return p.Fields[i].Name < p.Fields[j].Name
	})
	return p
}

func priority(name string) int {
	if p, ok := fieldPriority[name]; ok {
		return p
	}
	return 999
}

// EventPage renders the public page for one event.
func (h *PublicHandler) EventPage(c echo.Context) error {
	ctx := c.Request().Context()
	id := c.Param("eventId")

	snap, err := h.events.Get(ctx)
	if err != nil {
		logger.Error("event page: no event data", map[string]interface{}{"event_id": id, "error": err.Error()})
		return c.HTML(http.StatusServiceUnavailable, "<h1>Error loading event</h1><p>Please try again later.</p>")
	}
	ev, found := snap.FindEvent(id)
	if !found {
		return c.HTML(http.StatusNotFound, "<h1>Event not found</h1><p>This event may have passed or the link is invalid.</p>")
	}
	saved, err := h.checklists.Peek(ctx, id)
	if err != nil {
		logger.Warn("event page: checklist unavailable", map[string]interface{}{"event_id": id, "error": err.Error()})
	}

	var buf strings.Builder
	if err := pageTmpl.Execute(&buf, buildPage(ev, saved)); err != nil {
		logger.Error("event page: render failed", map[string]interface{}{"event_id": id, "error": err.Error()})
		return c.HTML(http.StatusInternalServerError, "<h1>Error loading event</h1><p>Please try again later.</p>")
	}
	c.Response().Header().Set("Cache-Control", "public, max-age=60")
	return c.HTML(http.StatusOK, buf.String())
}
