package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"

	"github.com/kandebooths/packer-service/internal/config"
	"github.com/kandebooths/packer-service/internal/middleware"
	"github.com/kandebooths/packer-service/internal/model"
	"github.com/kandebooths/packer-service/internal/repository"
	"github.com/kandebooths/packer-service/internal/service"
)

type stubFetcher struct {
	mu   sync.Mutex
	dash *model.Dashboard
	err  error
}

func (f *stubFetcher) FetchDashboard(context.Context) (*model.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	d := *f.dash
	d.LastUpdated = time.Date(2025, 6, 13, 17, 0, 0, 0, time.UTC)
	return &d, nil
}

func (f *stubFetcher) fail(err error) {
	f.mu.Lock()
	f.err = err
	f.mu.Unlock()
}

const managementField = "1: Internal Notes(for Management)"

func testDashboard() *model.Dashboard {
	return &model.Dashboard{
		Events: []model.Event{
			{
				ID:        "e1",
				Title:     "Smith Wedding",
				EventType: "Wedding",
				EventDate: "2025-06-14",
				StartTime: "17:00",
				EndTime:   "22:00",
				Services:  []model.Service{{Name: "Bronze Package", Quantity: 1}, {Name: "Guest Book", Quantity: 1}},
				Staff:     []model.StaffMember{{ID: "c-1", Name: "Sam Lee"}},
				CustomFields: map[string]model.CustomFieldValue{
					managementField:        {Text: "margin is thin"},
					AttendantNotesField:    {Text: "upstream notes"},
					"Load In Instructions": {Text: "Use dock B"},
				},
			},
			{
				ID:        "e2",
				Title:     "Acme Launch",
				EventType: "Corporate Brand Activation",
				EventDate: "2025-06-20",
				Staff:     []model.StaffMember{{ID: "c-2", Name: "Riley Park"}},
			},
		},
		Staff: []model.StaffMember{{ID: "c-1", Name: "Sam Lee"}, {ID: "c-2", Name: "Riley Park"}},
	}
}

type testEnv struct {
	e       *echo.Echo
	fetcher *stubFetcher
	events  *service.EventCache
	svc     *service.ChecklistService
	catalog *service.CatalogService
	role    string
	userID  string
	mu      sync.Mutex
	cleared []string
}

func (v *testEnv) invalidated() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.cleared...)
}

// newTestEnv serves the handlers over a file store in a temp dir.  The
// caller's identity is taken from env.role and env.userID at request time.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return buildEnv(t, true)
}

// buildEnv skips the initial fetch when prefetch is false, leaving the event
// cache cold.
func buildEnv(t *testing.T, prefetch bool) *testEnv {
	t.Helper()
	store, err := repository.NewFileBlobStore(t.TempDir())
	require.NoError(t, err)

	v := &testEnv{fetcher: &stubFetcher{dash: testDashboard()}, role: model.RoleStaff, userID: "c-1"}
	v.events = service.NewEventCache(v.fetcher, time.Minute)
	if prefetch {
		_, err = v.events.Get(context.Background())
		require.NoError(t, err)
	}
	v.catalog = service.NewCatalogService(repository.NewCatalogRepo(store))
	v.svc = service.NewChecklistService(repository.NewChecklistRepo(store), v.events, v.catalog, nil)

	roster := config.StaffRoster{
		Packers: []config.StaffContact{{Name: "Sam Lee", Email: "sam@example.com"}},
		All:     []config.StaffContact{{Name: "Sam Lee", Email: "sam@example.com"}, {Name: "Riley Park", Email: "riley@example.com"}},
	}
	evH := NewEventsHandler(v.events, v.svc, roster, "https://packer.test")
	clH := NewChecklistHandler(v.svc, func(_ context.Context, id string) {
		v.mu.Lock()
		v.cleared = append(v.cleared, id)
		v.mu.Unlock()
	})
	catH := NewCatalogHandler(v.catalog)
	pub := NewPublicHandler(v.events, v.svc)

	e := echo.New()
	e.GET("/api/health", APIHealth(v.events))
	e.GET("/event/:eventId", pub.EventPage)
	e.GET("/api/staff-list/:type", evH.StaffList)

	g := e.Group("/api", func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(middleware.CtxUserID, v.userID)
			c.Set(middleware.CtxRole, v.role)
			return next(c)
		}
	})
	g.GET("/events", evH.List)
	g.GET("/staff", evH.Staff)
	g.POST("/refresh", evH.Refresh)
	g.GET("/packer-config", catH.Get)
	g.POST("/packer-config", catH.Save)

	c := g.Group("/checklist/:eventId")
	c.GET("", clH.Get)
	c.POST("/:type/submit", clH.Submit)
	c.POST("/:type/items/:itemId", clH.Toggle)
	c.POST("/:type/reset", clH.Reset)
	c.POST("/notes/:type", clH.SetNotes)
	c.POST("/subcontractor", clH.SetSubcontractor)
	c.POST("/internal-notes", clH.SetInternalNotes)
	c.POST("/custom-item", clH.AddCustomItem)
	c.DELETE("/custom-item/:itemId", clH.RemoveItem)
	c.PUT("/packer-item/:itemId", clH.EditItem)
	c.DELETE("/packer-item/:itemId", clH.RemoveItem)
	c.POST("/regenerate-packer", clH.Regenerate)
	c.POST("/backdrop", clH.SetBackdrop)
	c.POST("/backdrop-image", clH.SetBackdropImage)
	c.DELETE("/backdrop-image", clH.ClearBackdropImage)
	c.POST("/hidden-services", clH.SetHiddenService)
	v.e = e
	return v
}

func (v *testEnv) do(method, path, body string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	v.e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	return out
}

// completePacker ticks every packer item of e1.
func (v *testEnv) completePacker(t *testing.T) {
	t.Helper()
	view, err := v.svc.Get(context.Background(), "e1")
	require.NoError(t, err)
	for _, it := range view.Packer {
		rec := v.do(http.MethodPost, "/api/checklist/e1/packer/items/"+it.ID, `{"completed":true,"completed_by":"Sam Lee"}`)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	}
}

var errUpstream = errors.New("upstream down")
