// Package workspace reads upcoming booked events from the studio's bookings
// workspace API and flattens them into model.Event values.
package workspace

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
	"golang.org/x/sync/errgroup"
)

const pageSize = 100

var bookedOrderStatuses = map[string]bool{
	"open":           true,
	"booked":         true,
	"paid-in-full":   true,
	"partially-paid": true,
	"sent":           true,
}

// Config configures the client.
type Config struct {
	BaseURL  string
	APIKey   string
	MaxPages int
	Timeout  time.Duration
	TimeZone string
}

// Client talks to the bookings API.
type Client struct {
	http     *resty.Client
	maxPages int
	loc      *time.Location
	now      func() time.Time
}

// NewClient builds a client.  The time zone decides which events count as
// upcoming.
func NewClient(cfg Config) (*Client, error) {
	loc, err := time.LoadLocation(cfg.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("workspace: load time zone %q: %w", cfg.TimeZone, err)
	}
	if cfg.MaxPages < 1 {
		cfg.MaxPages = 1
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}
	h := resty.New().
		SetBaseURL(strings.TrimRight(cfg.BaseURL, "/")).
		SetHeader("X-API-KEY", cfg.APIKey).
		SetHeader("Accept", "application/json").
		SetTimeout(cfg.Timeout)
	return &Client{http: h, maxPages: cfg.MaxPages, loc: loc, now: time.Now}, nil
}

func (c *Client) get(ctx context.Context, path string, params map[string]string, out interface{}) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(params).
		SetResult(out).
		Get(path)
	if err != nil {
		return fmt.Errorf("workspace %s: %w", path, err)
	}
	if resp.IsError() {
		return fmt.Errorf("workspace %s: %s", path, resp.Status())
	}
	return nil
}

// FetchDashboard loads lookup tables, all upcoming jobs and the details of
// each job.  A job whose details fail is logged and skipped.
func (c *Client) FetchDashboard(ctx context.Context) (*model.Dashboard, error) {
	start := time.Now()

	var (
		roles  []jobRole
		fields []customFieldDef
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var r listResponse[jobRole]
		if err := c.get(gctx, "/job-role", nil, &r); err != nil {
			return err
		}
		roles = r.Items
		return nil
	})
	g.Go(func() error {
		var r listResponse[customFieldDef]
		if err := c.get(gctx, "/custom-field", nil, &r); err != nil {
			return err
		}
		fields = r.Items
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	roleMap := make(map[string]jobRole, len(roles))
	for _, r := range roles {
		roleMap[r.ID] = r
	}
	fieldMap := make(map[string]customFieldDef, len(fields))
	for _, f := range fields {
		fieldMap[f.ID] = f
	}

	jobs, err := c.upcomingJobs(ctx)
	if err != nil {
		return nil, err
	}

	contacts := map[string]contact{}
	var contactOrder []string
	events := make([]model.Event, 0, len(jobs))
	for _, j := range jobs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		ev, err := c.buildEvent(ctx, j, roleMap, fieldMap, contacts, &contactOrder)
		if err != nil {
			logger.Warn("skipping job", map[string]interface{}{"job_id": j.ID, "error": err.Error()})
			continue
		}
		events = append(events, ev)
	}

	staff := make([]model.StaffMember, 0, len(contactOrder))
	for _, id := range contactOrder {
		ct := contacts[id]
		staff = append(staff, model.StaffMember{ID: id, Name: fullName(ct), Email: ct.Email})
	}

	logger.Info("dashboard data fetched", map[string]interface{}{
		"events":  len(events),
		"elapsed": time.Since(start).String(),
	})
	return &model.Dashboard{Events: events, Staff: staff, LastUpdated: c.now().UTC()}, nil
}

func (c *Client) jobPage(ctx context.Context, page int) (jobPage, error) {
	var p jobPage
	err := c.get(ctx, "/job", map[string]string{
		"page":          strconv.Itoa(page),
		"pageSize":      strconv.Itoa(pageSize),
		"includeClosed": "false",
		"sortBy":        "eventDate desc",
	}, &p)
	return p, err
}

// upcomingJobs reads page 1 to learn the page count, then the remaining
// pages two at a time.  A failed later page counts as empty.
func (c *Client) upcomingJobs(ctx context.Context) ([]job, error) {
	today := c.now().In(c.loc).Format("2006-01-02")
	keep := func(j job) bool {
		return j.EventDate != "" && j.EventDate >= today && (j.Stage == "booked" || j.Stage == "fulfillment")
	}

	first, err := c.jobPage(ctx, 1)
	if err != nil {
		return nil, err
	}
	total := first.Meta.TotalPages
	if total < 1 {
		total = 1
	}
	if total > c.maxPages {
		total = c.maxPages
	}

	var jobs []job
	for _, j := range first.Items {
		if keep(j) {
			jobs = append(jobs, j)
		}
	}

	for p := 2; p <= total; p += 2 {
		batch := []int{p}
		if p+1 <= total {
			batch = append(batch, p+1)
		}
		pages := make([]jobPage, len(batch))
		var g errgroup.Group
		for i, pg := range batch {
			g.Go(func() error {
				res, err := c.jobPage(ctx, pg)
				if err != nil {
					logger.Warn("job page failed", map[string]interface{}{"page": pg, "error": err.Error()})
					return nil
				}
				pages[i] = res
				return nil
			})
		}
		_ = g.Wait()
		for _, pg := range pages {
			for _, j := range pg.Items {
				if keep(j) {
					jobs = append(jobs, j)
				}
			}
		}
	}

	sort.SliceStable(jobs, func(a, b int) bool { return jobs[a].EventDate < jobs[b].EventDate })
	return jobs, nil
}

func (c *Client) buildEvent(ctx context.Context, j job, roles map[string]jobRole, fields map[string]customFieldDef, contacts map[string]contact, order *[]string) (model.Event, error) {
	var events listResponse[eventDetails]
	if err := c.get(ctx, "/event", map[string]string{"jobId": j.ID}, &events); err != nil {
		return model.Event{}, err
	}
	var det *eventDetails
	if len(events.Items) > 0 {
		det = &events.Items[0]
	}

	staff, err := c.teamStaff(ctx, j.ID, roles, contacts, order)
	if err != nil {
		return model.Event{}, err
	}

	services, total := c.bookedServices(ctx, j.ID)

	ev := model.Event{
		ID:            j.ID,
		Title:         firstNonEmpty(j.Title, j.Name, "Untitled Event"),
		EventType:     firstNonEmpty(j.JobTypeName, "Event"),
		Stage:         j.Stage,
		EventDate:     j.EventDate,
		Staff:         staff,
		Services:      services,
		ServicesTotal: total,
		CustomFields:  map[string]model.CustomFieldValue{},
		GuestCount:    j.GuestCount,
		ManagerLink:   j.Links.Self.ManagerHref,
	}
	if det != nil {
		ev.EventDate = firstNonEmpty(det.StartDate, j.EventDate)
		ev.EndDate = det.EndDate
		ev.StartTime = det.StartTime
		ev.EndTime = det.EndTime
		if det.Location != nil && det.Location.Address != nil {
			a := det.Location.Address
			var parts []string
			for _, p := range []string{a.StreetAddress, a.City, a.State, a.PostalCode} {
				if p != "" {
					parts = append(parts, p)
				}
			}
			ev.Location = &model.Location{
				Name:        a.Name,
				Street:      a.StreetAddress,
				City:        a.City,
				State:       a.State,
				Zip:         a.PostalCode,
				FullAddress: strings.Join(parts, ", "),
			}
		}
	}
	for _, cf := range j.CustomFields {
		def, ok := fields[cf.FieldID]
		if !ok {
			continue
		}
		ev.CustomFields[def.Name] = FlattenHTML(cf.Value)
	}
	return ev, nil
}

// teamStaff returns the job contacts holding a team role.  Contact details
// are cached across jobs for one refresh.
func (c *Client) teamStaff(ctx context.Context, jobID string, roles map[string]jobRole, contacts map[string]contact, order *[]string) ([]model.StaffMember, error) {
	var jcs listResponse[jobContact]
	if err := c.get(ctx, "/job-contact", map[string]string{"jobId": jobID}, &jcs); err != nil {
		return nil, err
	}
	staff := []model.StaffMember{}
	for _, jc := range jcs.Items {
		var roleNames []string
		team := false
		for _, rid := range jc.JobRoles {
			r, ok := roles[rid]
			if !ok {
				continue
			}
			if r.Kind == "team" {
				team = true
			}
			if r.Name != "" {
				roleNames = append(roleNames, r.Name)
			}
		}
		if !team {
			continue
		}
		ct, ok := contacts[jc.ContactID]
		if !ok {
			if err := c.get(ctx, "/address-book/"+jc.ContactID, nil, &ct); err != nil {
				ct = contact{FirstName: "Unknown"}
			}
			contacts[jc.ContactID] = ct
			*order = append(*order, jc.ContactID)
		}
		staff = append(staff, model.StaffMember{
			ID:    jc.ContactID,
			Name:  fullName(ct),
			Phone: contactPhone(ct),
			Email: ct.Email,
			Role:  strings.Join(roleNames, ", "),
		})
	}
	return staff, nil
}

// bookedServices merges line items of booked orders by name.  Order lookup
// failures yield no services.
func (c *Client) bookedServices(ctx context.Context, jobID string) ([]model.Service, int64) {
	var orders listResponse[order]
	if err := c.get(ctx, "/job/"+jobID+"/order", nil, &orders); err != nil {
		logger.Warn("order lookup failed", map[string]interface{}{"job_id": jobID, "error": err.Error()})
		return []model.Service{}, 0
	}
	services := []model.Service{}
	index := map[string]int{}
	var total int64
	for _, o := range orders.Items {
		if !bookedOrderStatuses[o.Status] {
			continue
		}
		for _, li := range o.LineItems {
			if li.Name == "" || li.Units <= 0 || (li.Selected != nil && !*li.Selected) {
				continue
			}
			line := int64(math.Round(li.PricePerUnit * li.Units))
			units := int(math.Round(li.Units))
			total += line
			if i, ok := index[li.Name]; ok {
				services[i].Quantity += units
				services[i].Price += line
				continue
			}
			index[li.Name] = len(services)
			services = append(services, model.Service{Name: li.Name, Quantity: units, Price: line})
		}
	}
	return services, total
}

func fullName(c contact) string {
	return strings.TrimSpace(c.FirstName + " " + c.LastName)
}

func contactPhone(c contact) string {
	if c.CellPhone != nil && c.CellPhone.Formatted != "" {
		return c.CellPhone.Formatted
	}
	if c.HomePhone != nil {
		return c.HomePhone.Formatted
	}
	return ""
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
