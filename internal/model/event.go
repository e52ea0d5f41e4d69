package model

import "time"

// Event is a booked job pulled from the workspace API.  It is owned by the
// upstream system and is never written back from this service.
//
// Fields:
//  ID           – upstream job id; also the checklist key.
//  Title        – job title shown on the dashboard.
//  EventType    – job type name; drives corporate/non-corporate catalog choice.
//  Stage        – upstream pipeline stage (booked, fulfillment).
//  EventDate    – YYYY-MM-DD start date.
//  Services     – booked line items merged by name, in booking order.
//  CustomFields – flattened custom field values keyed by field name.
type Event struct {
	ID            string                      `json:"id"`
	Title         string                      `json:"title"`
	EventType     string                      `json:"event_type"`
	Stage         string                      `json:"stage"`
	EventDate     string                      `json:"event_date"`
	EndDate       string                      `json:"end_date,omitempty"`
	StartTime     string                      `json:"start_time,omitempty"`
	EndTime       string                      `json:"end_time,omitempty"`
	Location      *Location                   `json:"location,omitempty"`
	Staff         []StaffMember               `json:"staff"`
	Services      []Service                   `json:"services"`
	ServicesTotal int64                       `json:"services_total"`
	CustomFields  map[string]CustomFieldValue `json:"custom_fields"`
	GuestCount    int                         `json:"guest_count,omitempty"`
	ManagerLink   string                      `json:"manager_link,omitempty"`
}

// Location is the venue address attached to an event.
type Location struct {
	Name        string `json:"name"`
	Street      string `json:"street"`
	City        string `json:"city"`
	State       string `json:"state"`
	Zip         string `json:"zip"`
	FullAddress string `json:"full_address"`
}

// StaffMember is a team contact assigned to an event.
type StaffMember struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

// Service is a booked line item.  Price is the line total in cents.
type Service struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    int64  `json:"price"`
}

// CustomFieldValue holds a custom field flattened to text plus any image
// urls that were embedded in its HTML.
type CustomFieldValue struct {
	Text   string   `json:"text"`
	Images []string `json:"images,omitempty"`
}

// ServiceNames returns the booked service names in booking order.
func (e Event) ServiceNames() []string {
	names := make([]string, 0, len(e.Services))
	for _, s := range e.Services {
		names = append(names, s.Name)
	}
	return names
}

// HasStaff reports whether the staff member with the given id or email is
// assigned to the event.
func (e Event) HasStaff(idOrEmail string) bool {
	for _, s := range e.Staff {
		if s.ID == idOrEmail || (s.Email != "" && s.Email == idOrEmail) {
			return true
		}
	}
	return false
}

// Dashboard is one snapshot of upcoming events fetched from upstream.
type Dashboard struct {
	Events      []Event       `json:"events"`
	Staff       []StaffMember `json:"staff"`
	LastUpdated time.Time     `json:"last_updated"`
}

// FindEvent returns the event with the given id from the snapshot.
func (d *Dashboard) FindEvent(id string) (Event, bool) {
	if d == nil {
		return Event{}, false
	}
	for _, e := range d.Events {
		if e.ID == id {
			return e, true
		}
	}
	return Event{}, false
}
