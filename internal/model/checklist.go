package model

import (
	"strings"
	"time"
)

// ChecklistKind names one of the two per-event checklists.
type ChecklistKind string

const (
	KindPacker    ChecklistKind = "packer"
	KindAttendant ChecklistKind = "attendant"
)

// PickupPrefix is prepended to a packer item id to form its pickup item id.
const PickupPrefix = "pickup_"

// ParseKind validates a checklist type taken from a URL.
func ParseKind(s string) (ChecklistKind, error) {
	switch ChecklistKind(strings.ToLower(strings.TrimSpace(s))) {
	case KindPacker:
		return KindPacker, nil
	case KindAttendant:
		return KindAttendant, nil
	}
	return "", ErrInvalidKind
}

// ChecklistItem is one line of the packer checklist.
//
// Fields:
//  ID            – auto_<n> for generated items, custom_<uuid> for manual ones,
//                  or a fixed id for the default checklist.
//  Required      – submission is blocked until every required item is completed.
//  AutoGenerated – produced from the booked services.
//  Custom        – added by hand; survives regeneration.
//  Edited        – text changed by hand; survives regeneration.
//  Source        – booked service name that produced the item.
type ChecklistItem struct {
	ID            string     `json:"id"`
	Text          string     `json:"text"`
	Required      bool       `json:"required"`
	Completed     bool       `json:"completed"`
	CompletedBy   string     `json:"completed_by,omitempty"`
	CompletedAt   *time.Time `json:"completed_at,omitempty"`
	AutoGenerated bool       `json:"auto_generated"`
	Custom        bool       `json:"custom,omitempty"`
	Edited        bool       `json:"edited,omitempty"`
	Source        string     `json:"source,omitempty"`
}

// Clear resets the completion fields.
func (i *ChecklistItem) Clear() {
	i.Completed = false
	i.CompletedBy = ""
	i.CompletedAt = nil
}

// Mark sets the completion fields; completed=false clears them.
func (i *ChecklistItem) Mark(completed bool, by string, at time.Time) {
	if !completed {
		i.Clear()
		return
	}
	t := at.UTC()
	i.Completed = true
	i.CompletedBy = by
	i.CompletedAt = &t
}

// PickupState tracks attendant pickup completion for one packer item.
type PickupState struct {
	Completed   bool       `json:"completed"`
	CompletedBy string     `json:"completed_by,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// SubmissionRecord is written when a checklist is submitted.  It is only
// removed by an admin reset.
type SubmissionRecord struct {
	SubmittedBy         string    `json:"submitted_by"`
	SubmittedAt         time.Time `json:"submitted_at"`
	Signature           string    `json:"signature,omitempty"`
	ChecklistScreenshot string    `json:"checklist_screenshot,omitempty"`
}

// EventChecklist is the persisted per-event aggregate.  The attendant
// checklist is not stored; it is derived from Packer and PickupStatus.
// HiddenServices holds indexes into the event's services that are hidden
// from subcontractors; the backdrop fields carry the print design.
type EventChecklist struct {
	EventID            string                 `json:"event_id"`
	Packer             []ChecklistItem        `json:"packer"`
	RemovedItems       []string               `json:"removed_items,omitempty"`
	Notes              map[string]string      `json:"notes"`
	Subcontractor      string                 `json:"subcontractor"`
	InternalNotes      *string                `json:"internal_notes,omitempty"`
	BackdropText       string                 `json:"backdrop_text,omitempty"`
	BackdropImage      string                 `json:"backdrop_image,omitempty"`
	BackdropImageFull  string                 `json:"backdrop_image_full,omitempty"`
	HiddenServices     []int                  `json:"hidden_services,omitempty"`
	EventType          string                 `json:"event_type,omitempty"`
	Corporate          bool                   `json:"corporate"`
	PickupStatus       map[string]PickupState `json:"pickup_status"`
	PackerSubmitted    *SubmissionRecord      `json:"packer_submitted"`
	AttendantSubmitted *SubmissionRecord      `json:"attendant_submitted"`
	UpdatedAt          time.Time              `json:"updated_at"`
}

// NewEventChecklist returns an empty aggregate with initialised maps.
func NewEventChecklist(eventID string) *EventChecklist {
	return &EventChecklist{
		EventID:      eventID,
		Packer:       []ChecklistItem{},
		Notes:        map[string]string{"packer": "", "attendant": "", "packer-notes": ""},
		PickupStatus: map[string]PickupState{},
	}
}

// Clone returns a deep copy so a mutation can be discarded on failure.
func (c *EventChecklist) Clone() *EventChecklist {
	out := *c
	out.Packer = make([]ChecklistItem, len(c.Packer))
	for i, it := range c.Packer {
		if it.CompletedAt != nil {
			t := *it.CompletedAt
			it.CompletedAt = &t
		}
		out.Packer[i] = it
	}
	out.RemovedItems = append([]string(nil), c.RemovedItems...)
	out.HiddenServices = append([]int(nil), c.HiddenServices...)
	out.Notes = make(map[string]string, len(c.Notes))
	for k, v := range c.Notes {
		out.Notes[k] = v
	}
	out.PickupStatus = make(map[string]PickupState, len(c.PickupStatus))
	for k, v := range c.PickupStatus {
		if v.CompletedAt != nil {
			t := *v.CompletedAt
			v.CompletedAt = &t
		}
		out.PickupStatus[k] = v
	}
	if c.InternalNotes != nil {
		s := *c.InternalNotes
		out.InternalNotes = &s
	}
	if c.PackerSubmitted != nil {
		r := *c.PackerSubmitted
		out.PackerSubmitted = &r
	}
	if c.AttendantSubmitted != nil {
		r := *c.AttendantSubmitted
		out.AttendantSubmitted = &r
	}
	return &out
}

// Submission returns the submission record for kind, or nil.
func (c *EventChecklist) Submission(kind ChecklistKind) *SubmissionRecord {
	if kind == KindAttendant {
		return c.AttendantSubmitted
	}
	return c.PackerSubmitted
}

// SetSubmission stores (or clears, with nil) the record for kind.
func (c *EventChecklist) SetSubmission(kind ChecklistKind, rec *SubmissionRecord) {
	if kind == KindAttendant {
		c.AttendantSubmitted = rec
		return
	}
	c.PackerSubmitted = rec
}

// PackerItem returns a pointer into Packer for the item id.
func (c *EventChecklist) PackerItem(id string) (*ChecklistItem, bool) {
	for i := range c.Packer {
		if c.Packer[i].ID == id {
			return &c.Packer[i], true
		}
	}
	return nil, false
}

// CustomItems returns the hand-added packer items.
func (c *EventChecklist) CustomItems() []ChecklistItem {
	out := []ChecklistItem{}
	for _, it := range c.Packer {
		if it.Custom {
			out = append(out, it)
		}
	}
	return out
}

// HasAutoItems reports whether the packer list was generated from services.
func (c *EventChecklist) HasAutoItems() bool {
	for _, it := range c.Packer {
		if it.AutoGenerated || strings.HasPrefix(it.ID, "auto_") {
			return true
		}
	}
	return false
}

// IsRemoved reports whether text was explicitly removed from this checklist.
func (c *EventChecklist) IsRemoved(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, r := range c.RemovedItems {
		if r == t {
			return true
		}
	}
	return false
}

// PickupCandidates returns the packer items eligible for pickup: all items
// once the packer checklist was submitted, otherwise only completed ones.
func (c *EventChecklist) PickupCandidates() []ChecklistItem {
	if c.PackerSubmitted != nil {
		return append([]ChecklistItem(nil), c.Packer...)
	}
	out := []ChecklistItem{}
	for _, it := range c.Packer {
		if it.Completed {
			out = append(out, it)
		}
	}
	return out
}

// PickupItem is one derived attendant checklist line.
type PickupItem struct {
	ChecklistItem
	OriginalPackerID string     `json:"original_packer_id"`
	PackedBy         string     `json:"packed_by,omitempty"`
	PackedAt         *time.Time `json:"packed_at,omitempty"`
}

// AttendantItems derives the pickup checklist.  Every pickup item is
// required; completion comes from PickupStatus only.
func (c *EventChecklist) AttendantItems() []PickupItem {
	candidates := c.PickupCandidates()
	out := make([]PickupItem, 0, len(candidates))
	for _, it := range candidates {
		st := c.PickupStatus[it.ID]
		p := PickupItem{
			ChecklistItem: ChecklistItem{
				ID:          PickupPrefix + it.ID,
				Text:        it.Text,
				Required:    true,
				Completed:   st.Completed,
				CompletedBy: st.CompletedBy,
				CompletedAt: st.CompletedAt,
				Source:      it.Source,
			},
			OriginalPackerID: it.ID,
			PackedBy:         it.CompletedBy,
			PackedAt:         it.CompletedAt,
		}
		if p.PackedBy == "" && c.PackerSubmitted != nil {
			p.PackedBy = c.PackerSubmitted.SubmittedBy
			at := c.PackerSubmitted.SubmittedAt
			p.PackedAt = &at
		}
		out = append(out, p)
	}
	return out
}

// Items returns the checklist lines for kind as plain items.
func (c *EventChecklist) Items(kind ChecklistKind) []ChecklistItem {
	if kind == KindPacker {
		return c.Packer
	}
	pickup := c.AttendantItems()
	out := make([]ChecklistItem, 0, len(pickup))
	for _, p := range pickup {
		out = append(out, p.ChecklistItem)
	}
	return out
}

// ChecklistView is what the dashboard reads: the stored aggregate plus the
// derived attendant checklist.
type ChecklistView struct {
	*EventChecklist
	CustomItemList   []ChecklistItem `json:"custom_items"`
	Attendant        []PickupItem    `json:"attendant"`
	PackerItemsCount int             `json:"packer_items_count"`
}

// View builds the read model.
func (c *EventChecklist) View() *ChecklistView {
	att := c.AttendantItems()
	return &ChecklistView{
		EventChecklist:   c,
		CustomItemList:   c.CustomItems(),
		Attendant:        att,
		PackerItemsCount: len(att),
	}
}

// Tally counts items for submission summaries.
type Tally struct {
	Total             int `json:"total"`
	Completed         int `json:"completed"`
	Required          int `json:"required"`
	RequiredCompleted int `json:"required_completed"`
}

// CountItems tallies completion over items.
func CountItems(items []ChecklistItem) Tally {
	var t Tally
	for _, it := range items {
		t.Total++
		if it.Completed {
			t.Completed++
		}
		if it.Required {
			t.Required++
			if it.Completed {
				t.RequiredCompleted++
			}
		}
	}
	return t
}
