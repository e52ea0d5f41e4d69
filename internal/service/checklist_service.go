package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/metrics"
	"github.com/kandebooths/packer-service/internal/model"
	"github.com/kandebooths/packer-service/internal/packer"
)

// ChecklistStore persists checklist aggregates.  Get returns
// model.ErrChecklistNotFound when nothing was saved.
type ChecklistStore interface {
	Get(ctx context.Context, eventID string) (*model.EventChecklist, error)
	Save(ctx context.Context, c *model.EventChecklist) error
}

// EventLookup finds an event in the current snapshot without fetching.
type EventLookup interface {
	Find(id string) (model.Event, bool)
}

// GeneratorSource hands out the generator for the active catalog.
type GeneratorSource interface {
	Generator() *packer.Generator
}

// Notifier delivers a submission summary.  It runs after the submit call
// has returned; its errors are logged, never surfaced.
type Notifier interface {
	NotifySubmitted(ctx context.Context, n model.SubmissionNotice) error
}

var noteTypes = map[string]bool{"packer": true, "attendant": true, "packer-notes": true}

const notifyTimeout = 2 * time.Minute

// SubmitRequest is the body of a checklist submission.
type SubmitRequest struct {
	StaffMember         string
	EventTitle          string
	EventDate           string
	Signature           string
	ChecklistScreenshot string
	SendEmail           bool
}

// RegenerateResult reports a packer list rebuild.
type RegenerateResult struct {
	Packer          []model.ChecklistItem `json:"packer"`
	EventType       string                `json:"event_type"`
	Corporate       bool                  `json:"corporate"`
	ServicesMatched int                   `json:"services_matched"`
}

// ChecklistService runs the checklist lifecycle.  Aggregates are cached in
// memory after first use; every mutation works on a clone that replaces the
// cached value only after it was saved.
type ChecklistService struct {
	store    ChecklistStore
	events   EventLookup
	gens     GeneratorSource
	notifier Notifier
	now      func() time.Time
	newID    func() string

	mu    sync.Mutex
	cache map[string]*model.EventChecklist
	wg    sync.WaitGroup
}

// NewChecklistService panics on nil required dependencies.  A nil notifier
// disables submission emails.
func NewChecklistService(store ChecklistStore, events EventLookup, gens GeneratorSource, notifier Notifier) *ChecklistService {
	if store == nil || events == nil || gens == nil {
		panic("checklist service: nil dependency")
	}
	return &ChecklistService{
		store:    store,
		events:   events,
		gens:     gens,
		notifier: notifier,
		now:      time.Now,
		newID:    func() string { return "custom_" + uuid.NewString() },
		cache:    map[string]*model.EventChecklist{},
	}
}

// Wait blocks until in-flight notifications finish.  Used on shutdown.
func (s *ChecklistService) Wait() { s.wg.Wait() }

// load returns the cached aggregate, reads it from the store, or creates it
// for a known event.  Caller holds s.mu.
func (s *ChecklistService) load(ctx context.Context, eventID string) (*model.EventChecklist, error) {
	if c, ok := s.cache[eventID]; ok {
		return c, nil
	}
	c, err := s.store.Get(ctx, eventID)
	if err == nil {
		s.cache[eventID] = c
		return c, nil
	}
	if !errors.Is(err, model.ErrChecklistNotFound) {
		return nil, err
	}

	ev, ok := s.events.Find(eventID)
	if !ok {
		return nil, model.ErrEventNotFound
	}
	c = model.NewEventChecklist(eventID)
	c.EventType = ev.EventType
	c.Corporate = packer.IsCorporate(ev.EventType)
	c.Packer = s.gens.Generator().Generate(ev.EventType, ev.ServiceNames())
	if len(c.Packer) == 0 {
		c.Packer = packer.DefaultChecklist()
		metrics.ChecklistGeneratedTotal.WithLabelValues("default").Inc()
	} else {
		metrics.ChecklistGeneratedTotal.WithLabelValues("generated").Inc()
	}
	s.cache[eventID] = c
	return c, nil
}

// mutate applies fn to a copy of the aggregate and commits it on success.
func (s *ChecklistService) mutate(ctx context.Context, eventID string, fn func(c *model.EventChecklist) error) (*model.EventChecklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	next := cur.Clone()
	if err := fn(next); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, next); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("checklist", "save").Inc()
		return nil, err
	}
	s.cache[eventID] = next
	return next, nil
}

// Get returns the checklist view.  A checklist still holding the generic
// default list is rebuilt from the booked services once they are known.
func (s *ChecklistService) Get(ctx context.Context, eventID string) (*model.ChecklistView, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, err := s.load(ctx, eventID)
	if err != nil {
		return nil, err
	}
	ev, known := s.events.Find(eventID)
	if known && len(ev.Services) > 0 && !c.HasAutoItems() && packer.IsDefaultChecklist(c.Packer) {
		if next, ok := s.rebuildStale(ctx, c, ev); ok {
			c = next
		}
	}
	return c.View(), nil
}

func (s *ChecklistService) rebuildStale(ctx context.Context, c *model.EventChecklist, ev model.Event) (*model.EventChecklist, bool) {
	gen := s.gens.Generator()
	if len(gen.Generate(ev.EventType, ev.ServiceNames())) == 0 {
		return nil, false
	}
	next := c.Clone()
	next.Packer = gen.Regenerate(ev.EventType, ev.ServiceNames(), c.CustomItems(), c.RemovedItems)
	next.EventType = ev.EventType
	next.Corporate = packer.IsCorporate(ev.EventType)
	if err := s.store.Save(ctx, next); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("checklist", "save").Inc()
		logger.Warn("stale checklist rebuild not saved", map[string]interface{}{
			"event_id": c.EventID, "error": err.Error(),
		})
		return nil, false
	}
	metrics.ChecklistGeneratedTotal.WithLabelValues("regenerated").Inc()
	s.cache[c.EventID] = next
	return next, true
}

// Peek returns the stored aggregate without creating one; nil when none
// exists.
func (s *ChecklistService) Peek(ctx context.Context, eventID string) (*model.EventChecklist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if c, ok := s.cache[eventID]; ok {
		return c, nil
	}
	c, err := s.store.Get(ctx, eventID)
	if errors.Is(err, model.ErrChecklistNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.cache[eventID] = c
	return c, nil
}

// Toggle sets completion of one item.  Attendant item ids are pickup_<packer
// id> and only address items currently on the pickup list.
func (s *ChecklistService) Toggle(ctx context.Context, eventID string, kind model.ChecklistKind, itemID string, completed bool, by string) (model.ChecklistItem, error) {
	var out model.ChecklistItem
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		if c.Submission(kind) != nil {
			return model.ErrAlreadySubmitted
		}
		now := s.now().UTC()
		if kind == model.KindPacker {
			it, ok := c.PackerItem(itemID)
			if !ok {
				return model.ErrItemNotFound
			}
			it.Mark(completed, by, now)
			out = *it
			return nil
		}

		orig := strings.TrimPrefix(itemID, model.PickupPrefix)
		if orig == itemID {
			return model.ErrItemNotFound
		}
		var found *model.ChecklistItem
		for _, cand := range c.PickupCandidates() {
			if cand.ID == orig {
				cand := cand
				found = &cand
				break
			}
		}
		if found == nil {
			return model.ErrItemNotFound
		}
		if completed {
			c.PickupStatus[orig] = model.PickupState{Completed: true, CompletedBy: by, CompletedAt: &now}
		} else {
			delete(c.PickupStatus, orig)
		}
		st := c.PickupStatus[orig]
		out = model.ChecklistItem{
			ID:          itemID,
			Text:        found.Text,
			Required:    true,
			Completed:   st.Completed,
			CompletedBy: st.CompletedBy,
			CompletedAt: st.CompletedAt,
			Source:      found.Source,
		}
		return nil
	})
	return out, err
}

// Submit validates and records a submission, then dispatches the summary
// email in the background.  A rejected submission changes nothing.
func (s *ChecklistService) Submit(ctx context.Context, eventID string, kind model.ChecklistKind, req SubmitRequest) (*model.SubmissionRecord, error) {
	req.StaffMember = strings.TrimSpace(req.StaffMember)
	if req.StaffMember == "" {
		return nil, fmt.Errorf("%w: staff member is required", model.ErrValidation)
	}

	var (
		rec   *model.SubmissionRecord
		items []model.ChecklistItem
	)
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		if c.Submission(kind) != nil {
			return model.ErrAlreadySubmitted
		}
		items = c.Items(kind)
		var missing []string
		for _, it := range items {
			if it.Required && !it.Completed {
				missing = append(missing, it.Text)
			}
		}
		if len(missing) > 0 {
			return &model.IncompleteError{Missing: missing}
		}
		rec = &model.SubmissionRecord{
			SubmittedBy:         req.StaffMember,
			SubmittedAt:         s.now().UTC(),
			Signature:           req.Signature,
			ChecklistScreenshot: req.ChecklistScreenshot,
		}
		c.SetSubmission(kind, rec)
		return nil
	})
	if err != nil {
		outcome := "error"
		switch {
		case errors.Is(err, model.ErrIncomplete):
			outcome = "incomplete"
		case errors.Is(err, model.ErrAlreadySubmitted):
			outcome = "duplicate"
		}
		metrics.ChecklistSubmissionsTotal.WithLabelValues(string(kind), outcome).Inc()
		return nil, err
	}
	metrics.ChecklistSubmissionsTotal.WithLabelValues(string(kind), "ok").Inc()
	logger.Info("checklist submitted", map[string]interface{}{
		"event_id": eventID, "type": string(kind), "staff": req.StaffMember, "items": len(items),
	})

	if req.SendEmail && s.notifier != nil {
		notice := model.SubmissionNotice{
			EventID:             eventID,
			Kind:                kind,
			StaffMember:         req.StaffMember,
			EventTitle:          req.EventTitle,
			EventDate:           req.EventDate,
			Items:               items,
			Signature:           req.Signature,
			ChecklistScreenshot: req.ChecklistScreenshot,
			SubmittedAt:         rec.SubmittedAt,
		}
		if ev, ok := s.events.Find(eventID); ok {
			if notice.EventTitle == "" {
				notice.EventTitle = ev.Title
			}
			if notice.EventDate == "" {
				notice.EventDate = ev.EventDate
			}
		}
		s.dispatch(notice)
	}
	return rec, nil
}

func (s *ChecklistService) dispatch(n model.SubmissionNotice) {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), notifyTimeout)
		defer cancel()
		if err := s.notifier.NotifySubmitted(ctx, n); err != nil {
			metrics.NotificationsTotal.WithLabelValues("error").Inc()
			logger.Error("submission notification failed", map[string]interface{}{
				"event_id": n.EventID, "type": string(n.Kind), "error": err.Error(),
			})
			return
		}
		metrics.NotificationsTotal.WithLabelValues("ok").Inc()
	}()
}

// Reset clears a submission and the completion of its items.  Resetting the
// packer list also clears pickup progress.  Admin only.
func (s *ChecklistService) Reset(ctx context.Context, eventID string, kind model.ChecklistKind, actor model.Actor) error {
	if !actor.IsAdmin() {
		return model.ErrForbidden
	}
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		c.SetSubmission(kind, nil)
		c.PickupStatus = map[string]model.PickupState{}
		if kind == model.KindPacker {
			for i := range c.Packer {
				c.Packer[i].Clear()
			}
		}
		return nil
	})
	if err == nil {
		metrics.ChecklistResetsTotal.WithLabelValues(string(kind)).Inc()
		logger.Info("checklist reset", map[string]interface{}{"event_id": eventID, "type": string(kind), "by": actor.ID})
	}
	return err
}

// AddCustomItem appends a hand-written item to the packer list.
func (s *ChecklistService) AddCustomItem(ctx context.Context, eventID, text string, required bool) (model.ChecklistItem, []model.ChecklistItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChecklistItem{}, nil, fmt.Errorf("%w: item text is required", model.ErrValidation)
	}
	item := model.ChecklistItem{ID: s.newID(), Text: text, Required: required, Custom: true}
	c, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		c.Packer = append(c.Packer, item)
		return nil
	})
	if err != nil {
		return model.ChecklistItem{}, nil, err
	}
	return item, c.Packer, nil
}

// EditItem changes an item's text and optionally its required flag.  Edited
// items survive regeneration.
func (s *ChecklistService) EditItem(ctx context.Context, eventID, itemID, text string, required *bool) (model.ChecklistItem, []model.ChecklistItem, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.ChecklistItem{}, nil, fmt.Errorf("%w: item text is required", model.ErrValidation)
	}
	var out model.ChecklistItem
	c, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		it, ok := c.PackerItem(itemID)
		if !ok {
			return model.ErrItemNotFound
		}
		it.Text = text
		if required != nil {
			it.Required = *required
		}
		it.Edited = true
		out = *it
		return nil
	})
	if err != nil {
		return model.ChecklistItem{}, nil, err
	}
	return out, c.Packer, nil
}

// RemoveItem deletes a packer item.  Generated items are remembered by text
// so regeneration does not bring them back.
func (s *ChecklistService) RemoveItem(ctx context.Context, eventID, itemID string) ([]model.ChecklistItem, error) {
	c, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		idx := -1
		for i, it := range c.Packer {
			if it.ID == itemID {
				idx = i
				break
			}
		}
		if idx < 0 {
			return model.ErrItemNotFound
		}
		it := c.Packer[idx]
		if it.AutoGenerated || strings.HasPrefix(it.ID, "auto_") {
			if !c.IsRemoved(it.Text) {
				c.RemovedItems = append(c.RemovedItems, strings.ToLower(strings.TrimSpace(it.Text)))
			}
		}
		c.Packer = append(c.Packer[:idx], c.Packer[idx+1:]...)
		delete(c.PickupStatus, itemID)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return c.Packer, nil
}

// Regenerate rebuilds the packer list from the event's current services.
// The event must be in the snapshot.
func (s *ChecklistService) Regenerate(ctx context.Context, eventID string) (*RegenerateResult, error) {
	ev, ok := s.events.Find(eventID)
	if !ok {
		return nil, model.ErrEventNotFound
	}
	gen := s.gens.Generator()
	corporate := packer.IsCorporate(ev.EventType)
	res := &RegenerateResult{EventType: ev.EventType, Corporate: corporate}
	for _, name := range ev.ServiceNames() {
		if _, ok := gen.Catalog().Resolve(name, corporate); ok {
			res.ServicesMatched++
		}
	}

	c, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		items := gen.Regenerate(ev.EventType, ev.ServiceNames(), c.Packer, c.RemovedItems)
		if len(items) == 0 {
			items = packer.DefaultChecklist()
		}
		c.Packer = items
		c.EventType = ev.EventType
		c.Corporate = corporate
		for id := range c.PickupStatus {
			if _, ok := c.PackerItem(id); !ok {
				delete(c.PickupStatus, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	metrics.ChecklistGeneratedTotal.WithLabelValues("regenerated").Inc()
	res.Packer = c.Packer
	return res, nil
}

// SetNotes stores free text for one of the note slots.
func (s *ChecklistService) SetNotes(ctx context.Context, eventID, noteType, notes string) error {
	if !noteTypes[noteType] {
		return fmt.Errorf("%w: unknown notes type %q", model.ErrValidation, noteType)
	}
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		c.Notes[noteType] = notes
		return nil
	})
	return err
}

// SetSubcontractor stores the subcontractor assigned to the event.
func (s *ChecklistService) SetSubcontractor(ctx context.Context, eventID, name string) error {
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		c.Subcontractor = name
		return nil
	})
	return err
}

// SetInternalNotes stores the attendant-facing internal notes that override
// the upstream custom field.
func (s *ChecklistService) SetInternalNotes(ctx context.Context, eventID, notes string) error {
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		c.InternalNotes = &notes
		return nil
	})
	return err
}

// SetBackdrop stores the backdrop description.
func (s *ChecklistService) SetBackdrop(ctx context.Context, eventID, text string) error {
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		c.BackdropText = text
		return nil
	})
	return err
}

// SetBackdropImage stores the preview image and the full-size original;
// full defaults to the preview.
func (s *ChecklistService) SetBackdropImage(ctx context.Context, eventID, image, full string) error {
	if image == "" {
		return fmt.Errorf("%w: image is required", model.ErrValidation)
	}
	if full == "" {
		full = image
	}
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		c.BackdropImage = image
		c.BackdropImageFull = full
		return nil
	})
	return err
}

// ClearBackdropImage drops the preview and the original image.
func (s *ChecklistService) ClearBackdropImage(ctx context.Context, eventID string) error {
	_, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		c.BackdropImage = ""
		c.BackdropImageFull = ""
		return nil
	})
	return err
}

// SetHiddenService hides or shows one booked service, by index, from
// subcontractors.
func (s *ChecklistService) SetHiddenService(ctx context.Context, eventID string, index int, hidden bool) ([]int, error) {
	if index < 0 {
		return nil, fmt.Errorf("%w: service index must be non-negative", model.ErrValidation)
	}
	c, err := s.mutate(ctx, eventID, func(c *model.EventChecklist) error {
		out := c.HiddenServices[:0]
		present := false
		for _, i := range c.HiddenServices {
			if i == index {
				present = true
				if !hidden {
					continue
				}
			}
			out = append(out, i)
		}
		if hidden && !present {
			out = append(out, index)
		}
		c.HiddenServices = out
		return nil
	})
	if err != nil {
		return nil, err
	}
	if c.HiddenServices == nil {
		return []int{}, nil
	}
	return c.HiddenServices, nil
}
