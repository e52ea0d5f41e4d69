package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/kandebooths/packer-service/internal/model"
)

// ChecklistRepo stores EventChecklist aggregates keyed by event id.
type ChecklistRepo struct {
	store BlobStore
}

// NewChecklistRepo wraps a blob store.
func NewChecklistRepo(store BlobStore) *ChecklistRepo {
	return &ChecklistRepo{store: store}
}

// Get loads a checklist.  It returns model.ErrChecklistNotFound when nothing
// was saved for the event.
func (r *ChecklistRepo) Get(ctx context.Context, eventID string) (*model.EventChecklist, error) {
	data, err := r.store.Get(ctx, eventID)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidKey) {
			return nil, model.ErrChecklistNotFound
		}
		return nil, fmt.Errorf("load checklist %s: %w", eventID, err)
	}
	c := model.NewEventChecklist(eventID)
	if err := json.Unmarshal(data, c); err != nil {
		return nil, fmt.Errorf("decode checklist %s: %w", eventID, err)
	}
	c.EventID = eventID
	if c.Notes == nil {
		c.Notes = map[string]string{}
	}
	if c.PickupStatus == nil {
		c.PickupStatus = map[string]model.PickupState{}
	}
	if c.Packer == nil {
		c.Packer = []model.ChecklistItem{}
	}
	return c, nil
}

// Save stamps UpdatedAt and writes the checklist.
func (r *ChecklistRepo) Save(ctx context.Context, c *model.EventChecklist) error {
	c.UpdatedAt = time.Now().UTC()
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode checklist %s: %w", c.EventID, err)
	}
	if err := r.store.Put(ctx, c.EventID, data); err != nil {
		return fmt.Errorf("save checklist %s: %w", c.EventID, err)
	}
	return nil
}
