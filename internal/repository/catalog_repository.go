package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/kandebooths/packer-service/internal/packer"
)

// CatalogKey is the blob key of the admin-edited packer catalog.
const CatalogKey = "__packer_config__"

// CatalogRepo stores the packer catalog next to the checklists.
type CatalogRepo struct {
	store BlobStore
}

// NewCatalogRepo wraps a blob store.
func NewCatalogRepo(store BlobStore) *CatalogRepo {
	return &CatalogRepo{store: store}
}

// Get returns the saved catalog or ErrNotFound when none was saved.
func (r *CatalogRepo) Get(ctx context.Context) (*packer.Catalog, error) {
	data, err := r.store.Get(ctx, CatalogKey)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	var c packer.Catalog
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return &c, nil
}

// Save writes the catalog.
func (r *CatalogRepo) Save(ctx context.Context, c *packer.Catalog) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode catalog: %w", err)
	}
	if err := r.store.Put(ctx, CatalogKey, data); err != nil {
		return fmt.Errorf("save catalog: %w", err)
	}
	return nil
}
