package service

import (
	"context"
	"errors"
	"sync"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/model"
	"github.com/kandebooths/packer-service/internal/packer"
	"github.com/kandebooths/packer-service/internal/repository"
)

// CatalogStore persists the admin-edited catalog.
type CatalogStore interface {
	Get(ctx context.Context) (*packer.Catalog, error)
	Save(ctx context.Context, c *packer.Catalog) error
}

// CatalogService owns the active catalog and the generator built on it.
// Saving swaps the generator atomically for later generations.
type CatalogService struct {
	store CatalogStore

	mu  sync.RWMutex
	gen *packer.Generator
}

// NewCatalogService starts with the built-in catalog until Load runs.
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{store: store, gen: packer.NewGenerator(nil)}
}

// Load replaces the built-in catalog with the saved one, if any.
func (s *CatalogService) Load(ctx context.Context) error {
	c, err := s.store.Get(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Info("no saved packer catalog, using built-in", nil)
		return nil
	}
	if err != nil {
		return err
	}
	s.mu.Lock()
	s.gen = packer.NewGenerator(c)
	s.mu.Unlock()
	logger.Info("packer catalog loaded", map[string]interface{}{
		"corporate_services":     len(c.Corporate.Services),
		"non_corporate_services": len(c.NonCorporate.Services),
	})
	return nil
}

// Generator returns the generator for the active catalog.
func (s *CatalogService) Generator() *packer.Generator {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// Catalog returns a copy of the active catalog.
func (s *CatalogService) Catalog() *packer.Catalog {
	return s.Generator().Catalog().Clone()
}

// Save persists c and makes it active.  Existing checklists are untouched
// until they are regenerated.
func (s *CatalogService) Save(ctx context.Context, c *packer.Catalog) error {
	if c == nil {
		return model.ErrValidation
	}
	c = c.Clone()
	if err := s.store.Save(ctx, c); err != nil {
		return err
	}
	s.mu.Lock()
	s.gen = packer.NewGenerator(c)
	s.mu.Unlock()
	return nil
}
