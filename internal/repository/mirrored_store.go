package repository

import (
	"context"
	"errors"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/metrics"
)

// MirroredStore writes to a primary store and copies every write to a
// fallback.  Reads prefer the primary and fall back when it has no row or
// fails, which also picks up blobs written before the primary existed.
type MirroredStore struct {
	primary  BlobStore
	fallback BlobStore
}

// NewMirroredStore panics on nil stores.
func NewMirroredStore(primary, fallback BlobStore) *MirroredStore {
	if primary == nil || fallback == nil {
		panic("mirrored store: nil store")
	}
	return &MirroredStore{primary: primary, fallback: fallback}
}

func (s *MirroredStore) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := s.primary.Get(ctx, key)
	if err == nil {
		return data, nil
	}
	if !errors.Is(err, ErrNotFound) {
		metrics.StoreErrorsTotal.WithLabelValues("primary", "get").Inc()
		logger.Warn("primary store read failed, using fallback", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}
	return s.fallback.Get(ctx, key)
}

// Put fails when the primary write fails.  A failed fallback write is only
// logged.
func (s *MirroredStore) Put(ctx context.Context, key string, data []byte) error {
	if err := s.primary.Put(ctx, key, data); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("primary", "put").Inc()
		return err
	}
	if err := s.fallback.Put(ctx, key, data); err != nil {
		metrics.StoreErrorsTotal.WithLabelValues("fallback", "put").Inc()
		logger.Warn("fallback store write failed", map[string]interface{}{
			"key": key, "error": err.Error(),
		})
	}
	return nil
}
