package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/kandebooths/packer-service/internal/logger"
	"github.com/kandebooths/packer-service/internal/metrics"
	"github.com/kandebooths/packer-service/internal/model"
)

// DashboardFetcher loads a fresh snapshot from upstream.
type DashboardFetcher interface {
	FetchDashboard(ctx context.Context) (*model.Dashboard, error)
}

// EventCache holds the latest upstream snapshot.  Reads serve the snapshot
// while it is younger than the TTL; a failed refetch keeps serving the stale
// one.
type EventCache struct {
	fetcher DashboardFetcher
	ttl     time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	snap      *model.Dashboard
	fetchedAt time.Time

	refreshMu sync.Mutex
}

// NewEventCache panics on a nil fetcher.
func NewEventCache(f DashboardFetcher, ttl time.Duration) *EventCache {
	if f == nil {
		panic("event cache: nil fetcher")
	}
	return &EventCache{fetcher: f, ttl: ttl, now: time.Now}
}

// Snapshot returns the current snapshot without fetching; nil before the
// first successful fetch.
func (c *EventCache) Snapshot() *model.Dashboard {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.snap
}

// Find looks an event up in the current snapshot without fetching.
func (c *EventCache) Find(id string) (model.Event, bool) {
	return c.Snapshot().FindEvent(id)
}

func (c *EventCache) fresh() (*model.Dashboard, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.snap != nil && c.now().Sub(c.fetchedAt) < c.ttl {
		return c.snap, true
	}
	return c.snap, false
}

// Get returns a snapshot no older than the TTL when upstream allows it.
// Errors wrap model.ErrNoEventData and only occur when no snapshot exists.
func (c *EventCache) Get(ctx context.Context) (*model.Dashboard, error) {
	if snap, ok := c.fresh(); ok {
		return snap, nil
	}
	snap, err := c.refresh(ctx, false)
	if err == nil {
		return snap, nil
	}
	if stale := c.Snapshot(); stale != nil {
		logger.Warn("event refresh failed, serving stale snapshot", map[string]interface{}{
			"error":        err.Error(),
			"last_updated": stale.LastUpdated,
		})
		return stale, nil
	}
	return nil, fmt.Errorf("%w: %v", model.ErrNoEventData, err)
}

// Refresh fetches unconditionally.
func (c *EventCache) Refresh(ctx context.Context) (*model.Dashboard, error) {
	return c.refresh(ctx, true)
}

// refresh lets one fetch run at a time; a caller that waited behind another
// fetch reuses its result unless force is set.
func (c *EventCache) refresh(ctx context.Context, force bool) (*model.Dashboard, error) {
	c.refreshMu.Lock()
	defer c.refreshMu.Unlock()
	if !force {
		if snap, ok := c.fresh(); ok {
			return snap, nil
		}
	}

	start := time.Now()
	snap, err := c.fetcher.FetchDashboard(ctx)
	metrics.EventRefreshDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.EventRefreshTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.EventRefreshTotal.WithLabelValues("ok").Inc()
	metrics.EventsCached.Set(float64(len(snap.Events)))

	c.mu.Lock()
	c.snap = snap
	c.fetchedAt = c.now()
	c.mu.Unlock()
	return snap, nil
}

// Start refreshes on every tick until ctx is cancelled.
func (c *EventCache) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logger.Info("event refresher started", map[string]interface{}{"interval": interval.String()})

	for {
		select {
		case <-ctx.Done():
			logger.Info("event refresher stopped", nil)
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil {
				logger.Error("scheduled event refresh failed", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}
