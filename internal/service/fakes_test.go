package service

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"github.com/kandebooths/packer-service/internal/model"
	"github.com/kandebooths/packer-service/internal/packer"
	"github.com/kandebooths/packer-service/internal/repository"
)

type memChecklistStore struct {
	mu      sync.Mutex
	data    map[string]*model.EventChecklist
	saves   int
	saveErr error
}

func newMemChecklistStore() *memChecklistStore {
	return &memChecklistStore{data: map[string]*model.EventChecklist{}}
}

func (m *memChecklistStore) Get(_ context.Context, id string) (*model.EventChecklist, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.data[id]
	if !ok {
		return nil, model.ErrChecklistNotFound
	}
	return c.Clone(), nil
}

func (m *memChecklistStore) Save(_ context.Context, c *model.EventChecklist) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saves++
	m.data[c.EventID] = c.Clone()
	return nil
}

type staticEvents map[string]model.Event

func (s staticEvents) Find(id string) (model.Event, bool) {
	e, ok := s[id]
	return e, ok
}

type memCatalogStore struct {
	c   *packer.Catalog
	err error
}

func (m *memCatalogStore) Get(context.Context) (*packer.Catalog, error) {
	if m.err != nil {
		return nil, m.err
	}
	if m.c == nil {
		return nil, repository.ErrNotFound
	}
	return m.c.Clone(), nil
}

func (m *memCatalogStore) Save(_ context.Context, c *packer.Catalog) error {
	if m.err != nil {
		return m.err
	}
	m.c = c.Clone()
	return nil
}

type mockNotifier struct {
	mock.Mock
	sent chan model.SubmissionNotice
}

func newMockNotifier() *mockNotifier {
	return &mockNotifier{sent: make(chan model.SubmissionNotice, 4)}
}

func (m *mockNotifier) NotifySubmitted(ctx context.Context, n model.SubmissionNotice) error {
	args := m.Called(ctx, n)
	m.sent <- n
	return args.Error(0)
}

type stubFetcher struct {
	mu    sync.Mutex
	calls int
	dash  *model.Dashboard
	err   error
}

func (f *stubFetcher) FetchDashboard(context.Context) (*model.Dashboard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.dash, nil
}

func (f *stubFetcher) set(d *model.Dashboard, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dash, f.err = d, err
}

func (f *stubFetcher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
