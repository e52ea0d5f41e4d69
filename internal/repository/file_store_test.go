package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kandebooths/packer-service/internal/model"
	"github.com/kandebooths/packer-service/internal/packer"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileBlobStore_RoundTrip(t *testing.T) {
	s, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	_, err = s.Get(ctx, "42")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.Put(ctx, "42", []byte(`{"v":1}`)))
	require.NoError(t, s.Put(ctx, "42", []byte(`{"v":2}`)))

	data, err := s.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, `{"v":2}`, string(data))
}

func TestFileBlobStore_RejectsTraversal(t *testing.T) {
	s, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../etc/passwd", "a/b", "", "x.y"} {
		assert.ErrorIs(t, s.Put(context.Background(), key, []byte("{}")), ErrInvalidKey, key)
	}
}

type stubStore struct {
	data   map[string][]byte
	getErr error
	putErr error
	puts   int
}

func newStubStore() *stubStore { return &stubStore{data: map[string][]byte{}} }

func (s *stubStore) Get(_ context.Context, key string) ([]byte, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	d, ok := s.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	return d, nil
}

func (s *stubStore) Put(_ context.Context, key string, data []byte) error {
	s.puts++
	if s.putErr != nil {
		return s.putErr
	}
	s.data[key] = data
	return nil
}

func TestMirroredStore_ReadsFallbackOnMiss(t *testing.T) {
	primary, fallback := newStubStore(), newStubStore()
	fallback.data["42"] = []byte("old")
	m := NewMirroredStore(primary, fallback)

	data, err := m.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "old", string(data))
}

func TestMirroredStore_ReadsFallbackOnPrimaryError(t *testing.T) {
	primary, fallback := newStubStore(), newStubStore()
	primary.getErr = errors.New("connection refused")
	fallback.data["42"] = []byte("file")
	m := NewMirroredStore(primary, fallback)

	data, err := m.Get(context.Background(), "42")
	require.NoError(t, err)
	assert.Equal(t, "file", string(data))
}

func TestMirroredStore_PutWritesBoth(t *testing.T) {
	primary, fallback := newStubStore(), newStubStore()
	m := NewMirroredStore(primary, fallback)

	require.NoError(t, m.Put(context.Background(), "42", []byte("x")))
	assert.Equal(t, "x", string(primary.data["42"]))
	assert.Equal(t, "x", string(fallback.data["42"]))
}

func TestMirroredStore_PutFailsOnPrimary(t *testing.T) {
	primary, fallback := newStubStore(), newStubStore()
	primary.putErr = errors.New("down")
	m := NewMirroredStore(primary, fallback)

	assert.Error(t, m.Put(context.Background(), "42", []byte("x")))
	assert.Equal(t, 0, fallback.puts)
}

func TestMirroredStore_PutToleratesFallbackFailure(t *testing.T) {
	primary, fallback := newStubStore(), newStubStore()
	fallback.putErr = errors.New("read-only fs")
	m := NewMirroredStore(primary, fallback)

	assert.NoError(t, m.Put(context.Background(), "42", []byte("x")))
}

func TestChecklistRepo_RoundTrip(t *testing.T) {
	s, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)
	repo := NewChecklistRepo(s)
	ctx := context.Background()

	_, err = repo.Get(ctx, "42")
	assert.ErrorIs(t, err, model.ErrChecklistNotFound)

	c := model.NewEventChecklist("42")
	at := time.Date(2026, 5, 1, 9, 0, 0, 0, time.UTC)
	c.Packer = []model.ChecklistItem{{ID: "auto_0", Text: "Venture", Required: true, AutoGenerated: true}}
	c.Packer[0].Mark(true, "Jo", at)
	c.PackerSubmitted = &model.SubmissionRecord{SubmittedBy: "Jo", SubmittedAt: at}
	require.NoError(t, repo.Save(ctx, c))
	assert.False(t, c.UpdatedAt.IsZero())

	got, err := repo.Get(ctx, "42")
	require.NoError(t, err)
	assert.Equal(t, "Venture", got.Packer[0].Text)
	assert.Equal(t, "Jo", got.Packer[0].CompletedBy)
	require.NotNil(t, got.PackerSubmitted)
	assert.True(t, at.Equal(got.PackerSubmitted.SubmittedAt))
	assert.Nil(t, got.AttendantSubmitted)
	assert.NotNil(t, got.PickupStatus)
}

func TestCatalogRepo_RoundTripKeepsOrder(t *testing.T) {
	s, err := NewFileBlobStore(t.TempDir())
	require.NoError(t, err)
	repo := NewCatalogRepo(s)
	ctx := context.Background()

	_, err = repo.Get(ctx)
	assert.ErrorIs(t, err, ErrNotFound)

	c := packer.DefaultCatalog()
	require.NoError(t, repo.Save(ctx, c))

	got, err := repo.Get(ctx)
	require.NoError(t, err)
	assert.Equal(t, c, got)
}
