package catalog

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
	"github.com/clickhouse-shop/clickhouse/internal/localstore"
	"github.com/clickhouse-shop/clickhouse/internal/remotestore"
)

type stubNotifier struct {
	mu    sync.Mutex
	items []domain.Notification
}

func (s *stubNotifier) Push(message string, typ domain.NotificationType) domain.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := domain.Notification{ID: "n", Message: message, Type: typ}
	s.items = append(s.items, n)
	return n
}

func (s *stubNotifier) last() (domain.Notification, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.items) == 0 {
		return domain.Notification{}, false
	}
	return s.items[len(s.items)-1], true
}

func testBlobs(t *testing.T) *localstore.BoltStore {
	t.Helper()
	blobs, err := localstore.NewBoltStore(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = blobs.Close() })
	return blobs
}

func testRemote(t *testing.T) *remotestore.MemoryStore {
	t.Helper()
	node, err := snowflake.NewNode(3)
	require.NoError(t, err)
	return remotestore.NewMemoryStore(node)
}

func TestStartupFallsBackToBundledDefault(t *testing.T) {
	r := NewReconciler(testBlobs(t), remotestore.NewNopStore(), &stubNotifier{}, nil)

	assert.Equal(t, SourceBundled, r.SourceState())
	assert.Len(t, r.Products(), 6)
}

func TestStartupPrefersLocalCache(t *testing.T) {
	blobs := testBlobs(t)
	cached := []domain.Product{{ID: 42, Name: "Z cache", Price: 10}}
	require.NoError(t, blobs.Save(localstore.KeyCatalog, cached))

	r := NewReconciler(blobs, remotestore.NewNopStore(), &stubNotifier{}, nil)

	assert.Equal(t, SourceLocalCache, r.SourceState())
	got := r.Products()
	require.Len(t, got, 1)
	assert.Equal(t, int64(42), got[0].ID)
}

func TestEmptySnapshotNeverOverwrites(t *testing.T) {
	r := NewReconciler(testBlobs(t), remotestore.NewNopStore(), &stubNotifier{}, nil)
	before := r.Products()

	r.ApplySnapshot(nil)
	r.ApplySnapshot([]domain.Product{})

	assert.Equal(t, before, r.Products())
	assert.Equal(t, SourceBundled, r.SourceState())
}

func TestSnapshotReplacesAndSortsAscending(t *testing.T) {
	blobs := testBlobs(t)
	r := NewReconciler(blobs, remotestore.NewNopStore(), &stubNotifier{}, nil)

	r.ApplySnapshot([]domain.Product{
		{ID: 3, Name: "trzy"},
		{ID: 1, Name: "jeden"},
		{ID: 2, Name: "dwa"},
	})

	got := r.Products()
	require.Len(t, got, 3)
	assert.Equal(t, []int64{1, 2, 3}, []int64{got[0].ID, got[1].ID, got[2].ID})
	assert.Equal(t, SourceRemote, r.SourceState())

	// Write-through: the cache now carries the snapshot.
	var cached []domain.Product
	found, err := blobs.Load(localstore.KeyCatalog, &cached)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, got, cached)
}

func TestSnapshotStableTieOrder(t *testing.T) {
	r := NewReconciler(testBlobs(t), remotestore.NewNopStore(), &stubNotifier{}, nil)

	r.ApplySnapshot([]domain.Product{
		{ID: 5, Name: "pierwszy z pary"},
		{ID: 5, Name: "drugi z pary"},
		{ID: 1, Name: "jeden"},
	})

	got := r.Products()
	require.Len(t, got, 3)
	assert.Equal(t, "pierwszy z pary", got[1].Name)
	assert.Equal(t, "drugi z pary", got[2].Name)
}

func TestSaveProductAssignsTimestampID(t *testing.T) {
	notifier := &stubNotifier{}
	r := NewReconciler(testBlobs(t), remotestore.NewNopStore(), notifier, nil)
	fixed := time.Date(2025, 7, 1, 10, 0, 0, 0, time.UTC)
	r.now = func() time.Time { return fixed }

	saved, err := r.SaveProduct(context.Background(), domain.Product{
		Name: "Hub USB", Price: 89.90,
	})
	require.NoError(t, err)
	assert.Equal(t, fixed.UnixMilli(), saved.ID)

	_, found := r.Find(saved.ID)
	assert.True(t, found)

	// Local-only mode gets the demo-mode confirmation.
	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, domain.NotifySuccess, last.Type)
	assert.Contains(t, last.Message, "Tryb Demo")
}

func TestSaveProductValidation(t *testing.T) {
	r := NewReconciler(testBlobs(t), remotestore.NewNopStore(), &stubNotifier{}, nil)
	before := len(r.Products())

	_, err := r.SaveProduct(context.Background(), domain.Product{Price: 10})
	assert.ErrorIs(t, err, ErrNameRequired)

	_, err = r.SaveProduct(context.Background(), domain.Product{Name: "x", Price: -1})
	assert.ErrorIs(t, err, ErrInvalidPrice)

	assert.Len(t, r.Products(), before)
}

func TestSaveProductMirrorsToRemote(t *testing.T) {
	remote := testRemote(t)
	notifier := &stubNotifier{}
	r := NewReconciler(testBlobs(t), remote, notifier, nil)

	saved, err := r.SaveProduct(context.Background(), domain.Product{ID: 9, Name: "Mata", Price: 59})
	require.NoError(t, err)

	var mirrored []domain.Product
	unsub, err := remote.SubscribeProducts(func(products []domain.Product) { mirrored = products })
	require.NoError(t, err)
	defer unsub()
	require.Len(t, mirrored, 1)
	assert.Equal(t, saved.ID, mirrored[0].ID)

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, domain.NotifySuccess, last.Type)
}

func TestMirrorFailureWarnsWithoutRollback(t *testing.T) {
	remote := testRemote(t)
	remote.FailWrites = true
	notifier := &stubNotifier{}
	r := NewReconciler(testBlobs(t), remote, notifier, nil)

	saved, err := r.SaveProduct(context.Background(), domain.Product{ID: 11, Name: "Kabel", Price: 99})
	require.NoError(t, err)

	// Optimistic state is retained.
	_, found := r.Find(saved.ID)
	assert.True(t, found)

	last, ok := notifier.last()
	require.True(t, ok)
	assert.Equal(t, domain.NotifyError, last.Type)
}

func TestDeleteProduct(t *testing.T) {
	r := NewReconciler(testBlobs(t), remotestore.NewNopStore(), &stubNotifier{}, nil)

	require.NoError(t, r.DeleteProduct(context.Background(), 1))
	_, found := r.Find(1)
	assert.False(t, found)

	assert.ErrorIs(t, r.DeleteProduct(context.Background(), 1), ErrProductNotFound)
}
