// Package catalog owns the product collection and the rules for merging
// remote snapshots into it. Policy: local authoritative, remote advisory.
// Every mutation applies in memory first, is written through to the local
// cache unconditionally, and is mirrored to the remote store best-effort.
package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
	"github.com/clickhouse-shop/clickhouse/internal/localstore"
	"github.com/clickhouse-shop/clickhouse/internal/remotestore"
)

// Source tells where the current in-memory catalog came from.
type Source int

const (
	SourceBundled Source = iota
	SourceLocalCache
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceLocalCache:
		return "local_cache"
	case SourceRemote:
		return "remote"
	default:
		return "bundled_default"
	}
}

var (
	ErrProductNotFound = errors.New("product not found")
	ErrNameRequired    = errors.New("product name is required")
	ErrInvalidPrice    = errors.New("product price must be a non-negative number")
)

// Notifier delivers user-facing messages for mirror outcomes.
type Notifier interface {
	Push(message string, typ domain.NotificationType) domain.Notification
}

// Reconciler merges local cache, bundled defaults and remote snapshots into
// one product collection.
type Reconciler struct {
	mu       sync.Mutex
	products []domain.Product
	source   Source

	blobs    localstore.Blobs
	remote   remotestore.Store
	notifier Notifier
	pool     *ants.Pool

	now func() time.Time
}

// NewReconciler seeds the catalog from the local cache, falling back to the
// bundled default selection. pool may be nil, in which case remote mirror
// writes run synchronously (used in tests).
func NewReconciler(blobs localstore.Blobs, remote remotestore.Store,
	notifier Notifier, pool *ants.Pool) *Reconciler {
	r := &Reconciler{
		blobs:    blobs,
		remote:   remote,
		notifier: notifier,
		pool:     pool,
		now:      time.Now,
	}

	var cached []domain.Product
	found, err := blobs.Load(localstore.KeyCatalog, &cached)
	if err != nil {
		zap.S().Warnf("catalog: local cache load failed: %s", err)
	}
	if found && len(cached) > 0 {
		r.products = cached
		r.source = SourceLocalCache
	} else {
		r.products = domain.DefaultCatalog()
		r.source = SourceBundled
	}
	return r
}

// Products returns a copy of the current catalog.
func (r *Reconciler) Products() []domain.Product {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]domain.Product, len(r.products))
	copy(out, r.products)
	return out
}

// Find resolves a product by id.
func (r *Reconciler) Find(id int64) (domain.Product, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, p := range r.products {
		if p.ID == id {
			return p, true
		}
	}
	return domain.Product{}, false
}

// SourceState reports where the current catalog came from.
func (r *Reconciler) SourceState() Source {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.source
}

// ApplySnapshot merges a full remote snapshot. A non-empty snapshot replaces
// the whole catalog, sorted by ascending id with arrival order breaking
// ties, and becomes remote-authoritative. An empty snapshot never overwrites
// the existing catalog.
func (r *Reconciler) ApplySnapshot(items []domain.Product) {
	if len(items) == 0 {
		return
	}
	merged := make([]domain.Product, len(items))
	copy(merged, items)
	sort.SliceStable(merged, func(i, j int) bool { return merged[i].ID < merged[j].ID })

	r.mu.Lock()
	r.products = merged
	r.source = SourceRemote
	r.persistLocked()
	r.mu.Unlock()
}

// SaveProduct creates or updates a product: optimistic in-memory apply,
// unconditional local-cache write, async best-effort remote mirror.
// Products arriving without an id get the current unix-milli timestamp.
// That is monotonic enough for single-admin use; multi-writer deployments
// would need a collision-free scheme.
func (r *Reconciler) SaveProduct(ctx context.Context, p domain.Product) (domain.Product, error) {
	if p.Name == "" {
		return domain.Product{}, ErrNameRequired
	}
	if p.Price < 0 {
		return domain.Product{}, ErrInvalidPrice
	}

	now := r.now()
	if p.ID == 0 {
		p.ID = now.UnixMilli()
		p.CreatedAt = now
	}
	p.UpdatedAt = now

	r.mu.Lock()
	replaced := false
	for i := range r.products {
		if r.products[i].ID == p.ID {
			if p.CreatedAt.IsZero() {
				p.CreatedAt = r.products[i].CreatedAt
			}
			r.products[i] = p
			replaced = true
			break
		}
	}
	if !replaced {
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now
		}
		r.products = append(r.products, p)
	}
	r.persistLocked()
	r.mu.Unlock()

	saved := p
	r.mirror(func() {
		if err := r.remote.PutProduct(ctx, saved); err != nil {
			zap.S().Warnf("catalog: remote mirror of product %d failed: %s", saved.ID, err)
			r.notifier.Push("Błąd zapisu produktu w bazie.", domain.NotifyError)
			return
		}
		r.notifier.Push("Produkt zapisany!", domain.NotifySuccess)
	}, "Produkt zapisany (Tryb Demo)!", domain.NotifySuccess)

	return p, nil
}

// DeleteProduct removes a product locally and mirrors the delete. Cart lines
// referencing it survive as stale snapshots; no cascading delete.
func (r *Reconciler) DeleteProduct(ctx context.Context, id int64) error {
	r.mu.Lock()
	found := false
	for i := range r.products {
		if r.products[i].ID == id {
			r.products = append(r.products[:i], r.products[i+1:]...)
			found = true
			break
		}
	}
	if found {
		r.persistLocked()
	}
	r.mu.Unlock()

	if !found {
		return ErrProductNotFound
	}

	r.mirror(func() {
		if err := r.remote.DeleteProduct(ctx, id); err != nil {
			zap.S().Warnf("catalog: remote delete of product %d failed: %s", id, err)
			r.notifier.Push("Błąd usuwania z bazy.", domain.NotifyError)
			return
		}
		r.notifier.Push("Produkt usunięty.", domain.NotifyInfo)
	}, "Produkt usunięty (Tryb Demo).", domain.NotifyInfo)

	return nil
}

// persistLocked writes the whole catalog through to the local cache. Cache
// write failure is logged, never surfaced: the in-memory state stays
// authoritative.
func (r *Reconciler) persistLocked() {
	if err := r.blobs.Save(localstore.KeyCatalog, r.products); err != nil {
		zap.S().Warnf("catalog: local cache write failed: %s", err)
	}
}

// mirror runs fn against the remote store, fire-and-forget. In local-only
// mode it skips the write and pushes the demo-mode message instead.
func (r *Reconciler) mirror(fn func(), demoMsg string, demoTyp domain.NotificationType) {
	if !r.remote.Enabled() {
		r.notifier.Push(demoMsg, demoTyp)
		return
	}
	if r.pool == nil {
		fn()
		return
	}
	if err := r.pool.Submit(fn); err != nil {
		zap.S().Warnf("catalog: mirror submit failed: %s", err)
	}
}
