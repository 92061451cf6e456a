// Package cms owns the singleton page-content record. Same local-first
// policy as the catalog: optimistic in-memory apply, advisory remote mirror.
package cms

import (
	"context"
	"sync"

	"github.com/mitchellh/mapstructure"
	"github.com/panjf2000/ants/v2"
	"go.uber.org/zap"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
	"github.com/clickhouse-shop/clickhouse/internal/remotestore"
)

// Notifier delivers user-facing messages for save outcomes.
type Notifier interface {
	Push(message string, typ domain.NotificationType) domain.Notification
}

// Reconciler merges remote settings snapshots with the compiled-in defaults.
type Reconciler struct {
	mu         sync.Mutex
	content    domain.PageContent
	defaults   domain.PageContent
	lastExists bool

	remote   remotestore.Store
	notifier Notifier
	pool     *ants.Pool

	// adminActive gates the lazy remote initialization: only an active
	// admin session may write the defaults to an absent remote record.
	adminActive func() bool
}

// NewReconciler seeds the record from the compiled-in defaults. pool may be
// nil, making mirror writes synchronous (used in tests).
func NewReconciler(remote remotestore.Store, notifier Notifier,
	pool *ants.Pool, adminActive func() bool) *Reconciler {
	if adminActive == nil {
		adminActive = func() bool { return false }
	}
	return &Reconciler{
		content:     domain.DefaultPageContent(),
		defaults:    domain.DefaultPageContent(),
		remote:      remote,
		notifier:    notifier,
		pool:        pool,
		adminActive: adminActive,
	}
}

// Content returns the current merged record.
func (r *Reconciler) Content() domain.PageContent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.content
}

// ApplySnapshot merges a remote settings snapshot. Present snapshot fields
// take precedence field by field; fields the snapshot lacks keep their
// default. An absent record triggers lazy initialization with the defaults,
// admin sessions only, with fill-if-missing semantics.
func (r *Reconciler) ApplySnapshot(fields map[string]string, exists bool) {
	r.mu.Lock()
	r.lastExists = exists
	r.mu.Unlock()

	if !exists {
		if r.adminActive() {
			r.seedDefaults()
		}
		return
	}

	merged := r.defaults
	if err := mapstructure.Decode(fields, &merged); err != nil {
		zap.S().Warnf("cms: settings snapshot decode failed: %s", err)
		return
	}

	r.mu.Lock()
	r.content = merged
	r.mu.Unlock()
}

// Save applies new settings optimistically and mirrors them with merge
// semantics. Mirror failure warns, never rolls back.
func (r *Reconciler) Save(ctx context.Context, content domain.PageContent) {
	r.mu.Lock()
	r.content = content
	r.mu.Unlock()

	if !r.remote.Enabled() {
		r.notifier.Push("Zapisano ustawienia (Tryb Demo)!", domain.NotifySuccess)
		return
	}

	fields := content.FieldMap()
	r.submit(func() {
		if err := r.remote.MergeSettings(ctx, fields); err != nil {
			zap.S().Warnf("cms: remote settings write failed: %s", err)
			r.notifier.Push("Błąd zapisu.", domain.NotifyError)
			return
		}
		r.notifier.Push("Zapisano ustawienia!", domain.NotifySuccess)
	})
}

// EnsureRemote re-runs the lazy initialization check. Called when a session
// gains admin privilege after the initial snapshot already reported an
// absent record.
func (r *Reconciler) EnsureRemote() {
	r.mu.Lock()
	exists := r.lastExists
	r.mu.Unlock()
	if exists || !r.adminActive() {
		return
	}
	r.seedDefaults()
}

func (r *Reconciler) seedDefaults() {
	if !r.remote.Enabled() {
		return
	}
	seed := r.defaults.FieldMap()
	r.submit(func() {
		if err := r.remote.SeedSettings(context.Background(), seed); err != nil {
			zap.S().Warnf("cms: lazy settings init failed: %s", err)
		}
	})
}

func (r *Reconciler) submit(fn func()) {
	if r.pool == nil {
		fn()
		return
	}
	if err := r.pool.Submit(fn); err != nil {
		zap.S().Warnf("cms: mirror submit failed: %s", err)
	}
}
