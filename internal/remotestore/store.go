// Package remotestore is the client for the shared remote document store.
// The store is advisory: engines apply changes locally first and mirror them
// here best-effort. Subscriptions deliver full snapshots (never diffs) and
// re-deliver the current snapshot immediately on subscribe.
package remotestore

import (
	"context"
	"time"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

// Session identifies one connection to the remote store. The id is exposed
// for display purposes only.
type Session struct {
	ID        string `json:"id"`
	Anonymous bool   `json:"anonymous"`
}

// ProductSnapshotFunc receives the full product collection on every change.
type ProductSnapshotFunc func(products []domain.Product)

// SettingsSnapshotFunc receives the full settings field map on every change.
// exists is false when no settings record has been written yet.
type SettingsSnapshotFunc func(fields map[string]string, exists bool)

// Store is the remote document store contract. Implementations must treat
// every write as complete once committed and then fan the fresh snapshot out
// to all subscribers.
type Store interface {
	// Connect establishes a session, authenticating with token when one is
	// supplied and anonymously otherwise.
	Connect(ctx context.Context, token string) (*Session, error)

	SubscribeProducts(fn ProductSnapshotFunc) (unsubscribe func(), err error)
	SubscribeSettings(fn SettingsSnapshotFunc) (unsubscribe func(), err error)

	PutProduct(ctx context.Context, p domain.Product) error
	DeleteProduct(ctx context.Context, id int64) error

	// MergeSettings overlays the given fields onto the settings record,
	// leaving fields not named untouched.
	MergeSettings(ctx context.Context, fields map[string]string) error
	// SeedSettings fills in only missing fields, never clobbering values
	// written concurrently. Used for admin lazy initialization.
	SeedSettings(ctx context.Context, fields map[string]string) error

	AppendAuditLog(ctx context.Context, entry domain.AdminAuditLog) error
	PruneAuditLogs(ctx context.Context, before time.Time) error

	// Enabled reports whether a backing store is actually configured.
	Enabled() bool
	Close() error
}
