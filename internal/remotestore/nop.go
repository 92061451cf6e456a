package remotestore

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

// NopStore is the local-only fallback used when no remote store is
// configured. Every operation is a successful no-op; subscriptions never
// deliver anything.
type NopStore struct{}

var _ Store = (*NopStore)(nil)

func NewNopStore() *NopStore {
	zap.S().Warn("remote store unconfigured, running in local-only mode")
	return &NopStore{}
}

func (s *NopStore) Connect(ctx context.Context, token string) (*Session, error) {
	return &Session{ID: "local-session", Anonymous: token == ""}, nil
}

func (s *NopStore) SubscribeProducts(fn ProductSnapshotFunc) (func(), error) {
	return func() {}, nil
}

func (s *NopStore) SubscribeSettings(fn SettingsSnapshotFunc) (func(), error) {
	return func() {}, nil
}

func (s *NopStore) PutProduct(ctx context.Context, p domain.Product) error { return nil }

func (s *NopStore) DeleteProduct(ctx context.Context, id int64) error { return nil }

func (s *NopStore) MergeSettings(ctx context.Context, fields map[string]string) error { return nil }

func (s *NopStore) SeedSettings(ctx context.Context, fields map[string]string) error { return nil }

func (s *NopStore) AppendAuditLog(ctx context.Context, entry domain.AdminAuditLog) error { return nil }

func (s *NopStore) PruneAuditLogs(ctx context.Context, before time.Time) error { return nil }

func (s *NopStore) Enabled() bool { return false }

func (s *NopStore) Close() error { return nil }
