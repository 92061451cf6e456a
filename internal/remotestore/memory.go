package remotestore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"

	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

// MemoryStore keeps the document collections in process memory. It backs the
// "memory" database type for demos and substitutes for the real store in
// tests, with the same snapshot semantics as GormStore.
type MemoryStore struct {
	mu       sync.Mutex
	products map[int64]domain.Product
	settings map[string]string
	audit    []domain.AdminAuditLog

	bus  EventBus.Bus
	node *snowflake.Node

	// FailWrites makes every write return an error; used to exercise the
	// remote-failure paths.
	FailWrites bool
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(node *snowflake.Node) *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]domain.Product),
		settings: nil,
		bus:      EventBus.New(),
		node:     node,
	}
}

var errWriteFailed = errors.New("remote write failed")

func (s *MemoryStore) Connect(ctx context.Context, token string) (*Session, error) {
	return &Session{ID: s.node.Generate().String(), Anonymous: token == ""}, nil
}

func (s *MemoryStore) SubscribeProducts(fn ProductSnapshotFunc) (func(), error) {
	if err := s.bus.Subscribe(topicProducts, fn); err != nil {
		return nil, err
	}
	fn(s.snapshotProducts())
	return func() { _ = s.bus.Unsubscribe(topicProducts, fn) }, nil
}

func (s *MemoryStore) SubscribeSettings(fn SettingsSnapshotFunc) (func(), error) {
	if err := s.bus.Subscribe(topicSettings, fn); err != nil {
		return nil, err
	}
	fields, exists := s.snapshotSettings()
	fn(fields, exists)
	return func() { _ = s.bus.Unsubscribe(topicSettings, fn) }, nil
}

func (s *MemoryStore) PutProduct(ctx context.Context, p domain.Product) error {
	s.mu.Lock()
	if s.FailWrites {
		s.mu.Unlock()
		return errWriteFailed
	}
	s.products[p.ID] = p
	s.mu.Unlock()
	s.bus.Publish(topicProducts, s.snapshotProducts())
	return nil
}

func (s *MemoryStore) DeleteProduct(ctx context.Context, id int64) error {
	s.mu.Lock()
	if s.FailWrites {
		s.mu.Unlock()
		return errWriteFailed
	}
	delete(s.products, id)
	s.mu.Unlock()
	s.bus.Publish(topicProducts, s.snapshotProducts())
	return nil
}

func (s *MemoryStore) MergeSettings(ctx context.Context, fields map[string]string) error {
	s.mu.Lock()
	if s.FailWrites {
		s.mu.Unlock()
		return errWriteFailed
	}
	if s.settings == nil {
		s.settings = make(map[string]string)
	}
	for k, v := range fields {
		s.settings[k] = v
	}
	s.mu.Unlock()
	f, exists := s.snapshotSettings()
	s.bus.Publish(topicSettings, f, exists)
	return nil
}

func (s *MemoryStore) SeedSettings(ctx context.Context, fields map[string]string) error {
	s.mu.Lock()
	if s.FailWrites {
		s.mu.Unlock()
		return errWriteFailed
	}
	if s.settings == nil {
		s.settings = make(map[string]string)
	}
	for k, v := range fields {
		if _, ok := s.settings[k]; !ok {
			s.settings[k] = v
		}
	}
	s.mu.Unlock()
	f, exists := s.snapshotSettings()
	s.bus.Publish(topicSettings, f, exists)
	return nil
}

func (s *MemoryStore) AppendAuditLog(ctx context.Context, entry domain.AdminAuditLog) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.FailWrites {
		return errWriteFailed
	}
	if entry.ID == 0 {
		entry.ID = s.node.Generate().Int64()
	}
	if entry.OptTime.IsZero() {
		entry.OptTime = time.Now()
	}
	s.audit = append(s.audit, entry)
	return nil
}

func (s *MemoryStore) PruneAuditLogs(ctx context.Context, before time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.audit[:0]
	for _, e := range s.audit {
		if !e.OptTime.Before(before) {
			kept = append(kept, e)
		}
	}
	s.audit = kept
	return nil
}

func (s *MemoryStore) Enabled() bool { return true }

func (s *MemoryStore) Close() error { return nil }

// AuditLogs returns a copy of the stored operator trail.
func (s *MemoryStore) AuditLogs() []domain.AdminAuditLog {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.AdminAuditLog, len(s.audit))
	copy(out, s.audit)
	return out
}

func (s *MemoryStore) snapshotProducts() []domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Product, 0, len(s.products))
	for _, p := range s.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *MemoryStore) snapshotSettings() (map[string]string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		return nil, false
	}
	out := make(map[string]string, len(s.settings))
	for k, v := range s.settings {
		out[k] = v
	}
	return out, true
}
