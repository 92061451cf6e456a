package remotestore

import (
	"context"
	"fmt"
	"time"

	"github.com/asaskevich/EventBus"
	"github.com/bwmarrin/snowflake"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/clickhouse-shop/clickhouse/config"
	"github.com/clickhouse-shop/clickhouse/internal/domain"
)

const (
	topicProducts = "remote.products"
	topicSettings = "remote.settings"
)

// GormStore backs the document store with a postgres database. Snapshot
// fan-out happens after every committed write over an in-process bus, so
// within one deployment node subscribers observe the change immediately.
type GormStore struct {
	db   *gorm.DB
	bus  EventBus.Bus
	node *snowflake.Node
}

var _ Store = (*GormStore)(nil)

func NewGormStore(cfg config.DBConfig, node *snowflake.Node) (*GormStore, error) {
	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		cfg.Host, cfg.Port, cfg.User, cfg.Passwd, cfg.Name)
	level := gormlogger.Silent
	if cfg.Debug {
		level = gormlogger.Info
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(level),
	})
	if err != nil {
		return nil, errors.Wrap(err, "connect remote store")
	}
	if err := db.Migrator().AutoMigrate(domain.Tables...); err != nil {
		return nil, errors.Wrap(err, "migrate remote store")
	}
	return &GormStore{db: db, bus: EventBus.New(), node: node}, nil
}

func (s *GormStore) Connect(ctx context.Context, token string) (*Session, error) {
	sqlDB, err := s.db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "remote session")
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, errors.Wrap(err, "remote session")
	}
	return &Session{
		ID:        s.node.Generate().String(),
		Anonymous: token == "",
	}, nil
}

func (s *GormStore) SubscribeProducts(fn ProductSnapshotFunc) (func(), error) {
	if err := s.bus.Subscribe(topicProducts, fn); err != nil {
		return nil, errors.Wrap(err, "subscribe products")
	}
	// Initial catch-up: deliver the current snapshot right away.
	fn(s.loadProducts())
	return func() { _ = s.bus.Unsubscribe(topicProducts, fn) }, nil
}

func (s *GormStore) SubscribeSettings(fn SettingsSnapshotFunc) (func(), error) {
	if err := s.bus.Subscribe(topicSettings, fn); err != nil {
		return nil, errors.Wrap(err, "subscribe settings")
	}
	fields, exists := s.loadSettings()
	fn(fields, exists)
	return func() { _ = s.bus.Unsubscribe(topicSettings, fn) }, nil
}

func (s *GormStore) PutProduct(ctx context.Context, p domain.Product) error {
	if err := s.db.WithContext(ctx).Save(&p).Error; err != nil {
		return errors.Wrapf(err, "put product %d", p.ID)
	}
	s.publishProducts()
	return nil
}

func (s *GormStore) DeleteProduct(ctx context.Context, id int64) error {
	if err := s.db.WithContext(ctx).Delete(&domain.Product{}, id).Error; err != nil {
		return errors.Wrapf(err, "delete product %d", id)
	}
	s.publishProducts()
	return nil
}

func (s *GormStore) MergeSettings(ctx context.Context, fields map[string]string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, value := range fields {
			row := domain.ContentField{Name: name, Value: value, UpdatedAt: time.Now()}
			if err := tx.Save(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "merge settings")
	}
	s.publishSettings()
	return nil
}

func (s *GormStore) SeedSettings(ctx context.Context, fields map[string]string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for name, value := range fields {
			row := domain.ContentField{Name: name, Value: value, UpdatedAt: time.Now()}
			// Fill-if-missing only: a concurrent partial write wins.
			if err := tx.Where(domain.ContentField{Name: name}).
				FirstOrCreate(&row).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "seed settings")
	}
	s.publishSettings()
	return nil
}

func (s *GormStore) AppendAuditLog(ctx context.Context, entry domain.AdminAuditLog) error {
	if entry.ID == 0 {
		entry.ID = s.node.Generate().Int64()
	}
	if entry.OptTime.IsZero() {
		entry.OptTime = time.Now()
	}
	return errors.Wrap(s.db.WithContext(ctx).Create(&entry).Error, "append audit log")
}

func (s *GormStore) PruneAuditLogs(ctx context.Context, before time.Time) error {
	return errors.Wrap(
		s.db.WithContext(ctx).Where("opt_time < ?", before).
			Delete(&domain.AdminAuditLog{}).Error,
		"prune audit logs")
}

func (s *GormStore) Enabled() bool { return true }

func (s *GormStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *GormStore) loadProducts() []domain.Product {
	var rows []domain.Product
	if err := s.db.Order("id").Find(&rows).Error; err != nil {
		zap.S().Errorf("remote store: load products failed: %s", err)
		return nil
	}
	return rows
}

func (s *GormStore) loadSettings() (map[string]string, bool) {
	var rows []domain.ContentField
	if err := s.db.Find(&rows).Error; err != nil {
		zap.S().Errorf("remote store: load settings failed: %s", err)
		return nil, false
	}
	if len(rows) == 0 {
		return nil, false
	}
	fields := make(map[string]string, len(rows))
	for _, r := range rows {
		fields[r.Name] = r.Value
	}
	return fields, true
}

func (s *GormStore) publishProducts() {
	s.bus.Publish(topicProducts, s.loadProducts())
}

func (s *GormStore) publishSettings() {
	fields, exists := s.loadSettings()
	s.bus.Publish(topicSettings, fields, exists)
}
