package app

import (
	"github.com/robfig/cron/v3"

	"github.com/clickhouse-shop/clickhouse/config"
	"github.com/clickhouse-shop/clickhouse/internal/assistant"
	"github.com/clickhouse-shop/clickhouse/internal/cart"
	"github.com/clickhouse-shop/clickhouse/internal/catalog"
	"github.com/clickhouse-shop/clickhouse/internal/checkout"
	"github.com/clickhouse-shop/clickhouse/internal/cms"
	"github.com/clickhouse-shop/clickhouse/internal/notify"
	"github.com/clickhouse-shop/clickhouse/internal/remotestore"
)

// ConfigProvider provides application configuration
type ConfigProvider interface {
	Config() *config.AppConfig
}

// CartProvider provides the cart engine
type CartProvider interface {
	Cart() *cart.Engine
}

// CatalogProvider provides the catalog reconciler
type CatalogProvider interface {
	Catalog() *catalog.Reconciler
}

// ContentProvider provides the page content reconciler
type ContentProvider interface {
	Content() *cms.Reconciler
}

// CheckoutProvider provides the checkout stage machine
type CheckoutProvider interface {
	Checkout() *checkout.Machine
}

// NotifyProvider provides the notification center
type NotifyProvider interface {
	Notify() *notify.Center
}

// RemoteProvider provides remote store access
type RemoteProvider interface {
	Remote() remotestore.Store
	Session() *remotestore.Session
}

// AdminState tracks whether an admin session is live
type AdminState interface {
	AdminActive() bool
	SetAdminActive(active bool)
}

// AppContext combines all provider interfaces for full application context
// Handlers should depend on specific providers or this combined interface
type AppContext interface {
	ConfigProvider
	CartProvider
	CatalogProvider
	ContentProvider
	CheckoutProvider
	NotifyProvider
	RemoteProvider
	AdminState

	Assistant() *assistant.Client
	Scheduler() *cron.Cron
	Release()
}
