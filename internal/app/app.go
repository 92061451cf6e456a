package app

import (
	"context"
	"os"
	"sync/atomic"
	"time"
	_ "time/tzdata"

	"github.com/bwmarrin/snowflake"
	"github.com/panjf2000/ants/v2"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/clickhouse-shop/clickhouse/config"
	"github.com/clickhouse-shop/clickhouse/internal/assistant"
	"github.com/clickhouse-shop/clickhouse/internal/cart"
	"github.com/clickhouse-shop/clickhouse/internal/catalog"
	"github.com/clickhouse-shop/clickhouse/internal/checkout"
	"github.com/clickhouse-shop/clickhouse/internal/cms"
	"github.com/clickhouse-shop/clickhouse/internal/domain"
	"github.com/clickhouse-shop/clickhouse/internal/localstore"
	"github.com/clickhouse-shop/clickhouse/internal/notify"
	"github.com/clickhouse-shop/clickhouse/internal/remotestore"
	"github.com/clickhouse-shop/clickhouse/pkg/metrics"
)

const mirrorPoolSize = 8

// Application wires the storefront engines together. It is constructed once
// at process start, torn down on shutdown, and injected into every component
// that needs it.
type Application struct {
	appConfig *config.AppConfig

	blobs    *localstore.BoltStore
	remote   remotestore.Store
	session  *remotestore.Session
	node     *snowflake.Node
	pool     *ants.Pool
	sched    *cron.Cron
	notifier *notify.Center

	cartEngine   *cart.Engine
	catalogRec   *catalog.Reconciler
	contentRec   *cms.Reconciler
	checkoutFlow *checkout.Machine
	assist       *assistant.Client

	adminActive  atomic.Bool
	unsubscribes []func()
}

// Ensure Application implements all interfaces
var (
	_ ConfigProvider   = (*Application)(nil)
	_ CartProvider     = (*Application)(nil)
	_ CatalogProvider  = (*Application)(nil)
	_ ContentProvider  = (*Application)(nil)
	_ CheckoutProvider = (*Application)(nil)
	_ NotifyProvider   = (*Application)(nil)
	_ RemoteProvider   = (*Application)(nil)
	_ AdminState       = (*Application)(nil)
	_ AppContext       = (*Application)(nil)
)

func NewApplication(appConfig *config.AppConfig) *Application {
	return &Application{appConfig: appConfig}
}

func (a *Application) Config() *config.AppConfig           { return a.appConfig }
func (a *Application) Cart() *cart.Engine                  { return a.cartEngine }
func (a *Application) Catalog() *catalog.Reconciler        { return a.catalogRec }
func (a *Application) Content() *cms.Reconciler            { return a.contentRec }
func (a *Application) Checkout() *checkout.Machine         { return a.checkoutFlow }
func (a *Application) Notify() *notify.Center              { return a.notifier }
func (a *Application) Remote() remotestore.Store           { return a.remote }
func (a *Application) Session() *remotestore.Session       { return a.session }
func (a *Application) Assistant() *assistant.Client        { return a.assist }
func (a *Application) Scheduler() *cron.Cron               { return a.sched }

// OverrideRemote replaces the remote store handle (used in tests).
func (a *Application) OverrideRemote(s remotestore.Store) {
	a.remote = s
}

func (a *Application) Init(cfg *config.AppConfig) error {
	loc, err := time.LoadLocation(cfg.System.Location)
	if err != nil {
		zap.S().Error("timezone config error")
	} else {
		time.Local = loc
	}

	a.initLogger(cfg)

	// Initialize metrics with workdir convention
	if err := metrics.InitMetrics(cfg.System.Workdir); err != nil {
		zap.S().Warn("Failed to initialize metrics:", err)
	}

	if err := os.MkdirAll(cfg.GetDataDir(), 0o755); err != nil {
		return err
	}

	a.node, err = snowflake.NewNode(1)
	if err != nil {
		return err
	}

	a.blobs, err = localstore.NewBoltStore(cfg.GetDataDir())
	if err != nil {
		return err
	}

	a.pool, err = ants.NewPool(mirrorPoolSize)
	if err != nil {
		return err
	}

	a.notifier = notify.NewCenter(a.node, notify.DisplayDuration)

	a.initRemote(cfg)

	a.catalogRec = catalog.NewReconciler(a.blobs, a.remote, a.notifier, a.pool)
	a.cartEngine = cart.NewEngine(a.blobs, a.catalogRec, a.notifier, a.node)
	a.contentRec = cms.NewReconciler(a.remote, a.notifier, a.pool, a.AdminActive)
	a.checkoutFlow = checkout.NewMachine(a.completeOrder,
		checkout.DefaultSubmitDelay, checkout.DefaultConfirmHold)
	a.assist = assistant.NewClient(cfg.Assistant)

	a.subscribeRemote()
	a.initJob()
	return nil
}

func (a *Application) initLogger(cfg *config.AppConfig) {
	var zapConfig zap.Config
	if cfg.Logger.Mode == "production" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}
	zapConfig.OutputPaths = []string{"stdout"}

	var logger *zap.Logger
	if cfg.Logger.FileEnable {
		lumberJackLogger := &lumberjack.Logger{
			Filename:   cfg.Logger.Filename,
			MaxSize:    64,
			MaxBackups: 7,
			MaxAge:     7,
			Compress:   false,
		}
		core := zapcore.NewTee(
			zapcore.NewCore(
				zapcore.NewJSONEncoder(zap.NewProductionEncoderConfig()),
				zapcore.AddSync(lumberJackLogger),
				zapConfig.Level,
			),
			zapcore.NewCore(
				zapcore.NewConsoleEncoder(zap.NewDevelopmentEncoderConfig()),
				zapcore.AddSync(os.Stdout),
				zapConfig.Level,
			),
		)
		logger = zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	} else {
		var err error
		logger, err = zapConfig.Build(zap.AddCaller(), zap.AddCallerSkip(1))
		if err != nil {
			panic(err)
		}
	}
	zap.ReplaceGlobals(logger)
}

// initRemote picks the remote store backend. A misconfigured or unreachable
// store degrades to local-only mode silently: the storefront never refuses
// to start because the mirror is down.
func (a *Application) initRemote(cfg *config.AppConfig) {
	switch {
	case !cfg.RemoteEnabled():
		a.remote = remotestore.NewNopStore()
	case cfg.Database.Type == "memory":
		a.remote = remotestore.NewMemoryStore(a.node)
	default:
		store, err := remotestore.NewGormStore(cfg.Database, a.node)
		if err != nil {
			zap.S().Errorf("remote store unavailable, degrading to local-only mode: %s", err)
			a.remote = remotestore.NewNopStore()
		} else {
			a.remote = store
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	session, err := a.remote.Connect(ctx, cfg.System.Token)
	if err != nil {
		zap.S().Errorf("remote session failed: %s", err)
		session = &remotestore.Session{ID: "local-session", Anonymous: true}
	}
	a.session = session
	zap.S().Infof("remote session established, id: %s anonymous: %v",
		session.ID, session.Anonymous)
}

func (a *Application) subscribeRemote() {
	unsubProducts, err := a.remote.SubscribeProducts(func(products []domain.Product) {
		a.catalogRec.ApplySnapshot(products)
	})
	if err != nil {
		zap.S().Errorf("product subscription failed: %s", err)
	} else {
		a.unsubscribes = append(a.unsubscribes, unsubProducts)
	}

	unsubSettings, err := a.remote.SubscribeSettings(func(fields map[string]string, exists bool) {
		a.contentRec.ApplySnapshot(fields, exists)
	})
	if err != nil {
		zap.S().Errorf("settings subscription failed: %s", err)
	} else {
		a.unsubscribes = append(a.unsubscribes, unsubSettings)
	}
}

// completeOrder is the checkout terminal callback: clear the cart, close the
// cart view, announce success.
func (a *Application) completeOrder() {
	a.cartEngine.Clear()
	a.cartEngine.CloseView()
	a.notifier.Push("Zamówienie złożone pomyślnie!", domain.NotifySuccess)
	metrics.IncrCounter("checkout_completed")
}

// AdminActive reports whether an admin session is live.
func (a *Application) AdminActive() bool {
	return a.adminActive.Load()
}

// SetAdminActive flips the admin gate. Gaining privilege re-runs the lazy
// settings initialization check.
func (a *Application) SetAdminActive(active bool) {
	was := a.adminActive.Swap(active)
	if active && !was {
		a.contentRec.EnsureRemote()
	}
}

// Release releases application resources.
func (a *Application) Release() {
	if a.sched != nil {
		a.sched.Stop()
	}
	if a.checkoutFlow != nil {
		a.checkoutFlow.Cancel()
	}
	for _, unsub := range a.unsubscribes {
		unsub()
	}
	a.unsubscribes = nil
	if a.notifier != nil {
		a.notifier.Stop()
	}
	if a.pool != nil {
		a.pool.Release()
	}
	if a.remote != nil {
		_ = a.remote.Close()
	}
	if a.blobs != nil {
		_ = a.blobs.Close()
	}
	_ = metrics.Close()
	_ = zap.L().Sync()
}
