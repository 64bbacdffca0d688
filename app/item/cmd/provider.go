package main

import (
	"context"
	"time"

	"github.com/google/wire"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/softrune/itemworld/app/item/internal/catalog"
	"github.com/softrune/itemworld/app/item/internal/dao"
	"github.com/softrune/itemworld/app/item/internal/handler"
	"github.com/softrune/itemworld/app/item/internal/manager"
	"github.com/softrune/itemworld/app/item/internal/metrics"
	"github.com/softrune/itemworld/app/item/internal/notify"
	"github.com/softrune/itemworld/app/item/internal/service"
	"github.com/softrune/itemworld/app/item/internal/spatial"
	"github.com/softrune/itemworld/pkg/app"
	"github.com/softrune/itemworld/pkg/database/postgres"
	"github.com/softrune/itemworld/pkg/database/redis"
	"github.com/softrune/itemworld/pkg/logger"
	"github.com/softrune/itemworld/pkg/web"
)

const restoreTimeout = 30 * time.Second

var providerSet = wire.NewSet(
	provideRegistry,
	provideMetrics,
	provideCatalog,
	providePostgres,
	provideRedis,
	provideStore,
	provideStateManager,
	provideScheduler,
	provideNotifier,
	provideRegionIndex,
	service.NewInventoryService,
	service.NewDropService,
	handler.NewItemHandler,
	provideWebServer,
	provideApp,
)

func provideRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

func provideMetrics(registry *prometheus.Registry) (*metrics.ItemMetrics, error) {
	m := metrics.New()
	if err := m.Register(registry); err != nil {
		return nil, err
	}
	return m, nil
}

func provideCatalog(cfg *Config, l logger.Logger) (*catalog.Catalog, error) {
	return catalog.Load(cfg.Data.Dir, l)
}

func providePostgres(cfg *Config) (*postgres.Client, error) {
	return postgres.New(&cfg.Database)
}

func provideRedis(cfg *Config) (*redis.Client, error) {
	return redis.NewClient(&cfg.Redis)
}

func provideStore(cfg *Config, l logger.Logger, pg *postgres.Client, rdb *redis.Client, m *metrics.ItemMetrics) *dao.Store {
	snapshotDAO := dao.NewSnapshotDAO(l, pg, m)

	var cacheDAO *dao.CacheDAO
	if cfg.Cache.Enabled {
		cacheDAO = dao.NewCacheDAO(l, rdb, cfg.Cache.TTL)
	}

	return dao.NewStore(l, snapshotDAO, cacheDAO)
}

// provideStateManager 创建状态管理器并从最近一次快照恢复
func provideStateManager(l logger.Logger, c *catalog.Catalog, store *dao.Store) (*manager.StateManager, error) {
	state := manager.NewStateManager(l, c)

	ctx, cancel := context.WithTimeout(context.Background(), restoreTimeout)
	defer cancel()

	snap, err := store.Load(ctx)
	if err != nil {
		return nil, err
	}
	state.Restore(snap)

	return state, nil
}

func provideScheduler(cfg *Config, l logger.Logger, state *manager.StateManager, store *dao.Store, m *metrics.ItemMetrics) *manager.FlushScheduler {
	return manager.NewFlushScheduler(l, state, store, cfg.Flush.Interval, m)
}

func provideNotifier(cfg *Config, l logger.Logger, rdb *redis.Client) notify.Notifier {
	if !cfg.Notify.Enabled {
		return notify.NoopNotifier{}
	}
	return notify.NewRedisNotifier(l, rdb)
}

func provideRegionIndex(l logger.Logger) spatial.RegionIndex {
	return spatial.NewMemoryIndex(l)
}

func provideWebServer(cfg *Config, l logger.Logger, h *handler.ItemHandler) *web.Server {
	srv := web.NewServer(&cfg.Web, l)
	h.Register(srv.Router())
	return srv
}

// pgCloser 把 PostgreSQL 客户端适配为 app.Closer
type pgCloser struct {
	client *postgres.Client
}

func (c pgCloser) Close() error {
	c.client.Close()
	return nil
}

func provideApp(
	cfg *Config,
	l logger.Logger,
	srv *web.Server,
	scheduler *manager.FlushScheduler,
	pg *postgres.Client,
	rdb *redis.Client,
) app.Application {
	cfg.App.applyDefaults()

	base := app.NewBaseApp(
		app.WithName(cfg.App.Name),
		app.WithVersion(cfg.App.Version),
		app.WithStopTimeout(cfg.App.StopTimeout),
		app.WithLogger(l),
	)

	// 调度器作为 Server 注册：Stop 时执行最后一次强制刷盘
	return app.InitApp(base, app.AppComponents{
		Servers: []app.Server{srv, scheduler},
		Closers: []app.Closer{pgCloser{client: pg}, rdb},
	})
}
