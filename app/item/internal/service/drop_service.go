package service

import (
	"context"
	"time"

	"github.com/softrune/itemworld/app/item/internal/catalog"
	"github.com/softrune/itemworld/app/item/internal/manager"
	"github.com/softrune/itemworld/app/item/internal/metrics"
	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/app/item/internal/spatial"
	"github.com/softrune/itemworld/pkg/logger"
)

// 掉落物在空间索引中占用的区域名
const dropRegionID = "drops"

// DropService 世界掉落物业务逻辑
type DropService struct {
	logger    logger.Logger
	state     *manager.StateManager
	scheduler *manager.FlushScheduler
	regions   spatial.RegionIndex
	metrics   *metrics.ItemMetrics
}

// NewDropService 创建掉落物服务，并向空间索引全量推送各地图的初始掉落区域
// 进程重启恢复快照后，这里把恢复出来的掉落位置重新注册进去
func NewDropService(
	l logger.Logger,
	c *catalog.Catalog,
	state *manager.StateManager,
	scheduler *manager.FlushScheduler,
	regions spatial.RegionIndex,
	m *metrics.ItemMetrics,
) *DropService {
	s := &DropService{
		logger:    l.Named("service.drop"),
		state:     state,
		scheduler: scheduler,
		regions:   regions,
		metrics:   m,
	}

	for _, mapName := range c.MapNames() {
		s.regions.SetDynamicRegion(mapName, dropRegionID, s.state.DropCells(mapName))
	}

	return s
}

// Drop 玩家丢出道具，返回掉落索引与落点
func (s *DropService) Drop(ctx context.Context, roleID int64, itemName string, pos model.Position, facing model.Facing) (int64, model.Position, error) {
	start := time.Now()
	index, landing, err := s.state.Drop(roleID, itemName, pos, facing)
	s.metrics.RecordOperation("drop", err == nil, time.Since(start).Seconds())
	if err != nil {
		return 0, model.Position{}, err
	}

	s.scheduler.Schedule()
	s.regions.UpdateDynamicRegion(landing.MapName, dropRegionID, s.state.DropCells(landing.MapName))

	return index, landing, nil
}

// Pickup 玩家拾取掉落物，返回道具名
func (s *DropService) Pickup(ctx context.Context, roleID int64, dropIndex int64, pos model.Position) (string, error) {
	start := time.Now()
	itemName, err := s.state.Pickup(roleID, dropIndex, pos)
	s.metrics.RecordOperation("pickup", err == nil, time.Since(start).Seconds())
	if err != nil {
		return "", err
	}

	s.scheduler.Schedule()
	s.regions.UpdateDynamicRegion(pos.MapName, dropRegionID, s.state.DropCells(pos.MapName))

	return itemName, nil
}
