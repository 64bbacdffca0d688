package service

import (
	"context"
	"time"

	"github.com/softrune/itemworld/app/item/internal/catalog"
	"github.com/softrune/itemworld/app/item/internal/manager"
	"github.com/softrune/itemworld/app/item/internal/metrics"
	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/app/item/internal/notify"
	"github.com/softrune/itemworld/pkg/logger"
)

const defaultNotifyTimeout = 2 * time.Second

// ItemInfo 客户端可见的道具信息
type ItemInfo struct {
	Name       string         `json:"name"`
	ImagePath  string         `json:"image_path"`
	Layer      int            `json:"layer"`
	Properties map[string]any `json:"properties,omitempty"`
}

// InventoryService 背包业务逻辑
type InventoryService struct {
	logger        logger.Logger
	catalog       *catalog.Catalog
	state         *manager.StateManager
	scheduler     *manager.FlushScheduler
	notifier      notify.Notifier
	metrics       *metrics.ItemMetrics
	notifyTimeout time.Duration
}

// NewInventoryService 创建背包服务
func NewInventoryService(
	l logger.Logger,
	c *catalog.Catalog,
	state *manager.StateManager,
	scheduler *manager.FlushScheduler,
	notifier notify.Notifier,
	m *metrics.ItemMetrics,
) *InventoryService {
	return &InventoryService{
		logger:        l.Named("service.inventory"),
		catalog:       c,
		state:         state,
		scheduler:     scheduler,
		notifier:      notifier,
		metrics:       m,
		notifyTimeout: defaultNotifyTimeout,
	}
}

// GetItemList 返回全部客户端可见道具，保持配置表顺序
func (s *InventoryService) GetItemList() []*ItemInfo {
	defs := s.catalog.List()
	out := make([]*ItemInfo, 0, len(defs))
	for _, def := range defs {
		if !def.Show {
			continue
		}
		out = append(out, &ItemInfo{
			Name:       def.Name,
			ImagePath:  def.ImagePath,
			Layer:      def.Layer,
			Properties: def.Properties,
		})
	}
	return out
}

// GetAllItems 返回玩家全部持有记录
// 玩家背包不存在时懒创建，每次触达都排期落盘
func (s *InventoryService) GetAllItems(roleID int64) *model.PlayerInventory {
	s.state.EnsurePlayer(roleID)
	s.scheduler.Schedule()
	inv := model.NewPlayerInventory(roleID)
	inv.Items = s.state.GetAll(roleID)
	return inv
}

// GetItem 返回玩家指定道具的持有数量
func (s *InventoryService) GetItem(roleID int64, itemName string) (int64, error) {
	s.state.EnsurePlayer(roleID)
	s.scheduler.Schedule()
	return s.state.Get(roleID, itemName)
}

// Transfer 玩家间转移道具
func (s *InventoryService) Transfer(ctx context.Context, fromID, toID int64, itemName string, amount int64) error {
	start := time.Now()
	err := s.state.Transfer(fromID, toID, itemName, amount)
	s.metrics.RecordOperation("transfer", err == nil, time.Since(start).Seconds())
	if err != nil {
		return err
	}

	s.scheduler.Schedule()
	s.notifyReceive(ctx, toID, fromID, itemName, amount)
	return nil
}

// Use 玩家使用道具
// 扣减提交后才触发使用效果；效果失败只记录，扣减不回滚
func (s *InventoryService) Use(ctx context.Context, roleID int64, itemName string, amount int64) error {
	start := time.Now()
	def, err := s.state.Consume(roleID, itemName, amount)
	s.metrics.RecordOperation("use", err == nil, time.Since(start).Seconds())
	if err != nil {
		return err
	}

	s.scheduler.Schedule()

	if err := def.Behavior().Apply(ctx, roleID, amount); err != nil {
		s.logger.Error("use effect failed after commit",
			"role_id", roleID,
			"item", itemName,
			"amount", amount,
			"error", err,
		)
	}

	nctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()
	if err := s.notifier.NotifyUseItem(nctx, roleID, itemName, amount); err != nil {
		s.metrics.RecordNotifyFailure()
		s.logger.Warn("failed to notify item use", "role_id", roleID, "item", itemName, "error", err)
	}

	return nil
}

func (s *InventoryService) notifyReceive(ctx context.Context, toID, fromID int64, itemName string, amount int64) {
	nctx, cancel := context.WithTimeout(ctx, s.notifyTimeout)
	defer cancel()

	if err := s.notifier.NotifyReceiveItem(nctx, toID, fromID, itemName, amount); err != nil {
		s.metrics.RecordNotifyFailure()
		s.logger.Warn("failed to notify item receipt",
			"to_role_id", toID,
			"from_role_id", fromID,
			"item", itemName,
			"error", err,
		)
	}
}
