package manager

import (
	"sort"
	"sync"

	"github.com/softrune/itemworld/app/item/internal/catalog"
	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/app/item/internal/spatial"
	"github.com/softrune/itemworld/pkg/logger"
)

// StateManager 道具状态管理器，持有背包与掉落物两份可变状态
//
// 所有操作在一把互斥锁内完成校验与变更：校验全部通过之前不产生任何
// 副作用，因此失败的操作对状态零影响（没有回滚机制，只能如此）。
// 掉落物的位置表与道具名表在同一临界区内一起增删，外部观察不到
// 只改了一半的中间态。
type StateManager struct {
	logger  logger.Logger
	catalog *catalog.Catalog

	mu            sync.Mutex
	inventories   map[int64]map[string]int64 // roleID -> 道具名 -> 数量
	dropPositions map[int64]model.Position   // 掉落索引 -> 位置
	dropItems     map[int64]string           // 掉落索引 -> 道具名
	nextDropIndex int64                      // 严格递增，拾取后不复用
}

// NewStateManager 创建状态管理器
func NewStateManager(l logger.Logger, c *catalog.Catalog) *StateManager {
	return &StateManager{
		logger:        l.Named("manager.state"),
		catalog:       c,
		inventories:   make(map[int64]map[string]int64),
		dropPositions: make(map[int64]model.Position),
		dropItems:     make(map[int64]string),
	}
}

// EnsurePlayer 确保玩家背包存在（懒创建），返回是否新建
// 幂等；背包一旦创建在进程生命周期内不会销毁
func (m *StateManager) EnsurePlayer(roleID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.ensureLocked(roleID)
}

func (m *StateManager) ensureLocked(roleID int64) bool {
	if _, ok := m.inventories[roleID]; ok {
		return false
	}
	m.inventories[roleID] = make(map[string]int64)
	m.logger.Debug("player inventory created", "role_id", roleID)
	return true
}

// GetAll 返回玩家全部持有记录的拷贝
func (m *StateManager) GetAll(roleID int64) map[string]int64 {
	m.mu.Lock()
	defer m.mu.Unlock()

	items := m.inventories[roleID]
	out := make(map[string]int64, len(items))
	for name, count := range items {
		out[name] = count
	}
	return out
}

// Get 返回玩家指定道具的持有数量
// 没有持有记录时返回 ErrItemNotFound；数量为 0 的记录算作存在
func (m *StateManager) Get(roleID int64, itemName string) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	items, ok := m.inventories[roleID]
	if !ok {
		return 0, ErrItemNotFound
	}
	count, ok := items[itemName]
	if !ok {
		return 0, ErrItemNotFound
	}
	return count, nil
}

// Transfer 从 from 向 to 转移道具
// 校验全部通过后才执行变更：扣减来源、增加目标（目标背包不存在则创建）
func (m *StateManager) Transfer(fromID, toID int64, itemName string, amount int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount <= 0 {
		return ErrInvalidAmount
	}

	def, ok := m.catalog.Get(itemName)
	if !ok {
		return ErrUnknownItem
	}
	if !def.Exchangeable {
		return ErrItemNotExchangeable
	}

	fromItems := m.inventories[fromID]
	if fromItems == nil || fromItems[itemName] < amount {
		return ErrInsufficientQuantity
	}

	m.ensureLocked(toID)
	fromItems[itemName] -= amount
	m.inventories[toID][itemName] += amount

	m.logger.Debug("item transferred",
		"from_role_id", fromID,
		"to_role_id", toID,
		"item", itemName,
		"amount", amount,
	)
	return nil
}

// Consume 扣减玩家道具并返回其定义（供调用方在提交后触发使用效果）
func (m *StateManager) Consume(roleID int64, itemName string, amount int64) (*catalog.ItemDefinition, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	def, ok := m.catalog.Get(itemName)
	if !ok {
		return nil, ErrUnknownItem
	}
	if !def.Usable {
		return nil, ErrItemNotUsable
	}

	items := m.inventories[roleID]
	if items == nil || items[itemName] < amount {
		return nil, ErrInsufficientQuantity
	}

	items[itemName] -= amount

	m.logger.Debug("item consumed",
		"role_id", roleID,
		"item", itemName,
		"amount", amount,
	)
	return def, nil
}

// Drop 玩家在朝向方向上丢出一个道具，返回分配的掉落索引与落点
//
// 落点为玩家位置沿朝向偏移一格；若偏移越出地图边界，道具落在玩家
// 身后（反方向一格）。边界判定使用朝向所在轴的真实地图尺寸。
func (m *StateManager) Drop(roleID int64, itemName string, pos model.Position, facing model.Facing) (int64, model.Position, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	def, ok := m.catalog.Get(itemName)
	if !ok {
		return 0, model.Position{}, ErrUnknownItem
	}
	if !def.Droppable {
		return 0, model.Position{}, ErrItemNotDroppable
	}

	mapDef, ok := m.catalog.GetMap(pos.MapName)
	if !ok {
		return 0, model.Position{}, ErrUnknownMap
	}

	items := m.inventories[roleID]
	if items == nil || items[itemName] < 1 {
		return 0, model.Position{}, ErrInsufficientQuantity
	}

	landing := landingCell(pos, facing, mapDef)

	items[itemName]--
	index := m.nextDropIndex
	m.nextDropIndex++
	m.dropPositions[index] = landing
	m.dropItems[index] = itemName

	m.logger.Debug("item dropped",
		"role_id", roleID,
		"item", itemName,
		"drop_index", index,
		"map", landing.MapName,
		"x", landing.X,
		"y", landing.Y,
	)
	return index, landing, nil
}

// Pickup 玩家拾取掉落物，返回道具名
// 要求拾取位置与落点的切比雪夫距离不超过 1（且在同一张地图上）
func (m *StateManager) Pickup(roleID int64, dropIndex int64, pos model.Position) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropPos, ok := m.dropPositions[dropIndex]
	if !ok {
		return "", ErrDropNotFound
	}

	dist := pos.ChebyshevDistance(dropPos)
	if dist < 0 || dist > 1 {
		return "", ErrTooFarAway
	}

	itemName := m.dropItems[dropIndex]
	// 防御性复查：配置表不可变，正常情况下不会失败
	if def, ok := m.catalog.Get(itemName); !ok || !def.Droppable {
		return "", ErrItemNotDroppable
	}

	m.ensureLocked(roleID)
	m.inventories[roleID][itemName]++
	delete(m.dropPositions, dropIndex)
	delete(m.dropItems, dropIndex)

	m.logger.Debug("item picked up",
		"role_id", roleID,
		"item", itemName,
		"drop_index", dropIndex,
	)
	return itemName, nil
}

// DropCells 返回指定地图上所有掉落物对应的 1x1 矩形集合
// 顺序按掉落索引排序，保证推送内容稳定
func (m *StateManager) DropCells(mapName string) []spatial.Cell {
	m.mu.Lock()
	defer m.mu.Unlock()

	indices := make([]int64, 0, len(m.dropPositions))
	for index, pos := range m.dropPositions {
		if pos.MapName == mapName {
			indices = append(indices, index)
		}
	}
	sort.Slice(indices, func(i, j int) bool { return indices[i] < indices[j] })

	cells := make([]spatial.Cell, 0, len(indices))
	for _, index := range indices {
		pos := m.dropPositions[index]
		cells = append(cells, spatial.Cell{X: pos.X, Y: pos.Y, Width: 1, Height: 1})
	}
	return cells
}

// Snapshot 生成当前状态的深拷贝快照（在刷盘时调用，不在调度时调用）
func (m *StateManager) Snapshot() *model.Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	snap := model.NewSnapshot()
	for roleID, items := range m.inventories {
		copied := make(map[string]int64, len(items))
		for name, count := range items {
			copied[name] = count
		}
		snap.Inventories[roleID] = copied
	}
	for index, pos := range m.dropPositions {
		snap.DropPositions[index] = pos
	}
	for index, name := range m.dropItems {
		snap.DropItems[index] = name
	}
	snap.NextDropIndex = m.nextDropIndex
	return snap
}

// Restore 从快照恢复状态（启动时调用一次）
func (m *StateManager) Restore(snap *model.Snapshot) {
	if snap == nil {
		return
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.inventories = make(map[int64]map[string]int64, len(snap.Inventories))
	for roleID, items := range snap.Inventories {
		copied := make(map[string]int64, len(items))
		for name, count := range items {
			copied[name] = count
		}
		m.inventories[roleID] = copied
	}
	m.dropPositions = make(map[int64]model.Position, len(snap.DropPositions))
	for index, pos := range snap.DropPositions {
		m.dropPositions[index] = pos
	}
	m.dropItems = make(map[int64]string, len(snap.DropItems))
	for index, name := range snap.DropItems {
		m.dropItems[index] = name
	}
	m.nextDropIndex = snap.NextDropIndex

	m.logger.Info("state restored from snapshot",
		"players", len(m.inventories),
		"drops", len(m.dropItems),
		"next_drop_index", m.nextDropIndex,
	)
}

// landingCell 计算落点：沿朝向偏移一格，越界则落在反方向一格
// 只扰动朝向所在轴的坐标
func landingCell(pos model.Position, facing model.Facing, mapDef *catalog.MapDefinition) model.Position {
	landing := pos
	switch facing {
	case model.FacingUp:
		if y := pos.Y - 1; y >= 0 {
			landing.Y = y
		} else {
			landing.Y = pos.Y + 1
		}
	case model.FacingDown:
		if y := pos.Y + 1; y < mapDef.Height {
			landing.Y = y
		} else {
			landing.Y = pos.Y - 1
		}
	case model.FacingLeft:
		if x := pos.X - 1; x >= 0 {
			landing.X = x
		} else {
			landing.X = pos.X + 1
		}
	case model.FacingRight:
		if x := pos.X + 1; x < mapDef.Width {
			landing.X = x
		} else {
			landing.X = pos.X - 1
		}
	}
	return landing
}
