package manager

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softrune/itemworld/app/item/internal/catalog"
	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/pkg/logger"
)

func testCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	loader := func(tableName string) ([]map[string]any, error) {
		switch tableName {
		case "tbitem":
			return []map[string]any{
				{"name": "sword", "base_class": "generic", "show": true, "exchangeable": true, "droppable": true},
				{"name": "potion", "base_class": "consumable", "show": true, "exchangeable": true, "droppable": true, "usable": true},
				{"name": "quest_scroll", "base_class": "generic", "show": true},
				{"name": "gold", "base_class": "currency", "show": true, "exchangeable": true},
			}, nil
		case "tbmap":
			return []map[string]any{
				{"name": "town", "width": float64(10), "height": float64(10)},
			}, nil
		}
		return nil, nil
	}

	c, err := catalog.LoadWith(loader, logger.NewNoop())
	require.NoError(t, err)
	return c
}

func newTestStateManager(t *testing.T) *StateManager {
	t.Helper()
	return NewStateManager(logger.NewNoop(), testCatalog(t))
}

func grant(m *StateManager, roleID int64, itemName string, amount int64) {
	m.EnsurePlayer(roleID)
	m.mu.Lock()
	m.inventories[roleID][itemName] += amount
	m.mu.Unlock()
}

func TestEnsurePlayerIdempotent(t *testing.T) {
	m := newTestStateManager(t)

	assert.True(t, m.EnsurePlayer(1001))
	assert.False(t, m.EnsurePlayer(1001))
}

func TestGetDistinguishesZeroFromMissing(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "sword", 1)

	_, err := m.Get(1001, "potion")
	assert.ErrorIs(t, err, ErrItemNotFound)

	// 丢弃到 0 之后记录仍然存在
	_, _, err = m.Drop(1001, "sword", model.Position{MapName: "town", X: 3, Y: 3}, model.FacingRight)
	require.NoError(t, err)

	count, err := m.Get(1001, "sword")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestTransfer(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "sword", 3)

	require.NoError(t, m.Transfer(1001, 1002, "sword", 2))

	count, err := m.Get(1001, "sword")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = m.Get(1002, "sword")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// 总量守恒
	assert.Equal(t, int64(3), m.GetAll(1001)["sword"]+m.GetAll(1002)["sword"])
}

func TestTransferValidationLeavesStateUntouched(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "sword", 3)
	grant(m, 1001, "quest_scroll", 1)

	tests := []struct {
		name    string
		item    string
		amount  int64
		wantErr error
	}{
		{"insufficient", "sword", 5, ErrInsufficientQuantity},
		{"unknown item", "excalibur", 1, ErrUnknownItem},
		{"not exchangeable", "quest_scroll", 1, ErrItemNotExchangeable},
		{"zero amount", "sword", 0, ErrInvalidAmount},
		{"negative amount", "sword", -2, ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := m.Transfer(1001, 1002, tt.item, tt.amount)
			assert.ErrorIs(t, err, tt.wantErr)

			assert.Equal(t, int64(3), m.GetAll(1001)["sword"])
			assert.Equal(t, int64(1), m.GetAll(1001)["quest_scroll"])
			assert.Empty(t, m.GetAll(1002))
		})
	}
}

func TestConsume(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "potion", 2)
	grant(m, 1001, "sword", 1)

	def, err := m.Consume(1001, "potion", 1)
	require.NoError(t, err)
	assert.Equal(t, "potion", def.Name)
	assert.NotNil(t, def.Behavior())

	count, err := m.Get(1001, "potion")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	_, err = m.Consume(1001, "sword", 1)
	assert.ErrorIs(t, err, ErrItemNotUsable)

	_, err = m.Consume(1001, "potion", 5)
	assert.ErrorIs(t, err, ErrInsufficientQuantity)
}

func TestDropAndPickupRoundTrip(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "potion", 1)

	index, landing, err := m.Drop(1001, "potion", model.Position{MapName: "town", X: 5, Y: 5}, model.FacingDown)
	require.NoError(t, err)
	assert.Equal(t, model.Position{MapName: "town", X: 5, Y: 6}, landing)

	count, err := m.Get(1001, "potion")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	// 斜向相邻也可拾取
	itemName, err := m.Pickup(1002, index, model.Position{MapName: "town", X: 6, Y: 7})
	require.NoError(t, err)
	assert.Equal(t, "potion", itemName)

	count, err = m.Get(1002, "potion")
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// 掉落物已被移除
	_, err = m.Pickup(1002, index, model.Position{MapName: "town", X: 5, Y: 6})
	assert.ErrorIs(t, err, ErrDropNotFound)
}

func TestDropValidation(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "gold", 10)

	pos := model.Position{MapName: "town", X: 5, Y: 5}

	_, _, err := m.Drop(1001, "excalibur", pos, model.FacingUp)
	assert.ErrorIs(t, err, ErrUnknownItem)

	_, _, err = m.Drop(1001, "gold", pos, model.FacingUp)
	assert.ErrorIs(t, err, ErrItemNotDroppable)

	_, _, err = m.Drop(1001, "sword", pos, model.FacingUp)
	assert.ErrorIs(t, err, ErrInsufficientQuantity)

	grant(m, 1001, "sword", 1)
	_, _, err = m.Drop(1001, "sword", model.Position{MapName: "void", X: 5, Y: 5}, model.FacingUp)
	assert.ErrorIs(t, err, ErrUnknownMap)

	assert.Equal(t, int64(10), m.GetAll(1001)["gold"])
	assert.Equal(t, int64(1), m.GetAll(1001)["sword"])
}

func TestDropLandingAtBoundaries(t *testing.T) {
	tests := []struct {
		name   string
		pos    model.Position
		facing model.Facing
		want   model.Position
	}{
		{"top edge facing up", model.Position{MapName: "town", X: 4, Y: 0}, model.FacingUp, model.Position{MapName: "town", X: 4, Y: 1}},
		{"bottom edge facing down", model.Position{MapName: "town", X: 4, Y: 9}, model.FacingDown, model.Position{MapName: "town", X: 4, Y: 8}},
		{"left edge facing left", model.Position{MapName: "town", X: 0, Y: 4}, model.FacingLeft, model.Position{MapName: "town", X: 1, Y: 4}},
		{"right edge facing right", model.Position{MapName: "town", X: 9, Y: 4}, model.FacingRight, model.Position{MapName: "town", X: 8, Y: 4}},
		{"interior facing up", model.Position{MapName: "town", X: 4, Y: 4}, model.FacingUp, model.Position{MapName: "town", X: 4, Y: 3}},
		{"interior facing left", model.Position{MapName: "town", X: 4, Y: 4}, model.FacingLeft, model.Position{MapName: "town", X: 3, Y: 4}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newTestStateManager(t)
			grant(m, 1001, "sword", 1)

			_, landing, err := m.Drop(1001, "sword", tt.pos, tt.facing)
			require.NoError(t, err)
			assert.Equal(t, tt.want, landing)
		})
	}
}

func TestPickupDistance(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "sword", 1)

	index, landing, err := m.Drop(1001, "sword", model.Position{MapName: "town", X: 5, Y: 5}, model.FacingRight)
	require.NoError(t, err)
	require.Equal(t, model.Position{MapName: "town", X: 6, Y: 5}, landing)

	_, err = m.Pickup(1002, index, model.Position{MapName: "town", X: 8, Y: 5})
	assert.ErrorIs(t, err, ErrTooFarAway)

	// 其他地图上的同坐标不算相邻
	_, err = m.Pickup(1002, index, model.Position{MapName: "dungeon", X: 6, Y: 5})
	assert.ErrorIs(t, err, ErrTooFarAway)

	// 失败的拾取不动任何状态
	assert.Len(t, m.DropCells("town"), 1)
	assert.Empty(t, m.GetAll(1002))

	_, err = m.Pickup(1002, index, model.Position{MapName: "town", X: 6, Y: 5})
	assert.NoError(t, err)
}

func TestDropIndexStrictlyIncreasing(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "sword", 3)

	pos := model.Position{MapName: "town", X: 5, Y: 5}

	i1, _, err := m.Drop(1001, "sword", pos, model.FacingUp)
	require.NoError(t, err)
	i2, _, err := m.Drop(1001, "sword", pos, model.FacingDown)
	require.NoError(t, err)

	_, err = m.Pickup(1001, i1, pos)
	require.NoError(t, err)

	// 已拾取的索引不复用
	i3, _, err := m.Drop(1001, "sword", pos, model.FacingLeft)
	require.NoError(t, err)

	assert.Greater(t, i2, i1)
	assert.Greater(t, i3, i2)
}

func TestDropCellsOrderedByIndex(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "sword", 3)

	_, _, err := m.Drop(1001, "sword", model.Position{MapName: "town", X: 2, Y: 2}, model.FacingUp)
	require.NoError(t, err)
	_, _, err = m.Drop(1001, "sword", model.Position{MapName: "town", X: 7, Y: 7}, model.FacingDown)
	require.NoError(t, err)

	cells := m.DropCells("town")
	require.Len(t, cells, 2)
	assert.Equal(t, 2, cells[0].X)
	assert.Equal(t, 1, cells[0].Y)
	assert.Equal(t, 7, cells[1].X)
	assert.Equal(t, 8, cells[1].Y)

	assert.Empty(t, m.DropCells("dungeon"))
}

func TestSnapshotRestoreRoundTrip(t *testing.T) {
	m := newTestStateManager(t)
	grant(m, 1001, "sword", 3)
	grant(m, 1002, "potion", 1)

	index, _, err := m.Drop(1001, "sword", model.Position{MapName: "town", X: 5, Y: 5}, model.FacingRight)
	require.NoError(t, err)

	snap := m.Snapshot()

	// 快照是深拷贝，之后的变更不影响已取快照
	require.NoError(t, m.Transfer(1001, 1002, "sword", 1))
	assert.Equal(t, int64(2), snap.Inventories[1001]["sword"])

	restored := NewStateManager(logger.NewNoop(), testCatalog(t))
	restored.Restore(snap)

	assert.Equal(t, int64(2), restored.GetAll(1001)["sword"])
	assert.Equal(t, int64(1), restored.GetAll(1002)["potion"])

	// 恢复后索引序列从快照点继续，仍不复用
	grant(restored, 1003, "sword", 1)
	next, _, err := restored.Drop(1003, "sword", model.Position{MapName: "town", X: 1, Y: 1}, model.FacingUp)
	require.NoError(t, err)
	assert.Greater(t, next, index)
}
