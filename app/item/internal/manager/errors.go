package manager

import "errors"

var (
	// ErrUnknownItem 道具名不在配置表中
	ErrUnknownItem = errors.New("item: unknown item")

	// ErrItemNotExchangeable 道具不可交换
	ErrItemNotExchangeable = errors.New("item: not exchangeable")

	// ErrItemNotUsable 道具不可使用
	ErrItemNotUsable = errors.New("item: not usable")

	// ErrItemNotDroppable 道具不可丢弃
	ErrItemNotDroppable = errors.New("item: not droppable")

	// ErrInsufficientQuantity 持有数量不足
	ErrInsufficientQuantity = errors.New("item: insufficient quantity")

	// ErrInvalidAmount 数量必须为正数
	ErrInvalidAmount = errors.New("item: amount must be positive")

	// ErrItemNotFound 玩家没有该道具的持有记录（数量为 0 的记录算作存在）
	ErrItemNotFound = errors.New("item: no record for player and item")

	// ErrDropNotFound 掉落索引不存在或已被拾取
	ErrDropNotFound = errors.New("item: drop not found")

	// ErrTooFarAway 拾取位置超出相邻范围
	ErrTooFarAway = errors.New("item: too far away")

	// ErrUnknownMap 地图名不在配置表中
	ErrUnknownMap = errors.New("item: unknown map")
)
