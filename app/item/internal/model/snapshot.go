package model

// Snapshot 持久化快照：背包、掉落物双注册表与下一个掉落索引的可序列化联合体
// 这是唯一的持久化单位，没有增量格式
type Snapshot struct {
	Inventories   map[int64]map[string]int64 `json:"inventories"`    // roleID -> 道具名 -> 数量
	DropPositions map[int64]Position         `json:"drop_positions"` // 掉落索引 -> 位置
	DropItems     map[int64]string           `json:"drop_items"`     // 掉落索引 -> 道具名
	NextDropIndex int64                      `json:"next_drop_index"`
}

// NewSnapshot 创建空快照
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Inventories:   make(map[int64]map[string]int64),
		DropPositions: make(map[int64]Position),
		DropItems:     make(map[int64]string),
	}
}
