package model

// PlayerInventory 玩家道具背包数据
// Items 的 value 可以为 0：数量归零的记录不会被自动清除，
// 调用方不能用"键不存在"推断数量为 0
type PlayerInventory struct {
	RoleID int64            `json:"role_id"`
	Items  map[string]int64 `json:"items"` // Key: 道具名, Value: 数量
}

// NewPlayerInventory 创建一个新的空背包实例
func NewPlayerInventory(roleID int64) *PlayerInventory {
	return &PlayerInventory{
		RoleID: roleID,
		Items:  make(map[string]int64),
	}
}

// Clone 深拷贝背包
func (p *PlayerInventory) Clone() *PlayerInventory {
	items := make(map[string]int64, len(p.Items))
	for name, count := range p.Items {
		items[name] = count
	}
	return &PlayerInventory{RoleID: p.RoleID, Items: items}
}
