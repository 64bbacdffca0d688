package model

import "fmt"

// Facing 玩家朝向
type Facing string

const (
	FacingUp    Facing = "U"
	FacingDown  Facing = "D"
	FacingLeft  Facing = "L"
	FacingRight Facing = "R"
)

// ParseFacing 解析朝向字符串
func ParseFacing(s string) (Facing, error) {
	switch Facing(s) {
	case FacingUp, FacingDown, FacingLeft, FacingRight:
		return Facing(s), nil
	default:
		return "", fmt.Errorf("invalid facing %q", s)
	}
}

// Position 地图格子坐标
type Position struct {
	MapName string `json:"map_name"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
}

// ChebyshevDistance 切比雪夫距离（横纵最大差值），跨地图返回 -1
func (p Position) ChebyshevDistance(other Position) int {
	if p.MapName != other.MapName {
		return -1
	}
	dx := p.X - other.X
	if dx < 0 {
		dx = -dx
	}
	dy := p.Y - other.Y
	if dy < 0 {
		dy = -dy
	}
	if dx > dy {
		return dx
	}
	return dy
}

// DroppedItem 掉落在世界中的道具
// Index 在进程生命周期内严格递增，即使被拾取也不会复用
type DroppedItem struct {
	Index    int64    `json:"index"`
	Position Position `json:"position"`
	ItemName string   `json:"item_name"`
}
