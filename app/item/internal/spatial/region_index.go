package spatial

import (
	"sync"

	"github.com/softrune/itemworld/pkg/logger"
)

// Cell 地图上的一个矩形区域
type Cell struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// RegionIndex 动态区域索引，连接渲染/寻路侧的空间系统
// 掉落物注册表把当前掉落位置集合推送到这里
type RegionIndex interface {
	// SetDynamicRegion 全量设置区域（首次推送）
	SetDynamicRegion(mapID, regionID string, cells []Cell)
	// UpdateDynamicRegion 更新区域（后续推送）
	UpdateDynamicRegion(mapID, regionID string, cells []Cell)
}

// MemoryIndex 进程内的区域索引实现
type MemoryIndex struct {
	logger logger.Logger

	mu      sync.RWMutex
	regions map[string]map[string][]Cell // mapID -> regionID -> cells
}

// NewMemoryIndex 创建进程内区域索引
func NewMemoryIndex(l logger.Logger) *MemoryIndex {
	return &MemoryIndex{
		logger:  l.Named("spatial.memory"),
		regions: make(map[string]map[string][]Cell),
	}
}

// SetDynamicRegion 全量设置区域
func (m *MemoryIndex) SetDynamicRegion(mapID, regionID string, cells []Cell) {
	m.store(mapID, regionID, cells)
	m.logger.Debug("dynamic region set", "map_id", mapID, "region_id", regionID, "cells", len(cells))
}

// UpdateDynamicRegion 更新区域
func (m *MemoryIndex) UpdateDynamicRegion(mapID, regionID string, cells []Cell) {
	m.store(mapID, regionID, cells)
	m.logger.Debug("dynamic region updated", "map_id", mapID, "region_id", regionID, "cells", len(cells))
}

// Cells 返回区域当前的矩形集合（拷贝）
func (m *MemoryIndex) Cells(mapID, regionID string) []Cell {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byRegion, ok := m.regions[mapID]
	if !ok {
		return nil
	}
	cells := byRegion[regionID]
	out := make([]Cell, len(cells))
	copy(out, cells)
	return out
}

func (m *MemoryIndex) store(mapID, regionID string, cells []Cell) {
	m.mu.Lock()
	defer m.mu.Unlock()

	byRegion, ok := m.regions[mapID]
	if !ok {
		byRegion = make(map[string][]Cell)
		m.regions[mapID] = byRegion
	}

	copied := make([]Cell, len(cells))
	copy(copied, cells)
	byRegion[regionID] = copied
}
