package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/softrune/itemworld/pkg/logger"
)

// ItemDefinition 道具静态定义，加载后只读
type ItemDefinition struct {
	Name      string `json:"name"`
	ImagePath string `json:"image_path"`
	BaseClass string `json:"base_class"`
	Layer     int    `json:"layer"`

	// 实例标志
	Show         bool `json:"show"`         // 是否在客户端列表中展示
	Exchangeable bool `json:"exchangeable"` // 可交换
	Droppable    bool `json:"droppable"`    // 可丢弃
	Usable       bool `json:"usable"`       // 可使用

	// 其余的道具专属属性
	Properties map[string]any `json:"properties,omitempty"`

	behavior UseBehavior
}

// Behavior 返回加载时解析好的使用效果句柄
func (d *ItemDefinition) Behavior() UseBehavior {
	return d.behavior
}

// MapDefinition 地图静态定义
type MapDefinition struct {
	Name   string `json:"name"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

// Catalog 道具与地图配置表，启动时构建一次，此后不可变
type Catalog struct {
	defs  []*ItemDefinition          // 保持配置表插入顺序（对外契约）
	index map[string]*ItemDefinition // 道具名 -> 定义
	maps  map[string]*MapDefinition  // 地图名 -> 定义
}

// JSONLoader 配置表加载函数：表名 -> 记录列表
type JSONLoader func(tableName string) ([]map[string]any, error)

// NewFileJSONLoader 创建一个本地文件 JSON 加载器
// 每张表对应 dataDir 下的 <tablename>.json 文件
func NewFileJSONLoader(dataDir string, l logger.Logger) JSONLoader {
	return func(tableName string) ([]map[string]any, error) {
		filePath := filepath.Join(dataDir, fmt.Sprintf("%s.json", tableName))

		data, err := os.ReadFile(filePath)
		if err != nil {
			return nil, fmt.Errorf("failed to read required config file %s: %w", filePath, err)
		}

		var res []map[string]any
		if err := json.Unmarshal(data, &res); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config file %s: %w", filePath, err)
		}

		l.Debug("config table loaded", "table", tableName, "path", filePath, "records", len(res))
		return res, nil
	}
}

// Load 从数据目录构建配置表
// 任何道具引用未注册基类或文件格式错误都会返回错误，进程不应继续启动
func Load(dataDir string, l logger.Logger) (*Catalog, error) {
	return LoadWith(NewFileJSONLoader(dataDir, l), l)
}

// LoadWith 使用给定的加载器构建配置表
func LoadWith(loader JSONLoader, l logger.Logger) (*Catalog, error) {
	c := &Catalog{
		index: make(map[string]*ItemDefinition),
		maps:  make(map[string]*MapDefinition),
	}

	itemRows, err := loader("tbitem")
	if err != nil {
		return nil, err
	}
	for i, row := range itemRows {
		def, err := parseItemRow(row)
		if err != nil {
			return nil, fmt.Errorf("tbitem row %d: %w", i, err)
		}

		if _, exists := c.index[def.Name]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateItem, def.Name)
		}

		factory, ok := behaviorFactories[def.BaseClass]
		if !ok {
			return nil, fmt.Errorf("%w: %s (item %s)", ErrUnknownBaseClass, def.BaseClass, def.Name)
		}
		def.behavior = factory(def, l)

		c.defs = append(c.defs, def)
		c.index[def.Name] = def
	}

	mapRows, err := loader("tbmap")
	if err != nil {
		return nil, err
	}
	for i, row := range mapRows {
		m, err := parseMapRow(row)
		if err != nil {
			return nil, fmt.Errorf("tbmap row %d: %w", i, err)
		}
		c.maps[m.Name] = m
	}

	l.Info("catalog loaded", "items", len(c.defs), "maps", len(c.maps))
	return c, nil
}

// Get 按名查找道具定义
func (c *Catalog) Get(name string) (*ItemDefinition, bool) {
	def, ok := c.index[name]
	return def, ok
}

// List 按配置表插入顺序返回全部道具定义
// 顺序是对外契约的一部分：客户端看到的列表必须稳定
func (c *Catalog) List() []*ItemDefinition {
	out := make([]*ItemDefinition, len(c.defs))
	copy(out, c.defs)
	return out
}

// GetMap 按名查找地图定义
func (c *Catalog) GetMap(name string) (*MapDefinition, bool) {
	m, ok := c.maps[name]
	return m, ok
}

// MapNames 返回全部地图名
func (c *Catalog) MapNames() []string {
	names := make([]string, 0, len(c.maps))
	for name := range c.maps {
		names = append(names, name)
	}
	return names
}

// parseItemRow 解析单条道具记录，已知字段之外的键收入 Properties
func parseItemRow(row map[string]any) (*ItemDefinition, error) {
	name, ok := row["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	baseClass, ok := row["base_class"].(string)
	if !ok || baseClass == "" {
		return nil, fmt.Errorf("%w: base_class (item %s)", ErrMissingField, name)
	}

	def := &ItemDefinition{
		Name:      name,
		BaseClass: baseClass,
	}
	def.ImagePath, _ = row["image_path"].(string)
	if layer, ok := row["layer"].(float64); ok {
		def.Layer = int(layer)
	}
	def.Show, _ = row["show"].(bool)
	def.Exchangeable, _ = row["exchangeable"].(bool)
	def.Droppable, _ = row["droppable"].(bool)
	def.Usable, _ = row["usable"].(bool)

	known := map[string]struct{}{
		"name": {}, "image_path": {}, "base_class": {}, "layer": {},
		"show": {}, "exchangeable": {}, "droppable": {}, "usable": {},
	}
	for key, value := range row {
		if _, skip := known[key]; skip {
			continue
		}
		if def.Properties == nil {
			def.Properties = make(map[string]any)
		}
		def.Properties[key] = value
	}

	return def, nil
}

// parseMapRow 解析单条地图记录
func parseMapRow(row map[string]any) (*MapDefinition, error) {
	name, ok := row["name"].(string)
	if !ok || name == "" {
		return nil, fmt.Errorf("%w: name", ErrMissingField)
	}
	width, wok := row["width"].(float64)
	height, hok := row["height"].(float64)
	if !wok || !hok || width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: width/height (map %s)", ErrMissingField, name)
	}

	return &MapDefinition{
		Name:   name,
		Width:  int(width),
		Height: int(height),
	}, nil
}
