package catalog

import (
	"context"

	"github.com/softrune/itemworld/pkg/logger"
)

// UseBehavior 道具使用效果的能力接口
// 每个基类对应一种实现，在配置表加载时解析为句柄，之后不再按名查找
type UseBehavior interface {
	Apply(ctx context.Context, roleID int64, amount int64) error
}

// BehaviorFactory 根据道具定义创建使用效果
type BehaviorFactory func(def *ItemDefinition, l logger.Logger) UseBehavior

// behaviorFactories 基类名 -> 工厂，加载前注册完毕
var behaviorFactories = map[string]BehaviorFactory{
	"generic":    newGenericBehavior,
	"consumable": newConsumableBehavior,
	"currency":   newGenericBehavior,
}

// RegisterBehavior 注册自定义基类
// 必须在 Load 之前调用
func RegisterBehavior(baseClass string, factory BehaviorFactory) {
	behaviorFactories[baseClass] = factory
}

// genericBehavior 无使用效果的默认实现
type genericBehavior struct{}

func newGenericBehavior(def *ItemDefinition, l logger.Logger) UseBehavior {
	return genericBehavior{}
}

func (genericBehavior) Apply(ctx context.Context, roleID int64, amount int64) error {
	return nil
}

// consumableBehavior 消耗品使用效果
// 实际效果由下游系统消费，这里记录使用事件
type consumableBehavior struct {
	itemName string
	logger   logger.Logger
}

func newConsumableBehavior(def *ItemDefinition, l logger.Logger) UseBehavior {
	return &consumableBehavior{
		itemName: def.Name,
		logger:   l.Named("behavior.consumable"),
	}
}

func (b *consumableBehavior) Apply(ctx context.Context, roleID int64, amount int64) error {
	b.logger.Info("consumable applied",
		"role_id", roleID,
		"item", b.itemName,
		"amount", amount,
	)
	return nil
}
