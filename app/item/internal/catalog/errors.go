package catalog

import "errors"

var (
	// ErrUnknownBaseClass 道具引用了未注册的基类（启动失败）
	ErrUnknownBaseClass = errors.New("catalog: unknown item base class")

	// ErrDuplicateItem 配置表中道具名重复（启动失败）
	ErrDuplicateItem = errors.New("catalog: duplicate item name")

	// ErrMissingField 配置表缺少必填字段（启动失败）
	ErrMissingField = errors.New("catalog: missing required field")
)
