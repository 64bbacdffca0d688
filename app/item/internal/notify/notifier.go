package notify

import "context"

// Notifier 玩家通知投递
// 所有通知都是尽力而为：投递失败只记录，不影响已提交的操作
type Notifier interface {
	// NotifyReceiveItem 通知玩家收到道具
	NotifyReceiveItem(ctx context.Context, toRoleID, fromRoleID int64, itemName string, amount int64) error
	// NotifyUseItem 通知玩家道具使用结果
	NotifyUseItem(ctx context.Context, roleID int64, itemName string, amount int64) error
}

// NoopNotifier 空实现，测试和无通知部署时使用
type NoopNotifier struct{}

func (NoopNotifier) NotifyReceiveItem(context.Context, int64, int64, string, int64) error {
	return nil
}

func (NoopNotifier) NotifyUseItem(context.Context, int64, string, int64) error {
	return nil
}
