package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/softrune/itemworld/pkg/database/redis"
	"github.com/softrune/itemworld/pkg/logger"
)

// 通知频道，网关按 role_id 订阅后转发给客户端连接
const roleChannelFormat = "notify:role:%d"

// 通知类型
const (
	TypeReceiveItem = "receive_item"
	TypeUseItem     = "use_item"
)

// Payload 通知消息体
type Payload struct {
	Type       string `json:"type"`
	RoleID     int64  `json:"role_id"`
	FromRoleID int64  `json:"from_role_id,omitempty"`
	ItemName   string `json:"item_name"`
	Amount     int64  `json:"amount"`
}

// RedisNotifier 经由 Redis 发布/订阅投递玩家通知
type RedisNotifier struct {
	logger logger.Logger
	rdb    *redis.Client
}

// NewRedisNotifier 创建 Redis 通知器
func NewRedisNotifier(l logger.Logger, rdb *redis.Client) *RedisNotifier {
	return &RedisNotifier{
		logger: l.Named("notify.redis"),
		rdb:    rdb,
	}
}

// NotifyReceiveItem 通知玩家收到道具
func (n *RedisNotifier) NotifyReceiveItem(ctx context.Context, toRoleID, fromRoleID int64, itemName string, amount int64) error {
	return n.publish(ctx, toRoleID, &Payload{
		Type:       TypeReceiveItem,
		RoleID:     toRoleID,
		FromRoleID: fromRoleID,
		ItemName:   itemName,
		Amount:     amount,
	})
}

// NotifyUseItem 通知玩家道具使用结果
func (n *RedisNotifier) NotifyUseItem(ctx context.Context, roleID int64, itemName string, amount int64) error {
	return n.publish(ctx, roleID, &Payload{
		Type:     TypeUseItem,
		RoleID:   roleID,
		ItemName: itemName,
		Amount:   amount,
	})
}

func (n *RedisNotifier) publish(ctx context.Context, roleID int64, payload *Payload) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	channel := fmt.Sprintf(roleChannelFormat, roleID)
	receivers, err := n.rdb.Publish(ctx, channel, data)
	if err != nil {
		return err
	}

	// 没有订阅者说明玩家不在线，消息按设计丢弃
	n.logger.Debug("notification published",
		"channel", channel,
		"type", payload.Type,
		"receivers", receivers,
	)
	return nil
}
