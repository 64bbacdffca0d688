package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Client Redis 客户端（隐藏 go-redis 类型）
type Client struct {
	rdb *goredis.Client
	cfg *Config
}

// PubSub 订阅句柄
type PubSub = goredis.PubSub

// Message 订阅消息
type Message = goredis.Message

// NewClient 创建 Redis 客户端
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	cfg.applyDefaults()

	rdb := goredis.NewClient(&goredis.Options{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	return &Client{rdb: rdb, cfg: cfg}, nil
}

// Get 获取字符串值；键不存在时返回 ErrNil
func (c *Client) Get(ctx context.Context, key string) (string, error) {
	val, err := c.rdb.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrNil
		}
		return "", err
	}
	return val, nil
}

// Set 设置字符串值，expiration 为 0 表示不过期
func (c *Client) Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	return c.rdb.Set(ctx, key, value, expiration).Err()
}

// Del 删除键
func (c *Client) Del(ctx context.Context, keys ...string) error {
	return c.rdb.Del(ctx, keys...).Err()
}

// Publish 发布消息到频道，返回接收方数量
func (c *Client) Publish(ctx context.Context, channel string, message interface{}) (int64, error) {
	return c.rdb.Publish(ctx, channel, message).Result()
}

// PSubscribe 按模式订阅频道
func (c *Client) PSubscribe(ctx context.Context, patterns ...string) (*PubSub, error) {
	pubsub := c.rdb.PSubscribe(ctx, patterns...)
	// 确认订阅建立
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, fmt.Errorf("redis psubscribe failed: %w", err)
	}
	return pubsub, nil
}

// Ping 检查连接
func (c *Client) Ping(ctx context.Context) error {
	return c.rdb.Ping(ctx).Err()
}

// Close 关闭客户端
func (c *Client) Close() error {
	return c.rdb.Close()
}
