package main

import (
	"time"

	"github.com/softrune/itemworld/pkg/database/postgres"
	"github.com/softrune/itemworld/pkg/database/redis"
	"github.com/softrune/itemworld/pkg/logger"
	"github.com/softrune/itemworld/pkg/web"
)

// Config 服务配置
type Config struct {
	App      AppConfig       `mapstructure:"app"`
	Log      logger.Config   `mapstructure:"log"`
	Data     DataConfig      `mapstructure:"data"`
	Database postgres.Config `mapstructure:"database"`
	Redis    redis.Config    `mapstructure:"redis"`
	Web      web.Config      `mapstructure:"web"`
	Flush    FlushConfig     `mapstructure:"flush"`
	Cache    CacheConfig     `mapstructure:"cache"`
	Notify   NotifyConfig    `mapstructure:"notify"`
}

// AppConfig 应用基本信息
type AppConfig struct {
	Name        string        `mapstructure:"name"`
	Version     string        `mapstructure:"version"`
	StopTimeout time.Duration `mapstructure:"stop_timeout"`
}

// DataConfig 配置表数据目录
type DataConfig struct {
	Dir string `mapstructure:"dir" validate:"required"`
}

// FlushConfig 刷盘调度配置
type FlushConfig struct {
	// Interval 合并窗口，窗口内的多次变更只落盘一次
	Interval time.Duration `mapstructure:"interval"`
}

// CacheConfig 快照 Redis 镜像配置
type CacheConfig struct {
	Enabled bool          `mapstructure:"enabled"`
	TTL     time.Duration `mapstructure:"ttl"`
}

// NotifyConfig 玩家通知配置
type NotifyConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

func (c *AppConfig) applyDefaults() {
	if c.Name == "" {
		c.Name = "item"
	}
	if c.Version == "" {
		c.Version = "dev"
	}
	if c.StopTimeout == 0 {
		c.StopTimeout = 30 * time.Second
	}
}
