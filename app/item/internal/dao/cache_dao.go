package dao

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/pkg/database/redis"
	"github.com/softrune/itemworld/pkg/logger"
)

const snapshotCacheKey = "item:snapshot"

// CacheDAO 快照的 Redis 镜像，加速重启恢复
type CacheDAO struct {
	logger logger.Logger
	rdb    *redis.Client
	ttl    time.Duration
}

// NewCacheDAO 创建快照缓存 DAO
// ttl 为 0 表示镜像不过期
func NewCacheDAO(l logger.Logger, rdb *redis.Client, ttl time.Duration) *CacheDAO {
	return &CacheDAO{
		logger: l.Named("dao.cache"),
		rdb:    rdb,
		ttl:    ttl,
	}
}

// Save 写入快照镜像
func (d *CacheDAO) Save(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}
	return d.rdb.Set(ctx, snapshotCacheKey, data, d.ttl)
}

// Load 读取快照镜像；镜像不存在时返回 (nil, nil)
func (d *CacheDAO) Load(ctx context.Context) (*model.Snapshot, error) {
	data, err := d.rdb.Get(ctx, snapshotCacheKey)
	if err != nil {
		if errors.Is(err, redis.ErrNil) {
			return nil, nil
		}
		return nil, err
	}

	snap := model.NewSnapshot()
	if err := json.Unmarshal([]byte(data), snap); err != nil {
		return nil, err
	}
	return snap, nil
}
