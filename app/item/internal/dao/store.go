package dao

import (
	"context"
	"time"

	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/pkg/logger"
)

const cacheMirrorTimeout = 3 * time.Second

// Store 分层快照存储：PostgreSQL 为真相源，Redis 为恢复加速镜像
//
// Save 以数据库写入成败为准，镜像异步尽力而为；Load 先读镜像，
// 未命中或失败再回源数据库。
type Store struct {
	logger logger.Logger
	db     *SnapshotDAO
	cache  *CacheDAO
}

// NewStore 创建分层快照存储
// cache 可以为 nil，此时退化为纯数据库存储
func NewStore(l logger.Logger, db *SnapshotDAO, cache *CacheDAO) *Store {
	return &Store{
		logger: l.Named("dao.store"),
		db:     db,
		cache:  cache,
	}
}

// Save 落盘快照
func (s *Store) Save(ctx context.Context, snap *model.Snapshot) error {
	if err := s.db.Save(ctx, snap); err != nil {
		return err
	}

	if s.cache != nil {
		go func() {
			mctx, cancel := context.WithTimeout(context.Background(), cacheMirrorTimeout)
			defer cancel()
			if err := s.cache.Save(mctx, snap); err != nil {
				s.logger.Warn("failed to mirror snapshot to cache", "error", err)
			}
		}()
	}

	return nil
}

// Load 读取快照；两层都没有数据时返回 (nil, nil)
func (s *Store) Load(ctx context.Context) (*model.Snapshot, error) {
	if s.cache != nil {
		snap, err := s.cache.Load(ctx)
		if err != nil {
			s.logger.Warn("failed to load snapshot from cache, falling back to database", "error", err)
		} else if snap != nil {
			s.logger.Info("snapshot loaded from cache")
			return snap, nil
		}
	}

	return s.db.Load(ctx)
}
