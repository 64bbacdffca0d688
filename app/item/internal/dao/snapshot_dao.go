package dao

import (
	"context"
	"encoding/json"
	"time"

	"github.com/cockroachdb/errors"

	sq "github.com/Masterminds/squirrel"

	"github.com/softrune/itemworld/app/item/internal/metrics"
	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/pkg/database/postgres"
	"github.com/softrune/itemworld/pkg/logger"
)

const (
	snapshotTable = "item_snapshot"

	// 单行存储：整个世界状态作为一条 JSONB 记录
	snapshotRowID = 1
)

// SnapshotDAO 快照的 PostgreSQL 存取
type SnapshotDAO struct {
	logger  logger.Logger
	db      *postgres.Client
	metrics *metrics.ItemMetrics
	builder sq.StatementBuilderType
}

// NewSnapshotDAO 创建快照 DAO
func NewSnapshotDAO(l logger.Logger, db *postgres.Client, m *metrics.ItemMetrics) *SnapshotDAO {
	return &SnapshotDAO{
		logger:  l.Named("dao.snapshot"),
		db:      db,
		metrics: m,
		builder: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Save 整体落盘快照（upsert 单行）
func (d *SnapshotDAO) Save(ctx context.Context, snap *model.Snapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return errors.Wrap(err, "failed to marshal snapshot")
	}

	query, args, err := d.builder.
		Insert(snapshotTable).
		Columns("id", "data", "updated_at").
		Values(snapshotRowID, data, time.Now()).
		Suffix("ON CONFLICT (id) DO UPDATE SET data = EXCLUDED.data, updated_at = EXCLUDED.updated_at").
		ToSql()
	if err != nil {
		return errors.Wrap(err, "failed to build snapshot upsert")
	}

	start := time.Now()
	_, err = d.db.Exec(ctx, query, args...)
	d.metrics.RecordDBQuery("snapshot_save", err == nil, time.Since(start).Seconds())
	if err != nil {
		return errors.Wrap(err, "failed to save snapshot")
	}

	return nil
}

// Load 读取快照；没有历史快照时返回 (nil, nil)
func (d *SnapshotDAO) Load(ctx context.Context) (*model.Snapshot, error) {
	query, args, err := d.builder.
		Select("data").
		From(snapshotTable).
		Where(sq.Eq{"id": snapshotRowID}).
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "failed to build snapshot query")
	}

	var data []byte
	start := time.Now()
	err = d.db.QueryRowScan(ctx, query, args, &data)
	d.metrics.RecordDBQuery("snapshot_load", err == nil || postgres.IsNoRows(err), time.Since(start).Seconds())
	if err != nil {
		if postgres.IsNoRows(err) {
			d.logger.Info("no snapshot found, starting with empty state")
			return nil, nil
		}
		return nil, errors.Wrap(err, "failed to load snapshot")
	}

	snap := model.NewSnapshot()
	if err := json.Unmarshal(data, snap); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal snapshot")
	}

	return snap, nil
}
