package manager

import (
	"context"
	"sync"
	"time"

	"github.com/softrune/itemworld/app/item/internal/metrics"
	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/pkg/logger"
)

const defaultFlushTimeout = 10 * time.Second

// SnapshotSource 快照来源
type SnapshotSource interface {
	Snapshot() *model.Snapshot
}

// SnapshotStore 快照存储
type SnapshotStore interface {
	Save(ctx context.Context, snap *model.Snapshot) error
}

// FlushScheduler 刷盘调度器：把一个调度周期内的多次变更合并为一次落盘
//
// 这是去抖不是队列：Schedule 在已有待刷请求时直接吸收；快照在刷盘
// 时刻生成而不是调度时刻，所以合并后的那次落盘自然覆盖最新状态。
// 代价是一个小的丢数据窗口（快照之后、进程退出之前的变更），换来
// 突发变更下有界的写放大。持久化存储由本调度器独占，其他组件不直接
// 写。
type FlushScheduler struct {
	logger   logger.Logger
	source   SnapshotSource
	store    SnapshotStore
	interval time.Duration
	metrics  *metrics.ItemMetrics

	mu      sync.Mutex
	pending bool

	kick chan struct{}
	stop chan struct{}
	done chan struct{}
}

// NewFlushScheduler 创建刷盘调度器
// interval 为合并窗口，一个窗口内的所有 Schedule 调用只触发一次落盘
func NewFlushScheduler(
	l logger.Logger,
	source SnapshotSource,
	store SnapshotStore,
	interval time.Duration,
	m *metrics.ItemMetrics,
) *FlushScheduler {
	if interval <= 0 {
		interval = 100 * time.Millisecond
	}
	return &FlushScheduler{
		logger:   l.Named("manager.flush"),
		source:   source,
		store:    store,
		interval: interval,
		metrics:  m,
		kick:     make(chan struct{}, 1),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Schedule 请求一次延迟刷盘
// 可以在短时间内被调用任意多次；已有待刷请求时为空操作
func (s *FlushScheduler) Schedule() {
	s.mu.Lock()
	if s.pending {
		s.mu.Unlock()
		return
	}
	s.pending = true
	s.mu.Unlock()

	select {
	case s.kick <- struct{}{}:
	default:
	}
}

// Start 运行调度循环，阻塞直到 Stop 被调用
func (s *FlushScheduler) Start() error {
	defer close(s.done)

	for {
		select {
		case <-s.stop:
			return nil
		case <-s.kick:
			// 等待合并窗口结束再刷，吸收窗口内的后续请求
			timer := time.NewTimer(s.interval)
			select {
			case <-timer.C:
				s.flush()
			case <-s.stop:
				timer.Stop()
				s.flush()
				return nil
			}
		}
	}
}

// Stop 停止调度循环并强制执行最后一次刷盘，收窄退出时的丢数据窗口
func (s *FlushScheduler) Stop() error {
	select {
	case <-s.stop:
		// 已停止
	default:
		close(s.stop)
	}
	<-s.done

	s.flush()
	return nil
}

// flush 生成快照并写入存储
// pending 在取快照之前清除：刷盘过程中到来的变更会调度下一次刷盘
func (s *FlushScheduler) flush() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()

	snap := s.source.Snapshot()

	ctx, cancel := context.WithTimeout(context.Background(), defaultFlushTimeout)
	defer cancel()

	start := time.Now()
	err := s.store.Save(ctx, snap)
	elapsed := time.Since(start)

	if s.metrics != nil {
		s.metrics.RecordFlush(err == nil, elapsed.Seconds())
	}

	if err != nil {
		s.logger.Error("snapshot flush failed",
			"players", len(snap.Inventories),
			"drops", len(snap.DropItems),
			"error", err,
		)
		return
	}

	s.logger.Debug("snapshot flushed",
		"players", len(snap.Inventories),
		"drops", len(snap.DropItems),
		"elapsed", elapsed.String(),
	)
}
