package manager

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/softrune/itemworld/app/item/internal/model"
	"github.com/softrune/itemworld/pkg/logger"
)

type recordingStore struct {
	mu    sync.Mutex
	saves []*model.Snapshot
}

func (s *recordingStore) Save(_ context.Context, snap *model.Snapshot) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saves = append(s.saves, snap)
	return nil
}

func (s *recordingStore) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.saves)
}

func (s *recordingStore) last() *model.Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.saves) == 0 {
		return nil
	}
	return s.saves[len(s.saves)-1]
}

func TestFlushSchedulerDebounce(t *testing.T) {
	m := newTestStateManager(t)
	store := &recordingStore{}
	sched := NewFlushScheduler(logger.NewNoop(), m, store, 50*time.Millisecond, nil)

	go func() { _ = sched.Start() }()

	// 一个合并窗口内的多次变更只落盘一次
	grant(m, 1001, "sword", 5)
	for i := 0; i < 10; i++ {
		require.NoError(t, m.Transfer(1001, 1002, "sword", 1))
		sched.Schedule()
	}

	require.Eventually(t, func() bool {
		return store.count() == 1
	}, time.Second, 5*time.Millisecond)

	// 等够一个窗口再确认没有多余的落盘
	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, 1, store.count())

	// 落盘内容是刷盘时刻的最终状态，不是第一次调度时的状态
	snap := store.last()
	require.NotNil(t, snap)
	assert.Equal(t, int64(0), snap.Inventories[1001]["sword"])
	assert.Equal(t, int64(10), snap.Inventories[1002]["sword"])

	require.NoError(t, sched.Stop())
}

func TestFlushSchedulerReschedulesAfterFlush(t *testing.T) {
	m := newTestStateManager(t)
	store := &recordingStore{}
	sched := NewFlushScheduler(logger.NewNoop(), m, store, 20*time.Millisecond, nil)

	go func() { _ = sched.Start() }()

	grant(m, 1001, "sword", 2)
	sched.Schedule()

	require.Eventually(t, func() bool {
		return store.count() == 1
	}, time.Second, 5*time.Millisecond)

	// 刷盘之后的新变更触发新一轮刷盘
	require.NoError(t, m.Transfer(1001, 1002, "sword", 1))
	sched.Schedule()

	require.Eventually(t, func() bool {
		return store.count() == 2
	}, time.Second, 5*time.Millisecond)

	assert.Equal(t, int64(1), store.last().Inventories[1002]["sword"])

	require.NoError(t, sched.Stop())
}

func TestFlushSchedulerStopForcesFinalFlush(t *testing.T) {
	m := newTestStateManager(t)
	store := &recordingStore{}
	sched := NewFlushScheduler(logger.NewNoop(), m, store, time.Hour, nil)

	done := make(chan struct{})
	go func() {
		_ = sched.Start()
		close(done)
	}()

	grant(m, 1001, "potion", 3)
	sched.Schedule()

	// 窗口远未到期，Stop 仍要把状态刷出去
	require.NoError(t, sched.Stop())

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler loop did not exit")
	}

	require.NotZero(t, store.count())
	assert.Equal(t, int64(3), store.last().Inventories[1001]["potion"])
}
