package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "itemworld"

// ItemMetrics Item 服务指标
type ItemMetrics struct {
	// 操作指标
	OperationTotal    *prometheus.CounterVec   // 操作总数（按操作、结果）
	OperationDuration *prometheus.HistogramVec // 操作处理延迟

	// 持久化指标
	FlushTotal    *prometheus.CounterVec // 刷盘总数（按结果）
	FlushDuration prometheus.Histogram   // 刷盘延迟

	// 数据库指标
	DBQueryTotal    *prometheus.CounterVec   // 数据库查询总数（按操作、结果）
	DBQueryDuration *prometheus.HistogramVec // 数据库查询延迟

	// 通知指标
	NotifyFailureTotal prometheus.Counter // 通知投递失败总数（只记录不上抛）
}

// New 创建 Item 指标
func New() *ItemMetrics {
	return &ItemMetrics{
		OperationTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operation_total",
			Help:      "Total item operations by op and result.",
		}, []string{"op", "result"}),
		OperationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Item operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		FlushTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "flush_total",
			Help:      "Total snapshot flushes by result.",
		}, []string{"result"}),
		FlushDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "flush_duration_seconds",
			Help:      "Snapshot flush latency.",
			Buckets:   prometheus.DefBuckets,
		}),
		DBQueryTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "db_query_total",
			Help:      "Total database queries by op and result.",
		}, []string{"op", "result"}),
		DBQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "db_query_duration_seconds",
			Help:      "Database query latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		NotifyFailureTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notify_failure_total",
			Help:      "Total best-effort notification delivery failures.",
		}),
	}
}

// Register 注册全部指标到给定 Registry
func (m *ItemMetrics) Register(registry *prometheus.Registry) error {
	collectors := []prometheus.Collector{
		m.OperationTotal,
		m.OperationDuration,
		m.FlushTotal,
		m.FlushDuration,
		m.DBQueryTotal,
		m.DBQueryDuration,
		m.NotifyFailureTotal,
	}
	for _, c := range collectors {
		if err := registry.Register(c); err != nil {
			return err
		}
	}
	return nil
}

// RecordOperation 记录一次操作
func (m *ItemMetrics) RecordOperation(op string, success bool, seconds float64) {
	m.OperationTotal.WithLabelValues(op, resultLabel(success)).Inc()
	m.OperationDuration.WithLabelValues(op).Observe(seconds)
}

// RecordFlush 记录一次刷盘
func (m *ItemMetrics) RecordFlush(success bool, seconds float64) {
	m.FlushTotal.WithLabelValues(resultLabel(success)).Inc()
	m.FlushDuration.Observe(seconds)
}

// RecordDBQuery 记录一次数据库查询
func (m *ItemMetrics) RecordDBQuery(op string, success bool, seconds float64) {
	m.DBQueryTotal.WithLabelValues(op, resultLabel(success)).Inc()
	m.DBQueryDuration.WithLabelValues(op).Observe(seconds)
}

// RecordNotifyFailure 记录一次通知投递失败
func (m *ItemMetrics) RecordNotifyFailure() {
	m.NotifyFailureTotal.Inc()
}

func resultLabel(success bool) string {
	if success {
		return "success"
	}
	return "failure"
}
