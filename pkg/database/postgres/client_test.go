package postgres

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
)

// TestApplyQueryTimeout 测试查询超时应用
func TestApplyQueryTimeout(t *testing.T) {
	tests := []struct {
		name         string
		queryTimeout time.Duration
		wantTimeout  bool
	}{
		{
			name:         "with query timeout",
			queryTimeout: 5 * time.Second,
			wantTimeout:  true,
		},
		{
			name:         "without query timeout",
			queryTimeout: 0,
			wantTimeout:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := &Client{
				cfg: &Config{QueryTimeout: tt.queryTimeout},
			}

			newCtx, cancel := client.applyQueryTimeout(context.Background())
			defer cancel()

			deadline, hasDeadline := newCtx.Deadline()

			if tt.wantTimeout {
				if !hasDeadline {
					t.Error("Expected context to have deadline, but it doesn't")
					return
				}

				// 验证超时时间大致正确（允许一些误差）
				expectedDeadline := time.Now().Add(tt.queryTimeout)
				timeDiff := expectedDeadline.Sub(deadline)
				if timeDiff < -100*time.Millisecond || timeDiff > 100*time.Millisecond {
					t.Errorf("Deadline difference too large: %v", timeDiff)
				}
			} else {
				if hasDeadline {
					t.Error("Expected context to not have deadline, but it does")
				}
			}
		})
	}
}

// TestQueryRowScanClosedClient 测试已关闭客户端拒绝单行查询
func TestQueryRowScanClosedClient(t *testing.T) {
	client := &Client{cfg: &Config{QueryTimeout: time.Second}}
	client.closed.Store(true)

	var dest int64
	err := client.QueryRowScan(context.Background(), "SELECT 1", nil, &dest)
	if err != ErrClientClosed {
		t.Errorf("Expected ErrClientClosed, got %v", err)
	}
}

// TestQueryClosedClient 测试已关闭客户端拒绝多行查询
func TestQueryClosedClient(t *testing.T) {
	client := &Client{cfg: &Config{}}
	client.closed.Store(true)

	err := client.Query(context.Background(), func(rows pgx.Rows) error {
		t.Error("callback should not be invoked on a closed client")
		return nil
	}, "SELECT 1")
	if err != ErrClientClosed {
		t.Errorf("Expected ErrClientClosed, got %v", err)
	}
}

// TestExecClosedClient 测试已关闭客户端拒绝写操作
func TestExecClosedClient(t *testing.T) {
	client := &Client{cfg: &Config{}}
	client.closed.Store(true)

	_, err := client.Exec(context.Background(), "DELETE FROM item_snapshot")
	if err != ErrClientClosed {
		t.Errorf("Expected ErrClientClosed, got %v", err)
	}
}

// TestIsNoRows 测试无数据错误判断，包括包装后的错误
func TestIsNoRows(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"direct", pgx.ErrNoRows, true},
		{"wrapped", fmt.Errorf("load snapshot: %w", pgx.ErrNoRows), true},
		{"double wrapped", fmt.Errorf("outer: %w", fmt.Errorf("inner: %w", pgx.ErrNoRows)), true},
		{"nil", nil, false},
		{"other", fmt.Errorf("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsNoRows(tt.err); got != tt.want {
				t.Errorf("IsNoRows(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

// TestConfigApplyDefaults 测试零值字段补齐
func TestConfigApplyDefaults(t *testing.T) {
	cfg := &Config{Host: "db.internal"}
	cfg.applyDefaults()

	if cfg.Host != "db.internal" {
		t.Errorf("Expected host to be preserved, got %s", cfg.Host)
	}
	if cfg.Port != 5432 {
		t.Errorf("Expected default port 5432, got %d", cfg.Port)
	}
	if cfg.QueryTimeout != 30*time.Second {
		t.Errorf("Expected default query timeout 30s, got %v", cfg.QueryTimeout)
	}
}
