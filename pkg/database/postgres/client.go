package postgres

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Client PostgreSQL 客户端
type Client struct {
	pool   *pgxpool.Pool
	cfg    *Config
	closed atomic.Bool
}

// New 创建 PostgreSQL 客户端
func New(cfg *Config) (*Client, error) {
	if cfg == nil {
		return nil, ErrNilConfig
	}
	cfg.applyDefaults()

	poolCfg, err := pgxpool.ParseConfig(cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}
	poolCfg.MaxConns = cfg.MaxConns
	poolCfg.MinConns = cfg.MinConns
	poolCfg.MaxConnLifetime = cfg.MaxConnLifetime
	poolCfg.ConnConfig.ConnectTimeout = cfg.ConnectTimeout

	pool, err := pgxpool.NewWithConfig(context.Background(), poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	return &Client{pool: pool, cfg: cfg}, nil
}

// applyQueryTimeout 应用查询超时到 context
func (c *Client) applyQueryTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.cfg.QueryTimeout > 0 {
		return context.WithTimeout(ctx, c.cfg.QueryTimeout)
	}
	return ctx, func() {}
}

// QueryRowScan 查询单行并扫描到 dest
// 扫描在超时作用域内完成，不把带超时的 context 泄漏给调用方
func (c *Client) QueryRowScan(ctx context.Context, sql string, args []any, dest ...any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	ctx, cancel := c.applyQueryTimeout(ctx)
	defer cancel()

	if err := c.pool.QueryRow(ctx, sql, args...).Scan(dest...); err != nil {
		if IsNoRows(err) {
			return err
		}
		return fmt.Errorf("query row failed: %w", err)
	}
	return nil
}

// Query 查询多行，rows 在超时作用域内交给 fn 消费
func (c *Client) Query(ctx context.Context, fn func(pgx.Rows) error, sql string, args ...any) error {
	if c.closed.Load() {
		return ErrClientClosed
	}

	ctx, cancel := c.applyQueryTimeout(ctx)
	defer cancel()

	rows, err := c.pool.Query(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	if err := fn(rows); err != nil {
		return err
	}
	return rows.Err()
}

// Exec 执行写操作（INSERT/UPDATE/DELETE），返回受影响行数
func (c *Client) Exec(ctx context.Context, sql string, args ...any) (int64, error) {
	if c.closed.Load() {
		return 0, ErrClientClosed
	}

	ctx, cancel := c.applyQueryTimeout(ctx)
	defer cancel()

	result, err := c.pool.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("exec failed: %w", err)
	}
	return result.RowsAffected(), nil
}

// Ping 检查连接
func (c *Client) Ping(ctx context.Context) error {
	return c.pool.Ping(ctx)
}

// IsNoRows 判断是否为"无数据"错误
func IsNoRows(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// Close 关闭客户端
func (c *Client) Close() {
	if c.closed.CompareAndSwap(false, true) {
		c.pool.Close()
	}
}
