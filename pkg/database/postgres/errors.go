package postgres

import "errors"

var (
	// ErrNilConfig 配置为空
	ErrNilConfig = errors.New("postgres: config is nil")

	// ErrClientClosed 客户端已关闭
	ErrClientClosed = errors.New("postgres: client is closed")

	// ErrNoRows 没有查询到数据
	ErrNoRows = errors.New("postgres: no rows in result set")
)
