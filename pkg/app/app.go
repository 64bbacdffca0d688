package app

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/softrune/itemworld/pkg/logger"
	"golang.org/x/sync/errgroup"
)

var (
	ErrAppAlreadyRunning = errors.New("application is already running")
)

// Application 定义了框架级应用的接口
type Application interface {
	Run() error
	Shutdown() error
	AppLogger() logger.Logger
}

// Server 定义了服务接口（如 HTTP）
type Server interface {
	Start() error
	Stop() error
}

// Closer 定义了资源清理接口（如 Redis, DB）
type Closer interface {
	Close() error
}

// AppComponents 应用组件集合
type AppComponents struct {
	Servers []Server
	Closers []Closer
}

// BaseApp 提供了 Application 接口的基础实现
type BaseApp struct {
	opts    Options
	logger  logger.Logger
	servers []Server
	closers []Closer

	ctx    context.Context
	cancel context.CancelFunc

	started atomic.Bool
	closed  atomic.Bool
}

// NewBaseApp 创建一个新的 BaseApp 实例
func NewBaseApp(opts ...Option) *BaseApp {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &BaseApp{
		opts:   o,
		logger: o.Logger.Named(o.Name),
		ctx:    ctx,
		cancel: cancel,
	}
}

// InitApp 组装应用组件
func InitApp(base *BaseApp, components AppComponents) Application {
	base.servers = components.Servers
	base.closers = components.Closers
	return base
}

// AppLogger 获取应用主日志对象
func (a *BaseApp) AppLogger() logger.Logger {
	return a.logger
}

// Run 启动应用程序并阻塞
func (a *BaseApp) Run() error {
	if !a.started.CompareAndSwap(false, true) {
		return ErrAppAlreadyRunning
	}

	a.logger.Info("application starting",
		"name", a.opts.Name,
		"version", a.opts.Version,
	)

	// 并行启动所有注册的服务
	g, gctx := errgroup.WithContext(a.ctx)
	for _, srv := range a.servers {
		s := srv
		g.Go(func() error {
			return s.Start()
		})
	}

	// 监听系统信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		a.logger.Info("received signal, shutting down", "signal", sig.String())
	case <-gctx.Done():
		a.logger.Info("server exited, shutting down")
	}

	shutdownErr := a.Shutdown()

	if err := g.Wait(); err != nil {
		return err
	}
	return shutdownErr
}

// Shutdown 停止应用程序并清理资源
func (a *BaseApp) Shutdown() error {
	if !a.closed.CompareAndSwap(false, true) {
		return nil
	}

	a.cancel()
	a.logger.Info("application shutting down")

	// 并行停止所有服务器，带超时
	var g errgroup.Group
	for _, srv := range a.servers {
		s := srv
		g.Go(func() error {
			if err := s.Stop(); err != nil {
				a.logger.Error("failed to stop server", "error", err)
				return err
			}
			return nil
		})
	}

	done := make(chan error, 1)
	go func() { done <- g.Wait() }()

	select {
	case <-done:
		a.logger.Info("all servers stopped")
	case <-time.After(a.opts.StopTimeout):
		a.logger.Warn("shutdown timeout, forcing exit")
	}

	// 逆序关闭所有 Closer 组件（LIFO）
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			a.logger.Error("failed to close component", "error", err)
		}
	}

	_ = a.logger.Sync()
	return nil
}
