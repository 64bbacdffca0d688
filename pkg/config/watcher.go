package config

import (
	"sync"

	"github.com/fsnotify/fsnotify"
)

// Watcher 配置监听器（用于热更新）
type Watcher[T any] struct {
	loader     *Loader
	configPath string
	configType string
	callbacks  []func(*T)
	mu         sync.RWMutex
	config     *T
	onError    func(error)
}

// NewWatcher 创建配置监听器
// onError 可为 nil，重载失败时调用
func NewWatcher[T any](configPath string, configType string, onError func(error)) (*Watcher[T], error) {
	loader := NewLoader()
	if err := loader.LoadFile(configPath, configType); err != nil {
		return nil, err
	}

	var cfg T
	if err := loader.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	w := &Watcher[T]{
		loader:     loader,
		configPath: configPath,
		configType: configType,
		callbacks:  make([]func(*T), 0),
		config:     &cfg,
		onError:    onError,
	}

	w.watch()
	return w, nil
}

// GetConfig 获取当前配置（线程安全）
func (w *Watcher[T]) GetConfig() *T {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.config
}

// OnChange 注册配置变化回调
func (w *Watcher[T]) OnChange(callback func(*T)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.callbacks = append(w.callbacks, callback)
}

// watch 监听配置文件变化
func (w *Watcher[T]) watch() {
	w.loader.viper.WatchConfig()
	w.loader.viper.OnConfigChange(func(e fsnotify.Event) {
		// 重新加载，失败时保留旧配置
		newLoader := NewLoader()
		if err := newLoader.LoadFile(w.configPath, w.configType); err != nil {
			w.reportError(err)
			return
		}

		var newCfg T
		if err := newLoader.Unmarshal(&newCfg); err != nil {
			w.reportError(err)
			return
		}

		w.mu.Lock()
		w.config = &newCfg
		callbacks := make([]func(*T), len(w.callbacks))
		copy(callbacks, w.callbacks)
		w.mu.Unlock()

		for _, cb := range callbacks {
			cb(&newCfg)
		}
	})
}

func (w *Watcher[T]) reportError(err error) {
	if w.onError != nil {
		w.onError(err)
	}
}
