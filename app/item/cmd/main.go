package main

import (
	"fmt"
	"os"

	"github.com/softrune/itemworld/pkg/app"
	"github.com/softrune/itemworld/pkg/config"
	"github.com/softrune/itemworld/pkg/logger"
)

func main() {
	var cfg Config
	if err := app.LoadConfig(&cfg); err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	l, err := logger.New(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to init logger: %v\n", err)
		os.Exit(1)
	}
	logger.SetDefault(l)

	application, err := wireApp(&cfg, l)
	if err != nil {
		l.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	watchConfig(l)

	if err := application.Run(); err != nil {
		l.Error("application exited with error", "error", err)
		os.Exit(1)
	}
}

// watchConfig 监听配置文件变化
// 运行期不热切换，只提醒运维需要重启生效
func watchConfig(l logger.Logger) {
	watcher, err := config.NewWatcher[Config](app.GetConfigPath(), "yaml", func(err error) {
		l.Warn("failed to reload changed config file", "error", err)
	})
	if err != nil {
		l.Warn("config watcher disabled", "error", err)
		return
	}

	watcher.OnChange(func(*Config) {
		l.Warn("config file changed, restart required to apply", "path", app.GetConfigPath())
	})
}
