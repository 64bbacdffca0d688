package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/softrune/itemworld/pkg/config"
	"github.com/spf13/pflag"
)

var configPath string

// LoadConfig 加载应用配置
// 优先级：命令行显式参数 > 环境变量 ITEMWORLD_CONFIG > 可执行目录下 config.yaml
func LoadConfig(target any) error {
	execDir, err := GetExecDir()
	if err != nil {
		return fmt.Errorf("failed to get executable directory: %w", err)
	}
	defaultConfig := filepath.Join(execDir, "config.yaml")

	if pflag.Lookup("config") == nil {
		pflag.StringVarP(&configPath, "config", "c", defaultConfig, "path to config file")
	}
	if !pflag.Parsed() {
		pflag.Parse()
	}

	finalPath := configPath
	if !pflag.CommandLine.Changed("config") {
		if envConfig := os.Getenv("ITEMWORLD_CONFIG"); envConfig != "" {
			finalPath = envConfig
		}
	}
	configPath = finalPath

	loader := config.NewLoader()
	if err := loader.LoadFile(finalPath, "yaml"); err != nil {
		return err
	}
	if err := loader.Unmarshal(target); err != nil {
		return err
	}

	return config.NewValidator().Validate(target)
}

// GetExecDir 获取可执行文件所在目录（处理符号链接）
func GetExecDir() (string, error) {
	execPath, err := os.Executable()
	if err != nil {
		return "", err
	}
	realPath, err := filepath.EvalSymlinks(execPath)
	if err != nil {
		return filepath.Dir(execPath), nil
	}
	return filepath.Dir(realPath), nil
}

// GetConfigPath 返回最终使用的配置文件路径
func GetConfigPath() string {
	return configPath
}
