package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Loader 配置加载器
type Loader struct {
	viper *viper.Viper
}

// NewLoader 创建配置加载器
func NewLoader() *Loader {
	return &Loader{
		viper: viper.New(),
	}
}

// LoadFile 加载配置文件
// configType: "yaml" 或 "json"
func (l *Loader) LoadFile(configPath string, configType string) error {
	if _, err := os.Stat(configPath); err != nil {
		return fmt.Errorf("%w: %s", ErrConfigFileNotFound, configPath)
	}

	l.viper.SetConfigFile(configPath)
	l.viper.SetConfigType(configType)

	// 环境变量覆盖，如 ITEMWORLD_WEB_PORT 覆盖 web.port
	l.viper.SetEnvPrefix("ITEMWORLD")
	l.viper.AutomaticEnv()
	l.viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := l.viper.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	return nil
}

// Unmarshal 解析整个配置到结构体
func (l *Loader) Unmarshal(target interface{}) error {
	if err := l.viper.Unmarshal(target); err != nil {
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}

// UnmarshalKey 解析配置中的某个 key 到结构体
func (l *Loader) UnmarshalKey(key string, target interface{}) error {
	if err := l.viper.UnmarshalKey(key, target); err != nil {
		return fmt.Errorf("failed to unmarshal key %s: %w", key, err)
	}
	return nil
}
