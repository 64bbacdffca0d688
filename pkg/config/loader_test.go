package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// loaderTestConfig 测试配置结构
type loaderTestConfig struct {
	Server struct {
		Port int    `mapstructure:"port" validate:"required,min=1,max=65535"`
		Host string `mapstructure:"host" validate:"required"`
	} `mapstructure:"server"`
	Flush struct {
		Interval time.Duration `mapstructure:"interval"`
	} `mapstructure:"flush"`
}

// createTestConfigFile 创建测试配置文件
func createTestConfigFile(t *testing.T, content string) string {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create test config file: %v", err)
	}
	return configPath
}

// TestLoaderLoadFile 测试加载配置文件
func TestLoaderLoadFile(t *testing.T) {
	configContent := `
server:
  port: 8080
  host: "localhost"
flush:
  interval: 200ms
`
	configPath := createTestConfigFile(t, configContent)

	loader := NewLoader()
	if err := loader.LoadFile(configPath, "yaml"); err != nil {
		t.Fatalf("Failed to load config file: %v", err)
	}

	var cfg loaderTestConfig
	if err := loader.Unmarshal(&cfg); err != nil {
		t.Fatalf("Failed to unmarshal config: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("expected port 8080, got %d", cfg.Server.Port)
	}
	if cfg.Server.Host != "localhost" {
		t.Errorf("expected host localhost, got %s", cfg.Server.Host)
	}
	if cfg.Flush.Interval != 200*time.Millisecond {
		t.Errorf("expected interval 200ms, got %v", cfg.Flush.Interval)
	}
}

// TestLoaderMissingFile 测试加载不存在的文件
func TestLoaderMissingFile(t *testing.T) {
	loader := NewLoader()
	err := loader.LoadFile("/nonexistent/config.yaml", "yaml")
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

// TestValidator 测试配置验证
func TestValidator(t *testing.T) {
	v := NewValidator()

	var valid loaderTestConfig
	valid.Server.Port = 8080
	valid.Server.Host = "localhost"
	if err := v.Validate(&valid); err != nil {
		t.Errorf("expected valid config, got %v", err)
	}

	var invalid loaderTestConfig
	invalid.Server.Port = 0 // required 失败
	if err := v.Validate(&invalid); err == nil {
		t.Error("expected validation error for zero port")
	}
}
