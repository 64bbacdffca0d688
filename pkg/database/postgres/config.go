package postgres

import (
	"fmt"
	"time"
)

// Config PostgreSQL 配置（单机模式）
type Config struct {
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"`
	User     string `mapstructure:"user" yaml:"user"`
	Password string `mapstructure:"password" yaml:"password"`
	DBName   string `mapstructure:"db_name" yaml:"db_name"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"` // disable, require, verify-ca, verify-full

	// 连接池配置
	MaxConns        int32         `mapstructure:"max_conns" yaml:"max_conns"`
	MinConns        int32         `mapstructure:"min_conns" yaml:"min_conns"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime" yaml:"max_conn_lifetime"`

	// 超时配置
	ConnectTimeout time.Duration `mapstructure:"connect_timeout" yaml:"connect_timeout"`
	QueryTimeout   time.Duration `mapstructure:"query_timeout" yaml:"query_timeout"`
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Host:            "localhost",
		Port:            5432,
		User:            "postgres",
		DBName:          "itemworld",
		SSLMode:         "disable",
		MaxConns:        25,
		MinConns:        5,
		MaxConnLifetime: time.Hour,
		ConnectTimeout:  10 * time.Second,
		QueryTimeout:    30 * time.Second,
	}
}

// DSN 生成连接字符串
func (c *Config) DSN() string {
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// applyDefaults 补齐零值字段
func (c *Config) applyDefaults() {
	def := DefaultConfig()
	if c.Host == "" {
		c.Host = def.Host
	}
	if c.Port == 0 {
		c.Port = def.Port
	}
	if c.User == "" {
		c.User = def.User
	}
	if c.DBName == "" {
		c.DBName = def.DBName
	}
	if c.SSLMode == "" {
		c.SSLMode = def.SSLMode
	}
	if c.MaxConns == 0 {
		c.MaxConns = def.MaxConns
	}
	if c.MinConns == 0 {
		c.MinConns = def.MinConns
	}
	if c.MaxConnLifetime == 0 {
		c.MaxConnLifetime = def.MaxConnLifetime
	}
	if c.ConnectTimeout == 0 {
		c.ConnectTimeout = def.ConnectTimeout
	}
	if c.QueryTimeout == 0 {
		c.QueryTimeout = def.QueryTimeout
	}
}
