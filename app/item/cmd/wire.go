//go:build wireinject
// +build wireinject

package main

import (
	"github.com/google/wire"

	"github.com/softrune/itemworld/pkg/app"
	"github.com/softrune/itemworld/pkg/logger"
)

// wireApp 组装完整应用
func wireApp(cfg *Config, l logger.Logger) (app.Application, error) {
	panic(wire.Build(providerSet))
}
