package main

import (
	"github.com/kandebooths/packer-service/internal/app"
	"github.com/kandebooths/packer-service/internal/config"
	"github.com/kandebooths/packer-service/internal/logger"
)

func main() {
	cfg := config.Load()
	logger.Setup(cfg.Env, cfg.LogLevel)

	a, err := app.New(cfg)
	if err != nil {
		logger.Fatal("startup failed", map[string]interface{}{"error": err.Error()})
	}
	if err := a.Run(); err != nil {
		logger.Fatal("server stopped with error", map[string]interface{}{"error": err.Error()})
	}
}
