package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/dishaapp/disha/pkg/config"
	"github.com/dishaapp/disha/pkg/db"
	"github.com/dishaapp/disha/pkg/utils"
)

func main() {
	utils.InitLogger()
	logger := utils.GetLogger()

	if _, err := config.EnsureDefaultConfig(); err != nil {
		logger.Warn("could not write default config", "error", err)
	}
	cfg, configFile, err := config.Load()
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	logger.Info("config loaded", "file", configFile)

	dbPath, err := db.DefaultPath()
	if err != nil {
		logger.Error("failed to resolve database path", "error", err)
		os.Exit(1)
	}
	gdb, err := db.Open(dbPath)
	if err != nil {
		logger.Error("failed to open database", "path", dbPath, "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server := NewServer(cfg, gdb)
	if err := server.Start(ctx); err != nil {
		logger.Error("server exited", "error", err)
		os.Exit(1)
	}
	logger.Info("shutdown complete")
}
