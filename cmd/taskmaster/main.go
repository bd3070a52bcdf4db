package main

import (
	"github.com/gin-gonic/gin"
	"github.com/taskmaster-dev/taskmaster/db"
	"github.com/taskmaster-dev/taskmaster/internal/auth"
	"github.com/taskmaster-dev/taskmaster/internal/config"
	"github.com/taskmaster-dev/taskmaster/internal/logging"
	"github.com/taskmaster-dev/taskmaster/internal/router"
)

func main() {
	cfg, err := config.Load()

	if err != nil {
		logging.Logger.Fatalf("Error loading configuration: %v", err)
	}

	if err = logging.Init(cfg.LogLevel, cfg.LogFormat, cfg.LogFile); err != nil {
		logging.Logger.Fatalf("Error configuring logger: %v", err)
	}

	if err = auth.InitJWTSecret(cfg.JWTSecret); err != nil {
		logging.Logger.Fatalf("Error initializing JWT secret: %v", err)
	}

	if err = db.ConnectDatabase(cfg.DBDriver, cfg.DatabaseURL); err != nil {
		logging.Logger.Fatalf("Failed to connect to database: %v", err)
	}

	if err = db.MigrateDatabase(); err != nil {
		logging.Logger.Fatalf("Failed to migrate database: %v", err)
	}

	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	r := router.NewRouter(cfg)

	logging.Logger.Infof("Taskmaster API listening on :%s", cfg.Port)

	if err = r.Run(":" + cfg.Port); err != nil {
		logging.Logger.Fatalf("Failed to start server: %v", err)
	}
}
