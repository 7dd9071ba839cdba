package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/unveil/internal/config"
	"github.com/unveil/internal/db"
	"github.com/unveil/internal/logging"
	"github.com/unveil/internal/router"
)

func main() {
	cfg := config.Load()

	if err := logging.Init(cfg.LogLevel); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logging.Sync()

	gin.SetMode(cfg.GinMode)

	if names := cfg.DefaultSecrets(); len(names) > 0 {
		logging.Log.Warnw("using development default secrets, set them before deploying", "vars", names)
	}

	// 初始化数据库
	if err := db.Init(db.Options{
		Driver: cfg.DatabaseDriver,
		Path:   cfg.DatabasePath,
		DSN:    cfg.DatabaseDSN,
	}); err != nil {
		logging.Log.Fatalw("failed to initialize database", "driver", cfg.DatabaseDriver, "error", err)
	}

	if err := db.EnsureAdmin(cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logging.Log.Fatalw("failed to ensure admin account", "error", err)
	}

	// 设置并运行 Gin 服务器
	r, _ := router.SetupRouter(router.Options{
		DB:            db.DB,
		SessionSecret: cfg.SessionSecret,
		JWTSecret:     cfg.JWTSecret,
		TokenTTL:      cfg.TokenTTL,
		UploadDir:     cfg.UploadDir,
		UploadURLPath: cfg.UploadURLPath,
	})

	logging.Log.Infow("server starting", "addr", cfg.ListenAddr, "driver", cfg.DatabaseDriver)
	if err := r.Run(cfg.ListenAddr); err != nil {
		logging.Log.Fatalw("failed to run server", "error", err)
	}
}
