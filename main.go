package main

import (
	"context"
	"flag"
	"log"
	"path/filepath"
	"scorm_rte/internal/app"
	"scorm_rte/internal/config"
	"scorm_rte/pkg/configwatcher"
	"scorm_rte/pkg/database"
	"scorm_rte/pkg/logger"

	"go.uber.org/zap"
)

func main() {
	// 命令行参数
	configDir := flag.String("config", "configs", "配置文件所在目录")
	migrateOnly := flag.Bool("migrate-only", false, "只执行数据库迁移，完成后退出")
	migrate := flag.Bool("migrate", false, "启动时强制执行数据库迁移（即使是 release 模式）")
	watch := flag.Bool("watch-config", true, "配置文件变化时热更新 LMS 相关配置")
	flag.Parse()

	cfg, err := config.LoadConfig(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 设置迁移标志
	cfg.ForceMigrate = *migrate || *migrateOnly

	// 迁移完成后直接退出
	if *migrateOnly {
		logger.InitLogger(cfg)
		if _, err := database.InitDB(&cfg.Database, true); err != nil {
			log.Fatalf("Migration failed: %v", err)
		}
		log.Println("数据库迁移完成，退出程序")
		return
	}

	application, err := app.NewApp(cfg)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	defer logger.Log.Sync()

	if *watch {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		go func() {
			file := filepath.Join(*configDir, "config.yaml")
			if err := configwatcher.WatchConfig(ctx, file, application.ApplyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	application.Run()
}
