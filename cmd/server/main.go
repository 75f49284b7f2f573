package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"github.com/mawaddah/mbs/internal/config"
	"github.com/mawaddah/mbs/internal/database"
	"github.com/mawaddah/mbs/internal/logger"
	"github.com/mawaddah/mbs/internal/router"
	"github.com/mawaddah/mbs/internal/task"
)

func main() {
	// 加载配置
	cfg := config.Load()

	// 初始化日志
	logger.Init(cfg.Log)

	// 初始化数据库
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	// 初始化路由
	r := router.Setup(db, cfg)

	// 启动定时任务
	manager := task.Start(db, cfg)
	defer manager.Stop()

	// 启动服务器
	log.Printf("Server starting on port %s", cfg.Server.Port)
	if err := r.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
