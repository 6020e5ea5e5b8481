package main

import (
	"log"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"chess_web/internal/api"
	"chess_web/internal/logger"
	"chess_web/internal/models"
	"chess_web/internal/repository"
	"chess_web/internal/service"
	"chess_web/internal/storage"
	"chess_web/internal/utils"
	"chess_web/pkg/config"
)

func main() {
	// 載入應用程式配置
	// 從配置文件中讀取設置，如數據庫連接信息和服務器地址等
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Log.Debug)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	utils.SetSecret(cfg.JWT.Secret)

	// 初始化資料庫連接
	// 使用配置中的信息建立到 PostgreSQL 數據庫的連接
	db, err := storage.NewPostgresDB(cfg.DB.Host, cfg.DB.User, cfg.DB.Password, cfg.DB.Name, cfg.DB.Port)
	if err != nil {
		zapLogger.Fatal("Failed to initialize database", zap.Error(err))
	}
	// 確保在程序結束時關閉數據庫連接
	defer db.Close()

	// 自動遷移資料庫結構
	// 根據定義的模型自動創建或更新數據庫表結構
	if err := db.AutoMigrate(
		&models.User{},
		&models.GameRoom{},
		&models.GamePlayer{},
		&models.GameMove{},
		&models.RpsRound{},
	); err != nil {
		zapLogger.Fatal("Failed to auto migrate database", zap.Error(err))
	}

	// 初始化 repositories
	repos := repository.NewRepositories(db)

	// 初始化 services
	services := service.NewServices(repos, zapLogger, service.Options{
		InitialClockSeconds: cfg.Game.InitialClockSeconds,
		MatchRetryDelay:     cfg.Game.MatchRetryDelay(),
	})

	// 設置 Gin 路由
	r := gin.Default()
	api.SetupRoutes(r, services)

	// 啟動伺服器
	// 使用配置中指定的地址啟動 HTTP 服務器
	zapLogger.Info("server starting", zap.String("address", cfg.Server.Address))
	if err := r.Run(cfg.Server.Address); err != nil {
		zapLogger.Fatal("Failed to run server", zap.Error(err))
	}
}
