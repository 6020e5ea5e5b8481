package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"chess_web/internal/api/handlers"
	"chess_web/internal/middleware"
	"chess_web/internal/service"
)

func SetupRoutes(r *gin.Engine, services *service.Services) {
	// 初始化 handlers
	roomHandler := handlers.NewRoomHandler(services.Room)
	wsHandler := handlers.NewWebSocketHandler(services.WebSocketManager)

	// API 路由群組
	api := r.Group("/api")

	// 處理 404 錯誤
	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "找不到該路徑",
		})
	})

	// 基本的健康檢查
	api.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
		})
	})

	// 遊戲路由：身份可選，匿名一樣可玩
	game := api.Group("/")
	game.Use(middleware.IdentityMiddleware())
	{
		rooms := game.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)                // 創建房間
			rooms.POST("/matchmake", roomHandler.Matchmake)       // 自動配對
			rooms.GET("/available", roomHandler.AvailableRoom)    // 查詢可加入的房間
			rooms.GET("/:code", roomHandler.GetRoom)              // 獲取房間信息
			rooms.GET("/:code/moves", roomHandler.GetRoomMoves)   // 棋步紀錄
			rooms.GET("/:code/rounds", roomHandler.GetRoomRounds) // 猜拳回合紀錄

			// WebSocket 連接點
			rooms.GET("/:code/ws", wsHandler.HandleWebSocket)
		}
	}
}
