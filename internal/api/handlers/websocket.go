package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"chess_web/internal/middleware"
	"chess_web/internal/service"
)

// 定義 WebSocket 升級器
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 注意：在生產環境中，應該檢查 origin
	},
}

// WebSocketHandler 處理 WebSocket 連接
type WebSocketHandler struct {
	wsManager *service.WebSocketManager
}

// NewWebSocketHandler 創建一個新的 WebSocketHandler 實例
func NewWebSocketHandler(wsManager *service.WebSocketManager) *WebSocketHandler {
	return &WebSocketHandler{wsManager: wsManager}
}

// HandleWebSocket 處理 WebSocket 連接請求
// 路徑以房間代碼定位房間；身份是可選的，匿名玩家一樣可以入座
func (h *WebSocketHandler) HandleWebSocket(c *gin.Context) {
	roomCode := c.Param("code")
	if roomCode == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "錯誤的房間代碼"})
		return
	}

	userID := middleware.UserIDFromContext(c)

	// 升級 HTTP 連接為 WebSocket 連接
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// 升級失敗時 gorilla 已回覆 HTTP 錯誤，這裡只需返回
		return
	}

	// 阻塞直到連線結束；綁定失敗的錯誤回覆與關閉都在 manager 內處理
	h.wsManager.HandleConnection(conn, roomCode, userID)
}
