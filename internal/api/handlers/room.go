package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"chess_web/internal/middleware"
	"chess_web/internal/service"
)

// RoomHandler 處理與遊戲房間相關的請求
type RoomHandler struct {
	roomService *service.RoomService
}

// NewRoomHandler 創建一個新的 RoomHandler 實例
func NewRoomHandler(roomService *service.RoomService) *RoomHandler {
	return &RoomHandler{roomService: roomService}
}

// CreateRoom 處理創建新房間的請求
func (h *RoomHandler) CreateRoom(c *gin.Context) {
	var input struct {
		GameMode string `json:"game_mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	room, err := h.roomService.CreateRoom(input.GameMode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGameMode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "創建房間失敗"})
		return
	}

	c.JSON(http.StatusCreated, room)
}

// Matchmake 處理配對請求：找一個有空位的房間，沒有就開新房
func (h *RoomHandler) Matchmake(c *gin.Context) {
	var input struct {
		GameMode string `json:"game_mode" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID := middleware.UserIDFromContext(c)
	room, err := h.roomService.Matchmake(input.GameMode, userID)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGameMode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "配對失敗"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// AvailableRoom 處理查詢可加入房間的請求，找不到時回傳 null
func (h *RoomHandler) AvailableRoom(c *gin.Context) {
	gameMode := c.Query("game_mode")

	room, err := h.roomService.FindAvailableRoom(gameMode)
	if err != nil {
		if errors.Is(err, service.ErrInvalidGameMode) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "查詢房間失敗"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// GetRoom 處理獲取房間訊息的請求
func (h *RoomHandler) GetRoom(c *gin.Context) {
	room, err := h.roomService.GetRoomByCode(c.Param("code"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
		return
	}

	c.JSON(http.StatusOK, room)
}

// GetRoomMoves 處理獲取房間棋步紀錄的請求
func (h *RoomHandler) GetRoomMoves(c *gin.Context) {
	moves, err := h.roomService.GetRoomMoves(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢棋步紀錄"})
		return
	}

	c.JSON(http.StatusOK, moves)
}

// GetRoomRounds 處理獲取房間猜拳回合紀錄的請求
func (h *RoomHandler) GetRoomRounds(c *gin.Context) {
	rounds, err := h.roomService.GetRoomRounds(c.Param("code"))
	if err != nil {
		if errors.Is(err, service.ErrRoomNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "房間不存在"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "無法查詢回合紀錄"})
		return
	}

	c.JSON(http.StatusOK, rounds)
}
