package models

import (
	"time"
)

// GameRoom 表示一場兩人對戰的遊戲房間
// 不使用 gorm.Model：房間採用硬刪除（連同玩家、棋步、回合一併刪除），
// 不需要 DeletedAt 軟刪除欄位
type GameRoom struct {
	ID                   uint       `gorm:"primarykey" json:"id"`
	RoomCode             string     `gorm:"uniqueIndex;not null" json:"room_code"` // 對外的房間代碼
	Status               RoomStatus `gorm:"not null" json:"status"`
	GameMode             string     `gorm:"not null" json:"game_mode"` // "classical" 或 "rps"
	LightPlayerTime      int        `json:"light_player_time"`         // 白方剩餘時間（秒）
	DarkPlayerTime       int        `json:"dark_player_time"`          // 黑方剩餘時間（秒）
	CurrentTurnStartedAt *time.Time `json:"current_turn_started_at"`   // 當前回合開始時間，開局前為 null
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`

	Players   []GamePlayer `gorm:"foreignKey:RoomID" json:"-"`
	Moves     []GameMove   `gorm:"foreignKey:RoomID" json:"-"`
	RpsRounds []RpsRound   `gorm:"foreignKey:RoomID" json:"-"`
}

// RoomStatus 定義房間狀態的類型
// 狀態只會往前推進：waiting → in_progress → finished，不會倒退
type RoomStatus string

const (
	RoomStatusWaiting    RoomStatus = "waiting"
	RoomStatusInProgress RoomStatus = "in_progress"
	RoomStatusFinished   RoomStatus = "finished"
)

// 支援的遊戲模式
const (
	GameModeClassical = "classical"
	GameModeRps       = "rps"
)

// ValidGameMode 檢查遊戲模式是否為支援的值
func ValidGameMode(mode string) bool {
	return mode == GameModeClassical || mode == GameModeRps
}
