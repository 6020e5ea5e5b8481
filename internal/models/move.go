package models

import (
	"time"
)

// GameMove 表示一步棋的紀錄，只新增不修改
// MoveNumber 是房間內從 1 開始的連續序號
type GameMove struct {
	ID           uint      `gorm:"primarykey" json:"id"`
	RoomID       uint      `gorm:"not null;index" json:"room_id"`
	PlayerID     uint      `gorm:"not null" json:"player_id"`
	MoveNotation string    `gorm:"not null" json:"move_notation"` // 例如 "e2e4"
	MoveNumber   int       `gorm:"not null" json:"move_number"`
	CreatedAt    time.Time `json:"created_at"`
}
