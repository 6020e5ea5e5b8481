package models

import (
	"time"
)

// GamePlayer 表示房間中的一個玩家席位
// UserID 可為 null（允許匿名遊玩）；IsConnected 是持久化的連線標記，
// 與記憶體中的連線註冊表是兩個不同生命週期的狀態
type GamePlayer struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	RoomID      uint      `gorm:"not null;index" json:"room_id"`
	UserID      *uint     `json:"user_id"`
	PlayerSide  string    `gorm:"not null" json:"player_side"` // "light" 或 "dark"
	IsConnected bool      `json:"is_connected"`
	JoinedAt    time.Time `gorm:"autoCreateTime" json:"joined_at"`
}

// 玩家陣營：先加入者為 light，後加入者為 dark
const (
	SideLight = "light"
	SideDark  = "dark"
)
