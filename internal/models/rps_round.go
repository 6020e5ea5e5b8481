package models

import (
	"time"
)

// RpsRound 表示猜拳模式的一個回合
// Player1 / Player2 依照席位 id 順序指派，不是依照 light/dark 陣營
// 兩個選擇都送出並計算出勝者後，回合即定案（CompletedAt 非 null）
type RpsRound struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	RoomID        uint       `gorm:"not null;index" json:"room_id"`
	RoundNumber   int        `gorm:"not null" json:"round_number"` // 房間內從 1 開始
	Player1ID     uint       `gorm:"not null" json:"player1_id"`
	Player2ID     uint       `gorm:"not null" json:"player2_id"`
	Player1Choice *RpsChoice `json:"player1_choice"`
	Player2Choice *RpsChoice `json:"player2_choice"`
	WinnerID      *uint      `json:"winner_id"` // null 表示平手（或回合未結束）
	CreatedAt     time.Time  `json:"created_at"`
	CompletedAt   *time.Time `json:"completed_at"`
}

// RpsChoice 定義猜拳出拳的類型
type RpsChoice string

const (
	RpsRock     RpsChoice = "rock"
	RpsPaper    RpsChoice = "paper"
	RpsScissors RpsChoice = "scissors"
)

// ValidRpsChoice 檢查出拳值是否合法
func ValidRpsChoice(c RpsChoice) bool {
	return c == RpsRock || c == RpsPaper || c == RpsScissors
}
