package repository

import (
	"gorm.io/gorm"

	"chess_web/internal/storage"
)

type Repositories struct {
	db *gorm.DB

	User     UserRepository
	Room     RoomRepository
	Player   PlayerRepository
	Move     MoveRepository
	RpsRound RpsRoundRepository
}

func NewRepositories(db *storage.PostgresDB) *Repositories {
	return newRepositories(db.DB)
}

func newRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		db:       db,
		User:     NewUserRepository(db),
		Room:     NewRoomRepository(db),
		Player:   NewPlayerRepository(db),
		Move:     NewMoveRepository(db),
		RpsRound: NewRpsRoundRepository(db),
	}
}

// Transaction 在單一資料庫交易中執行 fn，fn 收到的是綁定該交易的 repository 集合
// fn 回傳錯誤時整個交易回滾，不會留下寫到一半的房間狀態
func (r *Repositories) Transaction(fn func(tx *Repositories) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(newRepositories(tx))
	})
}
