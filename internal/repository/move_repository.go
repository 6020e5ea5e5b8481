package repository

import (
	"gorm.io/gorm"

	"chess_web/internal/models"
)

type MoveRepository interface {
	Create(move *models.GameMove) error
	FindByRoom(roomID uint) ([]models.GameMove, error)
	// NextMoveNumber 回傳房間內下一個棋步序號（現有最大值 +1，沒有棋步時為 1）
	NextMoveNumber(roomID uint) (int, error)
}

type moveRepository struct {
	db *gorm.DB
}

func NewMoveRepository(db *gorm.DB) MoveRepository {
	return &moveRepository{db: db}
}

func (r *moveRepository) Create(move *models.GameMove) error {
	return r.db.Create(move).Error
}

func (r *moveRepository) FindByRoom(roomID uint) ([]models.GameMove, error) {
	var moves []models.GameMove
	err := r.db.Where("room_id = ?", roomID).Order("move_number ASC").Find(&moves).Error
	return moves, err
}

func (r *moveRepository) NextMoveNumber(roomID uint) (int, error) {
	var max int
	err := r.db.Model(&models.GameMove{}).
		Where("room_id = ?", roomID).
		Select("COALESCE(MAX(move_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
