package repository

import (
	"gorm.io/gorm"

	"chess_web/internal/models"
)

type RpsRoundRepository interface {
	Create(round *models.RpsRound) error
	FindByRoom(roomID uint) ([]models.RpsRound, error)
	// FindOpenByRoom 回傳房間內最新的未完成回合，沒有時回傳 (nil, nil)
	FindOpenByRoom(roomID uint) (*models.RpsRound, error)
	// NextRoundNumber 回傳房間內下一個回合序號（現有最大值 +1，沒有回合時為 1）
	NextRoundNumber(roomID uint) (int, error)
	Save(round *models.RpsRound) error
}

type rpsRoundRepository struct {
	db *gorm.DB
}

func NewRpsRoundRepository(db *gorm.DB) RpsRoundRepository {
	return &rpsRoundRepository{db: db}
}

func (r *rpsRoundRepository) Create(round *models.RpsRound) error {
	return r.db.Create(round).Error
}

func (r *rpsRoundRepository) FindByRoom(roomID uint) ([]models.RpsRound, error) {
	var rounds []models.RpsRound
	err := r.db.Where("room_id = ?", roomID).Order("round_number ASC").Find(&rounds).Error
	return rounds, err
}

func (r *rpsRoundRepository) FindOpenByRoom(roomID uint) (*models.RpsRound, error) {
	var round models.RpsRound
	err := r.db.Where("room_id = ? AND completed_at IS NULL", roomID).
		Order("round_number DESC").
		First(&round).Error
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &round, nil
}

func (r *rpsRoundRepository) NextRoundNumber(roomID uint) (int, error) {
	var max int
	err := r.db.Model(&models.RpsRound{}).
		Where("room_id = ?", roomID).
		Select("COALESCE(MAX(round_number), 0)").
		Scan(&max).Error
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}

func (r *rpsRoundRepository) Save(round *models.RpsRound) error {
	return r.db.Save(round).Error
}
