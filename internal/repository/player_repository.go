package repository

import (
	"gorm.io/gorm"

	"chess_web/internal/models"
)

type PlayerRepository interface {
	Create(player *models.GamePlayer) error
	// FindByRoom 依席位 id 由小到大回傳房間內的玩家
	FindByRoom(roomID uint) ([]models.GamePlayer, error)
	FindByID(id uint) (*models.GamePlayer, error)
	Save(player *models.GamePlayer) error
}

type playerRepository struct {
	db *gorm.DB
}

func NewPlayerRepository(db *gorm.DB) PlayerRepository {
	return &playerRepository{db: db}
}

func (r *playerRepository) Create(player *models.GamePlayer) error {
	return r.db.Create(player).Error
}

func (r *playerRepository) FindByRoom(roomID uint) ([]models.GamePlayer, error) {
	var players []models.GamePlayer
	err := r.db.Where("room_id = ?", roomID).Order("id ASC").Find(&players).Error
	return players, err
}

func (r *playerRepository) FindByID(id uint) (*models.GamePlayer, error) {
	var player models.GamePlayer
	err := r.db.First(&player, id).Error
	if err != nil {
		return nil, err
	}
	return &player, nil
}

func (r *playerRepository) Save(player *models.GamePlayer) error {
	return r.db.Save(player).Error
}
