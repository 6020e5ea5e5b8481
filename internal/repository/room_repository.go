package repository

import (
	"errors"

	"gorm.io/gorm"

	"chess_web/internal/models"
)

type RoomRepository interface {
	Create(room *models.GameRoom) error
	FindByID(id uint) (*models.GameRoom, error)
	FindByCode(code string) (*models.GameRoom, error)
	// FindByIDLocked 以列鎖讀取房間，用於 read-check-write 臨界區
	FindByIDLocked(id uint) (*models.GameRoom, error)
	// FindWaitingByMode 依建立時間由舊到新列出等待中的房間，不上鎖
	FindWaitingByMode(mode string) ([]models.GameRoom, error)
	// FindWaitingByModeLocked 同上，但以 SKIP LOCKED 鎖定回傳的列：
	// 已被其他配對交易鎖住的房間直接略過；excludeID 非零時排除該房間
	FindWaitingByModeLocked(mode string, excludeID uint) ([]models.GameRoom, error)
	Save(room *models.GameRoom) error
	// DeleteCascade 硬刪除房間以及所屬的玩家、棋步、回合
	DeleteCascade(id uint) error
}

type roomRepository struct {
	db *gorm.DB
}

func NewRoomRepository(db *gorm.DB) RoomRepository {
	return &roomRepository{db: db}
}

func (r *roomRepository) Create(room *models.GameRoom) error {
	return r.db.Create(room).Error
}

func (r *roomRepository) FindByID(id uint) (*models.GameRoom, error) {
	var room models.GameRoom
	err := r.db.First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByCode(code string) (*models.GameRoom, error) {
	var room models.GameRoom
	err := r.db.Where("room_code = ?", code).First(&room).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindByIDLocked(id uint) (*models.GameRoom, error) {
	var room models.GameRoom
	err := lockForUpdate(r.db).First(&room, id).Error
	if err != nil {
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) FindWaitingByMode(mode string) ([]models.GameRoom, error) {
	var rooms []models.GameRoom
	err := r.db.
		Where("status = ? AND game_mode = ?", models.RoomStatusWaiting, mode).
		Order("created_at ASC").
		Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) FindWaitingByModeLocked(mode string, excludeID uint) ([]models.GameRoom, error) {
	query := lockSkipLocked(r.db).
		Where("status = ? AND game_mode = ?", models.RoomStatusWaiting, mode).
		Order("created_at ASC")
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}

	var rooms []models.GameRoom
	err := query.Find(&rooms).Error
	return rooms, err
}

func (r *roomRepository) Save(room *models.GameRoom) error {
	return r.db.Save(room).Error
}

func (r *roomRepository) DeleteCascade(id uint) error {
	// 依序刪除子表再刪房間；呼叫端應包在交易中
	if err := r.db.Where("room_id = ?", id).Delete(&models.GameMove{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("room_id = ?", id).Delete(&models.RpsRound{}).Error; err != nil {
		return err
	}
	if err := r.db.Where("room_id = ?", id).Delete(&models.GamePlayer{}).Error; err != nil {
		return err
	}
	return r.db.Delete(&models.GameRoom{}, id).Error
}

// IsNotFound 判斷錯誤是否為「查無資料」
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
