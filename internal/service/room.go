package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"chess_web/internal/models"
	"chess_web/internal/repository"
)

// RoomService 負責房間的建立、查詢與配對
type RoomService struct {
	repos        *repository.Repositories
	logger       *zap.Logger
	initialClock int           // 每方初始棋鐘秒數
	retryDelay   time.Duration // 配對重試前的等待時間
}

func NewRoomService(repos *repository.Repositories, logger *zap.Logger, initialClock int, retryDelay time.Duration) *RoomService {
	return &RoomService{
		repos:        repos,
		logger:       logger,
		initialClock: initialClock,
		retryDelay:   retryDelay,
	}
}

// CreateRoom 建立一個新的等待中房間，席位在玩家連上 WebSocket 時才建立
func (s *RoomService) CreateRoom(gameMode string) (*models.GameRoom, error) {
	if !models.ValidGameMode(gameMode) {
		return nil, ErrInvalidGameMode
	}

	room := s.newRoomModel(gameMode)
	if err := s.repos.Room.Create(room); err != nil {
		return nil, err
	}

	s.logger.Info("room created",
		zap.String("room_code", room.RoomCode),
		zap.String("game_mode", room.GameMode))
	return room, nil
}

// Matchmake 為玩家找一個有空位的等待中房間，找不到就建立新房間
//
// 正確性由列鎖保證：候選房間以 SKIP LOCKED 讀取並在鎖內重新驗證
// 狀態與席位數，兩個並發呼叫不可能佔到同一個席位。
// 「建房後等一小段時間再掃一次」只是降低延遲的啟發式：
// 並發配對互相搶建房間時，短暫等待讓對方剛提交的房間變得可見，
// 減少兩人各自開新房的機率，不是正確性的依據
func (s *RoomService) Matchmake(gameMode string, userID *uint) (*models.GameRoom, error) {
	if !models.ValidGameMode(gameMode) {
		return nil, ErrInvalidGameMode
	}

	var created *models.GameRoom

	for attempt := 0; attempt < 2; attempt++ {
		excludeID := uint(0)
		if created != nil {
			// 呼叫者不能配對到自己剛建立的房間
			excludeID = created.ID
		}

		matched, err := s.claimWaitingRoom(gameMode, excludeID, userID)
		if err != nil {
			s.logger.Error("matchmake scan failed", zap.Error(err))
			return nil, ErrMatchFailed
		}
		if matched != nil {
			if created != nil {
				// 重掃時配到了別人的房間，收掉自己建立的空房
				if err := s.discardRoom(created.ID); err != nil {
					s.logger.Warn("discard own waiting room failed",
						zap.Uint("room_id", created.ID), zap.Error(err))
				}
			}
			s.logger.Info("matchmake joined existing room",
				zap.String("room_code", matched.RoomCode),
				zap.String("game_mode", gameMode))
			return matched, nil
		}

		if created == nil {
			created, err = s.createWithReservedSlot(gameMode, userID)
			if err != nil {
				s.logger.Error("matchmake create room failed", zap.Error(err))
				return nil, ErrMatchFailed
			}
			// 讓並發建房者的提交有機會變得可見，再重掃一次
			time.Sleep(s.retryDelay)
		}
	}

	s.logger.Info("matchmake created new room",
		zap.String("room_code", created.RoomCode),
		zap.String("game_mode", gameMode))
	return created, nil
}

// claimWaitingRoom 掃描等待中的房間並佔下一個席位，沒有空位時回傳 (nil, nil)
func (s *RoomService) claimWaitingRoom(gameMode string, excludeID uint, userID *uint) (*models.GameRoom, error) {
	var matched *models.GameRoom
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		rooms, err := tx.Room.FindWaitingByModeLocked(gameMode, excludeID)
		if err != nil {
			return err
		}

		for i := range rooms {
			room := &rooms[i]
			// 鎖內重新驗證：狀態可能在查詢與上鎖之間改變
			if room.Status != models.RoomStatusWaiting {
				continue
			}
			players, err := tx.Player.FindByRoom(room.ID)
			if err != nil {
				return err
			}
			if len(players) >= 2 {
				continue
			}

			side := models.SideLight
			if len(players) == 1 {
				side = models.SideDark
			}
			// 預留席位：玩家還沒連上 WebSocket，is_connected 維持 false
			player := &models.GamePlayer{
				RoomID:      room.ID,
				UserID:      userID,
				PlayerSide:  side,
				IsConnected: false,
			}
			if err := tx.Player.Create(player); err != nil {
				return err
			}

			if len(players) == 1 {
				room.Status = models.RoomStatusInProgress
				if err := tx.Room.Save(room); err != nil {
					return err
				}
			}

			matched = room
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return matched, nil
}

// createWithReservedSlot 建立新房間並預留 light 席位給呼叫者
func (s *RoomService) createWithReservedSlot(gameMode string, userID *uint) (*models.GameRoom, error) {
	room := s.newRoomModel(gameMode)
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		if err := tx.Room.Create(room); err != nil {
			return err
		}
		player := &models.GamePlayer{
			RoomID:      room.ID,
			UserID:      userID,
			PlayerSide:  models.SideLight,
			IsConnected: false,
		}
		return tx.Player.Create(player)
	})
	if err != nil {
		return nil, err
	}
	return room, nil
}

// discardRoom 刪除重掃後用不到的自建房間
func (s *RoomService) discardRoom(roomID uint) error {
	return s.repos.Transaction(func(tx *repository.Repositories) error {
		return tx.Room.DeleteCascade(roomID)
	})
}

// FindAvailableRoom 唯讀查詢有空位的等待中房間，用於前端輪詢
// 不上鎖也不寫入，回答可能在客戶端行動前就過期，不具權威性
func (s *RoomService) FindAvailableRoom(gameMode string) (*models.GameRoom, error) {
	if !models.ValidGameMode(gameMode) {
		return nil, ErrInvalidGameMode
	}

	rooms, err := s.repos.Room.FindWaitingByMode(gameMode)
	if err != nil {
		return nil, err
	}
	for i := range rooms {
		players, err := s.repos.Player.FindByRoom(rooms[i].ID)
		if err != nil {
			return nil, err
		}
		if len(players) < 2 {
			return &rooms[i], nil
		}
	}
	return nil, nil
}

// GetRoomByCode 依房間代碼查詢房間
func (s *RoomService) GetRoomByCode(code string) (*models.GameRoom, error) {
	room, err := s.repos.Room.FindByCode(code)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return room, nil
}

// GetRoomMoves 回傳房間的棋步紀錄
func (s *RoomService) GetRoomMoves(code string) ([]models.GameMove, error) {
	room, err := s.GetRoomByCode(code)
	if err != nil {
		return nil, err
	}
	return s.repos.Move.FindByRoom(room.ID)
}

// GetRoomRounds 回傳房間的猜拳回合紀錄
func (s *RoomService) GetRoomRounds(code string) ([]models.RpsRound, error) {
	room, err := s.GetRoomByCode(code)
	if err != nil {
		return nil, err
	}
	return s.repos.RpsRound.FindByRoom(room.ID)
}

func (s *RoomService) newRoomModel(gameMode string) *models.GameRoom {
	return &models.GameRoom{
		RoomCode:        newRoomCode(),
		Status:          models.RoomStatusWaiting,
		GameMode:        gameMode,
		LightPlayerTime: s.initialClock,
		DarkPlayerTime:  s.initialClock,
	}
}

// newRoomCode 產生對外的房間代碼：UUID 前 8 碼轉大寫
func newRoomCode() string {
	return strings.ToUpper(uuid.NewString()[:8])
}
