package service

import (
	"time"

	"go.uber.org/zap"

	"chess_web/internal/models"
	"chess_web/internal/repository"
)

// GameService 實作對局內的規則：席位綁定、斷線清理、棋鐘與猜拳回合
// 每個入站訊息的持久化變更都包在單一交易內並鎖住房間列，
// 方法只回傳結果，不碰 socket——廣播由 WebSocketManager 負責，
// 資料庫的鎖因此絕不會跨越 socket 寫入
type GameService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

func NewGameService(repos *repository.Repositories, logger *zap.Logger) *GameService {
	return &GameService{repos: repos, logger: logger}
}

// JoinResult 是席位綁定的結果
type JoinResult struct {
	Room        *models.GameRoom
	Player      *models.GamePlayer
	Reconnected bool // true 表示接回既有席位（配對預留或斷線重連）
}

// Join 將連上 WebSocket 的玩家綁到房間席位
//
// 依席位 id 順序優先接上未連線的席位（配對預留的佔位席位，
// 或先前斷線玩家留下的席位）；沒有未連線席位時，兩席都在線就拒絕，
// 不足兩席就建立新席位（先到為 light，後到為 dark）
func (s *GameService) Join(roomCode string, userID *uint) (*JoinResult, error) {
	var result JoinResult
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		room, err := tx.Room.FindByCode(roomCode)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrRoomNotFound
			}
			return err
		}
		room, err = tx.Room.FindByIDLocked(room.ID)
		if err != nil {
			return err
		}

		players, err := tx.Player.FindByRoom(room.ID)
		if err != nil {
			return err
		}

		// 優先找最小 id 的未連線席位
		for i := range players {
			if players[i].IsConnected {
				continue
			}
			player := &players[i]
			player.IsConnected = true
			if player.UserID == nil && userID != nil {
				player.UserID = userID
			}
			if err := tx.Player.Save(player); err != nil {
				return err
			}
			result.Room = room
			result.Player = player
			result.Reconnected = true
			return nil
		}

		if len(players) >= 2 {
			return ErrRoomFull
		}

		side := models.SideLight
		if len(players) == 1 {
			side = models.SideDark
		}
		player := &models.GamePlayer{
			RoomID:      room.ID,
			UserID:      userID,
			PlayerSide:  side,
			IsConnected: true,
		}
		if err := tx.Player.Create(player); err != nil {
			return err
		}

		// 第二個席位成立時，房間狀態往前推進（狀態只進不退）
		if len(players) == 1 && room.Status == models.RoomStatusWaiting {
			room.Status = models.RoomStatusInProgress
			if err := tx.Room.Save(room); err != nil {
				return err
			}
		}

		result.Room = room
		result.Player = player
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player joined room",
		zap.String("room_code", result.Room.RoomCode),
		zap.Uint("player_id", result.Player.ID),
		zap.String("side", result.Player.PlayerSide),
		zap.Bool("reconnected", result.Reconnected))
	return &result, nil
}

// DisconnectResult 是斷線清理的結果
type DisconnectResult struct {
	RoomDeleted bool // 房間從未湊滿兩人，已連同所有資料刪除
}

// Disconnect 處理玩家斷線後的持久化清理
// 房間還在等待中且斷線後在線席位 ≤1：整個房間硬刪除，不再廣播；
// 否則只清掉該席位的 is_connected 標記，房間留著等重連
func (s *GameService) Disconnect(roomID, playerID uint) (*DisconnectResult, error) {
	var result DisconnectResult
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		room, err := tx.Room.FindByIDLocked(roomID)
		if err != nil {
			if repository.IsNotFound(err) {
				// 房間已被對側的斷線清理刪除
				result.RoomDeleted = true
				return nil
			}
			return err
		}

		players, err := tx.Player.FindByRoom(room.ID)
		if err != nil {
			return err
		}

		connected := 0
		for i := range players {
			if players[i].ID == playerID {
				players[i].IsConnected = false
				if err := tx.Player.Save(&players[i]); err != nil {
					return err
				}
			}
			if players[i].IsConnected && players[i].ID != playerID {
				connected++
			}
		}

		if room.Status == models.RoomStatusWaiting && connected <= 1 {
			if err := tx.Room.DeleteCascade(room.ID); err != nil {
				return err
			}
			result.RoomDeleted = true
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("player disconnected",
		zap.Uint("room_id", roomID),
		zap.Uint("player_id", playerID),
		zap.Bool("room_deleted", result.RoomDeleted))
	return &result, nil
}

// MoveResult 是一步棋的結果，含更新後的棋鐘
type MoveResult struct {
	Room *models.GameRoom
	Move *models.GameMove
}

// HandleMove 處理一步棋與棋鐘結算
//
// 棋鐘模型：回合開始時間存在時，流逝的是「出棋方自己」的時間——
// 這段時間棋鐘一直為出棋方走著，所以由出棋方買單，下限為 0。
// 之後把回合開始時間重設為現在，代表輪到對方
func (s *GameService) HandleMove(roomID, playerID uint, notation string) (*MoveResult, error) {
	var result MoveResult
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		room, err := tx.Room.FindByIDLocked(roomID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrRoomNotFound
			}
			return err
		}

		player, err := tx.Player.FindByID(playerID)
		if err != nil || player.RoomID != room.ID {
			return ErrNotInRoom
		}

		now := time.Now()
		if room.CurrentTurnStartedAt != nil {
			elapsed := int(now.Sub(*room.CurrentTurnStartedAt).Seconds())
			if elapsed > 0 {
				if player.PlayerSide == models.SideLight {
					room.LightPlayerTime -= elapsed
					if room.LightPlayerTime < 0 {
						room.LightPlayerTime = 0
					}
				} else {
					room.DarkPlayerTime -= elapsed
					if room.DarkPlayerTime < 0 {
						room.DarkPlayerTime = 0
					}
				}
			}
		}
		room.CurrentTurnStartedAt = &now
		if err := tx.Room.Save(room); err != nil {
			return err
		}

		moveNumber, err := tx.Move.NextMoveNumber(room.ID)
		if err != nil {
			return err
		}
		move := &models.GameMove{
			RoomID:       room.ID,
			PlayerID:     player.ID,
			MoveNotation: notation,
			MoveNumber:   moveNumber,
		}
		if err := tx.Move.Create(move); err != nil {
			return err
		}

		result.Room = room
		result.Move = move
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// RpsOutcome 是一次出拳的結果
type RpsOutcome struct {
	Round     *models.RpsRound
	Completed bool // true 表示兩個選擇都到齊，回合已定案
}

// HandleRpsChoice 處理猜拳出拳
// 取房間最新的未完成回合，沒有就開新回合（player1/player2 依席位 id 順序）；
// 兩個選擇到齊時計算勝者並定案
func (s *GameService) HandleRpsChoice(roomID, playerID uint, choice models.RpsChoice) (*RpsOutcome, error) {
	if !models.ValidRpsChoice(choice) {
		return nil, ErrInvalidChoice
	}

	var outcome RpsOutcome
	err := s.repos.Transaction(func(tx *repository.Repositories) error {
		room, err := tx.Room.FindByIDLocked(roomID)
		if err != nil {
			if repository.IsNotFound(err) {
				return ErrRoomNotFound
			}
			return err
		}

		players, err := tx.Player.FindByRoom(room.ID)
		if err != nil {
			return err
		}
		if len(players) != 2 {
			return ErrRoomNotReady
		}

		round, err := tx.RpsRound.FindOpenByRoom(room.ID)
		if err != nil {
			return err
		}
		if round == nil {
			number, err := tx.RpsRound.NextRoundNumber(room.ID)
			if err != nil {
				return err
			}
			round = &models.RpsRound{
				RoomID:      room.ID,
				RoundNumber: number,
				Player1ID:   players[0].ID,
				Player2ID:   players[1].ID,
			}
			if err := tx.RpsRound.Create(round); err != nil {
				return err
			}
		}

		switch playerID {
		case round.Player1ID:
			round.Player1Choice = &choice
		case round.Player2ID:
			round.Player2Choice = &choice
		default:
			// 房間兩席的前提下不該發生，仍須防範
			return ErrNotInRoom
		}

		if round.Player1Choice != nil && round.Player2Choice != nil {
			round.WinnerID = resolveRpsWinner(round)
			now := time.Now()
			round.CompletedAt = &now
			outcome.Completed = true
		}
		if err := tx.RpsRound.Save(round); err != nil {
			return err
		}

		outcome.Round = round
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &outcome, nil
}

// OpponentOf 回傳房間中 playerID 以外那一席的顯示身份，匿名對手回傳 nil
func (s *GameService) OpponentOf(roomID, playerID uint) (*OpponentInfo, error) {
	players, err := s.repos.Player.FindByRoom(roomID)
	if err != nil {
		return nil, err
	}
	for i := range players {
		if players[i].ID == playerID {
			continue
		}
		if players[i].UserID == nil {
			return nil, nil
		}
		user, err := s.repos.User.FindByID(*players[i].UserID)
		if err != nil {
			if repository.IsNotFound(err) {
				return nil, nil
			}
			return nil, err
		}
		return &OpponentInfo{
			UserID:     user.ID,
			Name:       user.DisplayName(),
			AvatarIcon: user.AvatarIcon,
		}, nil
	}
	return nil, nil
}
