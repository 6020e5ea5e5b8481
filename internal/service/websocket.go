package service

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// WebSocketManager 管理所有的 WebSocket 連接和消息傳遞
// 會話迴圈解碼入站訊息、呼叫 GameService、把結果廣播給房間內的連線；
// 廣播是盡力而為：某個連線寫入失敗不會影響其他連線收到訊息
type WebSocketManager struct {
	registry *ConnectionRegistry
	game     *GameService
	logger   *zap.Logger
}

func NewWebSocketManager(registry *ConnectionRegistry, game *GameService, logger *zap.Logger) *WebSocketManager {
	return &WebSocketManager{
		registry: registry,
		game:     game,
		logger:   logger,
	}
}

// HandleConnection 處理一條新的 WebSocket 連線，直到連線關閉才返回
// 綁定失敗（房間不存在、已滿）時回覆 error 訊息並關閉連線
func (s *WebSocketManager) HandleConnection(conn *websocket.Conn, roomCode string, userID *uint) {
	defer func() {
		// 會話中的非預期錯誤不可拖垮整個行程
		if r := recover(); r != nil {
			s.logger.Error("websocket session panic", zap.Any("panic", r))
			s.writeDirect(conn, NewErrorEnvelope("內部錯誤"))
		}
		conn.Close()
	}()

	join, err := s.game.Join(roomCode, userID)
	if err != nil {
		s.writeDirect(conn, NewErrorEnvelope(err.Error()))
		return
	}

	client := &Client{
		Conn:       conn,
		RoomID:     join.Room.ID,
		PlayerID:   join.Player.ID,
		PlayerSide: join.Player.PlayerSide,
		UserID:     userID,
		SendChan:   make(chan *Envelope, 256), // 緩衝大小 256 的消息通道
	}

	s.registry.Register(client)

	// 確保連線關閉時清理資源
	defer func() {
		s.registry.Unregister(client)
		close(client.SendChan)
		s.afterDisconnect(client)
	}()

	go s.writePump(client)

	s.send(client, NewEnvelope(MsgTypeRoomJoined, RoomJoinedData{
		RoomCode:             join.Room.RoomCode,
		GameMode:             join.Room.GameMode,
		Status:               string(join.Room.Status),
		PlayerSide:           join.Player.PlayerSide,
		LightPlayerTime:      join.Room.LightPlayerTime,
		DarkPlayerTime:       join.Room.DarkPlayerTime,
		CurrentTurnStartedAt: join.Room.CurrentTurnStartedAt,
	}))

	// 第二條連線上線：房間內每條連線都收到 player_joined，
	// 各自帶「自己的對手」的顯示身份
	if s.registry.ConnectedCount(client.RoomID) == 2 {
		for _, c := range s.registry.RoomClients(client.RoomID) {
			opponent, err := s.game.OpponentOf(c.RoomID, c.PlayerID)
			if err != nil {
				s.logger.Warn("opponent lookup failed",
					zap.Uint("room_id", c.RoomID), zap.Error(err))
			}
			s.send(c, NewEnvelope(MsgTypePlayerJoined, PlayerJoinedData{
				RoomCode: join.Room.RoomCode,
				Status:   string(join.Room.Status),
				Opponent: opponent,
			}))
		}
	}

	s.readPump(client, join.Room.RoomCode)
}

// afterDisconnect 處理連線關閉後的持久化清理與離開廣播
func (s *WebSocketManager) afterDisconnect(client *Client) {
	res, err := s.game.Disconnect(client.RoomID, client.PlayerID)
	if err != nil {
		s.logger.Error("disconnect cleanup failed",
			zap.Uint("room_id", client.RoomID), zap.Error(err))
		return
	}
	if res.RoomDeleted {
		// 房間整個刪掉了，沒有人需要收到通知
		return
	}

	room, err := s.game.repos.Room.FindByID(client.RoomID)
	if err != nil {
		return
	}
	s.broadcast(client.RoomID, NewEnvelope(MsgTypePlayerLeft, PlayerLeftData{
		RoomCode: room.RoomCode,
	}), nil)
}

// readPump 持續監聽並處理從客戶端接收的消息
func (s *WebSocketManager) readPump(client *Client, roomCode string) {
	client.Conn.SetReadLimit(4096) // 設置最大消息大小為 4KB
	client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	client.Conn.SetPongHandler(func(string) error {
		client.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, raw, err := client.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				s.logger.Debug("websocket unexpected close", zap.Error(err))
			}
			return
		}

		msg, err := DecodeInbound(raw)
		if err != nil {
			// 協議錯誤只回覆 error 訊息，連線保持開啟
			s.send(client, NewErrorEnvelope(err.Error()))
			continue
		}

		s.dispatch(client, roomCode, msg)
	}
}

// dispatch 對入站訊息做窮舉分派
func (s *WebSocketManager) dispatch(client *Client, roomCode string, msg InboundMessage) {
	switch m := msg.(type) {
	case MoveMessage:
		s.handleMove(client, m)
	case RpsChoiceMessage:
		s.handleRpsChoice(client, m)
	case SurrenderMessage:
		// 純轉發給房間內「其他」連線
		s.broadcast(client.RoomID, NewEnvelope(MsgTypeSurrender, nil), client)
	case GameOverMessage:
		// 內容原封不動轉發給對手，結果如何認定由上層決定
		s.broadcast(client.RoomID, &Envelope{Type: MsgTypeGameOver, Data: m.Raw}, client)
	case HeartbeatMessage:
		// 保持連線用，靜默即是回應
	}
}

func (s *WebSocketManager) handleMove(client *Client, msg MoveMessage) {
	result, err := s.game.HandleMove(client.RoomID, client.PlayerID, msg.MoveNotation)
	if err != nil {
		s.send(client, NewErrorEnvelope(err.Error()))
		return
	}

	// 全房廣播（含出棋者本人）：雙方以伺服器的棋鐘與序號為準，
	// 出棋者自行去重本地預測的那一步
	s.broadcast(client.RoomID, NewEnvelope(MsgTypeMove, MoveData{
		MoveNotation:         result.Move.MoveNotation,
		PlayerID:             result.Move.PlayerID,
		MoveNumber:           result.Move.MoveNumber,
		LightPlayerTime:      result.Room.LightPlayerTime,
		DarkPlayerTime:       result.Room.DarkPlayerTime,
		CurrentTurnStartedAt: result.Room.CurrentTurnStartedAt,
	}), nil)

	// 另發較窄的 timer_update，給只關心棋鐘顯示的客戶端
	s.broadcast(client.RoomID, NewEnvelope(MsgTypeTimerUpdate, TimerUpdateData{
		LightPlayerTime:      result.Room.LightPlayerTime,
		DarkPlayerTime:       result.Room.DarkPlayerTime,
		CurrentTurnStartedAt: result.Room.CurrentTurnStartedAt,
	}), nil)
}

func (s *WebSocketManager) handleRpsChoice(client *Client, msg RpsChoiceMessage) {
	outcome, err := s.game.HandleRpsChoice(client.RoomID, client.PlayerID, msg.Choice)
	if err != nil {
		s.send(client, NewErrorEnvelope(err.Error()))
		return
	}

	if !outcome.Completed {
		// 只有一方出拳：私下回覆出拳者，不廣播
		s.send(client, NewEnvelope(MsgTypeRpsChoiceReceived, RpsChoiceReceivedData{
			WaitingForOpponent: true,
		}))
		return
	}

	s.broadcast(client.RoomID, NewEnvelope(MsgTypeRpsResult, RpsResultData{
		RoundNumber:   outcome.Round.RoundNumber,
		Player1Choice: outcome.Round.Player1Choice,
		Player2Choice: outcome.Round.Player2Choice,
		WinnerID:      outcome.Round.WinnerID,
	}), nil)
}

// writePump 處理向客戶端發送消息的邏輯
func (s *WebSocketManager) writePump(client *Client) {
	// 設置心跳檢查計時器
	ticker := time.NewTicker(54 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case message, ok := <-client.SendChan:
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				client.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			messageBytes, err := json.Marshal(message)
			if err != nil {
				s.logger.Error("message encoding error", zap.Error(err))
				continue
			}
			if err := client.Conn.WriteMessage(websocket.TextMessage, messageBytes); err != nil {
				return
			}

		case <-ticker.C:
			// 發送心跳包
			client.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := client.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// broadcast 向房間內的連線廣播訊息，exclude 非 nil 時跳過該連線
// 送達順序即註冊順序；單一連線的失敗被吞掉，不阻擋其他連線
func (s *WebSocketManager) broadcast(roomID uint, env *Envelope, exclude *Client) {
	for _, client := range s.registry.RoomClients(roomID) {
		if client == exclude {
			continue
		}
		s.send(client, env)
	}
}

// send 將訊息排入客戶端的發送隊列
// 隊列滿表示對端已停止消費，放棄這條訊息並關閉連線
func (s *WebSocketManager) send(client *Client, env *Envelope) {
	defer func() {
		// SendChan 可能在連線清理時已關閉
		_ = recover()
	}()
	select {
	case client.SendChan <- env:
	default:
		client.Conn.Close()
	}
}

// writeDirect 在客戶端尚未註冊前直接寫入連線，用於綁定失敗的回覆
func (s *WebSocketManager) writeDirect(conn *websocket.Conn, env *Envelope) {
	messageBytes, err := json.Marshal(env)
	if err != nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
	conn.WriteMessage(websocket.TextMessage, messageBytes)
}
