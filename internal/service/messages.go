package service

import (
	"encoding/json"
	"fmt"
	"time"

	"chess_web/internal/models"
)

// WebSocket 訊息一律是 {type, data} 的 JSON 信封。
// 入站訊息在傳輸層解碼一次成封閉的類型集合，
// 會話迴圈對類型做窮舉分派，新增訊息種類時由編譯器把關。

// Envelope 是 WebSocket 雙向共用的訊息信封
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data,omitempty"`
}

// 入站訊息類型
const (
	MsgTypeMove      = "move"
	MsgTypeRpsChoice = "rps_choice"
	MsgTypeSurrender = "surrender"
	MsgTypeGameOver  = "game_over"
	MsgTypeHeartbeat = "heartbeat"
)

// 出站訊息類型
const (
	MsgTypeRoomJoined        = "room_joined"
	MsgTypePlayerJoined      = "player_joined"
	MsgTypePlayerLeft        = "player_left"
	MsgTypeTimerUpdate       = "timer_update"
	MsgTypeRpsChoiceReceived = "rps_choice_received"
	MsgTypeRpsResult         = "rps_result"
	MsgTypeError             = "error"
)

// InboundMessage 是入站訊息的封閉集合
type InboundMessage interface {
	inbound()
}

// MoveMessage 下棋
type MoveMessage struct {
	MoveNotation string `json:"move_notation"`
}

// RpsChoiceMessage 猜拳出拳
type RpsChoiceMessage struct {
	Choice models.RpsChoice `json:"choice"`
}

// SurrenderMessage 投降，純轉發
type SurrenderMessage struct{}

// GameOverMessage 對局結束通知，data 原封不動轉發給對手
type GameOverMessage struct {
	Raw json.RawMessage
}

// HeartbeatMessage 保持連線，不需任何處理
type HeartbeatMessage struct{}

func (MoveMessage) inbound()      {}
func (RpsChoiceMessage) inbound() {}
func (SurrenderMessage) inbound() {}
func (GameOverMessage) inbound()  {}
func (HeartbeatMessage) inbound() {}

// DecodeInbound 將原始訊息解碼為具體的入站訊息
// 未知類型與缺漏欄位回傳錯誤，由呼叫端回覆 error 訊息，連線不中斷
func DecodeInbound(raw []byte) (InboundMessage, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("無法解析訊息: %w", err)
	}

	switch env.Type {
	case MsgTypeMove:
		var msg MoveMessage
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				return nil, fmt.Errorf("無法解析 move 訊息: %w", err)
			}
		}
		if msg.MoveNotation == "" {
			return nil, fmt.Errorf("move 訊息缺少 move_notation")
		}
		return msg, nil
	case MsgTypeRpsChoice:
		var msg RpsChoiceMessage
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &msg); err != nil {
				return nil, fmt.Errorf("無法解析 rps_choice 訊息: %w", err)
			}
		}
		if !models.ValidRpsChoice(msg.Choice) {
			return nil, ErrInvalidChoice
		}
		return msg, nil
	case MsgTypeSurrender:
		return SurrenderMessage{}, nil
	case MsgTypeGameOver:
		return GameOverMessage{Raw: env.Data}, nil
	case MsgTypeHeartbeat:
		return HeartbeatMessage{}, nil
	default:
		return nil, fmt.Errorf("未知的訊息類型: %q", env.Type)
	}
}

// NewEnvelope 組出站信封，data 編碼失敗時退化成 error 訊息
func NewEnvelope(msgType string, data interface{}) *Envelope {
	if data == nil {
		return &Envelope{Type: msgType}
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return NewErrorEnvelope("訊息編碼失敗")
	}
	return &Envelope{Type: msgType, Data: raw}
}

// NewErrorEnvelope 組 error 出站訊息
func NewErrorEnvelope(message string) *Envelope {
	raw, _ := json.Marshal(ErrorData{Message: message})
	return &Envelope{Type: MsgTypeError, Data: raw}
}

// 出站訊息的 data 結構

type RoomJoinedData struct {
	RoomCode             string     `json:"room_code"`
	GameMode             string     `json:"game_mode"`
	Status               string     `json:"status"`
	PlayerSide           string     `json:"player_side"`
	LightPlayerTime      int        `json:"light_player_time"`
	DarkPlayerTime       int        `json:"dark_player_time"`
	CurrentTurnStartedAt *time.Time `json:"current_turn_started_at"`
}

type PlayerJoinedData struct {
	RoomCode string        `json:"room_code"`
	Status   string        `json:"status"`
	Opponent *OpponentInfo `json:"opponent"` // 匿名對手為 null
}

// OpponentInfo 對手的顯示身份
type OpponentInfo struct {
	UserID     uint   `json:"user_id"`
	Name       string `json:"name"`
	AvatarIcon string `json:"avatar_icon"`
}

type PlayerLeftData struct {
	RoomCode string `json:"room_code"`
}

type MoveData struct {
	MoveNotation         string     `json:"move_notation"`
	PlayerID             uint       `json:"player_id"`
	MoveNumber           int        `json:"move_number"`
	LightPlayerTime      int        `json:"light_player_time"`
	DarkPlayerTime       int        `json:"dark_player_time"`
	CurrentTurnStartedAt *time.Time `json:"current_turn_started_at"`
}

type TimerUpdateData struct {
	LightPlayerTime      int        `json:"light_player_time"`
	DarkPlayerTime       int        `json:"dark_player_time"`
	CurrentTurnStartedAt *time.Time `json:"current_turn_started_at"`
}

type RpsChoiceReceivedData struct {
	WaitingForOpponent bool `json:"waiting_for_opponent"`
}

type RpsResultData struct {
	RoundNumber   int               `json:"round_number"`
	Player1Choice *models.RpsChoice `json:"player1_choice"`
	Player2Choice *models.RpsChoice `json:"player2_choice"`
	WinnerID      *uint             `json:"winner_id"` // null 表示平手
}

type ErrorData struct {
	Message string `json:"message"`
}
