package service

import "errors"

// 遊戲核心對外的錯誤，handler 與 WebSocket 層據此決定回應方式
var (
	ErrInvalidGameMode = errors.New("無效的遊戲模式")
	ErrRoomNotFound    = errors.New("房間不存在")
	ErrRoomFull        = errors.New("房間已滿")
	ErrNotInRoom       = errors.New("連線尚未綁定席位")
	ErrRoomNotReady    = errors.New("房間人數不足，無法進行回合")
	ErrInvalidChoice   = errors.New("無效的出拳")
	ErrMatchFailed     = errors.New("配對失敗")
)
