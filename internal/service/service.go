package service

import (
	"time"

	"go.uber.org/zap"

	"chess_web/internal/repository"
)

type Services struct {
	User             *UserService
	Room             *RoomService
	Game             *GameService
	WebSocketManager *WebSocketManager
}

// Options 集中服務層需要的設定值
type Options struct {
	InitialClockSeconds int
	MatchRetryDelay     time.Duration
}

func NewServices(repos *repository.Repositories, logger *zap.Logger, opts Options) *Services {
	registry := NewConnectionRegistry()

	userService := NewUserService(repos.User)
	roomService := NewRoomService(repos, logger, opts.InitialClockSeconds, opts.MatchRetryDelay)
	gameService := NewGameService(repos, logger)
	wsManager := NewWebSocketManager(registry, gameService, logger)

	return &Services{
		User:             userService,
		Room:             roomService,
		Game:             gameService,
		WebSocketManager: wsManager,
	}
}
