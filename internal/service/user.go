package service

import (
	"chess_web/internal/models"
	"chess_web/internal/repository"
)

// UserService 提供用戶顯示身份的查詢
// 帳號的建立與驗證由外部系統負責，遊戲核心只讀
type UserService struct {
	userRepo repository.UserRepository
}

func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	return s.userRepo.FindByID(id)
}

func (s *UserService) GetUserByUsername(username string) (*models.User, error) {
	return s.userRepo.FindByUsername(username)
}
