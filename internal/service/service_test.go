package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"chess_web/internal/models"
	"chess_web/internal/repository"
	"chess_web/internal/storage"
)

// newTestRepos 建立綁在記憶體 sqlite 上的 repository 集合
// 限制連線池為單一連線，避免每條連線各拿到一個獨立的 :memory: 資料庫
func newTestRepos(t *testing.T) *repository.Repositories {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { sqlDB.Close() })

	if err := db.AutoMigrate(
		&models.User{},
		&models.GameRoom{},
		&models.GamePlayer{},
		&models.GameMove{},
		&models.RpsRound{},
	); err != nil {
		t.Fatalf("auto migrate: %v", err)
	}

	return repository.NewRepositories(&storage.PostgresDB{DB: db})
}

func newTestServices(t *testing.T) (*Services, *repository.Repositories) {
	t.Helper()
	repos := newTestRepos(t)
	services := NewServices(repos, zap.NewNop(), Options{
		InitialClockSeconds: 600,
		MatchRetryDelay:     0, // 測試不等待重試延遲
	})
	return services, repos
}

func uintPtr(v uint) *uint {
	return &v
}
