package config

import (
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server ServerConfig
	DB     DBConfig
	JWT    JWTConfig
	Game   GameConfig
	Log    LogConfig
}

type ServerConfig struct {
	Address string
}

type DBConfig struct {
	Host     string
	User     string
	Password string
	Name     string
	Port     int
}

type JWTConfig struct {
	Secret string
}

// GameConfig 遊戲核心相關設定
type GameConfig struct {
	InitialClockSeconds int // 每方的初始棋鐘秒數
	MatchRetryDelayMs   int // 配對重試前的等待毫秒數
}

type LogConfig struct {
	Debug bool
}

// MatchRetryDelay 回傳配對重試的等待時間
func (c GameConfig) MatchRetryDelay() time.Duration {
	return time.Duration(c.MatchRetryDelayMs) * time.Millisecond
}

func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath("./pkg/config")
	viper.AutomaticEnv()

	// 預設值：找不到設定檔時仍可用環境變數啟動
	viper.SetDefault("server.address", ":8000")
	viper.SetDefault("db.host", "localhost")
	viper.SetDefault("db.port", 5432)
	viper.SetDefault("jwt.secret", "your_jwt_secret")
	viper.SetDefault("game.initialclockseconds", 600) // 10 分鐘
	viper.SetDefault("game.matchretrydelayms", 100)
	viper.SetDefault("log.debug", false)

	if err := viper.ReadInConfig(); err != nil {
		// 沒有設定檔不是致命錯誤，其餘讀取錯誤才回報
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
