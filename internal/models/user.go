package models

import (
	"gorm.io/gorm"
)

// User 表示系統中的用戶
// 遊戲核心只讀取顯示身份（名稱與頭像），帳號註冊與登入由外部系統負責
type User struct {
	gorm.Model         // 內嵌 gorm.Model，提供 ID、CreatedAt、UpdatedAt 和 DeletedAt 字段
	Username    string `gorm:"uniqueIndex;not null" json:"username"` // 用戶名，必須唯一
	ProfileName string `json:"profile_name"`                         // 顯示名稱
	AvatarIcon  string `json:"avatar_icon"`                          // 已裝備的頭像圖示
}

// DisplayName 回傳對手顯示用的名稱，未設定顯示名稱時退回用戶名
func (u *User) DisplayName() string {
	if u.ProfileName != "" {
		return u.ProfileName
	}
	return u.Username
}
