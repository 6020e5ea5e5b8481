package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// 列級鎖只在 postgres 上生效。測試使用的 sqlite 沒有 SELECT ... FOR UPDATE
// 語法，寫入在連線層級序列化，省略鎖定子句不影響行為。

// lockForUpdate 對查詢加上 FOR UPDATE 列鎖
func lockForUpdate(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() != "postgres" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE"})
}

// lockSkipLocked 對查詢加上 FOR UPDATE SKIP LOCKED：
// 已被其他交易鎖住的列直接跳過，不排隊等待
func lockSkipLocked(db *gorm.DB) *gorm.DB {
	if db.Dialector.Name() != "postgres" {
		return db
	}
	return db.Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"})
}
