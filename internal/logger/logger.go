// Package logger 提供整個服務共用的結構化日誌
package logger

import (
	"go.uber.org/zap"
)

// New 建立 zap logger，debug 模式下使用開發用的彩色輸出
func New(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
