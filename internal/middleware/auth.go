package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"chess_web/internal/utils"
)

// IdentityMiddleware 是一個 Gin 中間件，嘗試從請求中解析用戶身份
// 遊戲路由允許匿名遊玩，因此沒有 token 或 token 無效時不會中斷請求，
// 只是不在上下文中設置 userID
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			// WebSocket 無法自訂請求頭，改由 query string 帶 token
			token = c.Query("token")
		}
		if token == "" {
			c.Next()
			return
		}

		claims, err := utils.ParseToken(token)
		if err != nil {
			c.Next()
			return
		}

		// 將用戶信息設置到上下文中
		c.Set("userID", claims.UserID)
		c.Next()
	}
}

// bearerToken 從 Authorization 請求頭取出 Bearer token，格式不符時回傳空字串
func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// UserIDFromContext 取出中間件設置的用戶 ID，匿名請求回傳 nil
func UserIDFromContext(c *gin.Context) *uint {
	v, exists := c.Get("userID")
	if !exists {
		return nil
	}
	id, ok := v.(uint)
	if !ok {
		return nil
	}
	return &id
}
