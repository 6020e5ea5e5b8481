// Package middleware 提供了 HTTP 請求處理的中間件。
//
// 這個包包含了各種中間件函數，用於在 HTTP 請求處理過程中執行額外的操作。
// 遊戲路由使用的身份中間件是「盡力而為」的：有合法 token 就附上用戶身份，
// 沒有也放行，因為核心允許匿名遊玩。
package middleware
