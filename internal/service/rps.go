package service

import (
	"chess_web/internal/models"
)

// rpsBeats 回傳 a 是否勝過 b：石頭破剪刀、剪刀破布、布破石頭
func rpsBeats(a, b models.RpsChoice) bool {
	switch a {
	case models.RpsRock:
		return b == models.RpsScissors
	case models.RpsScissors:
		return b == models.RpsPaper
	case models.RpsPaper:
		return b == models.RpsRock
	}
	return false
}

// resolveRpsWinner 依雙方選擇計算勝者席位 id，平手回傳 nil
// 規則固定：player1 勝過 player2 則 player1 勝，否則 player2 勝；同拳平手
func resolveRpsWinner(round *models.RpsRound) *uint {
	c1, c2 := *round.Player1Choice, *round.Player2Choice
	if c1 == c2 {
		return nil
	}
	if rpsBeats(c1, c2) {
		id := round.Player1ID
		return &id
	}
	id := round.Player2ID
	return &id
}
