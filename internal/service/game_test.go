package service

import (
	"testing"
	"time"

	"chess_web/internal/models"
	"chess_web/internal/repository"
)

func TestJoinAssignsSidesAndFlipsStatus(t *testing.T) {
	services, _ := newTestServices(t)

	room, err := services.Room.CreateRoom(models.GameModeClassical)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}

	first, err := services.Game.Join(room.RoomCode, uintPtr(7))
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	if first.Player.PlayerSide != models.SideLight {
		t.Fatalf("first side = %s, want light", first.Player.PlayerSide)
	}
	if !first.Player.IsConnected {
		t.Fatal("websocket join creates a connected slot")
	}
	if first.Reconnected {
		t.Fatal("fresh slot must not be flagged as reconnection")
	}
	if first.Room.Status != models.RoomStatusWaiting {
		t.Fatalf("status after one join = %s, want waiting", first.Room.Status)
	}

	second, err := services.Game.Join(room.RoomCode, nil)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	if second.Player.PlayerSide != models.SideDark {
		t.Fatalf("second side = %s, want dark", second.Player.PlayerSide)
	}
	if second.Room.Status != models.RoomStatusInProgress {
		t.Fatalf("status after two joins = %s, want in_progress", second.Room.Status)
	}

	if _, err := services.Game.Join(room.RoomCode, nil); err != ErrRoomFull {
		t.Fatalf("third join error = %v, want ErrRoomFull", err)
	}

	if _, err := services.Game.Join("MISSING1", nil); err != ErrRoomNotFound {
		t.Fatalf("missing room error = %v, want ErrRoomNotFound", err)
	}
}

// 配對預留的席位由先連上的人接走
func TestJoinClaimsReservedSlot(t *testing.T) {
	services, repos := newTestServices(t)

	room, err := services.Room.Matchmake(models.GameModeRps, uintPtr(1))
	if err != nil {
		t.Fatalf("matchmake: %v", err)
	}

	join, err := services.Game.Join(room.RoomCode, uintPtr(1))
	if err != nil {
		t.Fatalf("join: %v", err)
	}
	if !join.Reconnected {
		t.Fatal("joining a reserved slot counts as taking an existing seat")
	}
	if join.Player.PlayerSide != models.SideLight {
		t.Fatalf("side = %s, want the reserved light seat", join.Player.PlayerSide)
	}

	players, err := repos.Player.FindByRoom(room.ID)
	if err != nil {
		t.Fatalf("FindByRoom: %v", err)
	}
	if len(players) != 1 {
		t.Fatalf("players = %d, reserved slot must be reused not duplicated", len(players))
	}
	if !players[0].IsConnected {
		t.Fatal("slot should be marked connected after join")
	}
}

func TestJoinReconnectsLowestDisconnectedSlot(t *testing.T) {
	services, repos := newTestServices(t)

	room, first, second := setupActiveRoom(t, services, models.GameModeClassical)

	// 先讓 light 斷線；房間已 in_progress，不會被刪掉
	if _, err := services.Game.Disconnect(room.ID, first.ID); err != nil {
		t.Fatalf("disconnect: %v", err)
	}

	rejoin, err := services.Game.Join(room.RoomCode, nil)
	if err != nil {
		t.Fatalf("rejoin: %v", err)
	}
	if !rejoin.Reconnected {
		t.Fatal("expected reconnection to the vacated slot")
	}
	if rejoin.Player.ID != first.ID {
		t.Fatalf("rejoined slot %d, want lowest disconnected slot %d", rejoin.Player.ID, first.ID)
	}

	players, err := repos.Player.FindByRoom(room.ID)
	if err != nil {
		t.Fatalf("FindByRoom: %v", err)
	}
	if len(players) != 2 {
		t.Fatalf("players = %d, want 2", len(players))
	}
	_ = second
}

func TestDisconnectDeletesNeverFilledRoom(t *testing.T) {
	services, repos := newTestServices(t)

	room, err := services.Room.CreateRoom(models.GameModeRps)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	join, err := services.Game.Join(room.RoomCode, nil)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	res, err := services.Game.Disconnect(room.ID, join.Player.ID)
	if err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if !res.RoomDeleted {
		t.Fatal("waiting room with a single occupant must be deleted on disconnect")
	}

	if _, err := repos.Room.FindByID(room.ID); !repository.IsNotFound(err) {
		t.Fatalf("room still queryable after delete: %v", err)
	}
	players, err := repos.Player.FindByRoom(room.ID)
	if err != nil {
		t.Fatalf("FindByRoom: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("orphan players remain: %d", len(players))
	}
}

func TestDisconnectKeepsFilledRoom(t *testing.T) {
	services, repos := newTestServices(t)

	room, first, _ := setupActiveRoom(t, services, models.GameModeClassical)

	res, err := services.Game.Disconnect(room.ID, first.ID)
	if err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if res.RoomDeleted {
		t.Fatal("in-progress room must survive a single disconnect")
	}

	players, err := repos.Player.FindByRoom(room.ID)
	if err != nil {
		t.Fatalf("FindByRoom: %v", err)
	}
	for _, p := range players {
		if p.ID == first.ID && p.IsConnected {
			t.Fatal("departed slot should have is_connected=false")
		}
		if p.ID != first.ID && !p.IsConnected {
			t.Fatal("remaining slot should stay connected")
		}
	}
	if _, err := repos.Room.FindByID(room.ID); err != nil {
		t.Fatalf("room should remain fetchable: %v", err)
	}
}

func TestHandleMoveSequencesAndClock(t *testing.T) {
	services, repos := newTestServices(t)

	room, light, dark := setupActiveRoom(t, services, models.GameModeClassical)

	// 第一步：沒有回合開始時間，不扣時，只設新的回合起點
	res1, err := services.Game.HandleMove(room.ID, light.ID, "e2e4")
	if err != nil {
		t.Fatalf("first move: %v", err)
	}
	if res1.Move.MoveNumber != 1 {
		t.Fatalf("move number = %d, want 1", res1.Move.MoveNumber)
	}
	if res1.Room.LightPlayerTime != 600 || res1.Room.DarkPlayerTime != 600 {
		t.Fatalf("clocks after first move = %d/%d, want untouched", res1.Room.LightPlayerTime, res1.Room.DarkPlayerTime)
	}
	if res1.Room.CurrentTurnStartedAt == nil {
		t.Fatal("turn start must be set after a move")
	}

	// 把回合起點撥回 10 秒前，模擬 dark 思考了 10 秒
	past := time.Now().Add(-10 * time.Second)
	stored, err := repos.Room.FindByID(room.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	stored.CurrentTurnStartedAt = &past
	if err := repos.Room.Save(stored); err != nil {
		t.Fatalf("Save: %v", err)
	}

	res2, err := services.Game.HandleMove(room.ID, dark.ID, "e7e5")
	if err != nil {
		t.Fatalf("second move: %v", err)
	}
	if res2.Move.MoveNumber != 2 {
		t.Fatalf("move number = %d, want 2", res2.Move.MoveNumber)
	}
	// 流逝的時間由出棋方（dark）買單，light 不動
	if res2.Room.DarkPlayerTime > 591 || res2.Room.DarkPlayerTime < 589 {
		t.Fatalf("dark clock = %d, want ~590", res2.Room.DarkPlayerTime)
	}
	if res2.Room.LightPlayerTime != 600 {
		t.Fatalf("light clock = %d, a move must never touch the opponent's clock", res2.Room.LightPlayerTime)
	}
	if time.Since(*res2.Room.CurrentTurnStartedAt) > 5*time.Second {
		t.Fatal("turn start should be reset to now")
	}

	moves, err := repos.Move.FindByRoom(room.ID)
	if err != nil {
		t.Fatalf("FindByRoom: %v", err)
	}
	if len(moves) != 2 || moves[0].MoveNumber != 1 || moves[1].MoveNumber != 2 {
		t.Fatalf("move log corrupted: %+v", moves)
	}
}

func TestHandleMoveClampsClockAtZero(t *testing.T) {
	services, repos := newTestServices(t)

	room, light, _ := setupActiveRoom(t, services, models.GameModeClassical)

	stored, err := repos.Room.FindByID(room.ID)
	if err != nil {
		t.Fatalf("FindByID: %v", err)
	}
	past := time.Now().Add(-30 * time.Second)
	stored.CurrentTurnStartedAt = &past
	stored.LightPlayerTime = 5 // 剩 5 秒，卻流逝了 30 秒
	if err := repos.Room.Save(stored); err != nil {
		t.Fatalf("Save: %v", err)
	}

	res, err := services.Game.HandleMove(room.ID, light.ID, "g1f3")
	if err != nil {
		t.Fatalf("HandleMove: %v", err)
	}
	if res.Room.LightPlayerTime != 0 {
		t.Fatalf("light clock = %d, want clamped at 0", res.Room.LightPlayerTime)
	}
}

func TestHandleRpsRoundLifecycle(t *testing.T) {
	services, repos := newTestServices(t)

	room, p1, p2 := setupActiveRoom(t, services, models.GameModeRps)

	// 第一拳：只建回合、存選擇、等待對手
	out1, err := services.Game.HandleRpsChoice(room.ID, p1.ID, models.RpsRock)
	if err != nil {
		t.Fatalf("first choice: %v", err)
	}
	if out1.Completed {
		t.Fatal("round must stay open with a single choice")
	}
	if out1.Round.RoundNumber != 1 {
		t.Fatalf("round number = %d, want 1", out1.Round.RoundNumber)
	}

	// 第二拳：回合定案，石頭勝剪刀
	out2, err := services.Game.HandleRpsChoice(room.ID, p2.ID, models.RpsScissors)
	if err != nil {
		t.Fatalf("second choice: %v", err)
	}
	if !out2.Completed {
		t.Fatal("round must complete once both choices are in")
	}
	if out2.Round.WinnerID == nil || *out2.Round.WinnerID != p1.ID {
		t.Fatalf("winner = %v, want rock slot %d", out2.Round.WinnerID, p1.ID)
	}
	if out2.Round.CompletedAt == nil {
		t.Fatal("completed round needs a completion timestamp")
	}

	// 下一拳開新回合
	out3, err := services.Game.HandleRpsChoice(room.ID, p2.ID, models.RpsPaper)
	if err != nil {
		t.Fatalf("third choice: %v", err)
	}
	if out3.Round.RoundNumber != 2 {
		t.Fatalf("round number = %d, want 2", out3.Round.RoundNumber)
	}
	if out3.Completed {
		t.Fatal("fresh round must stay open")
	}

	// 平手：winner 維持 null 但回合定案
	out4, err := services.Game.HandleRpsChoice(room.ID, p1.ID, models.RpsPaper)
	if err != nil {
		t.Fatalf("fourth choice: %v", err)
	}
	if !out4.Completed {
		t.Fatal("tie still completes the round")
	}
	if out4.Round.WinnerID != nil {
		t.Fatalf("tie winner = %v, want null", out4.Round.WinnerID)
	}

	rounds, err := repos.RpsRound.FindByRoom(room.ID)
	if err != nil {
		t.Fatalf("FindByRoom: %v", err)
	}
	if len(rounds) != 2 {
		t.Fatalf("rounds = %d, want 2", len(rounds))
	}
}

func TestHandleRpsChoiceRequiresTwoSlots(t *testing.T) {
	services, _ := newTestServices(t)

	room, err := services.Room.CreateRoom(models.GameModeRps)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	join, err := services.Game.Join(room.RoomCode, nil)
	if err != nil {
		t.Fatalf("join: %v", err)
	}

	if _, err := services.Game.HandleRpsChoice(room.ID, join.Player.ID, models.RpsRock); err != ErrRoomNotReady {
		t.Fatalf("error = %v, want ErrRoomNotReady", err)
	}
}

func TestOpponentOf(t *testing.T) {
	services, repos := newTestServices(t)

	user := &models.User{Username: "kasparov", ProfileName: "Garry", AvatarIcon: "knight.png"}
	if err := repos.User.Create(user); err != nil {
		t.Fatalf("create user: %v", err)
	}

	room, err := services.Room.CreateRoom(models.GameModeClassical)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	first, err := services.Game.Join(room.RoomCode, uintPtr(user.ID))
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	second, err := services.Game.Join(room.RoomCode, nil)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}

	// 匿名方看到的是註冊用戶的顯示身份
	opponent, err := services.Game.OpponentOf(room.ID, second.Player.ID)
	if err != nil {
		t.Fatalf("OpponentOf: %v", err)
	}
	if opponent == nil || opponent.Name != "Garry" || opponent.AvatarIcon != "knight.png" {
		t.Fatalf("opponent = %+v", opponent)
	}

	// 對手匿名時回傳 nil
	opponent, err = services.Game.OpponentOf(room.ID, first.Player.ID)
	if err != nil {
		t.Fatalf("OpponentOf: %v", err)
	}
	if opponent != nil {
		t.Fatalf("anonymous opponent = %+v, want nil", opponent)
	}
}

// setupActiveRoom 建房並讓兩個玩家透過 WebSocket 路徑入座
func setupActiveRoom(t *testing.T, services *Services, mode string) (*models.GameRoom, *models.GamePlayer, *models.GamePlayer) {
	t.Helper()

	room, err := services.Room.CreateRoom(mode)
	if err != nil {
		t.Fatalf("CreateRoom: %v", err)
	}
	first, err := services.Game.Join(room.RoomCode, nil)
	if err != nil {
		t.Fatalf("first join: %v", err)
	}
	second, err := services.Game.Join(room.RoomCode, nil)
	if err != nil {
		t.Fatalf("second join: %v", err)
	}
	return second.Room, first.Player, second.Player
}
