package service

import (
	"sync"

	"github.com/gorilla/websocket"
)

// Client 代表一個已綁定房間席位的 WebSocket 客戶端連線
type Client struct {
	Conn       *websocket.Conn // WebSocket 連接
	RoomID     uint            // 房間 ID
	PlayerID   uint            // 席位 ID
	PlayerSide string          // light / dark
	UserID     *uint           // 匿名玩家為 nil
	SendChan   chan *Envelope  // 消息發送通道，用於異步傳送消息
}

// ConnectionRegistry 是行程內「誰正在線上」的唯一權威來源
// 它與資料庫的 is_connected 標記是兩個生命週期不同的狀態：
// 註冊表回答「這個 socket 現在活著嗎」，持久化標記讓重啟後的行程
// 知道哪個席位可以被重新接上。註冊表不做任何持久化，行程重啟即重建
//
// 所有狀態都收在這個結構裡，由建構時的一把鎖保護，不使用套件層級全域變數
type ConnectionRegistry struct {
	mu      sync.RWMutex
	clients map[*websocket.Conn]*Client // conn -> client
	rooms   map[uint][]*Client          // roomID -> 依註冊順序排列的客戶端
}

func NewConnectionRegistry() *ConnectionRegistry {
	return &ConnectionRegistry{
		clients: make(map[*websocket.Conn]*Client),
		rooms:   make(map[uint][]*Client),
	}
}

// Register 將客戶端加入註冊表，同房間的廣播順序即註冊順序
func (r *ConnectionRegistry) Register(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.clients[client.Conn] = client
	r.rooms[client.RoomID] = append(r.rooms[client.RoomID], client)
}

// Unregister 將客戶端移出註冊表，房間空了就移除房間項目
func (r *ConnectionRegistry) Unregister(client *Client) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.clients, client.Conn)

	clients := r.rooms[client.RoomID]
	for i, c := range clients {
		if c == client {
			r.rooms[client.RoomID] = append(clients[:i], clients[i+1:]...)
			break
		}
	}
	if len(r.rooms[client.RoomID]) == 0 {
		delete(r.rooms, client.RoomID)
	}
}

// Get 依連線查客戶端，未註冊回傳 nil
func (r *ConnectionRegistry) Get(conn *websocket.Conn) *Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.clients[conn]
}

// RoomClients 回傳房間內客戶端的快照，依註冊順序排列
// 回傳複本，呼叫端遍歷時不需要持有註冊表的鎖
func (r *ConnectionRegistry) RoomClients(roomID uint) []*Client {
	r.mu.RLock()
	defer r.mu.RUnlock()

	clients := r.rooms[roomID]
	snapshot := make([]*Client, len(clients))
	copy(snapshot, clients)
	return snapshot
}

// ConnectedCount 回傳房間目前在線的連線數
func (r *ConnectionRegistry) ConnectedCount(roomID uint) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rooms[roomID])
}
