package service

import (
	"testing"

	"github.com/gorilla/websocket"
)

func TestRegistryOrderAndCleanup(t *testing.T) {
	registry := NewConnectionRegistry()

	c1 := &Client{Conn: &websocket.Conn{}, RoomID: 1, PlayerID: 10}
	c2 := &Client{Conn: &websocket.Conn{}, RoomID: 1, PlayerID: 20}
	c3 := &Client{Conn: &websocket.Conn{}, RoomID: 2, PlayerID: 30}

	registry.Register(c1)
	registry.Register(c2)
	registry.Register(c3)

	// 廣播順序等於註冊順序
	clients := registry.RoomClients(1)
	if len(clients) != 2 || clients[0] != c1 || clients[1] != c2 {
		t.Fatalf("room 1 clients out of order: %v", clients)
	}
	if registry.ConnectedCount(1) != 2 {
		t.Fatalf("room 1 count = %d", registry.ConnectedCount(1))
	}
	if registry.ConnectedCount(2) != 1 {
		t.Fatalf("room 2 count = %d", registry.ConnectedCount(2))
	}
	if registry.Get(c1.Conn) != c1 {
		t.Fatal("Get should return the registered client")
	}

	registry.Unregister(c1)
	clients = registry.RoomClients(1)
	if len(clients) != 1 || clients[0] != c2 {
		t.Fatalf("room 1 after unregister: %v", clients)
	}

	registry.Unregister(c2)
	if registry.ConnectedCount(1) != 0 {
		t.Fatalf("room 1 should be empty")
	}

	// 快照是複本，修改不影響註冊表
	snapshot := registry.RoomClients(2)
	snapshot[0] = nil
	if registry.RoomClients(2)[0] != c3 {
		t.Fatal("snapshot mutation leaked into registry")
	}
}

func TestRegistrySnapshotUnknownRoom(t *testing.T) {
	registry := NewConnectionRegistry()
	if clients := registry.RoomClients(99); len(clients) != 0 {
		t.Fatalf("unknown room clients = %v", clients)
	}
	if registry.ConnectedCount(99) != 0 {
		t.Fatal("unknown room count should be 0")
	}
}
