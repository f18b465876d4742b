package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/wricardo/sokoban/game/engine"
)

func newTestClient(hub *Hub, sessionID string) *Client {
	return &Client{
		hub:       hub,
		sessionID: sessionID,
		send:      make(chan []byte, 256),
	}
}

func TestNewHub(t *testing.T) {
	hub := NewHub()

	if hub.sessions == nil {
		t.Error("Hub sessions map is nil")
	}
	if hub.broadcast == nil || hub.register == nil || hub.unregister == nil {
		t.Error("Hub channels not initialized")
	}
}

func TestHubRegisterClient(t *testing.T) {
	hub := NewHub()
	client1 := newTestClient(hub, "test-session")
	client2 := newTestClient(hub, "test-session")

	hub.registerClient(client1)
	hub.registerClient(client2)
	if len(hub.sessions["test-session"]) != 2 {
		t.Errorf("Expected 2 clients in session, got %d", len(hub.sessions["test-session"]))
	}

	hub.unregisterClient(client1)
	if !hub.sessions["test-session"][client2] {
		t.Error("client2 should still be registered")
	}

	hub.unregisterClient(client2)
	if _, exists := hub.sessions["test-session"]; exists {
		t.Error("Session should have been cleaned up after last client unregistered")
	}

	// Channel was closed on unregister
	if _, ok := <-client1.send; ok {
		t.Error("Expected client send channel to be closed")
	}
}

func TestHubBroadcastMessage(t *testing.T) {
	hub := NewHub()
	client := newTestClient(hub, "abcd")
	other := newTestClient(hub, "efgh")
	hub.registerClient(client)
	hub.registerClient(other)

	tests := []struct {
		name  string
		state *engine.GameState
		event string
	}{
		{"in progress", &engine.GameState{PlayerPos: engine.Position{X: 5, Y: 3}, Moves: 4}, EventStateUpdate},
		{"solved", &engine.GameState{PlayerPos: engine.Position{X: 5, Y: 3}, Won: true}, EventLevelComplete},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub.BroadcastToSession("abcd", tt.state)
			hub.broadcastMessage(<-hub.broadcast)

			select {
			case data := <-client.send:
				var message Message
				if err := json.Unmarshal(data, &message); err != nil {
					t.Fatalf("Failed to unmarshal message: %v", err)
				}
				if message.SessionID != "abcd" {
					t.Errorf("Expected session abcd, got %s", message.SessionID)
				}
				if message.Event != tt.event {
					t.Errorf("Expected event %q, got %q", tt.event, message.Event)
				}
				if message.GameState.PlayerPos.X != 5 || message.GameState.PlayerPos.Y != 3 {
					t.Error("GameState not correctly transmitted")
				}
			case <-time.After(100 * time.Millisecond):
				t.Fatal("No message received within timeout")
			}

			if len(other.send) != 0 {
				t.Error("Other sessions should not receive the broadcast")
			}
		})
	}
}

func TestHubBroadcastEvent(t *testing.T) {
	hub := NewHub()
	hub.BroadcastEvent("event-test", "custom-event", "test-data")

	select {
	case message := <-hub.broadcast:
		if message.SessionID != "event-test" || message.Event != "custom-event" {
			t.Errorf("Unexpected message: %+v", message)
		}
		if message.Data != "test-data" {
			t.Errorf("Expected data 'test-data', got %v", message.Data)
		}
	case <-time.After(100 * time.Millisecond):
		t.Error("No broadcast message queued")
	}
}

func startTestServer(t *testing.T, hub *Hub) string {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go hub.Run(ctx)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hub.ServeWS(w, r, r.URL.Query().Get("session"))
	}))
	t.Cleanup(server.Close)

	return "ws" + strings.TrimPrefix(server.URL, "http")
}

func waitForClients(t *testing.T, hub *Hub, sessionID string, want int) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if hub.ClientCount(sessionID) == want {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Expected %d clients in session %s, got %d", want, sessionID, hub.ClientCount(sessionID))
}

func TestWebSocketLifecycle(t *testing.T) {
	hub := NewHub()
	wsURL := startTestServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=ws01", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	waitForClients(t, hub, "ws01", 1)

	hub.BroadcastToSession("ws01", &engine.GameState{PlayerPos: engine.Position{X: 10, Y: 15}, Pushes: 2})

	conn.SetReadDeadline(time.Now().Add(time.Second))
	_, data, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("Failed to read WebSocket message: %v", err)
	}

	var message Message
	if err := json.Unmarshal(data, &message); err != nil {
		t.Fatalf("Failed to unmarshal message: %v", err)
	}
	if message.GameState.PlayerPos.X != 10 || message.GameState.Pushes != 2 {
		t.Errorf("GameState not correctly received: %+v", message.GameState)
	}

	conn.Close()
	waitForClients(t, hub, "ws01", 0)
}

func TestWebSocketInput(t *testing.T) {
	hub := NewHub()
	received := make(chan InputMessage, 1)
	hub.SetInputHandler(func(sessionID string, msg InputMessage) {
		if sessionID != "ws02" {
			t.Errorf("Expected session ws02, got %s", sessionID)
		}
		received <- msg
	})
	wsURL := startTestServer(t, hub)

	conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?session=ws02", nil)
	if err != nil {
		t.Fatalf("Failed to connect to WebSocket: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteJSON(InputMessage{Type: "key", Key: "ArrowLeft"}); err != nil {
		t.Fatalf("Failed to send input: %v", err)
	}

	select {
	case msg := <-received:
		if msg.Type != "key" || msg.Key != "ArrowLeft" {
			t.Errorf("Unexpected input: %+v", msg)
		}
	case <-time.After(time.Second):
		t.Fatal("Input handler was not called")
	}

	// Garbage input is answered with an error event
	conn.WriteMessage(websocket.TextMessage, []byte("not json"))
	conn.SetReadDeadline(time.Now().Add(time.Second))
	var reply Message
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("Failed to read error event: %v", err)
	}
	if reply.Event != EventError {
		t.Errorf("Expected error event, got %q", reply.Event)
	}
}
