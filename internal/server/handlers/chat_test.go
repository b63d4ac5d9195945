// internal/server/handlers/chat_test.go

package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"baro/internal/config"
)

// dialTestSocket returns the server side of a live websocket connection.
func dialTestSocket(t *testing.T) *websocket.Conn {
	t.Helper()

	conns := make(chan *websocket.Conn, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := chatUpgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade failed: %v", err)
			return
		}
		conns <- conn
	}))
	t.Cleanup(srv.Close)

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http")
	client, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	t.Cleanup(func() { client.Close() })

	select {
	case conn := <-conns:
		return conn
	case <-time.After(2 * time.Second):
		t.Fatal("no server-side connection")
		return nil
	}
}

func TestChatCloseStopsWritePumpPromptly(t *testing.T) {
	client := &chatClient{
		conn:    dialTestSocket(t),
		send:    make(chan []byte, 16),
		partyID: "p1",
		userID:  "u1",
		config:  config.ChatConfig{},
		done:    make(chan struct{}),
	}

	stopped := make(chan struct{})
	go func() {
		client.writePump()
		close(stopped)
	}()

	client.close()

	// The pump must exit on the done signal, not wait out a ping period.
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("writePump still running after close")
	}
}

func TestChatCloseIsIdempotent(t *testing.T) {
	client := &chatClient{
		conn: dialTestSocket(t),
		send: make(chan []byte, 1),
		done: make(chan struct{}),
	}

	client.close()
	client.close()

	select {
	case <-client.done:
	default:
		t.Fatal("done channel should be closed")
	}
}
