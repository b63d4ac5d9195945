// internal/server/handlers/chat.go

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"baro/internal/config"
	"baro/internal/domain/chat"
)

// ChatHandler handles chat room HTTP requests
type ChatHandler struct {
	store chat.Store
}

// NewChatHandler creates a new chat handler
func NewChatHandler(store chat.Store) *ChatHandler {
	return &ChatHandler{
		store: store,
	}
}

// GetRooms returns the caller's chat rooms with their latest message
func (h *ChatHandler) GetRooms(w http.ResponseWriter, r *http.Request) {
	userID := requestUserID(r)
	if userID == "" {
		respondWithError(w, http.StatusBadRequest, "Missing user ID", nil)
		return
	}

	rooms, err := h.store.RoomSummaries(r.Context(), userID)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "Failed to list chat rooms", err)
		return
	}

	respondWithJSON(w, http.StatusOK, rooms)
}

// chatClient is one connected party chat participant.
type chatClient struct {
	conn      *websocket.Conn
	send      chan []byte
	partyID   string
	userID    string
	subject   string
	natsConn  *nats.Conn
	store     chat.Store
	config    config.ChatConfig
	sub       *nats.Subscription
	done      chan struct{}
	closeOnce sync.Once
}

// chatSocketConfig contains timing limits for chat connections.
type chatSocketConfig struct {
	WriteWait      time.Duration
	PongWait       time.Duration
	PingPeriod     time.Duration
	MaxMessageSize int64
}

func defaultChatSocketConfig() chatSocketConfig {
	return chatSocketConfig{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     (60 * time.Second * 9) / 10,
		MaxMessageSize: 64 * 1024,
	}
}

var chatUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// PartyChatHandler upgrades the connection and relays party chat over NATS.
// Messages are persisted before fan-out so late joiners get history.
func PartyChatHandler(natsConn *nats.Conn, store chat.Store, cfg config.ChatConfig) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		partyID := chi.URLParam(r, "id")
		if partyID == "" {
			http.Error(w, "Missing party ID", http.StatusBadRequest)
			return
		}

		userID := requestUserID(r)
		if userID == "" {
			http.Error(w, "Missing user ID", http.StatusBadRequest)
			return
		}

		conn, err := chatUpgrader.Upgrade(w, r, nil)
		if err != nil {
			log.Error().Err(err).Msg("failed to upgrade to websocket")
			return
		}

		client := &chatClient{
			conn:     conn,
			send:     make(chan []byte, 256),
			partyID:  partyID,
			userID:   userID,
			subject:  fmt.Sprintf("%s.%s.chat", cfg.SubjectPrefix, partyID),
			natsConn: natsConn,
			store:    store,
			config:   cfg,
			done:     make(chan struct{}),
		}

		go client.writePump()
		go client.readPump()

		if err := client.subscribe(); err != nil {
			log.Error().Err(err).Str("party_id", partyID).Msg("failed to subscribe to chat subject")
			client.close()
			return
		}

		log.Info().
			Str("party_id", partyID).
			Str("user_id", userID).
			Msg("chat connection opened")

		client.sendHistory()
	}
}

// readPump pumps messages from the websocket connection to NATS.
func (c *chatClient) readPump() {
	socket := defaultChatSocketConfig()

	defer c.close()

	c.conn.SetReadLimit(socket.MaxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(socket.PongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(socket.PongWait))
		return nil
	})

	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Warn().Err(err).Str("party_id", c.partyID).Msg("websocket read error")
			}
			break
		}

		c.handleIncoming(message)
	}
}

// writePump pumps messages from NATS to the websocket connection.
func (c *chatClient) writePump() {
	socket := defaultChatSocketConfig()
	ticker := time.NewTicker(socket.PingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case <-c.done:
			return

		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(socket.WriteWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Drain queued messages into the same frame.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
			}

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(socket.WriteWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleIncoming validates, persists and relays one chat message.
func (c *chatClient) handleIncoming(raw []byte) {
	var incoming struct {
		Content string `json:"content"`
	}
	if err := json.Unmarshal(raw, &incoming); err != nil {
		log.Warn().Err(err).Msg("unparsable chat message dropped")
		return
	}

	content := strings.TrimSpace(incoming.Content)
	if content == "" {
		return
	}
	if c.config.MaxMessageLength > 0 && len(content) > c.config.MaxMessageLength {
		log.Warn().Str("party_id", c.partyID).Msg("oversized chat message dropped")
		return
	}

	msg := chat.Message{
		ID:      uuid.NewString(),
		PartyID: c.partyID,
		UserID:  c.userID,
		Content: content,
		SentAt:  time.Now().UTC().Format(time.RFC3339),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := c.store.InsertMessage(ctx, msg); err != nil {
		log.Error().Err(err).Str("party_id", c.partyID).Msg("failed to persist chat message")
		return
	}

	payload, _ := json.Marshal(msg)
	if err := c.natsConn.Publish(c.subject, payload); err != nil {
		log.Error().Err(err).Str("subject", c.subject).Msg("failed to publish chat message")
	}
}

// subscribe relays the party's NATS chat subject into the send channel.
func (c *chatClient) subscribe() error {
	sub, err := c.natsConn.Subscribe(c.subject, func(msg *nats.Msg) {
		c.send <- msg.Data
	})
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", c.subject, err)
	}
	c.sub = sub
	return nil
}

// sendHistory pushes the party's recent messages to the new client.
func (c *chatClient) sendHistory() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := c.store.RecentMessages(ctx, c.partyID, c.config.HistoryLimit)
	if err != nil {
		log.Error().Err(err).Str("party_id", c.partyID).Msg("failed to load chat history")
		return
	}

	history := map[string]interface{}{
		"type":     "history",
		"messages": messages,
	}

	payload, _ := json.Marshal(history)
	c.send <- payload
}

// close tears the connection down and releases the NATS subscription.
func (c *chatClient) close() {
	c.closeOnce.Do(func() {
		if c.sub != nil {
			c.sub.Unsubscribe()
		}
		// The send channel stays open; the done channel tells writePump
		// to exit without waiting for a failed write.
		close(c.done)
		c.conn.Close()

		log.Info().
			Str("party_id", c.partyID).
			Str("user_id", c.userID).
			Msg("chat connection closed")
	})
}
