// internal/adapter/storage/chat_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"baro/internal/domain/chat"
)

// ChatStore persists party chat messages.
type ChatStore struct {
	db *pgxpool.Pool
}

// NewChatStore creates a new chat store.
func NewChatStore(db *pgxpool.Pool) *ChatStore {
	return &ChatStore{
		db: db,
	}
}

// InsertMessage appends one message to a party's chat history.
func (s *ChatStore) InsertMessage(ctx context.Context, msg chat.Message) error {
	query := `
		INSERT INTO party_message (id, party_id, user_id, content, sent_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	if _, err := s.db.Exec(ctx, query, msg.ID, msg.PartyID, msg.UserID, msg.Content, msg.SentAt); err != nil {
		return fmt.Errorf("error inserting chat message: %w", err)
	}

	return nil
}

// RecentMessages returns a party's latest messages, oldest first.
func (s *ChatStore) RecentMessages(ctx context.Context, partyID string, limit int) ([]chat.Message, error) {
	query := `
		SELECT id, party_id, user_id, content, sent_at::text
		FROM (
			SELECT id, party_id, user_id, content, sent_at
			FROM party_message
			WHERE party_id = $1
			ORDER BY sent_at DESC
			LIMIT $2
		) latest
		ORDER BY sent_at ASC
	`

	rows, err := s.db.Query(ctx, query, partyID, limit)
	if err != nil {
		return nil, fmt.Errorf("error querying chat messages: %w", err)
	}
	defer rows.Close()

	var messages []chat.Message
	for rows.Next() {
		var msg chat.Message
		if err := rows.Scan(&msg.ID, &msg.PartyID, &msg.UserID, &msg.Content, &msg.SentAt); err != nil {
			return nil, fmt.Errorf("error scanning chat message: %w", err)
		}
		messages = append(messages, msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat messages: %w", err)
	}

	return messages, nil
}

// RoomSummaries returns the caller's chat rooms with their latest message,
// most recent first. Rooms follow party membership.
func (s *ChatStore) RoomSummaries(ctx context.Context, userID string) ([]chat.RoomSummary, error) {
	query := `
		SELECT p.id, p.title,
		       COALESCE(m.content, ''), COALESCE(m.sent_at::text, '')
		FROM party p
		JOIN party_member pm ON pm.party_id = p.id
		LEFT JOIN LATERAL (
			SELECT content, sent_at
			FROM party_message
			WHERE party_id = p.id
			ORDER BY sent_at DESC
			LIMIT 1
		) m ON true
		WHERE pm.user_id = $1 AND pm.status = 'joined'
		ORDER BY m.sent_at DESC NULLS LAST
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying chat rooms: %w", err)
	}
	defer rows.Close()

	var rooms []chat.RoomSummary
	for rows.Next() {
		var room chat.RoomSummary
		if err := rows.Scan(&room.PartyID, &room.Title, &room.LastMessage, &room.LastSentAt); err != nil {
			return nil, fmt.Errorf("error scanning chat room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating chat rooms: %w", err)
	}

	return rooms, nil
}
