// internal/domain/chat/chat.go

package chat

import "context"

// Message is one persisted party chat message.
type Message struct {
	ID      string `json:"id"`
	PartyID string `json:"partyId"`
	UserID  string `json:"userId"`
	Content string `json:"content"`
	SentAt  string `json:"sentAt"`
}

// RoomSummary is one chat room of the caller with its latest message.
type RoomSummary struct {
	PartyID     string `json:"partyId"`
	Title       string `json:"title"`
	LastMessage string `json:"lastMessage"`
	LastSentAt  string `json:"lastSentAt"`
}

// Store persists chat messages and answers room queries.
type Store interface {
	// InsertMessage appends one message to a party's chat history.
	InsertMessage(ctx context.Context, msg Message) error

	// RecentMessages returns a party's latest messages, oldest first,
	// at most limit entries.
	RecentMessages(ctx context.Context, partyID string, limit int) ([]Message, error)

	// RoomSummaries returns the caller's chat rooms with their latest
	// message, most recent first.
	RoomSummaries(ctx context.Context, userID string) ([]RoomSummary, error)
}
