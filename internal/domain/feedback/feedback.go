// internal/domain/feedback/feedback.go

package feedback

import "context"

// Status of a party's feedback window for one user.
type Status string

const (
	StatusAvailable Status = "available"
	StatusSubmitted Status = "submitted"
	StatusExpired   Status = "expired"
)

// WindowDays is how long after a party ends its members can rate each other.
const WindowDays = 2

// PartyFeedback is one of the caller's parties annotated with its feedback
// window status.
type PartyFeedback struct {
	PartyID string `json:"partyId"`
	Title   string `json:"title"`
	Date    string `json:"date"`
	EndAt   string `json:"endAt"`
	Status  Status `json:"feedbackStatus"`
}

// Target is a co-member the caller can rate, with their current manner
// temperature.
type Target struct {
	UserID        string   `json:"userId"`
	Nickname      string   `json:"nickname"`
	Sportsmanship *float64 `json:"sportsmanship"`
}

// MemberRating is one star rating for one ratee.
type MemberRating struct {
	UserID string `json:"user_id"`
	Rating int    `json:"rating"`
}

// SubmitRequest is one rater's ratings for the members of one party.
type SubmitRequest struct {
	PartyID string         `json:"party_id"`
	Ratings []MemberRating `json:"ratings"`
}

// Entry is one persisted feedback row.
type Entry struct {
	PartyID    string
	FromUserID string
	ToUserID   string
	Score      int
}

// Service exposes the feedback flow: listing rateable parties, listing
// targets, and submitting a batch of ratings.
type Service interface {
	MyParties(ctx context.Context, userID string) ([]PartyFeedback, error)
	Targets(ctx context.Context, partyID, userID string) ([]Target, error)
	Submit(ctx context.Context, partyID, userID string, req SubmitRequest) error
}

// Store persists feedback rows and answers membership questions.
type Store interface {
	// IsMember reports whether the user belongs to the party.
	IsMember(ctx context.Context, partyID, userID string) (bool, error)

	// SubmittedPartyIDs returns the parties the user has already rated.
	SubmittedPartyIDs(ctx context.Context, userID string) (map[string]struct{}, error)

	// UpsertEntries writes one row per (party, rater, ratee), replacing any
	// previous submission for the same triple.
	UpsertEntries(ctx context.Context, entries []Entry) error

	// MemberParties returns the parties the user has joined, with title and
	// end time for window computation.
	MemberParties(ctx context.Context, userID string) ([]PartyFeedback, error)

	// Cotargets returns the party's members excluding the given user.
	Cotargets(ctx context.Context, partyID, excludeUserID string) ([]Target, error)
}
