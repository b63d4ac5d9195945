// internal/adapter/storage/feedback_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"baro/internal/domain/feedback"
)

// FeedbackStore implements the feedback.Store contract over the feedback
// and party membership tables.
type FeedbackStore struct {
	db *pgxpool.Pool
}

// NewFeedbackStore creates a new feedback store.
func NewFeedbackStore(db *pgxpool.Pool) *FeedbackStore {
	return &FeedbackStore{
		db: db,
	}
}

// IsMember reports whether the user has a joined membership row for the
// party.
func (s *FeedbackStore) IsMember(ctx context.Context, partyID, userID string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM party_member
			WHERE party_id = $1 AND user_id = $2 AND status = 'joined'
		)
	`

	var member bool
	if err := s.db.QueryRow(ctx, query, partyID, userID).Scan(&member); err != nil {
		return false, fmt.Errorf("error checking membership: %w", err)
	}
	return member, nil
}

// SubmittedPartyIDs returns the parties the user has already rated.
func (s *FeedbackStore) SubmittedPartyIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	query := `
		SELECT DISTINCT party_id
		FROM feedback
		WHERE from_user_id = $1
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying submitted feedback: %w", err)
	}
	defer rows.Close()

	submitted := make(map[string]struct{})
	for rows.Next() {
		var partyID string
		if err := rows.Scan(&partyID); err != nil {
			return nil, fmt.Errorf("error scanning feedback row: %w", err)
		}
		submitted[partyID] = struct{}{}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback rows: %w", err)
	}

	return submitted, nil
}

// UpsertEntries writes one row per (party, rater, ratee), replacing any
// previous submission for the same triple.
func (s *FeedbackStore) UpsertEntries(ctx context.Context, entries []feedback.Entry) error {
	if len(entries) == 0 {
		return nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	for _, e := range entries {
		_, err := tx.Exec(ctx, `
			INSERT INTO feedback (party_id, from_user_id, to_user_id, score, created_at)
			VALUES ($1, $2, $3, $4, now())
			ON CONFLICT (party_id, from_user_id, to_user_id) DO UPDATE
			SET score = $4, created_at = now()
		`, e.PartyID, e.FromUserID, e.ToUserID, e.Score)
		if err != nil {
			return fmt.Errorf("error upserting feedback: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing feedback: %w", err)
	}
	return nil
}

// MemberParties returns the parties the user has joined, with the fields
// the feedback window computation needs.
func (s *FeedbackStore) MemberParties(ctx context.Context, userID string) ([]feedback.PartyFeedback, error) {
	query := `
		SELECT p.id, COALESCE(p.title, ''), COALESCE(p.date::text, ''), COALESCE(p.end_at::text, '')
		FROM party p
		JOIN party_member m ON m.party_id = p.id
		WHERE m.user_id = $1
	`

	rows, err := s.db.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("error querying member parties: %w", err)
	}
	defer rows.Close()

	var parties []feedback.PartyFeedback
	for rows.Next() {
		var p feedback.PartyFeedback
		if err := rows.Scan(&p.PartyID, &p.Title, &p.Date, &p.EndAt); err != nil {
			return nil, fmt.Errorf("error scanning member party: %w", err)
		}
		parties = append(parties, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member parties: %w", err)
	}

	return parties, nil
}

// Cotargets returns the party's joined members excluding the given user,
// with their current manner temperature.
func (s *FeedbackStore) Cotargets(ctx context.Context, partyID, excludeUserID string) ([]feedback.Target, error) {
	query := `
		SELECT u.id, COALESCE(u.nickname, '알 수 없음'), u.sportsmanship
		FROM party_member m
		JOIN user_profile u ON u.id = m.user_id
		WHERE m.party_id = $1 AND m.user_id <> $2 AND m.status = 'joined'
	`

	rows, err := s.db.Query(ctx, query, partyID, excludeUserID)
	if err != nil {
		return nil, fmt.Errorf("error querying feedback targets: %w", err)
	}
	defer rows.Close()

	var targets []feedback.Target
	for rows.Next() {
		var t feedback.Target
		if err := rows.Scan(&t.UserID, &t.Nickname, &t.Sportsmanship); err != nil {
			return nil, fmt.Errorf("error scanning feedback target: %w", err)
		}
		targets = append(targets, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback targets: %w", err)
	}

	return targets, nil
}
