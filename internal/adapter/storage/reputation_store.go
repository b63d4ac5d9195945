// internal/adapter/storage/reputation_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"baro/internal/domain/reputation"
)

// ReputationStore implements reputation.Store over the user profile table.
// The conditional UPDATE gives optimistic compare-and-swap semantics so
// concurrent updaters in separate processes cannot lose a batch.
type ReputationStore struct {
	db *pgxpool.Pool
}

// NewReputationStore creates a new reputation store.
func NewReputationStore(db *pgxpool.Pool) *ReputationStore {
	return &ReputationStore{
		db: db,
	}
}

// GetScore returns the user's current manner temperature. A NULL column or
// missing row yields the baseline and false.
func (s *ReputationStore) GetScore(ctx context.Context, userID string) (float64, bool, error) {
	query := `
		SELECT sportsmanship
		FROM user_profile
		WHERE id = $1
	`

	var score *float64
	err := s.db.QueryRow(ctx, query, userID).Scan(&score)
	if err == pgx.ErrNoRows {
		return reputation.Baseline, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("error reading score: %w", err)
	}
	if score == nil {
		return reputation.Baseline, false, nil
	}

	return *score, true, nil
}

// CompareAndSetScore writes next only if the stored value is unchanged
// since it was read. A zero-row update means another writer got there
// first; it is reported as a conflict for the caller to retry.
func (s *ReputationStore) CompareAndSetScore(ctx context.Context, userID string, expected, next float64, hadScore bool) error {
	query := `
		UPDATE user_profile
		SET sportsmanship = $3
		WHERE id = $1 AND sportsmanship = $2
	`
	args := []interface{}{userID, expected, next}

	if !hadScore {
		query = `
			UPDATE user_profile
			SET sportsmanship = $2
			WHERE id = $1 AND sportsmanship IS NULL
		`
		args = []interface{}{userID, next}
	}

	res, err := s.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("error writing score: %w", err)
	}
	if res.RowsAffected() == 0 {
		return reputation.ErrConflict
	}
	return nil
}
