// internal/service/reputation/updater.go

package reputation

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"baro/internal/domain/reputation"
)

// maxRetries bounds the compare-and-swap retry loop. Contention on a single
// user's score is a handful of submissions at worst, so a small bound is
// plenty before reporting failure.
const maxRetries = 5

// MannerUpdater implements reputation.Updater. Updates for the same user are
// serialized by a per-user mutex; the store's compare-and-swap is the second
// line of defense when several process instances share one database.
type MannerUpdater struct {
	store reputation.Store

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewMannerUpdater creates a new manner temperature updater.
func NewMannerUpdater(store reputation.Store) *MannerUpdater {
	return &MannerUpdater{
		store: store,
		locks: make(map[string]*sync.Mutex),
	}
}

// ApplyRatings applies one submission's rating batch for one ratee and
// returns the new score. An empty batch returns the current score untouched.
func (u *MannerUpdater) ApplyRatings(ctx context.Context, userID string, ratings []int) (float64, error) {
	userLock := u.lockFor(userID)
	userLock.Lock()
	defer userLock.Unlock()

	if len(ratings) == 0 {
		current, _, err := u.store.GetScore(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("reading score for %s: %w", userID, err)
		}
		return current, nil
	}

	for attempt := 0; attempt < maxRetries; attempt++ {
		current, hadScore, err := u.store.GetScore(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("reading score for %s: %w", userID, err)
		}

		next := reputation.Apply(current, ratings)

		err = u.store.CompareAndSetScore(ctx, userID, current, next, hadScore)
		if errors.Is(err, reputation.ErrConflict) {
			log.Warn().
				Str("user_id", userID).
				Int("attempt", attempt+1).
				Msg("manner temperature update conflict, retrying")
			continue
		}
		if err != nil {
			return 0, fmt.Errorf("writing score for %s: %w", userID, err)
		}

		log.Info().
			Str("user_id", userID).
			Float64("previous", current).
			Float64("updated", next).
			Int("ratings", len(ratings)).
			Msg("manner temperature updated")

		return next, nil
	}

	return 0, fmt.Errorf("updating score for %s: retries exhausted", userID)
}

// lockFor returns the mutex guarding one user's read-modify-write cycle.
func (u *MannerUpdater) lockFor(userID string) *sync.Mutex {
	u.mu.Lock()
	defer u.mu.Unlock()

	l, ok := u.locks[userID]
	if !ok {
		l = &sync.Mutex{}
		u.locks[userID] = l
	}
	return l
}
