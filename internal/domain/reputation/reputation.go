// internal/domain/reputation/reputation.go

package reputation

import (
	"context"
	"errors"
	"math"
)

// Baseline is the manner temperature assigned to a user with no prior score.
const Baseline = 36.5

// Score bounds. Updates clamp into this range, they never wrap.
const (
	MinScore = 0.0
	MaxScore = 99.0
)

// Neutral is the star rating that leaves the score unchanged.
const Neutral = 3

// ErrConflict is returned by a Store when a compare-and-swap write lost a
// race with a concurrent update. Callers retry the read-modify-write cycle.
var ErrConflict = errors.New("reputation: concurrent update conflict")

// Apply computes the updated manner temperature from a batch of star
// ratings received in one feedback submission. An empty batch leaves the
// score unchanged. The delta is the average deviation from the neutral
// rating; the result is clamped to [0,99] and rounded to 1 decimal place.
func Apply(current float64, ratings []int) float64 {
	if len(ratings) == 0 {
		return current
	}

	n := len(ratings)
	total := 0
	for _, r := range ratings {
		total += r
	}

	delta := float64(total-Neutral*n) / float64(n)

	next := current + delta
	next = math.Max(MinScore, math.Min(MaxScore, next))

	return math.Round(next*10) / 10
}

// Store reads and writes a user's persisted manner temperature.
type Store interface {
	// GetScore returns the user's current score. When no score exists it
	// returns Baseline and false.
	GetScore(ctx context.Context, userID string) (float64, bool, error)

	// CompareAndSetScore writes next only if the stored value still equals
	// expected (or is still absent when hadScore is false). It returns
	// ErrConflict when the stored value changed underneath.
	CompareAndSetScore(ctx context.Context, userID string, expected, next float64, hadScore bool) error
}

// Updater applies rating batches to users' manner temperatures.
type Updater interface {
	// ApplyRatings applies one submission's ratings for one ratee and
	// returns the new score. Updates for the same user are serialized.
	ApplyRatings(ctx context.Context, userID string, ratings []int) (float64, error)
}
