// internal/service/reputation/updater_test.go

package reputation

import (
	"context"
	"sync"
	"testing"

	"baro/internal/domain/reputation"
)

// fakeScoreStore is an in-memory Store with real compare-and-swap
// semantics, optionally failing the first write to simulate contention.
type fakeScoreStore struct {
	mu        sync.Mutex
	scores    map[string]float64
	conflicts int // number of writes to reject with ErrConflict
	reads     int
	writes    int
}

func newFakeScoreStore() *fakeScoreStore {
	return &fakeScoreStore{scores: make(map[string]float64)}
}

func (s *fakeScoreStore) GetScore(ctx context.Context, userID string) (float64, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads++
	score, ok := s.scores[userID]
	if !ok {
		return reputation.Baseline, false, nil
	}
	return score, true, nil
}

func (s *fakeScoreStore) CompareAndSetScore(ctx context.Context, userID string, expected, next float64, hadScore bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conflicts > 0 {
		s.conflicts--
		return reputation.ErrConflict
	}
	current, ok := s.scores[userID]
	if ok != hadScore || (ok && current != expected) {
		return reputation.ErrConflict
	}
	s.scores[userID] = next
	s.writes++
	return nil
}

func TestApplyRatingsFromBaseline(t *testing.T) {
	store := newFakeScoreStore()
	u := NewMannerUpdater(store)

	got, err := u.ApplyRatings(context.Background(), "user-1", []int{4, 4, 5, 3})
	if err != nil {
		t.Fatalf("ApplyRatings returned error: %v", err)
	}
	if got != 37.5 {
		t.Errorf("score = %v, want 37.5 (baseline 36.5 + 1.0)", got)
	}
}

func TestApplyRatingsEmptyBatchIsNoOp(t *testing.T) {
	store := newFakeScoreStore()
	store.scores["user-1"] = 42.0
	u := NewMannerUpdater(store)

	got, err := u.ApplyRatings(context.Background(), "user-1", nil)
	if err != nil {
		t.Fatalf("ApplyRatings returned error: %v", err)
	}
	if got != 42.0 {
		t.Errorf("score = %v, want unchanged 42.0", got)
	}
	if store.writes != 0 {
		t.Errorf("expected no writes for empty batch, got %d", store.writes)
	}
}

func TestApplyRatingsRetriesOnConflict(t *testing.T) {
	store := newFakeScoreStore()
	store.scores["user-1"] = 50.0
	store.conflicts = 2
	u := NewMannerUpdater(store)

	got, err := u.ApplyRatings(context.Background(), "user-1", []int{5, 5})
	if err != nil {
		t.Fatalf("ApplyRatings returned error after retries: %v", err)
	}
	if got != 52.0 {
		t.Errorf("score = %v, want 52.0", got)
	}
	if store.writes != 1 {
		t.Errorf("expected exactly one successful write, got %d", store.writes)
	}
}

func TestApplyRatingsGivesUpAfterMaxRetries(t *testing.T) {
	store := newFakeScoreStore()
	store.conflicts = maxRetries
	u := NewMannerUpdater(store)

	if _, err := u.ApplyRatings(context.Background(), "user-1", []int{5}); err == nil {
		t.Error("expected error once retries are exhausted")
	}
}

func TestApplyRatingsSerializesPerUser(t *testing.T) {
	store := newFakeScoreStore()
	u := NewMannerUpdater(store)

	// 20 concurrent batches of [4] each add +1; every delta must land
	// exactly once: 36.5 + 20 = 56.5.
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := u.ApplyRatings(context.Background(), "user-1", []int{4}); err != nil {
				t.Errorf("ApplyRatings returned error: %v", err)
			}
		}()
	}
	wg.Wait()

	final, _, err := store.GetScore(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("GetScore returned error: %v", err)
	}
	if final != 56.5 {
		t.Errorf("final score = %v, want 56.5 (no lost updates)", final)
	}
}

func TestApplyRatingsClampsAtBounds(t *testing.T) {
	store := newFakeScoreStore()
	store.scores["low"] = 0
	store.scores["high"] = 99
	u := NewMannerUpdater(store)

	if got, _ := u.ApplyRatings(context.Background(), "low", []int{1, 1, 1, 1}); got != 0 {
		t.Errorf("floor clamp: got %v, want 0", got)
	}
	if got, _ := u.ApplyRatings(context.Background(), "high", []int{5, 5, 5, 5}); got != 99 {
		t.Errorf("ceiling clamp: got %v, want 99", got)
	}
}
