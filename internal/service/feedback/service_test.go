// internal/service/feedback/service_test.go

package feedback

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"baro/internal/domain/feedback"
)

type fakeFeedbackStore struct {
	members   map[string]map[string]bool // partyID -> userID -> member
	submitted map[string]map[string]struct{}
	parties   map[string][]feedback.PartyFeedback // userID -> parties
	targets   map[string][]feedback.Target
	entries   []feedback.Entry
}

func newFakeFeedbackStore() *fakeFeedbackStore {
	return &fakeFeedbackStore{
		members:   make(map[string]map[string]bool),
		submitted: make(map[string]map[string]struct{}),
		parties:   make(map[string][]feedback.PartyFeedback),
		targets:   make(map[string][]feedback.Target),
	}
}

func (s *fakeFeedbackStore) IsMember(ctx context.Context, partyID, userID string) (bool, error) {
	return s.members[partyID][userID], nil
}

func (s *fakeFeedbackStore) SubmittedPartyIDs(ctx context.Context, userID string) (map[string]struct{}, error) {
	ids := s.submitted[userID]
	if ids == nil {
		ids = map[string]struct{}{}
	}
	return ids, nil
}

func (s *fakeFeedbackStore) UpsertEntries(ctx context.Context, entries []feedback.Entry) error {
	s.entries = append(s.entries, entries...)
	return nil
}

func (s *fakeFeedbackStore) MemberParties(ctx context.Context, userID string) ([]feedback.PartyFeedback, error) {
	return s.parties[userID], nil
}

func (s *fakeFeedbackStore) Cotargets(ctx context.Context, partyID, excludeUserID string) ([]feedback.Target, error) {
	var out []feedback.Target
	for _, t := range s.targets[partyID] {
		if t.UserID != excludeUserID {
			out = append(out, t)
		}
	}
	return out, nil
}

type recordingUpdater struct {
	applied map[string][]int
	err     error
}

func (u *recordingUpdater) ApplyRatings(ctx context.Context, userID string, ratings []int) (float64, error) {
	if u.err != nil {
		return 0, u.err
	}
	if u.applied == nil {
		u.applied = make(map[string][]int)
	}
	u.applied[userID] = append(u.applied[userID], ratings...)
	return 0, nil
}

var testNow = time.Date(2025, 12, 14, 12, 0, 0, 0, time.UTC)

func newTestService(store feedback.Store, updater *recordingUpdater) *RatingService {
	return NewRatingService(store, updater, nil, clockwork.NewFakeClockAt(testNow), Config{})
}

func TestMyPartiesStatuses(t *testing.T) {
	store := newFakeFeedbackStore()
	store.parties["me"] = []feedback.PartyFeedback{
		{PartyID: "p-open", Title: "어제 끝남", EndAt: "2025-12-13T18:00:00Z"},
		{PartyID: "p-old", Title: "지난주", EndAt: "2025-12-01T18:00:00Z"},
		{PartyID: "p-done", Title: "평가 완료", EndAt: "2025-12-13T10:00:00Z"},
		{PartyID: "p-future", Title: "아직 안 끝남", EndAt: "2025-12-20T18:00:00Z"},
		{PartyID: "p-bad", Title: "시간 깨짐", EndAt: "???"},
	}
	store.submitted["me"] = map[string]struct{}{"p-done": {}}

	s := newTestService(store, &recordingUpdater{})

	got, err := s.MyParties(context.Background(), "me")
	if err != nil {
		t.Fatalf("MyParties returned error: %v", err)
	}

	statuses := map[string]feedback.Status{}
	for _, p := range got {
		statuses[p.PartyID] = p.Status
	}

	want := map[string]feedback.Status{
		"p-open":   feedback.StatusAvailable, // ended 18h ago, inside 2-day window
		"p-old":    feedback.StatusExpired,
		"p-done":   feedback.StatusSubmitted,
		"p-future": feedback.StatusExpired, // not ended yet
		"p-bad":    feedback.StatusExpired,
	}
	for id, ws := range want {
		if statuses[id] != ws {
			t.Errorf("party %s status = %s, want %s", id, statuses[id], ws)
		}
	}

	// Sorted by end time descending.
	if got[0].PartyID != "p-future" {
		t.Errorf("first party = %s, want p-future (latest end time)", got[0].PartyID)
	}
}

func TestTargetsExcludeCaller(t *testing.T) {
	store := newFakeFeedbackStore()
	score := 40.5
	store.targets["p1"] = []feedback.Target{
		{UserID: "me"},
		{UserID: "other", Nickname: "상대", Sportsmanship: &score},
	}

	s := newTestService(store, &recordingUpdater{})

	got, err := s.Targets(context.Background(), "p1", "me")
	if err != nil {
		t.Fatalf("Targets returned error: %v", err)
	}
	if len(got) != 1 || got[0].UserID != "other" {
		t.Errorf("expected only the co-member, got %+v", got)
	}
}

func TestSubmitGroupsRatingsPerRatee(t *testing.T) {
	store := newFakeFeedbackStore()
	store.members["p1"] = map[string]bool{"me": true}
	updater := &recordingUpdater{}

	s := newTestService(store, updater)

	err := s.Submit(context.Background(), "p1", "me", feedback.SubmitRequest{
		Ratings: []feedback.MemberRating{
			{UserID: "a", Rating: 4},
			{UserID: "b", Rating: 5},
			{UserID: "a", Rating: 3},
		},
	})
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}

	if len(store.entries) != 3 {
		t.Errorf("expected 3 persisted entries, got %d", len(store.entries))
	}
	if got := updater.applied["a"]; len(got) != 2 || got[0] != 4 || got[1] != 3 {
		t.Errorf("ratee a batch = %v, want [4 3]", got)
	}
	if got := updater.applied["b"]; len(got) != 1 || got[0] != 5 {
		t.Errorf("ratee b batch = %v, want [5]", got)
	}
}

func TestSubmitRejectsNonMember(t *testing.T) {
	store := newFakeFeedbackStore()
	s := newTestService(store, &recordingUpdater{})

	err := s.Submit(context.Background(), "p1", "stranger", feedback.SubmitRequest{
		Ratings: []feedback.MemberRating{{UserID: "a", Rating: 4}},
	})
	if !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
	if len(store.entries) != 0 {
		t.Error("no entries should be persisted for a non-member")
	}
}

func TestSubmitRejectsMismatchedPartyID(t *testing.T) {
	s := newTestService(newFakeFeedbackStore(), &recordingUpdater{})

	err := s.Submit(context.Background(), "p1", "me", feedback.SubmitRequest{
		PartyID: "p2",
		Ratings: []feedback.MemberRating{{UserID: "a", Rating: 4}},
	})
	if !errors.Is(err, ErrPartyMismatch) {
		t.Errorf("expected ErrPartyMismatch, got %v", err)
	}
}

func TestSubmitEmptyBatchIsNoOp(t *testing.T) {
	store := newFakeFeedbackStore()
	updater := &recordingUpdater{err: errors.New("must not be called")}
	s := newTestService(store, updater)

	if err := s.Submit(context.Background(), "p1", "me", feedback.SubmitRequest{}); err != nil {
		t.Errorf("empty submission should succeed as a no-op, got %v", err)
	}
}

func TestMyPartiesHonorsConfiguredWindow(t *testing.T) {
	store := newFakeFeedbackStore()
	// Ended 3 days before testNow: outside the stock 2-day window.
	store.parties["me"] = []feedback.PartyFeedback{
		{PartyID: "p1", EndAt: "2025-12-11T12:00:00Z"},
	}

	s := NewRatingService(store, &recordingUpdater{}, nil,
		clockwork.NewFakeClockAt(testNow), Config{WindowDays: 5})

	got, err := s.MyParties(context.Background(), "me")
	if err != nil {
		t.Fatalf("MyParties returned error: %v", err)
	}
	if got[0].Status != feedback.StatusAvailable {
		t.Errorf("status with a 5-day window = %s, want available", got[0].Status)
	}

	stock := newTestService(store, &recordingUpdater{})
	got, err = stock.MyParties(context.Background(), "me")
	if err != nil {
		t.Fatalf("MyParties returned error: %v", err)
	}
	if got[0].Status != feedback.StatusExpired {
		t.Errorf("status with the default window = %s, want expired", got[0].Status)
	}
}
