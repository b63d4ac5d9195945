// internal/service/party/service_test.go

package party

import (
	"context"
	"errors"
	"testing"

	"baro/internal/domain/party"
)

type fakeStore struct {
	parties map[string]*party.Party
}

func newFakeStore() *fakeStore {
	return &fakeStore{parties: make(map[string]*party.Party)}
}

func (s *fakeStore) ListParties(ctx context.Context) ([]party.Party, error) {
	var out []party.Party
	for _, p := range s.parties {
		out = append(out, *p)
	}
	return out, nil
}

func (s *fakeStore) GetParty(ctx context.Context, partyID string) (*party.Party, error) {
	p, ok := s.parties[partyID]
	if !ok {
		return nil, party.ErrNotFound
	}
	cp := *p
	cp.Members = append([]party.Member(nil), p.Members...)
	return &cp, nil
}

func (s *fakeStore) InsertParty(ctx context.Context, p party.Party) error {
	p.Members = []party.Member{{
		PartyID: p.ID,
		UserID:  p.HostID,
		Role:    party.RoleHost,
		Status:  party.MemberJoined,
	}}
	s.parties[p.ID] = &p
	return nil
}

func (s *fakeStore) InsertMember(ctx context.Context, m party.Member) error {
	p, ok := s.parties[m.PartyID]
	if !ok {
		return party.ErrNotFound
	}
	p.Members = append(p.Members, m)
	return nil
}

func (s *fakeStore) UpdateMemberStatus(ctx context.Context, partyID, userID, status string) error {
	p, ok := s.parties[partyID]
	if !ok {
		return party.ErrNotFound
	}
	for i := range p.Members {
		if p.Members[i].UserID == userID {
			p.Members[i].Status = status
		}
	}
	return nil
}

func newService(store Store) *LifecycleService {
	n := 0
	return NewLifecycleService(store, func() string {
		n++
		return "party-" + string(rune('0'+n))
	})
}

func mustCreate(t *testing.T, s *LifecycleService, hostID string, capacity int) *party.Party {
	t.Helper()
	p, err := s.CreateParty(context.Background(), hostID, party.CreateRequest{
		Title:    "풋살 한 판",
		Sport:    "풋살",
		Capacity: capacity,
	})
	if err != nil {
		t.Fatalf("CreateParty returned error: %v", err)
	}
	return p
}

func TestCreatePartySetsHostMembership(t *testing.T) {
	s := newService(newFakeStore())

	p := mustCreate(t, s, "host", 4)

	if p.HostID != "host" {
		t.Errorf("host = %s, want host", p.HostID)
	}
	if p.Status != party.StatusRecruiting {
		t.Errorf("status = %s, want recruiting", p.Status)
	}
	if p.Current != 1 || !p.IsJoined {
		t.Errorf("expected host counted as joined: current=%d isJoined=%v", p.Current, p.IsJoined)
	}
}

func TestCreatePartyValidation(t *testing.T) {
	s := newService(newFakeStore())

	if _, err := s.CreateParty(context.Background(), "host", party.CreateRequest{Sport: "풋살", Capacity: 4}); err == nil {
		t.Error("expected error for missing title")
	}
	if _, err := s.CreateParty(context.Background(), "host", party.CreateRequest{Title: "t", Sport: "풋살"}); err == nil {
		t.Error("expected error for non-positive capacity")
	}
}

func TestJoinParty(t *testing.T) {
	s := newService(newFakeStore())
	p := mustCreate(t, s, "host", 2)

	joined, err := s.JoinParty(context.Background(), p.ID, "guest")
	if err != nil {
		t.Fatalf("JoinParty returned error: %v", err)
	}
	if joined.Current != 2 || !joined.IsJoined {
		t.Errorf("current=%d isJoined=%v after join", joined.Current, joined.IsJoined)
	}

	if _, err := s.JoinParty(context.Background(), p.ID, "guest"); !errors.Is(err, ErrAlreadyJoined) {
		t.Errorf("expected ErrAlreadyJoined, got %v", err)
	}
	if _, err := s.JoinParty(context.Background(), p.ID, "third"); !errors.Is(err, ErrPartyFull) {
		t.Errorf("expected ErrPartyFull, got %v", err)
	}
}

func TestLeaveParty(t *testing.T) {
	s := newService(newFakeStore())
	p := mustCreate(t, s, "host", 3)

	if _, err := s.JoinParty(context.Background(), p.ID, "guest"); err != nil {
		t.Fatalf("JoinParty returned error: %v", err)
	}

	left, err := s.LeaveParty(context.Background(), p.ID, "guest")
	if err != nil {
		t.Fatalf("LeaveParty returned error: %v", err)
	}
	if left.Current != 1 || left.IsJoined {
		t.Errorf("current=%d isJoined=%v after leave", left.Current, left.IsJoined)
	}

	if _, err := s.LeaveParty(context.Background(), p.ID, "host"); !errors.Is(err, ErrHostCannotLeave) {
		t.Errorf("expected ErrHostCannotLeave, got %v", err)
	}
	if _, err := s.LeaveParty(context.Background(), p.ID, "stranger"); !errors.Is(err, ErrNotMember) {
		t.Errorf("expected ErrNotMember, got %v", err)
	}
}

func TestGetPartyNotFound(t *testing.T) {
	s := newService(newFakeStore())
	_, err := s.GetParty(context.Background(), "missing", "u")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	// The domain sentinel and the service alias are the same error, so
	// storage can stay free of service imports.
	if !errors.Is(err, party.ErrNotFound) {
		t.Errorf("expected party.ErrNotFound, got %v", err)
	}
}
