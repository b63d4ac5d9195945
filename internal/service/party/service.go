// internal/service/party/service.go

package party

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog/log"

	"baro/internal/domain/party"
)

// Service-level errors surfaced to the API layer.
var (
	ErrNotFound        = party.ErrNotFound
	ErrAlreadyJoined   = errors.New("already joined this party")
	ErrPartyFull       = errors.New("party is full")
	ErrHostCannotLeave = errors.New("host cannot leave their own party")
	ErrNotMember       = errors.New("not a member of this party")
	ErrInvalidRequest  = errors.New("invalid party request")
)

// Store defines the storage interface for the party lifecycle.
type Store interface {
	// ListParties returns all parties with their members, newest first.
	ListParties(ctx context.Context) ([]party.Party, error)

	// GetParty returns one party with its members.
	GetParty(ctx context.Context, partyID string) (*party.Party, error)

	// InsertParty persists a new party and its host membership row.
	InsertParty(ctx context.Context, p party.Party) error

	// InsertMember persists a membership row.
	InsertMember(ctx context.Context, m party.Member) error

	// UpdateMemberStatus updates one membership row's status.
	UpdateMemberStatus(ctx context.Context, partyID, userID, status string) error
}

// IDGenerator mints party IDs. Wired to uuid.NewString in main.
type IDGenerator func() string

// LifecycleService implements party.Service over a Store.
type LifecycleService struct {
	store Store
	newID IDGenerator
}

// NewLifecycleService creates a new party lifecycle service.
func NewLifecycleService(store Store, newID IDGenerator) *LifecycleService {
	return &LifecycleService{store: store, newID: newID}
}

// ListParties returns all parties, annotating each with whether the caller
// has joined.
func (s *LifecycleService) ListParties(ctx context.Context, userID string) ([]party.Party, error) {
	parties, err := s.store.ListParties(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing parties: %w", err)
	}

	for i := range parties {
		annotate(&parties[i], userID)
	}
	return parties, nil
}

// GetParty returns one party annotated for the caller.
func (s *LifecycleService) GetParty(ctx context.Context, partyID, userID string) (*party.Party, error) {
	p, err := s.store.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	annotate(p, userID)
	return p, nil
}

// CreateParty opens a new party with the caller as host.
func (s *LifecycleService) CreateParty(ctx context.Context, userID string, req party.CreateRequest) (*party.Party, error) {
	if req.Title == "" || req.Sport == "" {
		return nil, fmt.Errorf("%w: title and sport are required", ErrInvalidRequest)
	}
	if req.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be positive", ErrInvalidRequest)
	}

	p := party.Party{
		ID:          s.newID(),
		Title:       req.Title,
		Sport:       req.Sport,
		Place:       req.Place,
		Description: req.Description,
		Date:        req.Date,
		StartTime:   req.StartTime,
		EndTime:     req.EndTime,
		Capacity:    req.Capacity,
		HostID:      userID,
		Status:      party.StatusRecruiting,
		PlaceLat:    req.PlaceLat,
		PlaceLng:    req.PlaceLng,
	}

	if err := s.store.InsertParty(ctx, p); err != nil {
		return nil, fmt.Errorf("creating party: %w", err)
	}

	log.Info().
		Str("party_id", p.ID).
		Str("host_id", userID).
		Str("sport", p.Sport).
		Msg("party created")

	return s.GetParty(ctx, p.ID, userID)
}

// JoinParty adds the caller as a member, enforcing capacity.
func (s *LifecycleService) JoinParty(ctx context.Context, partyID, userID string) (*party.Party, error) {
	p, err := s.store.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}

	for _, m := range p.Members {
		if m.UserID == userID && m.Status == party.MemberJoined {
			return nil, ErrAlreadyJoined
		}
	}
	if p.Current >= p.Capacity {
		return nil, ErrPartyFull
	}

	member := party.Member{
		PartyID: partyID,
		UserID:  userID,
		Role:    party.RoleMember,
		Status:  party.MemberJoined,
	}
	if err := s.store.InsertMember(ctx, member); err != nil {
		return nil, fmt.Errorf("joining party: %w", err)
	}

	return s.GetParty(ctx, partyID, userID)
}

// LeaveParty marks the caller's membership as left. The host cannot leave.
func (s *LifecycleService) LeaveParty(ctx context.Context, partyID, userID string) (*party.Party, error) {
	p, err := s.store.GetParty(ctx, partyID)
	if err != nil {
		return nil, err
	}
	if p.HostID == userID {
		return nil, ErrHostCannotLeave
	}

	joined := false
	for _, m := range p.Members {
		if m.UserID == userID && m.Status == party.MemberJoined {
			joined = true
			break
		}
	}
	if !joined {
		return nil, ErrNotMember
	}

	if err := s.store.UpdateMemberStatus(ctx, partyID, userID, party.MemberLeft); err != nil {
		return nil, fmt.Errorf("leaving party: %w", err)
	}

	return s.GetParty(ctx, partyID, userID)
}

// annotate fills the caller-relative fields of a party.
func annotate(p *party.Party, userID string) {
	current := 0
	isJoined := false
	for _, m := range p.Members {
		if m.Status != party.MemberJoined {
			continue
		}
		current++
		if m.UserID == userID {
			isJoined = true
		}
	}
	p.Current = current
	p.IsJoined = userID != "" && isJoined
}
