// internal/service/feedback/service.go

package feedback

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"baro/internal/domain/feedback"
	"baro/internal/domain/reputation"
)

// Service-level errors surfaced to the API layer.
var (
	ErrNotMember     = errors.New("only party members can submit feedback")
	ErrPartyMismatch = errors.New("party id in path and body differ")
)

// Config contains configuration for the feedback service.
type Config struct {
	EventsTopic string

	// WindowDays is how long after a party ends its members can rate each
	// other. Zero falls back to the domain default.
	WindowDays int
}

// RatingService implements feedback.Service: it persists rating rows and
// feeds each ratee's batch through the manner temperature updater.
type RatingService struct {
	store    feedback.Store
	updater  reputation.Updater
	eventBus *nats.Conn
	clock    clockwork.Clock
	config   Config
}

// NewRatingService creates a new feedback service.
func NewRatingService(
	store feedback.Store,
	updater reputation.Updater,
	eventBus *nats.Conn,
	clock clockwork.Clock,
	config Config,
) *RatingService {
	if config.WindowDays <= 0 {
		config.WindowDays = feedback.WindowDays
	}
	return &RatingService{
		store:    store,
		updater:  updater,
		eventBus: eventBus,
		clock:    clock,
		config:   config,
	}
}

// MyParties returns the caller's parties annotated with their feedback
// window status, most recently ended first.
func (s *RatingService) MyParties(ctx context.Context, userID string) ([]feedback.PartyFeedback, error) {
	parties, err := s.store.MemberParties(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching member parties: %w", err)
	}
	if len(parties) == 0 {
		return nil, nil
	}

	submitted, err := s.store.SubmittedPartyIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching submitted feedback: %w", err)
	}

	now := s.clock.Now()
	for i := range parties {
		parties[i].Status = s.statusFor(parties[i], submitted, now)
	}

	sort.SliceStable(parties, func(i, j int) bool {
		return parties[i].EndAt > parties[j].EndAt
	})

	return parties, nil
}

// statusFor decides the feedback window state for one party.
func (s *RatingService) statusFor(
	p feedback.PartyFeedback,
	submitted map[string]struct{},
	now time.Time,
) feedback.Status {
	if _, ok := submitted[p.PartyID]; ok {
		return feedback.StatusSubmitted
	}

	endAt, err := parseEndAt(p.EndAt)
	if err != nil {
		// Unparsable end time counts as long expired.
		return feedback.StatusExpired
	}

	deadline := endAt.Add(time.Duration(s.config.WindowDays) * 24 * time.Hour)
	if !now.Before(endAt) && !now.After(deadline) {
		return feedback.StatusAvailable
	}
	return feedback.StatusExpired
}

// Targets returns the party members the caller can rate.
func (s *RatingService) Targets(ctx context.Context, partyID, userID string) ([]feedback.Target, error) {
	targets, err := s.store.Cotargets(ctx, partyID, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching feedback targets: %w", err)
	}
	return targets, nil
}

// Submit persists one rater's rating batch for a party and applies each
// ratee's batch to their manner temperature in one update.
func (s *RatingService) Submit(ctx context.Context, partyID, userID string, req feedback.SubmitRequest) error {
	if req.PartyID != "" && req.PartyID != partyID {
		return ErrPartyMismatch
	}
	if len(req.Ratings) == 0 {
		return nil
	}

	member, err := s.store.IsMember(ctx, partyID, userID)
	if err != nil {
		return fmt.Errorf("checking membership: %w", err)
	}
	if !member {
		return ErrNotMember
	}

	entries := make([]feedback.Entry, 0, len(req.Ratings))
	for _, r := range req.Ratings {
		entries = append(entries, feedback.Entry{
			PartyID:    partyID,
			FromUserID: userID,
			ToUserID:   r.UserID,
			Score:      r.Rating,
		})
	}
	if err := s.store.UpsertEntries(ctx, entries); err != nil {
		return fmt.Errorf("saving feedback: %w", err)
	}

	// One batched reputation update per ratee.
	byRatee := make(map[string][]int)
	var order []string
	for _, r := range req.Ratings {
		if _, ok := byRatee[r.UserID]; !ok {
			order = append(order, r.UserID)
		}
		byRatee[r.UserID] = append(byRatee[r.UserID], r.Rating)
	}

	for _, rateeID := range order {
		if _, err := s.updater.ApplyRatings(ctx, rateeID, byRatee[rateeID]); err != nil {
			return fmt.Errorf("updating manner temperature for %s: %w", rateeID, err)
		}
	}

	s.publishSubmitted(partyID, userID, len(req.Ratings))
	return nil
}

// publishSubmitted emits a feedback event for downstream consumers.
func (s *RatingService) publishSubmitted(partyID, userID string, ratings int) {
	if s.eventBus == nil || s.config.EventsTopic == "" {
		return
	}

	payload, err := json.Marshal(map[string]interface{}{
		"type":     "feedback.submitted",
		"party_id": partyID,
		"rater_id": userID,
		"ratings":  ratings,
		"time":     s.clock.Now(),
	})
	if err != nil {
		return
	}

	if err := s.eventBus.Publish(s.config.EventsTopic, payload); err != nil {
		log.Warn().Err(err).Str("party_id", partyID).Msg("failed to publish feedback event")
	}
}

// parseEndAt parses the party end timestamp, accepting both RFC 3339 and the
// store's zone-less format.
func parseEndAt(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty end time")
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02T15:04:05", value)
}
