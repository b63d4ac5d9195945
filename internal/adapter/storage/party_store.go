// internal/adapter/storage/party_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"baro/internal/domain/party"
)

// PartyStore implements the party provider and lifecycle store contracts
// over the party tables.
type PartyStore struct {
	db *pgxpool.Pool
}

// NewPartyStore creates a new party store.
func NewPartyStore(db *pgxpool.Pool) *PartyStore {
	return &PartyStore{
		db: db,
	}
}

// FetchRecruiting returns only parties still recruiting, with raw
// coordinate strings for the proximity filter.
func (s *PartyStore) FetchRecruiting(ctx context.Context) ([]party.Record, error) {
	query := `
		SELECT id, title, sports_nm, place, lat, lon,
		       date, start_time, end_time, max_members, notes, status
		FROM parties
		WHERE status = $1
	`

	rows, err := s.db.Query(ctx, query, party.StatusRecruiting)
	if err != nil {
		return nil, fmt.Errorf("error querying recruiting parties: %w", err)
	}
	defer rows.Close()

	var records []party.Record
	for rows.Next() {
		var rec party.Record
		var lat, lng, notes *string
		var maxMembers *int

		if err := rows.Scan(
			&rec.ID, &rec.Title, &rec.SportName, &rec.Place, &lat, &lng,
			&rec.Date, &rec.StartTime, &rec.EndTime, &maxMembers, &notes, &rec.Status,
		); err != nil {
			return nil, fmt.Errorf("error scanning party: %w", err)
		}

		if lat != nil {
			rec.Lat = *lat
		}
		if lng != nil {
			rec.Lng = *lng
		}
		if notes != nil {
			rec.Notes = *notes
		}
		if maxMembers != nil {
			rec.MaxMembers = *maxMembers
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parties: %w", err)
	}

	return records, nil
}

// ListParties returns all parties with their members, newest first.
func (s *PartyStore) ListParties(ctx context.Context) ([]party.Party, error) {
	query := `
		SELECT id, title, sport, place, description, date::text,
		       start_time::text, end_time::text, capacity, host_id, status, created_at::text,
		       place_lat, place_lng
		FROM party
		ORDER BY created_at DESC
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying parties: %w", err)
	}
	defer rows.Close()

	var parties []party.Party
	for rows.Next() {
		p, err := scanParty(rows)
		if err != nil {
			return nil, err
		}
		parties = append(parties, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating parties: %w", err)
	}

	if len(parties) == 0 {
		return parties, nil
	}

	// Attach members in one query.
	ids := make([]string, 0, len(parties))
	index := make(map[string]int, len(parties))
	for i, p := range parties {
		ids = append(ids, p.ID)
		index[p.ID] = i
	}

	members, err := s.fetchMembers(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		i := index[m.PartyID]
		parties[i].Members = append(parties[i].Members, m)
	}

	return parties, nil
}

// GetParty returns one party with its members.
func (s *PartyStore) GetParty(ctx context.Context, partyID string) (*party.Party, error) {
	query := `
		SELECT id, title, sport, place, description, date::text,
		       start_time::text, end_time::text, capacity, host_id, status, created_at::text,
		       place_lat, place_lng
		FROM party
		WHERE id = $1
	`

	row := s.db.QueryRow(ctx, query, partyID)
	p, err := scanParty(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, party.ErrNotFound
		}
		return nil, err
	}

	members, err := s.fetchMembers(ctx, []string{partyID})
	if err != nil {
		return nil, err
	}
	p.Members = members

	return p, nil
}

// InsertParty persists a new party and its host membership row in one
// transaction.
func (s *PartyStore) InsertParty(ctx context.Context, p party.Party) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	_, err = tx.Exec(ctx, `
		INSERT INTO party (
			id, title, sport, place, description, date,
			start_time, end_time, capacity, host_id, status, created_at,
			place_lat, place_lng
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now(), $12, $13)
	`,
		p.ID, p.Title, p.Sport, p.Place, p.Description, p.Date,
		p.StartTime, p.EndTime, p.Capacity, p.HostID, p.Status,
		p.PlaceLat, p.PlaceLng,
	)
	if err != nil {
		return fmt.Errorf("error inserting party: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO party_member (party_id, user_id, role, status, joined_at)
		VALUES ($1, $2, $3, $4, now())
	`, p.ID, p.HostID, party.RoleHost, party.MemberJoined)
	if err != nil {
		return fmt.Errorf("error inserting host membership: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("error committing party insert: %w", err)
	}
	return nil
}

// InsertMember persists a membership row, reviving a previously left row for
// the same user.
func (s *PartyStore) InsertMember(ctx context.Context, m party.Member) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO party_member (party_id, user_id, role, status, joined_at)
		VALUES ($1, $2, $3, $4, now())
		ON CONFLICT (party_id, user_id) DO UPDATE
		SET status = $4, joined_at = now()
	`, m.PartyID, m.UserID, m.Role, m.Status)
	if err != nil {
		return fmt.Errorf("error inserting member: %w", err)
	}
	return nil
}

// UpdateMemberStatus updates one membership row's status.
func (s *PartyStore) UpdateMemberStatus(ctx context.Context, partyID, userID, status string) error {
	_, err := s.db.Exec(ctx, `
		UPDATE party_member
		SET status = $3
		WHERE party_id = $1 AND user_id = $2
	`, partyID, userID, status)
	if err != nil {
		return fmt.Errorf("error updating member status: %w", err)
	}
	return nil
}

// fetchMembers loads membership rows for a set of parties.
func (s *PartyStore) fetchMembers(ctx context.Context, partyIDs []string) ([]party.Member, error) {
	query := `
		SELECT party_id, user_id, COALESCE(nickname, ''), role, status, joined_at::text
		FROM party_member
		WHERE party_id = ANY($1)
	`

	rows, err := s.db.Query(ctx, query, partyIDs)
	if err != nil {
		return nil, fmt.Errorf("error querying members: %w", err)
	}
	defer rows.Close()

	var members []party.Member
	for rows.Next() {
		var m party.Member
		if err := rows.Scan(&m.PartyID, &m.UserID, &m.Nickname, &m.Role, &m.Status, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("error scanning member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// scanParty scans one party row from either a Row or Rows.
func scanParty(row pgx.Row) (*party.Party, error) {
	var p party.Party
	var place, description, date, start, end, status, createdAt *string
	var placeLat, placeLng *float64

	if err := row.Scan(
		&p.ID, &p.Title, &p.Sport, &place, &description, &date,
		&start, &end, &p.Capacity, &p.HostID, &status, &createdAt,
		&placeLat, &placeLng,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("error scanning party: %w", err)
	}

	if place != nil {
		p.Place = *place
	}
	if description != nil {
		p.Description = *description
	}
	if date != nil {
		p.Date = *date
	}
	if start != nil {
		p.StartTime = *start
	}
	if end != nil {
		p.EndTime = *end
	}
	if status != nil {
		p.Status = *status
	} else {
		p.Status = party.StatusOpen
	}
	if createdAt != nil {
		p.CreatedAt = *createdAt
	}
	p.PlaceLat = placeLat
	p.PlaceLng = placeLng

	return &p, nil
}
