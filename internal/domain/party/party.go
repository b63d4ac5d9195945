// internal/domain/party/party.go

package party

import (
	"context"
	"errors"

	"baro/internal/domain/geo"
)

// ErrNotFound reports a lookup for a party that does not exist. Stores
// return it directly; the service and API layers match on it.
var ErrNotFound = errors.New("party not found")

// Party status values.
const (
	StatusRecruiting = "recruiting"
	StatusOpen       = "open"
	StatusClosed     = "closed"
)

// Member role values.
const (
	RoleHost   = "host"
	RoleMember = "member"
)

// Member status values.
const (
	MemberJoined = "joined"
	MemberLeft   = "left"
	MemberKicked = "kicked"
)

// Record is a recruiting-party row as delivered by the party collaborator.
// Coordinates arrive as raw strings; rows whose coordinates do not parse are
// skipped by the proximity filter.
type Record struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	SportName  string `json:"sportsNm"`
	Place      string `json:"place"`
	Lat        string `json:"-"`
	Lng        string `json:"-"`
	Date       string `json:"date"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
	MaxMembers int    `json:"maxMembers"`
	Notes      string `json:"notes"`
	Status     string `json:"status"`
}

// Nearby is a recruiting party with its computed distance from the caller.
type Nearby struct {
	Record
	Location   geo.Point `json:"location"`
	DistanceKm float64   `json:"distanceKm"`
}

// Member is one membership row of a party.
type Member struct {
	PartyID  string `json:"partyId"`
	UserID   string `json:"userId"`
	Nickname string `json:"nickname"`
	Role     string `json:"role"`
	Status   string `json:"status"`
	JoinedAt string `json:"joinedAt"`
}

// Party is the full party aggregate served by the party API.
type Party struct {
	ID          string   `json:"partyId"`
	Title       string   `json:"title"`
	Sport       string   `json:"sport"`
	Place       string   `json:"place"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime"`
	EndTime     string   `json:"endTime"`
	Capacity    int      `json:"capacity"`
	Current     int      `json:"current"`
	HostID      string   `json:"hostId"`
	Status      string   `json:"status"`
	Members     []Member `json:"members"`
	IsJoined    bool     `json:"isJoined"`
	CreatedAt   string   `json:"createdAt"`
	PlaceLat    *float64 `json:"placeLat,omitempty"`
	PlaceLng    *float64 `json:"placeLng,omitempty"`
}

// CreateRequest carries the fields needed to open a new party.
type CreateRequest struct {
	Title       string   `json:"title"`
	Sport       string   `json:"sport"`
	Place       string   `json:"place"`
	Description string   `json:"description"`
	Date        string   `json:"date"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	Capacity    int      `json:"capacity"`
	PlaceLat    *float64 `json:"place_lat,omitempty"`
	PlaceLng    *float64 `json:"place_lng,omitempty"`
}

// Provider fetches recruiting party rows from the external store.
type Provider interface {
	// FetchRecruiting returns only rows with status "recruiting".
	FetchRecruiting(ctx context.Context) ([]Record, error)
}

// Finder filters and ranks recruiting parties by distance.
type Finder interface {
	// Nearby returns recruiting parties within maxDistanceKm of the
	// location, nearest first, at most limit entries.
	Nearby(ctx context.Context, location geo.Point, maxDistanceKm float64, limit int) ([]Nearby, error)
}

// Service manages the party lifecycle.
type Service interface {
	ListParties(ctx context.Context, userID string) ([]Party, error)
	GetParty(ctx context.Context, partyID, userID string) (*Party, error)
	CreateParty(ctx context.Context, userID string, req CreateRequest) (*Party, error)
	JoinParty(ctx context.Context, partyID, userID string) (*Party, error)
	LeaveParty(ctx context.Context, partyID, userID string) (*Party, error)
}
