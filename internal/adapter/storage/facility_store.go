// internal/adapter/storage/facility_store.go

package storage

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"baro/internal/domain/facility"
	"baro/internal/domain/sport"
)

// FacilityStore implements the facility, intensity and preference provider
// contracts over the sports data tables. Coordinates are stored as text and
// returned raw; the recommender parses and skips malformed rows.
type FacilityStore struct {
	db *pgxpool.Pool
}

// NewFacilityStore creates a new facility store.
func NewFacilityStore(db *pgxpool.Pool) *FacilityStore {
	return &FacilityStore{
		db: db,
	}
}

// FetchAll returns every facility row.
func (s *FacilityStore) FetchAll(ctx context.Context) ([]facility.Record, error) {
	query := `
		SELECT faci_cd, faci_nm, faci_addr, faci_lat, faci_lot, ftype_nm, inout_gbn_nm
		FROM songpa_sports_data
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying facilities: %w", err)
	}
	defer rows.Close()

	var records []facility.Record
	for rows.Next() {
		var rec facility.Record
		var lat, lng, sportType, inOut *string

		if err := rows.Scan(&rec.Code, &rec.Name, &rec.Address, &lat, &lng, &sportType, &inOut); err != nil {
			return nil, fmt.Errorf("error scanning facility: %w", err)
		}

		if lat != nil {
			rec.Lat = *lat
		}
		if lng != nil {
			rec.Lng = *lng
		}
		if sportType != nil {
			rec.SportType = *sportType
		}
		if inOut != nil {
			rec.InOut = *inOut
		}

		records = append(records, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating facilities: %w", err)
	}

	return records, nil
}

// FetchIntensities returns every sport→intensity pair.
func (s *FacilityStore) FetchIntensities(ctx context.Context) ([]sport.IntensityRow, error) {
	query := `
		SELECT sports_nm, intensity
		FROM exercise_methods
	`

	rows, err := s.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("error querying exercise methods: %w", err)
	}
	defer rows.Close()

	var result []sport.IntensityRow
	for rows.Next() {
		var name, intensity *string
		if err := rows.Scan(&name, &intensity); err != nil {
			return nil, fmt.Errorf("error scanning exercise method: %w", err)
		}

		row := sport.IntensityRow{}
		if name != nil {
			row.SportName = *name
		}
		if intensity != nil {
			row.Intensity = *intensity
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating exercise methods: %w", err)
	}

	return result, nil
}

// FetchPreferenceSports returns the comma-joined preferred sport lists for
// an age band and gender.
func (s *FacilityStore) FetchPreferenceSports(ctx context.Context, ageBand, gender string) ([]string, error) {
	query := `
		SELECT sports_nm
		FROM sports_pref
		WHERE ages = $1 AND gender = $2
	`

	rows, err := s.db.Query(ctx, query, ageBand, gender)
	if err != nil {
		return nil, fmt.Errorf("error querying sports preferences: %w", err)
	}
	defer rows.Close()

	var lists []string
	for rows.Next() {
		var joined *string
		if err := rows.Scan(&joined); err != nil {
			return nil, fmt.Errorf("error scanning sports preference: %w", err)
		}
		if joined != nil && *joined != "" {
			lists = append(lists, *joined)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sports preferences: %w", err)
	}

	return lists, nil
}
