package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// UpsertMatch creates or updates the match row for (profile, job),
// overwriting the score.
func (db *DB) UpsertMatch(ctx context.Context, profileID, jobID uuid.UUID, score float64) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO matches (profile_id, job_id, match_score) VALUES ($1, $2, $3)
		 ON CONFLICT (profile_id, job_id)
		 DO UPDATE SET match_score = EXCLUDED.match_score, updated_at = NOW()`,
		profileID, jobID, score)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}
	return nil
}

func scanProfile(row pgx.Row) (*Profile, error) {
	var p Profile
	var skillsJSON, expJSON []byte

	err := row.Scan(&p.ID, &p.UserID, &p.FullName, &skillsJSON, &expJSON,
		&p.DesiredRole, &p.DesiredIndustry, &p.LocationPreference)
	if err != nil {
		return nil, err
	}

	_ = json.Unmarshal(skillsJSON, &p.Skills)
	_ = json.Unmarshal(expJSON, &p.Experience)

	return &p, nil
}

// GetProfile retrieves a candidate profile by ID
func (db *DB) GetProfile(ctx context.Context, id uuid.UUID) (*Profile, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT id, user_id, full_name, skills, experience,
		        desired_role, desired_industry, location_preference
		 FROM profiles WHERE id = $1`, id)

	p, err := scanProfile(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// ListProfiles retrieves every candidate profile.
func (db *DB) ListProfiles(ctx context.Context) ([]Profile, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, full_name, skills, experience,
		        desired_role, desired_industry, location_preference
		 FROM profiles`)
	if err != nil {
		return nil, fmt.Errorf("failed to list profiles: %w", err)
	}
	defer rows.Close()

	var profiles []Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, *p)
	}
	return profiles, rows.Err()
}
