package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// UpsertCompany creates a company reference on first sighting and returns the
// stable row ID. An existing company keeps its original website.
func (db *DB) UpsertCompany(ctx context.Context, name, website string) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO companies (name, website) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		name, website,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert company %q: %w", name, err)
	}
	return id, nil
}

// UpsertSkillTag creates a skill tag if it does not exist and returns the
// stable row ID. The vocabulary grows monotonically; an existing tag keeps
// its original category.
func (db *DB) UpsertSkillTag(ctx context.Context, name, category string) (uuid.UUID, error) {
	if category == "" {
		category = "uncategorized"
	}
	var id uuid.UUID
	err := db.pool.QueryRow(ctx,
		`INSERT INTO skill_tags (name, category) VALUES ($1, $2)
		 ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name
		 RETURNING id`,
		name, category,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to upsert skill tag %q: %w", name, err)
	}
	return id, nil
}

// ListSkillTags retrieves the full skill vocabulary.
func (db *DB) ListSkillTags(ctx context.Context) ([]SkillTag, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, name, category FROM skill_tags ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list skill tags: %w", err)
	}
	defer rows.Close()

	var tags []SkillTag
	for rows.Next() {
		var t SkillTag
		if err := rows.Scan(&t.ID, &t.Name, &t.Category); err != nil {
			return nil, fmt.Errorf("failed to scan skill tag: %w", err)
		}
		tags = append(tags, t)
	}
	return tags, rows.Err()
}

// SeedSkillTags inserts a category-keyed vocabulary, skipping names that
// already exist.
func (db *DB) SeedSkillTags(ctx context.Context, byCategory map[string][]string) error {
	for category, names := range byCategory {
		for _, name := range names {
			if _, err := db.UpsertSkillTag(ctx, name, category); err != nil {
				return err
			}
		}
	}
	return nil
}

// AddJobSkills links skill tags to a job posting, ignoring duplicates.
func (db *DB) AddJobSkills(ctx context.Context, jobID uuid.UUID, skillIDs []uuid.UUID) error {
	for _, skillID := range skillIDs {
		_, err := db.pool.Exec(ctx,
			`INSERT INTO job_skills (job_id, skill_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			jobID, skillID)
		if err != nil {
			return fmt.Errorf("failed to add job skill: %w", err)
		}
	}
	return nil
}

// SkillNamesByJob returns the required-skill names for every job posting.
func (db *DB) SkillNamesByJob(ctx context.Context) (map[uuid.UUID][]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT js.job_id, st.name
		 FROM job_skills js JOIN skill_tags st ON st.id = js.skill_id`)
	if err != nil {
		return nil, fmt.Errorf("failed to load job skills: %w", err)
	}
	defer rows.Close()

	names := make(map[uuid.UUID][]string)
	for rows.Next() {
		var jobID uuid.UUID
		var name string
		if err := rows.Scan(&jobID, &name); err != nil {
			return nil, fmt.Errorf("failed to scan job skill: %w", err)
		}
		names[jobID] = append(names[jobID], name)
	}
	return names, rows.Err()
}
