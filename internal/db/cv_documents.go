package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CreateCVDocument registers an uploaded CV in pending state and returns it.
func (db *DB) CreateCVDocument(ctx context.Context, ownerID uuid.UUID, originalFilename string) (*CVDocument, error) {
	var cv CVDocument
	err := db.pool.QueryRow(ctx,
		`INSERT INTO cv_documents (owner_id, original_filename, status)
		 VALUES ($1, $2, 'pending')
		 RETURNING id, owner_id, original_filename, status, is_parsed, parsed_at, parsed_data, uploaded_at`,
		ownerID, originalFilename,
	).Scan(&cv.ID, &cv.OwnerID, &cv.OriginalFilename, &cv.Status, &cv.IsParsed,
		&cv.ParsedAt, &cv.ParsedData, &cv.UploadedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create cv document: %w", err)
	}
	return &cv, nil
}

// GetCVDocument retrieves a CV document by ID
func (db *DB) GetCVDocument(ctx context.Context, id uuid.UUID) (*CVDocument, error) {
	var cv CVDocument
	err := db.pool.QueryRow(ctx,
		`SELECT id, owner_id, original_filename, status, is_parsed, parsed_at, parsed_data, uploaded_at
		 FROM cv_documents WHERE id = $1`,
		id,
	).Scan(&cv.ID, &cv.OwnerID, &cv.OriginalFilename, &cv.Status, &cv.IsParsed,
		&cv.ParsedAt, &cv.ParsedData, &cv.UploadedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cv document: %w", err)
	}
	return &cv, nil
}

// UpdateCVStatus moves a CV document through its lifecycle.
func (db *DB) UpdateCVStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE cv_documents SET status = $1 WHERE id = $2`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update cv status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("cv document not found: %s", id)
	}
	return nil
}

// ListUnparsedCVDocuments retrieves CVs still awaiting parsing, oldest first.
func (db *DB) ListUnparsedCVDocuments(ctx context.Context, limit int) ([]CVDocument, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, owner_id, original_filename, status, is_parsed, parsed_at, parsed_data, uploaded_at
		 FROM cv_documents
		 WHERE is_parsed = FALSE OR parsed_at IS NULL
		 ORDER BY uploaded_at ASC LIMIT $1`,
		limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list unparsed cvs: %w", err)
	}
	defer rows.Close()

	var cvs []CVDocument
	for rows.Next() {
		var cv CVDocument
		if err := rows.Scan(&cv.ID, &cv.OwnerID, &cv.OriginalFilename, &cv.Status,
			&cv.IsParsed, &cv.ParsedAt, &cv.ParsedData, &cv.UploadedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cv document: %w", err)
		}
		cvs = append(cvs, cv)
	}
	return cvs, rows.Err()
}

// ParseResults carries everything extracted from a CV in one parse pass.
type ParseResults struct {
	ParsedData     any
	SkillIDs       []uuid.UUID
	Education      []Education
	WorkExperience []WorkExperience
	Contact        *ContactInfo
	ParsedAt       time.Time
}

// SaveParseResults persists all extracted entities and marks the CV completed
// in a single transaction. Nothing is persisted on failure, preserving the
// "no partial entities" rule.
func (db *DB) SaveParseResults(ctx context.Context, cvID uuid.UUID, results *ParseResults) error {
	payload, err := json.Marshal(results.ParsedData)
	if err != nil {
		return fmt.Errorf("failed to marshal parsed data: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx,
		`UPDATE cv_documents
		 SET status = 'completed', is_parsed = TRUE, parsed_at = $1, parsed_data = $2
		 WHERE id = $3`,
		results.ParsedAt, payload, cvID)
	if err != nil {
		return fmt.Errorf("failed to mark cv parsed: %w", err)
	}

	for _, skillID := range results.SkillIDs {
		_, err = tx.Exec(ctx,
			`INSERT INTO cv_skills (cv_id, skill_id) VALUES ($1, $2)
			 ON CONFLICT DO NOTHING`,
			cvID, skillID)
		if err != nil {
			return fmt.Errorf("failed to link cv skill: %w", err)
		}
	}

	for _, edu := range results.Education {
		_, err = tx.Exec(ctx,
			`INSERT INTO cv_education (cv_id, institution, degree, years)
			 VALUES ($1, $2, $3, $4)`,
			cvID, edu.Institution, edu.Degree, edu.Years)
		if err != nil {
			return fmt.Errorf("failed to insert education: %w", err)
		}
	}

	for _, exp := range results.WorkExperience {
		_, err = tx.Exec(ctx,
			`INSERT INTO cv_work_experience (cv_id, company, title, duration, description)
			 VALUES ($1, $2, $3, $4, $5)`,
			cvID, exp.Company, exp.Title, exp.Duration, exp.Description)
		if err != nil {
			return fmt.Errorf("failed to insert work experience: %w", err)
		}
	}

	if results.Contact != nil && (results.Contact.Email != "" || results.Contact.Phone != "") {
		_, err = tx.Exec(ctx,
			`INSERT INTO cv_contact_info (cv_id, email, phone) VALUES ($1, $2, $3)
			 ON CONFLICT (cv_id) DO UPDATE SET email = EXCLUDED.email, phone = EXCLUDED.phone`,
			cvID, results.Contact.Email, results.Contact.Phone)
		if err != nil {
			return fmt.Errorf("failed to insert contact info: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit parse results: %w", err)
	}
	return nil
}

// CVSkillNames returns the extracted skill names for a CV.
func (db *DB) CVSkillNames(ctx context.Context, cvID uuid.UUID) ([]string, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT st.name FROM cv_skills cs JOIN skill_tags st ON st.id = cs.skill_id
		 WHERE cs.cv_id = $1 ORDER BY st.name ASC`,
		cvID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cv skills: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan cv skill: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CVWorkExperience returns the extracted work history for a CV.
func (db *DB) CVWorkExperience(ctx context.Context, cvID uuid.UUID) ([]WorkExperience, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, cv_id, company, title, duration, description
		 FROM cv_work_experience WHERE cv_id = $1`,
		cvID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cv work experience: %w", err)
	}
	defer rows.Close()

	var exps []WorkExperience
	for rows.Next() {
		var exp WorkExperience
		if err := rows.Scan(&exp.ID, &exp.CVID, &exp.Company, &exp.Title,
			&exp.Duration, &exp.Description); err != nil {
			return nil, fmt.Errorf("failed to scan work experience: %w", err)
		}
		exps = append(exps, exp)
	}
	return exps, rows.Err()
}

// CVEducation returns the extracted education entries for a CV.
func (db *DB) CVEducation(ctx context.Context, cvID uuid.UUID) ([]Education, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, cv_id, institution, degree, years
		 FROM cv_education WHERE cv_id = $1`,
		cvID)
	if err != nil {
		return nil, fmt.Errorf("failed to load cv education: %w", err)
	}
	defer rows.Close()

	var entries []Education
	for rows.Next() {
		var edu Education
		if err := rows.Scan(&edu.ID, &edu.CVID, &edu.Institution, &edu.Degree, &edu.Years); err != nil {
			return nil, fmt.Errorf("failed to scan education: %w", err)
		}
		entries = append(entries, edu)
	}
	return entries, rows.Err()
}

// CVContactInfo returns the contact info extracted from a CV, or nil.
func (db *DB) CVContactInfo(ctx context.Context, cvID uuid.UUID) (*ContactInfo, error) {
	var c ContactInfo
	err := db.pool.QueryRow(ctx,
		`SELECT id, cv_id, email, phone FROM cv_contact_info WHERE cv_id = $1`,
		cvID,
	).Scan(&c.ID, &c.CVID, &c.Email, &c.Phone)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get contact info: %w", err)
	}
	return &c, nil
}
