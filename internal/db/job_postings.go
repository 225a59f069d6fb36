package db

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// TitleCompany is the secondary dedup key for job postings.
type TitleCompany struct {
	Title   string
	Company string
}

const jobPostingColumns = `id, title, description, company_name, location,
	        COALESCE(external_link, ''), company_logo, slug, tags,
	        responsibilities, qualifications, employment_type, source, epoch,
	        status, created_at, updated_at`

func scanJobPosting(row pgx.Row) (*JobPosting, error) {
	var p JobPosting
	var tagsJSON, respJSON, qualJSON []byte

	err := row.Scan(&p.ID, &p.Title, &p.Description, &p.CompanyName, &p.Location,
		&p.ExternalLink, &p.CompanyLogo, &p.Slug, &tagsJSON,
		&respJSON, &qualJSON, &p.EmploymentType, &p.Source, &p.Epoch,
		&p.Status, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	_ = json.Unmarshal(tagsJSON, &p.Tags)
	_ = json.Unmarshal(respJSON, &p.Responsibilities)
	_ = json.Unmarshal(qualJSON, &p.Qualifications)

	return &p, nil
}

// GetJobPostingByID retrieves a job posting by its ID
func (db *DB) GetJobPostingByID(ctx context.Context, id uuid.UUID) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE id = $1`, id)

	p, err := scanJobPosting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting: %w", err)
	}
	return p, nil
}

// GetJobPostingBySlug retrieves a job posting by its unique slug
func (db *DB) GetJobPostingBySlug(ctx context.Context, slug string) (*JobPosting, error) {
	row := db.pool.QueryRow(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings WHERE slug = $1`, slug)

	p, err := scanJobPosting(row)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get job posting by slug: %w", err)
	}
	return p, nil
}

// ListJobPostings retrieves every job posting, oldest first.
func (db *DB) ListJobPostings(ctx context.Context) ([]JobPosting, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+jobPostingColumns+` FROM job_postings ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to list job postings: %w", err)
	}
	defer rows.Close()

	var postings []JobPosting
	for rows.Next() {
		p, err := scanJobPosting(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job posting: %w", err)
		}
		postings = append(postings, *p)
	}
	return postings, rows.Err()
}

// ExternalLinkSet returns the set of all non-empty external links.
// Used by ingestion to snapshot the dedup state at batch start.
func (db *DB) ExternalLinkSet(ctx context.Context) (map[string]struct{}, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT external_link FROM job_postings WHERE external_link IS NOT NULL`)
	if err != nil {
		return nil, fmt.Errorf("failed to load external links: %w", err)
	}
	defer rows.Close()

	links := make(map[string]struct{})
	for rows.Next() {
		var link string
		if err := rows.Scan(&link); err != nil {
			return nil, fmt.Errorf("failed to scan external link: %w", err)
		}
		links[link] = struct{}{}
	}
	return links, rows.Err()
}

// TitleCompanySet returns the set of all (title, company) pairs.
func (db *DB) TitleCompanySet(ctx context.Context) (map[TitleCompany]struct{}, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT title, company_name FROM job_postings`)
	if err != nil {
		return nil, fmt.Errorf("failed to load title/company pairs: %w", err)
	}
	defer rows.Close()

	pairs := make(map[TitleCompany]struct{})
	for rows.Next() {
		var tc TitleCompany
		if err := rows.Scan(&tc.Title, &tc.Company); err != nil {
			return nil, fmt.Errorf("failed to scan title/company pair: %w", err)
		}
		pairs[tc] = struct{}{}
	}
	return pairs, rows.Err()
}

// SlugExists reports whether a job posting with the given slug exists.
func (db *DB) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := db.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM job_postings WHERE slug = $1)`, slug).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check slug: %w", err)
	}
	return exists, nil
}

const insertJobPostingSQL = `INSERT INTO job_postings
	(id, title, description, company_name, location, external_link, company_logo,
	 slug, tags, responsibilities, qualifications, employment_type, source, epoch, status)
	VALUES ($1, $2, $3, $4, $5, NULLIF($6, ''), $7, $8, $9, $10, $11, $12, $13, $14, $15)`

func jobPostingArgs(p *JobPosting) ([]any, error) {
	tagsJSON, err := json.Marshal(emptyIfNil(p.Tags))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal tags: %w", err)
	}
	respJSON, err := json.Marshal(emptyIfNil(p.Responsibilities))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal responsibilities: %w", err)
	}
	qualJSON, err := json.Marshal(emptyIfNil(p.Qualifications))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal qualifications: %w", err)
	}

	return []any{p.ID, p.Title, p.Description, p.CompanyName, p.Location,
		p.ExternalLink, p.CompanyLogo, p.Slug, tagsJSON, respJSON, qualJSON,
		p.EmploymentType, p.Source, p.Epoch, p.Status}, nil
}

func emptyIfNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}

// InsertJobPostings bulk-inserts postings inside a single transaction. If the
// bulk insert hits a uniqueness violation, it falls back to inserting rows one
// by one, silently dropping only the rows that violate a constraint. Returns
// the number of rows actually persisted.
func (db *DB) InsertJobPostings(ctx context.Context, postings []JobPosting) (int, error) {
	if len(postings) == 0 {
		return 0, nil
	}

	for i := range postings {
		if postings[i].ID == uuid.Nil {
			postings[i].ID = uuid.New()
		}
		if postings[i].Status == "" {
			postings[i].Status = JobStatusOpen
		}
	}

	err := db.bulkInsertJobPostings(ctx, postings)
	if err == nil {
		return len(postings), nil
	}
	if !isUniqueViolation(err) {
		return 0, err
	}

	// Bulk insert collided with a constraint; retry row by row so only the
	// violating rows are dropped.
	saved := 0
	for i := range postings {
		args, argErr := jobPostingArgs(&postings[i])
		if argErr != nil {
			return saved, argErr
		}
		if _, execErr := db.pool.Exec(ctx, insertJobPostingSQL, args...); execErr != nil {
			if isUniqueViolation(execErr) {
				continue
			}
			return saved, fmt.Errorf("failed to insert job posting: %w", execErr)
		}
		saved++
	}
	return saved, nil
}

func (db *DB) bulkInsertJobPostings(ctx context.Context, postings []JobPosting) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for i := range postings {
		args, err := jobPostingArgs(&postings[i])
		if err != nil {
			return err
		}
		if _, err := tx.Exec(ctx, insertJobPostingSQL, args...); err != nil {
			if isUniqueViolation(err) {
				return err
			}
			return fmt.Errorf("failed to insert job posting: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit job postings: %w", err)
	}
	return nil
}

// UpdateJobStatus transitions a posting's status.
func (db *DB) UpdateJobStatus(ctx context.Context, id uuid.UUID, status string) error {
	result, err := db.pool.Exec(ctx,
		`UPDATE job_postings SET status = $1, updated_at = NOW() WHERE id = $2`,
		status, id)
	if err != nil {
		return fmt.Errorf("failed to update job status: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("job posting not found: %s", id)
	}
	return nil
}

// DeleteJobPostingsBefore removes postings posted before the cutoff.
// Returns the number of rows removed.
func (db *DB) DeleteJobPostingsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM job_postings WHERE epoch > 0 AND epoch < $1`, cutoff.Unix())
	if err != nil {
		return 0, fmt.Errorf("failed to delete old job postings: %w", err)
	}
	return result.RowsAffected(), nil
}
