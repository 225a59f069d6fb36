package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// ReplaceRecommendations deletes all prior recommendations for a CV and
// inserts the fresh set in one transaction. Recommendation sets are fully
// replaced, never merged.
func (db *DB) ReplaceRecommendations(ctx context.Context, cvID uuid.UUID, recs []Recommendation) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM recommendations WHERE cv_id = $1`, cvID); err != nil {
		return fmt.Errorf("failed to clear recommendations: %w", err)
	}

	for _, rec := range recs {
		_, err := tx.Exec(ctx,
			`INSERT INTO recommendations (cv_id, job_id, match_score) VALUES ($1, $2, $3)`,
			cvID, rec.JobID, rec.MatchScore)
		if err != nil {
			return fmt.Errorf("failed to insert recommendation: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit recommendations: %w", err)
	}
	return nil
}

// ListRecommendations retrieves a CV's recommendations, highest score first.
func (db *DB) ListRecommendations(ctx context.Context, cvID uuid.UUID) ([]Recommendation, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, cv_id, job_id, match_score, created_at
		 FROM recommendations WHERE cv_id = $1 ORDER BY match_score DESC`,
		cvID)
	if err != nil {
		return nil, fmt.Errorf("failed to list recommendations: %w", err)
	}
	defer rows.Close()

	var recs []Recommendation
	for rows.Next() {
		var rec Recommendation
		if err := rows.Scan(&rec.ID, &rec.CVID, &rec.JobID, &rec.MatchScore, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan recommendation: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

// DeleteLowScoreRecommendations prunes recommendations below the score floor.
func (db *DB) DeleteLowScoreRecommendations(ctx context.Context, minScore float64) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM recommendations WHERE match_score < $1`, minScore)
	if err != nil {
		return 0, fmt.Errorf("failed to prune recommendations: %w", err)
	}
	return result.RowsAffected(), nil
}

// CapRecommendationsPerCV keeps only the highest-scoring maxPerCV
// recommendations for every CV, deleting the excess.
func (db *DB) CapRecommendationsPerCV(ctx context.Context, maxPerCV int) (int64, error) {
	result, err := db.pool.Exec(ctx,
		`DELETE FROM recommendations WHERE id IN (
		   SELECT id FROM (
		     SELECT id, ROW_NUMBER() OVER (
		       PARTITION BY cv_id ORDER BY match_score DESC
		     ) AS rank
		     FROM recommendations
		   ) ranked WHERE rank > $1
		 )`, maxPerCV)
	if err != nil {
		return 0, fmt.Errorf("failed to cap recommendations: %w", err)
	}
	return result.RowsAffected(), nil
}
