package db

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// RecordActivity stores a user/job interaction. A repeat of the same
// (user, job, type) triple is an idempotent no-op.
func (db *DB) RecordActivity(ctx context.Context, userID, jobID uuid.UUID, activityType string) error {
	_, err := db.pool.Exec(ctx,
		`INSERT INTO activity_events (user_id, job_id, activity_type)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, job_id, activity_type) DO NOTHING`,
		userID, jobID, activityType)
	if err != nil {
		return fmt.Errorf("failed to record activity: %w", err)
	}
	return nil
}

// ListActivityByUser retrieves every activity event for a user.
func (db *DB) ListActivityByUser(ctx context.Context, userID uuid.UUID) ([]ActivityEvent, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, job_id, activity_type, created_at
		 FROM activity_events WHERE user_id = $1 ORDER BY created_at ASC`,
		userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list activity: %w", err)
	}
	defer rows.Close()

	var events []ActivityEvent
	for rows.Next() {
		var ev ActivityEvent
		if err := rows.Scan(&ev.ID, &ev.UserID, &ev.JobID, &ev.Type, &ev.Timestamp); err != nil {
			return nil, fmt.Errorf("failed to scan activity event: %w", err)
		}
		events = append(events, ev)
	}
	return events, rows.Err()
}
