//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestIntegration_RecordActivityIdempotent(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job := mustInsertPostings(t, db, testPosting("Staff Engineer", ""))[0]
	userID := uuid.New()

	if err := db.RecordActivity(ctx, userID, job.ID, ActivityViewed); err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}
	// Viewing the same posting again must not error or duplicate.
	if err := db.RecordActivity(ctx, userID, job.ID, ActivityViewed); err != nil {
		t.Fatalf("RecordActivity repeat failed: %v", err)
	}
	if err := db.RecordActivity(ctx, userID, job.ID, ActivityApplied); err != nil {
		t.Fatalf("RecordActivity failed: %v", err)
	}

	events, err := db.ListActivityByUser(ctx, userID)
	if err != nil {
		t.Fatalf("ListActivityByUser failed: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Expected 2 distinct events, got %d", len(events))
	}
	types := map[string]bool{}
	for _, ev := range events {
		types[ev.Type] = true
	}
	if !types[ActivityViewed] || !types[ActivityApplied] {
		t.Errorf("Expected viewed and applied events, got %v", types)
	}
}
