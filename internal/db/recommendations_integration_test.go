//go:build integration

package db

import (
	"context"
	"testing"
)

func TestIntegration_ReplaceRecommendations(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	cv := mustCreateCV(t, db)
	jobs := mustInsertPostings(t, db,
		testPosting("Go Developer", ""),
		testPosting("Rust Developer", ""))

	first := []Recommendation{
		{JobID: jobs[0].ID, MatchScore: 62.5},
		{JobID: jobs[1].ID, MatchScore: 88.0},
	}
	if err := db.ReplaceRecommendations(ctx, cv.ID, first); err != nil {
		t.Fatalf("ReplaceRecommendations failed: %v", err)
	}

	recs, err := db.ListRecommendations(ctx, cv.ID)
	if err != nil {
		t.Fatalf("ListRecommendations failed: %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("Expected 2 recommendations, got %d", len(recs))
	}
	if recs[0].MatchScore != 88.0 || recs[1].MatchScore != 62.5 {
		t.Errorf("Expected descending scores, got %.1f then %.1f",
			recs[0].MatchScore, recs[1].MatchScore)
	}

	// A second run fully replaces the set, never merges.
	second := []Recommendation{{JobID: jobs[0].ID, MatchScore: 71.0}}
	if err := db.ReplaceRecommendations(ctx, cv.ID, second); err != nil {
		t.Fatalf("ReplaceRecommendations failed: %v", err)
	}
	recs, err = db.ListRecommendations(ctx, cv.ID)
	if err != nil {
		t.Fatalf("ListRecommendations failed: %v", err)
	}
	if len(recs) != 1 || recs[0].MatchScore != 71.0 {
		t.Errorf("Expected single replaced recommendation at 71.0, got %v", recs)
	}
}

func TestIntegration_DeleteLowScoreRecommendations(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	cv := mustCreateCV(t, db)
	jobs := mustInsertPostings(t, db,
		testPosting("ML Engineer", ""),
		testPosting("Data Analyst", ""),
		testPosting("Support Engineer", ""))

	recs := []Recommendation{
		{JobID: jobs[0].ID, MatchScore: 85.0},
		{JobID: jobs[1].ID, MatchScore: 45.0},
		{JobID: jobs[2].ID, MatchScore: 25.0},
	}
	if err := db.ReplaceRecommendations(ctx, cv.ID, recs); err != nil {
		t.Fatalf("ReplaceRecommendations failed: %v", err)
	}

	removed, err := db.DeleteLowScoreRecommendations(ctx, 30.0)
	if err != nil {
		t.Fatalf("DeleteLowScoreRecommendations failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 row removed, got %d", removed)
	}

	kept, err := db.ListRecommendations(ctx, cv.ID)
	if err != nil {
		t.Fatalf("ListRecommendations failed: %v", err)
	}
	if len(kept) != 2 {
		t.Errorf("Expected 2 recommendations kept, got %d", len(kept))
	}
}

func TestIntegration_CapRecommendationsPerCV(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	first := mustCreateCV(t, db)
	second := mustCreateCV(t, db)
	jobs := mustInsertPostings(t, db,
		testPosting("Frontend Engineer", ""),
		testPosting("Backend Developer", ""),
		testPosting("Infra Engineer", ""))

	firstRecs := []Recommendation{
		{JobID: jobs[0].ID, MatchScore: 90.0},
		{JobID: jobs[1].ID, MatchScore: 70.0},
		{JobID: jobs[2].ID, MatchScore: 50.0},
	}
	if err := db.ReplaceRecommendations(ctx, first.ID, firstRecs); err != nil {
		t.Fatalf("ReplaceRecommendations failed: %v", err)
	}
	secondRecs := []Recommendation{
		{JobID: jobs[0].ID, MatchScore: 80.0},
		{JobID: jobs[1].ID, MatchScore: 60.0},
	}
	if err := db.ReplaceRecommendations(ctx, second.ID, secondRecs); err != nil {
		t.Fatalf("ReplaceRecommendations failed: %v", err)
	}

	// The cap ranks within each CV, so only the first CV's third row goes.
	removed, err := db.CapRecommendationsPerCV(ctx, 2)
	if err != nil {
		t.Fatalf("CapRecommendationsPerCV failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("Expected 1 row removed, got %d", removed)
	}

	kept, err := db.ListRecommendations(ctx, first.ID)
	if err != nil {
		t.Fatalf("ListRecommendations failed: %v", err)
	}
	if len(kept) != 2 || kept[0].MatchScore != 90.0 || kept[1].MatchScore != 70.0 {
		t.Errorf("Expected top-2 scores 90 and 70 kept, got %v", kept)
	}

	untouched, err := db.ListRecommendations(ctx, second.ID)
	if err != nil {
		t.Fatalf("ListRecommendations failed: %v", err)
	}
	if len(untouched) != 2 {
		t.Errorf("Expected second CV untouched with 2 rows, got %d", len(untouched))
	}
}
