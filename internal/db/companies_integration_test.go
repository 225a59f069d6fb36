//go:build integration

package db

import (
	"context"
	"testing"

	"github.com/google/uuid"
)

func TestIntegration_UpsertCompanyStableID(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	first, err := db.UpsertCompany(ctx, "dbtest Widgets Inc", "https://widgets.example.com")
	if err != nil {
		t.Fatalf("UpsertCompany failed: %v", err)
	}

	second, err := db.UpsertCompany(ctx, "dbtest Widgets Inc", "")
	if err != nil {
		t.Fatalf("UpsertCompany failed: %v", err)
	}
	if first != second {
		t.Errorf("Expected stable id across upserts, got %s then %s", first, second)
	}
}

func TestIntegration_UpsertSkillTagKeepsCategory(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	first, err := db.UpsertSkillTag(ctx, "dbtest-golang", "languages")
	if err != nil {
		t.Fatalf("UpsertSkillTag failed: %v", err)
	}

	second, err := db.UpsertSkillTag(ctx, "dbtest-golang", "")
	if err != nil {
		t.Fatalf("UpsertSkillTag failed: %v", err)
	}
	if first != second {
		t.Errorf("Expected stable id across upserts, got %s then %s", first, second)
	}

	tags, err := db.ListSkillTags(ctx)
	if err != nil {
		t.Fatalf("ListSkillTags failed: %v", err)
	}
	found := false
	for _, tag := range tags {
		if tag.ID == first {
			found = true
			if tag.Category != "languages" {
				t.Errorf("Expected original category kept, got %q", tag.Category)
			}
		}
	}
	if !found {
		t.Error("Upserted skill tag missing from ListSkillTags")
	}
}

func TestIntegration_JobSkillLinks(t *testing.T) {
	db := getTestDB(t)
	defer db.Close()
	ctx := context.Background()

	job := mustInsertPostings(t, db, testPosting("Search Engineer", ""))[0]

	goID, err := db.UpsertSkillTag(ctx, "dbtest-go", "languages")
	if err != nil {
		t.Fatalf("UpsertSkillTag failed: %v", err)
	}
	sqlID, err := db.UpsertSkillTag(ctx, "dbtest-sql", "databases")
	if err != nil {
		t.Fatalf("UpsertSkillTag failed: %v", err)
	}

	ids := []uuid.UUID{goID, sqlID}
	if err := db.AddJobSkills(ctx, job.ID, ids); err != nil {
		t.Fatalf("AddJobSkills failed: %v", err)
	}
	// Linking again is a no-op, not an error.
	if err := db.AddJobSkills(ctx, job.ID, ids); err != nil {
		t.Fatalf("AddJobSkills repeat failed: %v", err)
	}

	byJob, err := db.SkillNamesByJob(ctx)
	if err != nil {
		t.Fatalf("SkillNamesByJob failed: %v", err)
	}
	if len(byJob[job.ID]) != 2 {
		t.Errorf("Expected 2 skill names for job, got %v", byJob[job.ID])
	}
}
