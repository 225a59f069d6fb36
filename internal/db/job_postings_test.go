package db

import (
	"testing"

	"github.com/google/uuid"
)

func TestJobPostingArgs(t *testing.T) {
	p := &JobPosting{
		ID:          uuid.New(),
		Title:       "Go Developer",
		CompanyName: "Acme",
		Tags:        []string{"go", "postgres"},
	}

	args, err := jobPostingArgs(p)
	if err != nil {
		t.Fatalf("jobPostingArgs failed: %v", err)
	}
	if len(args) != 15 {
		t.Fatalf("expected 15 insert arguments, got %d", len(args))
	}
	if args[1] != "Go Developer" {
		t.Errorf("expected title at position 1, got %v", args[1])
	}
	if string(args[8].([]byte)) != `["go","postgres"]` {
		t.Errorf("unexpected tags JSON: %s", args[8])
	}
}

func TestJobPostingArgsNilSlices(t *testing.T) {
	// Nil slices must become JSON arrays, not null, so the JSONB columns
	// always hold a list.
	args, err := jobPostingArgs(&JobPosting{Title: "Engineer", CompanyName: "Acme"})
	if err != nil {
		t.Fatalf("jobPostingArgs failed: %v", err)
	}
	for _, pos := range []int{8, 9, 10} {
		if got := string(args[pos].([]byte)); got != "[]" {
			t.Errorf("expected empty JSON array at position %d, got %s", pos, got)
		}
	}
}

func TestEmptyIfNil(t *testing.T) {
	if got := emptyIfNil(nil); got == nil || len(got) != 0 {
		t.Errorf("emptyIfNil(nil) = %v, want empty slice", got)
	}
	if got := emptyIfNil([]string{"a"}); len(got) != 1 || got[0] != "a" {
		t.Errorf("emptyIfNil kept slice = %v, want [a]", got)
	}
}
