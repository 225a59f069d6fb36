package ingest

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// ErrSlugExhausted is returned when a unique slug cannot be generated within
// the retry budget. Ingestion fails closed for that record.
var ErrSlugExhausted = errors.New("slug retry budget exhausted")

// maxSlugRetries bounds the collision-suffix attempts per record.
const maxSlugRetries = 10

var nonSlugChars = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases and hyphenates a title into slug form.
func Slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = nonSlugChars.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}

// randomSuffix returns n characters of uuid-derived randomness.
func randomSuffix(n int) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:n]
}

// slugChecker reports whether a slug is already taken in the store.
type slugChecker interface {
	SlugExists(ctx context.Context, slug string) (bool, error)
}

// uniqueSlug derives a slug from the title that collides neither with the
// store nor with slugs already claimed in this batch. A missing title
// synthesizes a job-posting-<random8> slug. On collision a short random
// suffix is appended and the check retried; the budget failing closed is an
// explicit error, not a silent overwrite.
func uniqueSlug(ctx context.Context, store slugChecker, title string, taken map[string]struct{}) (string, error) {
	base := Slugify(title)
	if base == "" {
		base = "job-posting-" + randomSuffix(8)
	}

	candidate := base
	for attempt := 0; attempt <= maxSlugRetries; attempt++ {
		if _, inBatch := taken[candidate]; !inBatch {
			exists, err := store.SlugExists(ctx, candidate)
			if err != nil {
				return "", err
			}
			if !exists {
				return candidate, nil
			}
		}
		candidate = base + "-" + randomSuffix(6)
	}
	return "", ErrSlugExhausted
}
