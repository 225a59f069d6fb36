// Package ingest deduplicates and persists canonical job postings fetched
// from the source adapters.
package ingest

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillbridge/jobmatcher/internal/db"
	"github.com/skillbridge/jobmatcher/internal/sources"
)

// Store is the relational surface the ingestion engine needs.
type Store interface {
	ExternalLinkSet(ctx context.Context) (map[string]struct{}, error)
	TitleCompanySet(ctx context.Context) (map[db.TitleCompany]struct{}, error)
	SlugExists(ctx context.Context, slug string) (bool, error)
	InsertJobPostings(ctx context.Context, postings []db.JobPosting) (int, error)
	UpsertCompany(ctx context.Context, name, website string) (uuid.UUID, error)
	UpsertSkillTag(ctx context.Context, name, category string) (uuid.UUID, error)
	AddJobSkills(ctx context.Context, jobID uuid.UUID, skillIDs []uuid.UUID) error
}

// Engine filters, deduplicates and bulk-persists raw source records.
type Engine struct {
	store  Store
	logger *zap.Logger
}

// NewEngine builds an ingestion engine over the store.
func NewEngine(store Store, logger *zap.Logger) *Engine {
	return &Engine{store: store, logger: logger}
}

// Ingest runs one dedup batch over raw records and returns the count of
// postings actually persisted. Duplicate detection works against a snapshot
// of the existing link and (title, company) sets taken at batch start, plus
// the records already accepted within the batch. Individual records that
// still violate a constraint at persist time are silently dropped; only an
// exhausted slug budget or a store failure aborts the batch.
func (e *Engine) Ingest(ctx context.Context, records []sources.RawRecord) (int, error) {
	links, err := e.store.ExternalLinkSet(ctx)
	if err != nil {
		return 0, err
	}
	pairs, err := e.store.TitleCompanySet(ctx)
	if err != nil {
		return 0, err
	}

	takenSlugs := make(map[string]struct{})
	var accepted []db.JobPosting

	for _, record := range records {
		if record == nil || !sources.HasRequiredTriplet(record) {
			continue
		}

		posting, ok := sources.Normalize(record)
		if !ok {
			// No title-like field at all; dropped before persistence.
			continue
		}

		if posting.ExternalLink != "" {
			if _, dup := links[posting.ExternalLink]; dup {
				continue
			}
		}
		pair := db.TitleCompany{Title: posting.Title, Company: posting.CompanyName}
		if _, dup := pairs[pair]; dup {
			continue
		}

		slug, err := uniqueSlug(ctx, e.store, posting.Title, takenSlugs)
		if err != nil {
			return 0, err
		}
		posting.Slug = slug
		posting.ID = uuid.New()

		accepted = append(accepted, posting)
		takenSlugs[slug] = struct{}{}
		if posting.ExternalLink != "" {
			links[posting.ExternalLink] = struct{}{}
		}
		pairs[pair] = struct{}{}
	}

	if len(accepted) == 0 {
		e.logger.Info("ingest batch: no new postings")
		return 0, nil
	}

	saved, err := e.store.InsertJobPostings(ctx, accepted)
	if err != nil {
		return 0, err
	}

	e.attachReferences(ctx, accepted)

	e.logger.Info("ingest batch complete",
		zap.Int("received", len(records)),
		zap.Int("accepted", len(accepted)),
		zap.Int("saved", saved))
	return saved, nil
}

// attachReferences lazily creates the company and skill rows referenced by
// accepted postings. Upserts are idempotent, so postings dropped during the
// per-row fallback only leave harmless reference rows behind.
func (e *Engine) attachReferences(ctx context.Context, postings []db.JobPosting) {
	for _, posting := range postings {
		if _, err := e.store.UpsertCompany(ctx, posting.CompanyName, ""); err != nil {
			e.logger.Warn("company upsert failed",
				zap.String("company", posting.CompanyName), zap.Error(err))
		}

		var skillIDs []uuid.UUID
		for _, tag := range posting.Tags {
			id, err := e.store.UpsertSkillTag(ctx, tag, "uncategorized")
			if err != nil {
				e.logger.Warn("skill upsert failed", zap.String("skill", tag), zap.Error(err))
				continue
			}
			skillIDs = append(skillIDs, id)
		}
		if len(skillIDs) > 0 {
			if err := e.store.AddJobSkills(ctx, posting.ID, skillIDs); err != nil {
				e.logger.Warn("job skill link failed",
					zap.String("job", posting.ID.String()), zap.Error(err))
			}
		}
	}
}
