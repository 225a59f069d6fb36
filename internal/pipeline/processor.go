// Package pipeline drives uploaded CVs through extraction, parsing, and
// recommendation generation.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/skillbridge/jobmatcher/internal/cvparse"
	"github.com/skillbridge/jobmatcher/internal/db"
	"github.com/skillbridge/jobmatcher/internal/extract"
)

// DefaultBatchSize bounds how many pending CVs one batch run picks up.
const DefaultBatchSize = 100

// batchConcurrency bounds how many CVs are processed at once.
const batchConcurrency = 4

// Store is the persistence surface for CV processing.
type Store interface {
	GetCVDocument(ctx context.Context, id uuid.UUID) (*db.CVDocument, error)
	UpdateCVStatus(ctx context.Context, id uuid.UUID, status string) error
	ListUnparsedCVDocuments(ctx context.Context, limit int) ([]db.CVDocument, error)
	SaveParseResults(ctx context.Context, cvID uuid.UUID, results *db.ParseResults) error
	UpsertSkillTag(ctx context.Context, name, category string) (uuid.UUID, error)
}

// Recommender regenerates recommendations after a successful parse.
type Recommender interface {
	Recommend(ctx context.Context, cvID uuid.UUID, limit int) ([]db.Recommendation, error)
}

// Stats summarizes one batch run.
type Stats struct {
	Processed int
	Succeeded int
	Failed    int
	Skipped   int
}

// Processor runs single CVs and batches through the parse pipeline.
type Processor struct {
	store       Store
	files       FileStore
	parser      *cvparse.Parser
	recommender Recommender
	logger      *zap.Logger
}

func NewProcessor(store Store, files FileStore, parser *cvparse.Parser, recommender Recommender, logger *zap.Logger) *Processor {
	return &Processor{
		store:       store,
		files:       files,
		parser:      parser,
		recommender: recommender,
		logger:      logger,
	}
}

// ProcessCV runs one CV end to end: extract text, parse it, persist the
// results, and regenerate recommendations. Already-parsed CVs are skipped.
// Any failure marks the document failed; extracted entities are only
// persisted on full success.
func (p *Processor) ProcessCV(ctx context.Context, cvID uuid.UUID) error {
	cv, err := p.store.GetCVDocument(ctx, cvID)
	if err != nil {
		return fmt.Errorf("loading cv %s: %w", cvID, err)
	}
	if cv == nil {
		return fmt.Errorf("cv %s not found", cvID)
	}
	if cv.IsParsed {
		p.logger.Info("cv already parsed, skipping", zap.String("cv_id", cvID.String()))
		return nil
	}

	if err := p.store.UpdateCVStatus(ctx, cvID, db.CVStatusProcessing); err != nil {
		return err
	}

	if err := p.run(ctx, cv); err != nil {
		if statusErr := p.store.UpdateCVStatus(ctx, cvID, db.CVStatusFailed); statusErr != nil {
			p.logger.Error("marking cv failed", zap.String("cv_id", cvID.String()), zap.Error(statusErr))
		}
		return fmt.Errorf("processing cv %s: %w", cvID, err)
	}
	return nil
}

func (p *Processor) run(ctx context.Context, cv *db.CVDocument) error {
	data, err := p.files.Read(ctx, cv)
	if err != nil {
		return err
	}

	extension := strings.TrimPrefix(strings.ToLower(filepath.Ext(cv.OriginalFilename)), ".")
	text, err := extract.Extract(data, extension)
	if err != nil {
		return err
	}

	parsed := p.parser.Parse(text)

	skillIDs, err := p.resolveSkillIDs(ctx, parsed.Skills)
	if err != nil {
		return err
	}

	results := &db.ParseResults{
		ParsedData: parsed,
		SkillIDs:   skillIDs,
		ParsedAt:   parsed.ParsedAt,
	}
	for _, edu := range parsed.Education {
		results.Education = append(results.Education, db.Education{
			Institution: edu.Institution,
			Degree:      edu.Degree,
			Years:       edu.Years,
		})
	}
	for _, exp := range parsed.WorkExperience {
		results.WorkExperience = append(results.WorkExperience, db.WorkExperience{
			Company:     exp.Company,
			Title:       exp.Title,
			Duration:    exp.Duration,
			Description: exp.Description,
		})
	}
	if parsed.Contact.Email != "" || parsed.Contact.Phone != "" {
		results.Contact = &db.ContactInfo{Email: parsed.Contact.Email, Phone: parsed.Contact.Phone}
	}

	if err := p.store.SaveParseResults(ctx, cv.ID, results); err != nil {
		return err
	}

	recs, err := p.recommender.Recommend(ctx, cv.ID, 0)
	if err != nil {
		// The parse itself succeeded and is committed; recommendation
		// failures are retried on the next scheduled run.
		p.logger.Warn("recommendation generation failed",
			zap.String("cv_id", cv.ID.String()), zap.Error(err))
		return nil
	}

	p.logger.Info("cv processed",
		zap.String("cv_id", cv.ID.String()),
		zap.Int("skills", len(parsed.Skills)),
		zap.Int("recommendations", len(recs)))
	return nil
}

// resolveSkillIDs upserts each extracted skill name into the vocabulary
// and returns the tag IDs to link.
func (p *Processor) resolveSkillIDs(ctx context.Context, skills []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(skills))
	for _, name := range skills {
		id, err := p.store.UpsertSkillTag(ctx, name, "")
		if err != nil {
			return nil, fmt.Errorf("resolving skill %q: %w", name, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// ProcessPending picks up unparsed CVs oldest-first and processes them with
// bounded concurrency. Per-CV failures are counted, not propagated, so one
// bad document never stalls the batch.
func (p *Processor) ProcessPending(ctx context.Context, batchSize int) (Stats, error) {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	cvs, err := p.store.ListUnparsedCVDocuments(ctx, batchSize)
	if err != nil {
		return Stats{}, fmt.Errorf("listing pending cvs: %w", err)
	}

	var stats Stats
	stats.Processed = len(cvs)

	results := make([]error, len(cvs))
	skipped := make([]bool, len(cvs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(batchConcurrency)
	for i := range cvs {
		i := i
		g.Go(func() error {
			if cvs[i].IsParsed {
				skipped[i] = true
				return nil
			}
			results[i] = p.ProcessCV(gctx, cvs[i].ID)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return stats, err
	}

	for i := range cvs {
		switch {
		case skipped[i]:
			stats.Skipped++
		case results[i] != nil:
			stats.Failed++
			p.logger.Error("cv processing failed",
				zap.String("cv_id", cvs[i].ID.String()),
				zap.Error(results[i]))
		default:
			stats.Succeeded++
		}
	}

	if stats.Failed > 0 {
		p.logger.Warn("batch finished with failures",
			zap.Int("failed", stats.Failed),
			zap.Int("succeeded", stats.Succeeded))
	}
	return stats, nil
}
