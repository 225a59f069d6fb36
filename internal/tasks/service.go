package tasks

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/skillbridge/jobmatcher/internal/config"
	"github.com/skillbridge/jobmatcher/internal/db"
	"github.com/skillbridge/jobmatcher/internal/ingest"
	"github.com/skillbridge/jobmatcher/internal/matching"
	"github.com/skillbridge/jobmatcher/internal/pipeline"
	"github.com/skillbridge/jobmatcher/internal/recommend"
	"github.com/skillbridge/jobmatcher/internal/sources"
)

// App wires the pipeline components into the Service the scheduler drives.
// The matching engine is optional; without an embedding API key only the
// TF-IDF recommendation path runs.
type App struct {
	cfg          *config.Config
	store        *db.DB
	orchestrator *sources.Orchestrator
	ingester     *ingest.Engine
	recommender  *recommend.Recommender
	matcher      *matching.Engine
	processor    *pipeline.Processor
	logger       *zap.Logger
}

func NewApp(
	cfg *config.Config,
	store *db.DB,
	orchestrator *sources.Orchestrator,
	ingester *ingest.Engine,
	recommender *recommend.Recommender,
	matcher *matching.Engine,
	processor *pipeline.Processor,
	logger *zap.Logger,
) *App {
	return &App{
		cfg:          cfg,
		store:        store,
		orchestrator: orchestrator,
		ingester:     ingester,
		recommender:  recommender,
		matcher:      matcher,
		processor:    processor,
		logger:       logger,
	}
}

// RefreshJobs pulls from every source and ingests the results, then
// refreshes the recommendation corpus over the grown job set.
func (a *App) RefreshJobs(ctx context.Context) (int, error) {
	records := a.orchestrator.FetchAll(ctx, a.cfg.SearchQuery, a.cfg.SearchLocation)
	saved, err := a.ingester.Ingest(ctx, records)
	if err != nil {
		return 0, err
	}
	if err := a.recommender.Refresh(ctx); err != nil {
		return saved, err
	}
	return saved, nil
}

// RebuildEmbeddings re-embeds all jobs and profiles.
func (a *App) RebuildEmbeddings(ctx context.Context) error {
	if a.matcher == nil {
		a.logger.Info("embedding service disabled, skipping rebuild")
		return nil
	}
	return a.matcher.RebuildAllEmbeddings(ctx)
}

// MatchAllProfiles runs the embedding match for every profile, warming the
// per-profile caches. Per-profile failures are logged and skipped.
func (a *App) MatchAllProfiles(ctx context.Context) (int, error) {
	if a.matcher == nil {
		a.logger.Info("embedding service disabled, skipping matching")
		return 0, nil
	}
	profiles, err := a.store.ListProfiles(ctx)
	if err != nil {
		return 0, err
	}
	matched := 0
	for _, profile := range profiles {
		if _, err := a.matcher.MatchProfileToJobs(ctx, profile.ID, 0); err != nil {
			a.logger.Warn("profile matching failed",
				zap.String("profile_id", profile.ID.String()),
				zap.Error(err))
			continue
		}
		matched++
	}
	return matched, nil
}

// RemoveExpiredJobs deletes postings older than the configured expiry.
func (a *App) RemoveExpiredJobs(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -a.cfg.JobExpiryDays)
	return a.store.DeleteJobPostingsBefore(ctx, cutoff)
}

// ProcessPendingCVs runs the CV batch pipeline.
func (a *App) ProcessPendingCVs(ctx context.Context) (pipeline.Stats, error) {
	return a.processor.ProcessPending(ctx, pipeline.DefaultBatchSize)
}

// PruneRecommendations drops low-score and over-cap recommendations.
func (a *App) PruneRecommendations(ctx context.Context) error {
	return a.recommender.Prune(ctx, recommend.DefaultMinKeepScore, a.cfg.MaxPerCV)
}
