// Package tasks schedules the background maintenance work: job refresh,
// embedding rebuilds, batch matching, CV processing, and cleanup. Every
// task runs under a distributed lock so concurrent instances never double
// up; a held lock means another instance is already on it, and the run is
// skipped.
package tasks

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/skillbridge/jobmatcher/internal/locks"
	"github.com/skillbridge/jobmatcher/internal/pipeline"
)

// Lock names and expiries per task. Expiries cover a hung holder; they are
// deliberately longer than any healthy run.
const (
	lockRefreshJobs   = "refresh_job_listings"
	lockUpdateEmbeds  = "update_embeddings"
	lockMatchAllUsers = "match_all_users"
	lockRemoveOldJobs = "remove_old_jobs"
	lockProcessCVs    = "process_pending_cvs"
	lockPruneRecs     = "prune_recommendations"

	refreshJobsTTL   = time.Hour
	updateEmbedsTTL  = 2 * time.Hour
	matchAllTTL      = time.Hour
	removeOldJobsTTL = 30 * time.Minute
	processCVsTTL    = time.Hour
	pruneRecsTTL     = 30 * time.Minute
)

// Service is the application surface the scheduled tasks drive.
type Service interface {
	RefreshJobs(ctx context.Context) (int, error)
	RebuildEmbeddings(ctx context.Context) error
	MatchAllProfiles(ctx context.Context) (int, error)
	RemoveExpiredJobs(ctx context.Context) (int64, error)
	ProcessPendingCVs(ctx context.Context) (pipeline.Stats, error)
	PruneRecommendations(ctx context.Context) error
}

// Locker serializes task runs across instances. Satisfied by
// locks.Manager.
type Locker interface {
	WithLock(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) error
}

// Runner owns the cron schedule and runs each task under its lock.
type Runner struct {
	cron   *cron.Cron
	svc    Service
	locks  Locker
	logger *zap.Logger
}

func NewRunner(svc Service, lockMgr Locker, logger *zap.Logger) *Runner {
	return &Runner{
		cron:   cron.New(),
		svc:    svc,
		locks:  lockMgr,
		logger: logger,
	}
}

// Start registers the schedule and starts the cron loop.
func (r *Runner) Start(ctx context.Context) error {
	schedule := []struct {
		spec string
		name string
		ttl  time.Duration
		run  func(context.Context) error
	}{
		{"@every 6h", lockRefreshJobs, refreshJobsTTL, r.refreshJobs},
		{"@weekly", lockUpdateEmbeds, updateEmbedsTTL, r.svc.RebuildEmbeddings},
		{"@daily", lockMatchAllUsers, matchAllTTL, r.matchAllProfiles},
		{"@daily", lockRemoveOldJobs, removeOldJobsTTL, r.removeExpiredJobs},
		{"@every 1h", lockProcessCVs, processCVsTTL, r.processPendingCVs},
		{"@daily", lockPruneRecs, pruneRecsTTL, r.svc.PruneRecommendations},
	}

	for _, entry := range schedule {
		if _, err := r.cron.AddFunc(entry.spec, func() {
			r.runLocked(ctx, entry.name, entry.ttl, entry.run)
		}); err != nil {
			return err
		}
	}

	r.cron.Start()
	r.logger.Info("task scheduler started", zap.Int("tasks", len(schedule)))
	return nil
}

// Stop shuts the scheduler down and waits for running jobs.
func (r *Runner) Stop() {
	<-r.cron.Stop().Done()
	r.logger.Info("task scheduler stopped")
}

// runLocked executes one task under its distributed lock. A lock held by
// another instance downgrades the run to a debug-logged skip.
func (r *Runner) runLocked(ctx context.Context, name string, ttl time.Duration, fn func(context.Context) error) {
	err := r.locks.WithLock(ctx, name, ttl, func(ctx context.Context) error {
		r.logger.Info("task started", zap.String("task", name))
		return fn(ctx)
	})
	switch {
	case errors.Is(err, locks.ErrLockHeld):
		r.logger.Debug("task skipped, lock held elsewhere", zap.String("task", name))
	case err != nil:
		r.logger.Error("task failed", zap.String("task", name), zap.Error(err))
	default:
		r.logger.Info("task finished", zap.String("task", name))
	}
}

func (r *Runner) refreshJobs(ctx context.Context) error {
	saved, err := r.svc.RefreshJobs(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("job listings refreshed", zap.Int("new_jobs", saved))
	return nil
}

func (r *Runner) matchAllProfiles(ctx context.Context) error {
	matched, err := r.svc.MatchAllProfiles(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("profiles matched", zap.Int("profiles", matched))
	return nil
}

func (r *Runner) removeExpiredJobs(ctx context.Context) error {
	removed, err := r.svc.RemoveExpiredJobs(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("expired jobs removed", zap.Int64("removed", removed))
	return nil
}

func (r *Runner) processPendingCVs(ctx context.Context) error {
	stats, err := r.svc.ProcessPendingCVs(ctx)
	if err != nil {
		return err
	}
	r.logger.Info("pending cvs processed",
		zap.Int("succeeded", stats.Succeeded),
		zap.Int("failed", stats.Failed),
		zap.Int("skipped", stats.Skipped))
	return nil
}
