package matching

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillbridge/jobmatcher/internal/db"
	"github.com/skillbridge/jobmatcher/internal/vectorindex"
)

const (
	// DefaultLimit caps results per match query.
	DefaultLimit = 20

	// matchCacheTTL is how long profile match results stay cached.
	matchCacheTTL = 24 * time.Hour
)

// Store is the persistence surface the engine reads entities from and
// writes match records to.
type Store interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error)
	ListProfiles(ctx context.Context) ([]db.Profile, error)
	GetJobPostingByID(ctx context.Context, id uuid.UUID) (*db.JobPosting, error)
	ListJobPostings(ctx context.Context) ([]db.JobPosting, error)
	SkillNamesByJob(ctx context.Context) (map[uuid.UUID][]string, error)
	UpsertMatch(ctx context.Context, profileID, jobID uuid.UUID, score float64) error
}

// VectorStore holds embeddings keyed by "job:<id>" / "profile:<id>".
type VectorStore interface {
	Put(ctx context.Context, key string, vector []float32) error
	Get(ctx context.Context, key string) ([]float32, error)
	Search(ctx context.Context, namespace string, query []float32, limit int) ([]vectorindex.Hit, error)
}

// Cacher caches match results between runs.
type Cacher interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
}

// JobMatch is one job result for a profile query.
type JobMatch struct {
	JobID      uuid.UUID `json:"job_id"`
	Title      string    `json:"title"`
	Company    string    `json:"company"`
	Location   string    `json:"location"`
	MatchScore float64   `json:"match_score"`
	URL        string    `json:"url,omitempty"`
}

// ProfileMatch is one profile result for a job query.
type ProfileMatch struct {
	ProfileID  uuid.UUID `json:"profile_id"`
	FullName   string    `json:"full_name"`
	MatchScore float64   `json:"match_score"`
}

// Engine matches profiles and jobs via their embeddings. Embeddings are
// created on first use and can be rebuilt in bulk.
type Engine struct {
	store    Store
	vectors  VectorStore
	cache    Cacher
	embedder Embedder
	logger   *zap.Logger
}

func NewEngine(store Store, vectors VectorStore, cache Cacher, embedder Embedder, logger *zap.Logger) *Engine {
	return &Engine{store: store, vectors: vectors, cache: cache, embedder: embedder, logger: logger}
}

func jobKey(id uuid.UUID) string     { return "job:" + id.String() }
func profileKey(id uuid.UUID) string { return "profile:" + id.String() }

func matchCacheKey(profileID uuid.UUID) string {
	return "matches:profile:" + profileID.String()
}

// jobText flattens the fields that describe a job for embedding.
func jobText(job *db.JobPosting, skills []string) string {
	return job.Title + " " + job.Description + " " + strings.Join(skills, " ")
}

// profileText flattens the candidate's skills, experience, and preferences.
func profileText(profile *db.Profile) string {
	parts := []string{
		strings.Join(profile.Skills, " "),
		strings.Join(profile.Experience, " "),
		profile.DesiredRole,
		profile.DesiredIndustry,
		profile.LocationPreference,
	}
	return strings.Join(parts, " ")
}

// EmbedJob creates and stores the embedding for one job posting.
func (e *Engine) EmbedJob(ctx context.Context, job *db.JobPosting, skills []string) ([]float32, error) {
	vector, err := e.embedder.Embed(ctx, jobText(job, skills))
	if err != nil {
		return nil, fmt.Errorf("embedding job %s: %w", job.ID, err)
	}
	if err := e.vectors.Put(ctx, jobKey(job.ID), vector); err != nil {
		return nil, err
	}
	return vector, nil
}

// EmbedProfile creates and stores the embedding for one profile.
func (e *Engine) EmbedProfile(ctx context.Context, profile *db.Profile) ([]float32, error) {
	vector, err := e.embedder.Embed(ctx, profileText(profile))
	if err != nil {
		return nil, fmt.Errorf("embedding profile %s: %w", profile.ID, err)
	}
	if err := e.vectors.Put(ctx, profileKey(profile.ID), vector); err != nil {
		return nil, err
	}
	return vector, nil
}

// MatchProfileToJobs finds the jobs nearest to a profile's embedding,
// upserting a match record per hit. Results are served from cache for 24
// hours; the profile embedding is created on first use.
func (e *Engine) MatchProfileToJobs(ctx context.Context, profileID uuid.UUID, limit int) ([]JobMatch, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	cacheKey := matchCacheKey(profileID)
	var cached []JobMatch
	if hit, err := e.cache.Get(ctx, cacheKey, &cached); err != nil {
		e.logger.Warn("match cache read failed", zap.Error(err))
	} else if hit {
		return cached, nil
	}

	vector, err := e.vectors.Get(ctx, profileKey(profileID))
	if err != nil {
		return nil, err
	}
	if vector == nil {
		profile, err := e.store.GetProfile(ctx, profileID)
		if err != nil {
			return nil, fmt.Errorf("loading profile %s: %w", profileID, err)
		}
		if profile == nil {
			return nil, fmt.Errorf("profile %s not found", profileID)
		}
		if vector, err = e.EmbedProfile(ctx, profile); err != nil {
			return nil, err
		}
	}

	hits, err := e.vectors.Search(ctx, "job", vector, limit)
	if err != nil {
		return nil, err
	}

	results := make([]JobMatch, 0, len(hits))
	for _, hit := range hits {
		jobID, err := uuid.Parse(strings.TrimPrefix(hit.Key, "job:"))
		if err != nil {
			continue
		}
		job, err := e.store.GetJobPostingByID(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("loading job %s: %w", jobID, err)
		}
		if job == nil {
			continue
		}
		if err := e.store.UpsertMatch(ctx, profileID, jobID, hit.Score); err != nil {
			return nil, fmt.Errorf("saving match: %w", err)
		}
		results = append(results, JobMatch{
			JobID:      jobID,
			Title:      job.Title,
			Company:    job.CompanyName,
			Location:   job.Location,
			MatchScore: hit.Score,
			URL:        job.ExternalLink,
		})
	}

	if err := e.cache.Set(ctx, cacheKey, results, matchCacheTTL); err != nil {
		e.logger.Warn("match cache write failed", zap.Error(err))
	}
	return results, nil
}

// MatchJobToProfiles finds the profiles nearest to a job's embedding,
// upserting a match record per hit. Job-side queries are not cached.
func (e *Engine) MatchJobToProfiles(ctx context.Context, jobID uuid.UUID, limit int) ([]ProfileMatch, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	vector, err := e.vectors.Get(ctx, jobKey(jobID))
	if err != nil {
		return nil, err
	}
	if vector == nil {
		job, err := e.store.GetJobPostingByID(ctx, jobID)
		if err != nil {
			return nil, fmt.Errorf("loading job %s: %w", jobID, err)
		}
		if job == nil {
			return nil, fmt.Errorf("job %s not found", jobID)
		}
		skillsByJob, err := e.store.SkillNamesByJob(ctx)
		if err != nil {
			return nil, fmt.Errorf("loading job skills: %w", err)
		}
		if vector, err = e.EmbedJob(ctx, job, skillsByJob[jobID]); err != nil {
			return nil, err
		}
	}

	hits, err := e.vectors.Search(ctx, "profile", vector, limit)
	if err != nil {
		return nil, err
	}

	results := make([]ProfileMatch, 0, len(hits))
	for _, hit := range hits {
		profileID, err := uuid.Parse(strings.TrimPrefix(hit.Key, "profile:"))
		if err != nil {
			continue
		}
		profile, err := e.store.GetProfile(ctx, profileID)
		if err != nil {
			return nil, fmt.Errorf("loading profile %s: %w", profileID, err)
		}
		if profile == nil {
			continue
		}
		if err := e.store.UpsertMatch(ctx, profileID, jobID, hit.Score); err != nil {
			return nil, fmt.Errorf("saving match: %w", err)
		}
		results = append(results, ProfileMatch{
			ProfileID:  profileID,
			FullName:   profile.FullName,
			MatchScore: hit.Score,
		})
	}
	return results, nil
}

// RebuildAllEmbeddings re-embeds every job posting and profile. Individual
// failures are logged and skipped so one bad record never aborts the run.
func (e *Engine) RebuildAllEmbeddings(ctx context.Context) error {
	jobs, err := e.store.ListJobPostings(ctx)
	if err != nil {
		return fmt.Errorf("listing job postings: %w", err)
	}
	skillsByJob, err := e.store.SkillNamesByJob(ctx)
	if err != nil {
		return fmt.Errorf("loading job skills: %w", err)
	}
	for i := range jobs {
		if _, err := e.EmbedJob(ctx, &jobs[i], skillsByJob[jobs[i].ID]); err != nil {
			e.logger.Warn("job embedding failed",
				zap.String("job_id", jobs[i].ID.String()),
				zap.Error(err))
		}
	}

	profiles, err := e.store.ListProfiles(ctx)
	if err != nil {
		return fmt.Errorf("listing profiles: %w", err)
	}
	for i := range profiles {
		if _, err := e.EmbedProfile(ctx, &profiles[i]); err != nil {
			e.logger.Warn("profile embedding failed",
				zap.String("profile_id", profiles[i].ID.String()),
				zap.Error(err))
		}
	}

	e.logger.Info("embeddings rebuilt",
		zap.Int("jobs", len(jobs)),
		zap.Int("profiles", len(profiles)))
	return nil
}
