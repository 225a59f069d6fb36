package recommend

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/skillbridge/jobmatcher/internal/db"
)

// Blend weights and cutoffs for combining content and activity similarity.
const (
	contentWeight  = 0.7
	activityWeight = 0.3

	// Raw combined similarities below this do not produce a recommendation.
	minRawScore = 0.1

	// DefaultLimit caps how many recommendations one run keeps per CV.
	DefaultLimit = 10

	// DefaultMinKeepScore is the housekeeping floor on stored match scores.
	DefaultMinKeepScore = 30.0
)

// Activity weights by interaction type. Unknown types count as a view.
var activityTypeWeights = map[string]float64{
	db.ActivityApplied: 2.0,
	db.ActivitySaved:   1.5,
	db.ActivityViewed:  1.0,
}

// Store is the persistence surface the recommender reads from and writes to.
type Store interface {
	ListJobPostings(ctx context.Context) ([]db.JobPosting, error)
	SkillNamesByJob(ctx context.Context) (map[uuid.UUID][]string, error)
	GetCVDocument(ctx context.Context, id uuid.UUID) (*db.CVDocument, error)
	CVSkillNames(ctx context.Context, cvID uuid.UUID) ([]string, error)
	CVWorkExperience(ctx context.Context, cvID uuid.UUID) ([]db.WorkExperience, error)
	ListActivityByUser(ctx context.Context, userID uuid.UUID) ([]db.ActivityEvent, error)
	ReplaceRecommendations(ctx context.Context, cvID uuid.UUID, recs []db.Recommendation) error
	DeleteLowScoreRecommendations(ctx context.Context, minScore float64) (int64, error)
	CapRecommendationsPerCV(ctx context.Context, maxPerCV int) (int64, error)
}

// Recommender scores open job postings against CVs. Refresh builds the
// TF-IDF corpus over current postings; Recommend runs one CV through it.
type Recommender struct {
	store  Store
	logger *zap.Logger

	vectorizer *Vectorizer
	jobs       []db.JobPosting
	jobVectors []Vector
	jobIndex   map[uuid.UUID]int
}

func New(store Store, logger *zap.Logger) *Recommender {
	return &Recommender{store: store, logger: logger}
}

// Refresh rebuilds the job corpus from the store. Each job's document is
// its title, description, and attached skill names. An empty store leaves
// the recommender with an empty corpus, which Recommend treats as "no
// recommendations" rather than an error.
func (r *Recommender) Refresh(ctx context.Context) error {
	jobs, err := r.store.ListJobPostings(ctx)
	if err != nil {
		return fmt.Errorf("listing job postings: %w", err)
	}
	skillsByJob, err := r.store.SkillNamesByJob(ctx)
	if err != nil {
		return fmt.Errorf("loading job skills: %w", err)
	}

	r.jobs = jobs
	r.jobIndex = make(map[uuid.UUID]int, len(jobs))
	r.vectorizer = &Vectorizer{}
	r.jobVectors = nil
	if len(jobs) == 0 {
		return nil
	}

	docs := make([]string, len(jobs))
	for i, job := range jobs {
		r.jobIndex[job.ID] = i
		doc := job.Title + " " + job.Description + " "
		for _, skill := range skillsByJob[job.ID] {
			doc += skill + " "
		}
		docs[i] = doc
	}
	r.jobVectors = r.vectorizer.Fit(docs)
	return nil
}

// Recommend scores every corpus job against the CV, blending content
// similarity with the owner's activity profile, and replaces the CV's
// stored recommendations with the top results. Scores are stored on a
// 0-100 scale rounded to one decimal place.
func (r *Recommender) Recommend(ctx context.Context, cvID uuid.UUID, limit int) ([]db.Recommendation, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	cv, err := r.store.GetCVDocument(ctx, cvID)
	if err != nil {
		return nil, fmt.Errorf("loading cv %s: %w", cvID, err)
	}
	if cv == nil {
		return nil, fmt.Errorf("cv %s not found", cvID)
	}

	if len(r.jobs) == 0 {
		if err := r.store.ReplaceRecommendations(ctx, cvID, nil); err != nil {
			return nil, fmt.Errorf("clearing recommendations: %w", err)
		}
		return nil, nil
	}

	cvText, err := r.cvText(ctx, cvID)
	if err != nil {
		return nil, err
	}
	cvVector := r.vectorizer.Transform(cvText)

	activityScores, err := r.activityScores(ctx, cv.OwnerID)
	if err != nil {
		return nil, err
	}

	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(r.jobs))
	for i := range r.jobs {
		combined := contentWeight*Cosine(cvVector, r.jobVectors[i]) + activityWeight*activityScores[i]
		ranked[i] = scored{idx: i, score: combined}
	}
	sort.SliceStable(ranked, func(i, j int) bool { return ranked[i].score > ranked[j].score })

	var recs []db.Recommendation
	for _, s := range ranked {
		if len(recs) >= limit {
			break
		}
		if s.score < minRawScore {
			continue
		}
		recs = append(recs, db.Recommendation{
			CVID:       cvID,
			JobID:      r.jobs[s.idx].ID,
			MatchScore: math.Round(s.score*1000) / 10,
		})
	}

	if err := r.store.ReplaceRecommendations(ctx, cvID, recs); err != nil {
		return nil, fmt.Errorf("saving recommendations: %w", err)
	}
	r.logger.Debug("recommendations updated",
		zap.String("cv_id", cvID.String()),
		zap.Int("count", len(recs)))
	return recs, nil
}

// cvText flattens the CV's extracted skills and work history into one
// document for vectorization.
func (r *Recommender) cvText(ctx context.Context, cvID uuid.UUID) (string, error) {
	skills, err := r.store.CVSkillNames(ctx, cvID)
	if err != nil {
		return "", fmt.Errorf("loading cv skills: %w", err)
	}
	experience, err := r.store.CVWorkExperience(ctx, cvID)
	if err != nil {
		return "", fmt.Errorf("loading cv work experience: %w", err)
	}

	text := ""
	for _, skill := range skills {
		text += skill + " "
	}
	for _, exp := range experience {
		text += exp.Title + " " + exp.Description + " "
	}
	return text, nil
}

// activityScores builds a per-job similarity from the user's interaction
// history: the vectors of interacted jobs are summed with per-type weights
// and the sum is compared to every corpus job. A user with no history
// contributes all zeros.
func (r *Recommender) activityScores(ctx context.Context, userID uuid.UUID) ([]float64, error) {
	scores := make([]float64, len(r.jobs))
	activities, err := r.store.ListActivityByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user activity: %w", err)
	}
	if len(activities) == 0 {
		return scores, nil
	}

	profile := make(Vector)
	for _, activity := range activities {
		idx, ok := r.jobIndex[activity.JobID]
		if !ok {
			continue
		}
		weight, ok := activityTypeWeights[activity.Type]
		if !ok {
			weight = 1.0
		}
		profile.Add(r.jobVectors[idx], weight)
	}
	if profile.IsZero() {
		return scores, nil
	}

	profile = normalize(profile)
	for i := range r.jobs {
		scores[i] = Cosine(profile, r.jobVectors[i])
	}
	return scores, nil
}

// Prune removes stale recommendations: anything below minKeepScore and
// anything past the per-CV cap. Both run store-side.
func (r *Recommender) Prune(ctx context.Context, minKeepScore float64, maxPerCV int) error {
	removed, err := r.store.DeleteLowScoreRecommendations(ctx, minKeepScore)
	if err != nil {
		return fmt.Errorf("deleting low-score recommendations: %w", err)
	}
	capped, err := r.store.CapRecommendationsPerCV(ctx, maxPerCV)
	if err != nil {
		return fmt.Errorf("capping recommendations per cv: %w", err)
	}
	if removed+capped > 0 {
		r.logger.Info("pruned recommendations",
			zap.Int64("low_score", removed),
			zap.Int64("over_cap", capped))
	}
	return nil
}
