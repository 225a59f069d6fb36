package matching

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillbridge/jobmatcher/internal/db"
	"github.com/skillbridge/jobmatcher/internal/vectorindex"
)

type fakeMatchStore struct {
	profiles map[uuid.UUID]*db.Profile
	jobs     map[uuid.UUID]*db.JobPosting
	skills   map[uuid.UUID][]string
	matches  map[[2]uuid.UUID]float64
}

func newFakeMatchStore() *fakeMatchStore {
	return &fakeMatchStore{
		profiles: map[uuid.UUID]*db.Profile{},
		jobs:     map[uuid.UUID]*db.JobPosting{},
		skills:   map[uuid.UUID][]string{},
		matches:  map[[2]uuid.UUID]float64{},
	}
}

func (f *fakeMatchStore) GetProfile(ctx context.Context, id uuid.UUID) (*db.Profile, error) {
	return f.profiles[id], nil
}

func (f *fakeMatchStore) ListProfiles(ctx context.Context) ([]db.Profile, error) {
	var out []db.Profile
	for _, p := range f.profiles {
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeMatchStore) GetJobPostingByID(ctx context.Context, id uuid.UUID) (*db.JobPosting, error) {
	return f.jobs[id], nil
}

func (f *fakeMatchStore) ListJobPostings(ctx context.Context) ([]db.JobPosting, error) {
	var out []db.JobPosting
	for _, j := range f.jobs {
		out = append(out, *j)
	}
	return out, nil
}

func (f *fakeMatchStore) SkillNamesByJob(ctx context.Context) (map[uuid.UUID][]string, error) {
	return f.skills, nil
}

func (f *fakeMatchStore) UpsertMatch(ctx context.Context, profileID, jobID uuid.UUID, score float64) error {
	f.matches[[2]uuid.UUID{profileID, jobID}] = score
	return nil
}

type fakeVectorStore struct {
	vectors map[string][]float32
}

func newFakeVectorStore() *fakeVectorStore {
	return &fakeVectorStore{vectors: map[string][]float32{}}
}

func (f *fakeVectorStore) Put(ctx context.Context, key string, vector []float32) error {
	f.vectors[key] = vector
	return nil
}

func (f *fakeVectorStore) Get(ctx context.Context, key string) ([]float32, error) {
	return f.vectors[key], nil
}

func (f *fakeVectorStore) Search(ctx context.Context, namespace string, query []float32, limit int) ([]vectorindex.Hit, error) {
	var hits []vectorindex.Hit
	for key, vec := range f.vectors {
		if !strings.HasPrefix(key, namespace+":") {
			continue
		}
		hits = append(hits, vectorindex.Hit{Key: key, Score: vectorindex.Cosine(query, vec)})
	}
	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

type fakeCache struct {
	data map[string][]byte
	gets int
	sets int
}

func newFakeCache() *fakeCache {
	return &fakeCache{data: map[string][]byte{}}
}

func (f *fakeCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	f.gets++
	data, ok := f.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(data, dest)
}

func (f *fakeCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	f.sets++
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	f.data[key] = data
	return nil
}

// fakeEmbedder maps each known substring to a fixed axis so texts sharing
// terms get similar vectors.
type fakeEmbedder struct {
	terms []string
	calls int
}

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	f.calls++
	vec := make([]float32, len(f.terms))
	lower := strings.ToLower(text)
	for i, term := range f.terms {
		if strings.Contains(lower, term) {
			vec[i] = 1
		}
	}
	return vec, nil
}

func (f *fakeEmbedder) Close() error { return nil }

func testEngine(store *fakeMatchStore, vectors *fakeVectorStore, cache *fakeCache, embedder *fakeEmbedder) *Engine {
	return NewEngine(store, vectors, cache, embedder, zap.NewNop())
}

func TestMatchProfileToJobsCreatesEmbeddingOnMiss(t *testing.T) {
	store := newFakeMatchStore()
	vectors := newFakeVectorStore()
	embedder := &fakeEmbedder{terms: []string{"golang", "cooking"}}

	profileID := uuid.New()
	store.profiles[profileID] = &db.Profile{ID: profileID, Skills: []string{"golang"}}
	goJob := uuid.New()
	store.jobs[goJob] = &db.JobPosting{ID: goJob, Title: "Golang Developer"}
	vectors.vectors["job:"+goJob.String()] = []float32{1, 0}
	chefJob := uuid.New()
	store.jobs[chefJob] = &db.JobPosting{ID: chefJob, Title: "Chef"}
	vectors.vectors["job:"+chefJob.String()] = []float32{0, 1}

	e := testEngine(store, vectors, newFakeCache(), embedder)
	results, err := e.MatchProfileToJobs(context.Background(), profileID, 0)
	require.NoError(t, err)

	assert.Equal(t, 1, embedder.calls, "profile embedding created once on miss")
	assert.NotNil(t, vectors.vectors["profile:"+profileID.String()])
	require.NotEmpty(t, results)
	assert.Equal(t, goJob, results[0].JobID)
	assert.Contains(t, store.matches, [2]uuid.UUID{profileID, goJob})
}

func TestMatchProfileToJobsServedFromCache(t *testing.T) {
	store := newFakeMatchStore()
	vectors := newFakeVectorStore()
	cache := newFakeCache()
	embedder := &fakeEmbedder{terms: []string{"golang"}}

	profileID := uuid.New()
	store.profiles[profileID] = &db.Profile{ID: profileID, Skills: []string{"golang"}}
	jobID := uuid.New()
	store.jobs[jobID] = &db.JobPosting{ID: jobID, Title: "Golang Developer"}
	vectors.vectors["job:"+jobID.String()] = []float32{1}

	e := testEngine(store, vectors, cache, embedder)
	first, err := e.MatchProfileToJobs(context.Background(), profileID, 0)
	require.NoError(t, err)
	second, err := e.MatchProfileToJobs(context.Background(), profileID, 0)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, embedder.calls, "second call must not re-embed")
	assert.Equal(t, 1, cache.sets, "second call must not rewrite the cache")
}

func TestMatchProfileToJobsUnknownProfile(t *testing.T) {
	e := testEngine(newFakeMatchStore(), newFakeVectorStore(), newFakeCache(), &fakeEmbedder{})
	_, err := e.MatchProfileToJobs(context.Background(), uuid.New(), 0)
	assert.Error(t, err)
}

func TestMatchProfileToJobsRespectsLimit(t *testing.T) {
	store := newFakeMatchStore()
	vectors := newFakeVectorStore()
	embedder := &fakeEmbedder{terms: []string{"golang"}}

	profileID := uuid.New()
	store.profiles[profileID] = &db.Profile{ID: profileID, Skills: []string{"golang"}}
	for i := 0; i < 5; i++ {
		jobID := uuid.New()
		store.jobs[jobID] = &db.JobPosting{ID: jobID, Title: "Golang Developer"}
		vectors.vectors["job:"+jobID.String()] = []float32{1}
	}

	e := testEngine(store, vectors, newFakeCache(), embedder)
	results, err := e.MatchProfileToJobs(context.Background(), profileID, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMatchJobToProfilesCreatesEmbeddingOnMiss(t *testing.T) {
	store := newFakeMatchStore()
	vectors := newFakeVectorStore()
	embedder := &fakeEmbedder{terms: []string{"golang"}}

	jobID := uuid.New()
	store.jobs[jobID] = &db.JobPosting{ID: jobID, Title: "Golang Developer"}
	store.skills[jobID] = []string{"golang"}
	profileID := uuid.New()
	store.profiles[profileID] = &db.Profile{ID: profileID, FullName: "Ada Lovelace"}
	vectors.vectors["profile:"+profileID.String()] = []float32{1}

	e := testEngine(store, vectors, newFakeCache(), embedder)
	results, err := e.MatchJobToProfiles(context.Background(), jobID, 0)
	require.NoError(t, err)

	assert.NotNil(t, vectors.vectors["job:"+jobID.String()])
	require.Len(t, results, 1)
	assert.Equal(t, "Ada Lovelace", results[0].FullName)
	assert.InDelta(t, 1.0, results[0].MatchScore, 1e-9)
}

func TestRebuildAllEmbeddings(t *testing.T) {
	store := newFakeMatchStore()
	vectors := newFakeVectorStore()
	embedder := &fakeEmbedder{terms: []string{"golang"}}

	jobID := uuid.New()
	store.jobs[jobID] = &db.JobPosting{ID: jobID, Title: "Golang Developer"}
	profileID := uuid.New()
	store.profiles[profileID] = &db.Profile{ID: profileID, Skills: []string{"golang"}}

	e := testEngine(store, vectors, newFakeCache(), embedder)
	require.NoError(t, e.RebuildAllEmbeddings(context.Background()))

	assert.NotNil(t, vectors.vectors["job:"+jobID.String()])
	assert.NotNil(t, vectors.vectors["profile:"+profileID.String()])
	assert.Equal(t, 2, embedder.calls)
}
