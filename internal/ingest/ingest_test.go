package ingest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/skillbridge/jobmatcher/internal/db"
	"github.com/skillbridge/jobmatcher/internal/sources"
)

type fakeIngestStore struct {
	links    map[string]struct{}
	pairs    map[db.TitleCompany]struct{}
	slugs    map[string]struct{}
	inserted []db.JobPosting

	companies map[string]uuid.UUID
	skills    map[string]uuid.UUID
	jobSkills map[uuid.UUID][]uuid.UUID
}

func newFakeIngestStore() *fakeIngestStore {
	return &fakeIngestStore{
		links:     map[string]struct{}{},
		pairs:     map[db.TitleCompany]struct{}{},
		slugs:     map[string]struct{}{},
		companies: map[string]uuid.UUID{},
		skills:    map[string]uuid.UUID{},
		jobSkills: map[uuid.UUID][]uuid.UUID{},
	}
}

func (f *fakeIngestStore) ExternalLinkSet(ctx context.Context) (map[string]struct{}, error) {
	snapshot := make(map[string]struct{}, len(f.links))
	for k := range f.links {
		snapshot[k] = struct{}{}
	}
	return snapshot, nil
}

func (f *fakeIngestStore) TitleCompanySet(ctx context.Context) (map[db.TitleCompany]struct{}, error) {
	snapshot := make(map[db.TitleCompany]struct{}, len(f.pairs))
	for k := range f.pairs {
		snapshot[k] = struct{}{}
	}
	return snapshot, nil
}

func (f *fakeIngestStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	_, ok := f.slugs[slug]
	return ok, nil
}

func (f *fakeIngestStore) InsertJobPostings(ctx context.Context, postings []db.JobPosting) (int, error) {
	f.inserted = append(f.inserted, postings...)
	for _, p := range postings {
		f.slugs[p.Slug] = struct{}{}
		if p.ExternalLink != "" {
			f.links[p.ExternalLink] = struct{}{}
		}
		f.pairs[db.TitleCompany{Title: p.Title, Company: p.CompanyName}] = struct{}{}
	}
	return len(postings), nil
}

func (f *fakeIngestStore) UpsertCompany(ctx context.Context, name, website string) (uuid.UUID, error) {
	if id, ok := f.companies[name]; ok {
		return id, nil
	}
	id := uuid.New()
	f.companies[name] = id
	return id, nil
}

func (f *fakeIngestStore) UpsertSkillTag(ctx context.Context, name, category string) (uuid.UUID, error) {
	if id, ok := f.skills[name]; ok {
		return id, nil
	}
	id := uuid.New()
	f.skills[name] = id
	return id, nil
}

func (f *fakeIngestStore) AddJobSkills(ctx context.Context, jobID uuid.UUID, skillIDs []uuid.UUID) error {
	f.jobSkills[jobID] = append(f.jobSkills[jobID], skillIDs...)
	return nil
}

func record(title, company, url string) sources.RawRecord {
	r := sources.RawRecord{}
	if title != "" {
		r["title"] = title
	}
	if company != "" {
		r["company"] = company
	}
	if url != "" {
		r["url"] = url
	}
	return r
}

func TestIngestPersistsNewPostings(t *testing.T) {
	store := newFakeIngestStore()
	e := NewEngine(store, zap.NewNop())

	saved, err := e.Ingest(context.Background(), []sources.RawRecord{
		record("Go Developer", "Acme", "https://acme.example/jobs/1"),
		record("Data Engineer", "Initech", "https://initech.example/jobs/2"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, saved)
	require.Len(t, store.inserted, 2)
	assert.Equal(t, "go-developer", store.inserted[0].Slug)
	assert.Equal(t, db.JobStatusOpen, store.inserted[0].Status)
}

func TestIngestDropsRecordsWithoutTitle(t *testing.T) {
	store := newFakeIngestStore()
	e := NewEngine(store, zap.NewNop())

	saved, err := e.Ingest(context.Background(), []sources.RawRecord{
		record("", "Acme", "https://acme.example/jobs/1"),
		nil,
		{},
	})
	require.NoError(t, err)
	assert.Zero(t, saved)
	assert.Empty(t, store.inserted)
}

func TestIngestSkipsKnownExternalLink(t *testing.T) {
	store := newFakeIngestStore()
	store.links["https://acme.example/jobs/1"] = struct{}{}
	e := NewEngine(store, zap.NewNop())

	saved, err := e.Ingest(context.Background(), []sources.RawRecord{
		record("Go Developer", "Acme", "https://acme.example/jobs/1"),
	})
	require.NoError(t, err)
	assert.Zero(t, saved)
}

func TestIngestSkipsKnownTitleCompanyPair(t *testing.T) {
	store := newFakeIngestStore()
	store.pairs[db.TitleCompany{Title: "Go Developer", Company: "Acme"}] = struct{}{}
	e := NewEngine(store, zap.NewNop())

	saved, err := e.Ingest(context.Background(), []sources.RawRecord{
		record("Go Developer", "Acme", ""),
	})
	require.NoError(t, err)
	assert.Zero(t, saved)
}

func TestIngestDeduplicatesWithinBatch(t *testing.T) {
	store := newFakeIngestStore()
	e := NewEngine(store, zap.NewNop())

	saved, err := e.Ingest(context.Background(), []sources.RawRecord{
		record("Go Developer", "Acme", "https://acme.example/jobs/1"),
		record("Go Developer", "Acme", "https://acme.example/jobs/1"),
		record("Go Developer", "Acme", ""),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, saved)
}

func TestIngestAssignsDistinctSlugsOnTitleCollision(t *testing.T) {
	store := newFakeIngestStore()
	e := NewEngine(store, zap.NewNop())

	saved, err := e.Ingest(context.Background(), []sources.RawRecord{
		record("Go Developer", "Acme", "https://acme.example/jobs/1"),
		record("Go Developer", "Initech", "https://initech.example/jobs/2"),
	})
	require.NoError(t, err)
	require.Equal(t, 2, saved)
	assert.NotEqual(t, store.inserted[0].Slug, store.inserted[1].Slug)
	assert.Contains(t, store.inserted[1].Slug, "go-developer-")
}

func TestIngestAttachesCompanyAndSkills(t *testing.T) {
	store := newFakeIngestStore()
	e := NewEngine(store, zap.NewNop())

	rec := record("Go Developer", "Acme", "https://acme.example/jobs/1")
	rec["tags"] = []any{"golang", "postgres"}
	_, err := e.Ingest(context.Background(), []sources.RawRecord{rec})
	require.NoError(t, err)

	assert.Contains(t, store.companies, "Acme")
	assert.Contains(t, store.skills, "golang")
	assert.Contains(t, store.skills, "postgres")
	require.Len(t, store.inserted, 1)
	assert.Len(t, store.jobSkills[store.inserted[0].ID], 2)
}
