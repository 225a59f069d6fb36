// Package vectorindex stores embedding vectors in Redis and answers
// nearest-neighbor queries by cosine similarity.
package vectorindex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "vec:"

// Hit is one search result with its similarity to the query vector.
type Hit struct {
	Key   string
	Score float64
}

// Index persists named vectors in Redis. Keys are namespaced by the
// caller ("job:<id>", "profile:<id>"); Search scans one namespace at a
// time and scores client-side, which is fine at this corpus size.
type Index struct {
	client *redis.Client
}

func New(client *redis.Client) *Index {
	return &Index{client: client}
}

// Put stores the vector under key, replacing any previous value.
func (ix *Index) Put(ctx context.Context, key string, vector []float32) error {
	data, err := json.Marshal(vector)
	if err != nil {
		return fmt.Errorf("encoding vector %q: %w", key, err)
	}
	if err := ix.client.Set(ctx, keyPrefix+key, data, 0).Err(); err != nil {
		return fmt.Errorf("storing vector %q: %w", key, err)
	}
	return nil
}

// Get returns the vector under key, or (nil, nil) if absent.
func (ix *Index) Get(ctx context.Context, key string) ([]float32, error) {
	data, err := ix.client.Get(ctx, keyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading vector %q: %w", key, err)
	}
	var vector []float32
	if err := json.Unmarshal(data, &vector); err != nil {
		return nil, fmt.Errorf("decoding vector %q: %w", key, err)
	}
	return vector, nil
}

// Delete removes the vector under key.
func (ix *Index) Delete(ctx context.Context, key string) error {
	if err := ix.client.Del(ctx, keyPrefix+key).Err(); err != nil {
		return fmt.Errorf("deleting vector %q: %w", key, err)
	}
	return nil
}

// Search returns the limit nearest stored vectors in the given namespace
// ("job", "profile"), ordered by descending cosine similarity.
func (ix *Index) Search(ctx context.Context, namespace string, query []float32, limit int) ([]Hit, error) {
	pattern := keyPrefix + namespace + ":*"
	var hits []Hit

	iter := ix.client.Scan(ctx, 0, pattern, 100).Iterator()
	for iter.Next(ctx) {
		fullKey := iter.Val()
		data, err := ix.client.Get(ctx, fullKey).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading vector %q: %w", fullKey, err)
		}
		var vector []float32
		if err := json.Unmarshal(data, &vector); err != nil {
			return nil, fmt.Errorf("decoding vector %q: %w", fullKey, err)
		}
		hits = append(hits, Hit{
			Key:   strings.TrimPrefix(fullKey, keyPrefix),
			Score: Cosine(query, vector),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scanning vectors in %q: %w", namespace, err)
	}

	sort.SliceStable(hits, func(i, j int) bool { return hits[i].Score > hits[j].Score })
	if limit > 0 && len(hits) > limit {
		hits = hits[:limit]
	}
	return hits, nil
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// and zero vectors score 0.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
