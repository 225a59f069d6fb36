// Package recommend scores job postings against parsed CVs using TF-IDF
// similarity blended with the user's activity history.
package recommend

import (
	"math"
	"regexp"
	"strings"
)

var tokenPattern = regexp.MustCompile(`\b\w\w+\b`)

// Vector is a sparse term-weight vector over a Vectorizer's vocabulary.
type Vector map[int]float64

// Vectorizer converts documents into l2-normalized TF-IDF vectors. Fit
// learns the vocabulary and document frequencies from a corpus; Transform
// projects new documents onto that vocabulary, ignoring unseen terms.
type Vectorizer struct {
	vocabulary map[string]int
	idf        []float64
}

func tokenize(text string) []string {
	var tokens []string
	for _, tok := range tokenPattern.FindAllString(strings.ToLower(text), -1) {
		if _, stop := englishStopWords[tok]; stop {
			continue
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

// Fit learns vocabulary and inverse document frequencies from the corpus
// and returns the corpus documents as vectors. IDF uses the smoothed form
// ln((1+n)/(1+df)) + 1 so unseen terms never divide by zero.
func (v *Vectorizer) Fit(docs []string) []Vector {
	v.vocabulary = make(map[string]int)
	docTokens := make([][]string, len(docs))
	df := make(map[int]int)

	for i, doc := range docs {
		tokens := tokenize(doc)
		docTokens[i] = tokens
		seen := make(map[int]struct{})
		for _, tok := range tokens {
			idx, ok := v.vocabulary[tok]
			if !ok {
				idx = len(v.vocabulary)
				v.vocabulary[tok] = idx
			}
			if _, counted := seen[idx]; !counted {
				df[idx]++
				seen[idx] = struct{}{}
			}
		}
	}

	n := float64(len(docs))
	v.idf = make([]float64, len(v.vocabulary))
	for idx := range v.idf {
		v.idf[idx] = math.Log((1+n)/(1+float64(df[idx]))) + 1
	}

	vectors := make([]Vector, len(docs))
	for i, tokens := range docTokens {
		vectors[i] = v.weigh(tokens)
	}
	return vectors
}

// Transform projects a document onto the fitted vocabulary. Terms not seen
// during Fit are dropped.
func (v *Vectorizer) Transform(doc string) Vector {
	return v.weigh(tokenize(doc))
}

func (v *Vectorizer) weigh(tokens []string) Vector {
	counts := make(map[int]float64)
	for _, tok := range tokens {
		if idx, ok := v.vocabulary[tok]; ok {
			counts[idx]++
		}
	}
	vec := make(Vector, len(counts))
	for idx, tf := range counts {
		vec[idx] = tf * v.idf[idx]
	}
	return normalize(vec)
}

func normalize(vec Vector) Vector {
	var sum float64
	for _, w := range vec {
		sum += w * w
	}
	if sum == 0 {
		return vec
	}
	norm := math.Sqrt(sum)
	for idx, w := range vec {
		vec[idx] = w / norm
	}
	return vec
}

// Cosine returns the cosine similarity of two vectors. Inputs from Fit and
// Transform are already unit length, so this is a plain dot product with a
// zero-vector guard.
func Cosine(a, b Vector) float64 {
	if len(a) > len(b) {
		a, b = b, a
	}
	var dot float64
	for idx, w := range a {
		dot += w * b[idx]
	}
	return dot
}

// Add accumulates scale*other into vec, growing vec in place.
func (vec Vector) Add(other Vector, scale float64) {
	for idx, w := range other {
		vec[idx] += w * scale
	}
}

// IsZero reports whether the vector has no non-zero components.
func (vec Vector) IsZero() bool {
	for _, w := range vec {
		if w != 0 {
			return false
		}
	}
	return true
}
