// Package vectorindex provides nearest neighbor search over word embeddings,
// backing the "related words" suggestions in the vocabulary book.
package vectorindex

import (
	"context"
	"math"
)

// SearchResult pairs a word with its cosine similarity score.
type SearchResult struct {
	Word  string
	Score float64 // cosine similarity in [-1, 1], higher = more similar
}

// VectorIndex provides nearest neighbor search over embeddings.
// Implementations must be safe for concurrent use from multiple goroutines.
type VectorIndex interface {
	// Add inserts or updates the vector for the given word.
	// If the word already exists, the vector is replaced.
	Add(ctx context.Context, word string, vector []float32) error

	// Remove deletes the vector for the given word.
	// Returns nil if the word does not exist (idempotent).
	Remove(ctx context.Context, word string) error

	// Search returns the topK most similar words to query, sorted by
	// descending score. Returns fewer than topK results if the index
	// contains fewer vectors.
	Search(ctx context.Context, query []float32, topK int) ([]SearchResult, error)

	// Len returns the number of vectors currently in the index.
	Len() int

	// Save persists the index state to its backing store.
	// Implementations without persistence should no-op.
	Save(ctx context.Context) error

	// Close releases resources. Implementations should save before closing.
	Close() error
}

// cosineSimilarity computes the cosine of the angle between a and b.
// Returns 0 when either vector is zero or the dimensions differ.
func cosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
