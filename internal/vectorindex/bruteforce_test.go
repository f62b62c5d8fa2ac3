package vectorindex

import (
	"context"
	"testing"
)

func TestBruteForce_SearchRanksBySimilarity(t *testing.T) {
	idx := NewBruteForceIndex()
	ctx := context.Background()

	vectors := map[string][]float32{
		"tactile":  {1, 0, 0},
		"tangible": {0.9, 0.1, 0},
		"abstract": {0, 0, 1},
	}
	for word, vec := range vectors {
		if err := idx.Add(ctx, word, vec); err != nil {
			t.Fatalf("Add(%q) error = %v", word, err)
		}
	}

	results, err := idx.Search(ctx, []float32{1, 0, 0}, 2)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if results[0].Word != "tactile" || results[1].Word != "tangible" {
		t.Errorf("ranking = %q, %q, want tactile then tangible", results[0].Word, results[1].Word)
	}
	if results[0].Score < results[1].Score {
		t.Error("scores should descend")
	}
}

func TestBruteForce_EmptyAndEdgeCases(t *testing.T) {
	idx := NewBruteForceIndex()
	ctx := context.Background()

	if results, err := idx.Search(ctx, []float32{1, 0}, 5); err != nil || results != nil {
		t.Errorf("empty index search = %v, %v", results, err)
	}

	if err := idx.Add(ctx, "word", []float32{1, 0}); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if results, _ := idx.Search(ctx, nil, 5); results != nil {
		t.Error("empty query should return nil")
	}
	if results, _ := idx.Search(ctx, []float32{1, 0}, 0); results != nil {
		t.Error("topK 0 should return nil")
	}
	if results, _ := idx.Search(ctx, []float32{1, 0}, 10); len(results) != 1 {
		t.Errorf("topK beyond size: got %d results, want 1", len(results))
	}
}

func TestBruteForce_AddReplacesAndRemoveIsIdempotent(t *testing.T) {
	idx := NewBruteForceIndex()
	ctx := context.Background()

	idx.Add(ctx, "word", []float32{1, 0})
	idx.Add(ctx, "word", []float32{0, 1})
	if idx.Len() != 1 {
		t.Errorf("Len() = %d after replace, want 1", idx.Len())
	}

	results, _ := idx.Search(ctx, []float32{0, 1}, 1)
	if results[0].Score < 0.99 {
		t.Errorf("replaced vector should match new direction, score = %v", results[0].Score)
	}

	if err := idx.Remove(ctx, "word"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if err := idx.Remove(ctx, "word"); err != nil {
		t.Errorf("second Remove() error = %v, want nil", err)
	}
	if idx.Len() != 0 {
		t.Errorf("Len() = %d, want 0", idx.Len())
	}
}

func TestCosineSimilarity(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2}, []float32{1, 2}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero vector", []float32{0, 0}, []float32{1, 0}, 0},
		{"dim mismatch", []float32{1}, []float32{1, 0}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := cosineSimilarity(tt.a, tt.b)
			if diff := got - tt.want; diff > 1e-9 || diff < -1e-9 {
				t.Errorf("cosineSimilarity = %v, want %v", got, tt.want)
			}
		})
	}
}
