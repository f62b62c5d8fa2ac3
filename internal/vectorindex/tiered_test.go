package vectorindex

import (
	"context"
	"fmt"
	"testing"
)

func TestTiered_StartsBruteForce(t *testing.T) {
	idx, err := NewTieredIndex(TieredConfig{Threshold: 10})
	if err != nil {
		t.Fatalf("NewTieredIndex() error = %v", err)
	}
	defer idx.Close()

	if idx.promoted {
		t.Error("fresh index should start in brute-force mode")
	}
}

func TestTiered_PromotesPastThreshold(t *testing.T) {
	idx, err := NewTieredIndex(TieredConfig{Threshold: 5})
	if err != nil {
		t.Fatalf("NewTieredIndex() error = %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	for i := 0; i < 8; i++ {
		vec := []float32{float32(i), 1, 0}
		if err := idx.Add(ctx, fmt.Sprintf("word-%d", i), vec); err != nil {
			t.Fatalf("Add() error = %v", err)
		}
	}

	if !idx.promoted {
		t.Fatal("index should have promoted to HNSW past the threshold")
	}
	if idx.Len() != 8 {
		t.Errorf("Len() = %d after promotion, want 8", idx.Len())
	}

	results, err := idx.Search(ctx, []float32{7, 1, 0}, 3)
	if err != nil {
		t.Fatalf("Search() after promotion error = %v", err)
	}
	if len(results) != 3 {
		t.Errorf("got %d results, want 3", len(results))
	}
}

func TestTiered_SearchAndRemoveDelegates(t *testing.T) {
	idx, err := NewTieredIndex(TieredConfig{Threshold: 100})
	if err != nil {
		t.Fatalf("NewTieredIndex() error = %v", err)
	}
	defer idx.Close()

	ctx := context.Background()
	idx.Add(ctx, "tactile", []float32{1, 0})
	idx.Add(ctx, "abstract", []float32{0, 1})

	results, err := idx.Search(ctx, []float32{1, 0}, 1)
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if results[0].Word != "tactile" {
		t.Errorf("nearest = %q, want tactile", results[0].Word)
	}

	if err := idx.Remove(ctx, "tactile"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if idx.Len() != 1 {
		t.Errorf("Len() = %d, want 1", idx.Len())
	}
}
