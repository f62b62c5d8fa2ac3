//go:build !windows

package vectorindex

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/coder/hnsw"
)

const hnswFileName = "words.hnsw"

// HNSWIndex performs approximate nearest neighbor search using a Hierarchical
// Navigable Small World graph backed by github.com/coder/hnsw.
// Thread-safe. Suitable for large vocabularies.
//
// The underlying hnsw.Graph.Delete can leave dangling neighbor pointers that
// cause panics during Search, so HNSWIndex keeps a shadow map of all vectors
// and rebuilds the graph on mutations that remove nodes.
type HNSWIndex struct {
	mu      sync.RWMutex
	graph   *hnsw.SavedGraph[string]
	vectors map[string][]float32
}

// HNSWConfig holds configuration parameters for HNSWIndex.
type HNSWConfig struct {
	// Dir is the directory where the HNSW graph is persisted.
	// If empty, the graph is in-memory only and Save is a no-op.
	Dir string

	// M is the maximum number of neighbors per node. Default: 16.
	M int

	// EfSearch is the number of candidates considered during search. Default: 100.
	EfSearch int

	// Ml is the level generation factor. Default: 0.25.
	Ml float64
}

func (c *HNSWConfig) withDefaults() HNSWConfig {
	out := *c
	if out.M == 0 {
		out.M = 16
	}
	if out.EfSearch == 0 {
		out.EfSearch = 100
	}
	if out.Ml == 0 {
		out.Ml = 0.25
	}
	return out
}

// NewHNSWIndex creates an HNSWIndex. If cfg.Dir is non-empty, the graph is
// loaded from (or created at) that directory and persisted on Save.
func NewHNSWIndex(cfg HNSWConfig) (*HNSWIndex, error) {
	cfg = cfg.withDefaults()

	var sg *hnsw.SavedGraph[string]

	if cfg.Dir != "" {
		loaded, err := hnsw.LoadSavedGraph[string](filepath.Join(cfg.Dir, hnswFileName))
		if err != nil {
			return nil, err
		}
		sg = loaded
		sg.M = cfg.M
		sg.EfSearch = cfg.EfSearch
		sg.Ml = cfg.Ml
		sg.Distance = hnsw.CosineDistance
	} else {
		g := hnsw.NewGraph[string]()
		g.M = cfg.M
		g.EfSearch = cfg.EfSearch
		g.Ml = cfg.Ml
		g.Distance = hnsw.CosineDistance
		sg = &hnsw.SavedGraph[string]{Graph: g}
	}

	// Rebuild the shadow map from a loaded graph. The library has no node
	// iterator, so probe with a zero vector and topK equal to the node count.
	vecs := make(map[string][]float32, sg.Len())
	if sg.Len() > 0 {
		if dims := sg.Dims(); dims > 0 {
			probe := make([]float32, dims)
			for _, n := range sg.Search(probe, sg.Len()) {
				vecs[n.Key] = n.Value
			}
		}
	}

	return &HNSWIndex{graph: sg, vectors: vecs}, nil
}

// rebuild constructs a fresh HNSW graph from the shadow map.
// Caller must hold h.mu for writing.
func (h *HNSWIndex) rebuild() {
	nodes := make([]hnsw.Node[string], 0, len(h.vectors))
	for word, vec := range h.vectors {
		nodes = append(nodes, hnsw.MakeNode(word, vec))
	}
	g := hnsw.NewGraph[string]()
	g.M = h.graph.M
	g.EfSearch = h.graph.EfSearch
	g.Ml = h.graph.Ml
	g.Distance = hnsw.CosineDistance
	if len(nodes) > 0 {
		g.Add(nodes...)
	}
	h.graph = &hnsw.SavedGraph[string]{Graph: g, Path: h.graph.Path}
}

// Add inserts or replaces the vector for the given word.
// Replacing an existing word rebuilds the graph to avoid dangling pointers.
func (h *HNSWIndex) Add(_ context.Context, word string, vector []float32) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	cp := make([]float32, len(vector))
	copy(cp, vector)

	_, existed := h.vectors[word]
	h.vectors[word] = cp

	if existed {
		h.rebuild()
	} else {
		h.graph.Add(hnsw.MakeNode(word, cp))
	}

	return nil
}

// Remove deletes the vector for the given word. No-op if not found.
func (h *HNSWIndex) Remove(_ context.Context, word string) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.vectors[word]; !ok {
		return nil
	}

	delete(h.vectors, word)
	h.rebuild()

	return nil
}

// Search returns the topK most similar words to query, sorted by descending
// score. Score is 1.0 - CosineDistance(query, result).
func (h *HNSWIndex) Search(_ context.Context, query []float32, topK int) ([]SearchResult, error) {
	if len(query) == 0 || topK <= 0 {
		return nil, nil
	}

	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.graph.Len() == 0 {
		return nil, nil
	}

	nodes := h.graph.Search(query, topK)

	results := make([]SearchResult, 0, len(nodes))
	for _, n := range nodes {
		results = append(results, SearchResult{
			Word:  n.Key,
			Score: 1.0 - float64(hnsw.CosineDistance(query, n.Value)),
		})
	}

	return results, nil
}

// Len returns the number of vectors in the index.
func (h *HNSWIndex) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.vectors)
}

// Save persists the graph to disk. No-op if Dir was empty at creation time.
func (h *HNSWIndex) Save(_ context.Context) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.graph.Path == "" {
		return nil
	}
	return h.graph.Save()
}

// Close saves and releases resources.
func (h *HNSWIndex) Close() error {
	return h.Save(context.Background())
}
