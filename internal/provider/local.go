//go:build llamacpp

package provider

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"sync"

	llama "github.com/tcpipuk/llama-go"
)

// LocalEmbedder produces embeddings from an embedded GGUF model via llama-go,
// so the related-words index works without the hosted API. Thread-safe: llama
// contexts are not, so all access is serialized through a mutex.
type LocalEmbedder struct {
	modelPath   string
	gpuLayers   int
	contextSize int

	mu sync.Mutex

	model   *llama.Model
	embCtx  *llama.Context
	loadErr error
	once    sync.Once
}

// LocalEmbedderConfig configures the local embedding model.
type LocalEmbedderConfig struct {
	// ModelPath is the path to the GGUF embedding model file.
	ModelPath string

	// GPULayers is the number of layers to offload to GPU (0 = CPU only).
	GPULayers int

	// ContextSize is the context window size in tokens.
	ContextSize int
}

// NewLocalEmbedder creates a LocalEmbedder. The model is not loaded until
// first use.
func NewLocalEmbedder(cfg LocalEmbedderConfig) *LocalEmbedder {
	ctxSize := cfg.ContextSize
	if ctxSize <= 0 {
		ctxSize = 512
	}
	return &LocalEmbedder{
		modelPath:   cfg.ModelPath,
		gpuLayers:   cfg.GPULayers,
		contextSize: ctxSize,
	}
}

// Available returns true if the embedding model file exists on disk.
// This is a cheap check that does not load the model.
func (e *LocalEmbedder) Available() bool {
	if e.modelPath == "" {
		return false
	}
	_, err := os.Stat(e.modelPath)
	return err == nil
}

// loadModel lazy-loads the model and embedding context on first use.
func (e *LocalEmbedder) loadModel() error {
	e.once.Do(func() {
		if e.modelPath == "" {
			e.loadErr = fmt.Errorf("no model path configured")
			return
		}

		model, err := llama.LoadModel(e.modelPath,
			llama.WithGPULayers(e.gpuLayers),
			llama.WithMMap(true),
			llama.WithSilentLoading(),
		)
		if err != nil {
			e.loadErr = fmt.Errorf("loading model %s: %w", e.modelPath, err)
			return
		}
		e.model = model

		ctx, err := model.NewContext(
			llama.WithEmbeddings(),
			llama.WithContext(e.contextSize),
			llama.WithThreads(runtime.NumCPU()),
		)
		if err != nil {
			model.Close()
			e.model = nil
			e.loadErr = fmt.Errorf("creating embedding context: %w", err)
			return
		}
		e.embCtx = ctx
	})
	return e.loadErr
}

// Embed returns a dense vector embedding for the given text.
func (e *LocalEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if err := e.loadModel(); err != nil {
		return nil, fmt.Errorf("local embed: %w", err)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	emb, err := e.embCtx.GetEmbeddings(text)
	if err != nil {
		return nil, fmt.Errorf("getting embeddings: %w", err)
	}
	return emb, nil
}

// Close releases the model and context resources. Safe to call multiple times.
func (e *LocalEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.embCtx != nil {
		e.embCtx.Close()
		e.embCtx = nil
	}
	if e.model != nil {
		e.model.Close()
		e.model = nil
	}
	return nil
}
