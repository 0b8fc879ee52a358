// Package llm provides embedding and text generation backed by langchaingo.
package llm

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/argolab/floatchat/internal/config"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Embedder converts free text into fixed-dimension float vectors.
// The builder and the query path must use the same implementation and
// model, otherwise index distances are meaningless.
type Embedder interface {
	// Embed generates an embedding vector for a single text.
	Embed(ctx context.Context, text string) ([]float32, error)

	// EmbedBatch generates embeddings for multiple texts in one call.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)

	// Model returns the embedding model name.
	Model() string

	// Dimension returns the embedding vector dimension.
	Dimension() int
}

// LangchainEmbedder wraps a langchaingo embedder with dimension validation.
type LangchainEmbedder struct {
	model     embeddings.Embedder
	dimension int
	modelName string
}

var _ Embedder = (*LangchainEmbedder)(nil)

// NewEmbedder creates an embedder based on configuration.
func NewEmbedder(cfg config.Config) (*LangchainEmbedder, error) {
	var model embeddings.Embedder

	switch cfg.EmbedProvider {
	case config.ProviderOllama:
		llm, err := ollama.New(
			ollama.WithModel(cfg.EmbedModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama client: %w", err)
		}
		model, err = embeddings.NewEmbedder(llm)
		if err != nil {
			return nil, fmt.Errorf("create ollama embedder: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrMissingCredentials)
		}
		llm, err := openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithEmbeddingModel(cfg.EmbedModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai client: %w", err)
		}
		model, err = embeddings.NewEmbedder(llm)
		if err != nil {
			return nil, fmt.Errorf("create openai embedder: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.EmbedProvider)
	}

	return &LangchainEmbedder{
		model:     model,
		dimension: cfg.EmbedDimension,
		modelName: cfg.EmbedModel,
	}, nil
}

// Embed generates an embedding vector for text.
func (e *LangchainEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch generates embeddings for multiple texts.
func (e *LangchainEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return [][]float32{}, nil
	}

	start := time.Now()
	vectors, err := e.model.EmbedDocuments(ctx, texts)
	duration := time.Since(start)

	if err != nil {
		slog.Warn("embedding failed", "model", e.modelName, "texts", len(texts),
			"duration_ms", duration.Milliseconds(), "error", err)
		return nil, fmt.Errorf("embed: %w", err)
	}

	if len(vectors) != len(texts) {
		return nil, fmt.Errorf("embedding count mismatch: got %d, want %d", len(vectors), len(texts))
	}
	for i, v := range vectors {
		if len(v) != e.dimension {
			return nil, fmt.Errorf("embedding %d dimension mismatch: got %d, want %d (model: %s)",
				i, len(v), e.dimension, e.modelName)
		}
	}

	slog.Debug("embedding complete", "model", e.modelName, "texts", len(texts),
		"duration_ms", duration.Milliseconds())
	return vectors, nil
}

// Model returns the embedding model name.
func (e *LangchainEmbedder) Model() string { return e.modelName }

// Dimension returns the expected embedding dimension.
func (e *LangchainEmbedder) Dimension() int { return e.dimension }
