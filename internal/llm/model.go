package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/argolab/floatchat/internal/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/googleai"
	"github.com/tmc/langchaingo/llms/ollama"
	"github.com/tmc/langchaingo/llms/openai"
)

// Sentinel errors for generation calls.
var (
	// ErrMissingCredentials indicates the selected provider requires an
	// API key that is not configured.
	ErrMissingCredentials = errors.New("missing API credentials")

	// ErrEmptyCompletion indicates the generation service answered with
	// no usable text.
	ErrEmptyCompletion = errors.New("empty completion")
)

// answerPrompt is the fixed template sent to the generation service.
// The instructions mirror what a domain expert would want from a
// profile-data assistant: cite data, use correct units, compare casts,
// admit when the context is insufficient.
const answerPrompt = `You are an expert oceanographer, helping to analyze float profile data from the ocean.
Use the following context from relevant float profiles to answer the question.

Context:
%s

Question: %s

Remember:
1. Be specific and cite the data from the profiles when relevant
2. Use proper units (°C for temperature, PSU for salinity, meters for depth)
3. If asked about trends or patterns, compare data across profiles
4. If the question cannot be answered with the given context, say so

Answer:`

// Model wraps a langchaingo LLM for answer synthesis. One attempt per
// call, no retry: transient failures surface to the caller.
type Model struct {
	llm       llms.Model
	modelName string
}

// NewModel creates a generation model based on configuration.
func NewModel(ctx context.Context, cfg config.Config) (*Model, error) {
	var model llms.Model
	var err error

	switch cfg.LLMProvider {
	case config.ProviderOllama:
		model, err = ollama.New(
			ollama.WithModel(cfg.LLMModel),
			ollama.WithServerURL(cfg.OllamaHost),
		)
		if err != nil {
			return nil, fmt.Errorf("create ollama model: %w", err)
		}

	case config.ProviderOpenAI:
		if cfg.OpenAIAPIKey == "" {
			return nil, fmt.Errorf("%w: OPENAI_API_KEY is not set", ErrMissingCredentials)
		}
		model, err = openai.New(
			openai.WithToken(cfg.OpenAIAPIKey),
			openai.WithModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create openai model: %w", err)
		}

	case config.ProviderGoogleAI:
		if cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("%w: GEMINI_API_KEY is not set", ErrMissingCredentials)
		}
		model, err = googleai.New(ctx,
			googleai.WithAPIKey(cfg.GeminiAPIKey),
			googleai.WithDefaultModel(cfg.LLMModel),
		)
		if err != nil {
			return nil, fmt.Errorf("create googleai model: %w", err)
		}

	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.LLMProvider)
	}

	return &Model{llm: model, modelName: cfg.LLMModel}, nil
}

// BuildAnswerPrompt fills the fixed answer template.
func BuildAnswerPrompt(query, context string) string {
	return fmt.Sprintf(answerPrompt, context, query)
}

// SynthesizeAnswer generates an answer for query given retrieved context.
func (m *Model) SynthesizeAnswer(ctx context.Context, query, context string) (string, error) {
	prompt := BuildAnswerPrompt(query, context)

	start := time.Now()
	response, err := llms.GenerateFromSinglePrompt(ctx, m.llm, prompt)
	duration := time.Since(start)

	if err != nil {
		slog.Warn("generation failed", "model", m.modelName,
			"duration_ms", duration.Milliseconds(), "error", err)
		return "", fmt.Errorf("generate: %w", err)
	}
	if strings.TrimSpace(response) == "" {
		return "", ErrEmptyCompletion
	}

	slog.Debug("generation complete", "model", m.modelName,
		"duration_ms", duration.Milliseconds(), "response_len", len(response))
	return response, nil
}

// Model returns the generation model name.
func (m *Model) Model() string { return m.modelName }
