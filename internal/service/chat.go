package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// Generator is the subset of the llm model the chat service needs.
type Generator interface {
	SynthesizeAnswer(ctx context.Context, query, context string) (string, error)
}

// Chat turns a user question into an answer string. Generation
// failures never escape as errors: the end-to-end loop must keep
// running, so they are rendered as descriptive answer text instead.
type Chat struct {
	retriever *Retriever
	model     Generator
	topK      int
}

// NewChat creates a chat service. model may be nil when the generation
// backend could not be initialized (for example missing credentials);
// Ask then degrades to a descriptive error answer.
func NewChat(retriever *Retriever, model Generator, topK int) *Chat {
	if topK <= 0 {
		topK = DefaultTopK
	}
	return &Chat{retriever: retriever, model: model, topK: topK}
}

// BuildContext concatenates retrieved descriptions into the context
// block passed to the generation service.
func BuildContext(results []Result) string {
	parts := make([]string, 0, len(results))
	for _, r := range results {
		parts = append(parts, r.Description)
	}
	return strings.Join(parts, "\n\n")
}

// Ask retrieves context for query and synthesizes an answer.
//
// Errors are returned only for invalid input or snapshot faults;
// anything wrong with the generation service (credentials, transport,
// empty completion) comes back as the answer string, single attempt,
// no retry.
func (c *Chat) Ask(ctx context.Context, query string) (string, error) {
	results, err := c.retriever.Retrieve(ctx, query, c.topK)
	if err != nil {
		return "", err
	}
	if len(results) == 0 {
		return "No relevant profiles found for this question.", nil
	}

	if c.model == nil {
		return "Error: generation model is not configured (check provider credentials)", nil
	}

	answer, err := c.model.SynthesizeAnswer(ctx, query, BuildContext(results))
	if err != nil {
		slog.Warn("answer synthesis failed", "error", err)
		return fmt.Sprintf("Sorry, I encountered an error: %v", err), nil
	}
	return answer, nil
}
