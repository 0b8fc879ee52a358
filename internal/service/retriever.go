// Package service orchestrates the query path: embed the question,
// search the flat index, map ids back to records, and synthesize an
// answer from the retrieved context.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/argolab/floatchat/internal/index"
	"github.com/argolab/floatchat/internal/profile"
	"github.com/argolab/floatchat/internal/store"
)

// DefaultTopK is the number of results returned when the caller does
// not ask for a specific k.
const DefaultTopK = 3

// ErrInvalidQuery indicates an empty or whitespace-only question.
// Recoverable: the caller should re-prompt.
var ErrInvalidQuery = errors.New("query must be non-empty")

// Embedder is the subset of the llm embedder the retriever needs.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// Result is one retrieved profile with its raw squared-L2 distance.
// Lower score means more similar; no thresholding is applied, so the
// caller always receives up to k results even if none are relevant.
type Result struct {
	Description string
	Metadata    profile.Metadata
	Samples     []profile.DepthSample
	Score       float32
}

// Retriever answers text queries with the k nearest profile records.
// It is read-only over an immutable snapshot and safe for concurrent use.
type Retriever struct {
	snap     *store.Snapshot
	embedder Embedder
}

// NewRetriever creates a retriever over a loaded snapshot.
func NewRetriever(snap *store.Snapshot, embedder Embedder) *Retriever {
	return &Retriever{snap: snap, embedder: embedder}
}

// Retrieve returns up to k profiles nearest to query, sorted ascending
// by score. k <= 0 selects DefaultTopK.
func (r *Retriever) Retrieve(ctx context.Context, query string, k int) ([]Result, error) {
	if strings.TrimSpace(query) == "" {
		return nil, ErrInvalidQuery
	}
	if k <= 0 {
		k = DefaultTopK
	}

	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	entries, err := r.snap.Index.Search(vector, k)
	if errors.Is(err, index.ErrEmptyIndex) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("search index: %w", err)
	}

	results := make([]Result, 0, len(entries))
	for _, e := range entries {
		if e.ID < 0 || e.ID >= len(r.snap.Descriptions) {
			return nil, fmt.Errorf("%w: index returned id %d outside %d records",
				store.ErrDataIntegrity, e.ID, len(r.snap.Descriptions))
		}
		results = append(results, Result{
			Description: r.snap.Descriptions[e.ID],
			Metadata:    r.snap.Metadata[e.ID],
			Samples:     r.snap.Profiles[e.ID],
			Score:       e.Distance,
		})
	}

	slog.Debug("retrieved profiles", "query_len", len(query), "k", k, "results", len(results))
	return results, nil
}
