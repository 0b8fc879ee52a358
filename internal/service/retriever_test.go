package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/argolab/floatchat/internal/index"
	"github.com/argolab/floatchat/internal/profile"
	"github.com/argolab/floatchat/internal/store"
)

// fakeEmbedder maps known queries to fixed vectors.
type fakeEmbedder struct {
	vectors map[string][]float32
	err     error
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	if f.err != nil {
		return nil, f.err
	}
	if v, ok := f.vectors[text]; ok {
		return v, nil
	}
	return []float32{0, 0}, nil
}

func testStore(t *testing.T, vectors [][]float32) *store.Snapshot {
	t.Helper()

	idx, err := index.NewFlat(2)
	if err != nil {
		t.Fatalf("NewFlat: %v", err)
	}
	if err := idx.Add(vectors); err != nil {
		t.Fatalf("Add: %v", err)
	}

	date, err := profile.ParseDate("20000115030405")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}

	snap := &store.Snapshot{
		Manifest: store.Manifest{
			BuildID:   "test",
			CreatedAt: time.Now(),
			Dimension: 2,
			Count:     len(vectors),
		},
		Index: idx,
	}
	for i := range vectors {
		snap.Descriptions = append(snap.Descriptions, "Ocean profile measurement "+string(rune('A'+i)))
		snap.Metadata = append(snap.Metadata, profile.Metadata{
			PlatformNumber: "290162" + string(rune('0'+i)),
			Date:           date,
		})
		snap.Profiles = append(snap.Profiles, []profile.DepthSample{{Depth: 0, Temperature: 20, Salinity: 35}})
	}
	return snap
}

func TestRetrieve_OrderedByScore(t *testing.T) {
	snap := testStore(t, [][]float32{
		{10, 10},
		{1, 0},
		{0, 0},
	})
	emb := &fakeEmbedder{vectors: map[string][]float32{"warm water": {0, 0}}}
	r := NewRetriever(snap, emb)

	results, err := r.Retrieve(context.Background(), "warm water", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}

	// Nearest first: record C (0,0), then B (1,0), then A (10,10).
	if results[0].Description != "Ocean profile measurement C" {
		t.Errorf("first result = %q", results[0].Description)
	}
	for i := 1; i < len(results); i++ {
		if results[i].Score < results[i-1].Score {
			t.Errorf("scores not ascending: %v then %v", results[i-1].Score, results[i].Score)
		}
	}
	if results[0].Metadata.PlatformNumber != "2901622" {
		t.Errorf("metadata not mapped by id: %+v", results[0].Metadata)
	}
}

func TestRetrieve_AtMostK(t *testing.T) {
	snap := testStore(t, [][]float32{{0, 0}, {1, 1}})
	r := NewRetriever(snap, &fakeEmbedder{})

	results, err := r.Retrieve(context.Background(), "anything", 10)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 2 {
		t.Errorf("got %d results, want 2 (store size)", len(results))
	}
}

func TestRetrieve_SingleRecordStore(t *testing.T) {
	snap := testStore(t, [][]float32{{0.5, 0.5}})
	r := NewRetriever(snap, &fakeEmbedder{})

	results, err := r.Retrieve(context.Background(), "maximum temperature", 3)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("got %d results, want 1", len(results))
	}
	if results[0].Score < 0 {
		t.Errorf("score = %v, want >= 0", results[0].Score)
	}
	if results[0].Description != snap.Descriptions[0] {
		t.Errorf("description = %q, want stored description", results[0].Description)
	}
}

func TestRetrieve_InvalidQuery(t *testing.T) {
	snap := testStore(t, [][]float32{{0, 0}})
	r := NewRetriever(snap, &fakeEmbedder{})

	for _, q := range []string{"", "   ", "\t\n"} {
		if _, err := r.Retrieve(context.Background(), q, 3); !errors.Is(err, ErrInvalidQuery) {
			t.Errorf("Retrieve(%q) error = %v, want ErrInvalidQuery", q, err)
		}
	}
}

func TestRetrieve_DefaultK(t *testing.T) {
	snap := testStore(t, [][]float32{{0, 0}, {1, 1}, {2, 2}, {3, 3}, {4, 4}})
	r := NewRetriever(snap, &fakeEmbedder{})

	results, err := r.Retrieve(context.Background(), "question", 0)
	if err != nil {
		t.Fatalf("Retrieve: %v", err)
	}
	if len(results) != DefaultTopK {
		t.Errorf("got %d results, want DefaultTopK=%d", len(results), DefaultTopK)
	}
}

func TestRetrieve_EmbedderFailure(t *testing.T) {
	snap := testStore(t, [][]float32{{0, 0}})
	wantErr := errors.New("ollama unreachable")
	r := NewRetriever(snap, &fakeEmbedder{err: wantErr})

	if _, err := r.Retrieve(context.Background(), "question", 3); !errors.Is(err, wantErr) {
		t.Errorf("error = %v, want wrapped embedder error", err)
	}
}
