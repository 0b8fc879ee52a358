// Package index implements a flat, exact nearest-neighbor index over
// float32 vectors. Search is brute-force squared-L2 distance; entries
// are addressed by dense zero-based ids in insertion order, matching
// the positions of the parallel snapshot collections.
package index

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrDimensionMismatch indicates a vector whose length differs from
	// the index dimension.
	ErrDimensionMismatch = errors.New("vector dimension mismatch")

	// ErrEmptyIndex indicates a search against an index with no entries.
	ErrEmptyIndex = errors.New("index is empty")
)

// Entry is one search hit: a dense id and its squared-L2 distance to
// the query (lower = more similar).
type Entry struct {
	ID       int
	Distance float32
}

// Flat is an exact brute-force L2 index. Vectors are stored row-major
// in a single backing slice. Not safe for concurrent mutation; the
// query path treats a loaded index as read-only.
type Flat struct {
	dim     int
	vectors []float32
}

// NewFlat creates an empty flat index for vectors of the given dimension.
func NewFlat(dim int) (*Flat, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("invalid dimension: %d", dim)
	}
	return &Flat{dim: dim}, nil
}

// Dimension returns the vector dimension.
func (f *Flat) Dimension() int { return f.dim }

// Len returns the number of indexed vectors.
func (f *Flat) Len() int { return len(f.vectors) / f.dim }

// Add appends vectors to the index. Ids are assigned densely in order.
func (f *Flat) Add(vectors [][]float32) error {
	for i, v := range vectors {
		if len(v) != f.dim {
			return fmt.Errorf("vector %d: %w: got %d, want %d", i, ErrDimensionMismatch, len(v), f.dim)
		}
	}
	for _, v := range vectors {
		f.vectors = append(f.vectors, v...)
	}
	return nil
}

// Search returns up to k entries nearest to query, ordered ascending
// by squared-L2 distance. Distances are returned verbatim; no
// normalization or thresholding is applied.
func (f *Flat) Search(query []float32, k int) ([]Entry, error) {
	if len(query) != f.dim {
		return nil, fmt.Errorf("query: %w: got %d, want %d", ErrDimensionMismatch, len(query), f.dim)
	}
	if k <= 0 {
		return nil, fmt.Errorf("invalid k: %d", k)
	}
	n := f.Len()
	if n == 0 {
		return nil, ErrEmptyIndex
	}

	entries := make([]Entry, n)
	for i := 0; i < n; i++ {
		row := f.vectors[i*f.dim : (i+1)*f.dim]
		var dist float32
		for j, q := range query {
			d := row[j] - q
			dist += d * d
		}
		entries[i] = Entry{ID: i, Distance: dist}
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Distance != entries[j].Distance {
			return entries[i].Distance < entries[j].Distance
		}
		return entries[i].ID < entries[j].ID
	})

	if k > n {
		k = n
	}
	return entries[:k], nil
}
