package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/argolab/floatchat/internal/index"
	"github.com/argolab/floatchat/internal/llm"
	"github.com/argolab/floatchat/internal/profile"
	"github.com/argolab/floatchat/internal/store"
)

// Options controls an offline snapshot build.
type Options struct {
	DatasetPath string
	OutDir      string
}

// Build performs a full rebuild: every invocation reads the whole
// dataset and replaces the snapshot at OutDir atomically. Casts without
// samples are skipped with a warning instead of failing the build.
func Build(ctx context.Context, embedder llm.Embedder, opts Options) (store.Manifest, error) {
	casts, err := ReadCasts(opts.DatasetPath)
	if err != nil {
		return store.Manifest{}, err
	}
	slog.Info("dataset loaded", "casts", len(casts))

	var (
		descriptions []string
		metadata     []profile.Metadata
		profiles     [][]profile.DepthSample
	)
	for _, cast := range casts {
		if len(cast.Samples) == 0 {
			slog.Warn("skipping cast with no depth samples",
				"platform", cast.Meta.PlatformNumber,
				"date", cast.Meta.Date.Format(profile.DateLayout))
			continue
		}
		desc, err := profile.Describe(cast.Meta, cast.Samples)
		if err != nil {
			slog.Warn("skipping cast", "platform", cast.Meta.PlatformNumber, "error", err)
			continue
		}
		descriptions = append(descriptions, desc)
		metadata = append(metadata, cast.Meta)
		profiles = append(profiles, cast.Samples)
	}
	if len(descriptions) == 0 {
		return store.Manifest{}, fmt.Errorf("no describable casts in %s", opts.DatasetPath)
	}

	slog.Info("embedding descriptions", "count", len(descriptions), "model", embedder.Model())
	vectors, err := embedder.EmbedBatch(ctx, descriptions)
	if err != nil {
		return store.Manifest{}, fmt.Errorf("embed descriptions: %w", err)
	}

	idx, err := index.NewFlat(embedder.Dimension())
	if err != nil {
		return store.Manifest{}, err
	}
	if err := idx.Add(vectors); err != nil {
		return store.Manifest{}, fmt.Errorf("build index: %w", err)
	}

	snap := &store.Snapshot{
		Manifest: store.Manifest{
			BuildID:    uuid.NewString(),
			CreatedAt:  time.Now().UTC(),
			EmbedModel: embedder.Model(),
			Dimension:  embedder.Dimension(),
			Count:      len(descriptions),
		},
		Descriptions: descriptions,
		Metadata:     metadata,
		Profiles:     profiles,
		Index:        idx,
	}

	if err := store.Write(opts.OutDir, snap); err != nil {
		return store.Manifest{}, fmt.Errorf("persist snapshot: %w", err)
	}

	slog.Info("snapshot written", "dir", opts.OutDir,
		"build_id", snap.Manifest.BuildID, "count", snap.Manifest.Count)
	return snap.Manifest, nil
}
