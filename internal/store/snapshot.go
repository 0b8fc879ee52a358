package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/argolab/floatchat/internal/index"
	"github.com/argolab/floatchat/internal/profile"
)

// File names inside a snapshot directory. The layout is flat; all four
// collections share positional ids.
const (
	ManifestFile     = "manifest.json"
	IndexFile        = "float_profiles.index"
	DescriptionsFile = "descriptions.json"
	MetadataFile     = "metadata.json"
	ProfilesFile     = "profiles.json"
)

// Manifest describes a snapshot build.
type Manifest struct {
	BuildID    string    `json:"build_id"`
	CreatedAt  time.Time `json:"created_at"`
	EmbedModel string    `json:"embed_model"`
	Dimension  int       `json:"dimension"`
	Count      int       `json:"count"`
}

// Snapshot is a fully loaded, read-only snapshot. The query path holds
// exactly one for the process lifetime; rebuilds replace the directory
// atomically and are picked up on the next process start.
type Snapshot struct {
	Manifest     Manifest
	Descriptions []string
	Metadata     []profile.Metadata
	Profiles     [][]profile.DepthSample
	Index        *index.Flat
}

// Load reads and validates a snapshot from dir.
//
// Every length mismatch between the index and the three parallel
// collections is reported as ErrDataIntegrity: a mismatched snapshot
// must never serve partial results.
func Load(dir string) (*Snapshot, error) {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: directory %s does not exist (run the build first)", ErrNotFound, dir)
	}

	var manifest Manifest
	if err := readJSON(filepath.Join(dir, ManifestFile), &manifest); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	var descriptions []string
	if err := readJSON(filepath.Join(dir, DescriptionsFile), &descriptions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	var metadata []profile.Metadata
	if err := readJSON(filepath.Join(dir, MetadataFile), &metadata); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	var profiles [][]profile.DepthSample
	if err := readJSON(filepath.Join(dir, ProfilesFile), &profiles); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	idx, err := index.ReadFile(filepath.Join(dir, IndexFile))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}

	snap := &Snapshot{
		Manifest:     manifest,
		Descriptions: descriptions,
		Metadata:     metadata,
		Profiles:     profiles,
		Index:        idx,
	}
	if err := snap.validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Snapshot) validate() error {
	n := len(s.Descriptions)
	if len(s.Metadata) != n {
		return fmt.Errorf("%w: %d descriptions but %d metadata records", ErrDataIntegrity, n, len(s.Metadata))
	}
	if len(s.Profiles) != n {
		return fmt.Errorf("%w: %d descriptions but %d profiles", ErrDataIntegrity, n, len(s.Profiles))
	}
	if s.Index.Len() != n {
		return fmt.Errorf("%w: %d descriptions but %d index entries", ErrDataIntegrity, n, s.Index.Len())
	}
	if s.Manifest.Count != n {
		return fmt.Errorf("%w: manifest count %d but %d records", ErrDataIntegrity, s.Manifest.Count, n)
	}
	if s.Index.Dimension() != s.Manifest.Dimension {
		return fmt.Errorf("%w: manifest dimension %d but index dimension %d",
			ErrDataIntegrity, s.Manifest.Dimension, s.Index.Dimension())
	}
	return nil
}

// Write persists the snapshot by building a sibling temp directory and
// atomically swapping it over dir. A concurrent reader sees either the
// old snapshot or the new one, never a mix.
func Write(dir string, snap *Snapshot) error {
	if err := snap.validate(); err != nil {
		return err
	}

	parent := filepath.Dir(dir)
	if err := os.MkdirAll(parent, 0o755); err != nil {
		return fmt.Errorf("create snapshot parent dir: %w", err)
	}

	tmp, err := os.MkdirTemp(parent, filepath.Base(dir)+".build-*")
	if err != nil {
		return fmt.Errorf("create snapshot temp dir: %w", err)
	}
	defer os.RemoveAll(tmp)

	if err := writeJSON(filepath.Join(tmp, ManifestFile), snap.Manifest); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, DescriptionsFile), snap.Descriptions); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, MetadataFile), snap.Metadata); err != nil {
		return err
	}
	if err := writeJSON(filepath.Join(tmp, ProfilesFile), snap.Profiles); err != nil {
		return err
	}
	if err := snap.Index.WriteFile(filepath.Join(tmp, IndexFile)); err != nil {
		return err
	}

	return atomicSwap(tmp, dir)
}

// atomicSwap replaces destDir with srcDir by renaming, keeping a .bak
// for best-effort rollback if the final rename fails.
func atomicSwap(srcDir, destDir string) error {
	backup := destDir + ".bak"
	_ = os.RemoveAll(backup)

	if _, err := os.Stat(destDir); err == nil {
		if err := os.Rename(destDir, backup); err != nil {
			return fmt.Errorf("move old snapshot aside: %w", err)
		}
	}
	if err := os.Rename(srcDir, destDir); err != nil {
		if _, stErr := os.Stat(backup); stErr == nil {
			_ = os.Rename(backup, destDir)
		}
		return fmt.Errorf("swap snapshot into place: %w", err)
	}
	_ = os.RemoveAll(backup)
	return nil
}

func readJSON(path string, v any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return nil
}

func writeJSON(path string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", filepath.Base(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
