package store

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/argolab/floatchat/internal/index"
	"github.com/argolab/floatchat/internal/profile"
)

func testSnapshot(t *testing.T, n int) *Snapshot {
	t.Helper()

	idx, err := index.NewFlat(2)
	if err != nil {
		t.Fatalf("NewFlat: %v", err)
	}

	snap := &Snapshot{
		Manifest: Manifest{
			BuildID:    "test-build",
			CreatedAt:  time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
			EmbedModel: "all-minilm:l6-v2",
			Dimension:  2,
			Count:      n,
		},
		Index: idx,
	}

	date, err := profile.ParseDate("20000115030405")
	if err != nil {
		t.Fatalf("ParseDate: %v", err)
	}

	var vectors [][]float32
	for i := 0; i < n; i++ {
		snap.Descriptions = append(snap.Descriptions, "Ocean profile measurement")
		snap.Metadata = append(snap.Metadata, profile.Metadata{
			PlatformNumber: "2901623",
			ProjectName:    "ARGO",
			PIName:         "PI",
			Latitude:       12.34,
			Longitude:      -56.78,
			Date:           date,
		})
		snap.Profiles = append(snap.Profiles, []profile.DepthSample{
			{Depth: 0, Temperature: 20, Salinity: 35},
		})
		vectors = append(vectors, []float32{float32(i), float32(i)})
	}
	if err := idx.Add(vectors); err != nil {
		t.Fatalf("Add: %v", err)
	}
	return snap
}

func TestWriteLoad_RoundTrip(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_store")
	snap := testSnapshot(t, 3)

	if err := Write(dir, snap); err != nil {
		t.Fatalf("Write: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if loaded.Manifest.BuildID != "test-build" {
		t.Errorf("BuildID = %q", loaded.Manifest.BuildID)
	}
	if len(loaded.Descriptions) != 3 || len(loaded.Metadata) != 3 || len(loaded.Profiles) != 3 {
		t.Errorf("collection lengths = %d/%d/%d, want 3 each",
			len(loaded.Descriptions), len(loaded.Metadata), len(loaded.Profiles))
	}
	if loaded.Index.Len() != 3 {
		t.Errorf("index Len() = %d, want 3", loaded.Index.Len())
	}
	if loaded.Metadata[0].PlatformNumber != "2901623" {
		t.Errorf("metadata round trip broke: %+v", loaded.Metadata[0])
	}
	if loaded.Profiles[0][0].Salinity != 35 {
		t.Errorf("profile round trip broke: %+v", loaded.Profiles[0])
	}
}

func TestWrite_ReplacesExistingSnapshot(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_store")

	if err := Write(dir, testSnapshot(t, 2)); err != nil {
		t.Fatalf("first Write: %v", err)
	}
	if err := Write(dir, testSnapshot(t, 5)); err != nil {
		t.Fatalf("second Write: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.Manifest.Count != 5 {
		t.Errorf("Count = %d, want 5 (old snapshot not replaced)", loaded.Manifest.Count)
	}
	if _, err := os.Stat(dir + ".bak"); !os.IsNotExist(err) {
		t.Errorf("backup dir left behind after successful swap")
	}
}

func TestLoad_MissingDir(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("error = %v, want ErrNotFound", err)
	}
}

func TestLoad_LengthMismatch(t *testing.T) {
	// Empty descriptions.json with non-empty metadata.json must fail,
	// never return partial results.
	dir := filepath.Join(t.TempDir(), "vector_store")
	if err := Write(dir, testSnapshot(t, 2)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	if err := os.WriteFile(filepath.Join(dir, DescriptionsFile), []byte("[]"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, err := Load(dir)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("error = %v, want ErrDataIntegrity", err)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	files := []string{ManifestFile, IndexFile, DescriptionsFile, MetadataFile, ProfilesFile}

	for _, victim := range files {
		t.Run(victim, func(t *testing.T) {
			dir := filepath.Join(t.TempDir(), "vector_store")
			if err := Write(dir, testSnapshot(t, 1)); err != nil {
				t.Fatalf("Write: %v", err)
			}
			if err := os.Remove(filepath.Join(dir, victim)); err != nil {
				t.Fatal(err)
			}

			_, err := Load(dir)
			if !errors.Is(err, ErrDataIntegrity) {
				t.Errorf("error = %v, want ErrDataIntegrity", err)
			}
		})
	}
}

func TestLoad_ManifestDimensionMismatch(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "vector_store")
	if err := Write(dir, testSnapshot(t, 1)); err != nil {
		t.Fatalf("Write: %v", err)
	}

	var m Manifest
	data, err := os.ReadFile(filepath.Join(dir, ManifestFile))
	if err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(data, &m); err != nil {
		t.Fatal(err)
	}
	m.Dimension = 999
	data, _ = json.Marshal(m)
	if err := os.WriteFile(filepath.Join(dir, ManifestFile), data, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(dir); !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("error = %v, want ErrDataIntegrity", err)
	}
}

func TestWrite_RejectsInvalidSnapshot(t *testing.T) {
	snap := testSnapshot(t, 2)
	snap.Descriptions = snap.Descriptions[:1]

	err := Write(filepath.Join(t.TempDir(), "vector_store"), snap)
	if !errors.Is(err, ErrDataIntegrity) {
		t.Errorf("error = %v, want ErrDataIntegrity", err)
	}
}
