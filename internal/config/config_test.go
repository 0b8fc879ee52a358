package config

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_Defaults(t *testing.T) {
	// Point the config file lookup at an empty dir so a developer's
	// floatchat.yaml can't leak into the test.
	t.Setenv("FLOATCHAT_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.VectorDir != "vector_store" {
		t.Errorf("VectorDir = %q", cfg.VectorDir)
	}
	if cfg.EmbedProvider != ProviderOllama || cfg.EmbedModel != "all-minilm:l6-v2" {
		t.Errorf("embed defaults = %s/%s", cfg.EmbedProvider, cfg.EmbedModel)
	}
	if cfg.EmbedDimension != 384 {
		t.Errorf("EmbedDimension = %d", cfg.EmbedDimension)
	}
	if cfg.LLMProvider != ProviderOllama || cfg.LLMModel != "mistral" {
		t.Errorf("llm defaults = %s/%s", cfg.LLMProvider, cfg.LLMModel)
	}
	if cfg.TopK != 3 {
		t.Errorf("TopK = %d, want 3", cfg.TopK)
	}
	if cfg.LogLevel != slog.LevelInfo {
		t.Errorf("LogLevel = %v", cfg.LogLevel)
	}
}

func TestLoad_EnvOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "floatchat.yaml")
	yaml := "vector_dir: /data/from-yaml\ntop_k: 7\nllm_model: llama3\n"
	if err := os.WriteFile(path, []byte(yaml), 0o644); err != nil {
		t.Fatal(err)
	}

	t.Setenv("FLOATCHAT_CONFIG", path)
	t.Setenv("FLOATCHAT_VECTOR_DIR", "/data/from-env")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.VectorDir != "/data/from-env" {
		t.Errorf("VectorDir = %q, env must win over yaml", cfg.VectorDir)
	}
	if cfg.TopK != 7 {
		t.Errorf("TopK = %d, want 7 from yaml", cfg.TopK)
	}
	if cfg.LLMModel != "llama3" {
		t.Errorf("LLMModel = %q, want llama3 from yaml", cfg.LLMModel)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("FLOATCHAT_CONFIG", filepath.Join(t.TempDir(), "absent.yaml"))

	t.Run("non-positive dimension", func(t *testing.T) {
		t.Setenv("FLOATCHAT_EMBED_DIMENSION", "-5")
		if _, err := Load(); err == nil {
			t.Error("expected error for negative dimension")
		}
	})

	t.Run("non-numeric int falls back to default", func(t *testing.T) {
		t.Setenv("FLOATCHAT_TOP_K", "banana")
		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load: %v", err)
		}
		if cfg.TopK != 3 {
			t.Errorf("TopK = %d, want default 3", cfg.TopK)
		}
	})
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		in   string
		want slog.Level
	}{
		{"DEBUG", slog.LevelDebug},
		{"debug", slog.LevelDebug},
		{"INFO", slog.LevelInfo},
		{"WARN", slog.LevelWarn},
		{"WARNING", slog.LevelWarn},
		{"ERROR", slog.LevelError},
		{"bogus", slog.LevelInfo},
		{"", slog.LevelInfo},
	}

	for _, tt := range tests {
		if got := parseLogLevel(tt.in); got != tt.want {
			t.Errorf("parseLogLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSetupLoggerWithWriters(t *testing.T) {
	var stderr, file bytes.Buffer
	logger := SetupLoggerWithWriters(&stderr, &file, slog.LevelInfo)

	logger.Info("snapshot loaded", "count", 42)

	if stderr.Len() == 0 {
		t.Error("stderr handler got no output")
	}

	var entry map[string]any
	if err := json.Unmarshal(file.Bytes(), &entry); err != nil {
		t.Fatalf("file handler should emit JSON: %v (%s)", err, file.String())
	}
	if entry["msg"] != "snapshot loaded" {
		t.Errorf("msg = %v", entry["msg"])
	}
}
