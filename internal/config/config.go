// Package config loads process configuration from the environment,
// with an optional YAML file base and defaults for every knob.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Provider identifies an embedding or generation backend.
type Provider string

const (
	ProviderOllama   Provider = "ollama"
	ProviderOpenAI   Provider = "openai"
	ProviderGoogleAI Provider = "googleai"
)

// Config holds all configuration values.
type Config struct {
	// Persisted snapshot and source dataset
	VectorDir   string `yaml:"vector_dir"`
	DatasetPath string `yaml:"dataset_path"`

	// Embedding
	EmbedProvider  Provider `yaml:"embed_provider"`
	EmbedModel     string   `yaml:"embed_model"`
	EmbedDimension int      `yaml:"embed_dimension"`

	// Generation
	LLMProvider  Provider `yaml:"llm_provider"`
	LLMModel     string   `yaml:"llm_model"`
	OllamaHost   string   `yaml:"ollama_host"`
	OpenAIAPIKey string   `yaml:"-"`
	GeminiAPIKey string   `yaml:"-"`

	// Retrieval
	TopK int `yaml:"top_k"`

	// HTTP API
	HTTPAddr string `yaml:"http_addr"`

	// Logging
	LogFile  string     `yaml:"log_file"`
	LogLevel slog.Level `yaml:"-"`
}

// Load reads configuration: defaults, then an optional YAML file
// (FLOATCHAT_CONFIG or ./floatchat.yaml), then environment variables.
// Environment always wins. A .env file in the working directory is
// loaded first if present.
func Load() (Config, error) {
	// Development convenience; ignore absence.
	_ = godotenv.Load()

	cfg := defaults()

	path := os.Getenv("FLOATCHAT_CONFIG")
	if path == "" {
		path = "floatchat.yaml"
	}
	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	}

	applyEnv(&cfg)

	if cfg.EmbedDimension <= 0 {
		return Config{}, fmt.Errorf("embed dimension must be positive, got %d", cfg.EmbedDimension)
	}
	if cfg.TopK <= 0 {
		return Config{}, fmt.Errorf("top_k must be positive, got %d", cfg.TopK)
	}

	return cfg, nil
}

func defaults() Config {
	return Config{
		VectorDir:   "vector_store",
		DatasetPath: "data_processed/clean/cleaned_data.csv",

		EmbedProvider:  ProviderOllama,
		EmbedModel:     "all-minilm:l6-v2",
		EmbedDimension: 384,

		LLMProvider: ProviderOllama,
		LLMModel:    "mistral",
		OllamaHost:  "http://localhost:11434",

		TopK: 3,

		HTTPAddr: ":8480",

		LogFile:  "/tmp/floatchat.log",
		LogLevel: slog.LevelInfo,
	}
}

func applyEnv(cfg *Config) {
	cfg.VectorDir = getEnv("FLOATCHAT_VECTOR_DIR", cfg.VectorDir)
	cfg.DatasetPath = getEnv("FLOATCHAT_DATASET", cfg.DatasetPath)

	cfg.EmbedProvider = Provider(getEnv("FLOATCHAT_EMBED_PROVIDER", string(cfg.EmbedProvider)))
	cfg.EmbedModel = getEnv("FLOATCHAT_EMBED_MODEL", cfg.EmbedModel)
	cfg.EmbedDimension = getEnvInt("FLOATCHAT_EMBED_DIMENSION", cfg.EmbedDimension)

	cfg.LLMProvider = Provider(getEnv("FLOATCHAT_LLM_PROVIDER", string(cfg.LLMProvider)))
	cfg.LLMModel = getEnv("FLOATCHAT_LLM_MODEL", cfg.LLMModel)
	cfg.OllamaHost = getEnv("OLLAMA_HOST", cfg.OllamaHost)
	cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	cfg.TopK = getEnvInt("FLOATCHAT_TOP_K", cfg.TopK)

	cfg.HTTPAddr = getEnv("FLOATCHAT_HTTP_ADDR", cfg.HTTPAddr)

	cfg.LogFile = getEnv("FLOATCHAT_LOG_FILE", cfg.LogFile)
	cfg.LogLevel = parseLogLevel(getEnv("FLOATCHAT_LOG_LEVEL", "INFO"))
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
