// Package cli provides the command-line interface for floatchat.
package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/argolab/floatchat/internal/config"
	"github.com/argolab/floatchat/internal/llm"
	"github.com/argolab/floatchat/internal/service"
	"github.com/argolab/floatchat/internal/store"
)

// Version is set at build time.
var Version = "0.1.0"

var (
	cfg        config.Config
	logCleanup func() error
)

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "floatchat",
	Short: "Question answering over ocean float profiles",
	Long: `Floatchat answers free-text questions about oceanographic float
profiles. An offline build ingests the cleaned dataset, embeds generated
profile descriptions, and persists a flat nearest-neighbor index; chat,
ask, and search run against that snapshot.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == "version" || cmd.Name() == "help" {
			return nil
		}

		var err error
		cfg, err = config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}

		logger, cleanup := config.SetupLogger(cfg.LogFile, cfg.LogLevel)
		slog.SetDefault(logger)
		logCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logCleanup != nil {
			_ = logCleanup()
		}
	},
}

// openSnapshot loads the persisted snapshot and verifies it matches
// the configured embedder.
func openSnapshot() (*store.Snapshot, error) {
	snap, err := store.Load(cfg.VectorDir)
	if err != nil {
		return nil, err
	}
	if snap.Manifest.EmbedModel != cfg.EmbedModel {
		slog.Warn("snapshot was built with a different embedding model",
			"snapshot_model", snap.Manifest.EmbedModel, "configured_model", cfg.EmbedModel)
	}
	if snap.Manifest.Dimension != cfg.EmbedDimension {
		return nil, fmt.Errorf("%w: snapshot dimension %d but configured embedder produces %d",
			store.ErrDataIntegrity, snap.Manifest.Dimension, cfg.EmbedDimension)
	}
	return snap, nil
}

// newChat wires the full query path. A generation model that fails to
// initialize (for example missing credentials) degrades to descriptive
// error answers instead of failing the command.
func newChat(ctx context.Context) (*service.Chat, error) {
	snap, err := openSnapshot()
	if err != nil {
		return nil, err
	}

	embedder, err := llm.NewEmbedder(cfg)
	if err != nil {
		return nil, fmt.Errorf("init embedder: %w", err)
	}

	var generator service.Generator
	model, err := llm.NewModel(ctx, cfg)
	if err != nil {
		slog.Warn("generation model unavailable", "provider", cfg.LLMProvider, "error", err)
	} else {
		generator = model
	}

	return service.NewChat(service.NewRetriever(snap, embedder), generator, cfg.TopK), nil
}

// Execute adds all child commands to the root command and runs it.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(serveCmd)
}
