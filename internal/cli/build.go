package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/argolab/floatchat/internal/ingest"
	"github.com/argolab/floatchat/internal/llm"
)

var (
	buildDataset string
	buildOutDir  string
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Ingest the dataset and build the profile index",
	Long: `Reads the cleaned profile dataset, generates a description per cast,
embeds the descriptions, and atomically replaces the persisted snapshot.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		embedder, err := llm.NewEmbedder(cfg)
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}

		opts := ingest.Options{DatasetPath: cfg.DatasetPath, OutDir: cfg.VectorDir}
		if buildDataset != "" {
			opts.DatasetPath = buildDataset
		}
		if buildOutDir != "" {
			opts.OutDir = buildOutDir
		}

		manifest, err := ingest.Build(cmd.Context(), embedder, opts)
		if err != nil {
			return err
		}

		fmt.Printf("Built index %s: %d profiles, dimension %d, model %s\n",
			manifest.BuildID, manifest.Count, manifest.Dimension, manifest.EmbedModel)
		return nil
	},
}

func init() {
	buildCmd.Flags().StringVar(&buildDataset, "dataset", "", "path to the cleaned dataset CSV (overrides config)")
	buildCmd.Flags().StringVar(&buildOutDir, "out", "", "snapshot output directory (overrides config)")
}
