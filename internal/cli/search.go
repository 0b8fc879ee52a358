package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/argolab/floatchat/internal/llm"
	"github.com/argolab/floatchat/internal/profile"
	"github.com/argolab/floatchat/internal/service"
)

var searchLimit int

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Retrieve the closest profiles without generating an answer",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query := strings.Join(args, " ")

		snap, err := openSnapshot()
		if err != nil {
			return err
		}
		embedder, err := llm.NewEmbedder(cfg)
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}

		retriever := service.NewRetriever(snap, embedder)
		results, err := retriever.Retrieve(cmd.Context(), query, searchLimit)
		if err != nil {
			if errors.Is(err, service.ErrInvalidQuery) {
				return fmt.Errorf("query must not be empty")
			}
			return err
		}

		if len(results) == 0 {
			fmt.Println("No matching profiles.")
			return nil
		}

		for i, r := range results {
			fmt.Printf("%d. platform %s at %s (distance %.4f)\n",
				i+1, r.Metadata.PlatformNumber,
				profile.FormatLocation(r.Metadata.Latitude, r.Metadata.Longitude), r.Score)
			fmt.Println(faintStyle.Render(r.Description))
			fmt.Println()
		}
		return nil
	},
}

func init() {
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", service.DefaultTopK, "maximum number of results")
}
