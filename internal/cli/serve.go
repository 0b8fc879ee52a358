package cli

import (
	"fmt"
	"log/slog"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/argolab/floatchat/internal/llm"
	"github.com/argolab/floatchat/internal/server"
	"github.com/argolab/floatchat/internal/service"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the question-answering API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		snap, err := openSnapshot()
		if err != nil {
			return err
		}
		embedder, err := llm.NewEmbedder(cfg)
		if err != nil {
			return fmt.Errorf("init embedder: %w", err)
		}

		var generator service.Generator
		model, err := llm.NewModel(ctx, cfg)
		if err != nil {
			slog.Warn("generation model unavailable", "provider", cfg.LLMProvider, "error", err)
		} else {
			generator = model
		}

		retriever := service.NewRetriever(snap, embedder)
		chat := service.NewChat(retriever, generator, cfg.TopK)

		addr := cfg.HTTPAddr
		if serveAddr != "" {
			addr = serveAddr
		}

		srv := server.New(addr, snap, retriever, chat, slog.Default())
		return srv.Run(ctx)
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (overrides config)")
}
