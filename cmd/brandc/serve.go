package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/brand-compiler/internal/server"
	"github.com/jonathan/brand-compiler/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: "Start an HTTP server exposing compile, tone mix, copy and brand prompt endpoints. " +
		"Persistence is enabled when a database URL is configured and copy generation when an API key is.",
	Args: cobra.NoArgs,
	RunE: runServe,
}

var (
	servePort   int
	serveAPIKey string
	serveDBURL  string
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 8080, "Port to listen on")
	serveCmd.Flags().StringVar(&serveAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	serveCmd.Flags().StringVar(&serveDBURL, "db-url", "", "Database URL (overrides DATABASE_URL)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := current.logger
	defer func() { _ = logger.Sync() }()

	opts := server.Options{
		Config:   current.cfg.Server,
		Compiler: current.compiler,
		Registry: current.reg,
		Logger:   logger,
	}

	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
		opts.Store = store
	} else {
		logger.Warn("no database configured; sprints will not be stored")
	}

	if current.cfg.LLM.APIKey != "" {
		generator, client, err := newCopier(ctx)
		if err != nil {
			return err
		}
		defer func() { _ = client.Close() }()
		opts.Copier = generator
	} else {
		logger.Warn("no API key configured; copy generation is disabled")
	}

	opts.Limiter = ratelimit.NewLimiter(ratelimit.NewConfig(current.cfg.RateLimit))
	srv, err := server.New(opts)
	if err != nil {
		opts.Limiter.Stop()
		return fmt.Errorf("failed to create server: %w", err)
	}
	return srv.Run(ctx)
}
