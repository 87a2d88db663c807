package main

import (
	"context"
	"fmt"

	"github.com/jonathan/brand-compiler/internal/copygen"
	"github.com/jonathan/brand-compiler/internal/db"
	"github.com/jonathan/brand-compiler/internal/llm"
)

// newCopier builds the copy generator from the llm configuration. The
// returned client must be closed by the caller.
func newCopier(ctx context.Context) (*copygen.Generator, llm.Client, error) {
	cfg := current.cfg.LLM
	if cfg.APIKey == "" {
		return nil, nil, fmt.Errorf("an API key is required (set GEMINI_API_KEY or BRANDC_LLM_API_KEY)")
	}
	tier, err := llm.ParseTier(cfg.Tier)
	if err != nil {
		return nil, nil, err
	}

	lc := llm.DefaultConfig()
	if cfg.Model != "" {
		lc = lc.WithModel(tier, cfg.Model)
	}
	lc.Temperature = cfg.Temperature
	lc.MaxOutputTokens = cfg.MaxOutputTokens
	client, err := llm.NewClient(ctx, lc, cfg.APIKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return copygen.New(client, tier, current.logger), client, nil
}

// openStore connects to the database when one is configured. It returns
// nil, nil when database.url is empty.
func openStore(ctx context.Context) (*db.DB, error) {
	url := current.cfg.Database.URL
	if url == "" {
		return nil, nil
	}
	store, err := db.Connect(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := store.EnsureSchema(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return store, nil
}
