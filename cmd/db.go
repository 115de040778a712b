package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/magicmirror/magic-mirror/internal/catalog/postgres"
	"github.com/magicmirror/magic-mirror/internal/config"
	"github.com/magicmirror/magic-mirror/internal/greeter"
)

// openPool connects to PostgreSQL and applies the schema migrations. Every
// command that touches the catalog goes through here.
func openPool(ctx context.Context, cfg *config.Config) (*postgres.Pool, error) {
	if cfg.Database.URL == "" {
		return nil, errors.New("DATABASE_URL environment variable is required")
	}

	pool, err := postgres.NewPool(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := pool.Migrate(ctx, cfg.Recognition.EmbeddingDim); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}
	return pool, nil
}

// buildGreeter picks the greeting provider from config. The template provider
// always backs the API-based ones, so a missing key degrades instead of failing.
func buildGreeter(ctx context.Context, cfg *config.Config) greeter.Provider {
	fallback := greeter.NewTemplateProvider(cfg.Greetings)

	switch cfg.Greeter.Provider {
	case "openai":
		if cfg.Greeter.OpenAIToken == "" {
			fmt.Println("Warning: GREETER_PROVIDER=openai but OPENAI_TOKEN is empty, using templates")
			return fallback
		}
		return greeter.NewOpenAIProvider(cfg.Greeter.OpenAIToken, fallback)
	case "gemini":
		if cfg.Greeter.GeminiKey == "" {
			fmt.Println("Warning: GREETER_PROVIDER=gemini but GEMINI_API_KEY is empty, using templates")
			return fallback
		}
		p, err := greeter.NewGeminiProvider(ctx, cfg.Greeter.GeminiKey, fallback)
		if err != nil {
			fmt.Printf("Warning: failed to initialize Gemini greeter: %v, using templates\n", err)
			return fallback
		}
		return p
	default:
		return fallback
	}
}
