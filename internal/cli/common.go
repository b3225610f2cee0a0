package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/viper"

	"github.com/mekorot-project/mekorot/internal/llm"
	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/search"
	"github.com/mekorot-project/mekorot/internal/sefaria"
)

// loadConfig merges defaults, the config file, and environment overrides
func loadConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	if err := viper.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}
	cfg.Output.Verbose = cfg.Output.Verbose || verbose
	cfg.Output.JSON = cfg.Output.JSON || jsonOut
	return cfg, nil
}

func language() model.Language {
	if langStr == "en" {
		return model.LangEnglish
	}
	return model.LangHebrew
}

// apiKeyFor resolves the provider's API key from the environment
func apiKeyFor(provider string) string {
	switch provider {
	case "openai":
		return os.Getenv("OPENAI_API_KEY")
	default:
		if key := os.Getenv("GEMINI_API_KEY"); key != "" {
			return key
		}
		return os.Getenv("GOOGLE_API_KEY")
	}
}

// newProvider builds the generative-model provider from configuration
func newProvider(ctx context.Context, cfg *model.Config) (llm.Provider, error) {
	cfg.LLM.APIKey = apiKeyFor(cfg.LLM.Provider)
	provider, err := llm.NewProvider(ctx, llm.ConfigFromModel(cfg.LLM))
	if err != nil {
		return nil, err
	}
	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Using model provider: %s\n", provider.Name())
	}
	return provider, nil
}

// newSearcher wires the full pipeline: provider, repository client, searcher
func newSearcher(ctx context.Context) (*search.Searcher, *model.Config, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	provider, err := newProvider(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	client := sefaria.NewClient(cfg.Sefaria, nil, cfg.Output.Verbose)
	return search.NewSearcher(provider, client, cfg.Search, cfg.Output.Verbose), cfg, nil
}
