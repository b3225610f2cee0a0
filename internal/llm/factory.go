package llm

import (
	"context"
	"fmt"
	"strings"
)

// NewProvider creates a generative-model provider from configuration
func NewProvider(ctx context.Context, cfg Config) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "gemini":
		return NewGeminiProvider(ctx, cfg)

	case "openai":
		return NewOpenAIProvider(cfg)

	default:
		return nil, fmt.Errorf("unknown LLM provider: %s (supported: gemini, openai)", cfg.Provider)
	}
}
