package llm

import (
	"context"
	"errors"
	"time"

	"google.golang.org/genai"

	"github.com/mekorot-project/mekorot/internal/model"
)

// ErrUnsupported marks a capability the configured provider cannot offer
// (e.g. web grounding outside Gemini)
var ErrUnsupported = errors.New("unsupported by provider")

// ErrEmptyResponse indicates the model returned no usable text
var ErrEmptyResponse = errors.New("empty model response")

// Role identifies the author of a chat turn
type Role string

const (
	RoleUser  Role = "user"
	RoleModel Role = "model"
)

// Turn is one prior exchange in a chat session
type Turn struct {
	Role Role
	Text string
}

// Request describes one generation call. A non-nil Schema requests
// schema-constrained JSON output; the pipeline treats every such response
// as untrusted input and validates it after parsing.
type Request struct {
	System          string        // Persona / system instruction
	Prompt          string        // User-visible prompt content
	Schema          *genai.Schema // Output schema; nil means free text
	MaxOutputTokens int32
	ThinkingBudget  int32
}

// GroundedResult is the output of a web-search-augmented generation call
type GroundedResult struct {
	Text    string
	Sources []model.WebSource
}

// Chat is a stateful multi-turn conversation. Context within a session is
// preserved by the session object itself; unrelated questions start a new
// session.
type Chat interface {
	Send(ctx context.Context, text string) (string, error)
}

// Provider is the generative-model client the pipeline calls. It is
// constructed explicitly and injected, so tests substitute canned
// responses without network access.
type Provider interface {
	Name() string

	// Generate performs a single model call and returns the raw text
	// (JSON text when req.Schema is set)
	Generate(ctx context.Context, req Request) (string, error)

	// GenerateGrounded performs a web-search-augmented call
	GenerateGrounded(ctx context.Context, req Request) (*GroundedResult, error)

	// NewChat opens a multi-turn session seeded with a system instruction
	// and optional prior history
	NewChat(ctx context.Context, system string, history []Turn) (Chat, error)
}

// Config holds provider construction settings
type Config struct {
	// Provider name: "gemini" (default) or "openai"
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for the provider
	APIKey string

	// BaseURL for custom endpoints
	BaseURL string

	// Timeout per model call
	Timeout time.Duration

	// RequestsPerSecond / Burst pace outbound calls; zero rate disables
	RequestsPerSecond float64
	Burst             int
}

// ConfigFromModel converts model.LLMConfig to llm.Config
func ConfigFromModel(mc model.LLMConfig) Config {
	return Config{
		Provider:          mc.Provider,
		Model:             mc.Model,
		APIKey:            mc.APIKey,
		BaseURL:           mc.BaseURL,
		Timeout:           mc.Timeout,
		RequestsPerSecond: mc.RequestsPerSecond,
		Burst:             mc.Burst,
	}
}
