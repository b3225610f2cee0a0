package model

import "time"

// Config is the full application configuration
type Config struct {
	Sefaria SefariaConfig `yaml:"sefaria" mapstructure:"sefaria"`
	LLM     LLMConfig     `yaml:"llm" mapstructure:"llm"`
	Search  SearchConfig  `yaml:"search" mapstructure:"search"`
	Chat    ChatConfig    `yaml:"chat" mapstructure:"chat"`
	Output  OutputConfig  `yaml:"output" mapstructure:"output"`
}

// SefariaConfig configures the text repository client
type SefariaConfig struct {
	// BaseURL of the text repository API
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// AttemptTimeout bounds each individual relay attempt
	AttemptTimeout time.Duration `yaml:"attempt_timeout" mapstructure:"attempt_timeout"`

	// Direct skips the relay list and calls the repository directly.
	// The relay fallback exists for restricted network contexts; a server
	// deployment with open egress can go straight to the source.
	Direct bool `yaml:"direct" mapstructure:"direct"`

	// Proxy settings applied to outbound repository requests
	HTTPProxy  string `yaml:"http_proxy" mapstructure:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy" mapstructure:"https_proxy"`
}

// LLMConfig configures the generative model provider
type LLMConfig struct {
	// Provider name: "gemini" or "openai"
	Provider string `yaml:"provider" mapstructure:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model" mapstructure:"model"`

	// APIKey; usually taken from GEMINI_API_KEY / OPENAI_API_KEY
	APIKey string `yaml:"-" mapstructure:"-"`

	// BaseURL for custom endpoints
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`

	// Timeout for a single model call
	Timeout time.Duration `yaml:"timeout" mapstructure:"timeout"`

	// RequestsPerSecond caps the model-call rate. Quota on the model API is
	// the reason the pipeline batches all quote extraction for a query into
	// as few calls as possible; the limiter guards the remainder. Zero
	// disables the limiter.
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// SearchConfig holds the pipeline's numeric budgets
type SearchConfig struct {
	// UnlimitedPrecise / UnlimitedBroad replace an "unlimited" budget
	UnlimitedPrecise int `yaml:"unlimited_precise" mapstructure:"unlimited_precise"`
	UnlimitedBroad   int `yaml:"unlimited_broad" mapstructure:"unlimited_broad"`

	// DisputeRefLimit bounds the reference list for dispute analysis
	DisputeRefLimit int `yaml:"dispute_ref_limit" mapstructure:"dispute_ref_limit"`

	// FanoutWorkers bounds parallel repository fetches and chunk calls
	FanoutWorkers int `yaml:"fanout_workers" mapstructure:"fanout_workers"`

	// ChunkSize and ChunkOverlap shape the corpus map stage. Overlap exists
	// so a passage spanning a chunk boundary is not lost.
	ChunkSize    int `yaml:"chunk_size" mapstructure:"chunk_size"`
	ChunkOverlap int `yaml:"chunk_overlap" mapstructure:"chunk_overlap"`

	// MaxReduceQuotes caps the quote union fed to the reduce call,
	// bounding the prompt size
	MaxReduceQuotes int `yaml:"max_reduce_quotes" mapstructure:"max_reduce_quotes"`
}

// ChatConfig configures rabbi chat sessions
type ChatConfig struct {
	// SessionTTL evicts idle sessions from the in-memory store
	SessionTTL time.Duration `yaml:"session_ttl" mapstructure:"session_ttl"`
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	JSON    bool `yaml:"json" mapstructure:"json"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Sefaria: SefariaConfig{
			BaseURL:        "https://www.sefaria.org",
			AttemptTimeout: 10 * time.Second,
		},
		LLM: LLMConfig{
			Provider:          "gemini",
			Model:             "gemini-2.5-flash",
			Timeout:           2 * time.Minute,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Search: SearchConfig{
			UnlimitedPrecise: 15,
			UnlimitedBroad:   30,
			DisputeRefLimit:  20,
			FanoutWorkers:    8,
			ChunkSize:        10000,
			ChunkOverlap:     500,
			MaxReduceQuotes:  30,
		},
		Chat: ChatConfig{
			SessionTTL: 30 * time.Minute,
		},
		Output: OutputConfig{},
	}
}
