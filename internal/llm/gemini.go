package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/mekorot-project/mekorot/internal/model"
	"github.com/mekorot-project/mekorot/internal/worker"
)

const defaultGeminiModel = "gemini-2.5-flash"

// GeminiProvider implements Provider on the official genai client
type GeminiProvider struct {
	client  *genai.Client
	model   string
	limiter *worker.Limiter
	timeout time.Duration
}

// NewGeminiProvider creates a Gemini provider
func NewGeminiProvider(ctx context.Context, cfg Config) (*GeminiProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("gemini API key is required (set GEMINI_API_KEY)")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create gemini client: %w", err)
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultGeminiModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	return &GeminiProvider{
		client:  client,
		model:   modelName,
		limiter: worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		timeout: timeout,
	}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini:" + p.model
}

// Generate performs a single content-generation call
func (p *GeminiProvider) Generate(ctx context.Context, req Request) (string, error) {
	resp, err := p.call(ctx, req, nil)
	if err != nil {
		return "", err
	}
	return candidateText(resp)
}

// GenerateGrounded performs a call with the GoogleSearch tool enabled and
// collects the grounding links the model actually consulted
func (p *GeminiProvider) GenerateGrounded(ctx context.Context, req Request) (*GroundedResult, error) {
	tools := []*genai.Tool{{GoogleSearch: &genai.GoogleSearch{}}}
	resp, err := p.call(ctx, req, tools)
	if err != nil {
		return nil, err
	}

	text, err := candidateText(resp)
	if err != nil {
		return nil, err
	}

	var sources []model.WebSource
	if gm := resp.Candidates[0].GroundingMetadata; gm != nil {
		for _, chunk := range gm.GroundingChunks {
			if chunk.Web != nil {
				sources = append(sources, model.WebSource{URI: chunk.Web.URI, Title: chunk.Web.Title})
			}
		}
	}

	return &GroundedResult{Text: text, Sources: sources}, nil
}

// NewChat opens a multi-turn session
func (p *GeminiProvider) NewChat(ctx context.Context, system string, history []Turn) (Chat, error) {
	var past []*genai.Content
	for _, turn := range history {
		past = append(past, &genai.Content{
			Role:  string(turn.Role),
			Parts: []*genai.Part{{Text: turn.Text}},
		})
	}

	cfg := &genai.GenerateContentConfig{}
	if system != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: system}}}
	}

	chat, err := p.client.Chats.Create(ctx, p.model, cfg, past)
	if err != nil {
		return nil, fmt.Errorf("create chat session: %w", err)
	}
	return &geminiChat{chat: chat, limiter: p.limiter, timeout: p.timeout}, nil
}

func (p *GeminiProvider) call(ctx context.Context, req Request, tools []*genai.Tool) (*genai.GenerateContentResponse, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	cfg := &genai.GenerateContentConfig{Tools: tools}
	if req.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: req.System}}}
	}
	if req.Schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = req.Schema
	}
	if req.MaxOutputTokens > 0 {
		cfg.MaxOutputTokens = req.MaxOutputTokens
	}
	if req.ThinkingBudget > 0 {
		cfg.ThinkingConfig = &genai.ThinkingConfig{ThinkingBudget: genai.Ptr(req.ThinkingBudget)}
	}

	resp, err := p.client.Models.GenerateContent(callCtx, p.model,
		[]*genai.Content{{Parts: []*genai.Part{{Text: req.Prompt}}}}, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini API error: %w", err)
	}
	return resp, nil
}

type geminiChat struct {
	chat    *genai.Chat
	limiter *worker.Limiter
	timeout time.Duration
}

func (c *geminiChat) Send(ctx context.Context, text string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.chat.SendMessage(callCtx, genai.Part{Text: text})
	if err != nil {
		return "", fmt.Errorf("gemini chat error: %w", err)
	}
	return candidateText(resp)
}

// candidateText joins the text parts of the first candidate
func candidateText(resp *genai.GenerateContentResponse) (string, error) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}
	var b strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if part != nil {
			b.WriteString(part.Text)
		}
	}
	text := strings.TrimSpace(b.String())
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
