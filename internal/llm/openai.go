package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/mekorot-project/mekorot/internal/worker"
)

const defaultOpenAIModel = openai.GPT4oMini

// OpenAIProvider implements Provider on the Chat Completions API. It has no
// web-grounding capability; schema-constrained calls run in JSON mode with
// the schema embedded in the system instruction.
type OpenAIProvider struct {
	client  *openai.Client
	model   string
	limiter *worker.Limiter
	timeout time.Duration
}

// NewOpenAIProvider creates an OpenAI provider
func NewOpenAIProvider(cfg Config) (*OpenAIProvider, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required (set OPENAI_API_KEY)")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = defaultOpenAIModel
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 2 * time.Minute
	}

	return &OpenAIProvider{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   modelName,
		limiter: worker.NewLimiter(cfg.RequestsPerSecond, cfg.Burst),
		timeout: timeout,
	}, nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai:" + p.model
}

// Generate performs a single chat-completion call
func (p *OpenAIProvider) Generate(ctx context.Context, req Request) (string, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	chatReq := openai.ChatCompletionRequest{
		Model:       p.model,
		Temperature: 0.3,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemWithSchema(req)},
			{Role: openai.ChatMessageRoleUser, Content: req.Prompt},
		},
	}
	if req.MaxOutputTokens > 0 {
		chatReq.MaxTokens = int(req.MaxOutputTokens)
	}
	if req.Schema != nil {
		chatReq.ResponseFormat = &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		}
	}

	resp, err := p.client.CreateChatCompletion(callCtx, chatReq)
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	text := stripFences(strings.TrimSpace(resp.Choices[0].Message.Content))
	if text == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

// GenerateGrounded is not available on this provider
func (p *OpenAIProvider) GenerateGrounded(ctx context.Context, req Request) (*GroundedResult, error) {
	return nil, fmt.Errorf("%w: web grounding requires the gemini provider", ErrUnsupported)
}

// NewChat opens a multi-turn session backed by an in-process message history
func (p *OpenAIProvider) NewChat(ctx context.Context, system string, history []Turn) (Chat, error) {
	messages := make([]openai.ChatCompletionMessage, 0, len(history)+1)
	if system != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role: openai.ChatMessageRoleSystem, Content: system,
		})
	}
	for _, turn := range history {
		role := openai.ChatMessageRoleUser
		if turn.Role == RoleModel {
			role = openai.ChatMessageRoleAssistant
		}
		messages = append(messages, openai.ChatCompletionMessage{Role: role, Content: turn.Text})
	}
	return &openaiChat{provider: p, messages: messages}, nil
}

type openaiChat struct {
	provider *OpenAIProvider
	messages []openai.ChatCompletionMessage
}

func (c *openaiChat) Send(ctx context.Context, text string) (string, error) {
	if err := c.provider.limiter.Wait(ctx); err != nil {
		return "", err
	}

	callCtx, cancel := context.WithTimeout(ctx, c.provider.timeout)
	defer cancel()

	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleUser, Content: text,
	})

	resp, err := c.provider.client.CreateChatCompletion(callCtx, openai.ChatCompletionRequest{
		Model:    c.provider.model,
		Messages: c.messages,
	})
	if err != nil {
		return "", fmt.Errorf("OpenAI API error: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", ErrEmptyResponse
	}

	answer := strings.TrimSpace(resp.Choices[0].Message.Content)
	c.messages = append(c.messages, openai.ChatCompletionMessage{
		Role: openai.ChatMessageRoleAssistant, Content: answer,
	})
	return answer, nil
}

// systemWithSchema appends the output schema to the system instruction for
// providers without native schema constraints
func systemWithSchema(req Request) string {
	if req.Schema == nil {
		return req.System
	}
	schemaJSON, err := json.Marshal(req.Schema)
	if err != nil {
		return req.System
	}
	return req.System + "\n\nReturn ONLY a JSON document conforming to this schema:\n" + string(schemaJSON)
}

// stripFences removes markdown code fences some models wrap JSON in
func stripFences(s string) string {
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
	} else {
		return s
	}
	return strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "```"))
}
