// ABOUTME: OpenAI chat-completion backend
// ABOUTME: Sends one system and one user message, optional retries with backoff
package llm

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/harper/stagewise/internal/util"
	openai "github.com/sashabaranov/go-openai"
)

const (
	// DefaultChatModel is the default model for chat completions
	DefaultChatModel = "gpt-4o-mini"
)

// ClientConfig holds configuration for the OpenAI client
type ClientConfig struct {
	APIKey      string
	BaseURL     string
	ChatModel   string
	MaxTokens   int
	Temperature float32
	Timeout     time.Duration
	MaxRetries  int
	RetryDelay  time.Duration
}

// DefaultConfig returns the default client configuration
func DefaultConfig(apiKey string) *ClientConfig {
	chatModel := os.Getenv("STAGEWISE_OPENAI_MODEL")
	if chatModel == "" {
		chatModel = DefaultChatModel
	}

	return &ClientConfig{
		APIKey:     apiKey,
		ChatModel:  chatModel,
		Timeout:    30 * time.Second,
		MaxRetries: 0,
		RetryDelay: 2 * time.Second,
	}
}

// OpenAIClient wraps the OpenAI API client
type OpenAIClient struct {
	client      *openai.Client
	chatModel   string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	maxRetries  int
	retryDelay  time.Duration
}

// NewOpenAIClient creates a new OpenAI client with the given API key using default configuration
func NewOpenAIClient(apiKey string) (*OpenAIClient, error) {
	return NewOpenAIClientWithConfig(DefaultConfig(apiKey))
}

// NewOpenAIClientWithConfig creates a new OpenAI client with custom configuration
func NewOpenAIClientWithConfig(config *ClientConfig) (*OpenAIClient, error) {
	if config.APIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	oc := openai.DefaultConfig(config.APIKey)
	if config.BaseURL != "" {
		oc.BaseURL = strings.TrimRight(config.BaseURL, "/")
	}

	model := config.ChatModel
	if model == "" {
		model = DefaultChatModel
	}

	return &OpenAIClient{
		client:      openai.NewClientWithConfig(oc),
		chatModel:   model,
		maxTokens:   config.MaxTokens,
		temperature: config.Temperature,
		timeout:     config.Timeout,
		maxRetries:  config.MaxRetries,
		retryDelay:  config.RetryDelay,
	}, nil
}

// Model returns the chat model in use
func (c *OpenAIClient) Model() string {
	return c.chatModel
}

// WithMaxTokens returns a copy of the client capped at n completion tokens
func (c *OpenAIClient) WithMaxTokens(n int) Generator {
	cp := *c
	cp.maxTokens = n
	return &cp
}

// Generate runs a chat completion with a system and a user message
func (c *OpenAIClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: c.chatModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: systemPrompt,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: userPrompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: c.temperature,
	}

	var lastErr error

	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			if err := util.Sleep(ctx, util.CalculateBackoff(c.retryDelay, attempt)); err != nil {
				return "", fmt.Errorf("attempt %d: %w", attempt+1, err)
			}
		}

		content, err := c.complete(ctx, req)
		if err == nil {
			return content, nil
		}
		lastErr = fmt.Errorf("attempt %d: %w", attempt+1, err)
	}

	if c.maxRetries == 0 {
		return "", fmt.Errorf("chat completion: %w", lastErr)
	}
	return "", fmt.Errorf("chat completion failed after %d attempts: %w", c.maxRetries+1, lastErr)
}

func (c *OpenAIClient) complete(ctx context.Context, req openai.ChatCompletionRequest) (string, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.client.CreateChatCompletion(ctx, req)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("no completion choices returned: %w", ErrEmptyResponse)
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyResponse
	}
	return content, nil
}
