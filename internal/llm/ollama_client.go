// ABOUTME: Local Ollama backend using the chat endpoint without streaming
// ABOUTME: Host comes from config, then OLLAMA_HOST, then localhost
package llm

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
)

// DefaultOllamaModel is used when no Ollama model is configured
const DefaultOllamaModel = "llama3.2"

// OllamaConfig holds configuration for the Ollama client
type OllamaConfig struct {
	Host      string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// OllamaClient generates replies with a local Ollama server
type OllamaClient struct {
	client    *api.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// NewOllamaClient creates an Ollama client
func NewOllamaClient(cfg *OllamaConfig) (*OllamaClient, error) {
	var c *api.Client
	if host := strings.TrimSpace(cfg.Host); host != "" {
		u, err := url.Parse(host)
		if err != nil {
			return nil, fmt.Errorf("ollama: bad host %q: %w", host, err)
		}
		c = api.NewClient(u, http.DefaultClient)
	} else {
		var err error
		c, err = api.ClientFromEnvironment()
		if err != nil {
			u, _ := url.Parse("http://localhost:11434")
			c = api.NewClient(u, http.DefaultClient)
		}
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = DefaultOllamaModel
	}
	return &OllamaClient{client: c, model: model, maxTokens: cfg.MaxTokens, timeout: cfg.Timeout}, nil
}

// WithMaxTokens returns a copy capped at n predicted tokens
func (o *OllamaClient) WithMaxTokens(n int) Generator {
	cp := *o
	cp.maxTokens = n
	return &cp
}

func (o *OllamaClient) Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	stream := false
	req := &api.ChatRequest{
		Model: o.model,
		Messages: []api.Message{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userPrompt},
		},
		Stream: &stream,
	}
	if o.maxTokens > 0 {
		req.Options = map[string]any{"num_predict": o.maxTokens}
	}

	var out strings.Builder
	if err := o.client.Chat(ctx, req, func(resp api.ChatResponse) error {
		out.WriteString(resp.Message.Content)
		return nil
	}); err != nil {
		return "", fmt.Errorf("ollama chat: %w", err)
	}

	text := strings.TrimSpace(out.String())
	if text == "" {
		return "", fmt.Errorf("ollama: %w", ErrEmptyResponse)
	}
	return text, nil
}
