// ABOUTME: Backend selection from configuration
// ABOUTME: Builds the OpenAI, Gemini or Ollama generator named by the provider setting
package llm

import (
	"context"
	"fmt"

	"github.com/harper/stagewise/internal/config"
)

// New returns the generator for cfg.Provider
func New(ctx context.Context, cfg *config.Config) (Generator, error) {
	switch cfg.Provider {
	case "", "openai":
		return NewOpenAIClientWithConfig(&ClientConfig{
			APIKey:     cfg.OpenAIKey,
			BaseURL:    cfg.OpenAIBaseURL,
			ChatModel:  cfg.OpenAIModel,
			Timeout:    cfg.Timeout,
			MaxRetries: cfg.MaxRetries,
			RetryDelay: cfg.RetryDelay,
		})
	case "gemini":
		return NewGeminiClient(ctx, &GeminiConfig{
			APIKey:  cfg.GeminiKey,
			Model:   cfg.GeminiModel,
			Timeout: cfg.Timeout,
		})
	case "ollama":
		return NewOllamaClient(&OllamaConfig{
			Host:    cfg.OllamaHost,
			Model:   cfg.OllamaModel,
			Timeout: cfg.Timeout,
		})
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", cfg.Provider)
	}
}

var (
	_ Limiter = (*OpenAIClient)(nil)
	_ Limiter = (*GeminiClient)(nil)
	_ Limiter = (*OllamaClient)(nil)
)
