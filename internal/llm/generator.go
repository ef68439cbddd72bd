// ABOUTME: Text-generation collaborator interface shared by all backends
// ABOUTME: Generate takes a system prompt and a user prompt and returns the reply text
package llm

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when a backend replies without any text
var ErrEmptyResponse = errors.New("model returned an empty response")

// Generator produces a text reply for a system prompt plus a user prompt
type Generator interface {
	Generate(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Limiter is implemented by generators that can cap the reply length
type Limiter interface {
	WithMaxTokens(n int) Generator
}

// LimitTokens returns g capped at n tokens when g supports it, g otherwise
func LimitTokens(g Generator, n int) Generator {
	if n <= 0 {
		return g
	}
	if l, ok := g.(Limiter); ok {
		return l.WithMaxTokens(n)
	}
	return g
}
