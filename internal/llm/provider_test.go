// ABOUTME: Tests for backend selection
// ABOUTME: Verifies each provider name maps to the right generator type

package llm

import (
	"context"
	"testing"

	"github.com/harper/stagewise/internal/config"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		wantType string
		wantErr  bool
	}{
		{"openai", config.Config{Provider: "openai", OpenAIKey: "k"}, "*llm.OpenAIClient", false},
		{"openai default", config.Config{OpenAIKey: "k"}, "*llm.OpenAIClient", false},
		{"openai missing key", config.Config{Provider: "openai"}, "", true},
		{"gemini", config.Config{Provider: "gemini", GeminiKey: "k"}, "*llm.GeminiClient", false},
		{"gemini missing key", config.Config{Provider: "gemini"}, "", true},
		{"ollama", config.Config{Provider: "ollama", OllamaHost: "http://localhost:11434"}, "*llm.OllamaClient", false},
		{"unknown", config.Config{Provider: "bard"}, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := tt.cfg
			gen, err := New(context.Background(), &cfg)
			if tt.wantErr {
				if err == nil {
					t.Error("New() should fail")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			if got := typeName(gen); got != tt.wantType {
				t.Errorf("New() type = %s, want %s", got, tt.wantType)
			}
		})
	}
}

func typeName(g Generator) string {
	switch g.(type) {
	case *OpenAIClient:
		return "*llm.OpenAIClient"
	case *GeminiClient:
		return "*llm.GeminiClient"
	case *OllamaClient:
		return "*llm.OllamaClient"
	}
	return "unknown"
}
