// ABOUTME: Centralized configuration for the stagewise CLI and MCP server
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/adrg/xdg"
)

// Config holds all configuration for stagewise
type Config struct {
	// Model provider settings
	Provider      string
	OpenAIKey     string
	OpenAIBaseURL string
	OpenAIModel   string
	GeminiKey     string
	GeminiModel   string
	OllamaHost    string
	OllamaModel   string
	Timeout       time.Duration
	MaxRetries    int
	RetryDelay    time.Duration

	// Stage evaluation settings
	Locale      string
	Markers     []string
	CatalogPath string

	// Journal (Charm KV) settings
	CharmHost string
	JournalDB string
	AutoSync  bool
}

// Providers lists the supported model backends
var Providers = []string{"openai", "gemini", "ollama"}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Provider:      strings.ToLower(getEnv("STAGEWISE_PROVIDER", "openai")),
		OpenAIKey:     os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL: os.Getenv("OPENAI_BASE_URL"),
		OpenAIModel:   getEnv("STAGEWISE_OPENAI_MODEL", "gpt-4o-mini"),
		GeminiKey:     os.Getenv("GEMINI_API_KEY"),
		GeminiModel:   getEnv("STAGEWISE_GEMINI_MODEL", "gemini-2.0-flash"),
		OllamaHost:    os.Getenv("OLLAMA_HOST"),
		OllamaModel:   getEnv("STAGEWISE_OLLAMA_MODEL", "llama3.2"),
		Timeout:       getEnvDuration("STAGEWISE_TIMEOUT", 30*time.Second),
		MaxRetries:    getEnvInt("STAGEWISE_MAX_RETRIES", 0),
		RetryDelay:    getEnvDuration("STAGEWISE_RETRY_DELAY", 2*time.Second),
		Locale:        strings.ToLower(getEnv("STAGEWISE_LOCALE", "en")),
		Markers:       getEnvList("STAGEWISE_MARKERS"),
		CatalogPath:   getEnv("STAGEWISE_CATALOG", defaultCatalogPath()),
		CharmHost:     getEnv("CHARM_HOST", "cloud.charm.sh"),
		JournalDB:     getEnv("STAGEWISE_JOURNAL_DB", "stagewise"),
		AutoSync:      getEnvBool("CHARM_AUTO_SYNC", true),
	}

	return cfg, cfg.Validate()
}

// Validate checks provider, retry and timeout settings
func (c *Config) Validate() error {
	if !containsString(Providers, c.Provider) {
		return fmt.Errorf("STAGEWISE_PROVIDER must be one of %s, got %q", strings.Join(Providers, ", "), c.Provider)
	}
	if c.MaxRetries < 0 || c.MaxRetries > 10 {
		return fmt.Errorf("STAGEWISE_MAX_RETRIES must be 0-10, got %d", c.MaxRetries)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("STAGEWISE_TIMEOUT must be positive, got %v", c.Timeout)
	}
	return nil
}

// defaultCatalogPath returns $XDG_CONFIG_HOME/stagewise/catalog.yaml if it exists
func defaultCatalogPath() string {
	// XDG_CONFIG_HOME is read directly so tests can override it after init
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	path := filepath.Join(configHome, "stagewise", "catalog.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v == "true" || v == "1"
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key string) []string {
	var out []string
	for _, item := range strings.Split(os.Getenv(key), ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

func containsString(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
