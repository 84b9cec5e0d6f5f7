// Package config loads service configuration from environment variables.
// Each config type is constructed from the environment and validated by
// its normalize method before use.
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jonathan/cv-matcher/internal/completion"
)

// DefaultStartingBalance is the token grant for new accounts when
// STARTING_TOKEN_BALANCE is not set.
const DefaultStartingBalance = 100

// CompletionConfig selects and configures the completion provider.
type CompletionConfig struct {
	Provider completion.Provider
	BaseURL  string
	APIKey   string
	Model    string
}

// NewCompletionConfig reads COMPLETION_PROVIDER, COMPLETION_API_URL,
// COMPLETION_API_KEY and COMPLETION_MODEL. Unset values fall back to the
// chat-completion defaults; the API key is required.
func NewCompletionConfig() (*CompletionConfig, error) {
	defaults := completion.DefaultConfig()

	config := &CompletionConfig{
		Provider: completion.Provider(envOr("COMPLETION_PROVIDER", string(defaults.Provider))),
		BaseURL:  envOr("COMPLETION_API_URL", defaults.BaseURL),
		APIKey:   os.Getenv("COMPLETION_API_KEY"),
		Model:    envOr("COMPLETION_MODEL", defaults.Model),
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *CompletionConfig) normalize() error {
	switch c.Provider {
	case completion.ProviderChat, completion.ProviderGemini:
	default:
		return fmt.Errorf("unknown COMPLETION_PROVIDER: %q", c.Provider)
	}
	if c.APIKey == "" {
		return fmt.Errorf("COMPLETION_API_KEY is required but not set")
	}
	if c.Model == "" {
		return fmt.Errorf("COMPLETION_MODEL cannot be empty")
	}
	return nil
}

// ClientConfig converts the loaded values into a completion client config.
func (c *CompletionConfig) ClientConfig() *completion.Config {
	return &completion.Config{
		Provider: c.Provider,
		BaseURL:  c.BaseURL,
		APIKey:   c.APIKey,
		Model:    c.Model,
	}
}

// ServerConfig holds the HTTP server and storage settings.
type ServerConfig struct {
	Port                 int
	DatabaseURL          string
	StartingTokenBalance int
	EnableBrowserIngest  bool
}

// NewServerConfig reads PORT (default 8080), DATABASE_URL (required),
// STARTING_TOKEN_BALANCE and INGEST_ENABLE_BROWSER.
func NewServerConfig() (*ServerConfig, error) {
	port, err := envInt("PORT", 8080)
	if err != nil {
		return nil, err
	}
	balance, err := envInt("STARTING_TOKEN_BALANCE", DefaultStartingBalance)
	if err != nil {
		return nil, err
	}

	config := &ServerConfig{
		Port:                 port,
		DatabaseURL:          os.Getenv("DATABASE_URL"),
		StartingTokenBalance: balance,
		EnableBrowserIngest:  os.Getenv("INGEST_ENABLE_BROWSER") == "true",
	}

	if err := config.normalize(); err != nil {
		return nil, err
	}
	return config, nil
}

func (c *ServerConfig) normalize() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("PORT out of range: %d", c.Port)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required but not set")
	}
	if c.StartingTokenBalance < 0 {
		return fmt.Errorf("STARTING_TOKEN_BALANCE must be non-negative, got: %d", c.StartingTokenBalance)
	}
	return nil
}

func envOr(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return parsed, nil
}
