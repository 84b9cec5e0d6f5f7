// Package completion wraps calls to external LLM text-completion APIs.
// The application has no intelligence of its own: every feature builds a
// prompt, sends it through a Client, and parses whatever comes back.
package completion

import (
	"context"
	"fmt"
)

// DefaultMaxTokens bounds most completions.
const DefaultMaxTokens = 1000

// OptimizeMaxTokens bounds optimization-class completions, which return a
// full rewritten CV and need more room.
const OptimizeMaxTokens = 2000

// Temperature is the fixed sampling temperature for all requests.
const Temperature = 0.7

// Client is an abstraction over completion providers.
type Client interface {
	// Complete sends one prompt and returns the raw response text.
	// It performs no retries and no streaming.
	Complete(ctx context.Context, prompt string, maxTokens int) (string, error)
	// Close releases any resources held by the client.
	Close() error
}

// Provider identifies a completion provider.
type Provider string

// Supported providers.
const (
	// ProviderChat is any OpenAI-compatible chat-completions endpoint.
	ProviderChat Provider = "chat"
	// ProviderGemini is Google Gemini.
	ProviderGemini Provider = "gemini"
)

// Config holds provider selection and credentials.
type Config struct {
	Provider Provider
	BaseURL  string // chat provider endpoint, e.g. https://api.deepseek.com/v1/chat/completions
	APIKey   string
	Model    string
}

// DefaultConfig returns the default chat-provider configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderChat,
		BaseURL:  "https://api.deepseek.com/v1/chat/completions",
		Model:    "deepseek-chat",
	}
}

// NewClient creates a completion client for the configured provider.
func NewClient(ctx context.Context, cfg *Config) (Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	switch cfg.Provider {
	case ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case ProviderChat, "":
		return NewChatClient(cfg)
	default:
		return nil, fmt.Errorf("unknown completion provider %q", cfg.Provider)
	}
}
