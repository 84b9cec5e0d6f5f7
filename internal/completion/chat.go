package completion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// ChatClient implements Client against an OpenAI-compatible
// chat-completions endpoint.
type ChatClient struct {
	config *Config
	client *http.Client
}

// chatRequest is the wire format of a chat-completions request.
type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// chatResponse is the expected response envelope. Only the first choice's
// message content is used.
type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// NewChatClient creates a client for an OpenAI-compatible endpoint.
func NewChatClient(cfg *Config) (*ChatClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("completion endpoint URL is required")
	}

	return &ChatClient{
		config: cfg,
		client: &http.Client{Timeout: 60 * time.Second},
	}, nil
}

// Complete sends one chat-completion request and returns the raw
// assistant message content.
func (c *ChatClient) Complete(ctx context.Context, prompt string, maxTokens int) (string, error) {
	if strings.TrimSpace(prompt) == "" {
		return "", fmt.Errorf("prompt must not be empty")
	}
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}

	reqBody := chatRequest{
		Model:       c.config.Model,
		Messages:    []chatMessage{{Role: "user", Content: prompt}},
		Temperature: Temperature,
		MaxTokens:   maxTokens,
	}

	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.BaseURL, bytes.NewReader(jsonBody))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.config.APIKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", &TransportError{Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &TransportError{Cause: err}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return "", &TransportError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var envelope chatResponse
	if err := json.Unmarshal(body, &envelope); err != nil {
		return "", &SchemaError{Message: "response body is not valid JSON"}
	}
	if len(envelope.Choices) == 0 || envelope.Choices[0].Message.Content == "" {
		return "", &SchemaError{Message: "missing first choice message content"}
	}

	return envelope.Choices[0].Message.Content, nil
}

// Close is a no-op for the HTTP client.
func (c *ChatClient) Close() error {
	return nil
}
