// Package llm provides LLM client interfaces and implementations.
package llm

import (
	"context"
)

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents a non-streaming completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	StopReason string
	LatencyMs  int64
}

// Stream yields incremental text fragments from a streaming completion.
// Recv returns io.EOF when the provider signals end-of-generation.
type Stream interface {
	Recv() (string, error)
	Close() error
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a blocking completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Stream establishes a streaming completion request. An error here means
	// generation never started; mid-stream failures surface from Recv.
	Stream(ctx context.Context, req *CompletionRequest) (Stream, error)

	// Name returns the provider name.
	Name() string

	// Models returns available models.
	Models() []string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey string) (Client, error) {
	switch provider {
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey)
	default:
		return NewAnthropicClient(apiKey)
	}
}

// DefaultClassifierModel returns the default mood classification model for
// a provider. Classification runs on the cheapest model that follows the
// JSON-only instruction reliably.
func DefaultClassifierModel(provider string) string {
	if provider == string(ProviderOpenAI) {
		return "gpt-4o-mini"
	}
	return "claude-3-haiku-20240307"
}

// DefaultChatModel returns the default reply generation model for a provider.
func DefaultChatModel(provider string) string {
	if provider == string(ProviderOpenAI) {
		return "gpt-4o"
	}
	return "claude-3-5-sonnet-20241022"
}
