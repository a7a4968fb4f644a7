// Package mood classifies the emotional valence of user messages and
// routes conversations into a response mode.
package mood

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/bridgeme/chat-platform/internal/llm"
	"github.com/bridgeme/chat-platform/internal/model"
	"github.com/bridgeme/chat-platform/pkg/logger"
	"github.com/bridgeme/chat-platform/pkg/metrics"
)

const (
	fallbackRationale = "Fallback to Supportive due to detection error."
	missingRationale  = "Model did not provide rationale."

	classifierMaxTokens = 1024
)

// Fallback is the fixed result substituted on any classifier failure. The
// negative mood deliberately biases toward the Supportive mode under
// uncertainty.
func Fallback() model.MoodResult {
	return model.MoodResult{
		Mood:       model.MoodNegative,
		Confidence: 0,
		Rationale:  fallbackRationale,
	}
}

// Classifier detects the mood of a user message with a single LLM call.
type Classifier struct {
	client llm.Client
	model  string
	logger *logger.Logger
}

// NewClassifier creates a new mood classifier.
func NewClassifier(client llm.Client, modelName string, log *logger.Logger) *Classifier {
	return &Classifier{
		client: client,
		model:  modelName,
		logger: log,
	}
}

// Detect classifies the mood of a message in the context of recent history.
// Any failure — transport, parse, out-of-enum mood — is absorbed by the
// fixed fallback; Detect never surfaces an error to the caller.
func (c *Classifier) Detect(ctx context.Context, message string, history []model.HistoryMessage) model.MoodResult {
	result, err := c.classify(ctx, message, history)
	if err != nil {
		c.logger.Warn("mood detection failed, defaulting to supportive", zap.Error(err))
		metrics.ClassifierFallbacksTotal.Inc()
		return Fallback()
	}
	return result
}

func (c *Classifier) classify(ctx context.Context, message string, history []model.HistoryMessage) (model.MoodResult, error) {
	if c.client == nil {
		return model.MoodResult{}, errors.New("no LLM client configured")
	}

	messages := make([]llm.ChatMessage, 0, len(history)+1)
	for _, m := range history {
		messages = append(messages, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: string(model.RoleUser), Content: message})

	// Temperature is pinned to zero for deterministic classification.
	resp, err := c.client.Complete(ctx, &llm.CompletionRequest{
		Model:       c.model,
		System:      ClassifierSystem,
		Messages:    messages,
		MaxTokens:   classifierMaxTokens,
		Temperature: 0,
	})
	if err != nil {
		return model.MoodResult{}, fmt.Errorf("classifier call failed: %w", err)
	}

	text := strings.TrimSpace(resp.Content)
	if text == "" {
		return model.MoodResult{}, errors.New("no text content from classifier")
	}

	var parsed struct {
		Mood       model.Mood `json:"mood"`
		Confidence *float64   `json:"confidence"`
		Rationale  string     `json:"rationale"`
	}
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return model.MoodResult{}, fmt.Errorf("failed to parse classifier response: %w", err)
	}
	if !parsed.Mood.Valid() {
		return model.MoodResult{}, fmt.Errorf("invalid mood value %q", parsed.Mood)
	}

	result := model.MoodResult{
		Mood:      parsed.Mood,
		Rationale: parsed.Rationale,
	}
	if parsed.Confidence != nil {
		result.Confidence = *parsed.Confidence
	}
	if result.Rationale == "" {
		result.Rationale = missingRationale
	}

	return result, nil
}
