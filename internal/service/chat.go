// Package service provides business logic for the chat platform.
package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/bridgeme/chat-platform/internal/llm"
	"github.com/bridgeme/chat-platform/internal/model"
	"github.com/bridgeme/chat-platform/internal/mood"
	"github.com/bridgeme/chat-platform/internal/store"
	"github.com/bridgeme/chat-platform/pkg/logger"
	"github.com/bridgeme/chat-platform/pkg/metrics"
)

// ErrNoClient indicates that no LLM provider is configured.
var ErrNoClient = errors.New("no LLM client configured")

// Turn carries everything resolved for one chat request before generation
// starts: the trimmed inputs, the history window, and the classification
// outcome.
type Turn struct {
	Message        string
	ConversationID string
	History        []model.HistoryMessage
	Mood           model.MoodResult
	Mode           model.Mode
	System         string
}

// ChatService orchestrates the mood-classification-and-routing pipeline.
type ChatService struct {
	store      *store.HistoryStore
	llmClient  llm.Client
	classifier *mood.Classifier
	logger     *logger.Logger

	chatModel     string
	maxTokens     int
	temperature   float64
	historyWindow int
}

// Options configures a ChatService.
type Options struct {
	ChatModel     string
	MaxTokens     int
	Temperature   float64
	HistoryWindow int
}

// NewChatService creates a new chat service. The llmClient may be nil when
// no provider credential is configured; requests then fail before streaming.
func NewChatService(
	historyStore *store.HistoryStore,
	llmClient llm.Client,
	classifier *mood.Classifier,
	opts Options,
	log *logger.Logger,
) *ChatService {
	if opts.HistoryWindow <= 0 {
		opts.HistoryWindow = 8
	}
	return &ChatService{
		store:         historyStore,
		llmClient:     llmClient,
		classifier:    classifier,
		logger:        log,
		chatModel:     opts.ChatModel,
		maxTokens:     opts.MaxTokens,
		temperature:   opts.Temperature,
		historyWindow: opts.HistoryWindow,
	}
}

// Configured reports whether an LLM provider is available.
func (s *ChatService) Configured() bool {
	return s.llmClient != nil
}

// BeginTurn resolves history, classifies mood, and selects the response
// mode for an incoming request. Stored history wins over caller-supplied
// history when present; both are truncated to the most recent window.
// Classification failures are absorbed by the fallback policy, so
// BeginTurn never fails.
func (s *ChatService) BeginTurn(ctx context.Context, req *model.ChatRequest) *Turn {
	message := strings.TrimSpace(req.Message)
	conversationID := strings.TrimSpace(req.ConversationID)

	history := s.store.Load(ctx, conversationID)
	if len(history) == 0 {
		history = req.History
	}
	history = truncateHistory(history, s.historyWindow)

	result := s.classifier.Detect(ctx, message, history)
	m := mood.ModeFor(result.Mood)
	metrics.MoodDetectionsTotal.WithLabelValues(string(result.Mood), string(m)).Inc()

	return &Turn{
		Message:        message,
		ConversationID: conversationID,
		History:        history,
		Mood:           result,
		Mode:           m,
		System:         mood.SystemPrompt(m),
	}
}

// OpenReply establishes the streaming generation call for a prepared turn.
// An error here means generation never started.
func (s *ChatService) OpenReply(ctx context.Context, turn *Turn) (llm.Stream, error) {
	if s.llmClient == nil {
		return nil, ErrNoClient
	}

	messages := make([]llm.ChatMessage, 0, len(turn.History)+1)
	for _, m := range turn.History {
		messages = append(messages, llm.ChatMessage{Role: string(m.Role), Content: m.Content})
	}
	messages = append(messages, llm.ChatMessage{Role: string(model.RoleUser), Content: turn.Message})

	return s.llmClient.Stream(ctx, &llm.CompletionRequest{
		Model:       s.chatModel,
		System:      turn.System,
		Messages:    messages,
		MaxTokens:   s.maxTokens,
		Temperature: s.temperature,
	})
}

// ChatModel returns the configured reply generation model name.
func (s *ChatService) ChatModel() string {
	return s.chatModel
}

// FinalizeTurn persists the completed turn: the original user message plus
// the accumulated assistant text, which may be partial if an error
// truncated generation. No-op when the request carried no conversation id.
func (s *ChatService) FinalizeTurn(ctx context.Context, turn *Turn, assistantText string) {
	if turn.ConversationID == "" {
		return
	}

	entries := []model.HistoryMessage{
		{Role: model.RoleUser, Content: turn.Message},
		{Role: model.RoleAssistant, Content: assistantText},
	}
	if err := s.store.Append(ctx, turn.ConversationID, entries); err != nil {
		s.logger.Error("failed to persist conversation turn",
			zap.Error(err),
			zap.String("conversation_id", turn.ConversationID),
		)
	}
}

func truncateHistory(history []model.HistoryMessage, window int) []model.HistoryMessage {
	if window <= 0 || len(history) <= window {
		return history
	}
	return history[len(history)-window:]
}
