// Package handler provides HTTP handlers for the chat platform.
package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/bridgeme/chat-platform/internal/middleware"
	"github.com/bridgeme/chat-platform/internal/model"
	"github.com/bridgeme/chat-platform/internal/service"
	"github.com/bridgeme/chat-platform/pkg/logger"
	"github.com/bridgeme/chat-platform/pkg/metrics"
)

// ChatHandler handles the mood-routed streaming chat endpoint.
type ChatHandler struct {
	chatService *service.ChatService
	logger      *logger.Logger
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(chatService *service.ChatService, log *logger.Logger) *ChatHandler {
	return &ChatHandler{
		chatService: chatService,
		logger:      log,
	}
}

// Chat handles POST /api/chat. The request is classified, routed into a
// response mode, and answered over an event stream: one meta event, then
// token events in arrival order, then done or error. Pre-stream failures
// return plain JSON errors instead.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req model.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Message = strings.TrimSpace(req.Message)
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "Message is required.")
		return
	}
	if err := middleware.ValidateMessageContent(req.Message); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	if !h.chatService.Configured() {
		writeError(w, http.StatusInternalServerError,
			"Missing ANTHROPIC_API_KEY or OPENAI_API_KEY. Set one in .env and restart the server.")
		return
	}

	log := h.logger.WithRequest(middleware.GetCorrelationID(ctx), req.ConversationID)

	// Classification fully precedes stream start; failures inside are
	// replaced by the Supportive fallback and the request proceeds.
	turn := h.chatService.BeginTurn(ctx, &req)

	stream, err := h.chatService.OpenReply(ctx, turn)
	if err != nil {
		log.Error("failed to establish generation stream", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Failed to generate response.")
		return
	}
	defer stream.Close()

	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // Disable nginx buffering

	metrics.IncrementSSEConnections()
	defer metrics.DecrementSSEConnections()

	sendSSE(w, flusher, model.MetaEvent{
		Type:       model.EventTypeMeta,
		Mood:       turn.Mood.Mood,
		Mode:       turn.Mode,
		Confidence: turn.Mood.Confidence,
		Rationale:  turn.Mood.Rationale,
	})

	var assistantText strings.Builder

	// Finalization runs exactly once on every exit path, including client
	// disconnect; partial text is persisted as-is.
	defer func() {
		h.chatService.FinalizeTurn(ctx, turn, assistantText.String())
	}()

	start := time.Now()
	status := "success"

	for {
		select {
		case <-ctx.Done():
			log.Info("client disconnected mid-stream")
			metrics.RecordLLMStream(h.chatService.ChatModel(), "cancelled", time.Since(start).Seconds())
			return
		default:
		}

		fragment, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			sendSSE(w, flusher, model.DoneEvent{Type: model.EventTypeDone})
			break
		}
		if err != nil {
			log.Error("generation stream failed", zap.Error(err))
			sendSSE(w, flusher, model.ErrorEvent{
				Type:    model.EventTypeError,
				Message: "Streaming failed.",
			})
			status = "error"
			break
		}
		if fragment == "" {
			continue
		}

		assistantText.WriteString(fragment)
		metrics.TokensStreamedTotal.Inc()
		sendSSE(w, flusher, model.TokenEvent{
			Type:    model.EventTypeToken,
			Content: fragment,
		})
	}

	metrics.RecordLLMStream(h.chatService.ChatModel(), status, time.Since(start).Seconds())
}
