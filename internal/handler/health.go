package handler

import (
	"net/http"

	"github.com/bridgeme/chat-platform/internal/service"
)

// HealthHandler handles health check endpoints.
type HealthHandler struct {
	chatService *service.ChatService
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(chatService *service.ChatService) *HealthHandler {
	return &HealthHandler{
		chatService: chatService,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status": "healthy",
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.chatService == nil || !h.chatService.Configured() {
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "not ready",
			"reason": "no LLM provider configured",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status": "ready",
	})
}
