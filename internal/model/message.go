// Package model defines data structures for the chat platform.
package model

// Role represents the role of a message sender.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// HistoryMessage is one entry in a conversation's persisted history.
// Entries are immutable once appended; order is arrival order.
type HistoryMessage struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is the body of POST /api/chat. History is a caller-supplied
// fallback used only when no stored history exists for the conversation.
type ChatRequest struct {
	Message        string           `json:"message"`
	History        []HistoryMessage `json:"history,omitempty"`
	ConversationID string           `json:"conversationId,omitempty"`
}
