// Package store persists conversation history to a flat JSON document.
package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"

	"github.com/bridgeme/chat-platform/internal/model"
	"github.com/bridgeme/chat-platform/pkg/logger"
)

// document is the on-disk layout: one JSON tree whose root key maps
// conversation ids to ordered message arrays.
type document struct {
	Conversations map[string][]model.HistoryMessage `json:"conversations"`
}

// HistoryStore is an append-only per-conversation message log backed by a
// single JSON file. The whole document is read and replaced on every
// append; all mutations serialize on one mutex so concurrent appends to
// the same conversation cannot drop each other's entries.
type HistoryStore struct {
	path   string
	mu     sync.Mutex
	logger *logger.Logger
}

// NewHistoryStore creates a history store backed by the given file path.
// The file is created lazily on first append.
func NewHistoryStore(path string, log *logger.Logger) *HistoryStore {
	return &HistoryStore{
		path:   path,
		logger: log,
	}
}

// Load returns the stored history for a conversation. A missing file, an
// unreadable document, or an unknown id all yield an empty history; read
// failures are never fatal.
func (s *HistoryStore) Load(ctx context.Context, conversationID string) []model.HistoryMessage {
	if conversationID == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	entries := s.read().Conversations[conversationID]
	if len(entries) == 0 {
		return nil
	}

	out := make([]model.HistoryMessage, len(entries))
	copy(out, entries)
	return out
}

// Append appends entries to a conversation's history. It is a no-op when
// the id or the entries are empty. Stored entries are never rewritten or
// reordered, only appended to.
func (s *HistoryStore) Append(ctx context.Context, conversationID string, entries []model.HistoryMessage) error {
	if conversationID == "" || len(entries) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	doc := s.read()
	doc.Conversations[conversationID] = append(doc.Conversations[conversationID], entries...)
	return s.write(doc)
}

func (s *HistoryStore) read() *document {
	doc := &document{Conversations: make(map[string][]model.HistoryMessage)}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("failed to read history document", zap.Error(err), zap.String("path", s.path))
		}
		return doc
	}

	if err := json.Unmarshal(data, doc); err != nil {
		s.logger.Warn("corrupt history document, treating as empty", zap.Error(err), zap.String("path", s.path))
		return &document{Conversations: make(map[string][]model.HistoryMessage)}
	}
	if doc.Conversations == nil {
		doc.Conversations = make(map[string][]model.HistoryMessage)
	}
	return doc
}

func (s *HistoryStore) write(doc *document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal history document: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create history directory: %w", err)
		}
	}

	// Write-then-rename so a crash mid-write never corrupts the document.
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write history document: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace history document: %w", err)
	}
	return nil
}
