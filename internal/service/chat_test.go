package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"testing"

	"github.com/bridgeme/chat-platform/internal/llm"
	"github.com/bridgeme/chat-platform/internal/model"
	"github.com/bridgeme/chat-platform/internal/mood"
	"github.com/bridgeme/chat-platform/internal/store"
	"github.com/bridgeme/chat-platform/pkg/logger"
)

type stubStream struct {
	fragments []string
	err       error
	pos       int
}

func (s *stubStream) Recv() (string, error) {
	if s.pos < len(s.fragments) {
		fragment := s.fragments[s.pos]
		s.pos++
		return fragment, nil
	}
	if s.err != nil {
		return "", s.err
	}
	return "", io.EOF
}

func (s *stubStream) Close() error { return nil }

type stubClient struct {
	classification string
	classifyErr    error
	fragments      []string
	streamErr      error

	lastComplete *llm.CompletionRequest
	lastStream   *llm.CompletionRequest
}

func (s *stubClient) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResponse, error) {
	s.lastComplete = req
	if s.classifyErr != nil {
		return nil, s.classifyErr
	}
	return &llm.CompletionResponse{Content: s.classification}, nil
}

func (s *stubClient) Stream(ctx context.Context, req *llm.CompletionRequest) (llm.Stream, error) {
	s.lastStream = req
	if s.streamErr != nil {
		return nil, s.streamErr
	}
	return &stubStream{fragments: s.fragments}, nil
}

func (s *stubClient) Name() string     { return "stub" }
func (s *stubClient) Models() []string { return nil }

func newTestService(t *testing.T, client llm.Client) (*ChatService, *store.HistoryStore) {
	t.Helper()
	log := logger.NewNop()
	historyStore := store.NewHistoryStore(filepath.Join(t.TempDir(), "chat-db.json"), log)
	classifier := mood.NewClassifier(client, "classifier-model", log)
	svc := NewChatService(historyStore, client, classifier, Options{
		ChatModel:     "chat-model",
		MaxTokens:     240,
		Temperature:   0.7,
		HistoryWindow: 8,
	}, log)
	return svc, historyStore
}

func TestBeginTurnTruncatesStoredHistory(t *testing.T) {
	client := &stubClient{classification: `{"mood":"neutral","confidence":0.6,"rationale":"flat"}`}
	svc, historyStore := newTestService(t, client)
	ctx := context.Background()

	var stored []model.HistoryMessage
	for i := 0; i < 12; i++ {
		stored = append(stored, model.HistoryMessage{Role: model.RoleUser, Content: fmt.Sprintf("m%d", i)})
	}
	if err := historyStore.Append(ctx, "c1", stored); err != nil {
		t.Fatalf("Append err: %v", err)
	}

	turn := svc.BeginTurn(ctx, &model.ChatRequest{Message: "hello", ConversationID: "c1"})

	if len(turn.History) != 8 {
		t.Fatalf("expected history truncated to 8, got %d", len(turn.History))
	}
	if turn.History[0].Content != "m4" || turn.History[7].Content != "m11" {
		t.Fatalf("expected most recent 8 entries, got %s..%s", turn.History[0].Content, turn.History[7].Content)
	}
	// The classifier must see the same truncated window plus the new message.
	if got := len(client.lastComplete.Messages); got != 9 {
		t.Fatalf("classifier saw %d messages, expected 9", got)
	}
}

func TestBeginTurnPrefersStoredOverRequestHistory(t *testing.T) {
	client := &stubClient{classification: `{"mood":"neutral","confidence":0.6,"rationale":"flat"}`}
	svc, historyStore := newTestService(t, client)
	ctx := context.Background()

	historyStore.Append(ctx, "c1", []model.HistoryMessage{{Role: model.RoleUser, Content: "stored"}})

	turn := svc.BeginTurn(ctx, &model.ChatRequest{
		Message:        "hello",
		ConversationID: "c1",
		History:        []model.HistoryMessage{{Role: model.RoleUser, Content: "from-request"}},
	})

	if len(turn.History) != 1 || turn.History[0].Content != "stored" {
		t.Fatalf("expected stored history to win, got %+v", turn.History)
	}
}

func TestBeginTurnFallsBackToRequestHistory(t *testing.T) {
	client := &stubClient{classification: `{"mood":"neutral","confidence":0.6,"rationale":"flat"}`}
	svc, _ := newTestService(t, client)

	turn := svc.BeginTurn(context.Background(), &model.ChatRequest{
		Message:        "hello",
		ConversationID: "fresh",
		History:        []model.HistoryMessage{{Role: model.RoleUser, Content: "from-request"}},
	})

	if len(turn.History) != 1 || turn.History[0].Content != "from-request" {
		t.Fatalf("expected request history fallback, got %+v", turn.History)
	}
}

func TestBeginTurnClassifierFailureRoutesSupportive(t *testing.T) {
	client := &stubClient{classifyErr: errors.New("boom")}
	svc, _ := newTestService(t, client)

	turn := svc.BeginTurn(context.Background(), &model.ChatRequest{Message: "hello"})

	if turn.Mode != model.ModeSupportive {
		t.Fatalf("expected Supportive on classifier failure, got %s", turn.Mode)
	}
	if turn.Mood.Confidence != 0 {
		t.Fatalf("expected fallback confidence 0, got %v", turn.Mood.Confidence)
	}
	if turn.System != mood.SupportiveSystem {
		t.Fatal("expected supportive system prompt")
	}
}

func TestOpenReplyUsesSelectedPromptAndWindow(t *testing.T) {
	client := &stubClient{
		classification: `{"mood":"positive","confidence":0.9,"rationale":"upbeat"}`,
		fragments:      []string{"hi"},
	}
	svc, _ := newTestService(t, client)
	ctx := context.Background()

	turn := svc.BeginTurn(ctx, &model.ChatRequest{
		Message: "great news",
		History: []model.HistoryMessage{{Role: model.RoleAssistant, Content: "prior"}},
	})

	stream, err := svc.OpenReply(ctx, turn)
	if err != nil {
		t.Fatalf("OpenReply err: %v", err)
	}
	defer stream.Close()

	req := client.lastStream
	if req.System != mood.ExploratorySystem {
		t.Fatal("positive mood must generate with the exploratory prompt")
	}
	if req.Temperature != 0.7 {
		t.Fatalf("expected generation temperature 0.7, got %v", req.Temperature)
	}
	if req.MaxTokens != 240 {
		t.Fatalf("expected bounded output length 240, got %d", req.MaxTokens)
	}
	if len(req.Messages) != 2 || req.Messages[1].Content != "great news" {
		t.Fatalf("generation must see history plus message, got %+v", req.Messages)
	}
}

func TestOpenReplyWithoutClient(t *testing.T) {
	log := logger.NewNop()
	historyStore := store.NewHistoryStore(filepath.Join(t.TempDir(), "chat-db.json"), log)
	classifier := mood.NewClassifier(nil, "classifier-model", log)
	svc := NewChatService(historyStore, nil, classifier, Options{}, log)

	if svc.Configured() {
		t.Fatal("service without a client must not report configured")
	}
	if _, err := svc.OpenReply(context.Background(), &Turn{Message: "x"}); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
}

func TestFinalizeTurnAppendsPair(t *testing.T) {
	client := &stubClient{classification: `{"mood":"neutral","confidence":0.5,"rationale":"flat"}`}
	svc, historyStore := newTestService(t, client)
	ctx := context.Background()

	turn := &Turn{Message: "question", ConversationID: "c1"}
	svc.FinalizeTurn(ctx, turn, "answer")

	got := historyStore.Load(ctx, "c1")
	if len(got) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(got))
	}
	if got[0].Role != model.RoleUser || got[0].Content != "question" {
		t.Fatalf("unexpected user entry: %+v", got[0])
	}
	if got[1].Role != model.RoleAssistant || got[1].Content != "answer" {
		t.Fatalf("unexpected assistant entry: %+v", got[1])
	}
}

func TestFinalizeTurnNoopWithoutConversationID(t *testing.T) {
	client := &stubClient{classification: `{"mood":"neutral","confidence":0.5,"rationale":"flat"}`}
	svc, historyStore := newTestService(t, client)
	ctx := context.Background()

	svc.FinalizeTurn(ctx, &Turn{Message: "question"}, "answer")

	if got := historyStore.Load(ctx, ""); len(got) != 0 {
		t.Fatalf("expected no persistence without conversation id, got %d entries", len(got))
	}
}
