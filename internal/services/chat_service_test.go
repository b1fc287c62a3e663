package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/models"
)

type fakeLLM struct {
	reply string
	err   error
	last  core.ChatRequest
	calls int
}

func (f *fakeLLM) Generate(_ context.Context, _, _ string) (string, error) {
	return f.reply, f.err
}

func (f *fakeLLM) Chat(_ context.Context, req core.ChatRequest) (string, error) {
	f.calls++
	f.last = req
	return f.reply, f.err
}

type fixedEmbedder struct{ vec []float32 }

func (e fixedEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = e.vec
	}
	return out, nil
}

func TestAskRequiresModel(t *testing.T) {
	svc := NewChatService(newStore(t), nil, nil, 0)
	if _, err := svc.Ask(context.Background(), "u1", "hello", nil); !errors.Is(err, core.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}

func TestAskPersistsConversation(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	llm := &fakeLLM{reply: "  You must live in NY for two years.  "}
	svc := NewChatService(store, llm, nil, 0)

	reply, err := svc.Ask(ctx, "u1", "How long must I live in NY?", nil)
	if err != nil {
		t.Fatalf("ask: %v", err)
	}
	if reply.Response != "You must live in NY for two years." || reply.Timestamp.IsZero() {
		t.Fatalf("unexpected reply %+v", reply)
	}
	if llm.last.Temperature != 0.7 || llm.last.MaxTokens != 300 || llm.last.System != SystemPrompt {
		t.Fatalf("unexpected request %+v", llm.last)
	}

	if _, err := svc.Ask(ctx, "u1", "And for custody?", nil); err != nil {
		t.Fatal(err)
	}
	if len(llm.last.History) != 2 || llm.last.History[0].Role != models.RoleUser {
		t.Fatalf("stored history should be sent, got %+v", llm.last.History)
	}

	msgs, _ := svc.History(ctx, "u1")
	if len(msgs) != 4 || msgs[3].Role != models.RoleAssistant {
		t.Fatalf("expected 4 stored messages, got %+v", msgs)
	}

	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatal(err)
	}
	if msgs, _ := svc.History(ctx, "u1"); len(msgs) != 0 {
		t.Fatalf("history should be cleared, got %d", len(msgs))
	}
}

func TestAskFallbacks(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	failing := NewChatService(store, &fakeLLM{err: errors.New("upstream 500")}, nil, 0)
	reply, err := failing.Ask(ctx, "u1", "hello", nil)
	if err != nil || reply.Response != FallbackReply {
		t.Fatalf("expected fallback, got %+v %v", reply, err)
	}
	if msgs, _ := failing.History(ctx, "u1"); len(msgs) != 0 {
		t.Fatal("failed turns should not be stored")
	}

	empty := NewChatService(store, &fakeLLM{reply: " "}, nil, 0)
	reply, err = empty.Ask(ctx, "u1", "hello", nil)
	if err != nil || reply.Response != EmptyReply {
		t.Fatalf("expected empty-reply apology, got %+v %v", reply, err)
	}

	if _, err := empty.Ask(ctx, "u1", "   ", nil); err == nil {
		t.Fatal("blank message should be rejected")
	}
}

func TestAppendMessagesKeepsNewest(t *testing.T) {
	ctx := context.Background()
	svc := NewChatService(newStore(t), nil, nil, 20)

	for i := 0; i < 25; i++ {
		msg := models.ChatMessage{Role: models.RoleUser, Content: fmt.Sprintf("message %d", i), Timestamp: time.Now()}
		if err := svc.AppendMessages(ctx, "u1", msg); err != nil {
			t.Fatalf("append %d: %v", i, err)
		}
	}
	msgs, err := svc.History(ctx, "u1")
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 20 {
		t.Fatalf("expected 20 retained messages, got %d", len(msgs))
	}
	if msgs[0].Content != "message 5" || msgs[19].Content != "message 24" {
		t.Fatalf("oldest messages should be dropped: first %q last %q", msgs[0].Content, msgs[19].Content)
	}
}

func TestAskAddsGuidanceContext(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	_ = store.CreateKnowledgeDocument(ctx, &models.KnowledgeDocument{ID: "d1", FileName: "guide.txt", StorageURL: "/tmp/guide.txt", ContentType: "text/plain", Status: models.KnowledgeReady})
	_ = store.InsertKnowledgeChunks(ctx, []models.KnowledgeChunk{
		{DocumentID: "d1", Text: "File form UD-1 with the county clerk.", Embedding: []float32{1, 0}},
	})

	llm := &fakeLLM{reply: "ok"}
	svc := NewChatService(store, llm, fixedEmbedder{vec: []float32{1, 0}}, 0)
	if _, err := svc.Ask(ctx, "", "Where do I file?", nil); err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(llm.last.System, SystemPrompt) || !strings.Contains(llm.last.System, "county clerk") {
		t.Fatalf("guidance missing from prompt: %q", llm.last.System)
	}
}
