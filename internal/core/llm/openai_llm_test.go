package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/models"
)

func TestOpenAIChatSendsHistoryInOrder(t *testing.T) {
	var got completionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("missing bearer token")
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"You need two years of residency."}}]}`))
	}))
	defer srv.Close()

	o, err := NewOpenAILLM(srv.URL, "sk-test", "gpt-4o-mini")
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	reply, err := o.Chat(context.Background(), core.ChatRequest{
		System: "be brief",
		History: []models.ChatMessage{
			{Role: models.RoleUser, Content: "hi"},
			{Role: models.RoleAssistant, Content: "hello"},
		},
		Message:     "residency?",
		Temperature: 0.7,
		MaxTokens:   300,
	})
	if err != nil {
		t.Fatalf("chat: %v", err)
	}
	if reply != "You need two years of residency." {
		t.Fatalf("reply = %q", reply)
	}

	roles := []string{"system", "user", "assistant", "user"}
	if len(got.Messages) != len(roles) {
		t.Fatalf("sent %d messages, want %d", len(got.Messages), len(roles))
	}
	for i, r := range roles {
		if got.Messages[i].Role != r {
			t.Errorf("message %d role = %s, want %s", i, got.Messages[i].Role, r)
		}
	}
	if got.MaxTokens != 300 || got.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected request %+v", got)
	}
}

func TestOpenAIErrorsSurface(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer srv.Close()

	o, _ := NewOpenAILLM(srv.URL, "sk-test", "")
	if _, err := o.Generate(context.Background(), "", "hello"); err == nil {
		t.Fatal("expected an error for a 429 response")
	}
}

func TestOpenAIRequiresKey(t *testing.T) {
	if _, err := NewOpenAILLM("", "", ""); !errors.Is(err, core.ErrNotConfigured) {
		t.Fatalf("expected ErrNotConfigured, got %v", err)
	}
}
