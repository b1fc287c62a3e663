package core

import (
	"context"

	"github.com/markdave123-py/Uncouple/internal/models"
)

type EmbeddingProvider interface {
	EmbedTexts(ctx context.Context, texts []string) ([][]float32, error)
}

// ChatRequest is one assistant turn: the system prompt, the retained
// conversation and the new user message.
type ChatRequest struct {
	System      string
	History     []models.ChatMessage
	Message     string
	Temperature float32
	MaxTokens   int
}

type LLMProvider interface {
	Generate(ctx context.Context, systemPrompt string, userPrompt string) (string, error)
	Chat(ctx context.Context, req ChatRequest) (string, error)
}
