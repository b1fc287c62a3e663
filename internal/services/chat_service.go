package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/models"
)

const (
	SystemPrompt = "You are Uncouple, a helpful legal assistant specializing in New York divorce law. " +
		"You provide accurate, helpful information about divorce processes, custody, support, property division, and legal procedures in NY. " +
		"Always be empathetic and professional. If you don't know something specific, recommend consulting with an attorney. " +
		"Keep responses concise but informative. Use the conversation context to provide more relevant and contextual responses."

	// FallbackReply is returned with a 200 when the model call fails.
	FallbackReply = "I'm experiencing technical difficulties right now. Please try again in a moment, " +
		"or feel free to schedule a consultation with one of our attorneys for immediate assistance."

	// EmptyReply stands in for a completion with no text.
	EmptyReply = "I apologize, but I'm having trouble processing your request right now. " +
		"Please try again or consider speaking with one of our attorneys for immediate assistance."

	DefaultMaxMessages = 20

	chatTemperature = 0.7
	chatMaxTokens   = 300
	contextChunks   = 3
)

// ChatReply is the assistant's answer to one message.
type ChatReply struct {
	Response  string    `json:"response"`
	Timestamp time.Time `json:"timestamp"`
}

// ChatService answers questions about the divorce process and keeps the
// last few messages of each user's conversation.
type ChatService struct {
	db          core.DbClient
	llm         core.LLMProvider
	embedder    core.EmbeddingProvider
	maxMessages int
	now         func() time.Time
}

// NewChatService builds the assistant. llm may be nil when no AI key is
// configured; embedder may be nil to answer without guidance context.
func NewChatService(db core.DbClient, llm core.LLMProvider, embedder core.EmbeddingProvider, maxMessages int) *ChatService {
	if maxMessages < 2 {
		maxMessages = DefaultMaxMessages
	}
	return &ChatService{db: db, llm: llm, embedder: embedder, maxMessages: maxMessages, now: time.Now}
}

// Configured reports whether a completion provider is available.
func (s *ChatService) Configured() bool { return s.llm != nil }

// Ask sends message to the model with the conversation so far. When history
// is empty the stored session is used. Upstream failures produce
// FallbackReply rather than an error.
func (s *ChatService) Ask(ctx context.Context, userID, message string, history []models.ChatMessage) (*ChatReply, error) {
	if s.llm == nil {
		return nil, core.ErrNotConfigured
	}
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("message is required")
	}

	if len(history) == 0 && userID != "" {
		stored, err := s.History(ctx, userID)
		if err != nil {
			log.Printf("WARN: load chat session for %s: %v", userID, err)
		}
		history = stored
	}
	history = lastN(history, s.maxMessages)

	reply, err := s.llm.Chat(ctx, core.ChatRequest{
		System:      s.systemPrompt(ctx, message),
		History:     history,
		Message:     message,
		Temperature: chatTemperature,
		MaxTokens:   chatMaxTokens,
	})
	now := s.now()
	if err != nil {
		log.Printf("chat: completion failed: %v", err)
		return &ChatReply{Response: FallbackReply, Timestamp: now}, nil
	}
	reply = strings.TrimSpace(reply)
	if reply == "" {
		reply = EmptyReply
	}

	if userID != "" {
		err := s.AppendMessages(ctx, userID,
			models.ChatMessage{Role: models.RoleUser, Content: message, Timestamp: now},
			models.ChatMessage{Role: models.RoleAssistant, Content: reply, Timestamp: now},
		)
		if err != nil {
			log.Printf("WARN: save chat session for %s: %v", userID, err)
		}
	}
	return &ChatReply{Response: reply, Timestamp: now}, nil
}

// History returns the retained messages of a user, oldest first.
func (s *ChatService) History(ctx context.Context, userID string) ([]models.ChatMessage, error) {
	sess, err := s.db.GetChatSession(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get chat session: %w", err)
	}
	if sess == nil {
		return []models.ChatMessage{}, nil
	}
	return sess.Messages, nil
}

// AppendMessages adds msgs to the user's session, dropping the oldest
// messages beyond the retention cap.
func (s *ChatService) AppendMessages(ctx context.Context, userID string, msgs ...models.ChatMessage) error {
	sess, err := s.db.GetChatSession(ctx, userID)
	if err != nil {
		return fmt.Errorf("get chat session: %w", err)
	}
	if sess == nil {
		sess = &models.ChatSession{UserID: userID}
	}
	sess.Messages = lastN(append(sess.Messages, msgs...), s.maxMessages)
	sess.UpdatedAt = s.now()
	return s.db.UpsertChatSession(ctx, sess)
}

// Clear deletes the user's conversation.
func (s *ChatService) Clear(ctx context.Context, userID string) error {
	return s.db.DeleteChatSession(ctx, userID)
}

// systemPrompt adds the closest guidance passages to the base prompt.
// Retrieval is best effort.
func (s *ChatService) systemPrompt(ctx context.Context, message string) string {
	if s.embedder == nil {
		return SystemPrompt
	}
	vecs, err := s.embedder.EmbedTexts(ctx, []string{message})
	if err != nil || len(vecs) == 0 {
		if err != nil {
			log.Printf("chat: embed question: %v", err)
		}
		return SystemPrompt
	}
	hits, err := s.db.SearchKnowledgeChunks(ctx, vecs[0], contextChunks)
	if err != nil {
		log.Printf("chat: search guidance: %v", err)
		return SystemPrompt
	}
	if len(hits) == 0 {
		return SystemPrompt
	}

	var b strings.Builder
	b.WriteString(SystemPrompt)
	b.WriteString("\n\nRelevant guidance:\n")
	for i, h := range hits {
		fmt.Fprintf(&b, "[%d] %s\n", i+1, strings.TrimSpace(h.Text))
	}
	return b.String()
}

func lastN(msgs []models.ChatMessage, n int) []models.ChatMessage {
	if len(msgs) <= n {
		return msgs
	}
	out := make([]models.ChatMessage, n)
	copy(out, msgs[len(msgs)-n:])
	return out
}
