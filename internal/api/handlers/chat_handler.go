package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/models"
	"github.com/markdave123-py/Uncouple/internal/services"
)

type ChatHandler struct {
	chat *services.ChatService
}

func NewChatHandler(chat *services.ChatService) *ChatHandler {
	return &ChatHandler{chat: chat}
}

type ChatRequest struct {
	Message             string               `json:"message"`
	UserID              string               `json:"userId"`
	ConversationHistory []models.ChatMessage `json:"conversationHistory"`
}

// Ask answers one message. Model failures still answer 200 with an apology.
func (h *ChatHandler) Ask(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if !h.chat.Configured() {
		writeError(w, http.StatusServiceUnavailable, "AI service not configured")
		return
	}

	var req ChatRequest
	if !decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	reply, err := h.chat.Ask(r.Context(), uid, req.Message, req.ConversationHistory)
	if err != nil {
		if errors.Is(err, core.ErrNotConfigured) {
			writeError(w, http.StatusServiceUnavailable, "AI service not configured")
			return
		}
		log.Printf("chat: ask for %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "could not answer")
		return
	}
	writeJSON(w, http.StatusOK, reply)
}

func (h *ChatHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	msgs, err := h.chat.History(r.Context(), uid)
	if err != nil {
		log.Printf("chat: history for %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "could not load conversation")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
}

func (h *ChatHandler) ClearSession(w http.ResponseWriter, r *http.Request) {
	uid, ok := userID(w, r)
	if !ok {
		return
	}
	if err := h.chat.Clear(r.Context(), uid); err != nil {
		log.Printf("chat: clear for %s: %v", uid, err)
		writeError(w, http.StatusInternalServerError, "could not clear conversation")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
