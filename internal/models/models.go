package models

import (
	"time"
)

// User represents an authenticated user of the system.
type User struct {
	ID           string    `db:"id" json:"id"`
	FirstName    string    `db:"first_name" json:"first_name"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password" json:"-"`
	Role         string    `db:"role" json:"role"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time `db:"updated_at" json:"updated_at"`
}

// Account roles. Admins manage the assistant's guidance documents.
const (
	UserRoleMember = "member"
	UserRoleAdmin  = "admin"
)

// Profile is the persisted intake record of one user.
type Profile struct {
	UserID    string     `db:"user_id" json:"user_id"`
	Record    FormRecord `db:"record" json:"record"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// Chat roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage represents an individual chat message (user or assistant).
type ChatMessage struct {
	Role      string    `json:"role"`    // "user" or "assistant"
	Content   string    `json:"content"` // message text
	Timestamp time.Time `json:"timestamp"`
}

// ChatSession holds the retained conversation of one user.
type ChatSession struct {
	UserID    string        `db:"user_id" json:"user_id"`
	Messages  []ChatMessage `db:"messages" json:"messages"`
	UpdatedAt time.Time     `db:"updated_at" json:"updated_at"`
}

// Payment status values.
const (
	PaymentPending  = "pending"
	PaymentPaid     = "paid"
	PaymentCanceled = "canceled"
)

// Payment records one checkout session for a user.
type Payment struct {
	SessionID   string    `db:"session_id" json:"session_id"`
	UserID      string    `db:"user_id" json:"user_id"`
	Status      string    `db:"status" json:"status"` // pending | paid | canceled
	AmountTotal int64     `db:"amount_total" json:"amount_total"`
	Currency    string    `db:"currency" json:"currency"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Knowledge document status values.
const (
	KnowledgeUploaded   = "uploaded"
	KnowledgeProcessing = "processing"
	KnowledgeReady      = "ready"
	KnowledgeFailed     = "failed"
)

// KnowledgeDocument is a guidance document the assistant can draw on.
type KnowledgeDocument struct {
	ID          string    `db:"id" json:"id"`
	FileName    string    `db:"file_name" json:"file_name"`
	StorageURL  string    `db:"storage_url" json:"storage_url"` // S3 URL or local path
	ContentType string    `db:"content_type" json:"content_type"`
	Status      string    `db:"status" json:"status"` // uploaded | processing | ready | failed
	UploadedBy  string    `db:"uploaded_by" json:"uploaded_by"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// KnowledgeChunk represents one text chunk from a knowledge document.
type KnowledgeChunk struct {
	ID         string    `db:"id" json:"id"`
	DocumentID string    `db:"document_id" json:"document_id"`
	Text       string    `db:"text" json:"text"`
	Embedding  []float32 `db:"embedding" json:"embedding"` // pgvector column
	Position   int       `db:"position" json:"position"`
	TokenCount int       `db:"token_count" json:"token_count"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
}
