package core

import (
	"context"
	"io"

	"github.com/markdave123-py/Uncouple/internal/models"
)

// DbClient defines all persistence operations the services need.
// Postgres (pgvector) and SQLite both implement it. Lookups return nil, nil
// when the row does not exist.
type DbClient interface {
	CreateUser(ctx context.Context, user *models.User) (err error)
	GetUserByEmail(ctx context.Context, email string) (user *models.User, err error)

	GetProfile(ctx context.Context, userID string) (*models.Profile, error)
	UpsertProfile(ctx context.Context, profile *models.Profile) error

	GetChatSession(ctx context.Context, userID string) (*models.ChatSession, error)
	UpsertChatSession(ctx context.Context, session *models.ChatSession) error
	DeleteChatSession(ctx context.Context, userID string) error

	UpsertPayment(ctx context.Context, payment *models.Payment) error
	HasPaid(ctx context.Context, userID string) (bool, error)

	CreateKnowledgeDocument(ctx context.Context, doc *models.KnowledgeDocument) error
	GetKnowledgeDocumentByID(ctx context.Context, id string) (*models.KnowledgeDocument, error)
	ListKnowledgeDocuments(ctx context.Context) ([]models.KnowledgeDocument, error)
	UpdateKnowledgeDocumentStatus(ctx context.Context, id string, status string) error

	InsertKnowledgeChunks(ctx context.Context, chunks []models.KnowledgeChunk) error
	SearchKnowledgeChunks(ctx context.Context, queryVec []float32, limit int) ([]models.KnowledgeChunk, error)

	Close() error
}

// ObjectClient defines interactions with S3 or any object storage.
type ObjectClient interface {
	UploadFile(ctx context.Context, bucket, key string, data io.Reader, contentType string) (url string, err error)
	DeleteFile(ctx context.Context, bucket, key string) error
	GetFile(ctx context.Context, bucket, key string) ([]byte, error)

	GetObjectReader(ctx context.Context, bucket, key string) (io.ReadCloser, error)
}
