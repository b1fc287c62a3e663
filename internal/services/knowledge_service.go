package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/markdave123-py/Uncouple/internal/core"
	ingest "github.com/markdave123-py/Uncouple/internal/core/ingestion_engine"
	"github.com/markdave123-py/Uncouple/internal/models"
)

var ErrInvalidUpload = errors.New("invalid upload")

// KnowledgeService manages the guidance documents the assistant draws on.
type KnowledgeService struct {
	db       core.DbClient
	storage  core.ObjectClient
	bucket   string
	localDir string
	ingestor ingest.Ingestor
}

// NewKnowledgeService builds the service. Without object storage, uploads
// are kept under localDir.
func NewKnowledgeService(db core.DbClient, storage core.ObjectClient, bucket, localDir string, ingestor ingest.Ingestor) *KnowledgeService {
	return &KnowledgeService{db: db, storage: storage, bucket: bucket, localDir: localDir, ingestor: ingestor}
}

// Upload stores a guidance document and queues it for ingestion.
func (s *KnowledgeService) Upload(ctx context.Context, uploadedBy, filename, contentType string, data []byte) (*models.KnowledgeDocument, error) {
	filename = cleanFileName(filename)
	if filename == "" {
		return nil, fmt.Errorf("%w: file name is required", ErrInvalidUpload)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: file is empty", ErrInvalidUpload)
	}
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = guessContentType(filename)
	}

	docID := uuid.NewString()
	url, err := s.store(ctx, docID, filename, contentType, data)
	if err != nil {
		return nil, err
	}

	doc := &models.KnowledgeDocument{
		ID:          docID,
		FileName:    filename,
		StorageURL:  url,
		ContentType: contentType,
		Status:      models.KnowledgeUploaded,
		UploadedBy:  uploadedBy,
	}
	if err := s.db.CreateKnowledgeDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create knowledge document: %w", err)
	}
	if s.ingestor != nil {
		s.ingestor.Enqueue(doc.ID)
	}
	return doc, nil
}

// AddLocal registers a file already on disk and ingests it synchronously.
func (s *KnowledgeService) AddLocal(ctx context.Context, filePath string) (*models.KnowledgeDocument, error) {
	if s.ingestor == nil {
		return nil, core.ErrNotConfigured
	}
	abs, err := filepath.Abs(filePath)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(abs); err != nil {
		return nil, err
	}
	doc := &models.KnowledgeDocument{
		ID:          uuid.NewString(),
		FileName:    filepath.Base(abs),
		StorageURL:  abs,
		ContentType: guessContentType(abs),
		Status:      models.KnowledgeUploaded,
		UploadedBy:  "cli",
	}
	if err := s.db.CreateKnowledgeDocument(ctx, doc); err != nil {
		return nil, fmt.Errorf("create knowledge document: %w", err)
	}
	if err := s.ingestor.ProcessOne(ctx, doc.ID); err != nil {
		return nil, err
	}
	return s.db.GetKnowledgeDocumentByID(ctx, doc.ID)
}

func (s *KnowledgeService) Get(ctx context.Context, id string) (*models.KnowledgeDocument, error) {
	return s.db.GetKnowledgeDocumentByID(ctx, id)
}

func (s *KnowledgeService) List(ctx context.Context) ([]models.KnowledgeDocument, error) {
	return s.db.ListKnowledgeDocuments(ctx)
}

func (s *KnowledgeService) store(ctx context.Context, docID, filename, contentType string, data []byte) (string, error) {
	if s.storage != nil {
		url, err := s.storage.UploadFile(ctx, s.bucket, objectKey(docID, filename), bytes.NewReader(data), contentType)
		if err != nil {
			return "", fmt.Errorf("upload %s: %w", filename, err)
		}
		return url, nil
	}
	dir := filepath.Join(s.localDir, docID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	dst := filepath.Join(dir, filename)
	if err := os.WriteFile(dst, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", dst, err)
	}
	return filepath.Abs(dst)
}

// objectKey creates a consistent S3 key layout.
func objectKey(docID, filename string) string {
	return path.Join("knowledge", docID, filename)
}

func cleanFileName(name string) string {
	name = filepath.Base(strings.TrimSpace(name))
	if name == "." || name == "/" {
		return ""
	}
	return strings.ReplaceAll(name, " ", "_")
}

func guessContentType(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".md", ".markdown":
		return "text/markdown"
	case ".txt":
		return "text/plain"
	}
	if ct := mime.TypeByExtension(filepath.Ext(name)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
