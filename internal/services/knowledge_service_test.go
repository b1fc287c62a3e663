package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/markdave123-py/Uncouple/internal/models"
)

type queueIngestor struct {
	queued    []string
	processed []string
}

func (q *queueIngestor) Start(context.Context, int) {}
func (q *queueIngestor) Enqueue(id string) { q.queued = append(q.queued, id) }
func (q *queueIngestor) ProcessOne(_ context.Context, id string) error {
	q.processed = append(q.processed, id)
	return nil
}

func TestUploadStoresLocallyAndQueues(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	ing := &queueIngestor{}
	dir := t.TempDir()
	svc := NewKnowledgeService(store, nil, "", dir, ing)

	doc, err := svc.Upload(ctx, "admin", "NY divorce guide.txt", "", []byte("Residency rules."))
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if doc.FileName != "NY_divorce_guide.txt" || doc.ContentType != "text/plain" || doc.Status != models.KnowledgeUploaded {
		t.Fatalf("unexpected document %+v", doc)
	}
	if data, err := os.ReadFile(doc.StorageURL); err != nil || string(data) != "Residency rules." {
		t.Fatalf("stored file: %q %v", data, err)
	}
	if len(ing.queued) != 1 || ing.queued[0] != doc.ID {
		t.Fatalf("document should be queued, got %v", ing.queued)
	}

	docs, err := svc.List(ctx)
	if err != nil || len(docs) != 1 {
		t.Fatalf("list: %v %d", err, len(docs))
	}
	if _, err := svc.Upload(ctx, "admin", "empty.txt", "", nil); err == nil {
		t.Fatal("empty upload should fail")
	}
}

func TestAddLocal(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "notes.md")
	if err := os.WriteFile(path, []byte("# Custody"), 0o644); err != nil {
		t.Fatal(err)
	}
	ing := &queueIngestor{}
	svc := NewKnowledgeService(newStore(t), nil, "", t.TempDir(), ing)

	doc, err := svc.AddLocal(ctx, path)
	if err != nil {
		t.Fatalf("add local: %v", err)
	}
	if doc.ContentType != "text/markdown" || len(ing.processed) != 1 {
		t.Fatalf("unexpected %+v, processed %v", doc, ing.processed)
	}
	if _, err := svc.AddLocal(ctx, filepath.Join(t.TempDir(), "missing.pdf")); err == nil {
		t.Fatal("missing file should fail")
	}
}
