package ingestion_engine

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/sync/errgroup"

	db "github.com/markdave123-py/Uncouple/internal/core/database"
	"github.com/markdave123-py/Uncouple/internal/models"
)

// markerEmbedder embeds text by counting a few marker words, so similar
// chunks land close together.
type markerEmbedder struct {
	calls int
	fail  bool
}

func (e *markerEmbedder) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	e.calls++
	if e.fail {
		return nil, errors.New("quota exceeded")
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		t = strings.ToLower(t)
		out[i] = []float32{
			float32(strings.Count(t, "residen")),
			float32(strings.Count(t, "custody")),
			1,
		}
	}
	return out, nil
}

func newStore(t *testing.T) *db.SQLiteClient {
	t.Helper()
	s, err := db.NewSQLiteClient(filepath.Join(t.TempDir(), "kb.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func writeGuide(t *testing.T) string {
	t.Helper()
	var b strings.Builder
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Residency rule %d: you or your spouse must meet New York residency requirements.\n", i)
	}
	for i := 0; i < 40; i++ {
		fmt.Fprintf(&b, "Custody note %d: custody and visitation are decided in the best interests of the child.\n", i)
	}
	path := filepath.Join(t.TempDir(), "guide.txt")
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestProcessOneStoresSearchableChunks(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	doc := &models.KnowledgeDocument{ID: "doc-1", FileName: "guide.txt", StorageURL: writeGuide(t), ContentType: "text/plain", Status: models.KnowledgeUploaded}
	if err := store.CreateKnowledgeDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}

	emb := &markerEmbedder{}
	ing := NewKnowledgeIngestor(store, nil, emb, NewDocconvExtractor(false, 0),
		&IngestConfig{TargetTokens: 200, OverlapTokens: 30, BatchSize: 4})
	if err := ing.ProcessOne(ctx, "doc-1"); err != nil {
		t.Fatalf("process: %v", err)
	}

	got, err := store.GetKnowledgeDocumentByID(ctx, "doc-1")
	if err != nil || got.Status != models.KnowledgeReady {
		t.Fatalf("document should be ready, got %+v %v", got, err)
	}
	if emb.calls < 2 {
		t.Fatalf("expected several embedding batches, got %d", emb.calls)
	}

	hits, err := store.SearchKnowledgeChunks(ctx, []float32{0, 5, 1}, 1)
	if err != nil || len(hits) != 1 {
		t.Fatalf("search: %v %d", err, len(hits))
	}
	if !strings.Contains(hits[0].Text, "Custody") {
		t.Fatalf("custody query matched %q", hits[0].Text)
	}
}

func TestProcessOneMarksFailures(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	_ = store.CreateKnowledgeDocument(ctx, &models.KnowledgeDocument{ID: "doc-2", FileName: "guide.txt", StorageURL: writeGuide(t), ContentType: "text/plain", Status: models.KnowledgeUploaded})
	_ = store.CreateKnowledgeDocument(ctx, &models.KnowledgeDocument{ID: "doc-3", FileName: "gone.txt", StorageURL: "/does/not/exist.txt", ContentType: "text/plain", Status: models.KnowledgeUploaded})
	_ = store.CreateKnowledgeDocument(ctx, &models.KnowledgeDocument{ID: "doc-4", FileName: "remote.pdf", StorageURL: "https://bucket.s3.us-east-2.amazonaws.com/knowledge/remote.pdf", ContentType: "application/pdf", Status: models.KnowledgeUploaded})

	ing := NewKnowledgeIngestor(store, nil, &markerEmbedder{fail: true}, NewDocconvExtractor(false, 0), nil)
	for _, id := range []string{"doc-2", "doc-3", "doc-4"} {
		if err := ing.ProcessOne(ctx, id); err == nil {
			t.Fatalf("%s: expected failure", id)
		}
		d, _ := store.GetKnowledgeDocumentByID(ctx, id)
		if d.Status != models.KnowledgeFailed {
			t.Fatalf("%s: status = %s, want failed", id, d.Status)
		}
	}
	if err := ing.ProcessOne(ctx, "missing"); err == nil {
		t.Fatal("unknown document should fail")
	}
}

func TestStreamChunkOverlap(t *testing.T) {
	g, ctx := errgroup.WithContext(context.Background())
	frags := make(chan string)
	go func() {
		defer close(frags)
		for i := 0; i < 6; i++ {
			frags <- strings.Repeat("x", 40) // 10 tokens each
		}
	}()
	var got []chunk
	for c := range streamChunk(ctx, g, frags, 30, 10) {
		got = append(got, c)
	}
	if err := g.Wait(); err != nil {
		t.Fatal(err)
	}
	if len(got) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(got))
	}
	for i, c := range got {
		if c.Pos != i {
			t.Fatalf("chunk %d has position %d", i, c.Pos)
		}
	}
	if got[1].TokenCnt != 30 {
		t.Fatalf("second chunk should start with one overlapping fragment, got %d tokens", got[1].TokenCnt)
	}
}

func TestSplitFragments(t *testing.T) {
	line := strings.Repeat("word ", 100)
	parts := splitFragments(strings.TrimSpace(line), 50)
	for _, p := range parts {
		if len(p) > 50 {
			t.Fatalf("fragment too long: %d", len(p))
		}
	}
	if strings.Join(parts, " ") != strings.TrimSpace(line) {
		t.Fatal("fragments should reassemble the line")
	}
}
