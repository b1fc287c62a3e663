package db

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/markdave123-py/Uncouple/internal/models"
)

func openTestStore(t *testing.T) *SQLiteClient {
	t.Helper()
	c, err := NewSQLiteClient(filepath.Join(t.TempDir(), "uncouple.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestUsersAndProfiles(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t)

	u := &models.User{FirstName: "Jane", Email: "jane@example.com", PasswordHash: "hash"}
	if err := c.CreateUser(ctx, u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	if u.ID == "" {
		t.Fatal("user id should be assigned")
	}
	if err := c.CreateUser(ctx, &models.User{Email: "jane@example.com", PasswordHash: "x"}); err == nil {
		t.Fatal("duplicate email should be rejected")
	}
	got, err := c.GetUserByEmail(ctx, "jane@example.com")
	if err != nil || got == nil || got.ID != u.ID {
		t.Fatalf("get user: %v %+v", err, got)
	}
	if missing, err := c.GetUserByEmail(ctx, "nobody@example.com"); err != nil || missing != nil {
		t.Fatalf("missing user should be nil, nil; got %+v, %v", missing, err)
	}

	if p, err := c.GetProfile(ctx, u.ID); err != nil || p != nil {
		t.Fatalf("no profile yet, got %+v %v", p, err)
	}
	rec := models.FormRecord{YourFullName: "Jane Doe", MarriageCity: "Albany", LivedInNY2Years: true}
	if err := c.UpsertProfile(ctx, &models.Profile{UserID: u.ID, Record: rec}); err != nil {
		t.Fatalf("upsert profile: %v", err)
	}
	rec.MarriageCity = "Troy"
	if err := c.UpsertProfile(ctx, &models.Profile{UserID: u.ID, Record: rec}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	p, err := c.GetProfile(ctx, u.ID)
	if err != nil || p == nil {
		t.Fatalf("get profile: %v", err)
	}
	if p.Record.MarriageCity != "Troy" || !p.Record.LivedInNY2Years || p.Record.YourFullName != "Jane Doe" {
		t.Fatalf("profile not round-tripped: %+v", p.Record)
	}
}

func TestChatSessions(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t)

	s := &models.ChatSession{UserID: "u1", Messages: []models.ChatMessage{
		{Role: models.RoleUser, Content: "How long does it take?"},
		{Role: models.RoleAssistant, Content: "Usually a few months."},
	}}
	if err := c.UpsertChatSession(ctx, s); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, err := c.GetChatSession(ctx, "u1")
	if err != nil || got == nil || len(got.Messages) != 2 || got.Messages[1].Role != models.RoleAssistant {
		t.Fatalf("get session: %v %+v", err, got)
	}
	if err := c.DeleteChatSession(ctx, "u1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if got, err := c.GetChatSession(ctx, "u1"); err != nil || got != nil {
		t.Fatalf("session should be gone, got %+v %v", got, err)
	}
}

func TestPayments(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t)

	if err := c.UpsertPayment(ctx, &models.Payment{SessionID: "cs_1", UserID: "u1", Status: models.PaymentPending, AmountTotal: 9900, Currency: "usd"}); err != nil {
		t.Fatalf("pending: %v", err)
	}
	if paid, err := c.HasPaid(ctx, "u1"); err != nil || paid {
		t.Fatalf("pending payment must not count, got %v %v", paid, err)
	}
	if err := c.UpsertPayment(ctx, &models.Payment{SessionID: "cs_1", UserID: "u1", Status: models.PaymentPaid, AmountTotal: 9900, Currency: "usd"}); err != nil {
		t.Fatalf("paid: %v", err)
	}
	if paid, err := c.HasPaid(ctx, "u1"); err != nil || !paid {
		t.Fatalf("expected paid, got %v %v", paid, err)
	}
	if paid, _ := c.HasPaid(ctx, "u2"); paid {
		t.Fatal("payments are per user")
	}
}

func TestKnowledgeSearch(t *testing.T) {
	ctx := context.Background()
	c := openTestStore(t)

	doc := &models.KnowledgeDocument{ID: "d1", FileName: "guide.pdf", StorageURL: "/tmp/guide.pdf", ContentType: "application/pdf", Status: models.KnowledgeProcessing}
	if err := c.CreateKnowledgeDocument(ctx, doc); err != nil {
		t.Fatalf("create doc: %v", err)
	}
	chunks := []models.KnowledgeChunk{
		{DocumentID: "d1", Position: 0, Text: "residency", Embedding: []float32{1, 0, 0}},
		{DocumentID: "d1", Position: 1, Text: "custody", Embedding: []float32{0, 1, 0}},
		{DocumentID: "d1", Position: 2, Text: "support", Embedding: []float32{0.7, 0.7, 0}},
	}
	if err := c.InsertKnowledgeChunks(ctx, chunks); err != nil {
		t.Fatalf("insert chunks: %v", err)
	}

	if got, _ := c.SearchKnowledgeChunks(ctx, []float32{1, 0, 0}, 2); len(got) != 0 {
		t.Fatal("chunks of documents still processing must not be returned")
	}
	if err := c.UpdateKnowledgeDocumentStatus(ctx, "d1", models.KnowledgeReady); err != nil {
		t.Fatalf("update status: %v", err)
	}
	if err := c.UpdateKnowledgeDocumentStatus(ctx, "nope", models.KnowledgeReady); err == nil {
		t.Fatal("updating a missing document should fail")
	}

	got, err := c.SearchKnowledgeChunks(ctx, []float32{1, 0.1, 0}, 2)
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 2 || got[0].Text != "residency" || got[1].Text != "support" {
		t.Fatalf("unexpected ranking: %+v", got)
	}

	docs, err := c.ListKnowledgeDocuments(ctx)
	if err != nil || len(docs) != 1 || docs[0].Status != models.KnowledgeReady {
		t.Fatalf("list docs: %v %+v", err, docs)
	}
}

func TestCosineSimilarity(t *testing.T) {
	if s := CosineSimilarity([]float32{1, 0}, []float32{1, 0}); s < 0.999 {
		t.Fatalf("identical vectors: %v", s)
	}
	if s := CosineSimilarity([]float32{1, 0}, []float32{0, 1}); s != 0 {
		t.Fatalf("orthogonal vectors: %v", s)
	}
	if s := CosineSimilarity([]float32{1}, []float32{1, 2}); s != 0 {
		t.Fatalf("mismatched lengths: %v", s)
	}
}
