package app

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/markdave123-py/Uncouple/internal/config"
	"github.com/markdave123-py/Uncouple/internal/core"
	"github.com/markdave123-py/Uncouple/internal/core/forms"
)

func TestTemplateSourceSelection(t *testing.T) {
	dir := t.TempDir()
	if _, err := forms.SeedTemplates(dir); err != nil {
		t.Fatal(err)
	}

	for _, src := range []string{"", "builtin", "dir"} {
		gen, err := NewGenerator(&config.Config{TemplateSource: src, TemplateDir: dir}, nil)
		if err != nil {
			t.Fatalf("%q: %v", src, err)
		}
		doc, err := gen.GenerateOne(context.Background(), forms.UD1, sampleFormRecord())
		if err != nil || !strings.Contains(doc.Text, "Jane Doe") {
			t.Fatalf("%q: generate: %v", src, err)
		}
	}

	if _, err := NewGenerator(&config.Config{TemplateSource: "s3"}, nil); !errors.Is(err, core.ErrNotConfigured) {
		t.Fatalf("s3 without a client should be unconfigured, got %v", err)
	}
	if _, err := NewGenerator(&config.Config{TemplateSource: "ftp"}, nil); err == nil {
		t.Fatal("unknown source should fail")
	}
}

func TestNewAppWithoutOptionalServices(t *testing.T) {
	cfg := &config.Config{
		DatabaseURL:     "sqlite://" + t.TempDir() + "/app.db",
		TemplateSource:  "builtin",
		LLMProvider:     "gemini",
		ChatMaxMessages: 20,
		IngestWorkers:   1,
		KnowledgeDir:    t.TempDir(),
	}
	a, err := NewApp(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	defer a.Close()

	if a.ObjectClient != nil || a.DocProcessor != nil {
		t.Fatal("object storage and ingestion need credentials")
	}
	if a.Services.Chat.Configured() || a.Services.Payments.Configured() {
		t.Fatal("chat and payments need keys")
	}
	a.StartWorkers(context.Background())
}
