package ingestion_engine

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/markdave123-py/Uncouple/internal/core"
	objectclient "github.com/markdave123-py/Uncouple/internal/core/object-client"
	"github.com/markdave123-py/Uncouple/internal/models"
)

// NewKnowledgeIngestor constructs the ingestor with a bounded job queue (64).
// obj may be nil when documents are only read from local paths.
func NewKnowledgeIngestor(db core.DbClient, obj core.ObjectClient, emb core.EmbeddingProvider, extractor core.DocumentExtractor, cfg *IngestConfig) *KnowledgeIngestor {
	if cfg == nil {
		cfg = DefaultIngestConfig()
	}
	return &KnowledgeIngestor{
		db: db, obj: obj, embedder: emb, extractor: extractor, cfg: cfg,
		jobs: make(chan string, 64),
	}
}

// Start runs numWorkers goroutines reading from the jobs channel until ctx
// is done.
func (i *KnowledgeIngestor) Start(ctx context.Context, numWorkers int) {
	for w := 1; w <= numWorkers; w++ {
		go func(w int) {
			for {
				select {
				case <-ctx.Done():
					log.Printf("KnowledgeIngestor: worker %d shutting down", w)
					return
				case docID := <-i.jobs:
					log.Printf("KnowledgeIngestor: worker %d processing document %s", w, docID)
					if err := i.ProcessOne(ctx, docID); err != nil {
						log.Printf("KnowledgeIngestor: document %s failed: %v", docID, err)
					}
				}
			}
		}(w)
	}
}

// Enqueue schedules a document ID for ingestion. It blocks while the queue
// is full.
func (i *KnowledgeIngestor) Enqueue(docID string) {
	i.jobs <- docID
}

// ProcessOne extracts, chunks, embeds and persists one document, leaving it
// "ready" on success and "failed" otherwise.
func (i *KnowledgeIngestor) ProcessOne(ctx context.Context, docID string) error {
	doc, err := i.db.GetKnowledgeDocumentByID(ctx, docID)
	if err != nil {
		return fmt.Errorf("load document %s: %w", docID, err)
	}
	if doc == nil {
		return fmt.Errorf("document not found: %s", docID)
	}

	procCtx, cancel := context.WithTimeout(ctx, 5*time.Minute)
	defer cancel()

	if err := i.db.UpdateKnowledgeDocumentStatus(procCtx, docID, models.KnowledgeProcessing); err != nil {
		return fmt.Errorf("mark processing: %w", err)
	}

	written, err := i.run(procCtx, doc)
	if err != nil {
		if uerr := i.db.UpdateKnowledgeDocumentStatus(ctx, docID, models.KnowledgeFailed); uerr != nil {
			log.Printf("WARN: could not mark document %s failed: %v", docID, uerr)
		}
		return err
	}

	log.Printf("KnowledgeIngestor: document %s stored as %d chunks", docID, written)
	return i.db.UpdateKnowledgeDocumentStatus(ctx, docID, models.KnowledgeReady)
}

func (i *KnowledgeIngestor) run(ctx context.Context, doc *models.KnowledgeDocument) (int, error) {
	data, err := i.load(ctx, doc.StorageURL)
	if err != nil {
		return 0, err
	}

	g, gctx := errgroup.WithContext(ctx)

	fragCh, err := i.extractor.ExtractText(gctx, g, data, doc.ContentType)
	if err != nil {
		return 0, fmt.Errorf("extract: %w", err)
	}
	chunkCh := streamChunk(gctx, g, fragCh, i.cfg.TargetTokens, i.cfg.OverlapTokens)

	var written int
	g.Go(func() error {
		n, err := i.embedAndPersist(gctx, doc.ID, chunkCh, i.cfg.BatchSize)
		written = n
		return err
	})

	if err := g.Wait(); err != nil {
		return written, err
	}
	return written, nil
}

// load reads the document from S3 when StorageURL is an S3 URL and from
// the local filesystem otherwise.
func (i *KnowledgeIngestor) load(ctx context.Context, storageURL string) ([]byte, error) {
	if bucket, key, ok := objectclient.ParseObjectURL(storageURL); ok {
		if i.obj == nil {
			return nil, fmt.Errorf("fetch %s: %w", storageURL, core.ErrNotConfigured)
		}
		data, err := i.obj.GetFile(ctx, bucket, key)
		if err != nil {
			return nil, fmt.Errorf("get object: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(storageURL)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", storageURL, err)
	}
	return data, nil
}
